// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
)

// filterRegex is the pattern used to parse filter expressions into key, operator, and target components.
// Operators are one of = ^ ~ < > @ or /, optionally prefixed with '!'.
var filterRegex = regexp.MustCompile(`^(.*?)(!?[=^~<>@/])(.*)$`)

// Filter represents a single parsed --filter expression including the key,
// operand, optional negation and target value.
type Filter struct {
	Key     string
	Negate  bool
	Operand string
	Target  string
}

// BuildFilters parses a filter specification string into a slice of Filter.
// Invalid specs (unsupported operand or malformed expression) are skipped.
func BuildFilters(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter

	if strings.TrimSpace(spec) == "" {
		return filters
	}

	// Default delimiter is ",", allow an override.
	delim := ","
	if d, ok := os.LookupEnv("WTYCTL_FILTER_DELIM"); ok {
		delim = d
	}

	for _, filterSpec := range strings.Split(spec, delim) {
		parts := filterRegex.FindStringSubmatch(strings.TrimSpace(filterSpec))
		if parts == nil || parts[1] == "" {
			log.Error("invalid filter: " + filterSpec)
			continue
		}

		// parts[2] is the operand. It may have a leading negation.
		negate := strings.HasPrefix(parts[2], "!")
		if negate {
			parts[2] = strings.TrimPrefix(parts[2], "!")
		}

		filters = append(filters, Filter{
			Key:     parts[1],
			Negate:  negate,
			Operand: parts[2],
			Target:  parts[3],
		})
	}

	return filters
}

// MatchExpr returns true if the candidate document matches all of the
// provided filters. Keys are gjson paths into the candidate. Values the
// candidate does not carry are looked up in derived, which lets callers
// expose computed fields such as the warranty status.
func MatchExpr(candidate gjson.Result, derived map[string]any, filters []Filter) bool {
	for _, filter := range filters {
		var value any
		if v, ok := derived[filter.Key]; ok {
			value = v
		} else if r := candidate.Get(filter.Key); r.Exists() {
			value = r.Value()
		}

		if value == nil || !filter.holds(value) {
			return false
		}
	}

	return true
}

// holds dispatches on the value's type.
func (f Filter) holds(value any) bool {
	switch v := value.(type) {
	case string:
		return checkStringOperand(v, f)
	case bool:
		return checkStringOperand(strconv.FormatBool(v), f)
	}
	if num, ok := toFloat64(value); ok {
		return checkNumericOperand(num, f)
	}
	if f.Operand == "@" {
		return checkContainsOperand(value, f)
	}
	return true
}

// result applies the filter's negation to a raw comparison.
func (f Filter) result(matched bool) bool {
	return matched != f.Negate
}

// checkContainsOperand is the @ operand for list and object values.
func checkContainsOperand(value any, filter Filter) bool {
	switch val := value.(type) {
	case []any:
		return filter.result(slices.Contains(val, any(filter.Target)))
	case map[string]any:
		_, found := val[filter.Target]
		return filter.result(found)
	}
	log.Errorf("cannot apply @ to %T", value)
	return false
}

// checkNumericOperand supports = > and <. The target must parse as a number.
func checkNumericOperand(value float64, filter Filter) bool {
	tgt, err := strconv.ParseFloat(strings.TrimSpace(filter.Target), 64)
	if err != nil {
		log.Errorf("filter %s: %q is not a number", filter.Key, filter.Target)
		return false
	}

	var matched bool
	switch filter.Operand {
	case "=":
		matched = value == tgt
	case ">":
		matched = value > tgt
	case "<":
		matched = value < tgt
	default:
		log.Errorf("filter %s: operand %s needs a string value", filter.Key, filter.Operand)
		return false
	}
	return filter.result(matched)
}

func checkStringOperand(value string, filter Filter) bool {
	var matched bool
	switch filter.Operand {
	case "=":
		matched = value == filter.Target
	case "~":
		matched = strings.EqualFold(value, filter.Target)
	case "^":
		matched = strings.HasPrefix(value, filter.Target)
	case ">":
		matched = value > filter.Target
	case "<":
		matched = value < filter.Target
	case "@":
		matched = strings.Contains(value, filter.Target)
	case "/":
		re, err := regexp.Compile(filter.Target)
		if err != nil {
			log.Errorf("filter %s: bad pattern %q", filter.Key, filter.Target)
			return false
		}
		matched = re.MatchString(value)
	default:
		log.Errorf("filter %s: unknown operand %s", filter.Key, filter.Operand)
		return false
	}
	return filter.result(matched)
}

// toFloat64 normalizes the numeric types gjson and derived values produce.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
