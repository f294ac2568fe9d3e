// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package attrs

import (
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	hum "github.com/dustin/go-humanize"
)

// Attr represents each of the card fields to be included in the output.
type Attr struct {
	// The card field to extract.
	Key string
	// Should this Attr be included in output or is it just
	// intended for filtering and sorting?
	Include bool
	// The key to use in the output. This is also the column title when
	// output=text.
	OutputKey string
	// Transformation spec to apply to the output value.
	TransformSpec string
}

// now is the reference time of relative (h) transforms.
var now = time.Now

var lengthRe = regexp.MustCompile(`-?\d+`)

// Transform applies the attr's transform spec to value. Strings take every
// transform. Numbers only take h, which adds thousands separators.
func (a *Attr) Transform(value any) any {
	humanize := strings.ContainsAny(a.TransformSpec, "hH")

	switch v := value.(type) {
	case int:
		if humanize {
			return hum.Comma(int64(v))
		}
		return v
	case float64:
		if humanize {
			return hum.Commaf(v)
		}
		return v
	case string:
		// handled below
	default:
		return value
	}

	result := value.(string)
	switch {
	case humanize:
		result = relative(result)
	case strings.ContainsAny(a.TransformSpec, "tT"):
		result = a.localTime(result)
	}
	result = applyCase(result, a.TransformSpec)
	return applyLength(result, a.TransformSpec)
}

// relative turns a date or timestamp into "3 months ago" style text. Other
// strings pass through.
func relative(s string) string {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t, err = time.Parse(time.DateOnly, s); err != nil {
			return s
		}
	}
	return hum.RelTime(t, now(), "ago", "from now")
}

// localTime converts a UTC timestamp to the zone named by WTYCTL_TZ, or else
// TZ. Without either the value is used as is.
func (a *Attr) localTime(s string) string {
	tz := os.Getenv("WTYCTL_TZ")
	if tz == "" {
		tz = os.Getenv("TZ")
	}
	if tz == "" {
		return s
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return s
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		log.Error("failed to parse time: " + s)
		a.TransformSpec = strings.NewReplacer("t", "", "T", "").Replace(a.TransformSpec)
		return s
	}
	return t.In(loc).Format("2006-01-02T15:04:05MST")
}

// applyCase uses whichever case transformation appears last. A global spec
// is prepended to each attr's own, so the attr's carries more weight.
// IOW...  --attrs '*::U,name::l' will be lower case.
func applyCase(s, spec string) string {
	lastL := strings.LastIndexAny(spec, "lL")
	lastU := strings.LastIndexAny(spec, "uU")

	switch {
	case lastL > lastU:
		return strings.ToLower(s)
	case lastU > lastL:
		return strings.ToUpper(s)
	default:
		return s
	}
}

// applyLength truncates to N, or elides the middle for -N. As with case, the
// last length in spec wins.
func applyLength(s, spec string) string {
	match := lengthRe.FindAllString(spec, -1)
	if len(match) == 0 {
		return s
	}

	l, _ := strconv.Atoi(match[len(match)-1])
	abs := int(math.Abs(float64(l)))
	if len(s) <= abs {
		return s
	}
	if l >= 0 {
		return s[:l]
	}
	lr := abs/2 - 1
	return s[:lr] + ".." + s[len(s)-lr:]
}

// AttrList is the parsed value of an --attrs flag.
type AttrList []Attr

// Defaults returns the columns ls shows when --attrs adds nothing.
func Defaults() AttrList {
	keys := []string{"id", "name", "brand", "category", "purchaseDate", "statusText", "expiryDate", "daysRemaining"}
	list := make(AttrList, 0, len(keys))
	for _, k := range keys {
		list = append(list, Attr{Key: k, Include: true, OutputKey: k})
	}
	list[0].TransformSpec = "8"
	return list
}

// Return a string representation of the AttrList.  This should match the format
// of the original --attrs flag.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		result = append(result, fmt.Sprintf("%s:%s:%s", attr.Key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(result, ",")
}

// Set parses an --attrs value and merges each spec into the list. A spec
// naming an attr already present (by key or output key) replaces that attr's
// settings in place so column order is kept.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		return nil
	}

	for _, spec := range strings.Split(value, ",") {
		attr, err := parseSpec(spec)
		if err != nil {
			return fmt.Errorf("%w in %q", err, value)
		}
		a.merge(attr)
	}
	return nil
}

// parseSpec reads key[:outputKey[:transforms]]. A leading ! on the key keeps
// the attr for filtering and sorting but hides it.
func parseSpec(spec string) (Attr, error) {
	parts := strings.SplitN(spec, ":", 3)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	key, hidden := strings.CutPrefix(parts[0], "!")
	if key == "" {
		return Attr{}, errors.New("empty attr")
	}

	attr := Attr{Key: key, OutputKey: key, Include: !hidden && key != "*"}
	if len(parts) > 1 && parts[1] != "" {
		attr.OutputKey = parts[1]
	}
	if len(parts) > 2 {
		attr.TransformSpec = parts[2]
	}
	return attr, nil
}

func (a *AttrList) merge(attr Attr) {
	for i := range *a {
		existing := &(*a)[i]
		if existing.Key == attr.Key || existing.OutputKey == attr.Key {
			existing.Include = attr.Include
			existing.OutputKey = attr.OutputKey
			existing.TransformSpec = attr.TransformSpec
			return
		}
	}
	*a = append(*a, attr)
}

// SetGlobalTransformSpec inserts a global transform spec into the front of all
// attrs in the list.
func (alist *AttrList) SetGlobalTransformSpec() error { //nolint:unparam
	spec := ""

	// Find the global transform spec.  If there is more than one, we're not
	// dealing with it and just taking the first.
	for a := range *alist {
		if (*alist)[a].Key == "*" {
			spec = (*alist)[a].TransformSpec
			break
		}
	}

	// Return early if there is no global transform spec.
	if spec == "" {
		return nil
	}

	// Slam the global spec onto
	for a := range *alist {
		(*alist)[a].TransformSpec = spec + "," + (*alist)[a].TransformSpec
	}

	return nil
}

// Included returns the attrs that appear in output.
func (a AttrList) Included() AttrList {
	out := make(AttrList, 0, len(a))
	for _, attr := range a {
		if attr.Include {
			out = append(out, attr)
		}
	}
	return out
}

func (a *AttrList) Type() string {
	return "list"
}
