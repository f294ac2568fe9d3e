// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/staranto/wtyctlgo/internal/product"
	"github.com/staranto/wtyctlgo/internal/warranty"
)

// Criteria are the active filter values. An empty value matches everything.
type Criteria struct {
	Search   string
	Category string
	Status   string
	Expr     string
}

// Active reports whether any criterion is set.
func (c Criteria) Active() bool {
	return strings.TrimSpace(c.Search) != "" ||
		strings.TrimSpace(c.Category) != "" ||
		strings.TrimSpace(c.Status) != "" ||
		strings.TrimSpace(c.Expr) != ""
}

// Signature summarizes c. Two criteria with the same signature select the
// same products. Only the search term is case-folded because it is the only
// case-insensitive criterion.
func (c Criteria) Signature() string {
	return strings.Join([]string{
		strings.ToLower(strings.TrimSpace(c.Search)),
		strings.TrimSpace(c.Category),
		strings.TrimSpace(c.Status),
		strings.TrimSpace(c.Expr),
	}, "\x1f")
}

// StatusFunc returns the current warranty status of a product.
type StatusFunc func(product.Product) warranty.Status

// Engine derives the visible subset of a collection. It remembers the last
// subset and returns it again while neither the criteria signature nor the
// collection version changed. Engine is not safe for concurrent use.
type Engine struct {
	status StatusFunc

	valid      bool
	signature  string
	version    uint64
	subset     []product.Product
	recomputes int
}

// NewEngine returns an Engine evaluating status predicates with status.
func NewEngine(status StatusFunc) *Engine {
	return &Engine{status: status}
}

// Apply returns the products of all matching c, in input order. version
// must change whenever the content of products does.
func (e *Engine) Apply(products []product.Product, version uint64, c Criteria) []product.Product {
	sig := c.Signature()
	if e.valid && sig == e.signature && version == e.version {
		return slices.Clone(e.subset)
	}

	e.recomputes++
	m := newMatcher(c, e.status)
	subset := make([]product.Product, 0, len(products))
	for _, p := range products {
		if m.match(p) {
			subset = append(subset, p)
		}
	}

	e.valid = true
	e.signature = sig
	e.version = version
	e.subset = subset
	return slices.Clone(subset)
}

// Reset drops the remembered subset.
func (e *Engine) Reset() {
	e.valid = false
	e.subset = nil
}

// Recomputes returns how many times Apply actually filtered.
func (e *Engine) Recomputes() int {
	return e.recomputes
}

// Match reports whether p satisfies c.
func Match(p product.Product, c Criteria, status StatusFunc) bool {
	return newMatcher(c, status).match(p)
}

type matcher struct {
	search   string
	category string
	status   string
	exprs    []Filter
	statusOf StatusFunc
}

func newMatcher(c Criteria, status StatusFunc) matcher {
	return matcher{
		search:   strings.ToLower(strings.TrimSpace(c.Search)),
		category: strings.TrimSpace(c.Category),
		status:   strings.TrimSpace(c.Status),
		exprs:    BuildFilters(c.Expr),
		statusOf: status,
	}
}

func (m matcher) match(p product.Product) bool {
	if m.search != "" && !containsFold(m.search, p.Name, p.Brand, p.Model, p.Category) {
		return false
	}

	if m.category != "" && p.Category != m.category {
		return false
	}

	var st warranty.Status
	if m.status != "" || len(m.exprs) > 0 {
		st = m.statusOf(p)
	}

	if m.status != "" && string(st) != m.status {
		return false
	}

	if len(m.exprs) > 0 {
		raw, err := json.Marshal(p)
		if err != nil {
			log.WithError(err).Error("failed to encode product for filtering")
			return false
		}
		derived := map[string]any{"status": string(st)}
		if !MatchExpr(gjson.ParseBytes(raw), derived, m.exprs) {
			return false
		}
	}

	return true
}

func containsFold(term string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
