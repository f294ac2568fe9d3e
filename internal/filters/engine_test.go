// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/staranto/wtyctlgo/internal/product"
	"github.com/staranto/wtyctlgo/internal/warranty"
)

var catalog = []product.Product{
	{ID: "1", Name: "Phone", Brand: "Acme", Model: "X1", Category: "Electronics", Price: 999, PurchaseDate: "2024-01-15", WarrantyPeriod: 12},
	{ID: "2", Name: "Sofa", Brand: "Comfy", Model: "Lounge", Category: "Furniture", Price: 1500, PurchaseDate: "2022-01-01", WarrantyPeriod: 24},
	{ID: "3", Name: "Blender", Brand: "Whirl", Model: "B2", Category: "Kitchen", Price: 80, PurchaseDate: "2024-10-01", WarrantyPeriod: 0},
}

func statusByID(p product.Product) warranty.Status {
	return map[string]warranty.Status{
		"1": warranty.Expiring,
		"2": warranty.Expired,
		"3": warranty.Unknown,
	}[p.ID]
}

func ids(ps []product.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestSignature(t *testing.T) {
	a := Criteria{Search: "  PHONE ", Category: "Electronics"}
	b := Criteria{Search: "phone", Category: " Electronics"}
	assert.Equal(t, a.Signature(), b.Signature())

	c := Criteria{Search: "phone", Category: "electronics"}
	assert.NotEqual(t, a.Signature(), c.Signature())

	// Values can't bleed into a neighbouring field.
	assert.NotEqual(t,
		Criteria{Search: "a", Category: ""}.Signature(),
		Criteria{Search: "", Category: "a"}.Signature())

	assert.False(t, Criteria{Search: "  "}.Active())
	assert.True(t, Criteria{Status: "valid"}.Active())
	assert.True(t, Criteria{Expr: "price>1"}.Active())
}

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"no criteria", Criteria{}, []string{"1", "2", "3"}},
		{"category exact", Criteria{Category: "Electronics"}, []string{"1"}},
		{"category is case sensitive", Criteria{Category: "electronics"}, []string{}},
		{"search name", Criteria{Search: "sofa"}, []string{"2"}},
		{"search brand", Criteria{Search: "ACME"}, []string{"1"}},
		{"search model", Criteria{Search: "b2"}, []string{"3"}},
		{"search category", Criteria{Search: "kitch"}, []string{"3"}},
		{"search matches several", Criteria{Search: "o"}, []string{"1", "2"}},
		{"status", Criteria{Status: "expired"}, []string{"2"}},
		{"and combined", Criteria{Search: "o", Status: "expiring"}, []string{"1"}},
		{"and combined to nothing", Criteria{Category: "Kitchen", Status: "valid"}, []string{}},
		{"expression", Criteria{Expr: "price>500"}, []string{"1", "2"}},
		{"expression on status", Criteria{Expr: "status!=unknown,price<1000"}, []string{"1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(statusByID)
			assert.Equal(t, tt.want, ids(e.Apply(catalog, 1, tt.criteria)))
		})
	}
}

func TestApply_ShortCircuit(t *testing.T) {
	e := NewEngine(statusByID)
	c := Criteria{Search: "o"}

	first := e.Apply(catalog, 1, c)
	second := e.Apply(catalog, 1, Criteria{Search: " O "})
	assert.Equal(t, first, second)
	assert.Equal(t, 1, e.Recomputes())

	// Callers can't corrupt the remembered subset.
	first[0].Name = "changed"
	assert.Equal(t, "Phone", e.Apply(catalog, 1, c)[0].Name)

	// A new collection version recomputes.
	e.Apply(catalog[:1], 2, c)
	assert.Equal(t, 2, e.Recomputes())

	// So does new criteria.
	e.Apply(catalog[:1], 2, Criteria{Search: "x"})
	assert.Equal(t, 3, e.Recomputes())

	e.Reset()
	e.Apply(catalog[:1], 2, Criteria{Search: "x"})
	assert.Equal(t, 4, e.Recomputes())
}

func TestMatch(t *testing.T) {
	assert.True(t, Match(catalog[0], Criteria{Category: "Electronics"}, statusByID))
	assert.False(t, Match(catalog[1], Criteria{Category: "Electronics"}, statusByID))
}
