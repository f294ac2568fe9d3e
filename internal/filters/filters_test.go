// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name      string
		spec      string
		delimiter string
		want      []Filter
	}{
		{
			name: "empty spec",
			spec: "",
		},
		{
			name: "blank spec",
			spec: "   ",
		},
		{
			name: "single exact match filter",
			spec: "brand=Acme",
			want: []Filter{{Key: "brand", Operand: "=", Target: "Acme"}},
		},
		{
			name: "negated prefix match",
			spec: "model!^X",
			want: []Filter{{Key: "model", Operand: "^", Target: "X", Negate: true}},
		},
		{
			name: "multiple filters with spaces",
			spec: "price>100, store@Mall",
			want: []Filter{
				{Key: "price", Operand: ">", Target: "100"},
				{Key: "store", Operand: "@", Target: "Mall"},
			},
		},
		{
			name: "regex operand",
			spec: "serialNumber/^SN-\\d+$",
			want: []Filter{{Key: "serialNumber", Operand: "/", Target: "^SN-\\d+$"}},
		},
		{
			name: "invalid filter skipped",
			spec: "brand=Acme,nonsense,warrantyPeriod<24",
			want: []Filter{
				{Key: "brand", Operand: "=", Target: "Acme"},
				{Key: "warrantyPeriod", Operand: "<", Target: "24"},
			},
		},
		{
			name: "missing key skipped",
			spec: "=Acme",
		},
		{
			name:      "custom delimiter",
			spec:      "notes@a,b|brand=Acme",
			delimiter: "|",
			want: []Filter{
				{Key: "notes", Operand: "@", Target: "a,b"},
				{Key: "brand", Operand: "=", Target: "Acme"},
			},
		},
		{
			name: "empty target",
			spec: "notes=",
			want: []Filter{{Key: "notes", Operand: "=", Target: ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.delimiter != "" {
				t.Setenv("WTYCTL_FILTER_DELIM", tt.delimiter)
			}

			got := BuildFilters(tt.spec)
			assert.Len(t, got, len(tt.want))
			for i, filter := range tt.want {
				assert.Equal(t, filter, got[i])
			}
		})
	}
}

func TestMatchExpr(t *testing.T) {
	doc := gjson.Parse(`{"name":"Phone","brand":"Acme","price":199.5,"warrantyPeriod":12,"notes":"","tags":["gift","work"]}`)
	derived := map[string]any{"status": "expiring"}

	tests := []struct {
		name string
		spec string
		want bool
	}{
		{"no filters", "", true},
		{"string equal", "brand=Acme", true},
		{"string equal wrong case", "brand=acme", false},
		{"case insensitive", "brand~acme", true},
		{"numeric greater", "price>100", true},
		{"numeric not equal", "warrantyPeriod!=12", false},
		{"all must hold", "brand=Acme,price<100", false},
		{"derived status", "status=expiring", true},
		{"derived status negated", "status!=expiring", false},
		{"missing key", "color=red", false},
		{"contains in array", "tags@gift", true},
		{"negated contains in array", "tags!@gift", false},
		{"empty string value", "notes=", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchExpr(doc, derived, BuildFilters(tt.spec)))
		})
	}
}

func TestCheckStringOperand(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		filter Filter
		want   bool
	}{
		{"exact match true", "Acme", Filter{Operand: "=", Target: "Acme"}, true},
		{"exact match false", "Acme", Filter{Operand: "=", Target: "Initech"}, false},
		{"negated exact match true", "Acme", Filter{Operand: "=", Target: "Initech", Negate: true}, true},
		{"prefix match true", "X100", Filter{Operand: "^", Target: "X"}, true},
		{"prefix match false", "Y100", Filter{Operand: "^", Target: "X"}, false},
		{"case insensitive match true", "ACME", Filter{Operand: "~", Target: "acme"}, true},
		{"case insensitive is not contains", "Acme Corp", Filter{Operand: "~", Target: "acme"}, false},
		{"contains true", "Big Mall North", Filter{Operand: "@", Target: "Mall"}, true},
		{"negated contains true", "Corner Shop", Filter{Operand: "@", Target: "Mall", Negate: true}, true},
		{"regex match true", "SN-12345", Filter{Operand: "/", Target: `^SN-\d+$`}, true},
		{"negated regex match", "12345", Filter{Operand: "/", Target: "^SN-", Negate: true}, true},
		{"dates compare as strings", "2024-06-01", Filter{Operand: ">", Target: "2024-01-01"}, true},
		{"less than string", "2023-12-31", Filter{Operand: "<", Target: "2024-01-01"}, true},
		{"invalid regex", "SN-1", Filter{Operand: "/", Target: "[invalid"}, false},
		{"unsupported operand", "Acme", Filter{Operand: "?", Target: "Acme"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkStringOperand(tt.value, tt.filter))
		})
	}
}

func TestCheckNumericOperand(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		filter Filter
		want   bool
	}{
		{"exact match true", 12, Filter{Operand: "=", Target: "12"}, true},
		{"negated equal false", 12, Filter{Operand: "=", Target: "12", Negate: true}, false},
		{"greater than true", 250, Filter{Operand: ">", Target: "199.99"}, true},
		{"less than false", 250, Filter{Operand: "<", Target: "100"}, false},
		{"float value with integer target", 99.5, Filter{Operand: "<", Target: "100"}, true},
		{"target with spaces", 12, Filter{Operand: "=", Target: " 12 "}, true},
		{"invalid target", 12, Filter{Operand: "=", Target: "twelve"}, false},
		{"unsupported operand", 12, Filter{Operand: "^", Target: "1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkNumericOperand(tt.value, tt.filter))
		})
	}
}

func TestCheckContainsOperand(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		filter Filter
		want   bool
	}{
		{"slice contains true", []any{"gift", "work"}, Filter{Operand: "@", Target: "work"}, true},
		{"slice contains false", []any{"gift"}, Filter{Operand: "@", Target: "work"}, false},
		{"negated slice contains", []any{"gift"}, Filter{Operand: "@", Target: "work", Negate: true}, true},
		{"map has key", map[string]any{"receipt": true}, Filter{Operand: "@", Target: "receipt"}, true},
		{"negated map has key", map[string]any{"receipt": true}, Filter{Operand: "@", Target: "receipt", Negate: true}, false},
		{"unsupported type", 42, Filter{Operand: "@", Target: "4"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkContainsOperand(tt.value, tt.filter))
		})
	}
}
