// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package transfer

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/staranto/wtyctlgo/internal/product"
)

var now = time.Date(2025, 3, 14, 9, 26, 53, 589_000_000, time.UTC)

func sequence() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("new-%d", n)
	}
}

func TestExport(t *testing.T) {
	products := []product.Product{
		{ID: "a1", Name: "Phone", PurchaseDate: "2024-06-01", WarrantyPeriod: 12, Price: 2999, CreatedAt: "2024-06-02T10:00:00.000Z"},
	}

	data, err := Export(products, now)
	require.NoError(t, err)

	doc := gjson.ParseBytes(data)
	assert.Equal(t, "1.0", doc.Get("version").String())
	assert.Equal(t, "2025-03-14T09:26:53.589Z", doc.Get("exportDate").String())
	assert.Equal(t, "Phone", doc.Get("products.0.name").String())
	assert.False(t, doc.Get("products.0.importedAt").Exists())
	assert.Contains(t, string(data), "\n  \"products\"")

	empty, err := Export(nil, now)
	require.NoError(t, err)
	assert.True(t, gjson.GetBytes(empty, "products").IsArray())
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "product_data_2025-03-14.json", FileName(now))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		reason string
		check  func(t *testing.T, got []product.Product)
	}{
		{
			name:   "not json",
			data:   `{"products": [`,
			reason: "not valid JSON",
		},
		{
			name:   "not an object",
			data:   `[1, 2]`,
			reason: "document is not an object",
		},
		{
			name:   "missing products",
			data:   `{"version": "1.0"}`,
			reason: "missing products",
		},
		{
			name:   "products not an array",
			data:   `{"products": {"id": "a1"}}`,
			reason: "products is not an array",
		},
		{
			name:   "element not an object",
			data:   `{"products": [{"id": "a1"}, 7]}`,
			reason: "products[1] is not an object",
		},
		{
			name: "empty list",
			data: `{"products": []}`,
			check: func(t *testing.T, got []product.Product) {
				assert.NotNil(t, got)
				assert.Empty(t, got)
			},
		},
		{
			name: "fields preserved and stamped",
			data: `{"products": [{"id": "a1", "name": "Phone", "brand": "Acme", "purchaseDate": "2024-06-01",
				"warrantyPeriod": 12, "price": 2999.5, "notes": "boxed",
				"createdAt": "2024-06-02T10:00:00.000Z", "updatedAt": "2024-06-03T10:00:00.000Z"}]}`,
			check: func(t *testing.T, got []product.Product) {
				require.Len(t, got, 1)
				assert.Equal(t, product.Product{
					ID: "a1", Name: "Phone", Brand: "Acme", PurchaseDate: "2024-06-01",
					WarrantyPeriod: 12, Price: 2999.5, Notes: "boxed",
					CreatedAt:  "2024-06-02T10:00:00.000Z",
					UpdatedAt:  "2024-06-03T10:00:00.000Z",
					ImportedAt: "2025-03-14T09:26:53.589Z",
				}, got[0])
			},
		},
		{
			name: "ids assigned",
			data: `{"products": [{"name": "A"}, {"id": "x", "name": "B"}, {"id": "x", "name": "C"}, {"id": "", "name": "D"}]}`,
			check: func(t *testing.T, got []product.Product) {
				require.Len(t, got, 4)
				assert.Equal(t, []string{"new-1", "x", "new-2", "new-3"},
					[]string{got[0].ID, got[1].ID, got[2].ID, got[3].ID})
				assert.Equal(t, "C", got[2].Name)
			},
		},
		{
			name: "defaults and coercion",
			data: `{"products": [{"id": "a1", "warrantyPeriod": "24", "price": "10.5"}]}`,
			check: func(t *testing.T, got []product.Product) {
				require.Len(t, got, 1)
				assert.Equal(t, 24, got[0].WarrantyPeriod)
				assert.Equal(t, 10.5, got[0].Price)
				assert.Equal(t, "2025-03-14T09:26:53.589Z", got[0].CreatedAt)
				assert.Equal(t, "", got[0].UpdatedAt)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.data), now, sequence())
			if tt.reason != "" {
				var fe *ImportFormatError
				require.True(t, errors.As(err, &fe), "got %v", err)
				assert.Equal(t, tt.reason, fe.Reason)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestExportDecodeRoundTrip(t *testing.T) {
	products := []product.Product{
		{ID: "b2", Name: "Laptop", Category: "Computers", PurchaseDate: "2025-01-31", WarrantyPeriod: 24,
			CreatedAt: "2025-02-01T08:00:00.000Z", UpdatedAt: "2025-02-05T08:00:00.000Z"},
		{ID: "a1", Name: "Kettle", PurchaseDate: "2023-05-20", CreatedAt: "2023-05-21T08:00:00.000Z"},
	}

	data, err := Export(products, now)
	require.NoError(t, err)

	got, err := Decode(data, now, sequence())
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range products {
		want := products[i]
		want.ImportedAt = product.Timestamp(now)
		assert.Equal(t, want, got[i])
	}
}

func TestDiff(t *testing.T) {
	current := []product.Product{
		{ID: "a1", Name: "Kettle", CreatedAt: "2023-05-21T08:00:00.000Z"},
		{ID: "b2", Name: "Laptop", CreatedAt: "2025-02-01T08:00:00.000Z"},
	}

	t.Run("unchanged", func(t *testing.T) {
		incoming := []product.Product{current[1], current[0]}
		incoming[0].ImportedAt = product.Timestamp(now)

		out, changed, err := Diff(current, incoming)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Empty(t, out)
	})

	t.Run("changed", func(t *testing.T) {
		incoming := []product.Product{
			{ID: "a1", Name: "Electric Kettle", CreatedAt: "2023-05-21T08:00:00.000Z"},
			{ID: "c3", Name: "Drill", CreatedAt: "2025-03-01T08:00:00.000Z"},
		}

		out, changed, err := Diff(current, incoming)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Contains(t, out, "Electric Kettle")
		assert.Contains(t, out, "Drill")
		assert.Contains(t, out, "Laptop")
	})

	t.Run("empty to empty", func(t *testing.T) {
		_, changed, err := Diff(nil, []product.Product{})
		require.NoError(t, err)
		assert.False(t, changed)
	})
}
