// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"fmt"
	"slices"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/staranto/wtyctlgo/internal/product"
	"github.com/staranto/wtyctlgo/internal/warranty"
)

// Field is one named value on a Card.
type Field struct {
	Key   string
	Value any
}

// Card is the view fragment built for one product. Field values are scalars
// (string, int, float64 or nil), so copying the field slice copies the card.
type Card struct {
	ID     string
	Status warranty.Status
	Fields []Field
}

// Clone returns an independent copy of c.
func (c Card) Clone() Card {
	c.Fields = slices.Clone(c.Fields)
	return c
}

// Get returns the value of the field named key.
func (c Card) Get(key string) (any, bool) {
	for _, f := range c.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// String returns the value of the field named key formatted for display.
func (c Card) String(key string) string {
	v, ok := c.Get(key)
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// Map returns the fields as a map.
func (c Card) Map() map[string]any {
	m := make(map[string]any, len(c.Fields))
	for _, f := range c.Fields {
		m[f.Key] = f.Value
	}
	return m
}

// Keys returns the field names in card order.
func (c Card) Keys() []string {
	keys := make([]string, 0, len(c.Fields))
	for _, f := range c.Fields {
		keys = append(keys, f.Key)
	}
	return keys
}

// Build constructs the card for p, whose warranty status is info, as seen at
// now.
func Build(p product.Product, info warranty.Info, now time.Time, currency string) Card {
	category := p.Category
	if category == "" {
		category = "Uncategorized"
	}

	var priceText string
	if p.Price > 0 {
		priceText = currency + " " + humanize.FormatFloat("#,###.##", p.Price)
	}

	var expiry, days, remaining any
	if info.HasExpiry() {
		expiry = info.Expiry.Format(product.DateLayout)
		days = info.DaysRemaining
		remaining = remainingText(info)
	}

	var age any
	if bought, err := product.ParseDate(p.PurchaseDate); err == nil {
		age = humanize.RelTime(bought, now, "ago", "from now")
	}

	return Card{
		ID:     p.ID,
		Status: info.Status,
		Fields: []Field{
			{"id", p.ID},
			{"name", p.Name},
			{"brand", p.Brand},
			{"model", p.Model},
			{"category", category},
			{"serialNumber", p.SerialNumber},
			{"purchaseDate", p.PurchaseDate},
			{"warrantyPeriod", p.WarrantyPeriod},
			{"price", p.Price},
			{"priceText", priceText},
			{"store", p.Store},
			{"notes", p.Notes},
			{"status", string(info.Status)},
			{"statusText", info.Status.Text()},
			{"expiryDate", expiry},
			{"daysRemaining", days},
			{"remaining", remaining},
			{"createdAt", p.CreatedAt},
			{"updatedAt", p.UpdatedAt},
			{"age", age},
		},
	}
}

func remainingText(info warranty.Info) string {
	d := info.DaysRemaining
	switch {
	case d == -1:
		return "expired 1 day ago"
	case d < 0:
		return fmt.Sprintf("expired %s days ago", humanize.Comma(int64(-d)))
	case d == 0:
		return "expires today"
	case d == 1:
		return "1 day left"
	default:
		return fmt.Sprintf("%s days left", humanize.Comma(int64(d)))
	}
}
