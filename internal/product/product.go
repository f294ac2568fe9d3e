// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package product

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the layout of purchase dates.
const DateLayout = "2006-01-02"

// TimestampLayout is the layout of createdAt, updatedAt and importedAt.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Product is a purchased item. The JSON names match the persisted format so
// exported documents round-trip unchanged.
type Product struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Brand          string  `json:"brand"`
	Model          string  `json:"model"`
	Category       string  `json:"category"`
	SerialNumber   string  `json:"serialNumber"`
	PurchaseDate   string  `json:"purchaseDate"`
	WarrantyPeriod int     `json:"warrantyPeriod"`
	Price          float64 `json:"price"`
	Store          string  `json:"store"`
	Notes          string  `json:"notes"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
	ImportedAt     string  `json:"importedAt,omitempty"`
}

// Input holds the user editable fields of a Product.
type Input struct {
	Name           string
	Brand          string
	Model          string
	Category       string
	SerialNumber   string
	PurchaseDate   string
	WarrantyPeriod int
	Price          float64
	Store          string
	Notes          string
}

// NewID returns a fresh product id.
func NewID() string {
	return uuid.NewString()
}

// Timestamp formats t the way product timestamps are stored.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseDate parses a purchase date. Full RFC 3339 timestamps are accepted
// and truncated to their date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// New builds a product from validated input, stamping id and timestamps.
func New(in Input, now time.Time) Product {
	ts := Timestamp(now)
	p := Product{ID: NewID(), CreatedAt: ts, UpdatedAt: ts}
	p.apply(in)
	return p
}

// Edit returns a copy of p carrying in and a fresh updatedAt. The new
// timestamp is always later than the previous content version so cache keys
// derived from it change.
func (p Product) Edit(in Input, now time.Time) Product {
	p.apply(in)
	ts := now.UTC()
	if prev, err := time.Parse(TimestampLayout, p.ContentVersion()); err == nil && !ts.After(prev) {
		ts = prev.Add(time.Millisecond)
	}
	p.UpdatedAt = Timestamp(ts)
	return p
}

// Input returns the editable fields of p.
func (p Product) Input() Input {
	return Input{
		Name:           p.Name,
		Brand:          p.Brand,
		Model:          p.Model,
		Category:       p.Category,
		SerialNumber:   p.SerialNumber,
		PurchaseDate:   p.PurchaseDate,
		WarrantyPeriod: p.WarrantyPeriod,
		Price:          p.Price,
		Store:          p.Store,
		Notes:          p.Notes,
	}
}

func (p *Product) apply(in Input) {
	p.Name = strings.TrimSpace(in.Name)
	p.Brand = strings.TrimSpace(in.Brand)
	p.Model = strings.TrimSpace(in.Model)
	p.Category = strings.TrimSpace(in.Category)
	p.SerialNumber = strings.TrimSpace(in.SerialNumber)
	p.PurchaseDate = strings.TrimSpace(in.PurchaseDate)
	p.WarrantyPeriod = in.WarrantyPeriod
	p.Price = in.Price
	p.Store = strings.TrimSpace(in.Store)
	p.Notes = in.Notes
}

// ContentVersion is updatedAt, or createdAt for products never edited.
func (p Product) ContentVersion() string {
	if p.UpdatedAt != "" {
		return p.UpdatedAt
	}
	return p.CreatedAt
}

// IsDuplicate reports whether an existing product has the same name, brand
// and model, compared case-insensitively.
func IsDuplicate(existing []Product, in Input) bool {
	norm := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	for _, p := range existing {
		if norm(p.Name) == norm(in.Name) &&
			norm(p.Brand) == norm(in.Brand) &&
			norm(p.Model) == norm(in.Model) {
			return true
		}
	}
	return false
}
