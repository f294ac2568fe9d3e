// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/staranto/wtyctlgo/internal/product"
)

// FormatVersion is written into every export document.
const FormatVersion = "1.0"

// Document is the export/import file layout.
type Document struct {
	Products   []product.Product `json:"products"`
	ExportDate string            `json:"exportDate"`
	Version    string            `json:"version"`
}

// ErrMalformed is wrapped by the ImportFormatError for data that is not
// JSON at all.
var ErrMalformed = errors.New("malformed JSON")

// ImportFormatError reports a document that cannot be imported. Nothing has
// been changed when it is returned.
type ImportFormatError struct {
	Reason string
	Err    error
}

func (e *ImportFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid import data: %s: %v", e.Reason, e.Err)
	}
	return "invalid import data: " + e.Reason
}

func (e *ImportFormatError) Unwrap() error {
	return e.Err
}

// Export encodes products as an indented export document stamped with now.
func Export(products []product.Product, now time.Time) ([]byte, error) {
	if products == nil {
		products = []product.Product{}
	}
	doc := Document{
		Products:   products,
		ExportDate: product.Timestamp(now),
		Version:    FormatVersion,
	}
	return json.MarshalIndent(doc, "", "  ")
}

// FileName is the default export file name for a given day.
func FileName(now time.Time) string {
	return fmt.Sprintf("product_data_%s.json", now.UTC().Format(product.DateLayout))
}

// Decode parses an import document. Every product is stamped importedAt=now.
// Products without an id, or repeating an id seen earlier in the document,
// get one from newID. A missing createdAt defaults to the import time. Values
// of the wrong JSON type are coerced where gjson can, eg. "24" for
// warrantyPeriod.
func Decode(data []byte, now time.Time, newID func() string) ([]product.Product, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ImportFormatError{Reason: "not valid JSON", Err: ErrMalformed}
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, &ImportFormatError{Reason: "document is not an object"}
	}

	list := doc.Get("products")
	if !list.Exists() {
		return nil, &ImportFormatError{Reason: "missing products"}
	}
	if !list.IsArray() {
		return nil, &ImportFormatError{Reason: "products is not an array"}
	}

	stamp := product.Timestamp(now)
	seen := map[string]bool{}
	var (
		products []product.Product
		bad      error
	)

	list.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			bad = &ImportFormatError{Reason: fmt.Sprintf("products[%d] is not an object", key.Int())}
			return false
		}

		p := fromResult(value)
		if p.ID == "" || seen[p.ID] {
			if p.ID != "" {
				log.Warnf("duplicate id %s in import, assigning a new one", p.ID)
			}
			p.ID = newID()
		}
		seen[p.ID] = true

		if p.CreatedAt == "" {
			p.CreatedAt = stamp
		}
		p.ImportedAt = stamp

		products = append(products, p)
		return true
	})

	if bad != nil {
		return nil, bad
	}
	if products == nil {
		products = []product.Product{}
	}

	log.Debugf("decoded %d products for import", len(products))
	return products, nil
}

func fromResult(r gjson.Result) product.Product {
	return product.Product{
		ID:             r.Get("id").String(),
		Name:           r.Get("name").String(),
		Brand:          r.Get("brand").String(),
		Model:          r.Get("model").String(),
		Category:       r.Get("category").String(),
		SerialNumber:   r.Get("serialNumber").String(),
		PurchaseDate:   r.Get("purchaseDate").String(),
		WarrantyPeriod: int(r.Get("warrantyPeriod").Int()),
		Price:          r.Get("price").Float(),
		Store:          r.Get("store").String(),
		Notes:          r.Get("notes").String(),
		CreatedAt:      r.Get("createdAt").String(),
		UpdatedAt:      r.Get("updatedAt").String(),
	}
}
