// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package backend

import (
	"fmt"
	"sort"
	"time"

	"github.com/staranto/wtyctlgo/internal/product"
)

// Backend persists the whole product collection.
type Backend interface {
	// Load returns the stored products, newest first. On malformed data it
	// returns an empty collection together with a *PersistenceError.
	Load() ([]product.Product, error)
	// Save replaces the stored collection.
	Save([]product.Product) error
	String() string
}

// PersistenceError reports a failed read or write of the store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// SortNewestFirst orders products by createdAt, newest first. Products with
// equal or unparseable timestamps keep their relative order.
func SortNewestFirst(products []product.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return createdAt(products[i]).After(createdAt(products[j]))
	})
}

func createdAt(p product.Product) time.Time {
	t, err := time.Parse(time.RFC3339Nano, p.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}
