// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"slices"
	"sync"

	"github.com/staranto/wtyctlgo/internal/product"
)

// Memory is a Backend that keeps the collection in process. LoadErr and
// SaveErr, when set, are returned from Load and Save.
type Memory struct {
	mu       sync.Mutex
	products []product.Product
	saves    int

	LoadErr error
	SaveErr error
}

// NewMemory returns a Memory backend seeded with products.
func NewMemory(products ...product.Product) *Memory {
	return &Memory{products: slices.Clone(products)}
}

// Load implements Backend.
func (m *Memory) Load() ([]product.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.LoadErr != nil {
		return []product.Product{}, &PersistenceError{Op: "load", Err: m.LoadErr}
	}
	out := slices.Clone(m.products)
	if out == nil {
		out = []product.Product{}
	}
	SortNewestFirst(out)
	return out, nil
}

// Save implements Backend.
func (m *Memory) Save(products []product.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveErr != nil {
		return &PersistenceError{Op: "save", Err: m.SaveErr}
	}
	m.products = slices.Clone(products)
	m.saves++
	return nil
}

// Saved returns the last saved collection and how many saves succeeded.
func (m *Memory) Saved() ([]product.Product, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.products), m.saves
}

func (m *Memory) String() string {
	return "memory"
}
