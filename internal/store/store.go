// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"errors"
	"fmt"
	"slices"

	"github.com/apex/log"

	"github.com/staranto/wtyctlgo/internal/backend"
	"github.com/staranto/wtyctlgo/internal/product"
)

var (
	// ErrNotFound is returned when no product matches.
	ErrNotFound = errors.New("product not found")
	// ErrAmbiguous is returned when a reference matches more than one product.
	ErrAmbiguous = errors.New("product reference is ambiguous")
	// ErrDuplicateID is returned when adding a product whose id is taken.
	ErrDuplicateID = errors.New("product id already exists")
)

// Store is the ordered, in-memory product collection. Every mutation is
// written through to the backend before it returns. Store is not safe for
// concurrent use; the engine serialises access.
type Store struct {
	be       backend.Backend
	products []product.Product
	index    map[string]int
	version  uint64
}

// New returns an empty Store over be. Call Load to read what be holds.
func New(be backend.Backend) *Store {
	return &Store{be: be, index: map[string]int{}}
}

// Load replaces the collection with what the backend holds. On a load error
// the collection is empty and the error is returned for the caller to log.
func (s *Store) Load() error {
	products, err := s.be.Load()
	s.set(dedupe(products))
	return err
}

// Version changes on every mutation.
func (s *Store) Version() uint64 {
	return s.version
}

// Len returns the number of products.
func (s *Store) Len() int {
	return len(s.products)
}

// All returns a copy of the collection, newest first.
func (s *Store) All() []product.Product {
	return slices.Clone(s.products)
}

// Get returns the product with id.
func (s *Store) Get(id string) (product.Product, bool) {
	i, ok := s.index[id]
	if !ok {
		return product.Product{}, false
	}
	return s.products[i], true
}

// Add puts p at the front of the collection.
func (s *Store) Add(p product.Product) error {
	if _, ok := s.index[p.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
	}
	next := make([]product.Product, 0, len(s.products)+1)
	next = append(next, p)
	next = append(next, s.products...)
	s.set(next)
	s.sync()
	return nil
}

// Replace swaps in p for the product with the same id, keeping its position.
func (s *Store) Replace(p product.Product) error {
	i, ok := s.index[p.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, p.ID)
	}
	s.products[i] = p
	s.version++
	s.sync()
	return nil
}

// Delete removes the product with id and returns it.
func (s *Store) Delete(id string) (product.Product, error) {
	i, ok := s.index[id]
	if !ok {
		return product.Product{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	p := s.products[i]
	next := slices.Delete(slices.Clone(s.products), i, i+1)
	s.set(next)
	s.sync()
	return p, nil
}

// ReplaceAll swaps the whole collection for products, in the order given.
// Products must have unique ids.
func (s *Store) ReplaceAll(products []product.Product) error {
	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	s.set(slices.Clone(products))
	s.sync()
	return nil
}

// Clear empties the collection.
func (s *Store) Clear() {
	s.set(nil)
	s.sync()
}

func (s *Store) set(products []product.Product) {
	if products == nil {
		products = []product.Product{}
	}
	s.products = products
	s.index = make(map[string]int, len(products))
	for i, p := range products {
		s.index[p.ID] = i
	}
	s.version++
}

// sync writes the collection through. A failed write leaves the in-memory
// collection authoritative and is only logged.
func (s *Store) sync() {
	if err := s.be.Save(s.products); err != nil {
		log.WithError(err).Warn("failed to save products, changes kept in memory only")
	}
}

// dedupe drops later products whose id was already seen.
func dedupe(products []product.Product) []product.Product {
	seen := make(map[string]struct{}, len(products))
	out := make([]product.Product, 0, len(products))
	for _, p := range products {
		if _, ok := seen[p.ID]; ok {
			log.Warnf("dropping stored product with duplicate id %s", p.ID)
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}
