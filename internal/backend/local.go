// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"encoding/json"
	"fmt"

	"github.com/apex/log"

	"github.com/staranto/wtyctlgo/internal/kv"
	"github.com/staranto/wtyctlgo/internal/product"
)

// DefaultKey is the key the collection is stored under.
const DefaultKey = "productData"

// Local keeps the collection as a single JSON document in a kv.Store.
type Local struct {
	store *kv.Store
	key   string
}

// LocalOption configures a Local backend.
type LocalOption func(*Local)

// WithKey stores the collection under key instead of DefaultKey.
func WithKey(key string) LocalOption {
	return func(l *Local) {
		l.key = key
	}
}

// NewLocal returns a Local backend over store.
func NewLocal(store *kv.Store, opts ...LocalOption) *Local {
	l := &Local{store: store, key: DefaultKey}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load implements Backend.
func (l *Local) Load() ([]product.Product, error) {
	entry, ok, err := l.store.Get(l.key)
	if err != nil {
		return []product.Product{}, &PersistenceError{Op: "load", Err: err}
	}
	if !ok || len(entry.Data) == 0 {
		log.Debugf("no stored products at %s", l.store.Path(l.key))
		return []product.Product{}, nil
	}

	var products []product.Product
	if err := json.Unmarshal(entry.Data, &products); err != nil {
		return []product.Product{}, &PersistenceError{Op: "load", Err: fmt.Errorf("malformed product data: %w", err)}
	}
	if products == nil {
		products = []product.Product{}
	}

	SortNewestFirst(products)
	log.Debugf("loaded %d products", len(products))
	return products, nil
}

// Save implements Backend.
func (l *Local) Save(products []product.Product) error {
	if products == nil {
		products = []product.Product{}
	}
	data, err := json.Marshal(products)
	if err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	if err := l.store.Put(l.key, data); err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	return nil
}

func (l *Local) String() string {
	return "local:" + l.store.Path(l.key)
}
