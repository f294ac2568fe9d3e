// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package warranty

import (
	"strconv"
	"time"

	"github.com/staranto/wtyctlgo/internal/product"
)

type memoEntry struct {
	key  string
	info Info
}

// Memo is a side table of computed statuses by product id. An entry is
// reused only while the product's purchase date and warranty period are
// unchanged. Memo is not safe for concurrent use.
type Memo struct {
	calc    Calculator
	entries map[string]memoEntry
	hits    int
	misses  int
}

// NewMemo returns an empty Memo computing through calc.
func NewMemo(calc Calculator) *Memo {
	return &Memo{calc: calc, entries: make(map[string]memoEntry)}
}

// MemoKey is the key a product's memo entry is stored against.
func MemoKey(p product.Product) string {
	return p.PurchaseDate + "_" + strconv.Itoa(p.WarrantyPeriod)
}

// Status returns p's warranty status, from the memo when its key still
// matches.
func (m *Memo) Status(p product.Product, now time.Time) Info {
	key := MemoKey(p)
	if e, ok := m.entries[p.ID]; ok && e.key == key {
		m.hits++
		return e.info
	}

	m.misses++
	info := m.calc.Compute(p.PurchaseDate, p.WarrantyPeriod, now)
	m.entries[p.ID] = memoEntry{key: key, info: info}
	return info
}

// Forget drops the entry for id.
func (m *Memo) Forget(id string) {
	delete(m.entries, id)
}

// Reset drops every entry.
func (m *Memo) Reset() {
	m.entries = make(map[string]memoEntry)
}

// Len returns the number of memoized products.
func (m *Memo) Len() int {
	return len(m.entries)
}

// Counts returns the hit and miss counters.
func (m *Memo) Counts() (hits, misses int) {
	return m.hits, m.misses
}
