// Copyright (c) 2025 Steve Taranto staranto@gmail.com.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/staranto/wtyctlgo/internal/product"
)

// Find resolves a user supplied product reference. A spec could be -
//
//	~N      - the N-th newest product, ~0 being the newest.
//	id      - the product with that id.
//	prefix  - the only product whose id starts with prefix.
func (s *Store) Find(spec string) (product.Product, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return product.Product{}, fmt.Errorf("%w: empty reference", ErrNotFound)
	}

	if strings.HasPrefix(spec, "~") {
		index, err := strconv.Atoi(spec[1:])
		if err != nil || index < 0 {
			return product.Product{}, fmt.Errorf("invalid index %q", spec)
		}
		if index > len(s.products)-1 {
			return product.Product{}, fmt.Errorf("%w: index %d out of range for %d products", ErrNotFound, index, len(s.products))
		}
		return s.products[index], nil
	}

	if p, ok := s.Get(spec); ok {
		return p, nil
	}

	// It's a partial id, go find it. Unlike a full id it has to be unique.
	var matches []product.Product
	for _, p := range s.products {
		if strings.HasPrefix(p.ID, spec) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return product.Product{}, fmt.Errorf("%w: %s", ErrNotFound, spec)
	case 1:
		return matches[0], nil
	default:
		return product.Product{}, fmt.Errorf("%w: %s matches %d products", ErrAmbiguous, spec, len(matches))
	}
}
