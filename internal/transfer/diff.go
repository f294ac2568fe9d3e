// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package transfer

import (
	"encoding/json"
	"fmt"

	diff "github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/staranto/wtyctlgo/internal/product"
)

// Diff describes how replacing current with incoming would change the
// collection, as an ASCII JSON diff of both keyed by product id. It returns
// false when nothing would change apart from import stamps.
func Diff(current, incoming []product.Product) (string, bool, error) {
	left, err := byID(current)
	if err != nil {
		return "", false, err
	}
	right, err := byID(incoming)
	if err != nil {
		return "", false, err
	}

	d, err := diff.New().Compare(left, right)
	if err != nil {
		return "", false, fmt.Errorf("failed to compare collections: %w", err)
	}
	if !d.Modified() {
		return "", false, nil
	}

	var leftObject map[string]interface{}
	if err := json.Unmarshal(left, &leftObject); err != nil {
		return "", false, err
	}

	f := formatter.NewAsciiFormatter(leftObject, formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
	})
	out, err := f.Format(d)
	if err != nil {
		return "", false, fmt.Errorf("failed to format diff: %w", err)
	}
	return out, true, nil
}

func byID(products []product.Product) ([]byte, error) {
	m := make(map[string]product.Product, len(products))
	for _, p := range products {
		p.ImportedAt = ""
		m[p.ID] = p
	}
	return json.Marshal(m)
}
