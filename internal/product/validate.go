// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package product

import (
	"strings"
	"time"
)

// MaxWarrantyPeriod is the longest accepted warranty, in months.
const MaxWarrantyPeriod = 120

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors collects every invalid field of an Input.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Field returns the first error for field, if any.
func (v ValidationErrors) Field(field string) (ValidationError, bool) {
	for _, e := range v {
		if e.Field == field {
			return e, true
		}
	}
	return ValidationError{}, false
}

// Validate checks in against the product rules. It returns nil when the
// input is acceptable.
func (in Input) Validate(now time.Time) error {
	var errs ValidationErrors

	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "Product name cannot be empty"})
	}

	if strings.TrimSpace(in.PurchaseDate) == "" {
		errs = append(errs, ValidationError{Field: "purchaseDate", Message: "Purchase date cannot be empty"})
	} else if d, err := ParseDate(in.PurchaseDate); err != nil {
		errs = append(errs, ValidationError{Field: "purchaseDate", Message: "Purchase date is not a valid date"})
	} else if d.After(now) {
		errs = append(errs, ValidationError{Field: "purchaseDate", Message: "Purchase date cannot be in the future"})
	}

	if in.WarrantyPeriod < 0 || in.WarrantyPeriod > MaxWarrantyPeriod {
		errs = append(errs, ValidationError{Field: "warrantyPeriod", Message: "Warranty period should be between 0-120 months"})
	}

	if in.Price < 0 {
		errs = append(errs, ValidationError{Field: "price", Message: "Price cannot be negative"})
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
