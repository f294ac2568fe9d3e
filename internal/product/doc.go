// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package product defines the Product entity, its editable Input and the
// field validation applied before any mutation.
package product
