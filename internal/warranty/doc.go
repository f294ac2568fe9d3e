// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package warranty derives warranty status from a purchase date and a
// warranty length, and memoizes the result per product.
package warranty
