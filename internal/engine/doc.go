// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package engine ties the product store, warranty memo, filter engine,
// render cache and performance monitor together behind one explicitly
// constructed and closed Engine.
package engine
