// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package transfer reads and writes the JSON documents used to move a product
// collection in and out of wtyctl.
package transfer
