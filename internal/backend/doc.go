// Copyright (c) 2025 Steve Taranto staranto@gmail.com.
// SPDX-License-Identifier: Apache-2.0

// Package backend persists the product collection. Local stores it as one
// JSON document in the on-disk kv store, and Memory keeps it in process for
// tests and dry runs.
package backend
