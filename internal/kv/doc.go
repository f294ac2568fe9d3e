// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package kv is a small on-disk key-value store. Each key is a file named by
// the MD5 of the key, and writes replace files atomically.
package kv
