// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package sched provides the deferred-callback primitives the engine runs on:
// a Clock abstraction with a manual implementation for tests, a Debouncer, a
// Throttler and a Ticker. Each wrapper owns exactly one pending-timer slot, so
// cancellation is a single Stop.
package sched
