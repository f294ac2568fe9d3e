// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package perf records how long engine operations take. A fixed size ring of
// recent samples backs the stats command, and optional Prometheus collectors
// mirror every sample.
package perf
