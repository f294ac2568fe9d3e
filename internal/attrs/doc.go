// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package attrs parses --attrs column specs and applies their value
// transforms.
//
// A spec is key[:outputKey[:transforms]], and specs are comma separated.
// Transforms run together. U and L change case. N truncates to N characters
// and -N elides the middle. t shows timestamps in WTYCTL_TZ (or TZ), while h
// humanizes numbers and dates.
package attrs
