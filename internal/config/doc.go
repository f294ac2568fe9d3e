// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package config reads the wtyctl YAML config file and resolves the engine
// tunables from defaults, the file and the environment.
package config
