// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/wtyctlgo/internal/config"
)

const setsYAML = `
ls:
  defaults:
    - --titles
    - --sort -createdAt
  wide:
    - -a store,notes
`

func TestMangleArguments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wtyctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(setsYAML), 0o600))
	t.Setenv("WTYCTL_CFG", path)
	config.Config = config.Type{}
	t.Cleanup(func() { config.Config = config.Type{} })

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "defaults set",
			args: []string{"wtyctl", "ls", "-o", "json"},
			want: []string{"wtyctl", "ls", "--titles", "--sort", "-createdAt", "-o", "json"},
		},
		{
			name: "named set is removed",
			args: []string{"wtyctl", "ls", "@wide", "--category", "Kitchen"},
			want: []string{"wtyctl", "ls", "-a", "store,notes", "--category", "Kitchen"},
		},
		{
			name: "unknown set",
			args: []string{"wtyctl", "ls", "@nope", "~0"},
			want: []string{"wtyctl", "ls", "~0"},
		},
		{
			name: "command without sets",
			args: []string{"wtyctl", "show", "abc"},
			want: []string{"wtyctl", "show", "abc"},
		},
		{
			name: "help",
			args: []string{"wtyctl", "ls", "@wide", "-h"},
			want: []string{"wtyctl", "ls", "--help"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mangleArguments(tt.args))
		})
	}
}
