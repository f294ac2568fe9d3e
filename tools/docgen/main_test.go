// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"os"
	"path/filepath"
	"testing"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestCommandMarkdown(t *testing.T) {
	cmd := &cli.Command{
		Name:      "rm",
		Usage:     "delete products",
		UsageText: "wtyctl rm  REF [REF...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "data-dir", Usage: "directory holding the product data"},
			&cli.BoolFlag{Name: "secret", Usage: "hidden", Hidden: true},
		},
	}

	md := commandMarkdown(cmd, []example{{"Delete by prefix", "wtyctl rm 3f2a"}})
	assert.Contains(t, md, "% wtyctl-rm(1)")
	assert.Contains(t, md, "wtyctl-rm - delete products")
	assert.Contains(t, md, "`wtyctl rm REF [REF...]`")
	assert.Contains(t, md, "directory holding the product data")
	assert.NotContains(t, md, "secret")
	assert.Contains(t, md, "    wtyctl rm 3f2a")

	man := string(md2man.Render([]byte(md)))
	assert.Contains(t, man, ".TH")
}

func TestBuildTLDR(t *testing.T) {
	tests := []struct {
		name  string
		short string
		exs   []example
		want  string
	}{
		{
			name:  "examples",
			short: "delete products",
			exs:   []example{{"Delete one", "wtyctl   rm  ~0"}},
			want: "# wtyctl-rm\n\n> Delete products.\n> More information: https://github.com/staranto/wtyctlgo.\n\n" +
				"- Delete one:\n\n`wtyctl rm ~0`\n",
		},
		{
			name: "fallback",
			want: "# wtyctl-rm\n\n> wtyctl rm\n> More information: https://github.com/staranto/wtyctlgo.\n\n" +
				"- Show help for the command:\n\n`wtyctl rm --help`\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildTLDR("rm", tt.short, tt.exs))
		})
	}
}

func TestWriteFileIfChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.md")

	require.NoError(t, writeFileIfChanged(path, []byte("one\n"), true))
	info, err := os.Stat(path)
	require.NoError(t, err)

	// Whitespace only differences are not a change.
	require.NoError(t, writeFileIfChanged(path, []byte("one\n\n"), true))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\n", string(data))

	require.NoError(t, writeFileIfChanged(path, []byte("two\n"), true))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two\n", string(data))
	assert.NotNil(t, info)
}

func TestQuickExamplesCoverCommands(t *testing.T) {
	for name, exs := range quickExamples {
		for _, ex := range exs {
			assert.Contains(t, ex.Cmd, "wtyctl", name)
		}
	}
}
