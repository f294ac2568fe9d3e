// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
	"github.com/urfave/cli/v3"

	"github.com/staranto/wtyctlgo/internal/command"
)

// Minimal doc generator:
// - Walks the wtyctl command tree
// - Generates:
//   - docs/commands/wtyctl-<cmd>.md as the canonical markdown
//   - docs/man/share/man1/wtyctl-<cmd>.1 via md2man
//   - docs/tldr/wtyctl-<cmd>.md from the quick examples below

// quickExamples feed both the markdown and the tldr pages.
var quickExamples = map[string][]example{
	"add": {
		{"Record a phone with a two year warranty", "wtyctl add -n Phone -b Acme -d 2025-01-15 -w 24 -p 1299"},
	},
	"browse": {
		{"Browse all products", "wtyctl browse"},
		{"Browse products about to expire", "wtyctl browse --status expiring"},
	},
	"clear": {
		{"Delete everything without asking", "wtyctl clear --yes"},
	},
	"edit": {
		{"Change the price of the newest product", "wtyctl edit ~0 --price 999"},
	},
	"export": {
		{"Write a dated export file to the home directory", "wtyctl export --dir ~"},
	},
	"import": {
		{"Preview an import", "wtyctl import product_data_2025-01-31.json --dry-run"},
		{"Import from stdin", "cat backup.json | wtyctl import -"},
	},
	"ls": {
		{"List products with titles", "wtyctl ls -t"},
		{"List expired kitchen products", "wtyctl ls --status expired --category Kitchen"},
		{"List by price, most expensive first", "wtyctl ls -a price -s -price"},
	},
	"rm": {
		{"Delete a product by id prefix", "wtyctl rm 3f2a"},
	},
	"show": {
		{"Show the newest product", "wtyctl show ~0"},
	},
	"stats": {
		{"Show the prometheus metrics of a render pass", "wtyctl stats --metrics"},
	},
	"completion": {
		{"Load zsh completion", "source <(wtyctl completion zsh)"},
	},
}

func main() {
	var (
		repoRoot           string
		writeOnlyIfChanged bool
	)

	flag.StringVar(&repoRoot, "root", ".", "repo root (default current dir)")
	flag.BoolVar(&writeOnlyIfChanged, "only-if-changed", true, "only write files if content changed")
	flag.Parse()

	commandsDir := filepath.Join(repoRoot, "docs", "commands")
	manOutDir := filepath.Join(repoRoot, "docs", "man", "share", "man1")
	tldrOutDir := filepath.Join(repoRoot, "docs", "tldr")

	for _, dir := range []string{commandsDir, manOutDir, tldrOutDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fatalf("creating output dir %s: %v", dir, err)
		}
	}

	app, err := command.InitApp(context.Background(), []string{"wtyctl"})
	if err != nil {
		fatalf("building command tree: %v", err)
	}

	var processed int
	for _, cmd := range app.Commands {
		exs := quickExamples[cmd.Name]
		md := commandMarkdown(cmd, exs)

		mdPath := filepath.Join(commandsDir, fmt.Sprintf("wtyctl-%s.md", cmd.Name))
		if err := writeFileIfChanged(mdPath, []byte(md), writeOnlyIfChanged); err != nil {
			fatalf("writing markdown for %s: %v", cmd.Name, err)
		}

		manPath := filepath.Join(manOutDir, fmt.Sprintf("wtyctl-%s.1", cmd.Name))
		if err := writeFileIfChanged(manPath, md2man.Render([]byte(md)), writeOnlyIfChanged); err != nil {
			fatalf("writing man page for %s: %v", cmd.Name, err)
		}

		tldrPath := filepath.Join(tldrOutDir, fmt.Sprintf("wtyctl-%s.md", cmd.Name))
		if err := writeFileIfChanged(tldrPath, []byte(buildTLDR(cmd.Name, cmd.Usage, exs)), writeOnlyIfChanged); err != nil {
			fatalf("writing TLDR for %s: %v", cmd.Name, err)
		}

		processed++
	}

	if processed == 0 {
		fatalf("no commands found")
	}
}

func fatalf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}

func writeFileIfChanged(path string, new []byte, onlyIfChanged bool) error {
	if !onlyIfChanged {
		return os.WriteFile(path, new, 0o644)
	}
	old, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return os.WriteFile(path, new, 0o644)
		}
		return err
	}
	if bytes.Equal(bytes.TrimSpace(old), bytes.TrimSpace(new)) {
		return nil
	}
	return os.WriteFile(path, new, 0o644)
}

type example struct {
	Desc string
	Cmd  string
}

// commandMarkdown renders a man page flavored markdown document for cmd.
func commandMarkdown(cmd *cli.Command, exs []example) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%% wtyctl-%s(1)\n\n", cmd.Name)

	b.WriteString("# NAME\n\n")
	fmt.Fprintf(&b, "wtyctl-%s - %s\n\n", cmd.Name, cmd.Usage)

	if cmd.UsageText != "" {
		b.WriteString("# SYNOPSIS\n\n")
		fmt.Fprintf(&b, "`%s`\n\n", sanitizeCommand(cmd.UsageText))
	}

	if len(cmd.Flags) > 0 {
		b.WriteString("# OPTIONS\n\n")
		for _, f := range cmd.Flags {
			if vf, ok := f.(cli.VisibleFlag); ok && !vf.IsVisible() {
				continue
			}
			// Flag stringers separate the names from the usage with a tab.
			names, usage, _ := strings.Cut(fmt.Sprint(f), "\t")
			fmt.Fprintf(&b, "**%s**\n: %s\n\n", strings.TrimSpace(names), strings.TrimSpace(usage))
		}
	}

	if len(exs) > 0 {
		b.WriteString("# QUICK EXAMPLES\n\n")
		for _, ex := range exs {
			fmt.Fprintf(&b, "%s:\n\n    %s\n\n", ex.Desc, sanitizeCommand(ex.Cmd))
		}
	}

	return b.String()
}

func buildTLDR(cmd, short string, exs []example) string {
	var b strings.Builder
	// Header
	b.WriteString("# wtyctl-" + cmd + "\n\n")
	if short != "" {
		b.WriteString("> " + strings.ToUpper(short[:1]) + short[1:] + ".\n")
	} else {
		b.WriteString("> wtyctl " + cmd + "\n")
	}
	b.WriteString("> More information: https://github.com/staranto/wtyctlgo.\n\n")

	if len(exs) == 0 {
		// Fallback examples
		b.WriteString("- Show help for the command:\n\n")
		b.WriteString("`wtyctl " + cmd + " --help`\n")
		b.WriteString("\n")
		return b.String()
	}

	for i, ex := range exs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + strings.TrimSpace(ex.Desc) + ":\n\n")
		b.WriteString("`" + sanitizeCommand(ex.Cmd) + "`\n")
	}
	return b.String()
}

func sanitizeCommand(s string) string {
	// For now, just compress runs of whitespace
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
