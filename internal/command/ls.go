// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/staranto/wtyctlgo/internal/engine"
	"github.com/staranto/wtyctlgo/internal/meta"
	"github.com/staranto/wtyctlgo/internal/output"
)

// LsCommandAction lists the products selected by the criteria flags.
func LsCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "ls") {
		return nil
	}
	if DumpSchemaIfRequested(cmd, cmd.Root().Writer) {
		return nil
	}

	al, err := BuildAttrs(cmd)
	if err != nil {
		return err
	}
	log.Debugf("attrs: %v", al)

	if d := cmd.String("data-dir"); d != "" {
		m.DataDir = d
	}
	if cmd.Bool("virtual") {
		m.Settings.Virtualize = true
		m.Settings.ViewportHeight = viewportHeight(cmd, m.Settings.ViewportHeight)
	}

	w := output.NewWriter(cmd.Root().Writer, al, OutputOptions(cmd))
	e, err := OpenEngine(m, w,
		engine.WithCriteria(CriteriaFromFlags(cmd)),
		engine.WithOffset(int(cmd.Int("offset"))),
	)
	if err != nil {
		return err
	}
	defer e.Close()

	_, err = e.Render()
	return err
}

// viewportHeight picks the --height flag, then the terminal height less the
// summary line, then fallback.
func viewportHeight(cmd *cli.Command, fallback int) int {
	if cmd.IsSet("height") {
		return int(cmd.Int("height"))
	}
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if _, h, err := term.GetSize(fd); err == nil && h > 2 {
			return h - 2
		}
	}
	return fallback
}

func LsCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	flags := []cli.Flag{NewDataDirFlag("ls"), newSchemaFlag(), newTldrFlag()}
	flags = append(flags, NewCriteriaFlags("ls")...)
	flags = append(flags, NewViewportFlags("ls")...)
	flags = append(flags, NewGlobalFlags("ls")...)

	return &cli.Command{
		Name:      "ls",
		Usage:     "list products and their warranty status",
		UsageText: `wtyctl ls [flags]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: LsCommandAction,
	}
}
