// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT
package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/wtyctlgo/internal/config"
	"github.com/staranto/wtyctlgo/internal/kv"
	"github.com/staranto/wtyctlgo/internal/meta"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {

	// The arg[1] immediately following the binary (arg[0]) is the wtyctl
	// subcommand and also represents the namespace key to be used when retrieving
	// config values. arg[1] could be -h/--help, so ignore it if it appears to be
	// a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	cfg, _ := config.Load()
	config.Config.Namespace = ns
	cfg.Namespace = ns

	settings, err := config.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load engine settings: %w", err)
	}

	dataDir, _ := kv.Dir()

	meta := meta.Meta{
		Args:     args,
		Config:   cfg,
		Context:  ctx,
		DataDir:  dataDir,
		Settings: settings,
	}

	app := &cli.Command{
		Name:  "wtyctl",
		Usage: "Warranty Control",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "wtyctl version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		AddCommandBuilder(app, meta),
		BrowseCommandBuilder(app, meta),
		ClearCommandBuilder(app, meta),
		CompletionCommandBuilder(app, meta),
		EditCommandBuilder(app, meta),
		ExportCommandBuilder(app, meta),
		ImportCommandBuilder(app, meta),
		LsCommandBuilder(app, meta),
		RmCommandBuilder(app, meta),
		ShowCommandBuilder(app, meta),
		StatsCommandBuilder(app, meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
