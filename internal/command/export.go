// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/wtyctlgo/internal/meta"
	"github.com/staranto/wtyctlgo/internal/transfer"
)

// ExportCommandAction writes every product to product_data_<date>.json in
// --dir, or to stdout with --stdout.
func ExportCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "export") {
		return nil
	}

	e, err := openFromCommand(cmd, nil)
	if err != nil {
		return err
	}
	defer e.Close()

	if cmd.Bool("stdout") {
		return e.Export(cmd.Root().Writer)
	}

	path := filepath.Join(cmd.String("dir"), transfer.FileName(time.Now()))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := e.Export(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintln(cmd.Root().Writer, path)
	return nil
}

func ExportCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "write all products to a json file",
		UsageText: `wtyctl export [--dir DIR] [--stdout]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			NameSpacedValueChainFlagFromConfigFile("export", cfg.Source, &cli.StringFlag{
				Name:  "dir",
				Usage: "directory to write the export file to",
				Value: ".",
			}),
			&cli.BoolFlag{
				Name:  "stdout",
				Usage: "write the document to stdout",
			},
			NewDataDirFlag("export"),
			newTldrFlag(),
		},
		Action: ExportCommandAction,
	}
}
