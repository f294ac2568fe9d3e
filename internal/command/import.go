// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/wtyctlgo/internal/meta"
)

// ImportCommandAction replaces the collection with the products of an export
// document. With --dry-run the difference is printed instead.
func ImportCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "import") {
		return nil
	}

	data, err := readDocument(cmd.Args().First(), cmd.Root().Reader)
	if err != nil {
		return err
	}

	e, err := openFromCommand(cmd, nil)
	if err != nil {
		return err
	}
	defer e.Close()

	out := cmd.Root().Writer
	if cmd.Bool("dry-run") {
		diff, changed, count, err := e.PreviewImport(data)
		if err != nil {
			return err
		}
		if changed {
			fmt.Fprint(out, diff)
		}
		fmt.Fprintf(out, "%d products would be imported, replacing %d\n", count, len(e.Products()))
		return nil
	}

	count, err := e.Import(data)
	if err != nil {
		return err
	}
	log.Debugf("imported %d products", count)
	return nil
}

// readDocument reads path, or stdin when path is -.
func readDocument(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func ImportCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "replace all products with those of an export file",
		UsageText: `wtyctl import FILE|- [--dry-run]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "show what would change without importing",
			},
			NewDataDirFlag("import"),
			newTldrFlag(),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("exactly one FILE is required, use - for stdin")
			}
			return ImportCommandAction(ctx, c)
		},
	}
}
