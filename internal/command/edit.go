// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/wtyctlgo/internal/meta"
)

// EditCommandAction changes the fields of one product. Only the flags that
// are given are changed.
func EditCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "edit") {
		return nil
	}

	e, err := openFromCommand(cmd, nil)
	if err != nil {
		return err
	}
	defer e.Close()

	existing, err := e.Find(cmd.Args().First())
	if err != nil {
		return err
	}

	p, err := e.Update(existing.ID, InputFromFlags(cmd, existing.Input()))
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.Root().Writer, p.ID)
	return nil
}

func EditCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "change a product",
		UsageText: `wtyctl edit REF [flags]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append(NewProductFlags(), NewDataDirFlag("edit"), newTldrFlag()),
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := RefArgValidator(ctx, c); err != nil {
				return err
			}
			return EditCommandAction(ctx, c)
		},
	}
}
