// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/wtyctlgo/internal/meta"
	"github.com/staranto/wtyctlgo/internal/product"
)

// AddCommandAction records a new product and prints its id.
func AddCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "add") {
		return nil
	}

	e, err := openFromCommand(cmd, nil)
	if err != nil {
		return err
	}
	defer e.Close()

	p, err := e.Add(InputFromFlags(cmd, product.Input{}))
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.Root().Writer, p.ID)
	return nil
}

func AddCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "record a product and its warranty",
		UsageText: `wtyctl add --name NAME --purchase-date YYYY-MM-DD --warranty MONTHS [flags]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append(NewProductFlags(), NewDataDirFlag("add"), newTldrFlag()),
		Action: func(ctx context.Context, c *cli.Command) error {
			return AddCommandAction(ctx, c)
		},
	}
}
