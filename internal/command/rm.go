// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/wtyctlgo/internal/meta"
)

// RmCommandAction deletes each referenced product. All references are
// resolved before anything is deleted so ~N keeps its meaning.
func RmCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "rm") {
		return nil
	}

	e, err := openFromCommand(cmd, nil)
	if err != nil {
		return err
	}
	defer e.Close()

	var ids []string
	var errs []error
	for _, ref := range cmd.Args().Slice() {
		p, err := e.Find(ref)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !slices.Contains(ids, p.ID) {
			ids = append(ids, p.ID)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for _, id := range ids {
		if _, err := e.Delete(id); err != nil {
			errs = append(errs, err)
			continue
		}
		fmt.Fprintln(cmd.Root().Writer, id)
	}
	return errors.Join(errs...)
}

func RmCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "delete products",
		UsageText: `wtyctl rm REF [REF...]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{NewDataDirFlag("rm"), newTldrFlag()},
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := RefArgValidator(ctx, c); err != nil {
				return err
			}
			return RmCommandAction(ctx, c)
		},
	}
}
