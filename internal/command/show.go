// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/staranto/wtyctlgo/internal/attrs"
	"github.com/staranto/wtyctlgo/internal/meta"
	"github.com/staranto/wtyctlgo/internal/output"
	"github.com/staranto/wtyctlgo/internal/render"
)

// ShowCommandAction prints every field of one product's card.
func ShowCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "show") {
		return nil
	}

	e, err := openFromCommand(cmd, nil)
	if err != nil {
		return err
	}
	defer e.Close()

	p, err := e.Find(cmd.Args().First())
	if err != nil {
		return err
	}

	return writeCard(cmd.Root().Writer, e.Card(p), OutputOptions(cmd))
}

// writeCard prints card as a field/value table, or as a json or yaml object.
func writeCard(w io.Writer, card render.Card, opts output.Options) error {
	switch opts.Format {
	case "json":
		out, err := json.MarshalIndent(card.Map(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case "yaml":
		out, err := yaml.Marshal(card.Map())
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	}

	al := attrs.AttrList{
		{Key: "field", OutputKey: "field", Include: true},
		{Key: "value", OutputKey: "value", Include: true},
	}
	rows := make([]map[string]any, 0, len(card.Fields))
	for _, f := range card.Fields {
		rows = append(rows, map[string]any{"field": f.Key, "value": f.Value})
	}
	return output.TableWriter(rows, al, opts, w)
}

func ShowCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "show the warranty detail of one product",
		UsageText: `wtyctl show REF [flags]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append(NewGlobalFlags("show"), NewDataDirFlag("show"), newTldrFlag()),
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := RefArgValidator(ctx, c); err != nil {
				return err
			}
			return ShowCommandAction(ctx, c)
		},
	}
}
