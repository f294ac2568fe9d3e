// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/staranto/wtyctlgo/internal/attrs"
	"github.com/staranto/wtyctlgo/internal/engine"
	"github.com/staranto/wtyctlgo/internal/meta"
	"github.com/staranto/wtyctlgo/internal/output"
	"github.com/staranto/wtyctlgo/internal/perf"
	"github.com/staranto/wtyctlgo/internal/warranty"
)

type statLine struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// StatsCommandAction renders the collection once and reports status counts
// with the render timings and cache counters of that pass.
func StatsCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "stats") {
		return nil
	}

	reg := prometheus.NewRegistry()
	metrics, err := perf.NewMetrics(reg)
	if err != nil {
		return err
	}

	e, err := openFromCommand(cmd, nil, engine.WithMetrics(metrics))
	if err != nil {
		return err
	}
	defer e.Close()

	// Twice, so the cache counters reflect a warm pass too.
	for range 2 {
		if _, err := e.Render(); err != nil {
			return err
		}
	}

	out := cmd.Root().Writer
	if cmd.Bool("metrics") {
		return perf.WriteMetrics(out, reg)
	}

	return writeStats(out, collectStats(e), OutputOptions(cmd))
}

func collectStats(e *engine.Engine) []statLine {
	products := e.Products()
	counts := make(map[warranty.Status]int, len(warranty.Statuses))
	for _, p := range products {
		counts[e.Status(p).Status]++
	}

	lines := []statLine{{"products", humanize.Comma(int64(len(products)))}}
	for _, s := range warranty.Statuses {
		lines = append(lines, statLine{string(s), humanize.Comma(int64(counts[s]))})
	}

	if ps, ok := e.Stats(); ok {
		lines = append(lines,
			statLine{"render.samples", humanize.Comma(int64(ps.SampleCount))},
			statLine{"render.avg", ps.Average.String()},
			statLine{"render.min", ps.Min.String()},
			statLine{"render.max", ps.Max.String()},
		)
	}

	cs, size := e.CacheStats()
	lines = append(lines,
		statLine{"cache.entries", humanize.Comma(int64(size))},
		statLine{"cache.hits", humanize.Comma(int64(cs.Hits))},
		statLine{"cache.misses", humanize.Comma(int64(cs.Misses))},
		statLine{"cache.evictions", humanize.Comma(int64(cs.Evictions))},
	)

	memo, hits, misses := e.MemoStats()
	lines = append(lines,
		statLine{"memo.entries", humanize.Comma(int64(memo))},
		statLine{"memo.hits", humanize.Comma(int64(hits))},
		statLine{"memo.misses", humanize.Comma(int64(misses))},
	)
	return lines
}

func writeStats(w io.Writer, lines []statLine, opts output.Options) error {
	switch opts.Format {
	case "json":
		out, err := json.MarshalIndent(lines, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case "yaml":
		out, err := yaml.Marshal(lines)
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	}

	al := attrs.AttrList{
		{Key: "name", OutputKey: "name", Include: true},
		{Key: "value", OutputKey: "value", Include: true},
	}
	rows := make([]map[string]any, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, map[string]any{"name": l.Name, "value": l.Value})
	}
	return output.TableWriter(rows, al, opts, w)
}

func StatsCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "stats",
		Usage:     "show collection, render and cache statistics",
		UsageText: `wtyctl stats [--metrics]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append(NewGlobalFlags("stats"),
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "print the prometheus metrics of the render passes",
			},
			NewDataDirFlag("stats"),
			newTldrFlag(),
		),
		Action: StatsCommandAction,
	}
}
