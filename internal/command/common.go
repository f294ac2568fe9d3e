// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"reflect"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/wtyctlgo/internal/attrs"
	"github.com/staranto/wtyctlgo/internal/backend"
	"github.com/staranto/wtyctlgo/internal/engine"
	"github.com/staranto/wtyctlgo/internal/filters"
	"github.com/staranto/wtyctlgo/internal/kv"
	"github.com/staranto/wtyctlgo/internal/meta"
	"github.com/staranto/wtyctlgo/internal/output"
	"github.com/staranto/wtyctlgo/internal/product"
	"github.com/staranto/wtyctlgo/internal/render"
	"github.com/staranto/wtyctlgo/internal/warranty"
)

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr wtyctl <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "wtyctl", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// DumpSchemaIfRequested prints the stored and derived product fields when
// --schema is set, and returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command, w io.Writer) bool {
	if !cmd.Bool("schema") {
		return false
	}
	card := render.Build(product.Product{}, warranty.Info{}, time.Time{}, "")
	if err := output.DumpSchema(w, reflect.TypeOf(product.Product{}), card.Keys()); err != nil {
		log.Errorf("schema dump failed: %v", err)
	}
	return true
}

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command) (attrs.AttrList, error) {
	al := attrs.Defaults()
	if extras := cmd.String("attrs"); extras != "" {
		if err := al.Set(extras); err != nil {
			return nil, fmt.Errorf("invalid --attrs: %w", err)
		}
	}
	_ = al.SetGlobalTransformSpec()
	return al, nil
}

// OutputOptions collects the presentation flags.
func OutputOptions(cmd *cli.Command) output.Options {
	return output.Options{
		Format:  cmd.String("output"),
		Sort:    cmd.String("sort"),
		Titles:  cmd.Bool("titles"),
		Color:   cmd.Bool("color"),
		Local:   cmd.Bool("local"),
		Summary: true,
	}
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// CriteriaFromFlags maps the criteria flags onto filters.Criteria.
func CriteriaFromFlags(cmd *cli.Command) filters.Criteria {
	return filters.Criteria{
		Search:   cmd.String("search"),
		Category: cmd.String("category"),
		Status:   cmd.String("status"),
		Expr:     cmd.String("filter"),
	}
}

// InputFromFlags overlays the product flags that were explicitly set on base.
func InputFromFlags(cmd *cli.Command, base product.Input) product.Input {
	in := base
	strs := map[string]*string{
		"name":          &in.Name,
		"brand":         &in.Brand,
		"model":         &in.Model,
		"category":      &in.Category,
		"serial":        &in.SerialNumber,
		"purchase-date": &in.PurchaseDate,
		"store":         &in.Store,
		"notes":         &in.Notes,
	}
	for name, dst := range strs {
		if cmd.IsSet(name) {
			*dst = cmd.String(name)
		}
	}
	if cmd.IsSet("warranty") {
		in.WarrantyPeriod = int(cmd.Int("warranty"))
	}
	if cmd.IsSet("price") {
		in.Price = cmd.Float("price")
	}
	return in
}

// StderrNotifier writes engine notices to w, one per line. Info notices are
// only logged.
func StderrNotifier(w io.Writer) engine.Notifier {
	return func(n engine.Notice) {
		if n.Kind == engine.Info {
			log.Info(n.Message)
			return
		}
		fmt.Fprintf(w, "%s: %s\n", n.Kind, n.Message)
	}
}

// OpenEngine builds an engine over the local data directory.
func OpenEngine(m meta.Meta, surface render.Surface, opts ...engine.Option) (*engine.Engine, error) {
	store, err := kv.Open(m.DataDir)
	if err != nil {
		return nil, err
	}
	be := backend.NewLocal(store)
	log.Debugf("be: %v", be)

	opts = append([]engine.Option{engine.WithNotifier(StderrNotifier(os.Stderr))}, opts...)
	return engine.New(be, surface, m.Settings, opts...)
}

// openFromCommand resolves --data-dir over the meta before opening.
func openFromCommand(cmd *cli.Command, surface render.Surface, opts ...engine.Option) (*engine.Engine, error) {
	m := GetMeta(cmd)
	if d := cmd.String("data-dir"); d != "" {
		m.DataDir = d
	}
	return OpenEngine(m, surface, opts...)
}
