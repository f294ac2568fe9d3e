// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"fmt"

	"github.com/apex/log"

	"github.com/staranto/wtyctlgo/internal/cache"
	"github.com/staranto/wtyctlgo/internal/filters"
	"github.com/staranto/wtyctlgo/internal/perf"
	"github.com/staranto/wtyctlgo/internal/product"
	"github.com/staranto/wtyctlgo/internal/sched"
	"github.com/staranto/wtyctlgo/internal/warranty"
)

// Surface is where a render pass ends up.
type Surface interface {
	// Empty is called instead of Draw when nothing is visible.
	Empty(Summary) error
	Draw(Frame) error
}

// Summary counts what a render pass showed.
type Summary struct {
	Displayed int
	Total     int
	Filtered  bool
}

func (s Summary) String() string {
	if s.Filtered && s.Displayed != s.Total {
		return fmt.Sprintf("Displayed: %d / Total: %d products", s.Displayed, s.Total)
	}
	return fmt.Sprintf("Total: %d products", s.Total)
}

// Frame is one materialized render pass.
type Frame struct {
	Cards   []Card
	Window  Window
	Summary Summary
}

// RenderError reports a render pass that was abandoned.
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s failed: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Pipeline turns the product collection into frames: filter, then build or
// reuse one card per visible product. It only reads the collection.
type Pipeline struct {
	Filters  *filters.Engine
	Cache    *cache.RenderCache[Card]
	Memo     *warranty.Memo
	Monitor  *perf.Monitor
	Clock    sched.Clock
	Currency string
}

// Visible returns the products all shows under c, in collection order.
func (pl *Pipeline) Visible(all []product.Product, version uint64, c filters.Criteria) []product.Product {
	if !c.Active() {
		return all
	}
	defer pl.Monitor.Time("filterProducts")()
	return pl.Filters.Apply(all, version, c)
}

// Card returns the card for p, from the cache when its content version was
// rendered before.
func (pl *Pipeline) Card(p product.Product) Card {
	key := cache.Key(p)
	if card, ok := pl.Cache.Get(key); ok {
		return card
	}
	card := Build(p, pl.Memo.Status(p, pl.Clock.Now()), pl.Clock.Now(), pl.Currency)
	pl.Cache.Put(key, card)
	return card
}

// Render materializes one pass onto s and returns what it drew. A failure
// abandons the pass and is returned as a *RenderError; cards already cached
// stay valid because their keys are content versions.
func (pl *Pipeline) Render(s Surface, all []product.Product, version uint64, c filters.Criteria, vp Viewport) (frame Frame, err error) {
	defer pl.Monitor.Time("renderProducts")()
	defer func() {
		if r := recover(); r != nil {
			err = &RenderError{Op: "materialize", Err: fmt.Errorf("%v", r)}
		}
		if err != nil {
			log.WithError(err).Error("render pass abandoned")
		}
	}()

	visible := pl.Visible(all, version, c)
	frame.Summary = Summary{Displayed: len(visible), Total: len(all), Filtered: c.Active()}

	if len(visible) == 0 {
		if err := s.Empty(frame.Summary); err != nil {
			return frame, &RenderError{Op: "empty", Err: err}
		}
		return frame, nil
	}

	frame.Window = vp.Window(len(visible))
	frame.Cards = make([]Card, 0, frame.Window.Len())
	for _, p := range visible[frame.Window.Start:frame.Window.End] {
		frame.Cards = append(frame.Cards, pl.Card(p))
	}

	if err := s.Draw(frame); err != nil {
		return frame, &RenderError{Op: "draw", Err: err}
	}
	return frame, nil
}
