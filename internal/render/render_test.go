// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/wtyctlgo/internal/cache"
	"github.com/staranto/wtyctlgo/internal/filters"
	"github.com/staranto/wtyctlgo/internal/perf"
	"github.com/staranto/wtyctlgo/internal/product"
	"github.com/staranto/wtyctlgo/internal/sched"
	"github.com/staranto/wtyctlgo/internal/warranty"
)

var now = time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

type recorder struct {
	frames  []Frame
	empties []Summary
	err     error
	panic   bool
}

func (r *recorder) Empty(s Summary) error {
	r.empties = append(r.empties, s)
	return r.err
}

func (r *recorder) Draw(f Frame) error {
	if r.panic {
		panic("boom")
	}
	r.frames = append(r.frames, f)
	return r.err
}

func newPipeline(t *testing.T) *Pipeline {
	t.Helper()
	c, err := cache.New[Card](1000)
	require.NoError(t, err)
	memo := warranty.NewMemo(warranty.Calculator{ExpiringDays: 30})
	clock := sched.NewManualClock(now)
	return &Pipeline{
		Filters:  filters.NewEngine(func(p product.Product) warranty.Status { return memo.Status(p, clock.Now()).Status }),
		Cache:    c,
		Memo:     memo,
		Monitor:  perf.NewMonitor(100, 100*time.Millisecond, perf.WithClock(clock)),
		Clock:    clock,
		Currency: "RM",
	}
}

func collection(n int) []product.Product {
	out := make([]product.Product, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, product.Product{
			ID:             fmt.Sprintf("p%03d", i),
			Name:           fmt.Sprintf("Item %d", i),
			Category:       []string{"Electronics", "Kitchen", "Garden"}[i%3],
			PurchaseDate:   "2024-01-15",
			WarrantyPeriod: 12,
			CreatedAt:      "2025-01-01T00:00:00.000Z",
		})
	}
	return out
}

func TestBuild(t *testing.T) {
	p := product.Product{
		ID: "p1", Name: "Phone", Price: 1234.5, PurchaseDate: "2024-01-15", WarrantyPeriod: 12,
		CreatedAt: "2024-01-15T10:00:00.000Z",
	}
	info := warranty.Calculator{ExpiringDays: 30}.Compute(p.PurchaseDate, p.WarrantyPeriod, now)
	card := Build(p, info, now, "RM")

	assert.Equal(t, "p1", card.ID)
	assert.Equal(t, warranty.Expiring, card.Status)
	assert.Equal(t, "Uncategorized", card.String("category"))
	assert.Equal(t, "RM 1,234.50", card.String("priceText"))
	assert.Equal(t, "Expiring Soon", card.String("statusText"))
	assert.Equal(t, "2025-01-15", card.String("expiryDate"))
	assert.Equal(t, 5, card.Map()["daysRemaining"])
	assert.Equal(t, "5 days left", card.String("remaining"))
	assert.Contains(t, card.String("age"), "ago")
	assert.Equal(t, "id", card.Keys()[0])

	unknown := Build(product.Product{ID: "p2"}, warranty.Info{Status: warranty.Unknown}, now, "RM")
	v, ok := unknown.Get("expiryDate")
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.Equal(t, "", unknown.String("priceText"))
}

func TestCardClone(t *testing.T) {
	c := Card{ID: "a", Fields: []Field{{"name", "Phone"}}}
	d := c.Clone()
	d.Fields[0].Value = "changed"
	assert.Equal(t, "Phone", c.String("name"))
}

func TestWindow(t *testing.T) {
	vp := Viewport{Enabled: true, ItemExtent: 1, Height: 20, Overscan: 5, Threshold: 50}

	tests := []struct {
		name   string
		vp     Viewport
		n      int
		want   Window
	}{
		{"disabled", Viewport{Threshold: 50}, 500, Window{0, 500, false}},
		{"at threshold", vp, 50, Window{0, 50, false}},
		{"top", vp, 200, Window{0, 25, true}},
		{"scrolled", func() Viewport { v := vp; v.Offset = 100; return v }(), 200, Window{95, 125, true}},
		{"bottom", func() Viewport { v := vp; v.Offset = 190; return v }(), 200, Window{175, 200, true}},
		{"past end", func() Viewport { v := vp; v.Offset = 1000; return v }(), 200, Window{175, 200, true}},
		{"last page", func() Viewport { v := vp; v.Offset = 40; return v }(), 60, Window{35, 60, true}},
		{"end plus overscan less one", func() Viewport { v := vp; v.Offset = 64; return v }(), 60, Window{35, 60, true}},
		{"end plus overscan", func() Viewport { v := vp; v.Offset = 65; return v }(), 60, Window{35, 60, true}},
		{"end plus overscan plus one", func() Viewport { v := vp; v.Offset = 66; return v }(), 60, Window{35, 60, true}},
		{"negative overscan", func() Viewport { v := vp; v.Overscan = -3; v.Offset = 10; return v }(), 60, Window{10, 30, true}},
		{"tall items", func() Viewport { v := vp; v.ItemExtent = 4; v.Offset = 40; v.Overscan = 1; return v }(), 100, Window{9, 16, true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.vp.Window(tt.n))
		})
	}

	// Scrolling never shrinks the window below a page or moves it backwards.
	prev := Window{}
	for offset := 0; offset <= 100; offset++ {
		v := vp
		v.Offset = offset
		w := v.Window(60)
		assert.GreaterOrEqual(t, w.Len(), vp.Height, "offset %d", offset)
		assert.GreaterOrEqual(t, w.Start, prev.Start, "offset %d", offset)
		prev = w
	}

	assert.Equal(t, 180, vp.MaxOffset(200))
	assert.Equal(t, 0, vp.MaxOffset(3))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "Total: 3 products", Summary{Displayed: 3, Total: 3}.String())
	assert.Equal(t, "Total: 3 products", Summary{Displayed: 3, Total: 3, Filtered: true}.String())
	assert.Equal(t, "Displayed: 1 / Total: 3 products", Summary{Displayed: 1, Total: 3, Filtered: true}.String())
}

func TestRender(t *testing.T) {
	pl := newPipeline(t)
	all := collection(3)
	r := &recorder{}

	frame, err := pl.Render(r, all, 1, filters.Criteria{Category: "Electronics"}, Viewport{})
	require.NoError(t, err)
	require.Len(t, r.frames, 1)
	assert.Len(t, frame.Cards, 1)
	assert.Equal(t, "p000", frame.Cards[0].ID)
	assert.Equal(t, "Displayed: 1 / Total: 3 products", frame.Summary.String())

	// Only the visible card was built.
	assert.Equal(t, 1, pl.Cache.Len())

	samples := pl.Monitor.Samples()
	require.Len(t, samples, 2)
	assert.Equal(t, "filterProducts", samples[0].Operation)
	assert.Equal(t, "renderProducts", samples[1].Operation)
}

func TestRender_Empty(t *testing.T) {
	pl := newPipeline(t)
	r := &recorder{}

	_, err := pl.Render(r, collection(3), 1, filters.Criteria{Search: "nothing like this"}, Viewport{})
	require.NoError(t, err)
	assert.Empty(t, r.frames)
	require.Len(t, r.empties, 1)
	assert.Equal(t, 0, r.empties[0].Displayed)

	_, err = pl.Render(r, nil, 2, filters.Criteria{}, Viewport{})
	require.NoError(t, err)
	assert.Len(t, r.empties, 2)
}

func TestRender_OffsetPastEnd(t *testing.T) {
	pl := newPipeline(t)
	r := &recorder{}
	vp := Viewport{Enabled: true, ItemExtent: 1, Height: 2, Overscan: 1, Threshold: 1, Offset: 6}

	frame, err := pl.Render(r, collection(5), 1, filters.Criteria{}, vp)
	require.NoError(t, err)
	require.Len(t, r.frames, 1)
	assert.Equal(t, Window{Start: 2, End: 5, Virtual: true}, frame.Window)
	assert.Len(t, frame.Cards, 3)
}

func TestRender_CacheReuseAndCoherence(t *testing.T) {
	pl := newPipeline(t)
	all := collection(3)
	r := &recorder{}

	_, err := pl.Render(r, all, 1, filters.Criteria{}, Viewport{})
	require.NoError(t, err)
	_, err = pl.Render(r, all, 1, filters.Criteria{}, Viewport{})
	require.NoError(t, err)
	assert.Equal(t, cache.Stats{Hits: 3, Misses: 3}, pl.Cache.Stats())

	// An edited product gets a fresh card even though the old one is cached.
	all[0].Name = "Renamed"
	all[0].UpdatedAt = "2025-01-05T00:00:00.000Z"
	frame, err := pl.Render(r, all, 2, filters.Criteria{}, Viewport{})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", frame.Cards[0].String("name"))

	// Mutating a drawn card does not reach the cache.
	frame.Cards[1].Fields[1].Value = "scribbled"
	again, _ := pl.Render(r, all, 2, filters.Criteria{}, Viewport{})
	assert.Equal(t, "Item 1", again.Cards[1].String("name"))
}

func TestRender_Virtualized(t *testing.T) {
	pl := newPipeline(t)
	all := collection(120)
	r := &recorder{}
	vp := Viewport{Enabled: true, ItemExtent: 1, Height: 10, Overscan: 2, Threshold: 50, Offset: 30}

	frame, err := pl.Render(r, all, 1, filters.Criteria{}, vp)
	require.NoError(t, err)
	assert.True(t, frame.Window.Virtual)
	assert.Len(t, frame.Cards, 14)
	assert.Equal(t, "p028", frame.Cards[0].ID)
	assert.Equal(t, 14, pl.Cache.Len())
	assert.Equal(t, "Total: 120 products", frame.Summary.String())
}

func TestRender_Failures(t *testing.T) {
	pl := newPipeline(t)
	all := collection(2)

	_, err := pl.Render(&recorder{err: errors.New("closed")}, all, 1, filters.Criteria{}, Viewport{})
	var rerr *RenderError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "draw", rerr.Op)

	_, err = pl.Render(&recorder{panic: true}, all, 1, filters.Criteria{}, Viewport{})
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "materialize", rerr.Op)
	assert.Contains(t, err.Error(), "boom")

	// The collection is untouched and the next pass works.
	assert.Equal(t, "Item 0", all[0].Name)
	_, err = pl.Render(&recorder{}, all, 1, filters.Criteria{}, Viewport{})
	assert.NoError(t, err)
}
