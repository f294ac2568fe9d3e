// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/apex/log"

	"github.com/staranto/wtyctlgo/internal/backend"
	"github.com/staranto/wtyctlgo/internal/cache"
	"github.com/staranto/wtyctlgo/internal/config"
	"github.com/staranto/wtyctlgo/internal/filters"
	"github.com/staranto/wtyctlgo/internal/perf"
	"github.com/staranto/wtyctlgo/internal/product"
	"github.com/staranto/wtyctlgo/internal/render"
	"github.com/staranto/wtyctlgo/internal/sched"
	"github.com/staranto/wtyctlgo/internal/store"
	"github.com/staranto/wtyctlgo/internal/transfer"
	"github.com/staranto/wtyctlgo/internal/warranty"
)

// Engine owns the product collection and everything derived from it. All
// operations, including timer callbacks, run under one lock so no render
// observes a half applied mutation.
type Engine struct {
	mu sync.Mutex

	settings config.Settings
	clock    sched.Clock
	notify   Notifier
	metrics  *perf.Metrics

	store    *store.Store
	memo     *warranty.Memo
	filters  *filters.Engine
	cache    *cache.RenderCache[render.Card]
	sweeper  *cache.Sweeper
	monitor  *perf.Monitor
	pipeline *render.Pipeline
	surface  render.Surface

	criteria      filters.Criteria
	viewport      render.Viewport
	pendingSearch string
	pendingOffset int
	last          render.Frame
	rendered      bool
	// cardDay is the UTC date the cached cards were built on.
	cardDay string

	search *sched.Debouncer
	scroll *sched.Throttler
	ticker *sched.Ticker
	closed bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock, eg. with a sched.ManualClock in tests.
func WithClock(c sched.Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithMetrics reports operation timings and cache size to m.
func WithMetrics(m *perf.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithNotifier sends notices to n instead of the log.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		e.notify = n
	}
}

// WithCriteria starts the Engine filtered by c.
func WithCriteria(c filters.Criteria) Option {
	return func(e *Engine) {
		e.criteria = c
	}
}

// WithOffset starts the Engine scrolled to offset. Out of range offsets are
// clamped by the viewport window.
func WithOffset(offset int) Option {
	return func(e *Engine) {
		e.pendingOffset = max(offset, 0)
	}
}

// New builds an Engine over be drawing onto surface, loads the collection and
// starts the periodic cache sweep. A nil surface discards frames. The caller
// owns the Engine and must Close it.
func New(be backend.Backend, surface render.Surface, s config.Settings, opts ...Option) (*Engine, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		settings: s,
		clock:    sched.Real(),
		notify:   LogNotifier,
		surface:  surface,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.surface == nil {
		e.surface = discard{}
	}

	rc, err := cache.New[render.Card](s.CacheCapacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create render cache: %w", err)
	}
	e.cache = rc

	e.memo = warranty.NewMemo(warranty.Calculator{ExpiringDays: s.ExpiringDays})
	e.filters = filters.NewEngine(func(p product.Product) warranty.Status {
		return e.memo.Status(p, e.clock.Now()).Status
	})
	e.monitor = perf.NewMonitor(s.SampleCapacity, s.SlowThreshold, perf.WithMetrics(e.metrics), perf.WithClock(e.clock))
	e.pipeline = &render.Pipeline{
		Filters:  e.filters,
		Cache:    e.cache,
		Memo:     e.memo,
		Monitor:  e.monitor,
		Clock:    e.clock,
		Currency: s.Currency,
	}
	e.viewport = render.Viewport{
		Enabled:    s.Virtualize,
		ItemExtent: s.ItemExtent,
		Height:     s.ViewportHeight,
		Overscan:   s.Overscan,
		Threshold:  s.VirtualizeThreshold,
		Offset:     e.pendingOffset,
	}

	e.store = store.New(be)
	if err := e.store.Load(); err != nil {
		log.WithError(err).Warnf("failed to load products from %s, starting empty", be)
		e.notify(Notice{Kind: Warning, Message: "Stored product data could not be read, starting with an empty collection"})
	}

	e.cardDay = dayOf(e.clock.Now())
	e.sweeper = cache.NewSweeper(cache.Policy{
		SweepAfter:     s.SweepAfter,
		RoutineLimit:   s.RoutineLimit,
		RoutineBatch:   s.RoutineBatch,
		EmergencyLimit: s.EmergencyLimit,
		EmergencyBatch: s.EmergencyBatch,
	}, e.clock.Now())

	e.search = sched.NewDebouncer(e.clock, s.SearchDebounce, e.applySearch)
	e.scroll = sched.NewThrottler(e.clock, s.ScrollThrottle, e.applyScroll)
	e.ticker = sched.NewTicker(e.clock, s.SweepInterval, func() { e.Sweep() })

	log.Debugf("engine started with %d products", e.store.Len())
	return e, nil
}

// Close stops the sweep ticker and drops pending search and scroll work. It
// is safe to call more than once.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	e.ticker.Stop()
	e.search.Stop()
	e.scroll.Stop()
}

// Add validates in and puts the new product at the front of the collection.
// A product that looks like one already stored is added anyway with a
// warning notice.
func (e *Engine) Add(in product.Input) (product.Product, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	if err := e.validate(in); err != nil {
		return product.Product{}, err
	}
	if product.IsDuplicate(e.store.All(), in) {
		e.notify(Notice{Kind: Warning, Message: "Similar product detected, please confirm if this is a duplicate"})
	}

	p := product.New(in, now)
	if err := e.store.Add(p); err != nil {
		e.notify(Notice{Kind: Error, Message: "Failed to add product: " + err.Error()})
		return product.Product{}, err
	}

	// New keys cannot collide with cached cards, only the subset is stale.
	e.filters.Reset()
	e.renderLocked()

	e.notify(Notice{Kind: Success, Message: "Product added successfully!"})
	return p, nil
}

// Update replaces the editable fields of the product with id.
func (e *Engine) Update(id string, in product.Input) (product.Product, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.validate(in); err != nil {
		return product.Product{}, err
	}

	existing, ok := e.store.Get(id)
	if !ok {
		e.notify(Notice{Kind: Error, Message: "Product not found"})
		return product.Product{}, fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}

	p := existing.Edit(in, e.clock.Now())
	if err := e.store.Replace(p); err != nil {
		e.notify(Notice{Kind: Error, Message: "Failed to update product: " + err.Error()})
		return product.Product{}, err
	}

	e.invalidate()
	e.renderLocked()

	e.notify(Notice{Kind: Success, Message: "Product updated successfully!"})
	return p, nil
}

// Delete removes the product with id.
func (e *Engine) Delete(id string) (product.Product, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.store.Delete(id)
	if err != nil {
		e.notify(Notice{Kind: Error, Message: "Failed to delete product: " + err.Error()})
		return product.Product{}, err
	}

	e.memo.Forget(id)
	e.invalidate()
	e.renderLocked()

	e.notify(Notice{Kind: Success, Message: "Product deleted successfully!"})
	return p, nil
}

// Import replaces the whole collection with the products of an export
// document. A malformed document changes nothing.
func (e *Engine) Import(data []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	products, err := transfer.Decode(data, e.clock.Now(), product.NewID)
	if err != nil {
		if errors.Is(err, transfer.ErrMalformed) {
			e.notify(Notice{Kind: Error, Message: "File format error, please check file content"})
		} else {
			e.notify(Notice{Kind: Error, Message: "Invalid data format"})
		}
		log.WithError(err).Warn("import rejected")
		return 0, err
	}

	if err := e.store.ReplaceAll(products); err != nil {
		e.notify(Notice{Kind: Error, Message: "Failed to import data"})
		return 0, err
	}

	e.memo.Reset()
	e.invalidate()
	e.viewport.Offset = 0
	e.renderLocked()

	e.notify(Notice{Kind: Success, Message: fmt.Sprintf("Successfully imported %d products!", len(products))})
	return len(products), nil
}

// PreviewImport decodes data like Import and describes how it would change
// the collection, without changing anything.
func (e *Engine) PreviewImport(data []byte) (diff string, changed bool, count int, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	products, err := transfer.Decode(data, e.clock.Now(), product.NewID)
	if err != nil {
		return "", false, 0, err
	}
	diff, changed, err = transfer.Diff(e.store.All(), products)
	return diff, changed, len(products), err
}

// Clear removes every product.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.store.Clear()
	e.memo.Reset()
	e.invalidate()
	e.viewport.Offset = 0
	e.renderLocked()

	e.notify(Notice{Kind: Success, Message: "All data has been cleared"})
}

// Export writes the collection to w as an export document.
func (e *Engine) Export(w io.Writer) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	data, err := transfer.Export(e.store.All(), e.clock.Now())
	if err == nil {
		_, err = w.Write(append(data, '\n'))
	}
	if err != nil {
		e.notify(Notice{Kind: Error, Message: "Failed to export data"})
		return fmt.Errorf("failed to export products: %w", err)
	}
	return nil
}

// Find resolves a product reference: an id, a unique id prefix or ~N.
func (e *Engine) Find(ref string) (product.Product, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Find(ref)
}

// Get returns the product with id.
func (e *Engine) Get(id string) (product.Product, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Get(id)
}

// Products returns a copy of the collection, newest first.
func (e *Engine) Products() []product.Product {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.All()
}

// Visible returns the products the current criteria select.
func (e *Engine) Visible() []product.Product {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pipeline.Visible(e.store.All(), e.store.Version(), e.criteria)
}

// Status returns the warranty status of p as of now.
func (e *Engine) Status(p product.Product) warranty.Info {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.memo.Status(p, e.clock.Now())
}

// Card returns the view of p, from the render cache when possible.
func (e *Engine) Card(p product.Product) render.Card {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pipeline.Card(p)
}

// Criteria returns the active filter criteria.
func (e *Engine) Criteria() filters.Criteria {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.criteria
}

// SetCriteria replaces every criterion at once and renders.
func (e *Engine) SetCriteria(c filters.Criteria) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setCriteria(c)
}

// SetCategory filters on an exact category. Empty clears it.
func (e *Engine) SetCategory(category string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := e.criteria
	c.Category = category
	e.setCriteria(c)
}

// SetStatus filters on a warranty status. Empty clears it.
func (e *Engine) SetStatus(status string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := e.criteria
	c.Status = status
	e.setCriteria(c)
}

// SetExpr filters on a --filter style expression list. Empty clears it.
func (e *Engine) SetExpr(expr string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := e.criteria
	c.Expr = expr
	e.setCriteria(c)
}

// Search sets the free text search once input has been quiet for the
// search debounce period. Only the last term of a burst is applied.
func (e *Engine) Search(term string) {
	e.mu.Lock()
	e.pendingSearch = term
	e.mu.Unlock()

	e.search.Trigger()
}

// FlushSearch applies a pending search now. It reports whether there was
// one.
func (e *Engine) FlushSearch() bool {
	return e.search.Flush()
}

func (e *Engine) applySearch() {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := e.criteria
	c.Search = e.pendingSearch
	e.setCriteria(c)
}

func (e *Engine) setCriteria(c filters.Criteria) {
	if c.Signature() != e.criteria.Signature() {
		e.viewport.Offset = 0
	}
	e.criteria = c
	e.renderLocked()
}

// Scroll moves the viewport to offset. Window recomputation is throttled to
// the scroll throttle interval with one trailing run for a burst.
func (e *Engine) Scroll(offset int) {
	e.mu.Lock()
	e.pendingOffset = offset
	e.mu.Unlock()

	e.scroll.Trigger()
}

func (e *Engine) applyScroll() {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := e.last.Summary.Displayed
	e.viewport.Offset = min(max(e.pendingOffset, 0), e.viewport.MaxOffset(n))
	e.renderLocked()
}

// SetViewport changes the viewport height and renders.
func (e *Engine) SetViewport(height int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.viewport.Height = max(height, 1)
	e.renderLocked()
}

// Viewport returns the current viewport.
func (e *Engine) Viewport() render.Viewport {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewport
}

// Render draws the current state onto the surface.
func (e *Engine) Render() (render.Frame, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.renderLocked()
}

// Summary counts what the current criteria show.
func (e *Engine) Summary() render.Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	visible := e.pipeline.Visible(e.store.All(), e.store.Version(), e.criteria)
	return render.Summary{Displayed: len(visible), Total: e.store.Len(), Filtered: e.criteria.Active()}
}

// Sweep runs one cache sweep tick. The ticker calls it every sweep
// interval. A routine sweep also drops memoized statuses and the filter
// subset, as both depend on the date.
func (e *Engine) Sweep() cache.SweepResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	res := e.sweeper.Tick(e.cache, now)
	if res.Routine {
		e.memo.Reset()
		e.filters.Reset()
		// Cards carry day-based status text, drop them once the date moves on.
		if today := dayOf(now); today != e.cardDay {
			e.cache.Clear()
			e.cardDay = today
			if e.rendered {
				e.renderLocked()
			}
		}
	}
	if e.metrics != nil {
		e.metrics.SetCacheSize(e.cache.Len())
	}
	return res
}

// Stats summarises recent operation timings. It is false when nothing has
// been timed yet.
func (e *Engine) Stats() (perf.Stats, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.monitor.Stats(e.cache.Len())
}

// Samples returns the recorded timings, oldest first.
func (e *Engine) Samples() []perf.Sample {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.monitor.Samples()
}

// CacheStats returns the render cache counters and size.
func (e *Engine) CacheStats() (cache.Stats, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cache.Stats(), e.cache.Len()
}

// MemoStats returns the memo size and its hit and miss counters.
func (e *Engine) MemoStats() (size, hits, misses int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	hits, misses = e.memo.Counts()
	return e.memo.Len(), hits, misses
}

func (e *Engine) validate(in product.Input) error {
	if err := in.Validate(e.clock.Now()); err != nil {
		e.notify(Notice{Kind: Error, Message: "Product information validation failed, please check the form."})
		return err
	}
	return nil
}

// invalidate drops everything derived from content that may have changed.
func (e *Engine) invalidate() {
	e.cache.Clear()
	e.filters.Reset()
}

// renderLocked draws a frame. A failure is notified and only abandons this
// pass.
func (e *Engine) renderLocked() (render.Frame, error) {
	frame, err := e.pipeline.Render(e.surface, e.store.All(), e.store.Version(), e.criteria, e.viewport)
	if e.metrics != nil {
		e.metrics.SetCacheSize(e.cache.Len())
	}
	if err != nil {
		e.notify(Notice{Kind: Error, Message: "Failed to display products: " + err.Error()})
		return frame, err
	}
	e.last = frame
	e.rendered = true
	return frame, nil
}

func dayOf(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

type discard struct{}

func (discard) Empty(render.Summary) error { return nil }
func (discard) Draw(render.Frame) error    { return nil }
