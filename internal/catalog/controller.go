// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package catalog owns the filter, pagination and request sequencing state of a browsing session.
package catalog

import (
	"context"
	"slices"
	"sync"

	"github.com/janderssonse/dex/internal/domain"
	"go.uber.org/zap"
)

// Request is a page fetch that has been admitted by the in-flight guard.
type Request struct {
	Offset     int
	Query      domain.PageQuery
	Generation uint64
}

// Outcome describes what Complete did with a response.
type Outcome struct {
	// Applied is true when the response was merged into the window.
	Applied bool
	// Stale is true when the response belonged to an older filter generation and was dropped.
	Stale bool
	// Failed is true when the request returned an error.
	Failed bool
	// Refetch is true when filters changed while the request was in flight and
	// the caller should begin a fresh fetch at offset 0.
	Refetch bool
}

// Snapshot is a read-only copy of the controller state.
type Snapshot struct {
	Filter     domain.FilterState
	Window     domain.ResultWindow
	Loading    bool
	Err        string
	Generation uint64
}

// Controller holds filter state, the result window and the single in-flight guard.
// All methods are safe for concurrent use; Bubble Tea commands may complete on
// another goroutine than the one that began them.
type Controller struct {
	api    domain.CatalogAPI
	logger *zap.Logger

	mu           sync.Mutex
	filter       domain.FilterState
	window       domain.ResultWindow
	errMsg       string
	inFlight     bool
	generation   uint64
	resetPending bool

	// windowGeneration is the generation whose first page the window holds.
	windowGeneration uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithFilter sets the initial filter state. Invalid page sizes fall back to the default.
func WithFilter(filter domain.FilterState) Option {
	return func(c *Controller) {
		c.filter = filter.Clone()
		if !domain.ValidPageSize(c.filter.PageSize) {
			c.filter.PageSize = domain.DefaultPageSize
		}
	}
}

// NewController creates a controller over the given catalog API.
func NewController(api domain.CatalogAPI, opts ...Option) *Controller {
	ctrl := &Controller{
		api:          api,
		logger:       zap.NewNop(),
		filter:       domain.NewFilterState(),
		resetPending: true,
	}

	for _, opt := range opts {
		opt(ctrl)
	}

	ctrl.window = domain.NewResultWindow(ctrl.filter.PageSize)

	return ctrl
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	window := c.window
	window.Items = slices.Clone(c.window.Items)

	return Snapshot{
		Filter:     c.filter.Clone(),
		Window:     window,
		Loading:    c.inFlight,
		Err:        c.errMsg,
		Generation: c.generation,
	}
}

// Filter returns the current filter state.
func (c *Controller) Filter() domain.FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.filter.Clone()
}

// SetSearchTerm replaces the search term. It reports whether the filter changed.
func (c *Controller) SetSearchTerm(term string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.filter.SearchTerm == term {
		return false
	}

	c.filter.SearchTerm = term
	c.filtersChanged("search")

	return true
}

// ToggleCategory adds or removes a category from the selection.
func (c *Controller) ToggleCategory(id domain.CategoryID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.filter.Toggle(id)
	c.filtersChanged("category")
}

// SetPageSize changes the page size. It reports whether the filter changed.
func (c *Controller) SetPageSize(size int) (bool, error) {
	if !domain.ValidPageSize(size) {
		return false, domain.ErrInvalidPageSize
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.filter.PageSize == size {
		return false, nil
	}

	c.filter.PageSize = size
	c.filtersChanged("page_size")

	return true, nil
}

// filtersChanged must be called with mu held.
func (c *Controller) filtersChanged(field string) {
	c.generation++
	c.resetPending = true

	c.logger.Debug("filters changed",
		zap.String("field", field),
		zap.Uint64("generation", c.generation),
		zap.Bool("in_flight", c.inFlight))
}

// Begin admits a fetch at requestedOffset. It returns false without side
// effects when another fetch is already in flight. The offset is forced to 0
// while a filter reset is pending or the window still holds an older
// generation's items, for example after a failed reset fetch.
func (c *Controller) Begin(requestedOffset int) (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		c.logger.Debug("fetch dropped, request in flight", zap.Int("offset", requestedOffset))

		return Request{}, false
	}

	if c.resetPending || c.windowGeneration != c.generation {
		requestedOffset = 0
	}

	c.resetPending = false
	c.inFlight = true

	req := Request{
		Offset:     requestedOffset,
		Query:      c.filter.Query(requestedOffset),
		Generation: c.generation,
	}

	c.logger.Debug("fetch started",
		zap.Int("offset", req.Offset),
		zap.Stringer("query", req.Query),
		zap.Uint64("generation", req.Generation))

	return req, true
}

// LoadMore begins a fetch of the next page when more data is expected.
func (c *Controller) LoadMore() (Request, bool) {
	c.mu.Lock()
	hasMore := c.window.HasMore || c.resetPending
	offset := c.window.Offset
	c.mu.Unlock()

	if !hasMore {
		return Request{}, false
	}

	return c.Begin(offset)
}

// Reload begins a fetch of the first page for the current filter.
func (c *Controller) Reload() (Request, bool) {
	return c.Begin(0)
}

// Execute performs the network call for an admitted request.
func (c *Controller) Execute(ctx context.Context, req Request) ([]domain.Item, error) {
	return c.api.ListItems(ctx, req.Query) //nolint:wrapcheck // adapter errors are already wrapped
}

// Complete releases the in-flight guard and merges the response.
func (c *Controller) Complete(req Request, items []domain.Item, err error) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inFlight = false

	var outcome Outcome

	switch {
	case req.Generation != c.generation:
		outcome.Stale = true

		c.logger.Debug("stale response discarded",
			zap.Uint64("request_generation", req.Generation),
			zap.Uint64("current_generation", c.generation))
	case err != nil:
		outcome.Failed = true
		c.errMsg = domain.MsgItemsFailed
		c.window.HasMore = false

		c.logger.Warn("page fetch failed",
			zap.Int("offset", req.Offset),
			zap.Stringer("query", req.Query),
			zap.Error(err))
	default:
		outcome.Applied = true
		c.errMsg = ""

		if req.Offset == 0 {
			c.window = domain.NewResultWindow(req.Query.PerPage)
			c.windowGeneration = req.Generation
		}

		c.window = c.window.Merge(req.Offset, items)

		c.logger.Debug("page merged",
			zap.Int("offset", req.Offset),
			zap.Int("received", len(items)),
			zap.Int("window", len(c.window.Items)),
			zap.Bool("has_more", c.window.HasMore))
	}

	outcome.Refetch = c.resetPending

	return outcome
}

// FetchPage runs Begin, Execute and Complete in sequence. It returns false
// when another fetch was already in flight.
func (c *Controller) FetchPage(ctx context.Context, requestedOffset int) (Outcome, bool) {
	req, ok := c.Begin(requestedOffset)
	if !ok {
		return Outcome{}, false
	}

	items, err := c.Execute(ctx, req)

	return c.Complete(req, items, err), true
}

// Sync brings the window in line with the current filter: it fetches the
// first page and, if filters changed during that fetch, fetches again until
// a response for the current generation has been applied or has failed.
func (c *Controller) Sync(ctx context.Context) (Outcome, bool) {
	outcome, ok := c.FetchPage(ctx, 0)
	for ok && outcome.Refetch && ctx.Err() == nil {
		outcome, ok = c.FetchPage(ctx, 0)
	}

	return outcome, ok
}
