// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/janderssonse/dex/internal/catalog"
	"github.com/janderssonse/dex/internal/domain"
	"github.com/janderssonse/dex/internal/tui/styles"
)

var errOffline = errors.New("connection refused")

// fakeCatalog serves a generated catalog from memory.
type fakeCatalog struct {
	mu       sync.Mutex
	items    []domain.Item
	queries  []domain.PageQuery
	failList int
}

func newFakeCatalog(count int) *fakeCatalog {
	fake := &fakeCatalog{}

	for id := 1; id <= count; id++ {
		item := domain.Item{
			ID:         id,
			Name:       fmt.Sprintf("mon%03d", id),
			Image:      fmt.Sprintf("https://img.example/%d.png", id),
			Categories: []domain.CategoryRef{{ID: "1", Name: "normal"}},
			Stats:      domain.Stats{{Name: "HP", Value: float64(40 + id)}},
		}

		if id%2 == 0 {
			item.Categories = []domain.CategoryRef{{ID: "10", Name: "feu"}}
		}

		switch id {
		case 4:
			item.Name = "salameche"
			item.Evolutions = []domain.Evolution{{PokedexID: 5, Name: "reptincel"}, {PokedexID: 6, Name: "dracaufeu"}}
		case 6:
			item.Name = "dracaufeu"
			item.Categories = []domain.CategoryRef{{ID: "10", Name: "feu"}, {ID: "3", Name: "vol"}}
		}

		fake.items = append(fake.items, item)
	}

	return fake
}

func (f *fakeCatalog) ListItems(_ context.Context, query domain.PageQuery) ([]domain.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queries = append(f.queries, query)

	if f.failList > 0 {
		f.failList--

		return nil, errOffline
	}

	var matched []domain.Item

	for _, item := range f.items {
		if query.Name != "" && !strings.Contains(item.Name, strings.ToLower(query.Name)) {
			continue
		}

		all := true

		for _, id := range query.Types {
			if !item.HasCategory(domain.CategoryID(id)) {
				all = false
			}
		}

		if all {
			matched = append(matched, item)
		}
	}

	start := min((query.Page-1)*query.PerPage, len(matched))
	end := min(start+query.PerPage, len(matched))

	return matched[start:end], nil
}

func (f *fakeCatalog) GetItem(_ context.Context, id int) (*domain.Item, error) {
	for _, item := range f.items {
		if item.ID == id {
			return &item, nil
		}
	}

	return nil, domain.ErrItemNotFound
}

func (f *fakeCatalog) ListCategories(_ context.Context) ([]domain.Category, error) {
	return []domain.Category{
		{ID: "1", Name: "normal"},
		{ID: "3", Name: "vol"},
		{ID: "10", Name: "feu"},
	}, nil
}

func (f *fakeCatalog) lastQuery() domain.PageQuery {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.queries[len(f.queries)-1]
}

func (f *fakeCatalog) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.queries)
}

func newTestCatalog(api domain.CatalogAPI, prefetch int, debounce time.Duration) *Catalog {
	ctrl := catalog.NewController(api)

	return NewCatalog(context.Background(), styles.New(), CatalogOptions{
		Controller:        ctrl,
		Categories:        catalog.NewCategories(api, nil),
		PrefetchThreshold: prefetch,
		SearchDebounce:    debounce,
	})
}

// collect runs cmd and flattens batches. Commands that block on timers,
// such as cursor blinks and debounce ticks, are skipped.
func collect(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()

	if cmd == nil {
		return nil
	}

	done := make(chan tea.Msg, 1)

	go func() { done <- cmd() }()

	var msg tea.Msg

	select {
	case msg = <-done:
	case <-time.After(100 * time.Millisecond):
		return nil
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, collect(t, c)...)
		}

		return msgs
	}

	if msg == nil {
		return nil
	}

	return []tea.Msg{msg}
}

// pump feeds data messages produced by cmd back into model until it settles.
// Other messages are returned to the caller.
//
//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func pump(t *testing.T, model tea.Model, cmd tea.Cmd) (tea.Model, []tea.Msg) {
	t.Helper()

	var other []tea.Msg

	queue := collect(t, cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]

		switch msg.(type) {
		case PageLoadedMsg, CategoriesLoadedMsg, ItemLoadedMsg, FilterAppliedMsg, FilterCancelledMsg:
			var next tea.Cmd

			model, next = model.Update(msg)
			queue = append(queue, collect(t, next)...)
		default:
			other = append(other, msg)
		}
	}

	return model, other
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func navigation(msgs []tea.Msg) (NavigateMsg, bool) {
	for _, msg := range msgs {
		if nav, ok := msg.(NavigateMsg); ok {
			return nav, true
		}
	}

	return NavigateMsg{}, false
}
