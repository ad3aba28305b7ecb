// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/janderssonse/dex/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedCatalog(t *testing.T, api *fakeCatalog, debounce time.Duration) *Catalog {
	t.Helper()

	model := newTestCatalog(api, 5, debounce)
	updated, _ := pump(t, model, model.Init())

	catalogModel, ok := updated.(*Catalog)
	require.True(t, ok, "expected *Catalog")

	return catalogModel
}

func TestCatalogInitialLoad(t *testing.T) {
	t.Parallel()

	api := newFakeCatalog(120)
	model := loadedCatalog(t, api, 0)

	assert.Len(t, model.snap.Window.Items, 50)
	assert.True(t, model.snap.Window.HasMore)
	assert.False(t, model.snap.Loading)
	assert.Equal(t, 1, api.queryCount())
	assert.Equal(t, domain.PageQuery{Page: 1, PerPage: 50, Types: []string{}}, api.lastQuery())

	view := model.View()
	assert.Contains(t, view, "#001")
	assert.Contains(t, view, "Mon001")
}

func TestCatalogInfiniteScroll(t *testing.T) {
	t.Parallel()

	api := newFakeCatalog(120)
	model := loadedCatalog(t, api, 0)

	updated, cmd := model.Update(runeKey('G'))
	updated, _ = pump(t, updated, cmd)
	model = updated.(*Catalog)

	assert.Equal(t, 49, model.Cursor())
	assert.Len(t, model.snap.Window.Items, 100)
	assert.Equal(t, 2, api.lastQuery().Page)

	updated, cmd = model.Update(runeKey('G'))
	updated, _ = pump(t, updated, cmd)
	model = updated.(*Catalog)

	assert.Len(t, model.snap.Window.Items, 120)
	assert.False(t, model.snap.Window.HasMore)
	assert.Equal(t, 3, api.queryCount())
	assert.Contains(t, model.View(), MsgAllLoaded)

	// Nothing is left to fetch.
	_, cmd = model.Update(runeKey('k'))
	assert.Nil(t, cmd)
}

func TestCatalogSearchTyping(t *testing.T) {
	t.Parallel()

	api := newFakeCatalog(120)
	model := loadedCatalog(t, api, 0)

	updated, _ := model.Update(runeKey('/'))
	model = updated.(*Catalog)
	require.True(t, model.Searching())

	for _, r := range "dra" {
		var cmd tea.Cmd

		updated, cmd = model.Update(runeKey(r))
		updated, _ = pump(t, updated, cmd)
		model = updated.(*Catalog)
	}

	assert.Equal(t, "dra", model.snap.Filter.SearchTerm)
	assert.Equal(t, 4, api.queryCount())
	assert.Equal(t, 1, api.lastQuery().Page)
	require.Len(t, model.snap.Window.Items, 1)
	assert.Equal(t, 6, model.snap.Window.Items[0].ID)

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	model = updated.(*Catalog)
	assert.False(t, model.Searching())
	assert.Equal(t, "dra", model.search.Value(), "leaving the input keeps the term")
}

func TestCatalogSearchDebounce(t *testing.T) {
	t.Parallel()

	api := newFakeCatalog(120)
	model := loadedCatalog(t, api, time.Hour)

	updated, _ := model.Update(runeKey('/'))
	updated, _ = updated.Update(runeKey('x'))
	model = updated.(*Catalog)

	assert.Empty(t, model.ctrl.Filter().SearchTerm, "term waits for the debounce delay")

	_, cmd := model.Update(SearchDebounceMsg{seq: model.searchSeq - 1, term: "x"})
	assert.Nil(t, cmd, "superseded debounce is ignored")

	updated, cmd = model.Update(SearchDebounceMsg{seq: model.searchSeq, term: "x"})
	updated, _ = pump(t, updated, cmd)
	model = updated.(*Catalog)

	assert.Equal(t, "x", model.snap.Filter.SearchTerm)
	assert.Empty(t, model.snap.Window.Items)
	assert.Contains(t, model.View(), MsgNoItems)
}

func TestCatalogStaleResponseTriggersRefetch(t *testing.T) {
	t.Parallel()

	api := newFakeCatalog(120)
	model := newTestCatalog(api, 5, 0)

	var first PageLoadedMsg

	for _, msg := range collect(t, model.Init()) {
		if page, ok := msg.(PageLoadedMsg); ok {
			first = page
		}
	}

	require.Len(t, first.Items, 50)

	// The reload is dropped because the first page is still in flight.
	_, cmd := model.Update(SearchDebounceMsg{seq: model.searchSeq, term: "dra"})
	assert.Nil(t, cmd)

	updated, cmd := model.Update(first)
	require.NotNil(t, cmd, "stale response must start a refetch")

	updated, _ = pump(t, updated, cmd)
	model = updated.(*Catalog)

	assert.Equal(t, 2, api.queryCount())
	assert.Equal(t, "dra", api.lastQuery().Name)
	require.Len(t, model.snap.Window.Items, 1)
	assert.Equal(t, "dracaufeu", model.snap.Window.Items[0].Name)
}

func TestCatalogFailureAndRetry(t *testing.T) {
	t.Parallel()

	api := newFakeCatalog(120)
	api.failList = 1

	model := loadedCatalog(t, api, 0)

	assert.Equal(t, domain.MsgItemsFailed, model.snap.Err)
	assert.False(t, model.snap.Window.HasMore)
	assert.Contains(t, model.View(), domain.MsgItemsFailed)

	updated, cmd := model.Update(runeKey('r'))
	updated, _ = pump(t, updated, cmd)
	model = updated.(*Catalog)

	assert.Empty(t, model.snap.Err)
	assert.Len(t, model.snap.Window.Items, 50)
	assert.Equal(t, 2, api.queryCount())

	_, cmd = model.Update(runeKey('r'))
	assert.Nil(t, cmd, "retry only applies after a failure")
}

func TestCatalogRetryAfterFailedFilterChange(t *testing.T) {
	t.Parallel()

	api := newFakeCatalog(120)
	model := loadedCatalog(t, api, 0)

	updated, cmd := model.Update(runeKey('G'))
	updated, _ = pump(t, updated, cmd)
	model = updated.(*Catalog)
	require.Len(t, model.snap.Window.Items, 100)

	api.mu.Lock()
	api.failList = 1
	api.mu.Unlock()

	updated, cmd = model.Update(FilterAppliedMsg{Categories: []domain.CategoryID{"10"}, PageSize: 50})
	updated, _ = pump(t, updated, cmd)
	model = updated.(*Catalog)
	require.Equal(t, domain.MsgItemsFailed, model.snap.Err)

	updated, cmd = model.Update(runeKey('r'))
	updated, _ = pump(t, updated, cmd)
	model = updated.(*Catalog)

	assert.Equal(t, 1, api.lastQuery().Page, "retry restarts the new filter from the first page")
	assert.Equal(t, []string{"10"}, api.lastQuery().Types)
	assert.Empty(t, model.snap.Err)
	assert.Equal(t, 0, model.Cursor())
	require.Len(t, model.snap.Window.Items, 50)
	assert.Equal(t, 50, model.snap.Window.Offset)

	for _, item := range model.snap.Window.Items {
		assert.True(t, item.HasCategory("10"), "item %d does not match the active filter", item.ID)
	}
}

func TestCatalogPageSizeCycle(t *testing.T) {
	t.Parallel()

	api := newFakeCatalog(120)
	model := loadedCatalog(t, api, 0)

	updated, cmd := model.Update(runeKey('p'))
	updated, _ = pump(t, updated, cmd)
	model = updated.(*Catalog)

	assert.Equal(t, 100, model.snap.Filter.PageSize)
	assert.Equal(t, 100, api.lastQuery().PerPage)
	assert.Equal(t, 1, api.lastQuery().Page)
	assert.Len(t, model.snap.Window.Items, 100)
}

func TestCatalogFilterPanel(t *testing.T) {
	t.Parallel()

	api := newFakeCatalog(120)
	model := loadedCatalog(t, api, 0)

	updated, _ := model.Update(runeKey('f'))
	model = updated.(*Catalog)
	require.True(t, model.FilterOpen())
	assert.Contains(t, model.View(), "Filters")

	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	updated, _ = pump(t, updated, cmd)
	model = updated.(*Catalog)
	assert.False(t, model.FilterOpen())
	assert.Equal(t, 1, api.queryCount(), "cancel does not reload")
}

func TestCatalogFilterApplied(t *testing.T) {
	t.Parallel()

	api := newFakeCatalog(120)
	model := loadedCatalog(t, api, 0)

	applied := FilterAppliedMsg{Categories: []domain.CategoryID{"10"}, PageSize: 50}

	updated, cmd := model.Update(applied)
	updated, _ = pump(t, updated, cmd)
	model = updated.(*Catalog)

	assert.Equal(t, []string{"10"}, api.lastQuery().Types)
	assert.Len(t, model.snap.Window.Items, 50)

	for _, item := range model.snap.Window.Items {
		assert.True(t, item.HasCategory("10"))
	}

	_, cmd = model.Update(applied)
	assert.Nil(t, cmd, "unchanged selection does not reload")

	updated, cmd = model.Update(runeKey('x'))
	updated, _ = pump(t, updated, cmd)
	model = updated.(*Catalog)

	assert.Empty(t, model.snap.Filter.Categories)
	assert.Empty(t, api.lastQuery().Types)
	assert.Equal(t, 3, api.queryCount())
}

func TestCatalogOpenDetail(t *testing.T) {
	t.Parallel()

	model := loadedCatalog(t, newFakeCatalog(10), 0)

	updated, _ := model.Update(runeKey('j'))
	_, cmd := updated.Update(tea.KeyMsg{Type: tea.KeyEnter})

	nav, ok := navigation(collect(t, cmd))
	require.True(t, ok)
	assert.Equal(t, NavigateMsg{Screen: DetailScreen, Data: 2}, nav)
}

func TestCatalogQuit(t *testing.T) {
	t.Parallel()

	model := loadedCatalog(t, newFakeCatalog(3), 0)

	updated, cmd := model.Update(runeKey('q'))
	require.NotNil(t, cmd)
	assert.Equal(t, GoodbyeMessage, updated.View())
}
