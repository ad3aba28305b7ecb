// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

package domain_test

import (
	"math/rand/v2"
	"testing"

	"github.com/janderssonse/dex/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeItems(start, count int) []domain.Item {
	items := make([]domain.Item, 0, count)
	for i := range count {
		items = append(items, domain.Item{ID: start + i, Name: "item"})
	}

	return items
}

func TestToggleParity(t *testing.T) {
	t.Parallel()

	ids := []domain.CategoryID{"1", "2", "3", "feu", "eau"}
	rng := rand.New(rand.NewPCG(42, 7)) //nolint:gosec // deterministic test data

	for round := range 50 {
		filter := domain.NewFilterState()
		counts := make(map[domain.CategoryID]int)

		for range rng.IntN(40) {
			id := ids[rng.IntN(len(ids))]
			filter.Toggle(id)
			counts[id]++
		}

		seen := make(map[domain.CategoryID]int)
		for _, id := range filter.Categories {
			seen[id]++
		}

		for _, id := range ids {
			assert.LessOrEqual(t, seen[id], 1, "round %d: %s selected more than once", round, id)
			assert.Equal(t, counts[id]%2 == 1, filter.IsSelected(id), "round %d: parity mismatch for %s", round, id)
		}
	}
}

func TestToggleDoesNotAliasClones(t *testing.T) {
	t.Parallel()

	filter := domain.NewFilterState()
	filter.Toggle("1")
	filter.Toggle("2")

	snapshot := filter.Clone()
	filter.Toggle("1")

	assert.Equal(t, []domain.CategoryID{"1", "2"}, snapshot.Categories)
	assert.Equal(t, []domain.CategoryID{"2"}, filter.Categories)
}

func TestPageIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		offset, pageSize, expected int
	}{
		{0, 20, 1},
		{19, 20, 1},
		{20, 20, 2},
		{27, 20, 2},
		{100, 50, 3},
		{10, 0, 1},
	}

	for _, testCase := range tests {
		assert.Equal(t, testCase.expected, domain.PageIndex(testCase.offset, testCase.pageSize),
			"offset=%d pageSize=%d", testCase.offset, testCase.pageSize)
	}
}

func TestFilterQuery(t *testing.T) {
	t.Parallel()

	filter := domain.FilterState{SearchTerm: "char", PageSize: 20}
	filter.Toggle("10")
	filter.Toggle("3")

	query := filter.Query(20)

	assert.Equal(t, 2, query.Page)
	assert.Equal(t, 20, query.PerPage)
	assert.Equal(t, "char", query.Name)
	assert.Equal(t, "10,3", query.TypesParam())
	assert.Empty(t, domain.NewFilterState().Query(0).TypesParam())
}

func TestValidPageSize(t *testing.T) {
	t.Parallel()

	for _, size := range domain.PageSizeOptions {
		assert.True(t, domain.ValidPageSize(size))
	}

	assert.False(t, domain.ValidPageSize(0))
	assert.False(t, domain.ValidPageSize(25))
}

func TestResultWindowMerge(t *testing.T) {
	t.Parallel()

	const pageSize = 20

	window := domain.NewResultWindow(pageSize)
	assert.True(t, window.HasMore, "a fresh window still expects its first page")

	for page := range 3 {
		window = window.Merge(window.Offset, makeItems(page*pageSize+1, pageSize))
		assert.True(t, window.HasMore)
	}

	window = window.Merge(window.Offset, makeItems(3*pageSize+1, 7))

	assert.False(t, window.HasMore)
	assert.Len(t, window.Items, 3*pageSize+7)
	assert.Equal(t, 3*pageSize+7, window.Offset)

	// Offset zero replaces instead of appending
	window = window.Merge(0, makeItems(500, 3))

	require.Len(t, window.Items, 3)
	assert.Equal(t, 500, window.Items[0].ID)
	assert.Equal(t, 3, window.Offset)
	assert.False(t, window.HasMore)
}

func TestResultWindowMergeDoesNotShareBacking(t *testing.T) {
	t.Parallel()

	page := makeItems(1, 2)
	window := domain.NewResultWindow(2).Merge(0, page)

	page[0].Name = "changed"

	assert.Equal(t, "item", window.Items[0].Name)
}
