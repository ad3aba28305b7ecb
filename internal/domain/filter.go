// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultPageSize is the page size used until the user picks another one.
const DefaultPageSize = 50

// PageSizeOptions lists the page sizes a user may choose from.
var PageSizeOptions = []int{20, 50, 100} //nolint:gochecknoglobals

// ValidPageSize reports whether n is one of PageSizeOptions.
func ValidPageSize(n int) bool {
	return slices.Contains(PageSizeOptions, n)
}

// FilterState is the active search term, category selection and page size.
type FilterState struct {
	SearchTerm string
	Categories []CategoryID
	PageSize   int
}

// NewFilterState returns an empty filter with the default page size.
func NewFilterState() FilterState {
	return FilterState{PageSize: DefaultPageSize}
}

// Clone returns a copy that shares no memory with f.
func (f FilterState) Clone() FilterState {
	f.Categories = slices.Clone(f.Categories)

	return f
}

// IsSelected reports whether the category is part of the selection.
func (f FilterState) IsSelected(id CategoryID) bool {
	return slices.Contains(f.Categories, id)
}

// Toggle adds the category when absent and removes it when present.
func (f *FilterState) Toggle(id CategoryID) {
	if idx := slices.Index(f.Categories, id); idx >= 0 {
		f.Categories = slices.Delete(slices.Clone(f.Categories), idx, idx+1)

		return
	}

	f.Categories = append(slices.Clone(f.Categories), id)
}

// Query builds the page request for the given offset.
func (f FilterState) Query(offset int) PageQuery {
	types := make([]string, 0, len(f.Categories))
	for _, id := range f.Categories {
		types = append(types, string(id))
	}

	return PageQuery{
		Page:    PageIndex(offset, f.PageSize),
		PerPage: f.PageSize,
		Name:    f.SearchTerm,
		Types:   types,
	}
}

// PageIndex converts an item offset into a 1-based page number.
func PageIndex(offset, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}

	return offset/pageSize + 1
}

// PageQuery is the list request sent to the catalog API.
type PageQuery struct {
	Page    int      `json:"page"`
	PerPage int      `json:"per_page"`
	Name    string   `json:"name"`
	Types   []string `json:"types"`
}

// TypesParam returns the comma-joined category filter, empty when none are selected.
func (q PageQuery) TypesParam() string {
	return strings.Join(q.Types, ",")
}

// String implements fmt.Stringer for log output.
func (q PageQuery) String() string {
	return fmt.Sprintf("page=%d perPage=%d name=%q types=%q", q.Page, q.PerPage, q.Name, q.TypesParam())
}

// ResultWindow is the accumulated result list for the active filter.
type ResultWindow struct {
	Items    []Item
	Offset   int
	PageSize int
	HasMore  bool
}

// NewResultWindow returns an empty window that still expects a first page.
func NewResultWindow(pageSize int) ResultWindow {
	return ResultWindow{PageSize: pageSize, HasMore: true}
}

// Merge applies a page of k items fetched at requestedOffset.
// Offset 0 replaces the window, any other offset appends.
func (w ResultWindow) Merge(requestedOffset int, page []Item) ResultWindow {
	if requestedOffset == 0 {
		w.Items = slices.Clone(page)
	} else {
		w.Items = append(slices.Clone(w.Items), page...)
	}

	w.Offset = requestedOffset + len(page)
	w.HasMore = len(page) == w.PageSize

	return w
}
