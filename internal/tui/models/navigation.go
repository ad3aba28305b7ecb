// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package models defines shared navigation messages between UI screens.
package models

import (
	"github.com/janderssonse/dex/internal/catalog"
	"github.com/janderssonse/dex/internal/domain"
)

// NavigateMsg is a message sent to request navigation to a specific screen.
type NavigateMsg struct {
	Screen int
	Data   any // Item id for DetailScreen
}

// Screen constants for navigation.
const (
	CatalogScreen = iota
	DetailScreen
	HelpScreen
)

// GoodbyeMessage is shown when the browser quits.
const GoodbyeMessage = "Goodbye!\n"

// PageLoadedMsg carries the response of an admitted page request.
type PageLoadedMsg struct {
	Request catalog.Request
	Items   []domain.Item
	Err     error
}

// CategoriesLoadedMsg reports the end of the category reference load.
type CategoriesLoadedMsg struct {
	Err error
}

// ItemLoadedMsg carries the detail response for one item.
type ItemLoadedMsg struct {
	ID      int
	Item    *domain.Item
	Message string
	Err     error
}

// SearchDebounceMsg fires when the search input has been idle for the debounce delay.
type SearchDebounceMsg struct {
	seq  int
	term string
}

// FilterAppliedMsg is sent when the filter panel is submitted.
type FilterAppliedMsg struct {
	Categories []domain.CategoryID
	PageSize   int
}

// FilterCancelledMsg is sent when the filter panel is closed without changes.
type FilterCancelledMsg struct{}
