// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package stringutil provides display helpers for item names and columns.
package stringutil

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ContainsIgnoreCase checks if text contains substr (case-insensitive).
func ContainsIgnoreCase(text, substr string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(substr))
}

// TitleCase capitalises each word of a display name, French rules.
func TitleCase(text string) string {
	return cases.Title(language.French).String(text)
}

// PadID formats a catalog id with at least three digits, as in #025.
func PadID(id int) string {
	return fmt.Sprintf("#%03d", id)
}

// Truncate shortens text to width terminal cells, ending with an ellipsis.
func Truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}

	return runewidth.Truncate(text, width, "…")
}

// PadRight pads text with spaces to width terminal cells, truncating if longer.
func PadRight(text string, width int) string {
	return runewidth.FillRight(Truncate(text, width), width)
}

// Width returns the number of terminal cells text occupies.
func Width(text string) int {
	return runewidth.StringWidth(text)
}
