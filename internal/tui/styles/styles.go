// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package styles defines consistent visual styling for TUI components.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the styles used in the TUI.
type Styles struct {
	// Color palette
	Primary lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color
	Muted   lipgloss.Color

	// Component styles
	Header     lipgloss.Style
	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Card       lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style

	// Text styles
	MutedText   lipgloss.Style
	SuccessText lipgloss.Style
	ErrorText   lipgloss.Style

	// Layout styles
	Container lipgloss.Style
	Content   lipgloss.Style
}

// New creates a new Styles instance with default Tokyo Night theme.
func New() *Styles {
	// Tokyo Night color palette
	primary := lipgloss.Color("#7aa2f7")    // Blue
	success := lipgloss.Color("#9ece6a")    // Green
	warning := lipgloss.Color("#e0af68")    // Yellow
	errorColor := lipgloss.Color("#f7768e") // Red
	info := lipgloss.Color("#7dcfff")       // Cyan
	muted := lipgloss.Color("#565f89")      // Gray

	background := lipgloss.Color("#1a1b26") // Dark background
	foreground := lipgloss.Color("#c0caf5") // Light foreground

	return &Styles{
		Primary: primary,
		Success: success,
		Warning: warning,
		Error:   errorColor,
		Info:    info,
		Muted:   muted,

		Header: lipgloss.NewStyle().
			Background(primary).
			Foreground(background).
			Bold(true).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(info).
			Italic(true),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1),

		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color("#292e42")).
			Foreground(foreground).
			Bold(true),

		Unselected: lipgloss.NewStyle().
			Foreground(foreground),

		MutedText: lipgloss.NewStyle().
			Foreground(muted),

		SuccessText: lipgloss.NewStyle().
			Foreground(success),

		ErrorText: lipgloss.NewStyle().
			Foreground(errorColor),

		Container: lipgloss.NewStyle().
			Padding(0, 2),

		Content: lipgloss.NewStyle().
			Padding(0, 1),
	}
}

// typeColor is the badge background and text color of one item type.
type typeColor struct {
	background lipgloss.Color
	foreground lipgloss.Color
}

const (
	badgeLight = lipgloss.Color("#ffffff")
	badgeDark  = lipgloss.Color("#1f2937")
)

// typeColors is keyed by the lower-cased type name the catalog API returns.
var typeColors = map[string]typeColor{ //nolint:gochecknoglobals
	"normal":   {"#9ca3af", badgeLight},
	"feu":      {"#ef4444", badgeLight},
	"eau":      {"#3b82f6", badgeLight},
	"électrik": {"#facc15", badgeDark},
	"plante":   {"#22c55e", badgeLight},
	"glace":    {"#bfdbfe", badgeDark},
	"combat":   {"#b91c1c", badgeLight},
	"poison":   {"#a855f7", badgeLight},
	"sol":      {"#ca8a04", badgeLight},
	"vol":      {"#a5b4fc", badgeDark},
	"psy":      {"#ec4899", badgeLight},
	"insecte":  {"#4ade80", badgeDark},
	"roche":    {"#a16207", badgeLight},
	"spectre":  {"#7e22ce", badgeLight},
	"dragon":   {"#4f46e5", badgeLight},
	"dark":     {"#1f2937", badgeLight},
	"acier":    {"#6b7280", badgeLight},
	"fée":      {"#f9a8d4", badgeDark},
}

var neutralType = typeColor{"#e5e7eb", badgeDark} //nolint:gochecknoglobals

// KnownType reports whether name has a dedicated badge color.
func KnownType(name string) bool {
	_, ok := typeColors[strings.ToLower(name)]

	return ok
}

// TypeBadge renders a type name as a colored badge. Unknown types get a neutral badge.
func (s *Styles) TypeBadge(name string) string {
	colors, ok := typeColors[strings.ToLower(name)]
	if !ok {
		colors = neutralType
	}

	return lipgloss.NewStyle().
		Background(colors.background).
		Foreground(colors.foreground).
		Padding(0, 1).
		Render(name)
}

// Keybinding returns styled keybinding text.
func (s *Styles) Keybinding(key, desc string) string {
	keyStyle := lipgloss.NewStyle().
		Foreground(s.Primary).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(s.Muted)

	return keyStyle.Render("["+key+"]") + " " + descStyle.Render(desc)
}

// StatBar renders value out of maxValue as a bar of width cells.
func (s *Styles) StatBar(value, maxValue float64, width int) string {
	if maxValue <= 0 || width <= 0 {
		return ""
	}

	filled := min(max(int(value/maxValue*float64(width)), 0), width)

	color := s.Success

	switch {
	case value < maxValue/4:
		color = s.Error
	case value < maxValue/2:
		color = s.Warning
	}

	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		s.MutedText.Render(strings.Repeat("░", width-filled))
}
