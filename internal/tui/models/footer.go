// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package models implements TUI screen models using Bubble Tea.
package models

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/janderssonse/dex/internal/tui/styles"
)

// FooterAction represents a key-action pair for footer display.
type FooterAction struct {
	Key    string
	Action string
}

// RenderFooter creates a standardized footer with the given actions.
func RenderFooter(styleConfig *styles.Styles, width int, actions []FooterAction, includeHelp bool) string {
	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(styleConfig.Primary)
	actionStyle := lipgloss.NewStyle().Foreground(styleConfig.Muted)

	parts := make([]string, 0, len(actions)+1)
	for _, action := range actions {
		parts = append(parts, keyStyle.Render("["+action.Key+"]")+" "+actionStyle.Render(action.Action))
	}

	if includeHelp {
		helpKey := keyStyle.Render("[") +
			lipgloss.NewStyle().Bold(true).Foreground(styleConfig.Warning).Render("?") +
			keyStyle.Render("]")
		parts = append(parts, helpKey+" "+actionStyle.Render("Help"))
	}

	footer := lipgloss.NewStyle().
		Padding(0, 2).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(lipgloss.Color("240"))

	if width > 0 {
		footer = footer.Width(width)
	}

	return footer.Render(strings.Join(parts, "   "))
}
