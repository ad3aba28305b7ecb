// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/janderssonse/dex/internal/domain"
	"github.com/janderssonse/dex/internal/stringutil"
	"github.com/janderssonse/dex/internal/tui/styles"
)

// Filter is the type and page size selection panel shown over the catalog.
type Filter struct {
	styles        *styles.Styles
	form          *huh.Form
	selected      []string
	pageSize      int
	categoriesErr string
}

// NewFilter builds the panel from the loaded categories and the active filter.
// categoriesErr is shown instead of the type list when categories failed to load.
func NewFilter(styleConfig *styles.Styles, categories []domain.Category, current domain.FilterState, categoriesErr string) *Filter {
	panel := &Filter{
		styles:        styleConfig,
		pageSize:      current.PageSize,
		categoriesErr: categoriesErr,
	}

	for _, id := range current.Categories {
		panel.selected = append(panel.selected, string(id))
	}

	fields := make([]huh.Field, 0, 2)

	if len(categories) > 0 {
		options := make([]huh.Option[string], 0, len(categories))
		for _, category := range categories {
			options = append(options, huh.NewOption(stringutil.TitleCase(category.Name), string(category.ID)))
		}

		fields = append(fields, huh.NewMultiSelect[string]().
			Title("Types").
			Description("Items must carry every selected type").
			Options(options...).
			Height(len(options)/2+2).
			Value(&panel.selected))
	}

	sizes := make([]huh.Option[int], 0, len(domain.PageSizeOptions))
	for _, size := range domain.PageSizeOptions {
		sizes = append(sizes, huh.NewOption(strconv.Itoa(size)+" per page", size))
	}

	fields = append(fields, huh.NewSelect[int]().
		Title("Page size").
		Options(sizes...).
		Value(&panel.pageSize))

	panel.form = huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(huh.ThemeCharm()).
		WithShowHelp(true)

	return panel
}

// Init starts the form.
func (m *Filter) Init() tea.Cmd {
	return m.form.Init()
}

// Update forwards input to the form and reports submission or cancellation as messages.
func (m *Filter) Update(msg tea.Msg) (*Filter, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		return m, func() tea.Msg { return FilterCancelledMsg{} }
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m, m.applied
	case huh.StateAborted:
		return m, func() tea.Msg { return FilterCancelledMsg{} }
	case huh.StateNormal:
	}

	return m, cmd
}

func (m *Filter) applied() tea.Msg {
	ids := make([]domain.CategoryID, 0, len(m.selected))
	for _, id := range m.selected {
		ids = append(ids, domain.CategoryID(id))
	}

	return FilterAppliedMsg{Categories: ids, PageSize: m.pageSize}
}

// View renders the panel.
func (m *Filter) View() string {
	var builder strings.Builder

	builder.WriteString(m.styles.Title.Render("Filters"))
	builder.WriteString("\n")

	if m.categoriesErr != "" {
		builder.WriteString(m.styles.ErrorText.Render(m.categoriesErr))
		builder.WriteString("\n\n")
	}

	builder.WriteString(m.form.View())

	return m.styles.Card.Render(builder.String())
}
