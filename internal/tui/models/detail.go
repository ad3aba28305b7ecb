// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/janderssonse/dex/internal/catalog"
	"github.com/janderssonse/dex/internal/domain"
	"github.com/janderssonse/dex/internal/stringutil"
	"github.com/janderssonse/dex/internal/tui/styles"
	"go.uber.org/zap"
)

// MsgNoEvolutions is shown when an item has no evolution line.
const MsgNoEvolutions = "No evolutions available"

const (
	maxStatValue = 255
	statBarWidth = 24
	statLabel    = 16
)

// DetailKeyMap defines key bindings for the detail screen.
type DetailKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Open  key.Binding
	Back  key.Binding
	Retry key.Binding
	Help  key.Binding
	Quit  key.Binding
}

// DefaultDetailKeyMap returns the default key bindings.
func DefaultDetailKeyMap() DetailKeyMap {
	return DetailKeyMap{
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous evolution")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next evolution")),
		Open:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open evolution")),
		Back:  key.NewBinding(key.WithKeys("esc", "backspace", "b"), key.WithHelp("esc", "back")),
		Retry: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:  key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

// Detail shows the stats and evolution line of a single item.
//
//nolint:containedctx // TUI models require context for proper cancellation propagation
type Detail struct {
	ctx        context.Context
	styles     *styles.Styles
	api        domain.CatalogAPI
	categories *catalog.Categories
	logger     *zap.Logger
	keyMap     DetailKeyMap
	spinner    spinner.Model

	id      int
	item    *domain.Item
	errMsg  string
	loading bool
	cursor  int

	width    int
	height   int
	quitting bool
}

// NewDetail creates the detail screen for one item id.
func NewDetail(ctx context.Context, styleConfig *styles.Styles, api domain.CatalogAPI,
	categories *catalog.Categories, logger *zap.Logger, id int,
) *Detail {
	if logger == nil {
		logger = zap.NewNop()
	}

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(styleConfig.Primary)

	return &Detail{
		ctx:        ctx,
		styles:     styleConfig,
		api:        api,
		categories: categories,
		logger:     logger,
		keyMap:     DefaultDetailKeyMap(),
		spinner:    spin,
		id:         id,
		loading:    true,
	}
}

// Init starts loading the item.
func (m *Detail) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m *Detail) load() tea.Cmd {
	m.loading = true
	m.errMsg = ""

	ctx, api, logger, id := m.ctx, m.api, m.logger, m.id

	return func() tea.Msg {
		item, message, err := catalog.LoadItem(ctx, api, id, logger)

		return ItemLoadedMsg{ID: id, Item: item, Message: message, Err: err}
	}
}

// Update handles messages for the detail screen.
func (m *Detail) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ItemLoadedMsg:
		if msg.ID != m.id {
			return m, nil
		}

		m.loading = false
		m.item = msg.Item
		m.errMsg = msg.Message
		m.cursor = 0

		return m, nil
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}

		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m *Detail) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		m.quitting = true

		return m, tea.Quit
	case key.Matches(msg, m.keyMap.Back):
		return m, func() tea.Msg { return NavigateMsg{Screen: CatalogScreen} }
	case key.Matches(msg, m.keyMap.Help):
		return m, func() tea.Msg { return NavigateMsg{Screen: HelpScreen} }
	case key.Matches(msg, m.keyMap.Retry):
		if m.errMsg != "" && !m.loading {
			return m, m.load()
		}
	case key.Matches(msg, m.keyMap.Up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, m.keyMap.Down):
		if m.item != nil {
			m.cursor = min(m.cursor+1, max(len(m.item.Evolutions)-1, 0))
		}
	case key.Matches(msg, m.keyMap.Open):
		if m.item != nil && m.cursor < len(m.item.Evolutions) {
			id := m.item.Evolutions[m.cursor].PokedexID

			return m, func() tea.Msg { return NavigateMsg{Screen: DetailScreen, Data: id} }
		}
	}

	return m, nil
}

// ItemID returns the id of the displayed item.
func (m *Detail) ItemID() int {
	return m.id
}

// View renders the detail screen.
func (m *Detail) View() string {
	if m.quitting {
		return GoodbyeMessage
	}

	var body string

	switch {
	case m.loading:
		body = m.spinner.View() + " Loading " + stringutil.PadID(m.id) + "…"
	case m.errMsg != "":
		body = m.styles.ErrorText.Render(m.errMsg)
	case m.item != nil:
		body = m.renderItem()
	}

	actions := []FooterAction{{Key: "esc", Action: "Back"}}

	switch {
	case m.errMsg != "":
		actions = append(actions, FooterAction{Key: "r", Action: "Retry"})
	case m.item != nil && len(m.item.Evolutions) > 0:
		actions = append(actions, FooterAction{Key: "↑↓", Action: "Select"}, FooterAction{Key: "enter", Action: "Open evolution"})
	}

	actions = append(actions, FooterAction{Key: "q", Action: "Quit"})

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Container.Render(body),
		RenderFooter(m.styles, m.width, actions, true))
}

func (m *Detail) renderItem() string {
	item := m.item

	var builder strings.Builder

	builder.WriteString(m.styles.Title.Render(stringutil.PadID(item.ID) + " " + stringutil.TitleCase(item.Name)))
	builder.WriteString("\n")

	badges := make([]string, 0, len(item.Categories))

	for _, ref := range item.Categories {
		name := ref.Name
		if m.categories != nil && (name == "" || name == string(ref.ID)) {
			name = m.categories.Name(ref.ID)
		}

		badges = append(badges, m.styles.TypeBadge(stringutil.TitleCase(name)))
	}

	builder.WriteString(strings.Join(badges, " "))
	builder.WriteString("\n\n")

	builder.WriteString(m.styles.Subtitle.Render("Stats"))
	builder.WriteString("\n")

	if len(item.Stats) == 0 {
		builder.WriteString(m.styles.MutedText.Render("No stats available"))
		builder.WriteString("\n")
	}

	for _, stat := range item.Stats {
		builder.WriteString(stringutil.PadRight(stat.Name, statLabel))
		builder.WriteString(stringutil.PadRight(strconv.FormatFloat(stat.Value, 'f', -1, 64), 5))
		builder.WriteString(m.styles.StatBar(stat.Value, maxStatValue, statBarWidth))
		builder.WriteString("\n")
	}

	builder.WriteString("\n")
	builder.WriteString(m.styles.Subtitle.Render("Evolutions"))
	builder.WriteString("\n")

	if len(item.Evolutions) == 0 {
		builder.WriteString(m.styles.MutedText.Render(MsgNoEvolutions))
		builder.WriteString("\n")
	}

	for i, evolution := range item.Evolutions {
		line := stringutil.PadID(evolution.PokedexID) + " " + stringutil.TitleCase(evolution.Name) +
			"  " + m.styles.MutedText.Render(evolution.ArtworkURL())

		if i == m.cursor {
			builder.WriteString(m.styles.Selected.Render("▸ " + line))
		} else {
			builder.WriteString(m.styles.Unselected.Render("  " + line))
		}

		builder.WriteString("\n")
	}

	if item.Image != "" {
		builder.WriteString("\n")
		builder.WriteString(m.styles.MutedText.Render("Artwork: " + item.Image))
	}

	return m.styles.Card.Render(builder.String())
}
