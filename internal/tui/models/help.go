// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/janderssonse/dex/internal/tui/styles"
)

const helpWrap = 80

// HelpSection represents a help documentation section.
type HelpSection struct {
	Title   string
	Content string
}

// Help represents the help screen model.
type Help struct {
	styles         *styles.Styles
	width          int
	height         int
	sections       []HelpSection
	viewport       viewport.Model
	renderer       *glamour.TermRenderer
	currentSection int
	quitting       bool
	keyMap         HelpKeyMap
}

// HelpKeyMap defines key bindings for the help screen.
type HelpKeyMap struct {
	Left  key.Binding
	Right key.Binding
	Home  key.Binding
	End   key.Binding
	Back  key.Binding
	Quit  key.Binding
}

// DefaultHelpKeyMap returns the default key bindings.
func DefaultHelpKeyMap() HelpKeyMap {
	return HelpKeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h", "shift+tab"),
			key.WithHelp("←/h", "previous section"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l", "tab"),
			key.WithHelp("→/l", "next section"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home/g", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end/G", "go to bottom"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "?"),
			key.WithHelp("esc", "back to catalog"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}
}

func helpSections() []HelpSection {
	return []HelpSection{
		{
			Title: "Browsing",
			Content: `# Browsing the catalog

The list loads one page at a time. Scrolling close to the end fetches the next
page, until the catalog reports that you have seen all items.

| Key | Action |
|-----|--------|
| ↑/↓ or k/j | Move the selection |
| pgup/pgdn | Move one screen |
| g / G | First / last loaded item |
| enter | Open the selected item |
| r | Retry after a failed load |
| q | Quit |

Each row shows the number, the name and the type badges of an item.`,
		},
		{
			Title: "Search & Filters",
			Content: `# Narrowing the list

Every change of search or filters starts over from the first page.

| Key | Action |
|-----|--------|
| / | Search by name, applied after a short pause |
| f | Pick types and page size |
| p | Cycle the page size (20, 50, 100) |
| x | Clear search and types |

Selecting several types shows only items that carry all of them.`,
		},
		{
			Title: "Details",
			Content: `# Item details

The detail view shows stats and the evolution line of an item.

| Key | Action |
|-----|--------|
| ↑/↓ | Select an evolution |
| enter | Open the selected evolution |
| esc | Back to the list |

Open an item directly with ` + "`dex browse /item/25`" + ` or print it with ` + "`dex show 25`" + `.`,
		},
		{
			Title: "Command Line",
			Content: `# Scripting

` + "```bash" + `
dex list --search chu --json
dex list --type feu --type vol --all --plain
dex show 6 --json
dex types
dex config set page_size 20
` + "```" + `

Set ` + "`DEX_API_URL`" + ` or ` + "`--api-url`" + ` to use another catalog, for example
one started with ` + "`dex serve-fixture`" + `.`,
		},
	}
}

// NewHelp creates a new help model.
func NewHelp(styleConfig *styles.Styles) *Help {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(helpWrap),
	)
	if err != nil {
		renderer, _ = glamour.NewTermRenderer()
	}

	viewPort := viewport.New(helpWrap, 20)
	viewPort.Style = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styleConfig.Primary).
		Padding(1)

	helpModel := &Help{
		styles:   styleConfig,
		sections: helpSections(),
		viewport: viewPort,
		renderer: renderer,
		keyMap:   DefaultHelpKeyMap(),
	}

	helpModel.updateContent()

	return helpModel
}

// Init initializes the help model.
func (m *Help) Init() tea.Cmd {
	return nil
}

// Update handles messages for the Help model.
func (m *Help) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		return m.handleWindowSizeMsg(msg)
	}

	return m, nil
}

// View renders the help screen.
func (m *Help) View() string {
	if m.quitting {
		return GoodbyeMessage
	}

	return m.renderHeader() + "\n\n" + m.viewport.View() + "\n" + m.renderFooter()
}

// CurrentSection returns the title of the shown section.
func (m *Help) CurrentSection() string {
	return m.sections[m.currentSection].Title
}

func (m *Help) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		m.quitting = true

		return m, tea.Quit
	case key.Matches(msg, m.keyMap.Back):
		return m, func() tea.Msg {
			return NavigateMsg{Screen: CatalogScreen}
		}
	case key.Matches(msg, m.keyMap.Left):
		m.moveSection(-1)
	case key.Matches(msg, m.keyMap.Right):
		m.moveSection(1)
	case key.Matches(msg, m.keyMap.Home):
		m.viewport.GotoTop()
	case key.Matches(msg, m.keyMap.End):
		m.viewport.GotoBottom()
	default:
		var cmd tea.Cmd

		m.viewport, cmd = m.viewport.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m *Help) moveSection(direction int) {
	next := m.currentSection + direction
	if next >= 0 && next < len(m.sections) {
		m.currentSection = next
		m.updateContent()
	}
}

func (m *Help) handleWindowSizeMsg(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	verticalMargins := lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.renderFooter()) + 2

	m.viewport.Width = msg.Width
	m.viewport.Height = max(msg.Height-verticalMargins, 1)

	m.updateContent()

	return m, nil
}

func (m *Help) renderHeader() string {
	tabs := make([]string, 0, len(m.sections))

	for i, section := range m.sections {
		style := m.styles.Unselected.Padding(0, 1).MarginRight(1).Faint(true)
		if i == m.currentSection {
			style = m.styles.Selected.Padding(0, 1).MarginRight(1)
		}

		tabs = append(tabs, style.Render(section.Title))
	}

	return m.styles.Title.Render("Help") + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Help) renderFooter() string {
	return RenderFooter(m.styles, m.width, []FooterAction{
		{Key: "↑↓", Action: "Scroll"},
		{Key: "←→/tab", Action: "Sections"},
		{Key: "esc", Action: "Back"},
		{Key: "q", Action: "Quit"},
	}, false)
}

func (m *Help) updateContent() {
	section := m.sections[m.currentSection]

	rendered, err := m.renderer.Render(section.Content)
	if err != nil {
		rendered = section.Content
	}

	m.viewport.SetContent(strings.TrimSpace(rendered))
}
