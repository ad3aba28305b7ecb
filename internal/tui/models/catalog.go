// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/janderssonse/dex/internal/catalog"
	"github.com/janderssonse/dex/internal/domain"
	"github.com/janderssonse/dex/internal/stringutil"
	"github.com/janderssonse/dex/internal/tui/styles"
	"go.uber.org/zap"
)

// Catalog layout constants.
const (
	catalogChromeHeight = 7 // header, search line, status line and footer
	defaultListHeight   = 20
	nameWidth           = 20
)

// End-of-list messages.
const (
	MsgNoItems   = "No items found"
	MsgAllLoaded = "You have seen all items!"
)

// CatalogKeyMap defines key bindings for the catalog screen.
type CatalogKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Open     key.Binding
	Search   key.Binding
	Filter   key.Binding
	PageSize key.Binding
	Clear    key.Binding
	Retry    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultCatalogKeyMap returns the default key bindings.
func DefaultCatalogKeyMap() CatalogKeyMap {
	return CatalogKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Home:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		End:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Filter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "types")),
		PageSize: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "page size")),
		Clear:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear filters")),
		Retry:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

// CatalogOptions carries the collaborators of the catalog screen.
type CatalogOptions struct {
	Controller        *catalog.Controller
	Categories        *catalog.Categories
	Logger            *zap.Logger
	PrefetchThreshold int
	SearchDebounce    time.Duration
}

// Catalog is the browsable list with search, type filters and infinite scroll.
//
//nolint:containedctx // TUI models require context for proper cancellation propagation
type Catalog struct {
	ctx        context.Context
	styles     *styles.Styles
	ctrl       *catalog.Controller
	categories *catalog.Categories
	logger     *zap.Logger
	keyMap     CatalogKeyMap

	snap     catalog.Snapshot
	prefetch int

	search    textinput.Model
	searching bool
	debounce  time.Duration
	searchSeq int

	spinner spinner.Model
	filter  *Filter

	cursor int
	top    int
	width  int
	height int

	quitting bool
}

// NewCatalog creates the catalog screen.
func NewCatalog(ctx context.Context, styleConfig *styles.Styles, opts CatalogOptions) *Catalog {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	input := textinput.New()
	input.Placeholder = "Search by name"
	input.Prompt = "🔍 "
	input.CharLimit = 64
	input.SetValue(opts.Controller.Filter().SearchTerm)

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(styleConfig.Primary)

	model := &Catalog{
		ctx:        ctx,
		styles:     styleConfig,
		ctrl:       opts.Controller,
		categories: opts.Categories,
		logger:     logger,
		keyMap:     DefaultCatalogKeyMap(),
		prefetch:   max(opts.PrefetchThreshold, 0),
		search:     input,
		debounce:   opts.SearchDebounce,
		spinner:    spin,
	}
	model.refresh()

	return model
}

// Init loads the categories and the first page.
func (m *Catalog) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCategories(), m.fetch(m.ctrl.LoadMore()))
}

// Update handles messages for the catalog screen.
func (m *Catalog) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.Width = max(msg.Width-8, 10)
		m.scrollToCursor()

		return m, m.maybePrefetch()
	case PageLoadedMsg:
		return m, m.handlePage(msg)
	case CategoriesLoadedMsg:
		if msg.Err != nil {
			m.logger.Debug("categories unavailable", zap.Error(msg.Err))
		}

		return m, nil
	case SearchDebounceMsg:
		if msg.seq != m.searchSeq {
			return m, nil
		}

		return m, m.applySearch(msg.term)
	case FilterAppliedMsg:
		m.filter = nil

		return m, m.applyFilter(msg)
	case FilterCancelledMsg:
		m.filter = nil

		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m.forward(msg)
}

// forward passes other messages to the open filter panel or the search input.
func (m *Catalog) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case m.filter != nil:
		m.filter, cmd = m.filter.Update(msg)
	case m.searching:
		m.search, cmd = m.search.Update(msg)
	}

	return m, cmd
}

func (m *Catalog) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filter != nil {
		return m.forward(msg)
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	items := m.snap.Window.Items

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		m.quitting = true

		return m, tea.Quit
	case key.Matches(msg, m.keyMap.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keyMap.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keyMap.PageUp):
		m.moveCursor(-m.listHeight())
	case key.Matches(msg, m.keyMap.PageDown):
		m.moveCursor(m.listHeight())
	case key.Matches(msg, m.keyMap.Home):
		m.moveCursor(-len(items))
	case key.Matches(msg, m.keyMap.End):
		m.moveCursor(len(items))
	case key.Matches(msg, m.keyMap.Open):
		if m.cursor < len(items) {
			id := items[m.cursor].ID

			return m, func() tea.Msg { return NavigateMsg{Screen: DetailScreen, Data: id} }
		}

		return m, nil
	case key.Matches(msg, m.keyMap.Search):
		m.searching = true

		return m, m.search.Focus()
	case key.Matches(msg, m.keyMap.Filter):
		return m, m.openFilter()
	case key.Matches(msg, m.keyMap.PageSize):
		return m, m.cyclePageSize()
	case key.Matches(msg, m.keyMap.Clear):
		return m, m.clearFilters()
	case key.Matches(msg, m.keyMap.Retry):
		return m, m.retry()
	case key.Matches(msg, m.keyMap.Help):
		return m, func() tea.Msg { return NavigateMsg{Screen: HelpScreen} }
	default:
		return m, nil
	}

	return m, m.maybePrefetch()
}

func (m *Catalog) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()

		return m, nil
	case "enter":
		m.searching = false
		m.search.Blur()
		m.searchSeq++

		return m, m.applySearch(m.search.Value())
	}

	before := m.search.Value()

	var cmd tea.Cmd

	m.search, cmd = m.search.Update(msg)

	if m.search.Value() == before {
		return m, cmd
	}

	m.searchSeq++

	if m.debounce <= 0 {
		return m, tea.Batch(cmd, m.applySearch(m.search.Value()))
	}

	seq, term := m.searchSeq, m.search.Value()

	return m, tea.Batch(cmd, tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return SearchDebounceMsg{seq: seq, term: term}
	}))
}

func (m *Catalog) applySearch(term string) tea.Cmd {
	if !m.ctrl.SetSearchTerm(strings.TrimSpace(term)) {
		return nil
	}

	return m.reload()
}

// applyFilter turns the submitted selection into toggles and one reload.
func (m *Catalog) applyFilter(msg FilterAppliedMsg) tea.Cmd {
	current := m.ctrl.Filter()
	changed := false

	for _, id := range current.Categories {
		if !slices.Contains(msg.Categories, id) {
			m.ctrl.ToggleCategory(id)

			changed = true
		}
	}

	for _, id := range msg.Categories {
		if !current.IsSelected(id) {
			m.ctrl.ToggleCategory(id)

			changed = true
		}
	}

	resized, err := m.ctrl.SetPageSize(msg.PageSize)
	if err != nil {
		m.logger.Warn("page size rejected", zap.Int("page_size", msg.PageSize), zap.Error(err))
	}

	if !changed && !resized {
		return nil
	}

	return m.reload()
}

func (m *Catalog) cyclePageSize() tea.Cmd {
	options := domain.PageSizeOptions
	next := options[(slices.Index(options, m.ctrl.Filter().PageSize)+1)%len(options)]

	if changed, err := m.ctrl.SetPageSize(next); err != nil || !changed {
		return nil
	}

	return m.reload()
}

func (m *Catalog) clearFilters() tea.Cmd {
	current := m.ctrl.Filter()
	changed := m.ctrl.SetSearchTerm("")

	for _, id := range current.Categories {
		m.ctrl.ToggleCategory(id)

		changed = true
	}

	m.search.SetValue("")
	m.searchSeq++

	if !changed {
		return nil
	}

	return m.reload()
}

func (m *Catalog) retry() tea.Cmd {
	if m.snap.Err == "" {
		return nil
	}

	return m.fetch(m.ctrl.Begin(m.snap.Window.Offset))
}

func (m *Catalog) openFilter() tea.Cmd {
	var categories []domain.Category

	if m.categories != nil {
		categories = m.categories.All()
	}

	errMsg := ""
	if m.categories != nil {
		errMsg = m.categories.ErrorMessage()
	}

	m.filter = NewFilter(m.styles, categories, m.ctrl.Filter(), errMsg)

	return m.filter.Init()
}

func (m *Catalog) handlePage(msg PageLoadedMsg) tea.Cmd {
	outcome := m.ctrl.Complete(msg.Request, msg.Items, msg.Err)

	if outcome.Applied && msg.Request.Offset == 0 {
		m.cursor = 0
		m.top = 0
	}

	m.refresh()

	if outcome.Refetch {
		return m.reload()
	}

	return m.maybePrefetch()
}

func (m *Catalog) reload() tea.Cmd {
	m.cursor = 0
	m.top = 0

	return m.fetch(m.ctrl.Reload())
}

// fetch turns an admitted request into a command. Dropped requests yield nil.
func (m *Catalog) fetch(req catalog.Request, ok bool) tea.Cmd {
	m.refresh()

	if !ok {
		return nil
	}

	ctx, ctrl := m.ctx, m.ctrl

	return func() tea.Msg {
		items, err := ctrl.Execute(ctx, req)

		return PageLoadedMsg{Request: req, Items: items, Err: err}
	}
}

// maybePrefetch loads the next page once the cursor is close to the end
// of the window or the window does not fill the screen.
func (m *Catalog) maybePrefetch() tea.Cmd {
	items := len(m.snap.Window.Items)
	if items-m.cursor > m.prefetch && items >= m.listHeight() {
		return nil
	}

	return m.fetch(m.ctrl.LoadMore())
}

func (m *Catalog) loadCategories() tea.Cmd {
	if m.categories == nil {
		return nil
	}

	ctx, categories := m.ctx, m.categories

	return func() tea.Msg {
		return CategoriesLoadedMsg{Err: categories.Load(ctx)}
	}
}

func (m *Catalog) refresh() {
	m.snap = m.ctrl.Snapshot()

	if last := len(m.snap.Window.Items) - 1; m.cursor > last {
		m.cursor = max(last, 0)
	}
}

func (m *Catalog) moveCursor(delta int) {
	if len(m.snap.Window.Items) == 0 {
		return
	}

	m.cursor = min(max(m.cursor+delta, 0), len(m.snap.Window.Items)-1)
	m.scrollToCursor()
}

func (m *Catalog) scrollToCursor() {
	height := m.listHeight()

	if m.cursor < m.top {
		m.top = m.cursor
	}

	if m.cursor >= m.top+height {
		m.top = m.cursor - height + 1
	}
}

func (m *Catalog) listHeight() int {
	if m.height <= 0 {
		return defaultListHeight
	}

	return max(m.height-catalogChromeHeight, 1)
}

// Cursor returns the selected row.
func (m *Catalog) Cursor() int {
	return m.cursor
}

// Searching reports whether the search input has focus.
func (m *Catalog) Searching() bool {
	return m.searching
}

// FilterOpen reports whether the filter panel is shown.
func (m *Catalog) FilterOpen() bool {
	return m.filter != nil
}

// View renders the catalog screen.
func (m *Catalog) View() string {
	if m.quitting {
		return GoodbyeMessage
	}

	sections := []string{m.renderHeader(), m.search.View()}

	if m.filter != nil {
		sections = append(sections, m.filter.View())
	} else {
		sections = append(sections, m.renderList(), m.renderStatus())
	}

	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Catalog) renderHeader() string {
	filter := m.snap.Filter

	parts := []string{m.styles.Header.Render("Pokédex")}

	if filter.SearchTerm != "" {
		parts = append(parts, m.styles.MutedText.Render("name:")+filter.SearchTerm)
	}

	for _, id := range filter.Categories {
		name := string(id)
		if m.categories != nil {
			name = m.categories.Name(id)
		}

		parts = append(parts, m.styles.TypeBadge(stringutil.TitleCase(name)))
	}

	parts = append(parts, m.styles.MutedText.Render("per page: "+strconv.Itoa(filter.PageSize)))

	return strings.Join(parts, " ")
}

func (m *Catalog) renderList() string {
	items := m.snap.Window.Items
	if len(items) == 0 {
		return ""
	}

	end := min(m.top+m.listHeight(), len(items))
	rows := make([]string, 0, end-m.top)

	for i := m.top; i < end; i++ {
		rows = append(rows, m.renderRow(items[i], i == m.cursor))
	}

	return strings.Join(rows, "\n")
}

func (m *Catalog) renderRow(item domain.Item, selected bool) string {
	badges := make([]string, 0, len(item.Categories))

	for _, ref := range item.Categories {
		name := ref.Name
		if !styles.KnownType(name) {
			m.logger.Debug("no badge color for type", zap.String("type", name), zap.String("id", string(ref.ID)))
		}

		badges = append(badges, m.styles.TypeBadge(stringutil.TitleCase(name)))
	}

	line := stringutil.PadRight(stringutil.PadID(item.ID), 6) + " " +
		stringutil.PadRight(stringutil.Truncate(stringutil.TitleCase(item.Name), nameWidth), nameWidth) + " " +
		strings.Join(badges, " ")

	if selected {
		return m.styles.Selected.Render("▸ " + line)
	}

	return m.styles.Unselected.Render("  " + line)
}

func (m *Catalog) renderStatus() string {
	window := m.snap.Window

	switch {
	case m.snap.Loading:
		return m.spinner.View() + " Loading…"
	case m.snap.Err != "":
		return m.styles.ErrorText.Render(m.snap.Err) + " " + m.styles.Keybinding("r", "retry")
	case !window.HasMore && len(window.Items) == 0:
		return m.styles.MutedText.Render(MsgNoItems)
	case !window.HasMore:
		return m.styles.SuccessText.Render(MsgAllLoaded)
	default:
		return m.styles.MutedText.Render(strconv.Itoa(len(window.Items)) + " items")
	}
}

func (m *Catalog) renderFooter() string {
	if m.filter != nil {
		return RenderFooter(m.styles, m.width, []FooterAction{
			{Key: "x/space", Action: "Toggle"},
			{Key: "enter", Action: "Apply"},
			{Key: "esc", Action: "Cancel"},
		}, false)
	}

	if m.searching {
		return RenderFooter(m.styles, m.width, []FooterAction{
			{Key: "enter", Action: "Search"},
			{Key: "esc", Action: "Done"},
		}, false)
	}

	return RenderFooter(m.styles, m.width, []FooterAction{
		{Key: "↑↓", Action: "Move"},
		{Key: "enter", Action: "Details"},
		{Key: "/", Action: "Search"},
		{Key: "f", Action: "Types"},
		{Key: "p", Action: "Page size"},
		{Key: "x", Action: "Clear"},
		{Key: "q", Action: "Quit"},
	}, true)
}
