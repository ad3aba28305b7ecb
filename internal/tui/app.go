// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package tui implements the interactive catalog browser.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/janderssonse/dex/internal/catalog"
	"github.com/janderssonse/dex/internal/domain"
	"github.com/janderssonse/dex/internal/tui/models"
	"github.com/janderssonse/dex/internal/tui/styles"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// ErrNoTerminal is returned when the TUI is launched in a non-terminal environment.
var ErrNoTerminal = errors.New("TUI requires a terminal environment")

const itemRoutePrefix = "/item/"

// Screen represents different TUI screens.
type Screen int

// Define screen constants (use models constants for compatibility).
const (
	CatalogScreen Screen = Screen(models.CatalogScreen)
	DetailScreen  Screen = Screen(models.DetailScreen)
	HelpScreen    Screen = Screen(models.HelpScreen)
)

// Options configures a browsing session.
type Options struct {
	API               domain.CatalogAPI
	Categories        *catalog.Categories // nil creates a reference set over API
	Filter            domain.FilterState
	Route             string
	PrefetchThreshold int
	SearchDebounce    time.Duration
	Logger            *zap.Logger
}

// ParseRoute resolves a navigation path. "/" is the catalog and yields 0,
// "/item/<id>" yields the item id.
func ParseRoute(route string) (int, error) {
	if route == "/" {
		return 0, nil
	}

	raw, ok := strings.CutPrefix(route, itemRoutePrefix)
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidRoute, route)
	}

	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q has no valid item id", domain.ErrInvalidRoute, route)
	}

	return id, nil
}

// helpPreloadedMsg is sent when help content has been pre-rendered.
type helpPreloadedMsg struct {
	model tea.Model
}

// App represents the main TUI application following tree-of-models pattern.
// The catalog model lives for the whole session so that the result window
// survives a visit to the detail screen.
//
//nolint:containedctx // TUI models require context for proper cancellation propagation
type App struct {
	ctx    context.Context
	opts   Options
	styles *styles.Styles
	logger *zap.Logger

	width  int
	height int

	currentScreen Screen
	contentModel  tea.Model
	catalog       *models.Catalog
	help          tea.Model
	categories    *catalog.Categories

	quitting bool
}

// NewApp creates a browsing session. A non-empty item route opens the detail screen first.
func NewApp(ctx context.Context, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	itemID := 0

	if opts.Route != "" {
		id, err := ParseRoute(opts.Route)
		if err != nil {
			return nil, err
		}

		itemID = id
	}

	filter := opts.Filter
	if filter.PageSize == 0 {
		filter.PageSize = domain.DefaultPageSize
	}

	categories := opts.Categories
	if categories == nil {
		categories = catalog.NewCategories(opts.API, logger)
	}

	app := &App{
		ctx:        ctx,
		opts:       opts,
		styles:     styles.New(),
		logger:     logger,
		categories: categories,
	}

	ctrl := catalog.NewController(opts.API, catalog.WithLogger(logger), catalog.WithFilter(filter))
	app.catalog = models.NewCatalog(ctx, app.styles, models.CatalogOptions{
		Controller:        ctrl,
		Categories:        app.categories,
		Logger:            logger,
		PrefetchThreshold: opts.PrefetchThreshold,
		SearchDebounce:    opts.SearchDebounce,
	})

	app.currentScreen = CatalogScreen
	app.contentModel = app.catalog

	if itemID > 0 {
		app.currentScreen = DetailScreen
		app.contentModel = app.newDetail(itemID)
	}

	return app, nil
}

// Run starts the TUI application with the provided context.
func (a *App) Run(ctx context.Context) error {
	program := tea.NewProgram(
		a,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI application failed: %w", err)
	}

	return nil
}

// Launch checks for a terminal and runs a browsing session until the user quits.
func Launch(ctx context.Context, opts Options) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("terminal check failed: %w", ErrNoTerminal)
	}

	app, err := NewApp(ctx, opts)
	if err != nil {
		return err
	}

	return app.Run(ctx)
}

// Init implements the tea.Model interface.
func (a *App) Init() tea.Cmd {
	preloadCmd := func() tea.Msg {
		return helpPreloadedMsg{model: models.NewHelp(a.styles)}
	}

	cmds := []tea.Cmd{a.catalog.Init(), preloadCmd}
	if a.currentScreen != CatalogScreen {
		cmds = append(cmds, a.contentModel.Init())
	}

	return tea.Batch(cmds...)
}

// Update implements the tea.Model interface with global navigation handling.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case helpPreloadedMsg:
		if a.help == nil {
			a.help = msg.model
		}

		return a, nil
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		return a, a.resize()
	case models.NavigateMsg:
		return a.navigateToScreen(Screen(msg.Screen), msg.Data)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.quitting = true

			return a, tea.Quit
		}

		return a, a.updateContent(msg)
	case models.PageLoadedMsg, models.CategoriesLoadedMsg, models.SearchDebounceMsg,
		models.FilterAppliedMsg, models.FilterCancelledMsg:
		return a, a.updateCatalog(msg)
	case spinner.TickMsg:
		if a.contentModel == tea.Model(a.catalog) {
			return a, a.updateCatalog(msg)
		}

		return a, tea.Batch(a.updateCatalog(msg), a.updateContent(msg))
	default:
		return a, a.updateContent(msg)
	}
}

// View implements the tea.Model interface.
func (a *App) View() string {
	if a.quitting {
		return models.GoodbyeMessage
	}

	return a.contentModel.View()
}

// GetCurrentScreen returns the current screen (for testing).
func (a *App) GetCurrentScreen() Screen {
	return a.currentScreen
}

// GetContentModel returns the current content model (for testing).
func (a *App) GetContentModel() tea.Model {
	return a.contentModel
}

func (a *App) updateContent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	a.contentModel, cmd = a.contentModel.Update(msg)

	if a.currentScreen == HelpScreen {
		a.help = a.contentModel
	}

	return cmd
}

func (a *App) updateCatalog(msg tea.Msg) tea.Cmd {
	_, cmd := a.catalog.Update(msg)

	return cmd
}

// resize sends the window size to the active screen and to the catalog.
func (a *App) resize() tea.Cmd {
	if a.width <= 0 || a.height <= 0 {
		return nil
	}

	size := tea.WindowSizeMsg{Width: a.width, Height: a.height}
	cmd := a.updateContent(size)

	if a.contentModel != tea.Model(a.catalog) {
		cmd = tea.Batch(cmd, a.updateCatalog(size))
	}

	return cmd
}

//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (a *App) navigateToScreen(target Screen, data any) (tea.Model, tea.Cmd) {
	var initCmd tea.Cmd

	switch target {
	case CatalogScreen:
		a.contentModel = a.catalog
	case DetailScreen:
		id, ok := data.(int)
		if !ok || id <= 0 {
			a.logger.Warn("detail navigation without item id", zap.Any("data", data))

			return a, nil
		}

		detail := a.newDetail(id)
		a.contentModel = detail
		initCmd = detail.Init()
	case HelpScreen:
		if a.help == nil {
			a.help = models.NewHelp(a.styles)
		}

		a.contentModel = a.help
	default:
		return a, nil
	}

	a.currentScreen = target
	a.logger.Debug("navigated", zap.Int("screen", int(target)), zap.Any("data", data))

	return a, tea.Batch(initCmd, a.resize())
}

func (a *App) newDetail(id int) *models.Detail {
	return models.NewDetail(a.ctx, a.styles, a.opts.API, a.categories, a.logger, id)
}
