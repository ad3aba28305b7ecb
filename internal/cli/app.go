// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package cli provides the dex command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/janderssonse/dex/internal/adapters/network"
	"github.com/janderssonse/dex/internal/catalog"
	"github.com/janderssonse/dex/internal/config"
	"github.com/janderssonse/dex/internal/console"
	"github.com/janderssonse/dex/internal/domain"
	"github.com/janderssonse/dex/internal/logging"
	"github.com/janderssonse/dex/internal/tui"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// Exit codes follow standard Unix conventions for better scripting support.
// Range 0-125 are safe to use (126+ have special meaning in shells).
const (
	ExitSuccess        = 0 // Operation completed successfully
	ExitGeneralError   = 1 // Generic failure (catch-all)
	ExitUsageError     = 2 // Invalid command line usage
	ExitConfigError    = 3 // Configuration file error
	ExitNotFoundError  = 5 // Requested item not found
	ExitNetworkError   = 11
	ExitTimeoutError   = 13
	ExitInterruptError = 14 // User interrupted (Ctrl+C)
	ExitServiceError   = 20 // Catalog API answered with an error
)

var (
	// ErrInvalidArgument is returned when a command argument is invalid.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnknownType is returned when a --type value matches no category.
	ErrUnknownType = errors.New("unknown type")
)

// version is set at build time with -ldflags "-X github.com/janderssonse/dex/internal/cli.version=...".
var version = "" //nolint:gochecknoglobals

// CLI holds global flag state and the services built from it.
type CLI struct {
	app *cli.Command
	out *console.OutputState

	verbose    bool
	json       bool
	quiet      bool
	plain      bool
	color      string
	timeout    time.Duration
	apiURL     string
	configPath string

	cfg    config.Config
	logger *zap.Logger
	launch func(context.Context, tui.Options) error
}

// Option configures a CLI.
type Option func(*CLI)

// WithOutput replaces the default stdout/stderr output.
func WithOutput(out *console.OutputState) Option {
	return func(app *CLI) {
		app.out = out
	}
}

// WithLauncher replaces the TUI launcher.
func WithLauncher(launch func(context.Context, tui.Options) error) Option {
	return func(app *CLI) {
		app.launch = launch
	}
}

// NewCLI creates the dex command tree.
func NewCLI(opts ...Option) *CLI {
	app := &CLI{
		out:    console.DefaultOutput,
		logger: zap.NewNop(),
		launch: tui.Launch,
	}

	for _, opt := range opts {
		opt(app)
	}

	app.app = &cli.Command{
		Name:      "dex",
		Usage:     "Browse the Pokédex catalog from your terminal",
		Version:   app.getVersion(),
		Suggest:   true,
		Writer:    app.out.Out,
		ErrWriter: app.out.Err,
		Description: `Browses a remote catalog with search, type filters and infinite scroll.

ESSENTIAL COMMANDS:
  dex                         Open the interactive browser
  dex list --search chu       Print matching items
  dex show 25                 Show stats and evolutions of one item
  dex types                   List the type filters

CONFIGURATION:
  dex config path             Where the config file lives
  dex config set page_size 20 Change a setting

TESTING:
  dex serve-fixture           Serve a local copy of the catalog API`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "verbose",
				Usage:       "show progress messages and debug logging",
				Aliases:     []string{"v"},
				Destination: &app.verbose,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output structured JSON results",
				Aliases:     []string{"j"},
				Destination: &app.json,
			},
			&cli.BoolFlag{
				Name:        "quiet",
				Usage:       "suppress non-essential output",
				Aliases:     []string{"q"},
				Destination: &app.quiet,
			},
			&cli.BoolFlag{
				Name:        "plain",
				Usage:       "output plain text without formatting for scripts",
				Destination: &app.plain,
			},
			&cli.StringFlag{
				Name:        "color",
				Usage:       "color output mode: auto, always, never",
				Value:       "auto",
				Destination: &app.color,
			},
			&cli.DurationFlag{
				Name:        "timeout",
				Usage:       "timeout for catalog requests (0 = no timeout)",
				Destination: &app.timeout,
			},
			&cli.StringFlag{
				Name:        "api-url",
				Usage:       "catalog API base URL",
				Destination: &app.apiURL,
			},
			&cli.StringFlag{
				Name:        "config",
				Usage:       "config file path",
				Value:       config.DefaultPath(),
				Destination: &app.configPath,
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return app.initConfig(ctx, cmd)
		},
		After: func(_ context.Context, _ *cli.Command) error {
			_ = app.logger.Sync()

			return nil
		},
		Action:          app.defaultAction,
		Commands:        app.createAllCommands(),
		CommandNotFound: app.commandNotFound,
	}

	return app
}

// Run executes the CLI application.
func (app *CLI) Run(ctx context.Context, args []string) error {
	return app.app.Run(ctx, args)
}

func (app *CLI) createAllCommands() []*cli.Command {
	return []*cli.Command{
		app.createBrowseCommand(),
		app.createListCommand(),
		app.createShowCommand(),
		app.createTypesCommand(),
		app.createConfigCommand(),
		app.createServeFixtureCommand(),
		app.createVersionCommand(),
	}
}

func (app *CLI) initConfig(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if app.json && app.plain {
		return ctx, domain.NewExitError(ExitUsageError, "cannot use both --json and --plain flags simultaneously", nil)
	}

	switch app.color {
	case "auto", "always", "never":
	default:
		return ctx, domain.NewExitError(ExitUsageError, "invalid --color value: must be auto, always, or never", nil)
	}

	app.out.SetMode(app.verbose, app.json, app.plain)
	app.out.Quiet = app.quiet
	app.out.Color = app.color

	cfg, err := config.Load(app.configPath)
	if err != nil {
		return ctx, domain.NewExitError(ExitConfigError, "Failed to load configuration: "+err.Error(), err)
	}

	if cmd.IsSet("api-url") {
		cfg.APIURL = app.apiURL
	}

	if cmd.IsSet("timeout") {
		if app.timeout < 0 {
			return ctx, domain.NewExitError(ExitUsageError, "--timeout must not be negative", nil)
		}

		cfg.Timeout = config.Duration{Duration: app.timeout}
	}

	app.cfg = cfg

	logger, err := logging.New(logging.Options{
		Path:    cfg.LogPath(),
		Level:   cfg.Log.Level,
		Verbose: app.verbose,
	})
	if err != nil {
		app.out.Warningf("logging disabled: %v", err)

		logger = zap.NewNop()
	}

	app.logger = logger
	app.logger.Debug("configuration loaded",
		zap.String("path", app.configPath),
		zap.String("api_url", cfg.APIURL),
		zap.Int("page_size", cfg.PageSize),
		zap.Duration("timeout", cfg.Timeout.Duration))

	return ctx, nil
}

// newAPI builds the catalog client from the effective configuration.
func (app *CLI) newAPI() (*network.HTTPClient, error) {
	client, err := network.NewHTTPClient(app.cfg.APIURL, app.cfg.Timeout.Duration,
		network.WithLogger(app.logger),
		network.WithUserAgent("dex/"+app.getVersion()))
	if err != nil {
		return nil, domain.NewExitError(ExitConfigError, "Invalid api_url setting: "+err.Error(), err)
	}

	return client, nil
}

func (app *CLI) defaultAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() > 0 {
		return domain.NewExitError(ExitUsageError,
			fmt.Sprintf("'%s' is not a command. Run 'dex --help' to see available commands.", cmd.Args().First()), nil)
	}

	api, err := app.newAPI()
	if err != nil {
		return err
	}

	return app.runBrowse(ctx, browseArgs{
		api:        api,
		categories: app.newCategories(api),
		filter:     domain.FilterState{PageSize: app.cfg.PageSize},
	})
}

func (app *CLI) commandNotFound(_ context.Context, _ *cli.Command, command string) {
	app.out.Errorf("'%s' is not a command.", command)
	_, _ = fmt.Fprintf(app.out.Err, "\nRun 'dex --help' to see available commands.\n")

	os.Exit(ExitUsageError)
}

func (app *CLI) createVersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(_ context.Context, _ *cli.Command) error {
			app.out.SuccessResult(app.getVersion(), "")

			return nil
		},
	}
}

func (app *CLI) getVersion() string {
	if version != "" {
		return version
	}

	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	return "dev"
}

// fail converts an operation error into an ExitError with a code matching its cause.
func (app *CLI) fail(err error) error {
	if err == nil {
		return nil
	}

	var exitErr *domain.ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	code := ExitGeneralError

	switch {
	case errors.Is(err, context.Canceled):
		code = ExitInterruptError
	case errors.Is(err, context.DeadlineExceeded):
		code = ExitTimeoutError
	case errors.Is(err, domain.ErrItemNotFound):
		code = ExitNotFoundError
	case errors.Is(err, domain.ErrNetworkFailure):
		code = ExitNetworkError
	case errors.Is(err, domain.ErrUnexpectedStatus), errors.Is(err, domain.ErrInvalidResponse):
		code = ExitServiceError
	case errors.Is(err, domain.ErrInvalidPageSize), errors.Is(err, domain.ErrInvalidRoute),
		errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrUnknownType):
		code = ExitUsageError
	case errors.Is(err, config.ErrInvalidValue), errors.Is(err, config.ErrUnknownKey):
		code = ExitConfigError
	}

	app.logger.Error("command failed", zap.Int("exit_code", code), zap.Error(err))

	if code == ExitUsageError || code == ExitConfigError {
		return domain.NewExitError(code, err.Error(), nil)
	}

	return domain.NewExitError(code, domain.FormatErrorMessage(err, app.verbose), err)
}

// newCategories creates the category reference set for a command.
func (app *CLI) newCategories(api domain.CatalogAPI) *catalog.Categories {
	return catalog.NewCategories(api, app.logger)
}
