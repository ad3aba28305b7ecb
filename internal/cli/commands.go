// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/janderssonse/dex/internal/adapters/fixture"
	"github.com/janderssonse/dex/internal/catalog"
	"github.com/janderssonse/dex/internal/config"
	"github.com/janderssonse/dex/internal/domain"
	"github.com/janderssonse/dex/internal/tui"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// filterFlags are shared by browse and list.
func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "search",
			Aliases: []string{"s"},
			Usage:   "only items whose name contains `TEXT`",
		},
		&cli.StringSliceFlag{
			Name:    "type",
			Aliases: []string{"t"},
			Usage:   "only items of this type, by id or name (repeatable)",
		},
		&cli.IntFlag{
			Name:    "page-size",
			Aliases: []string{"n"},
			Usage:   fmt.Sprintf("items per request, one of %v (default from config)", domain.PageSizeOptions),
		},
	}
}

// filterFromFlags builds the starting filter, resolving type names through the
// category reference set when needed.
func (app *CLI) filterFromFlags(ctx context.Context, cmd *cli.Command, categories *catalog.Categories) (domain.FilterState, error) {
	filter := domain.FilterState{
		SearchTerm: strings.TrimSpace(cmd.String("search")),
		PageSize:   app.cfg.PageSize,
	}

	if cmd.IsSet("page-size") {
		size := cmd.Int("page-size")
		if !domain.ValidPageSize(size) {
			return filter, fmt.Errorf("%w: %d, use one of %v", domain.ErrInvalidPageSize, size, domain.PageSizeOptions)
		}

		filter.PageSize = size
	}

	types := cmd.StringSlice("type")
	if len(types) == 0 {
		return filter, nil
	}

	if err := categories.Load(ctx); err != nil {
		return filter, err
	}

	for _, value := range types {
		for part := range strings.SplitSeq(value, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}

			id, ok := categories.Resolve(part)
			if !ok {
				return filter, fmt.Errorf("%w: %q (see 'dex types')", ErrUnknownType, part)
			}

			if !filter.IsSelected(id) {
				filter.Toggle(id)
			}
		}
	}

	return filter, nil
}

// browseArgs carries what the command resolved so the session reuses it.
type browseArgs struct {
	api        domain.CatalogAPI
	categories *catalog.Categories
	filter     domain.FilterState
	route      string
}

func (app *CLI) createBrowseCommand() *cli.Command {
	return &cli.Command{
		Name:      "browse",
		Usage:     "Open the interactive catalog browser",
		ArgsUsage: "[/item/<id>]",
		Description: `Opens the full-screen browser. Scroll to the bottom to load more items,
type / to search, f to pick type filters and page size, enter to open an item.

EXAMPLES:
  dex browse --type feu       Start with the fire type selected
  dex browse /item/25         Open directly on an item`,
		Flags: filterFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			api, err := app.newAPI()
			if err != nil {
				return err
			}

			categories := app.newCategories(api)

			filter, err := app.filterFromFlags(ctx, cmd, categories)
			if err != nil {
				return app.fail(err)
			}

			return app.runBrowse(ctx, browseArgs{
				api:        api,
				categories: categories,
				filter:     filter,
				route:      cmd.Args().First(),
			})
		},
	}
}

func (app *CLI) runBrowse(ctx context.Context, args browseArgs) error {
	if args.route != "" {
		if _, err := tui.ParseRoute(args.route); err != nil {
			return app.fail(err)
		}
	}

	err := app.launch(ctx, tui.Options{
		API:               args.api,
		Categories:        args.categories,
		Filter:            args.filter,
		Route:             args.route,
		PrefetchThreshold: app.cfg.UI.PrefetchThreshold,
		SearchDebounce:    app.cfg.UI.SearchDebounce.Duration,
		Logger:            app.logger,
	})
	if errors.Is(err, tui.ErrNoTerminal) {
		return domain.NewExitError(ExitUsageError, "The browser needs a terminal. Use 'dex list' in scripts.", err)
	}

	if err != nil {
		return domain.NewExitError(ExitGeneralError, fmt.Sprintf("Failed to launch browser: %v", err), err)
	}

	return nil
}

// listing is the JSON shape of `dex list`.
type listing struct {
	Query      domain.PageQuery `json:"query"`
	Items      []domain.Item    `json:"items"`
	NextOffset int              `json:"next_offset"`
	HasMore    bool             `json:"has_more"`
}

func (app *CLI) createListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Print catalog items page by page",
		Description: `Fetches pages the same way the browser scrolls: each page is requested
only after the previous one arrived, and fetching stops at the first short page.

EXAMPLES:
  dex list --search chu
  dex list --type feu --type vol --all
  dex --json list --page-size 20 --pages 3`,
		Flags: append(filterFlags(),
			&cli.IntFlag{
				Name:    "pages",
				Aliases: []string{"p"},
				Usage:   "number of pages to fetch",
				Value:   1,
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "fetch until the catalog is exhausted",
			},
		),
		Action: app.runList,
	}
}

func (app *CLI) runList(ctx context.Context, cmd *cli.Command) error {
	api, err := app.newAPI()
	if err != nil {
		return err
	}

	filter, err := app.filterFromFlags(ctx, cmd, app.newCategories(api))
	if err != nil {
		return app.fail(err)
	}

	pages := cmd.Int("pages")
	all := cmd.Bool("all")

	if pages < 1 && !all {
		return app.fail(fmt.Errorf("%w: --pages must be at least 1", ErrInvalidArgument))
	}

	ctrl := catalog.NewController(api, catalog.WithFilter(filter), catalog.WithLogger(app.logger))

	if err := app.fetchPages(ctx, ctrl, pages, all); err != nil {
		return app.fail(err)
	}

	snap := ctrl.Snapshot()

	switch {
	case app.json:
		app.out.JSONValue(listing{
			Query:      snap.Filter.Query(0),
			Items:      snap.Window.Items,
			NextOffset: snap.Window.Offset,
			HasMore:    snap.Window.HasMore,
		})
	case app.plain:
		for _, item := range snap.Window.Items {
			app.out.PlainValue(plainItemLine(item))
		}
	default:
		app.out.Raw(itemTable(snap.Window.Items))

		if message := endMessage(snap.Window); message != "" {
			app.out.Successf("%s", message)
		} else {
			app.out.Progressf("more items available: --pages %d", pages+1)
		}
	}

	return nil
}

// fetchPages loads pages through the controller's guard until the page
// budget is spent or the window is exhausted.
func (app *CLI) fetchPages(ctx context.Context, ctrl *catalog.Controller, pages int, all bool) error {
	for fetched := 0; all || fetched < pages; fetched++ {
		req, ok := ctrl.LoadMore()
		if !ok {
			return nil
		}

		app.out.Progressf("fetching %s", req.Query)

		items, err := ctrl.Execute(ctx, req)

		outcome := ctrl.Complete(req, items, err)
		if outcome.Failed {
			return fmt.Errorf("%s: %w", domain.MsgItemsFailed, err)
		}
	}

	return nil
}

func endMessage(window domain.ResultWindow) string {
	switch {
	case window.HasMore:
		return ""
	case len(window.Items) == 0:
		return "No items found"
	default:
		return "You have seen all items!"
	}
}

func (app *CLI) createShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one item with stats and evolutions",
		ArgsUsage: "<id|/item/id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return app.fail(fmt.Errorf("%w: show takes exactly one item id", ErrInvalidArgument))
			}

			id, err := parseItemArg(cmd.Args().First())
			if err != nil {
				return app.fail(err)
			}

			return app.runShow(ctx, id)
		},
	}
}

func parseItemArg(arg string) (int, error) {
	if strings.HasPrefix(arg, "/") {
		id, err := tui.ParseRoute(arg)
		if err != nil {
			return 0, err //nolint:wrapcheck // route errors are already descriptive
		}

		if id == 0 {
			return 0, fmt.Errorf("%w: %q is not an item route", ErrInvalidArgument, arg)
		}

		return id, nil
	}

	id, err := strconv.Atoi(strings.TrimPrefix(arg, "#"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q is not an item id", ErrInvalidArgument, arg)
	}

	return id, nil
}

func (app *CLI) runShow(ctx context.Context, id int) error {
	api, err := app.newAPI()
	if err != nil {
		return err
	}

	categories := app.newCategories(api)

	var item *domain.Item

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		loaded, _, err := catalog.LoadItem(groupCtx, api, id, app.logger)
		item = loaded

		return err
	})

	group.Go(func() error {
		// Names only decorate the detail; a failure is reported but not fatal.
		if err := categories.Load(groupCtx); err != nil && groupCtx.Err() == nil {
			app.out.Warningf("%s", categories.ErrorMessage())
		}

		return nil
	})

	if err := group.Wait(); err != nil {
		return app.fail(err)
	}

	switch {
	case app.json:
		app.out.JSONValue(item)
	case app.plain:
		for _, line := range plainItemDetail(item, categories) {
			app.out.PlainValue(line)
		}
	default:
		rendered, err := renderMarkdown(itemMarkdown(item, categories), app.out.UseColor())
		if err != nil {
			return app.fail(err)
		}

		app.out.Raw(rendered)
	}

	return nil
}

func (app *CLI) createTypesCommand() *cli.Command {
	return &cli.Command{
		Name:  "types",
		Usage: "List the item types usable with --type",
		Action: func(ctx context.Context, _ *cli.Command) error {
			api, err := app.newAPI()
			if err != nil {
				return err
			}

			categories := app.newCategories(api)
			if err := categories.Load(ctx); err != nil {
				return app.fail(err)
			}

			switch {
			case app.json:
				app.out.JSONValue(categories.All())
			case app.plain:
				for _, category := range categories.All() {
					app.out.PlainKeyValue(string(category.ID), category.Name)
				}
			default:
				app.out.Raw(categoryTable(categories.All()))
			}

			return nil
		},
	}
}

func (app *CLI) createConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect or change the configuration file",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the effective configuration",
				Action: func(_ context.Context, _ *cli.Command) error {
					if app.json {
						app.out.JSONValue(app.cfg)

						return nil
					}

					data, err := toml.Marshal(app.cfg)
					if err != nil {
						return app.fail(fmt.Errorf("encode config: %w", err))
					}

					app.out.Raw(string(data))

					return nil
				},
			},
			{
				Name:  "path",
				Usage: "Print the configuration file path",
				Action: func(_ context.Context, _ *cli.Command) error {
					app.out.PlainValue(app.configPath)

					return nil
				},
			},
			{
				Name:        "set",
				Usage:       "Set a key and save the file",
				ArgsUsage:   "<key> <value>",
				Description: "Keys: " + strings.Join(config.Keys(), ", "),
				Action:      app.runConfigSet,
			},
		},
	}
}

func (app *CLI) runConfigSet(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return app.fail(fmt.Errorf("%w: config set takes a key and a value", ErrInvalidArgument))
	}

	key, value := cmd.Args().Get(0), cmd.Args().Get(1)

	// Environment overrides are not written back to the file.
	_, err := config.Update(app.configPath, func(cfg *config.Config) error {
		return cfg.Set(key, value)
	})
	if err != nil {
		return app.fail(err)
	}

	app.logger.Info("config updated", zap.String("key", key), zap.String("path", app.configPath))
	app.out.SuccessResult(fmt.Sprintf("%s = %s", key, value), "saved "+app.configPath)

	return nil
}

func (app *CLI) createServeFixtureCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve-fixture",
		Usage: "Serve the embedded sample catalog over HTTP",
		Description: `Starts a local server with the same endpoints as the public catalog API.
Point dex at it with --api-url http://127.0.0.1:8080.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "listen address",
				Value: "127.0.0.1:8080",
			},
			&cli.DurationFlag{
				Name:  "latency",
				Usage: "delay added to every response",
			},
			&cli.IntSliceFlag{
				Name:  "fail-page",
				Usage: "answer 500 for this list page number (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "fail-types",
				Usage: "answer 500 for the types endpoint",
			},
		},
		Action: app.runServeFixture,
	}
}

func (app *CLI) runServeFixture(ctx context.Context, cmd *cli.Command) error {
	handler, err := fixture.NewDefault(fixture.Options{
		Latency:        cmd.Duration("latency"),
		FailListPages:  cmd.IntSlice("fail-page"),
		FailCategories: cmd.Bool("fail-types"),
		Logger:         app.logger,
	})
	if err != nil {
		return app.fail(err)
	}

	var listenConfig net.ListenConfig

	listener, err := listenConfig.Listen(context.WithoutCancel(ctx), "tcp", cmd.String("addr"))
	if err != nil {
		return domain.NewExitError(ExitGeneralError, fmt.Sprintf("Failed to listen on %s: %v", cmd.String("addr"), err), err)
	}

	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: shutdownTimeout,
	}

	app.out.Successf("fixture API listening on http://%s", listener.Addr())
	app.logger.Info("fixture server started", zap.String("addr", listener.Addr().String()))

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}

		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx) //nolint:wrapcheck
	})

	if err := group.Wait(); err != nil {
		return app.fail(err)
	}

	app.logger.Info("fixture server stopped", zap.Int64("requests", handler.Requests()))

	return nil
}
