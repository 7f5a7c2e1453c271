// Package app wires configuration, storage, sync state, and the remote
// client into the operations behind each CLI command.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mdsync/mdsync/internal"
	"github.com/mdsync/mdsync/internal/catalog"
	"github.com/mdsync/mdsync/internal/link"
	"github.com/mdsync/mdsync/internal/markdownize"
	"github.com/mdsync/mdsync/internal/mcpserver"
	"github.com/mdsync/mdsync/internal/page"
	"github.com/mdsync/mdsync/internal/remote"
	"github.com/mdsync/mdsync/internal/state"
	"github.com/mdsync/mdsync/internal/storage"
	"github.com/mdsync/mdsync/internal/syncer"
	"github.com/mdsync/mdsync/internal/validator"
	"github.com/mdsync/mdsync/internal/watch"
)

// App holds the assembled collaborators for one command invocation.
type App struct {
	cfg    *internal.Config
	logger *slog.Logger

	// Injectable for tests.
	remoteAPI remote.API
	prober    link.Prober
}

// Option configures an App.
type Option func(*App)

// WithRemote overrides the remote API client.
func WithRemote(api remote.API) Option {
	return func(a *App) { a.remoteAPI = api }
}

// WithProber overrides the URL prober used during validation.
func WithProber(p link.Prober) Option {
	return func(a *App) { a.prober = p }
}

// New creates an App from a validated configuration.
func New(cfg *internal.Config, logger *slog.Logger, opts ...Option) *App {
	a := &App{cfg: cfg, logger: logger}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// openStore returns the docs storage provider, honoring a --dir override.
func (a *App) openStore(dirOverride string) (storage.Provider, error) {
	dir := a.cfg.Docs.Dir
	if dirOverride != "" {
		dir = dirOverride
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create docs dir: %w", err)
	}
	return storage.NewFS(dir)
}

// openState returns the sync-state store.
func (a *App) openState() (*state.DB, error) {
	return state.Open(a.cfg.State.Path)
}

// remoteClient returns the remote API, requiring configured credentials
// unless a test injected one.
func (a *App) remoteClient() (remote.API, error) {
	if a.remoteAPI != nil {
		return a.remoteAPI, nil
	}
	if err := a.cfg.Remote.RequireCredentials(); err != nil {
		return nil, err
	}
	return remote.NewClient(a.cfg.Remote.BaseURL, a.cfg.Remote.APIKey, a.cfg.Remote.Timeout()), nil
}

func (a *App) urlProber() link.Prober {
	if a.prober != nil {
		return a.prober
	}
	return link.NewHTTPProber(a.cfg.Remote.Timeout())
}

// Fetch mirrors the given remote categories into the docs directory.
// With prune, local pages absent from the remote listing are removed.
func (a *App) Fetch(ctx context.Context, categories []string, dir string, dryRun, prune bool) error {
	if len(categories) == 0 {
		return fmt.Errorf("fetch: specify at least one category slug")
	}
	store, err := a.openStore(dir)
	if err != nil {
		return err
	}
	api, err := a.remoteClient()
	if err != nil {
		return err
	}
	db, err := a.openState()
	if err != nil {
		return err
	}
	defer db.Close()

	s := &syncer.Syncer{Store: store, Remote: api, State: db, Logger: a.logger, DryRun: dryRun}
	return s.Fetch(ctx, categories, prune)
}

// Push uploads changed local pages to the remote.
func (a *App) Push(ctx context.Context, sel syncer.Selection, dir string, dryRun bool) error {
	store, err := a.openStore(dir)
	if err != nil {
		return err
	}
	api, err := a.remoteClient()
	if err != nil {
		return err
	}
	db, err := a.openState()
	if err != nil {
		return err
	}
	defer db.Close()

	cat, err := catalog.Build(store, a.logger)
	if err != nil {
		return err
	}

	s := &syncer.Syncer{Store: store, Remote: api, State: db, Logger: a.logger, DryRun: dryRun}
	pages, err := s.SelectPages(cat, sel)
	if err != nil {
		return err
	}

	stats, err := s.Push(ctx, pages)
	if err != nil {
		return err
	}
	a.logger.Info("push: done",
		slog.Int("pushed", stats.Pushed),
		slog.Int("skipped", stats.Skipped),
		slog.Int("conflicts", stats.Conflicts))
	return nil
}

// Markdownize rewrites proprietary widget markup in the selected pages.
func (a *App) Markdownize(_ context.Context, sel syncer.Selection, dir string, widgets []string, dryRun, verbose bool) error {
	if err := markdownize.ValidateWidgets(widgets); err != nil {
		return err
	}
	store, err := a.openStore(dir)
	if err != nil {
		return err
	}
	cat, err := catalog.Build(store, a.logger)
	if err != nil {
		return err
	}

	s := &syncer.Syncer{Store: store, Logger: a.logger, DryRun: dryRun}
	pages, err := s.SelectPages(cat, sel)
	if err != nil {
		return err
	}

	changed, err := s.Markdownize(pages, widgets, verbose)
	if err != nil {
		return err
	}
	a.logger.Info("markdownize: done", slog.Int("changed", changed))
	return nil
}

// Validate resolves every link of the selected pages and reports each
// failure. Returns an error when any link failed to resolve.
func (a *App) Validate(ctx context.Context, sel syncer.Selection, dir string) error {
	store, err := a.openStore(dir)
	if err != nil {
		return err
	}
	cat, err := catalog.Build(store, a.logger)
	if err != nil {
		return err
	}

	s := &syncer.Syncer{Store: store, Logger: a.logger}
	pages, err := s.SelectPages(cat, sel)
	if err != nil {
		return err
	}

	v := &validator.Validator{
		Resolver: &link.Resolver{Index: cat, Prober: a.urlProber()},
		Report: func(f validator.Failure) {
			a.logger.Warn("validate: broken link",
				slog.String("page", f.Page),
				slog.Int("line", f.Line),
				slog.String("kind", string(f.Kind)),
				slog.String("href", f.Href),
				slog.String("reason", f.Reason))
		},
	}
	failures, err := v.ValidatePages(ctx, pages)
	if err != nil {
		return err
	}
	if failures > 0 {
		return fmt.Errorf("validate: %d broken link(s)", failures)
	}
	a.logger.Info("validate: all links resolved", slog.Int("pages", len(pages)))
	return nil
}

// Watch re-validates pages as their files change on disk, until ctx is
// cancelled.
func (a *App) Watch(ctx context.Context, dir string) error {
	store, err := a.openStore(dir)
	if err != nil {
		return err
	}

	return watch.Watch(ctx, store.Root(), a.logger, func(kind, path string) {
		if kind == "deleted" {
			a.logger.Info("watch: removed", slog.String("path", path))
			return
		}
		// Rebuild so cross-references resolve against the current tree.
		cat, err := catalog.Build(store, a.logger)
		if err != nil {
			a.logger.Warn("watch: catalog rebuild failed", slog.String("error", err.Error()))
			return
		}
		p := cat.FindPageByPath(path)
		if p == nil {
			return
		}
		v := &validator.Validator{
			Resolver: &link.Resolver{Index: cat, Prober: a.urlProber()},
			Report: func(f validator.Failure) {
				a.logger.Warn("watch: broken link",
					slog.String("page", f.Page),
					slog.Int("line", f.Line),
					slog.String("href", f.Href),
					slog.String("reason", f.Reason))
			},
		}
		failures, err := v.ValidatePages(ctx, []*page.Page{p})
		if err != nil {
			return
		}
		if failures == 0 {
			a.logger.Info("watch: page ok", slog.String("path", path))
		}
	})
}

// MCP serves the catalog over the Model Context Protocol on stdio.
func (a *App) MCP(_ context.Context, dir string) error {
	store, err := a.openStore(dir)
	if err != nil {
		return err
	}
	cat, err := catalog.Build(store, a.logger)
	if err != nil {
		return err
	}
	return mcpserver.New(cat, store).ServeStdio()
}
