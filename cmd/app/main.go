package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/mdsync/mdsync/internal"
	"github.com/mdsync/mdsync/internal/app"
	"github.com/mdsync/mdsync/internal/markdownize"
	"github.com/mdsync/mdsync/internal/syncer"
	pkgconfig "github.com/mdsync/mdsync/pkg/config"
)

// setup loads configuration and builds the application with a JSON logger.
func setup(cmd *cli.Command) (*app.App, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadIfPresent(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	return app.New(cfg, logger), nil
}

// categoriesArg splits the optional comma-delimited category slug list.
func categoriesArg(cmd *cli.Command) []string {
	raw := cmd.Args().First()
	if raw == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func selection(cmd *cli.Command) syncer.Selection {
	return syncer.Selection{
		Categories: categoriesArg(cmd),
		File:       cmd.String("file"),
		StagedOnly: cmd.Bool("staged"),
	}
}

func selectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "dir",
			Usage: "Docs directory (overrides config)",
		},
		&cli.StringFlag{
			Name:  "file",
			Usage: "Operate on a single page path (relative to the docs dir)",
		},
		&cli.BoolFlag{
			Name:  "staged",
			Usage: "Only pages staged in git",
		},
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "mdsync",
		Usage: "Mirror a local Markdown docs directory against a documentation hosting API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("MDSYNC_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "fetch",
				Usage:     "Download remote docs in the given categories into the docs directory",
				ArgsUsage: "CATEGORIES (comma-delimited slugs)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Usage: "Docs directory (overrides config)"},
					&cli.BoolFlag{Name: "dry-run", Usage: "Report without writing"},
					&cli.BoolFlag{Name: "prune", Usage: "Delete local pages no longer present remotely"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					a, err := setup(cmd)
					if err != nil {
						return err
					}
					return a.Fetch(ctx, categoriesArg(cmd), cmd.String("dir"), cmd.Bool("dry-run"), cmd.Bool("prune"))
				},
			},
			{
				Name:      "push",
				Usage:     "Upload changed local pages to the remote",
				ArgsUsage: "[CATEGORIES]",
				Flags: append(selectionFlags(),
					&cli.BoolFlag{Name: "dry-run", Usage: "Report without pushing"},
				),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					a, err := setup(cmd)
					if err != nil {
						return err
					}
					return a.Push(ctx, selection(cmd), cmd.String("dir"), cmd.Bool("dry-run"))
				},
			},
			{
				Name:      "markdownize",
				Usage:     "Rewrite proprietary widget markup into standard Markdown",
				ArgsUsage: "[CATEGORIES]",
				Flags: append(selectionFlags(),
					&cli.StringFlag{
						Name:  "widgets",
						Usage: "Comma-delimited widget types to rewrite",
						Value: strings.Join(markdownize.Widgets(), ","),
					},
					&cli.BoolFlag{Name: "dry-run", Usage: "Report without writing"},
					&cli.BoolFlag{Name: "verbose", Usage: "Log every rewrite"},
				),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					a, err := setup(cmd)
					if err != nil {
						return err
					}
					widgets := strings.Split(cmd.String("widgets"), ",")
					return a.Markdownize(ctx, selection(cmd), cmd.String("dir"),
						widgets, cmd.Bool("dry-run"), cmd.Bool("verbose"))
				},
			},
			{
				Name:      "validate",
				Usage:     "Resolve every cross-reference, URL, and mailto link and report failures",
				ArgsUsage: "[CATEGORIES]",
				Flags:     selectionFlags(),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					a, err := setup(cmd)
					if err != nil {
						return err
					}
					return a.Validate(ctx, selection(cmd), cmd.String("dir"))
				},
			},
			{
				Name:  "watch",
				Usage: "Watch the docs directory and re-validate pages as they change",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Usage: "Docs directory (overrides config)"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					a, err := setup(cmd)
					if err != nil {
						return err
					}
					ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
					defer stop()
					return a.Watch(ctx, cmd.String("dir"))
				},
			},
			{
				Name:  "mcp",
				Usage: "Serve the docs catalog over the Model Context Protocol (stdio)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Usage: "Docs directory (overrides config)"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					a, err := setup(cmd)
					if err != nil {
						return err
					}
					return a.MCP(ctx, cmd.String("dir"))
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
