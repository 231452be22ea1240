package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/raido/internal"
	"github.com/starford/raido/internal/dataset"
	"github.com/starford/raido/internal/graph"
	"github.com/starford/raido/internal/ingest"
	"github.com/starford/raido/internal/mcpserver"
	"github.com/starford/raido/internal/recommend"
	pkgconfig "github.com/starford/raido/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func load(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))

	store, err := dataset.NewFS(cfg.Data.Path)
	if err != nil {
		return fmt.Errorf("init dataset storage: %w", err)
	}

	db, err := graph.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init graph: %w", err)
	}
	defer db.Close()

	loaded, err := ingest.Sync(db, store, logger)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	for _, path := range loaded {
		fmt.Println(path)
	}

	return nil
}

func mcp(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := graph.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init graph: %w", err)
	}
	defer db.Close()

	svc := recommend.NewService(db, cfg.Recommend.Params())
	return mcpserver.New(svc).ServeStdio()
}

func main() {
	configFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to config file",
			DefaultText: "config/config.yaml",
			Value:       "config/config.yaml",
			Sources:     cli.EnvVars("APP_CONFIG_FILE"),
		}
	}

	cmd := &cli.Command{
		Name:   "raido",
		Usage:  "Content-based recipe recommendation service over an interaction graph",
		Action: serve,
		Flags:  []cli.Flag{configFlag()},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP API server (default)",
				Action: serve,
				Flags:  []cli.Flag{configFlag()},
			},
			{
				Name:   "load",
				Usage:  "Ingest dataset CSV files into the graph and exit",
				Action: load,
				Flags:  []cli.Flag{configFlag()},
			},
			{
				Name:   "mcp",
				Usage:  "Serve recommendation tools over MCP stdio transport",
				Action: mcp,
				Flags:  []cli.Flag{configFlag()},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
