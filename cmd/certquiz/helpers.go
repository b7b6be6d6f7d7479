package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/certquiz/internal/bootstrap"
	"github.com/at-ishikawa/certquiz/internal/cli"
	"github.com/at-ishikawa/certquiz/internal/config"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// runWithEngine loads the configuration, builds the engine and runs fn.
// Pending writes are flushed and storage is closed when fn returns.
func runWithEngine(cmd *cobra.Command, fn func(ctx context.Context, engine *bootstrap.Engine, printer *cli.Printer) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	app := bootstrap.New()
	if w := logWriter(cfg.Log); w != nil {
		setupLogger(w, debugMode)
		app.AddShutdownHook(func(context.Context) error {
			return w.Close()
		})
	}

	return app.Run(cmd.Context(), func(ctx context.Context) error {
		engine, err := bootstrap.NewEngine(ctx, app, cfg)
		if err != nil {
			return fmt.Errorf("bootstrap.NewEngine() > %w", err)
		}
		return fn(ctx, engine, cli.NewPrinter(cmd.OutOrStdout()))
	})
}

func parseQuestionIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", arg, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// optionalSeconds returns nil for a negative value, which means the time is unknown.
func optionalSeconds(seconds int) *int {
	if seconds < 0 {
		return nil
	}
	return &seconds
}
