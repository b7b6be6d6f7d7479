package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/redis/go-redis/v9"

	"github.com/at-ishikawa/certquiz/internal/config"
	"github.com/at-ishikawa/certquiz/internal/database"
	"github.com/at-ishikawa/certquiz/internal/kvstore"
	"github.com/at-ishikawa/certquiz/internal/mastery"
	"github.com/at-ishikawa/certquiz/internal/persistence"
	"github.com/at-ishikawa/certquiz/internal/question"
	"github.com/at-ishikawa/certquiz/internal/report"
	"github.com/at-ishikawa/certquiz/internal/review"
	"github.com/at-ishikawa/certquiz/internal/session"
	"github.com/at-ishikawa/certquiz/internal/statistics"
)

// Engine holds the services behind every command.
type Engine struct {
	Config     *config.Config
	Bank       *question.Catalog
	Cache      *persistence.Cache
	Sessions   *session.Store
	Statistics *statistics.Aggregator
	Mastery    *mastery.Tracker
	Review     *review.Queue
	Reports    *report.Exporter
}

// NewEngine opens the configured store, loads the question banks and builds the services.
// Closing the store and flushing the cache are registered as shutdown hooks on app.
func NewEngine(ctx context.Context, app *App, cfg *config.Config) (*Engine, error) {
	store, err := OpenStore(ctx, app, cfg)
	if err != nil {
		return nil, fmt.Errorf("OpenStore() > %w", err)
	}
	bank, err := LoadBank(ctx, cfg.QuestionBanks)
	if err != nil {
		return nil, fmt.Errorf("LoadBank() > %w", err)
	}

	cache := persistence.NewCache(persistence.NewAdapter(store))
	app.AddShutdownHook(func(ctx context.Context) error {
		if err := cache.Flush(ctx); err != nil {
			return fmt.Errorf("cache.Flush() > %w", err)
		}
		return nil
	})

	sessions := session.NewStore(cache, bank,
		session.WithBuckets(session.DefaultBuckets(cfg.Storage.KeyPrefix)),
	)
	return &Engine{
		Config:   cfg,
		Bank:     bank,
		Cache:    cache,
		Sessions: sessions,
		Statistics: statistics.NewAggregator(sessions, bank,
			statistics.WithPassThreshold(cfg.Progress.PassThreshold),
		),
		Mastery: mastery.NewTracker(sessions),
		Review:  review.NewQueue(sessions, bank),
		Reports: report.NewExporter(cfg.Outputs.ReportDirectory, cfg.Templates.SessionReportTemplate),
	}, nil
}

// OpenStore returns the backing store selected by cfg.Storage.Backend.
// Stores holding connections are closed by a shutdown hook on app.
func OpenStore(ctx context.Context, app *App, cfg *config.Config) (kvstore.Store, error) {
	storage := cfg.Storage
	switch storage.Backend {
	case config.BackendMemory:
		return kvstore.NewMemoryStore(int(storage.QuotaBytes)), nil
	case config.BackendFile:
		return kvstore.NewFileStore(storage.Directory, storage.QuotaBytes), nil
	case config.BackendNone:
		return kvstore.Unavailable{}, nil
	case config.BackendSQLite:
		store, err := kvstore.OpenSQLiteStore(ctx, storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("kvstore.OpenSQLiteStore(%s) > %w", storage.SQLitePath, err)
		}
		app.AddShutdownHook(func(context.Context) error {
			return store.Close()
		})
		return store, nil
	case config.BackendMySQL:
		db, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("database.Connect() > %w", err)
		}
		app.AddShutdownHook(func(context.Context) error {
			return db.Close()
		})
		store := kvstore.NewMySQLStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("store.EnsureSchema() > %w", err)
		}
		return store, nil
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store := kvstore.NewRedisStore(client)
		app.AddShutdownHook(func(context.Context) error {
			return store.Close()
		})
		ping := func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}
		if err := database.WaitReady(ctx, "redis", cfg.Redis.ConnectAttempts, ping); err != nil {
			return nil, fmt.Errorf("database.WaitReady(redis) > %w", err)
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown storage backend: %s", storage.Backend)
}

// LoadBank reads the configured question bank directories and the remote bank.
// Directories that do not exist are skipped.
func LoadBank(ctx context.Context, cfg config.QuestionBanksConfig) (*question.Catalog, error) {
	var dirs []string
	for _, dir := range cfg.Directories {
		if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
			slog.Default().Warn("Question bank directory does not exist", "directory", dir)
			continue
		}
		dirs = append(dirs, dir)
	}
	local, err := question.LoadDirectories(dirs...)
	if err != nil {
		return nil, fmt.Errorf("question.LoadDirectories() > %w", err)
	}
	if cfg.RemoteURL == "" {
		return local, nil
	}

	client := resty.New().SetTimeout(time.Duration(cfg.RequestTimeoutSeconds) * time.Second)
	remote, err := question.FetchRemote(ctx, client, cfg.RemoteURL)
	if err != nil {
		return nil, fmt.Errorf("question.FetchRemote(%s) > %w", cfg.RemoteURL, err)
	}
	merged, err := question.Merge(local, remote)
	if err != nil {
		return nil, fmt.Errorf("question.Merge() > %w", err)
	}
	return merged, nil
}
