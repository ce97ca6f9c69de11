package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"

	"github.com/nooreldeenmagdy/ai-chat-service/internal/catalog"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/config"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/demo/seed"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/observability"
	s3store "github.com/nooreldeenmagdy/ai-chat-service/internal/storage/s3"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env file", slog.Any("error", err))
	}

	cfg, err := config.LoadFromEnv("aichat-seed")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg, os.Stdout)

	seedCfg, err := seed.LoadConfigFromEnv(os.LookupEnv)
	if err != nil {
		logger.Error("failed to load seed config", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, seedCfg, logger); err != nil {
		logger.Error("seed failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, seedCfg seed.Config, logger *slog.Logger) error {
	cat, err := catalog.Default()
	if err != nil {
		return err
	}
	if path := strings.TrimSpace(cfg.Catalog.Path); path != "" {
		if cat, err = catalog.LoadFile(path); err != nil {
			return err
		}
	}

	dataset := seed.NewGenerator(seedCfg.Seed).Generate()
	logger.Info("generated demo dataset", slog.Int64("seed", seedCfg.Seed), slog.Any("targets", seedCfg.Targets))

	for _, target := range seedCfg.Targets {
		switch target {
		case seed.TargetObjectStore:
			if err := seedObjectStore(ctx, cfg, dataset, logger); err != nil {
				return fmt.Errorf("%s: %w", target, err)
			}
		case seed.TargetSQLite:
			if err := seedDatabase(ctx, "sqlite3", cfg.SQLite.Path, seed.SQLite, cat, dataset, logger); err != nil {
				return fmt.Errorf("%s: %w", target, err)
			}
		case seed.TargetPostgres:
			if err := seedDatabase(ctx, "pgx", cfg.Postgres.DSN, seed.Postgres, cat, dataset, logger); err != nil {
				return fmt.Errorf("%s: %w", target, err)
			}
		}
	}
	return nil
}

func seedObjectStore(ctx context.Context, cfg config.Config, dataset *seed.Dataset, logger *slog.Logger) error {
	store, err := s3store.New(ctx, s3store.Config{
		Endpoint:         cfg.ObjectStore.Endpoint,
		Region:           cfg.ObjectStore.Region,
		Bucket:           cfg.ObjectStore.Bucket,
		AccessKeyID:      cfg.ObjectStore.AccessKeyID,
		SecretAccessKey:  cfg.ObjectStore.SecretAccessKey,
		UseSSL:           cfg.ObjectStore.UseSSL,
		Prefix:           cfg.ObjectStore.Prefix,
		AutoCreateBucket: cfg.ObjectStore.AutoCreateBucket,
	})
	if err != nil {
		return err
	}
	summary, err := seed.UploadParquet(ctx, store, cfg.DuckDB.DatasetPrefix, dataset, logger)
	if err != nil {
		return err
	}
	logger.Info("uploaded parquet dataset",
		slog.String("bucket", store.Bucket()),
		slog.Int("objects", len(summary.Keys)),
		slog.Int64("bytes", summary.Bytes),
		slog.Int("pruned", len(summary.Pruned)),
	)
	return nil
}

func seedDatabase(ctx context.Context, driver, dsn string, dialect seed.SQLDialect, cat *catalog.Catalog, dataset *seed.Dataset, logger *slog.Logger) error {
	if strings.TrimSpace(dsn) == "" {
		return fmt.Errorf("%s connection string is required", dialect)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	if err := db.PingContext(ctx); err != nil {
		return err
	}
	return seed.WriteSQL(ctx, db, dialect, cat, dataset, logger)
}
