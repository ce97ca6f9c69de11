package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/nooreldeenmagdy/ai-chat-service/internal/api"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/auth"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/catalog"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/config"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/llm"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/nl2sql"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/observability"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/pipeline"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/query"
	duckdbengine "github.com/nooreldeenmagdy/ai-chat-service/internal/query/duckdb"
	postgresengine "github.com/nooreldeenmagdy/ai-chat-service/internal/query/postgres"
	sqliteengine "github.com/nooreldeenmagdy/ai-chat-service/internal/query/sqlite"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/session"
	s3store "github.com/nooreldeenmagdy/ai-chat-service/internal/storage/s3"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env file", slog.Any("error", err))
	}

	cfg, err := config.LoadFromEnv("aichat-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)

	cat, err := loadCatalog(cfg.Catalog)
	if err != nil {
		logger.Error("failed to load schema catalog", slog.Any("error", err))
		os.Exit(1)
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 2*time.Minute)
	engine, err := openEngine(startupCtx, cfg, cat, logger)
	cancelStartup()
	if err != nil {
		logger.Error("failed to open query engine", slog.String("engine", cfg.Query.Engine), slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = engine.Close() }()

	executor := query.NewExecutor(engine, query.ExecutorConfig{
		Timeout: cfg.Query.Timeout,
		MaxRows: cfg.Query.MaxRows,
	}, logger)

	client, err := llm.NewFromConfig(cfg.LLM, logger)
	if err != nil {
		logger.Error("failed to initialize completion client", slog.Any("error", err))
		os.Exit(1)
	}

	dialect, err := nl2sql.ParseDialect(cfg.Query.Dialect)
	if err != nil {
		logger.Error("invalid sql dialect", slog.Any("error", err))
		os.Exit(1)
	}

	clock := clockwork.NewRealClock()
	sessions := session.NewStore(clock)
	chat, err := pipeline.New(pipeline.Config{
		Catalog:  cat,
		Client:   client,
		Executor: executor,
		Dialect:  dialect,
		Sessions: sessions,
		Clock:    clock,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("failed to build chat pipeline", slog.Any("error", err))
		os.Exit(1)
	}

	deps := api.Dependencies{
		Logger:   logger,
		Pipeline: chat,
		Sessions: sessions,
		Catalog:  cat,
		Readiness: api.CombineReadinessChecks(
			api.NamedCheck("query engine", executor.Ping),
			api.NamedCheck("llm", api.CheckLLMConfig(cfg)),
		),
		DependencyTimeout: time.Second,
	}
	if cfg.RateLimit.Enabled {
		limiter := api.NewRateLimiter(cfg.RateLimit, clock)
		limiter.Start()
		defer limiter.Stop()
		deps.RateLimiter = limiter
	}
	if cfg.Auth.Required {
		validator, err := auth.NewStaticTokenValidator(cfg.Auth.StaticTokens, cfg.Auth.BearerToken)
		if err != nil {
			logger.Error("failed to parse auth tokens", slog.Any("error", err))
			os.Exit(1)
		}
		if validator.Len() == 0 {
			logger.Error("auth is required but no tokens are configured")
			os.Exit(1)
		}
		deps.AuthMiddleware = auth.Middleware(logger, validator)
	}

	handler := api.NewHandler(cfg, deps)
	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting api server",
			slog.String("addr", cfg.HTTP.Address),
			slog.String("engine", executor.EngineName()),
			slog.String("provider", cfg.LLM.Provider),
			slog.String("model", cfg.LLM.Model),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down api server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		_ = server.Close()
		os.Exit(1)
	}
}

func loadCatalog(cfg config.CatalogConfig) (*catalog.Catalog, error) {
	if path := strings.TrimSpace(cfg.Path); path != "" {
		return catalog.LoadFile(path)
	}
	return catalog.Default()
}

func openEngine(ctx context.Context, cfg config.Config, cat *catalog.Catalog, logger *slog.Logger) (query.Engine, error) {
	switch cfg.Query.Engine {
	case config.EngineDuckDB:
		engineCfg := duckdbengine.Config{
			DatabasePath:  cfg.DuckDB.DatabasePath,
			DatasetPrefix: cfg.DuckDB.DatasetPrefix,
			Tables:        cat.TableNames(),
			WorkDir:       cfg.DuckDB.WorkDir,
			Logger:        logger,
		}
		if strings.TrimSpace(cfg.DuckDB.DatabasePath) == "" {
			store, err := openObjectStore(ctx, cfg.ObjectStore)
			if err != nil {
				return nil, err
			}
			engineCfg.Store = store
		}
		return duckdbengine.Open(ctx, engineCfg)
	case config.EngineSQLite:
		return sqliteengine.Open(ctx, sqliteengine.Config{Path: cfg.SQLite.Path})
	case config.EnginePostgres:
		return postgresengine.Open(ctx, postgresengine.DBConfig{
			DSN:             cfg.Postgres.DSN,
			ApplicationName: cfg.Service.Name,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxIdleTime: cfg.Postgres.ConnMaxIdleTime,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		})
	default:
		return nil, fmt.Errorf("unsupported query engine %q", cfg.Query.Engine)
	}
}

func openObjectStore(ctx context.Context, cfg config.ObjectStoreConfig) (*s3store.Store, error) {
	store, err := s3store.New(ctx, s3store.Config{
		Endpoint:         cfg.Endpoint,
		Region:           cfg.Region,
		Bucket:           cfg.Bucket,
		AccessKeyID:      cfg.AccessKeyID,
		SecretAccessKey:  cfg.SecretAccessKey,
		UseSSL:           cfg.UseSSL,
		Prefix:           cfg.Prefix,
		AutoCreateBucket: cfg.AutoCreateBucket,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize object store: %w", err)
	}
	if err := store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping object store: %w", err)
	}
	return store, nil
}
