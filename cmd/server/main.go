// Command server starts the portfolio assistant HTTP server.
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

	"github.com/fairyhunter13/ai-portfolio-assistant/internal/adapter/ai"
	"github.com/fairyhunter13/ai-portfolio-assistant/internal/adapter/ai/anthropic"
	"github.com/fairyhunter13/ai-portfolio-assistant/internal/adapter/cache/rediscache"
	httpserver "github.com/fairyhunter13/ai-portfolio-assistant/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-portfolio-assistant/internal/adapter/observability"
	"github.com/fairyhunter13/ai-portfolio-assistant/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/ai-portfolio-assistant/internal/adapter/repo/yamlfile"
	"github.com/fairyhunter13/ai-portfolio-assistant/internal/app"
	"github.com/fairyhunter13/ai-portfolio-assistant/internal/config"
	"github.com/fairyhunter13/ai-portfolio-assistant/internal/domain"
	"github.com/fairyhunter13/ai-portfolio-assistant/internal/usecase"
)

type candidateStore interface {
	domain.CandidateRepository
	domain.CandidateLocator
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	// Register all Prometheus metrics once per process.
	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()

	// Candidate store
	var (
		store   candidateStore
		dbCheck func(context.Context) error
	)
	switch cfg.DataSource {
	case config.DataSourceFile:
		fs, err := yamlfile.Open(cfg.CandidateFile)
		if err != nil {
			slog.Error("candidate file load failed", slog.String("path", cfg.CandidateFile), slog.Any("error", err))
			os.Exit(1)
		}
		store = fs
	default:
		pool, err := postgres.Connect(ctx, cfg.DBURL, cfg.DBConnectMaxElapsed)
		if err != nil {
			slog.Error("db connect failed", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		if cfg.DBEnsureSchema {
			if err := postgres.EnsureSchema(ctx, pool); err != nil {
				slog.Error("schema setup failed", slog.Any("error", err))
				os.Exit(1)
			}
		}
		store = postgres.NewCandidateRepo(pool)
		dbCheck, _ = app.BuildReadinessChecks(pool, nil)
	}

	opts := []usecase.CandidateOption{usecase.WithLocator(store)}
	if id, ok, _ := cfg.ParsedCandidateID(); ok {
		opts = append(opts, usecase.WithCandidateID(id))
	}

	// Optional snapshot cache
	var redisCheck func(context.Context) error
	if cfg.CacheEnabled() {
		rdb, err := rediscache.Connect(ctx, cfg.RedisURL, cfg.DBConnectMaxElapsed)
		if err != nil {
			slog.Error("redis connect failed", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() { _ = rdb.Close() }()
		opts = append(opts, usecase.WithSnapshotCache(rediscache.NewSnapshotCache(rdb, cfg.SnapshotCacheTTL)))
		_, redisCheck = app.BuildReadinessChecks(nil, app.RedisPinger(rdb))
		slog.Info("snapshot cache enabled", slog.Duration("ttl", cfg.SnapshotCacheTTL))
	}

	// Inference client; the key is re-read per request so it can be rotated
	// without a restart.
	aicl := anthropic.New(cfg, anthropic.WithAPIKeySource(func() string {
		if k := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); k != "" {
			return k
		}
		return cfg.AnthropicAPIKey
	}))
	if cfg.AnthropicAPIKey == "" {
		slog.Warn("ANTHROPIC_API_KEY not set; chat and analysis requests will fail until it is")
	}

	// Usecases
	candidates := usecase.NewCandidateService(store, cfg.DataSource, opts...)
	chatSvc := usecase.NewChatService(candidates, aicl, cfg.ChatMaxTokens)
	analyzeSvc := usecase.NewAnalyzeService(candidates, aicl, ai.ExtractFitAnalysis, cfg.AnalysisMaxTokens)

	// HTTP server
	srv := httpserver.NewServer(cfg, chatSvc, analyzeSvc, dbCheck, redisCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port), slog.String("data_source", cfg.DataSource))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
