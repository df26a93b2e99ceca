package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"invest-sentinel/internal/analysis"
	"invest-sentinel/internal/analysis/analysisobs"
	"invest-sentinel/internal/interfaces"
	"invest-sentinel/internal/logger"
	"invest-sentinel/internal/marketdata"
	"invest-sentinel/internal/news"
	"invest-sentinel/internal/recorder"
	"invest-sentinel/internal/render"
	"invest-sentinel/internal/runlog"
	"invest-sentinel/internal/store"
	"invest-sentinel/internal/trace"
)

// initializeSystem initializes the environment, logger, and tracer.
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads the configuration, falling back to defaults when no
// config file exists.
func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn(ctx, "Config file not found, using defaults", "path", path)
			return store.Default(), nil
		}
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// compressOldLogs points the run log at the configured directory and
// compresses old files if retention is configured
func compressOldLogs(ctx context.Context, cfg *store.Config) {
	if os.Getenv("SENTINEL_LOG_DIR") == "" && cfg.RunLog.Dir != "" {
		_ = os.Setenv("SENTINEL_LOG_DIR", cfg.RunLog.Dir)
	}
	if cfg.RunLog.RetentionDays > 0 {
		if err := runlog.CompressOlder(cfg.RunLog.RetentionDays); err != nil {
			logger.Warn(ctx, "Failed to compress old logs", "error", err)
		}
	}
}

// initializeMarketData builds the daily-bars client from config.
func initializeMarketData(ctx context.Context, cfg *store.Config) interfaces.MarketData {
	token := os.Getenv(cfg.DataSource.TokenEnv)
	if token == "" {
		logger.Warn(ctx, "Data source token is empty, upstream requests will be rejected",
			"token_env", cfg.DataSource.TokenEnv)
	}
	return marketdata.NewTushareClient(
		cfg.DataSource.BaseURL,
		token,
		cfg.DataSource.LookbackDays,
		time.Duration(cfg.DataSource.TimeoutSeconds)*time.Second,
	)
}

// initializeNews builds the cached headline sentiment service from config.
func initializeNews(cfg *store.Config) *news.Service {
	return news.NewService(&news.ServiceConfig{
		MaxHeadlines:   cfg.News.MaxHeadlines,
		CacheDuration:  time.Duration(cfg.News.CacheMinutes) * time.Minute,
		ScraperTimeout: time.Duration(cfg.News.TimeoutSeconds) * time.Second,
		AllowTemplates: cfg.News.AllowTemplates,
	})
}

// initializeRecorder opens the sqlite history store, or a noop when no path
// is configured.
func initializeRecorder(ctx context.Context, cfg *store.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		logger.Info(ctx, "No database configured, analysis history will not be persisted")
		return recorder.NewNoopRecorder()
	}
	rec, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to open sqlite recorder, history disabled", err)
		return recorder.NewNoopRecorder()
	}
	return rec
}

// initializeAnalyzer wires the full pipeline with observability middleware.
func initializeAnalyzer(cfg *store.Config, market interfaces.MarketData, sentiment *news.Service, rec recorder.Recorder) interfaces.Analyzer {
	if cfg.Charts.Enabled {
		a := analysis.New(cfg, market, sentiment, rec, render.NewRenderer(cfg.Charts.OutputDir))
		return analysisobs.Wrap(a)
	}

	a := analysis.New(cfg, market, sentiment, rec, nil)

	// Wrap with observability middleware
	return analysisobs.Wrap(a)
}
