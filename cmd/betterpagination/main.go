package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/better-pagination/better-pagination/internal/app"
	"github.com/better-pagination/better-pagination/internal/calendar"
	"github.com/better-pagination/better-pagination/internal/entries"
	"github.com/better-pagination/better-pagination/internal/extension"
	"github.com/better-pagination/better-pagination/internal/observability"
	"github.com/better-pagination/better-pagination/internal/platform/cache"
	"github.com/better-pagination/better-pagination/internal/platform/db"
	"github.com/better-pagination/better-pagination/internal/rest"
	"github.com/better-pagination/better-pagination/internal/view"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, dbpool, logger); err != nil {
			logger.Error("migrate", slog.Any("error", err))
			os.Exit(1)
		}
	}

	metrics := observability.NewMetrics()

	redisClient, err := cache.New(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Warn("redis unavailable, counting rows on every request", slog.Any("error", err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}
	counts := cache.NewCountCache(redisClient, cfg.CountCacheTTL, metrics, logger)

	templates, err := view.NewEngine(cfg.NumberLocale)
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	pager, err := extension.New(cfg.ExtensionSettings(), templates, metrics, logger)
	if err != nil {
		logger.Error("configure pagination", slog.Any("error", err))
		os.Exit(1)
	}

	entriesService := entries.NewService(entries.NewRepository(dbpool), counts)
	entriesHandler := entries.NewHandler(logger, entriesService, templates, pager, entries.HandlerConfig{
		DefaultLimit: cfg.DefaultLimit,
		MaxLimit:     cfg.MaxLimit,
		Placement:    cfg.Placement,
		OffsetName:   cfg.OffsetName,
	})

	calendarService := calendar.NewService(calendar.NewRepository(dbpool), counts)
	calendarHandler := calendar.NewHandler(logger, calendarService, templates, pager, calendar.HandlerConfig{
		DefaultLimit: cfg.DefaultLimit,
		EventLimit:   cfg.EventLimit,
		MaxLimit:     cfg.MaxLimit,
		OffsetName:   cfg.OffsetName,
	})

	restHandler := rest.NewHandler(logger, entriesService, templates, pager, rest.Config{
		DefaultLimit: cfg.DefaultLimit,
		MaxLimit:     cfg.MaxLimit,
		OffsetName:   cfg.OffsetName,
	})

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		Pagination:      pager,
		EntriesHandler:  entriesHandler,
		CalendarHandler: calendarHandler,
		RESTHandler:     restHandler,
		Metrics:         metrics,
		HomePath:        "/channels/blog/entries",
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
