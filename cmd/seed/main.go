package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/better-pagination/better-pagination/internal/app"
	"github.com/better-pagination/better-pagination/internal/calendar"
	"github.com/better-pagination/better-pagination/internal/entries"
	"github.com/better-pagination/better-pagination/internal/platform/cache"
	"github.com/better-pagination/better-pagination/internal/platform/db"
)

type seedConfig struct {
	Channel  string `envconfig:"CHANNEL" default:"blog"`
	Entries  int    `envconfig:"ENTRIES" default:"250"`
	Calendar string `envconfig:"CALENDAR" default:"default"`
	Events   int    `envconfig:"EVENTS" default:"60"`
}

func main() {
	if err := run(); err != nil {
		slog.Default().Error("seed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := app.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	var seed seedConfig
	if err := envconfig.Process("SEED", &seed); err != nil {
		return fmt.Errorf("load seed config: %w", err)
	}
	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		return err
	}
	defer dbpool.Close()

	if err := db.Migrate(ctx, dbpool, logger); err != nil {
		return err
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Warn("redis unavailable, cached counts will expire on their own", slog.Any("error", err))
	} else {
		defer redisClient.Close()
	}
	counts := cache.NewCountCache(redisClient, cfg.CountCacheTTL, nil, logger)

	now := time.Now().UTC().Truncate(time.Hour)
	stamp := now.Format("20060102150405")

	entryReqs := make([]entries.CreateEntryRequest, 0, seed.Entries)
	for i := 1; i <= seed.Entries; i++ {
		entryReqs = append(entryReqs, entries.CreateEntryRequest{
			Channel:   seed.Channel,
			Title:     fmt.Sprintf("Sample entry %d", i),
			URLTitle:  fmt.Sprintf("sample-entry-%s-%d", stamp, i),
			Body:      "Seeded for pagination demos.",
			EntryDate: now.Add(-time.Duration(i) * time.Hour),
		})
	}
	created, err := entries.NewService(entries.NewRepository(dbpool), counts).CreateBatch(ctx, entryReqs)
	if err != nil {
		return err
	}
	logger.Info("entries seeded", slog.String("channel", seed.Channel), slog.Int("count", len(created)))

	eventReqs := make([]calendar.CreateEventRequest, 0, seed.Events)
	for i := 0; i < seed.Events; i++ {
		starts := now.AddDate(0, 0, i)
		ends := starts.Add(time.Hour)
		eventReqs = append(eventReqs, calendar.CreateEventRequest{
			Calendar: seed.Calendar,
			Title:    fmt.Sprintf("Sample event %d", i+1),
			Location: "Room " + string(rune('A'+i%4)),
			StartsAt: starts,
			EndsAt:   &ends,
		})
	}
	events, err := calendar.NewService(calendar.NewRepository(dbpool), counts).Schedule(ctx, eventReqs...)
	if err != nil {
		return err
	}
	logger.Info("events seeded", slog.String("calendar", seed.Calendar), slog.Int("count", len(events)))
	return nil
}
