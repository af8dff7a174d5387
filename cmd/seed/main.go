package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/bloodbank-backend/internal/bootstrap"
	"github.com/angelmondragon/bloodbank-backend/internal/fixtures"
	"github.com/angelmondragon/bloodbank-backend/internal/storage"
	"github.com/angelmondragon/bloodbank-backend/pkg/config"
	"github.com/angelmondragon/bloodbank-backend/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	date := flag.String("date", "", "reference date for the demo data (YYYY-MM-DD, default today)")
	flag.Parse()

	now := time.Now().UTC()
	if *date != "" {
		parsed, err := time.Parse(time.DateOnly, *date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -date: %v\n", err)
			os.Exit(1)
		}
		now = parsed.Add(12 * time.Hour)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	if cfg.FeatureFlags.UseMemoryStore {
		fmt.Fprintln(os.Stderr, "seeding the in-memory store has no effect; use BLOODBANK_SEED_DEMO_DATA on the api instead")
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithField(context.Background(), "env", cfg.App.Env)

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap storage", err)
		os.Exit(1)
	}
	defer func() { _ = closeStore() }()

	sum, err := fixtures.LoadDemo(ctx, store, now)
	if errors.Is(err, storage.ErrConflict) {
		logg.Warn(ctx, "demo data already present; nothing to do")
		return
	}
	if err != nil {
		logg.Error(ctx, "failed to seed demo data", err)
		_ = closeStore()
		os.Exit(1)
	}

	fmt.Printf("seeded %d hospitals, %d donors, %d recipients, %d units, %d requests, %d transactions, %d alerts\n",
		sum.Hospitals, sum.Donors, sum.Recipients, sum.Units, sum.Requests, sum.Transactions, sum.Alerts)
}
