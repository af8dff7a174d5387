package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/bloodbank-backend/api"
	"github.com/angelmondragon/bloodbank-backend/api/controllers"
	"github.com/angelmondragon/bloodbank-backend/api/routes"
	"github.com/angelmondragon/bloodbank-backend/internal/alerts"
	"github.com/angelmondragon/bloodbank-backend/internal/bootstrap"
	"github.com/angelmondragon/bloodbank-backend/internal/dashboard"
	"github.com/angelmondragon/bloodbank-backend/internal/donors"
	"github.com/angelmondragon/bloodbank-backend/internal/fixtures"
	"github.com/angelmondragon/bloodbank-backend/internal/hospitals"
	"github.com/angelmondragon/bloodbank-backend/internal/inventory"
	"github.com/angelmondragon/bloodbank-backend/internal/recipients"
	"github.com/angelmondragon/bloodbank-backend/internal/requests"
	"github.com/angelmondragon/bloodbank-backend/internal/storage"
	"github.com/angelmondragon/bloodbank-backend/internal/transactions"
	"github.com/angelmondragon/bloodbank-backend/pkg/config"
	"github.com/angelmondragon/bloodbank-backend/pkg/instance"
	"github.com/angelmondragon/bloodbank-backend/pkg/logger"
	"github.com/angelmondragon/bloodbank-backend/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logg.Error(context.Background(), "error closing storage", err)
		}
	}()

	redisClient, err := bootstrap.OpenRedis(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}

	if cfg.FeatureFlags.SeedDemoData {
		seedDemo(ctx, logg, store)
	}

	services, err := buildServices(cfg, store)
	if err != nil {
		logg.Error(ctx, "failed to create services", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	params := routes.RouterParams{
		Config:   cfg,
		Logger:   logg,
		Services: services,
		Checks:   map[string]controllers.Pinger{"storage": store},
		Gatherer: reg,
		Metrics:  metrics.NewHTTPMetrics(reg),
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		params.Checks["redis"] = redisClient
		params.Idempotency = redisClient
	}

	server := api.NewServer(cfg, routes.NewRouter(params))

	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     server.Addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	if err := api.Run(ctx, server, cfg.App.ShutdownTimeout, logg); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}

func buildServices(cfg *config.Config, store storage.Store) (routes.Services, error) {
	now := time.Now

	donorSvc, err := donors.NewService(store.Donors(), now)
	if err != nil {
		return routes.Services{}, err
	}
	recipientSvc, err := recipients.NewService(store, now)
	if err != nil {
		return routes.Services{}, err
	}
	hospitalSvc, err := hospitals.NewService(store.Hospitals())
	if err != nil {
		return routes.Services{}, err
	}
	inventorySvc, err := inventory.NewService(store, cfg.Inventory, now)
	if err != nil {
		return routes.Services{}, err
	}
	requestSvc, err := requests.NewService(store)
	if err != nil {
		return routes.Services{}, err
	}
	transactionSvc, err := transactions.NewService(store, cfg.Inventory, now)
	if err != nil {
		return routes.Services{}, err
	}
	alertSvc, err := alerts.NewService(store, now)
	if err != nil {
		return routes.Services{}, err
	}
	dashboardSvc, err := dashboard.NewService(store, inventorySvc, now)
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Donors:       donorSvc,
		Recipients:   recipientSvc,
		Hospitals:    hospitalSvc,
		Inventory:    inventorySvc,
		Requests:     requestSvc,
		Transactions: transactionSvc,
		Alerts:       alertSvc,
		Dashboard:    dashboardSvc,
	}, nil
}

// seedDemo is best effort: a store that already holds the demo set reports a
// conflict, which only warrants a warning.
func seedDemo(ctx context.Context, logg *logger.Logger, store storage.Store) {
	sum, err := fixtures.LoadDemo(ctx, store, time.Now())
	switch {
	case errors.Is(err, storage.ErrConflict):
		logg.Warn(ctx, "demo data already present; skipping seed")
	case err != nil:
		logg.Error(ctx, "failed to seed demo data", err)
	default:
		logg.Info(logg.WithFields(ctx, map[string]any{
			"hospitals": sum.Hospitals,
			"donors":    sum.Donors,
			"units":     sum.Units,
		}), "demo data seeded")
	}
}
