// Package bootstrap opens the backing resources shared by the api, cron-worker
// and seed binaries.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/angelmondragon/bloodbank-backend/internal/storage"
	"github.com/angelmondragon/bloodbank-backend/internal/storage/memory"
	"github.com/angelmondragon/bloodbank-backend/internal/storage/relational"
	"github.com/angelmondragon/bloodbank-backend/pkg/config"
	"github.com/angelmondragon/bloodbank-backend/pkg/db"
	"github.com/angelmondragon/bloodbank-backend/pkg/logger"
	"github.com/angelmondragon/bloodbank-backend/pkg/migrate"
	"github.com/angelmondragon/bloodbank-backend/pkg/redis"
)

// OpenStore returns the in-memory store when the feature flag asks for it and
// the relational store otherwise. The returned close func is never nil.
func OpenStore(ctx context.Context, cfg *config.Config, logg *logger.Logger) (storage.Store, func() error, error) {
	if cfg.FeatureFlags.UseMemoryStore {
		logg.Warn(ctx, "using in-memory store; data is lost on restart")
		return memory.New(), func() error { return nil }, nil
	}

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return nil, nil, fmt.Errorf("bootstrap database: %w", err)
	}
	if err := migrate.MaybeRunDev(ctx, cfg, logg, client); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("dev migrations: %w", err)
	}
	return relational.New(client), client.Close, nil
}

// OpenRedis returns nil without error when redis is not configured.
func OpenRedis(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*redis.Client, error) {
	if !cfg.Redis.Enabled() {
		logg.Info(ctx, "redis not configured; idempotency replay and the distributed cron lock are off")
		return nil, nil
	}
	client, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap redis: %w", err)
	}
	return client, nil
}
