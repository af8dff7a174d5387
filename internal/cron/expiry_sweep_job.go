package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/bloodbank-backend/internal/inventory"
	"github.com/angelmondragon/bloodbank-backend/internal/storage"
	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bloodbank-backend/pkg/errors"
	"github.com/angelmondragon/bloodbank-backend/pkg/logger"
	"github.com/angelmondragon/bloodbank-backend/pkg/metrics"
)

const expirySweepJobName = "inventory-expiry-sweep"

// ExpirySweepJobParams configure the expiry sweep.
type ExpirySweepJobParams struct {
	Logger    *logger.Logger
	Units     storage.InventoryRepository
	Inventory inventory.Service
	Metrics   *metrics.InventoryMetrics
	Now       func() time.Time
}

// ExpirySweepJob moves stocked units past their expiry date to expired.
type ExpirySweepJob struct {
	logg      *logger.Logger
	units     storage.InventoryRepository
	inventory inventory.Service
	metrics   *metrics.InventoryMetrics
	now       func() time.Time
}

func NewExpirySweepJob(params ExpirySweepJobParams) (*ExpirySweepJob, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Units == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &ExpirySweepJob{
		logg:      params.Logger,
		units:     params.Units,
		inventory: params.Inventory,
		metrics:   params.Metrics,
		now:       now,
	}, nil
}

func (j *ExpirySweepJob) Name() string { return expirySweepJobName }

// Run expires every available or reserved unit whose expiry is before now.
// Units that moved on concurrently are skipped; other failures are combined.
func (j *ExpirySweepJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC()
	due, err := j.units.Find(ctx, storage.InventoryFilter{
		Statuses:      []enums.InventoryStatus{enums.InventoryStatusAvailable, enums.InventoryStatusReserved},
		ExpiresBefore: &cutoff,
	})
	if err != nil {
		return fmt.Errorf("find expired units: %w", err)
	}

	var errs error
	expired := 0
	for _, unit := range due {
		_, err := j.inventory.UpdateStatus(ctx, unit.ID, enums.InventoryStatusExpired)
		switch {
		case err == nil:
			expired++
		case pkgerrors.IsCode(err, pkgerrors.CodeStateConflict), pkgerrors.IsCode(err, pkgerrors.CodeNotFound):
			continue
		default:
			j.logg.Warn(j.logg.WithBloodType(j.logg.WithUnitID(ctx, unit.ID), unit.BloodType), "unit expiry failed")
			errs = multierr.Append(errs, fmt.Errorf("expire unit %s: %w", unit.ID, err))
		}
	}
	j.metrics.AddExpired(expired)

	ctx = j.logg.WithFields(ctx, map[string]any{
		"candidates": len(due),
		"expired":    expired,
	})
	j.logg.Info(ctx, "expiry sweep finished")
	return errs
}
