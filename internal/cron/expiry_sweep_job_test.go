package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/bloodbank-backend/internal/inventory"
	"github.com/angelmondragon/bloodbank-backend/internal/storage/memory"
	"github.com/angelmondragon/bloodbank-backend/internal/storage/storagetest"
	"github.com/angelmondragon/bloodbank-backend/pkg/config"
	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
	"github.com/angelmondragon/bloodbank-backend/pkg/logger"
)

var sweepNow = time.Date(2026, 4, 2, 6, 0, 0, 0, time.UTC)

func TestExpirySweepExpiresStockedUnitsPastExpiry(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	clock := func() time.Time { return sweepNow }

	stale := storagetest.Unit(enums.BloodTypeAPos, 2, sweepNow.Add(-time.Hour))
	reserved := storagetest.Unit(enums.BloodTypeONeg, 1, sweepNow.AddDate(0, 0, -3))
	reserved.Status = enums.InventoryStatusReserved
	discarded := storagetest.Unit(enums.BloodTypeBPos, 1, sweepNow.AddDate(0, 0, -1))
	discarded.Status = enums.InventoryStatusDiscarded
	fresh := storagetest.Unit(enums.BloodTypeAPos, 3, sweepNow.Add(time.Hour))
	require.NoError(t, store.Inventory().Create(ctx, stale))
	require.NoError(t, store.Inventory().Create(ctx, reserved))
	require.NoError(t, store.Inventory().Create(ctx, discarded))
	require.NoError(t, store.Inventory().Create(ctx, fresh))

	inv, err := inventory.NewService(store, config.InventoryConfig{}, clock)
	require.NoError(t, err)
	job, err := NewExpirySweepJob(ExpirySweepJobParams{
		Logger:    logger.Discard(),
		Units:     store.Inventory(),
		Inventory: inv,
		Now:       clock,
	})
	require.NoError(t, err)
	require.Equal(t, "inventory-expiry-sweep", job.Name())

	require.NoError(t, job.Run(ctx))

	for id, want := range map[uuid.UUID]enums.InventoryStatus{
		stale.ID:     enums.InventoryStatusExpired,
		reserved.ID:  enums.InventoryStatusExpired,
		discarded.ID: enums.InventoryStatusDiscarded,
		fresh.ID:     enums.InventoryStatusAvailable,
	} {
		got, err := store.Inventory().Get(ctx, id)
		require.NoError(t, err)
		require.Equal(t, want, got.Status, "unit %s", id)
	}

	// a second pass finds nothing left to expire
	require.NoError(t, job.Run(ctx))
}

type flakyInventory struct {
	inventory.Service
	fail map[uuid.UUID]error
}

func (f flakyInventory) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.InventoryStatus) (*inventory.UnitDTO, error) {
	if err, ok := f.fail[id]; ok {
		return nil, err
	}
	return f.Service.UpdateStatus(ctx, id, status)
}

func TestExpirySweepCombinesFailures(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	clock := func() time.Time { return sweepNow }

	first := storagetest.Unit(enums.BloodTypeAPos, 1, sweepNow.AddDate(0, 0, -2))
	second := storagetest.Unit(enums.BloodTypeABNeg, 1, sweepNow.AddDate(0, 0, -1))
	ok := storagetest.Unit(enums.BloodTypeOPos, 1, sweepNow.Add(-time.Minute))
	require.NoError(t, store.Inventory().Create(ctx, first))
	require.NoError(t, store.Inventory().Create(ctx, second))
	require.NoError(t, store.Inventory().Create(ctx, ok))

	inv, err := inventory.NewService(store, config.InventoryConfig{}, clock)
	require.NoError(t, err)
	job, err := NewExpirySweepJob(ExpirySweepJobParams{
		Logger: logger.Discard(),
		Units:  store.Inventory(),
		Inventory: flakyInventory{Service: inv, fail: map[uuid.UUID]error{
			first.ID:  errors.New("db down"),
			second.ID: errors.New("timeout"),
		}},
		Now: clock,
	})
	require.NoError(t, err)

	err = job.Run(ctx)
	require.Error(t, err)
	require.Contains(t, err.Error(), "db down")
	require.Contains(t, err.Error(), "timeout")

	got, err := store.Inventory().Get(ctx, ok.ID)
	require.NoError(t, err)
	require.Equal(t, enums.InventoryStatusExpired, got.Status, "healthy units are still expired")
}

func TestNewExpirySweepJobRequiresDependencies(t *testing.T) {
	_, err := NewExpirySweepJob(ExpirySweepJobParams{})
	require.Error(t, err)
	_, err = NewExpirySweepJob(ExpirySweepJobParams{Logger: logger.Discard()})
	require.Error(t, err)
}
