package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/bloodbank-backend/internal/storage"
	"github.com/angelmondragon/bloodbank-backend/internal/storage/memory"
	"github.com/angelmondragon/bloodbank-backend/pkg/config"
	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bloodbank-backend/pkg/errors"
	"github.com/angelmondragon/bloodbank-backend/pkg/pagination"
)

func newTestService(t *testing.T) (Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	svc, err := NewService(store, config.InventoryConfig{
		CriticalThreshold: 10,
		ExpiryHorizonDays: 7,
		ShelfLifeDays:     42,
		MaxExpiringWindow: 30,
	}, func() time.Time { return testNow })
	require.NoError(t, err)
	return svc, store
}

func addUnit(t *testing.T, svc Service, bt enums.BloodType, qty int, expiresInDays int) *UnitDTO {
	t.Helper()
	expiry := testNow.AddDate(0, 0, expiresInDays)
	dto, err := svc.AddUnit(context.Background(), AddUnitInput{
		BloodType:    bt,
		Units:        qty,
		DonationDate: expiry.AddDate(0, 0, -42),
		ExpiryDate:   &expiry,
	})
	require.NoError(t, err)
	return dto
}

func TestNewServiceRequiresStore(t *testing.T) {
	_, err := NewService(nil, config.InventoryConfig{}, nil)
	require.Error(t, err)
}

func TestAddUnitDefaultsExpiryAndStatus(t *testing.T) {
	svc, _ := newTestService(t)
	donated := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	bag := "  BAG-001 "

	dto, err := svc.AddUnit(context.Background(), AddUnitInput{
		BloodType:    enums.BloodTypeOPos,
		Units:        2,
		DonationDate: donated,
		BagNumber:    &bag,
	})
	require.NoError(t, err)
	require.Equal(t, enums.InventoryStatusAvailable, dto.Status)
	require.True(t, dto.ExpiryDate.Equal(donated.AddDate(0, 0, 42)))
	require.Equal(t, "BAG-001", *dto.BagNumber)

	_, err = svc.AddUnit(context.Background(), AddUnitInput{
		BloodType:    enums.BloodTypeOPos,
		Units:        1,
		DonationDate: donated,
		BagNumber:    &bag,
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestAddUnitValidation(t *testing.T) {
	svc, _ := newTestService(t)
	donated := testNow
	before := donated.Add(-time.Hour)
	missingDonor := uuid.New()

	cases := []struct {
		name  string
		input AddUnitInput
		code  pkgerrors.Code
	}{
		{"blood type", AddUnitInput{BloodType: "C+", Units: 1, DonationDate: donated}, pkgerrors.CodeValidation},
		{"units", AddUnitInput{BloodType: enums.BloodTypeAPos, Units: 0, DonationDate: donated}, pkgerrors.CodeValidation},
		{"donation date", AddUnitInput{BloodType: enums.BloodTypeAPos, Units: 1}, pkgerrors.CodeValidation},
		{"expiry order", AddUnitInput{BloodType: enums.BloodTypeAPos, Units: 1, DonationDate: donated, ExpiryDate: &before}, pkgerrors.CodeValidation},
		{"donor", AddUnitInput{BloodType: enums.BloodTypeAPos, Units: 1, DonationDate: donated, DonorID: &missingDonor}, pkgerrors.CodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddUnit(context.Background(), tc.input)
			require.Error(t, err)
			require.True(t, pkgerrors.IsCode(err, tc.code), "got %v", err)
		})
	}
}

func TestUpdateStatusFollowsLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	dto := addUnit(t, svc, enums.BloodTypeANeg, 4, 10)

	reserved, err := svc.UpdateStatus(ctx, dto.ID, enums.InventoryStatusReserved)
	require.NoError(t, err)
	require.Equal(t, enums.InventoryStatusReserved, reserved.Status)

	_, err = svc.UpdateStatus(ctx, dto.ID, enums.InventoryStatusReserved)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict), "same status is refused")

	_, err = svc.UpdateStatus(ctx, dto.ID, enums.InventoryStatusAvailable)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict), "reserved cannot go back")

	_, err = svc.UpdateStatus(ctx, dto.ID, enums.InventoryStatusDiscarded)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, dto.ID, enums.InventoryStatusExpired)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	_, err = svc.UpdateStatus(ctx, uuid.New(), enums.InventoryStatusExpired)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.UpdateStatus(ctx, dto.ID, "lost")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestListUnitsPaginatesAndFilters(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		addUnit(t, svc, enums.BloodTypeBPos, i+1, 20)
	}
	other := addUnit(t, svc, enums.BloodTypeONeg, 3, 20)
	unitModel, err := store.Inventory().Get(ctx, other.ID)
	require.NoError(t, err)
	unitModel.Status = enums.InventoryStatusReserved
	require.NoError(t, store.Inventory().Update(ctx, unitModel))

	seen := map[uuid.UUID]bool{}
	cursor := ""
	pages := 0
	for {
		page, err := svc.ListUnits(ctx, ListParams{
			BloodType:  storage.Ptr(enums.BloodTypeBPos),
			Pagination: pagination.Params{Limit: 2, Cursor: cursor},
		})
		require.NoError(t, err)
		pages++
		for _, item := range page.Items {
			require.False(t, seen[item.ID], "duplicate across pages")
			seen[item.ID] = true
		}
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}
	require.Len(t, seen, 5)
	require.Equal(t, 3, pages)

	reserved, err := svc.ListUnits(ctx, ListParams{Status: storage.Ptr(enums.InventoryStatusReserved)})
	require.NoError(t, err)
	require.Len(t, reserved.Items, 1)
	require.Equal(t, other.ID, reserved.Items[0].ID)

	_, err = svc.ListUnits(ctx, ListParams{Pagination: pagination.Params{Cursor: "%%%"}})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestSummaryUsesStoreAndClock(t *testing.T) {
	svc, _ := newTestService(t)
	addUnit(t, svc, enums.BloodTypeAPos, 5, 3)
	addUnit(t, svc, enums.BloodTypeAPos, 10, 20)

	out, err := svc.Summary(context.Background())
	require.NoError(t, err)
	got := byType(out)[enums.BloodTypeAPos]
	require.Equal(t, 15, got.Units)
	require.Equal(t, 5, got.ExpiringUnits)
	require.Equal(t, 3, got.ExpiringDays)
	require.InDelta(t, 100, got.Percentage, 1e-9)
}

func TestExpiringSoonWindow(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	today := addUnit(t, svc, enums.BloodTypeAPos, 1, 0)
	week := addUnit(t, svc, enums.BloodTypeBPos, 2, 7)
	addUnit(t, svc, enums.BloodTypeOPos, 3, 8)
	addUnit(t, svc, enums.BloodTypeONeg, 4, -1)

	out, err := svc.ExpiringSoon(ctx, HorizonWindow)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, today.ID, out[0].ID)
	require.Equal(t, 0, out[0].DaysUntilExpiry)
	require.Equal(t, week.ID, out[1].ID)
	require.Equal(t, 7, out[1].DaysUntilExpiry)

	todayOnly, err := svc.ExpiringSoon(ctx, 0)
	require.NoError(t, err)
	require.Len(t, todayOnly, 1)
	require.Equal(t, today.ID, todayOnly[0].ID)

	wider, err := svc.ExpiringSoon(ctx, 8)
	require.NoError(t, err)
	require.Len(t, wider, 3)

	_, err = svc.ExpiringSoon(ctx, 31)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
