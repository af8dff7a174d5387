// Package storagetest holds the behaviour every storage.Store adapter must share.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/bloodbank-backend/internal/storage"
	"github.com/angelmondragon/bloodbank-backend/pkg/db/models"
	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
	"github.com/angelmondragon/bloodbank-backend/pkg/pagination"
)

// Factory returns a fresh, empty store for one subtest.
type Factory func(t *testing.T) storage.Store

// Run exercises the adapter returned by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("DonorCRUDAndConflict", func(t *testing.T) { donorCRUD(t, newStore(t)) })
	t.Run("ListPaginatesNewestFirst", func(t *testing.T) { paginates(t, newStore(t)) })
	t.Run("InventoryFilters", func(t *testing.T) { inventoryFilters(t, newStore(t)) })
	t.Run("AlertResolvedFilter", func(t *testing.T) { alertFilters(t, newStore(t)) })
	t.Run("WithTxRollsBack", func(t *testing.T) { txRollback(t, newStore(t)) })
	t.Run("TransactionFeeRoundTrip", func(t *testing.T) { transactionFee(t, newStore(t)) })
	t.Run("RequestUpdateAndCount", func(t *testing.T) { requests(t, newStore(t)) })
}

// Donor builds a valid donor with a unique email.
func Donor(bt enums.BloodType) *models.Donor {
	return &models.Donor{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		BloodType:   bt,
		Email:       uuid.NewString() + "@example.org",
		Phone:       "555-0100",
		DateOfBirth: time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
		Gender:      enums.GenderFemale,
		IsActive:    true,
	}
}

// Unit builds an available unit expiring at expiry.
func Unit(bt enums.BloodType, units int, expiry time.Time) *models.InventoryUnit {
	return &models.InventoryUnit{
		BloodType:    bt,
		Units:        units,
		DonationDate: expiry.AddDate(0, 0, -42),
		ExpiryDate:   expiry,
		Status:       enums.InventoryStatusAvailable,
	}
}

func donorCRUD(t *testing.T, store storage.Store) {
	ctx := context.Background()
	donor := Donor(enums.BloodTypeONeg)
	require.NoError(t, store.Donors().Create(ctx, donor))
	require.NotEqual(t, uuid.Nil, donor.ID)

	got, err := store.Donors().Get(ctx, donor.ID)
	require.NoError(t, err)
	require.Equal(t, donor.Email, got.Email)
	require.Equal(t, enums.BloodTypeONeg, got.BloodType)

	got.Phone = "555-0199"
	got.IsActive = false
	require.NoError(t, store.Donors().Update(ctx, got))
	again, err := store.Donors().Get(ctx, donor.ID)
	require.NoError(t, err)
	require.Equal(t, "555-0199", again.Phone)
	require.False(t, again.IsActive, "zero values must be written on update")

	dup := Donor(enums.BloodTypeAPos)
	dup.Email = donor.Email
	err = store.Donors().Create(ctx, dup)
	require.ErrorIs(t, err, storage.ErrConflict)

	_, err = store.Donors().Get(ctx, uuid.New())
	require.ErrorIs(t, err, storage.ErrNotFound)

	missing := Donor(enums.BloodTypeAPos)
	missing.ID = uuid.New()
	require.ErrorIs(t, store.Donors().Update(ctx, missing), storage.ErrNotFound)

	n, err := store.Donors().Count(ctx, storage.DonorFilter{Active: storage.Ptr(false)})
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	rows, err := store.Donors().List(ctx, storage.DonorFilter{Search: "LOVE"}, storage.PageQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func paginates(t *testing.T, store storage.Store) {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ids := make([]uuid.UUID, 5)
	for i := range ids {
		h := &models.Hospital{
			Name:      "Hospital " + uuid.NewString(),
			Address:   "1 Main St",
			City:      "Springfield",
			Phone:     "555",
			Email:     "h@example.org",
			IsActive:  true,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.Hospitals().Create(ctx, h))
		ids[i] = h.ID
	}

	first, err := store.Hospitals().List(ctx, storage.HospitalFilter{}, storage.PageQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.Equal(t, ids[4], first[0].ID)
	require.Equal(t, ids[3], first[1].ID)

	cursor := pagination.Cursor{CreatedAt: first[1].CreatedAt, ID: first[1].ID}
	second, err := store.Hospitals().List(ctx, storage.HospitalFilter{}, storage.PageQuery{Limit: 10, After: &cursor})
	require.NoError(t, err)
	require.Len(t, second, 3)
	require.Equal(t, ids[2], second[0].ID)
	require.Equal(t, ids[0], second[2].ID)

	byCity, err := store.Hospitals().Count(ctx, storage.HospitalFilter{City: "springfield"})
	require.NoError(t, err)
	require.EqualValues(t, 5, byCity)
}

func inventoryFilters(t *testing.T, store storage.Store) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	late := Unit(enums.BloodTypeAPos, 4, now.AddDate(0, 0, 20))
	soon := Unit(enums.BloodTypeAPos, 3, now.AddDate(0, 0, 2))
	past := Unit(enums.BloodTypeBNeg, 2, now.AddDate(0, 0, -1))
	reserved := Unit(enums.BloodTypeONeg, 9, now.AddDate(0, 0, 5))
	reserved.Status = enums.InventoryStatusReserved
	for _, u := range []*models.InventoryUnit{late, soon, past, reserved} {
		require.NoError(t, store.Inventory().Create(ctx, u))
	}

	available, err := store.Inventory().Find(ctx, storage.InventoryFilter{
		Statuses: []enums.InventoryStatus{enums.InventoryStatusAvailable},
	})
	require.NoError(t, err)
	require.Len(t, available, 3)
	require.Equal(t, past.ID, available[0].ID, "find orders by expiry ascending")
	require.Equal(t, late.ID, available[2].ID)

	overdue, err := store.Inventory().Find(ctx, storage.InventoryFilter{
		Statuses:      []enums.InventoryStatus{enums.InventoryStatusAvailable, enums.InventoryStatusReserved},
		ExpiresBefore: &now,
	})
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	require.Equal(t, past.ID, overdue[0].ID)

	aPos, err := store.Inventory().Count(ctx, storage.InventoryFilter{BloodType: storage.Ptr(enums.BloodTypeAPos)})
	require.NoError(t, err)
	require.EqualValues(t, 2, aPos)

	soon.Status = enums.InventoryStatusDiscarded
	require.NoError(t, store.Inventory().Update(ctx, soon))
	got, err := store.Inventory().Get(ctx, soon.ID)
	require.NoError(t, err)
	require.Equal(t, enums.InventoryStatusDiscarded, got.Status)
	require.True(t, got.ExpiryDate.Equal(soon.ExpiryDate))
}

func alertFilters(t *testing.T, store storage.Store) {
	ctx := context.Background()
	bt := enums.BloodTypeABNeg
	open := &models.Alert{Type: enums.AlertTypeLowStock, Severity: enums.AlertSeverityCritical, BloodType: &bt, Title: "low", Message: "low"}
	closed := &models.Alert{Type: enums.AlertTypeLowStock, Severity: enums.AlertSeverityWarning, BloodType: &bt, Title: "old", Message: "old"}
	require.NoError(t, store.Alerts().Create(ctx, open))
	require.NoError(t, store.Alerts().Create(ctx, closed))

	resolvedAt := time.Now().UTC()
	closed.ResolvedAt = &resolvedAt
	require.NoError(t, store.Alerts().Update(ctx, closed))

	openCount, err := store.Alerts().Count(ctx, storage.AlertFilter{
		Type:      storage.Ptr(enums.AlertTypeLowStock),
		BloodType: &bt,
		Resolved:  storage.Ptr(false),
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, openCount)

	resolved, err := store.Alerts().List(ctx, storage.AlertFilter{Resolved: storage.Ptr(true)}, storage.PageQuery{})
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	require.Equal(t, closed.ID, resolved[0].ID)
}

func txRollback(t *testing.T, store storage.Store) {
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.WithTx(ctx, func(tx storage.Store) error {
		if err := tx.Donors().Create(ctx, Donor(enums.BloodTypeBPos)); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, err := store.Donors().Count(ctx, storage.DonorFilter{})
	require.NoError(t, err)
	require.Zero(t, n, "rolled back writes must not persist")

	require.NoError(t, store.WithTx(ctx, func(tx storage.Store) error {
		return tx.Donors().Create(ctx, Donor(enums.BloodTypeBPos))
	}))
	n, err = store.Donors().Count(ctx, storage.DonorFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	require.NoError(t, store.Ping(ctx))
}

func transactionFee(t *testing.T, store storage.Store) {
	ctx := context.Background()
	txn := &models.Transaction{
		Type:          enums.TransactionTypeTransfusion,
		BloodType:     enums.BloodTypeOPos,
		Units:         2,
		OccurredAt:    time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		ProcessingFee: decimal.RequireFromString("12.50"),
	}
	require.NoError(t, store.Transactions().Create(ctx, txn))

	got, err := store.Transactions().Get(ctx, txn.ID)
	require.NoError(t, err)
	require.True(t, got.ProcessingFee.Equal(decimal.RequireFromString("12.5")), "fee %s", got.ProcessingFee)

	rows, err := store.Transactions().List(ctx, storage.TransactionFilter{Type: storage.Ptr(enums.TransactionTypeDonation)}, storage.PageQuery{})
	require.NoError(t, err)
	require.Empty(t, rows)
}

func requests(t *testing.T, store storage.Store) {
	ctx := context.Background()
	h := &models.Hospital{Name: "General", Address: "1 Main", City: "Metro", Phone: "1", Email: "g@example.org", IsActive: true}
	require.NoError(t, store.Hospitals().Create(ctx, h))

	req := &models.BloodRequest{
		HospitalID: h.ID,
		BloodType:  enums.BloodTypeANeg,
		Units:      3,
		Urgency:    enums.RequestUrgencyHigh,
		Status:     enums.RequestStatusPending,
	}
	require.NoError(t, store.Requests().Create(ctx, req))

	req.Status = enums.RequestStatusApproved
	require.NoError(t, store.Requests().Update(ctx, req))

	pending, err := store.Requests().Count(ctx, storage.RequestFilter{Status: storage.Ptr(enums.RequestStatusPending)})
	require.NoError(t, err)
	require.Zero(t, pending)

	byHospital, err := store.Requests().List(ctx, storage.RequestFilter{HospitalID: &h.ID}, storage.PageQuery{})
	require.NoError(t, err)
	require.Len(t, byHospital, 1)
	require.Equal(t, enums.RequestStatusApproved, byHospital[0].Status)
}
