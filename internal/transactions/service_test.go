package transactions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/bloodbank-backend/internal/storage"
	"github.com/angelmondragon/bloodbank-backend/internal/storage/memory"
	"github.com/angelmondragon/bloodbank-backend/internal/storage/storagetest"
	"github.com/angelmondragon/bloodbank-backend/pkg/config"
	"github.com/angelmondragon/bloodbank-backend/pkg/db/models"
	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bloodbank-backend/pkg/errors"
)

var now = time.Date(2026, 7, 15, 10, 0, 0, 0, time.UTC)

func setup(t *testing.T) (Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	svc, err := NewService(store, config.InventoryConfig{ShelfLifeDays: 35}, func() time.Time { return now })
	require.NoError(t, err)
	return svc, store
}

func seedDonor(t *testing.T, store storage.Store, bt enums.BloodType, active bool) *models.Donor {
	t.Helper()
	donor := storagetest.Donor(bt)
	donor.IsActive = active
	require.NoError(t, store.Donors().Create(context.Background(), donor))
	return donor
}

func TestRecordDonationCreatesUnitTransactionAndStampsDonor(t *testing.T) {
	svc, store := setup(t)
	ctx := context.Background()
	donor := seedDonor(t, store, enums.BloodTypeONeg, true)
	collected := now.Add(-2 * time.Hour)
	fee := decimal.RequireFromString("15.257")

	out, err := svc.RecordDonation(ctx, RecordDonationInput{
		DonorID:       donor.ID,
		DonationDate:  &collected,
		ProcessingFee: &fee,
	})
	require.NoError(t, err)

	require.Equal(t, enums.BloodTypeONeg, out.Unit.BloodType)
	require.Equal(t, 1, out.Unit.Units)
	require.Equal(t, enums.InventoryStatusAvailable, out.Unit.Status)
	require.True(t, out.Unit.ExpiryDate.Equal(collected.AddDate(0, 0, 35)))
	require.Equal(t, donor.ID, *out.Unit.DonorID)

	require.Equal(t, enums.TransactionTypeDonation, out.Transaction.Type)
	require.Equal(t, out.Unit.ID, *out.Transaction.InventoryUnitID)
	require.Equal(t, "15.26", out.Transaction.ProcessingFee.StringFixed(2))

	stored, err := store.Donors().Get(ctx, donor.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastDonationDate)
	require.True(t, stored.LastDonationDate.Equal(collected))
}

func TestRecordDonationRejectsInvalidDonors(t *testing.T) {
	svc, store := setup(t)
	ctx := context.Background()
	inactive := seedDonor(t, store, enums.BloodTypeAPos, false)
	active := seedDonor(t, store, enums.BloodTypeAPos, true)
	future := now.Add(time.Hour)
	wrong := enums.BloodTypeBPos

	_, err := svc.RecordDonation(ctx, RecordDonationInput{DonorID: uuid.New()})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.RecordDonation(ctx, RecordDonationInput{DonorID: inactive.ID})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	_, err = svc.RecordDonation(ctx, RecordDonationInput{DonorID: active.ID, BloodType: &wrong})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.RecordDonation(ctx, RecordDonationInput{DonorID: active.ID, DonationDate: &future})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	units, err := store.Inventory().Count(ctx, storage.InventoryFilter{})
	require.NoError(t, err)
	require.Zero(t, units, "failed donations leave no inventory behind")
}

func TestRecordDonationRollsBackOnBagConflict(t *testing.T) {
	svc, store := setup(t)
	ctx := context.Background()
	donor := seedDonor(t, store, enums.BloodTypeBNeg, true)
	bag := "BAG-9"

	_, err := svc.RecordDonation(ctx, RecordDonationInput{DonorID: donor.ID, BagNumber: &bag})
	require.NoError(t, err)
	_, err = svc.RecordDonation(ctx, RecordDonationInput{DonorID: donor.ID, BagNumber: &bag})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	n, err := store.Transactions().Count(ctx, storage.TransactionFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestRecordTransfusionValidatesReferences(t *testing.T) {
	svc, store := setup(t)
	ctx := context.Background()
	recipient := &models.Recipient{
		FirstName:    "Alan",
		LastName:     "Turing",
		BloodType:    enums.BloodTypeABPos,
		DateOfBirth:  time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		ContactPhone: "555",
	}
	require.NoError(t, store.Recipients().Create(ctx, recipient))

	dto, err := svc.Record(ctx, RecordInput{
		Type:        enums.TransactionTypeTransfusion,
		BloodType:   enums.BloodTypeABPos,
		Units:       2,
		RecipientID: &recipient.ID,
	})
	require.NoError(t, err)
	require.True(t, dto.OccurredAt.Equal(now))
	require.True(t, dto.ProcessingFee.IsZero())

	_, err = svc.Record(ctx, RecordInput{Type: enums.TransactionTypeTransfusion, BloodType: enums.BloodTypeOPos, Units: 1, RecipientID: &recipient.ID})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "recipient type mismatch")

	missing := uuid.New()
	_, err = svc.Record(ctx, RecordInput{Type: enums.TransactionTypeTransferOut, BloodType: enums.BloodTypeOPos, Units: 1, HospitalID: &missing})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.Record(ctx, RecordInput{Type: enums.TransactionTypeDonation, BloodType: enums.BloodTypeOPos, Units: 1})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	negative := decimal.NewFromInt(-1)
	_, err = svc.Record(ctx, RecordInput{Type: enums.TransactionTypeTransfusion, BloodType: enums.BloodTypeABPos, Units: 1, RecipientID: &recipient.ID, ProcessingFee: &negative})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestListAndGet(t *testing.T) {
	svc, store := setup(t)
	ctx := context.Background()
	donor := seedDonor(t, store, enums.BloodTypeOPos, true)
	hospital := &models.Hospital{Name: "General", Address: "1", City: "Metro", Phone: "1", Email: "g@example.org", IsActive: true}
	require.NoError(t, store.Hospitals().Create(ctx, hospital))

	donation, err := svc.RecordDonation(ctx, RecordDonationInput{DonorID: donor.ID, Units: 2})
	require.NoError(t, err)
	_, err = svc.Record(ctx, RecordInput{Type: enums.TransactionTypeTransferIn, BloodType: enums.BloodTypeOPos, Units: 3, HospitalID: &hospital.ID})
	require.NoError(t, err)

	got, err := svc.Get(ctx, donation.Transaction.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.Units)

	donations, err := svc.List(ctx, ListParams{Type: storage.Ptr(enums.TransactionTypeDonation)})
	require.NoError(t, err)
	require.Len(t, donations.Items, 1)

	byHospital, err := svc.List(ctx, ListParams{HospitalID: &hospital.ID})
	require.NoError(t, err)
	require.Len(t, byHospital.Items, 1)
	require.Equal(t, enums.TransactionTypeTransferIn, byHospital.Items[0].Type)
}
