package transactions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/bloodbank-backend/internal/inventory"
	"github.com/angelmondragon/bloodbank-backend/internal/storage"
	"github.com/angelmondragon/bloodbank-backend/pkg/config"
	"github.com/angelmondragon/bloodbank-backend/pkg/db/models"
	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bloodbank-backend/pkg/errors"
	"github.com/angelmondragon/bloodbank-backend/pkg/pagination"
)

// Service records blood movements.
type Service interface {
	RecordDonation(ctx context.Context, input RecordDonationInput) (*DonationDTO, error)
	Record(ctx context.Context, input RecordInput) (*TransactionDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*TransactionDTO, error)
	List(ctx context.Context, params ListParams) (*pagination.Page[TransactionDTO], error)
}

type service struct {
	store         storage.Store
	shelfLifeDays int
	now           func() time.Time
}

func NewService(store storage.Store, cfg config.InventoryConfig, now func() time.Time) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("storage required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{store: store, shelfLifeDays: cfg.ShelfLifeDays, now: now}, nil
}

// RecordDonation creates the inventory unit, the donation transaction and
// stamps the donor's last donation date, all in one storage transaction.
func (s *service) RecordDonation(ctx context.Context, input RecordDonationInput) (*DonationDTO, error) {
	if input.DonorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "donorId is required")
	}
	units := input.Units
	if units == 0 {
		units = 1
	}
	if units < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "units must be positive")
	}
	donated := s.now().UTC()
	if input.DonationDate != nil {
		donated = input.DonationDate.UTC()
	}
	if donated.After(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "donation date cannot be in the future")
	}
	fee, err := feeOrZero(input.ProcessingFee)
	if err != nil {
		return nil, err
	}

	var (
		unit models.InventoryUnit
		txn  models.Transaction
	)
	err = s.store.WithTx(ctx, func(tx storage.Store) error {
		donor, err := tx.Donors().Get(ctx, input.DonorID)
		if err != nil {
			return storage.LookupError(err, "donor", input.DonorID)
		}
		if !donor.IsActive {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "donor is inactive").
				WithDetails(map[string]any{"donorId": donor.ID.String()})
		}
		if input.BloodType != nil && *input.BloodType != donor.BloodType {
			return pkgerrors.New(pkgerrors.CodeValidation, "blood type does not match donor").
				WithDetails(map[string]any{"donor": donor.BloodType, "given": *input.BloodType})
		}

		unit = models.InventoryUnit{
			BloodType:       donor.BloodType,
			Units:           units,
			DonationDate:    donated,
			ExpiryDate:      inventory.ShelfLife(donated, s.shelfLifeDays),
			Status:          enums.InventoryStatusAvailable,
			DonorID:         &donor.ID,
			BagNumber:       input.BagNumber,
			StorageLocation: input.StorageLocation,
		}
		if err := tx.Inventory().Create(ctx, &unit); err != nil {
			return storage.WriteError(err, "create donated unit", "bag number already registered")
		}

		txn = models.Transaction{
			Type:            enums.TransactionTypeDonation,
			BloodType:       donor.BloodType,
			Units:           units,
			DonorID:         &donor.ID,
			InventoryUnitID: &unit.ID,
			OccurredAt:      donated,
			ProcessingFee:   fee,
			Notes:           input.Notes,
		}
		if err := tx.Transactions().Create(ctx, &txn); err != nil {
			return storage.WriteError(err, "create donation transaction", "transaction already exists")
		}

		if donor.LastDonationDate == nil || donated.After(*donor.LastDonationDate) {
			donor.LastDonationDate = &donated
			if err := tx.Donors().Update(ctx, donor); err != nil {
				return storage.WriteError(err, "update donor", "donor conflict")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &DonationDTO{Transaction: FromModel(txn), Unit: inventory.FromModel(unit)}, nil
}

// Record stores a transfusion or transfer. Referenced rows must exist.
func (s *service) Record(ctx context.Context, input RecordInput) (*TransactionDTO, error) {
	switch {
	case !input.Type.IsValid():
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid transaction type")
	case input.Type == enums.TransactionTypeDonation:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "donations are recorded through the donations endpoint")
	case !input.BloodType.IsValid():
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid blood type")
	case input.Units <= 0:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "units must be positive")
	case input.Type == enums.TransactionTypeTransfusion && input.RecipientID == nil:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transfusions require a recipient")
	case input.Type != enums.TransactionTypeTransfusion && input.HospitalID == nil:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transfers require a hospital")
	}
	fee, err := feeOrZero(input.ProcessingFee)
	if err != nil {
		return nil, err
	}
	occurred := s.now().UTC()
	if input.OccurredAt != nil {
		occurred = input.OccurredAt.UTC()
	}

	txn := models.Transaction{
		Type:            input.Type,
		BloodType:       input.BloodType,
		Units:           input.Units,
		DonorID:         input.DonorID,
		RecipientID:     input.RecipientID,
		HospitalID:      input.HospitalID,
		InventoryUnitID: input.InventoryUnitID,
		RequestID:       input.RequestID,
		OccurredAt:      occurred,
		ProcessingFee:   fee,
		Notes:           input.Notes,
	}

	err = s.store.WithTx(ctx, func(tx storage.Store) error {
		if err := checkReferences(ctx, tx, &txn); err != nil {
			return err
		}
		if err := tx.Transactions().Create(ctx, &txn); err != nil {
			return storage.WriteError(err, "create transaction", "transaction already exists")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := FromModel(txn)
	return &dto, nil
}

func checkReferences(ctx context.Context, tx storage.Store, txn *models.Transaction) error {
	if txn.DonorID != nil {
		if _, err := tx.Donors().Get(ctx, *txn.DonorID); err != nil {
			return storage.LookupError(err, "donor", *txn.DonorID)
		}
	}
	if txn.RecipientID != nil {
		recipient, err := tx.Recipients().Get(ctx, *txn.RecipientID)
		if err != nil {
			return storage.LookupError(err, "recipient", *txn.RecipientID)
		}
		if txn.Type == enums.TransactionTypeTransfusion && recipient.BloodType != txn.BloodType {
			return pkgerrors.New(pkgerrors.CodeValidation, "blood type does not match recipient")
		}
	}
	if txn.HospitalID != nil {
		if _, err := tx.Hospitals().Get(ctx, *txn.HospitalID); err != nil {
			return storage.LookupError(err, "hospital", *txn.HospitalID)
		}
	}
	if txn.InventoryUnitID != nil {
		unit, err := tx.Inventory().Get(ctx, *txn.InventoryUnitID)
		if err != nil {
			return storage.LookupError(err, "inventory unit", *txn.InventoryUnitID)
		}
		if unit.BloodType != txn.BloodType {
			return pkgerrors.New(pkgerrors.CodeValidation, "blood type does not match inventory unit")
		}
	}
	if txn.RequestID != nil {
		if _, err := tx.Requests().Get(ctx, *txn.RequestID); err != nil {
			return storage.LookupError(err, "blood request", *txn.RequestID)
		}
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*TransactionDTO, error) {
	txn, err := s.store.Transactions().Get(ctx, id)
	if err != nil {
		return nil, storage.LookupError(err, "transaction", id)
	}
	dto := FromModel(*txn)
	return &dto, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*pagination.Page[TransactionDTO], error) {
	if params.Type != nil && !params.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid transaction type")
	}
	cursor, err := pagination.ParseCursor(params.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.store.Transactions().List(ctx, storage.TransactionFilter{
		Type:       params.Type,
		BloodType:  params.BloodType,
		DonorID:    params.DonorID,
		HospitalID: params.HospitalID,
	}, storage.PageQuery{
		Limit: pagination.LimitWithBuffer(params.Pagination.Limit),
		After: cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transactions")
	}

	page := pagination.Map(pagination.Trim(rows, params.Pagination.Limit, func(t models.Transaction) pagination.Cursor {
		return pagination.Cursor{CreatedAt: t.CreatedAt, ID: t.ID}
	}), FromModel)
	return &page, nil
}

func feeOrZero(fee *decimal.Decimal) (decimal.Decimal, error) {
	if fee == nil {
		return decimal.Zero, nil
	}
	if fee.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "processing fee cannot be negative")
	}
	return fee.Round(2), nil
}
