package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/bloodbank-backend/internal/storage"
	"github.com/angelmondragon/bloodbank-backend/pkg/config"
	"github.com/angelmondragon/bloodbank-backend/pkg/db/models"
	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bloodbank-backend/pkg/errors"
	"github.com/angelmondragon/bloodbank-backend/pkg/pagination"
)

const defaultShelfLifeDays = 42

// HorizonWindow asks ExpiringSoon for the configured summary horizon.
const HorizonWindow = -1

// Service exposes inventory operations.
type Service interface {
	AddUnit(ctx context.Context, input AddUnitInput) (*UnitDTO, error)
	GetUnit(ctx context.Context, id uuid.UUID) (*UnitDTO, error)
	ListUnits(ctx context.Context, params ListParams) (*pagination.Page[UnitDTO], error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.InventoryStatus) (*UnitDTO, error)
	Summary(ctx context.Context) ([]BloodTypeSummary, error)
	ExpiringSoon(ctx context.Context, days int) ([]ExpiringUnitDTO, error)
}

type service struct {
	store      storage.Store
	summarizer Summarizer
	cfg        config.InventoryConfig
	now        func() time.Time
}

// NewService builds the inventory service. A nil clock falls back to time.Now.
func NewService(store storage.Store, cfg config.InventoryConfig, now func() time.Time) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("storage required")
	}
	if now == nil {
		now = time.Now
	}
	if cfg.ShelfLifeDays <= 0 {
		cfg.ShelfLifeDays = defaultShelfLifeDays
	}
	return &service{
		store:      store,
		summarizer: NewSummarizer(cfg),
		cfg:        cfg,
		now:        now,
	}, nil
}

// ShelfLife returns the expiry date of a unit collected at donated.
func ShelfLife(donated time.Time, days int) time.Time {
	if days <= 0 {
		days = defaultShelfLifeDays
	}
	return donated.AddDate(0, 0, days)
}

func (s *service) AddUnit(ctx context.Context, input AddUnitInput) (*UnitDTO, error) {
	unit, err := s.buildUnit(input)
	if err != nil {
		return nil, err
	}

	err = s.store.WithTx(ctx, func(tx storage.Store) error {
		if unit.DonorID != nil {
			if _, err := tx.Donors().Get(ctx, *unit.DonorID); err != nil {
				return storage.LookupError(err, "donor", *unit.DonorID)
			}
		}
		if err := tx.Inventory().Create(ctx, unit); err != nil {
			return storage.WriteError(err, "create inventory unit", "bag number already registered")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := FromModel(*unit)
	return &dto, nil
}

func (s *service) buildUnit(input AddUnitInput) (*models.InventoryUnit, error) {
	if !input.BloodType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid blood type")
	}
	if input.Units <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "units must be positive")
	}
	if input.DonationDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "donation date is required")
	}

	expiry := ShelfLife(input.DonationDate, s.cfg.ShelfLifeDays)
	if input.ExpiryDate != nil {
		expiry = *input.ExpiryDate
	}
	if !expiry.After(input.DonationDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expiry date must be after donation date")
	}

	status := enums.InventoryStatusAvailable
	if input.Status != nil {
		status = *input.Status
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid inventory status")
	}

	return &models.InventoryUnit{
		BloodType:       input.BloodType,
		Units:           input.Units,
		DonationDate:    input.DonationDate.UTC(),
		ExpiryDate:      expiry.UTC(),
		Status:          status,
		DonorID:         input.DonorID,
		BagNumber:       trimmed(input.BagNumber),
		StorageLocation: trimmed(input.StorageLocation),
		Notes:           trimmed(input.Notes),
	}, nil
}

func (s *service) GetUnit(ctx context.Context, id uuid.UUID) (*UnitDTO, error) {
	unit, err := s.store.Inventory().Get(ctx, id)
	if err != nil {
		return nil, storage.LookupError(err, "inventory unit", id)
	}
	dto := FromModel(*unit)
	return &dto, nil
}

func (s *service) ListUnits(ctx context.Context, params ListParams) (*pagination.Page[UnitDTO], error) {
	if params.Status != nil && !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid inventory status")
	}
	cursor, err := pagination.ParseCursor(params.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	filter := storage.InventoryFilter{
		BloodType: params.BloodType,
		DonorID:   params.DonorID,
	}
	if params.Status != nil {
		filter.Statuses = []enums.InventoryStatus{*params.Status}
	}

	rows, err := s.store.Inventory().List(ctx, filter, storage.PageQuery{
		Limit: pagination.LimitWithBuffer(params.Pagination.Limit),
		After: cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory units")
	}

	page := pagination.Map(pagination.Trim(rows, params.Pagination.Limit, unitCursor), FromModel)
	return &page, nil
}

// UpdateStatus moves a unit along available -> reserved -> expired ->
// discarded. Repeating the current status is rejected like any other
// disallowed move.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.InventoryStatus) (*UnitDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid inventory status")
	}

	var updated models.InventoryUnit
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		unit, err := tx.Inventory().Get(ctx, id)
		if err != nil {
			return storage.LookupError(err, "inventory unit", id)
		}
		if !unit.Status.CanTransitionTo(status) {
			return pkgerrors.InvalidTransition("inventory unit", string(unit.Status), string(status))
		}
		unit.Status = status
		if err := tx.Inventory().Update(ctx, unit); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update inventory unit")
		}
		updated = *unit
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := FromModel(updated)
	return &dto, nil
}

func (s *service) Summary(ctx context.Context) ([]BloodTypeSummary, error) {
	units, err := s.store.Inventory().Find(ctx, storage.InventoryFilter{
		Statuses: []enums.InventoryStatus{enums.InventoryStatusAvailable},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory")
	}
	return s.summarizer.Summarize(units, s.now()), nil
}

// ExpiringSoon lists available units expiring within days calendar days,
// soonest first. Zero means today only; a negative days uses the summary horizon.
func (s *service) ExpiringSoon(ctx context.Context, days int) ([]ExpiringUnitDTO, error) {
	if days < 0 {
		days = s.summarizer.ExpiryHorizonDays
	}
	if s.cfg.MaxExpiringWindow > 0 && days > s.cfg.MaxExpiringWindow {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("days must be at most %d", s.cfg.MaxExpiringWindow)).
			WithDetails(map[string]any{"days": days, "max": s.cfg.MaxExpiringWindow})
	}

	now := s.now()
	y, m, d := now.Date()
	cutoff := time.Date(y, m, d+days+1, 0, 0, 0, 0, now.Location())

	units, err := s.store.Inventory().Find(ctx, storage.InventoryFilter{
		Statuses:      []enums.InventoryStatus{enums.InventoryStatusAvailable},
		ExpiresBefore: &cutoff,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load expiring inventory")
	}

	out := make([]ExpiringUnitDTO, 0, len(units))
	for _, unit := range units {
		left := DaysBetween(now, unit.ExpiryDate)
		if left < 0 || left > days {
			continue
		}
		out = append(out, ExpiringUnitDTO{UnitDTO: FromModel(unit), DaysUntilExpiry: left})
	}
	return out, nil
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}
