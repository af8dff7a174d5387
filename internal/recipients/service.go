package recipients

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/bloodbank-backend/internal/storage"
	"github.com/angelmondragon/bloodbank-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/bloodbank-backend/pkg/errors"
	"github.com/angelmondragon/bloodbank-backend/pkg/pagination"
)

// Service exposes recipient operations. A recipient may be linked to a
// hospital, which must exist.
type Service interface {
	Create(ctx context.Context, input CreateRecipientInput) (*RecipientDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*RecipientDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateRecipientInput) (*RecipientDTO, error)
	List(ctx context.Context, params ListParams) (*pagination.Page[RecipientDTO], error)
}

type service struct {
	store storage.Store
	now   func() time.Time
}

func NewService(store storage.Store, now func() time.Time) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("storage required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{store: store, now: now}, nil
}

func (s *service) Create(ctx context.Context, input CreateRecipientInput) (*RecipientDTO, error) {
	recipient := &models.Recipient{
		FirstName:        strings.TrimSpace(input.FirstName),
		LastName:         strings.TrimSpace(input.LastName),
		BloodType:        input.BloodType,
		DateOfBirth:      input.DateOfBirth,
		MedicalCondition: input.MedicalCondition,
		HospitalID:       input.HospitalID,
		ContactPhone:     strings.TrimSpace(input.ContactPhone),
	}
	if err := s.validate(recipient); err != nil {
		return nil, err
	}

	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		if err := ensureHospital(ctx, tx, recipient.HospitalID); err != nil {
			return err
		}
		if err := tx.Recipients().Create(ctx, recipient); err != nil {
			return storage.WriteError(err, "create recipient", "recipient already exists")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := FromModel(*recipient)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*RecipientDTO, error) {
	recipient, err := s.store.Recipients().Get(ctx, id)
	if err != nil {
		return nil, storage.LookupError(err, "recipient", id)
	}
	dto := FromModel(*recipient)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateRecipientInput) (*RecipientDTO, error) {
	var updated models.Recipient
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		recipient, err := tx.Recipients().Get(ctx, id)
		if err != nil {
			return storage.LookupError(err, "recipient", id)
		}
		if input.FirstName != nil {
			recipient.FirstName = strings.TrimSpace(*input.FirstName)
		}
		if input.LastName != nil {
			recipient.LastName = strings.TrimSpace(*input.LastName)
		}
		if input.BloodType != nil {
			recipient.BloodType = *input.BloodType
		}
		if input.DateOfBirth != nil {
			recipient.DateOfBirth = *input.DateOfBirth
		}
		if input.MedicalCondition != nil {
			recipient.MedicalCondition = input.MedicalCondition
		}
		if input.ContactPhone != nil {
			recipient.ContactPhone = strings.TrimSpace(*input.ContactPhone)
		}
		if input.HospitalID != nil {
			if err := ensureHospital(ctx, tx, input.HospitalID); err != nil {
				return err
			}
			recipient.HospitalID = input.HospitalID
		}
		if err := s.validate(recipient); err != nil {
			return err
		}
		if err := tx.Recipients().Update(ctx, recipient); err != nil {
			return storage.WriteError(err, "update recipient", "recipient already exists")
		}
		updated = *recipient
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := FromModel(updated)
	return &dto, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*pagination.Page[RecipientDTO], error) {
	if params.BloodType != nil && !params.BloodType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid blood type")
	}
	cursor, err := pagination.ParseCursor(params.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.store.Recipients().List(ctx, storage.RecipientFilter{
		BloodType:  params.BloodType,
		HospitalID: params.HospitalID,
		Search:     strings.TrimSpace(params.Search),
	}, storage.PageQuery{
		Limit: pagination.LimitWithBuffer(params.Pagination.Limit),
		After: cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recipients")
	}

	page := pagination.Map(pagination.Trim(rows, params.Pagination.Limit, func(r models.Recipient) pagination.Cursor {
		return pagination.Cursor{CreatedAt: r.CreatedAt, ID: r.ID}
	}), FromModel)
	return &page, nil
}

func (s *service) validate(r *models.Recipient) error {
	switch {
	case r.FirstName == "" || r.LastName == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "first and last name are required")
	case !r.BloodType.IsValid():
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid blood type")
	case r.DateOfBirth.IsZero() || !r.DateOfBirth.Before(s.now()):
		return pkgerrors.New(pkgerrors.CodeValidation, "date of birth must be in the past")
	case r.ContactPhone == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "contact phone is required")
	}
	return nil
}

func ensureHospital(ctx context.Context, tx storage.Store, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := tx.Hospitals().Get(ctx, *id); err != nil {
		return storage.LookupError(err, "hospital", *id)
	}
	return nil
}
