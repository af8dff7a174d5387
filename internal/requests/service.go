package requests

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/bloodbank-backend/internal/storage"
	"github.com/angelmondragon/bloodbank-backend/pkg/db/models"
	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bloodbank-backend/pkg/errors"
	"github.com/angelmondragon/bloodbank-backend/pkg/pagination"
)

// Service exposes hospital blood request operations.
type Service interface {
	Create(ctx context.Context, input CreateRequestInput) (*RequestDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*RequestDTO, error)
	List(ctx context.Context, params ListParams) (*pagination.Page[RequestDTO], error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.RequestStatus) (*RequestDTO, error)
}

type service struct {
	store storage.Store
}

func NewService(store storage.Store) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("storage required")
	}
	return &service{store: store}, nil
}

// Create stores a pending request. Critical requests also open a
// request_urgent alert in the same transaction.
func (s *service) Create(ctx context.Context, input CreateRequestInput) (*RequestDTO, error) {
	urgency := enums.RequestUrgencyNormal
	if input.Urgency != nil {
		urgency = *input.Urgency
	}
	switch {
	case input.HospitalID == uuid.Nil:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "hospitalId is required")
	case !input.BloodType.IsValid():
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid blood type")
	case input.Units <= 0:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "units must be positive")
	case !urgency.IsValid():
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid urgency")
	}

	request := &models.BloodRequest{
		HospitalID:  input.HospitalID,
		RecipientID: input.RecipientID,
		BloodType:   input.BloodType,
		Units:       input.Units,
		Urgency:     urgency,
		Status:      enums.RequestStatusPending,
		RequiredBy:  input.RequiredBy,
		Notes:       input.Notes,
	}

	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		hospital, err := tx.Hospitals().Get(ctx, request.HospitalID)
		if err != nil {
			return storage.LookupError(err, "hospital", request.HospitalID)
		}
		if !hospital.IsActive {
			return pkgerrors.New(pkgerrors.CodeValidation, "hospital is inactive")
		}
		if request.RecipientID != nil {
			if _, err := tx.Recipients().Get(ctx, *request.RecipientID); err != nil {
				return storage.LookupError(err, "recipient", *request.RecipientID)
			}
		}
		if err := tx.Requests().Create(ctx, request); err != nil {
			return storage.WriteError(err, "create blood request", "blood request already exists")
		}
		if request.Urgency != enums.RequestUrgencyCritical {
			return nil
		}
		bt := request.BloodType
		alert := &models.Alert{
			Type:      enums.AlertTypeRequestUrgent,
			Severity:  enums.AlertSeverityCritical,
			BloodType: &bt,
			Title:     fmt.Sprintf("Critical request for %s", bt),
			Message:   fmt.Sprintf("%s requested %d units of %s", hospital.Name, request.Units, bt),
		}
		if err := tx.Alerts().Create(ctx, alert); err != nil {
			return storage.WriteError(err, "create urgent request alert", "alert already exists")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := FromModel(*request)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*RequestDTO, error) {
	request, err := s.store.Requests().Get(ctx, id)
	if err != nil {
		return nil, storage.LookupError(err, "blood request", id)
	}
	dto := FromModel(*request)
	return &dto, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*pagination.Page[RequestDTO], error) {
	if params.Status != nil && !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid request status")
	}
	cursor, err := pagination.ParseCursor(params.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.store.Requests().List(ctx, storage.RequestFilter{
		Status:     params.Status,
		HospitalID: params.HospitalID,
		BloodType:  params.BloodType,
	}, storage.PageQuery{
		Limit: pagination.LimitWithBuffer(params.Pagination.Limit),
		After: cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list blood requests")
	}

	page := pagination.Map(pagination.Trim(rows, params.Pagination.Limit, func(r models.BloodRequest) pagination.Cursor {
		return pagination.Cursor{CreatedAt: r.CreatedAt, ID: r.ID}
	}), FromModel)
	return &page, nil
}

// UpdateStatus applies pending -> approved|rejected|cancelled and
// approved -> fulfilled|cancelled. Terminal requests never change.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.RequestStatus) (*RequestDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid request status")
	}

	var updated models.BloodRequest
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		request, err := tx.Requests().Get(ctx, id)
		if err != nil {
			return storage.LookupError(err, "blood request", id)
		}
		if !request.Status.CanTransitionTo(status) {
			return pkgerrors.InvalidTransition("blood request", string(request.Status), string(status))
		}
		request.Status = status
		if err := tx.Requests().Update(ctx, request); err != nil {
			return storage.WriteError(err, "update blood request", "blood request conflict")
		}
		updated = *request
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := FromModel(updated)
	return &dto, nil
}
