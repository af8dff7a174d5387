package alerts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/bloodbank-backend/internal/storage"
	"github.com/angelmondragon/bloodbank-backend/pkg/db/models"
	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bloodbank-backend/pkg/errors"
	"github.com/angelmondragon/bloodbank-backend/pkg/pagination"
)

// Service manages operational alerts raised by operators and jobs.
type Service interface {
	Create(ctx context.Context, input CreateAlertInput) (*AlertDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*AlertDTO, error)
	List(ctx context.Context, params ListParams) (*pagination.Page[AlertDTO], error)
	Resolve(ctx context.Context, id uuid.UUID) (*AlertDTO, error)
	// OpenExists reports whether an unresolved alert of the kind is already
	// open for the blood type; jobs use it to avoid duplicates.
	OpenExists(ctx context.Context, alertType enums.AlertType, bloodType *enums.BloodType) (bool, error)
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

func (s *service) Create(ctx context.Context, input CreateAlertInput) (*AlertDTO, error) {
	alert := &models.Alert{
		Type:      input.Type,
		Severity:  input.Severity,
		BloodType: input.BloodType,
		Title:     strings.TrimSpace(input.Title),
		Message:   strings.TrimSpace(input.Message),
	}
	if alert.Severity == "" {
		alert.Severity = enums.AlertSeverityInfo
	}
	switch {
	case !alert.Type.IsValid():
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid alert type")
	case !alert.Severity.IsValid():
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid alert severity")
	case alert.BloodType != nil && !alert.BloodType.IsValid():
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid blood type")
	case alert.Title == "" || alert.Message == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title and message are required")
	}

	if err := s.store.Alerts().Create(ctx, alert); err != nil {
		return nil, storage.WriteError(err, "create alert", "alert already exists")
	}
	dto := FromModel(*alert)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*AlertDTO, error) {
	alert, err := s.store.Alerts().Get(ctx, id)
	if err != nil {
		return nil, storage.LookupError(err, "alert", id)
	}
	dto := FromModel(*alert)
	return &dto, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*pagination.Page[AlertDTO], error) {
	cursor, err := pagination.ParseCursor(params.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.store.Alerts().List(ctx, storage.AlertFilter{
		Type:      params.Type,
		BloodType: params.BloodType,
		Resolved:  params.Resolved,
	}, storage.PageQuery{
		Limit: pagination.LimitWithBuffer(params.Pagination.Limit),
		After: cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list alerts")
	}

	page := pagination.Map(pagination.Trim(rows, params.Pagination.Limit, func(a models.Alert) pagination.Cursor {
		return pagination.Cursor{CreatedAt: a.CreatedAt, ID: a.ID}
	}), FromModel)
	return &page, nil
}

// Resolve closes an open alert. Resolving twice is a state conflict.
func (s *service) Resolve(ctx context.Context, id uuid.UUID) (*AlertDTO, error) {
	var resolved models.Alert
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		alert, err := tx.Alerts().Get(ctx, id)
		if err != nil {
			return storage.LookupError(err, "alert", id)
		}
		if !alert.IsOpen() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "alert already resolved").
				WithDetails(map[string]any{"resolvedAt": alert.ResolvedAt})
		}
		at := s.now().UTC()
		alert.ResolvedAt = &at
		if err := tx.Alerts().Update(ctx, alert); err != nil {
			return storage.WriteError(err, "resolve alert", "alert conflict")
		}
		resolved = *alert
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := FromModel(resolved)
	return &dto, nil
}

func (s *service) OpenExists(ctx context.Context, alertType enums.AlertType, bloodType *enums.BloodType) (bool, error) {
	open := false
	n, err := s.store.Alerts().Count(ctx, storage.AlertFilter{
		Type:      &alertType,
		BloodType: bloodType,
		Resolved:  &open,
	})
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count open alerts")
	}
	return n > 0, nil
}
