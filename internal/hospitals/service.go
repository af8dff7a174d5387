package hospitals

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/bloodbank-backend/internal/storage"
	"github.com/angelmondragon/bloodbank-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/bloodbank-backend/pkg/errors"
	"github.com/angelmondragon/bloodbank-backend/pkg/pagination"
)

// Service exposes hospital directory operations.
type Service interface {
	Create(ctx context.Context, input CreateHospitalInput) (*HospitalDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*HospitalDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateHospitalInput) (*HospitalDTO, error)
	List(ctx context.Context, params ListParams) (*pagination.Page[HospitalDTO], error)
}

type service struct {
	repo storage.HospitalRepository
}

func NewService(repo storage.HospitalRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("hospital repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateHospitalInput) (*HospitalDTO, error) {
	hospital := &models.Hospital{
		Name:          strings.TrimSpace(input.Name),
		Address:       strings.TrimSpace(input.Address),
		City:          strings.TrimSpace(input.City),
		Phone:         strings.TrimSpace(input.Phone),
		Email:         strings.ToLower(strings.TrimSpace(input.Email)),
		ContactPerson: input.ContactPerson,
		IsActive:      true,
	}
	if input.IsActive != nil {
		hospital.IsActive = *input.IsActive
	}
	if err := validate(hospital); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, hospital); err != nil {
		return nil, storage.WriteError(err, "create hospital", "hospital name already registered")
	}
	dto := FromModel(*hospital)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*HospitalDTO, error) {
	hospital, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, storage.LookupError(err, "hospital", id)
	}
	dto := FromModel(*hospital)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateHospitalInput) (*HospitalDTO, error) {
	hospital, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, storage.LookupError(err, "hospital", id)
	}

	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	assign(&hospital.Name, input.Name)
	assign(&hospital.Address, input.Address)
	assign(&hospital.City, input.City)
	assign(&hospital.Phone, input.Phone)
	if input.Email != nil {
		hospital.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.ContactPerson != nil {
		hospital.ContactPerson = input.ContactPerson
	}
	if input.IsActive != nil {
		hospital.IsActive = *input.IsActive
	}
	if err := validate(hospital); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, hospital); err != nil {
		return nil, storage.WriteError(err, "update hospital", "hospital name already registered")
	}
	dto := FromModel(*hospital)
	return &dto, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*pagination.Page[HospitalDTO], error) {
	cursor, err := pagination.ParseCursor(params.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.List(ctx, storage.HospitalFilter{
		City:   strings.TrimSpace(params.City),
		Active: params.Active,
		Search: strings.TrimSpace(params.Search),
	}, storage.PageQuery{
		Limit: pagination.LimitWithBuffer(params.Pagination.Limit),
		After: cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list hospitals")
	}

	page := pagination.Map(pagination.Trim(rows, params.Pagination.Limit, func(h models.Hospital) pagination.Cursor {
		return pagination.Cursor{CreatedAt: h.CreatedAt, ID: h.ID}
	}), FromModel)
	return &page, nil
}

func validate(h *models.Hospital) error {
	fields := []struct{ name, value string }{
		{"name", h.Name},
		{"address", h.Address},
		{"city", h.City},
		{"phone", h.Phone},
		{"email", h.Email},
	}
	missing := []string{}
	for _, f := range fields {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing hospital fields").
			WithDetails(map[string]any{"missing": missing})
	}
	if !strings.Contains(h.Email, "@") {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid hospital email")
	}
	return nil
}
