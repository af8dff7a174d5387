package donors

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/bloodbank-backend/internal/storage"
	"github.com/angelmondragon/bloodbank-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/bloodbank-backend/pkg/errors"
	"github.com/angelmondragon/bloodbank-backend/pkg/pagination"
)

// Service exposes donor registry operations.
type Service interface {
	Create(ctx context.Context, input CreateDonorInput) (*DonorDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*DonorDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateDonorInput) (*DonorDTO, error)
	List(ctx context.Context, params ListParams) (*pagination.Page[DonorDTO], error)
}

type service struct {
	repo storage.DonorRepository
	now  func() time.Time
}

func NewService(repo storage.DonorRepository, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("donor repository required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, now: now}, nil
}

func (s *service) Create(ctx context.Context, input CreateDonorInput) (*DonorDTO, error) {
	donor := &models.Donor{
		FirstName:   strings.TrimSpace(input.FirstName),
		LastName:    strings.TrimSpace(input.LastName),
		BloodType:   input.BloodType,
		Email:       normalizeEmail(input.Email),
		Phone:       strings.TrimSpace(input.Phone),
		DateOfBirth: input.DateOfBirth,
		Gender:      input.Gender,
		Address:     input.Address,
		IsActive:    true,
	}
	if input.IsActive != nil {
		donor.IsActive = *input.IsActive
	}
	if err := s.validate(donor); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, donor); err != nil {
		return nil, storage.WriteError(err, "create donor", "email already registered")
	}
	dto := FromModel(*donor)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*DonorDTO, error) {
	donor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, storage.LookupError(err, "donor", id)
	}
	dto := FromModel(*donor)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateDonorInput) (*DonorDTO, error) {
	donor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, storage.LookupError(err, "donor", id)
	}

	if input.FirstName != nil {
		donor.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		donor.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.BloodType != nil {
		donor.BloodType = *input.BloodType
	}
	if input.Email != nil {
		donor.Email = normalizeEmail(*input.Email)
	}
	if input.Phone != nil {
		donor.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.DateOfBirth != nil {
		donor.DateOfBirth = *input.DateOfBirth
	}
	if input.Gender != nil {
		donor.Gender = *input.Gender
	}
	if input.Address != nil {
		donor.Address = input.Address
	}
	if input.IsActive != nil {
		donor.IsActive = *input.IsActive
	}
	if err := s.validate(donor); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, donor); err != nil {
		return nil, storage.WriteError(err, "update donor", "email already registered")
	}
	dto := FromModel(*donor)
	return &dto, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*pagination.Page[DonorDTO], error) {
	if params.BloodType != nil && !params.BloodType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid blood type")
	}
	cursor, err := pagination.ParseCursor(params.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.List(ctx, storage.DonorFilter{
		BloodType: params.BloodType,
		Active:    params.Active,
		Search:    strings.TrimSpace(params.Search),
	}, storage.PageQuery{
		Limit: pagination.LimitWithBuffer(params.Pagination.Limit),
		After: cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list donors")
	}

	page := pagination.Map(pagination.Trim(rows, params.Pagination.Limit, donorCursor), FromModel)
	return &page, nil
}

func (s *service) validate(d *models.Donor) error {
	var problems []string
	if d.FirstName == "" {
		problems = append(problems, "firstName is required")
	}
	if d.LastName == "" {
		problems = append(problems, "lastName is required")
	}
	if !d.BloodType.IsValid() {
		problems = append(problems, "bloodType is invalid")
	}
	if _, err := mail.ParseAddress(d.Email); err != nil || d.Email == "" {
		problems = append(problems, "email is invalid")
	}
	if d.Phone == "" {
		problems = append(problems, "phone is required")
	}
	if d.DateOfBirth.IsZero() || !d.DateOfBirth.Before(s.now()) {
		problems = append(problems, "dateOfBirth must be in the past")
	}
	if !d.Gender.IsValid() {
		problems = append(problems, "gender is invalid")
	}
	if len(problems) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid donor").
		WithDetails(map[string]any{"problems": problems})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
