package controllers

import (
	"net/http"

	"github.com/angelmondragon/bloodbank-backend/api/responses"
	"github.com/angelmondragon/bloodbank-backend/api/validators"
	"github.com/angelmondragon/bloodbank-backend/internal/donors"
	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
	"github.com/angelmondragon/bloodbank-backend/pkg/logger"
	"github.com/angelmondragon/bloodbank-backend/pkg/types"
)

type donorCreateRequest struct {
	FirstName   string       `json:"firstName" validate:"required,max=100"`
	LastName    string       `json:"lastName" validate:"required,max=100"`
	BloodType   string       `json:"bloodType" validate:"required,bloodtype"`
	Email       string       `json:"email" validate:"required,email"`
	Phone       string       `json:"phone" validate:"required,max=32"`
	DateOfBirth types.Date   `json:"dateOfBirth"`
	Gender      enums.Gender `json:"gender" validate:"required"`
	Address     *string      `json:"address,omitempty"`
	IsActive    *bool        `json:"isActive,omitempty"`
}

func (r donorCreateRequest) toInput() donors.CreateDonorInput {
	bt, _ := enums.ParseBloodType(r.BloodType)
	return donors.CreateDonorInput{
		FirstName:   validators.SanitizeString(r.FirstName, 100),
		LastName:    validators.SanitizeString(r.LastName, 100),
		BloodType:   bt,
		Email:       r.Email,
		Phone:       r.Phone,
		DateOfBirth: r.DateOfBirth.Time,
		Gender:      r.Gender,
		Address:     r.Address,
		IsActive:    r.IsActive,
	}
}

type donorUpdateRequest struct {
	FirstName   *string       `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName    *string       `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	BloodType   *string       `json:"bloodType,omitempty" validate:"omitempty,bloodtype"`
	Email       *string       `json:"email,omitempty" validate:"omitempty,email"`
	Phone       *string       `json:"phone,omitempty" validate:"omitempty,min=1,max=32"`
	DateOfBirth *types.Date   `json:"dateOfBirth,omitempty"`
	Gender      *enums.Gender `json:"gender,omitempty"`
	Address     *string       `json:"address,omitempty"`
	IsActive    *bool         `json:"isActive,omitempty"`
}

func (r donorUpdateRequest) toInput() donors.UpdateDonorInput {
	return donors.UpdateDonorInput{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		BloodType:   parseBloodTypePtr(r.BloodType),
		Email:       r.Email,
		Phone:       r.Phone,
		DateOfBirth: r.DateOfBirth.Ptr(),
		Gender:      r.Gender,
		Address:     r.Address,
		IsActive:    r.IsActive,
	}
}

// DonorList supports bloodType, active, search, limit and cursor.
func DonorList(svc donors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bloodType, err := validators.ParseQueryEnum(r, "bloodType", enums.ParseBloodType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		active, err := validators.ParseQueryBool(r, "active")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), donors.ListParams{
			BloodType:  bloodType,
			Active:     active,
			Search:     validators.SanitizeQuery(r, "search", 100),
			Pagination: page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func DonorCreate(svc donors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload donorCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		donor, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, donor)
	}
}

func DonorGet(svc donors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		donor, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, donor)
	}
}

func DonorUpdate(svc donors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload donorUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		donor, err := svc.Update(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, donor)
	}
}
