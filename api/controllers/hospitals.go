package controllers

import (
	"net/http"

	"github.com/angelmondragon/bloodbank-backend/api/responses"
	"github.com/angelmondragon/bloodbank-backend/api/validators"
	"github.com/angelmondragon/bloodbank-backend/internal/hospitals"
	"github.com/angelmondragon/bloodbank-backend/pkg/logger"
)

type hospitalCreateRequest struct {
	Name          string  `json:"name" validate:"required,max=200"`
	Address       string  `json:"address" validate:"required"`
	City          string  `json:"city" validate:"required,max=100"`
	Phone         string  `json:"phone" validate:"required,max=32"`
	Email         string  `json:"email" validate:"required,email"`
	ContactPerson *string `json:"contactPerson,omitempty"`
	IsActive      *bool   `json:"isActive,omitempty"`
}

type hospitalUpdateRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Address       *string `json:"address,omitempty" validate:"omitempty,min=1"`
	City          *string `json:"city,omitempty" validate:"omitempty,min=1,max=100"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,min=1,max=32"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	ContactPerson *string `json:"contactPerson,omitempty"`
	IsActive      *bool   `json:"isActive,omitempty"`
}

func HospitalList(svc hospitals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		result, err := svc.List(r.Context(), hospitals.ListParams{
			City:       validators.SanitizeQuery(r, "city", 100),
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

func HospitalCreate(svc hospitals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload hospitalCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		hospital, err := svc.Create(r.Context(), hospitals.CreateHospitalInput{
			Name:          payload.Name,
			Address:       payload.Address,
			City:          payload.City,
			Phone:         payload.Phone,
			Email:         payload.Email,
			ContactPerson: payload.ContactPerson,
			IsActive:      payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, hospital)
	}
}

func HospitalGet(svc hospitals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		hospital, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, hospital)
	}
}

func HospitalUpdate(svc hospitals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload hospitalUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		hospital, err := svc.Update(r.Context(), id, hospitals.UpdateHospitalInput{
			Name:          payload.Name,
			Address:       payload.Address,
			City:          payload.City,
			Phone:         payload.Phone,
			Email:         payload.Email,
			ContactPerson: payload.ContactPerson,
			IsActive:      payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, hospital)
	}
}
