package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/bloodbank-backend/api/responses"
	"github.com/angelmondragon/bloodbank-backend/api/validators"
	"github.com/angelmondragon/bloodbank-backend/internal/recipients"
	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
	"github.com/angelmondragon/bloodbank-backend/pkg/logger"
	"github.com/angelmondragon/bloodbank-backend/pkg/types"
)

type recipientCreateRequest struct {
	FirstName        string     `json:"firstName" validate:"required,max=100"`
	LastName         string     `json:"lastName" validate:"required,max=100"`
	BloodType        string     `json:"bloodType" validate:"required,bloodtype"`
	DateOfBirth      types.Date `json:"dateOfBirth"`
	MedicalCondition *string    `json:"medicalCondition,omitempty"`
	HospitalID       *uuid.UUID `json:"hospitalId,omitempty"`
	ContactPhone     string     `json:"contactPhone" validate:"required,max=32"`
}

type recipientUpdateRequest struct {
	FirstName        *string     `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName         *string     `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	BloodType        *string     `json:"bloodType,omitempty" validate:"omitempty,bloodtype"`
	DateOfBirth      *types.Date `json:"dateOfBirth,omitempty"`
	MedicalCondition *string     `json:"medicalCondition,omitempty"`
	HospitalID       *uuid.UUID  `json:"hospitalId,omitempty"`
	ContactPhone     *string     `json:"contactPhone,omitempty" validate:"omitempty,min=1,max=32"`
}

func RecipientList(svc recipients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bloodType, err := validators.ParseQueryEnum(r, "bloodType", enums.ParseBloodType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		hospitalID, err := validators.ParseQueryUUID(r, "hospitalId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), recipients.ListParams{
			BloodType:  bloodType,
			HospitalID: hospitalID,
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

func RecipientCreate(svc recipients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload recipientCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bt, _ := enums.ParseBloodType(payload.BloodType)
		recipient, err := svc.Create(r.Context(), recipients.CreateRecipientInput{
			FirstName:        validators.SanitizeString(payload.FirstName, 100),
			LastName:         validators.SanitizeString(payload.LastName, 100),
			BloodType:        bt,
			DateOfBirth:      payload.DateOfBirth.Time,
			MedicalCondition: payload.MedicalCondition,
			HospitalID:       payload.HospitalID,
			ContactPhone:     payload.ContactPhone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, recipient)
	}
}

func RecipientGet(svc recipients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		recipient, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, recipient)
	}
}

func RecipientUpdate(svc recipients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload recipientUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		recipient, err := svc.Update(r.Context(), id, recipients.UpdateRecipientInput{
			FirstName:        payload.FirstName,
			LastName:         payload.LastName,
			BloodType:        parseBloodTypePtr(payload.BloodType),
			DateOfBirth:      payload.DateOfBirth.Ptr(),
			MedicalCondition: payload.MedicalCondition,
			HospitalID:       payload.HospitalID,
			ContactPhone:     payload.ContactPhone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, recipient)
	}
}
