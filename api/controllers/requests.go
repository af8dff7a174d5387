package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/bloodbank-backend/api/responses"
	"github.com/angelmondragon/bloodbank-backend/api/validators"
	"github.com/angelmondragon/bloodbank-backend/internal/requests"
	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
	"github.com/angelmondragon/bloodbank-backend/pkg/logger"
	"github.com/angelmondragon/bloodbank-backend/pkg/types"
)

type bloodRequestCreateRequest struct {
	HospitalID  uuid.UUID             `json:"hospitalId" validate:"required"`
	RecipientID *uuid.UUID            `json:"recipientId,omitempty"`
	BloodType   string                `json:"bloodType" validate:"required,bloodtype"`
	Units       int                   `json:"units" validate:"required,gt=0"`
	Urgency     *enums.RequestUrgency `json:"urgency,omitempty"`
	RequiredBy  *types.Date           `json:"requiredBy,omitempty"`
	Notes       *string               `json:"notes,omitempty"`
}

type bloodRequestStatusRequest struct {
	Status enums.RequestStatus `json:"status" validate:"required"`
}

func RequestList(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := validators.ParseQueryEnum(r, "status", enums.ParseRequestStatus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		hospitalID, err := validators.ParseQueryUUID(r, "hospitalId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bloodType, err := validators.ParseQueryEnum(r, "bloodType", enums.ParseBloodType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), requests.ListParams{
			Status:     status,
			HospitalID: hospitalID,
			BloodType:  bloodType,
			Pagination: page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// RequestCreate files a hospital request; critical urgency also raises an alert.
func RequestCreate(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload bloodRequestCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bt, _ := enums.ParseBloodType(payload.BloodType)
		request, err := svc.Create(r.Context(), requests.CreateRequestInput{
			HospitalID:  payload.HospitalID,
			RecipientID: payload.RecipientID,
			BloodType:   bt,
			Units:       payload.Units,
			Urgency:     payload.Urgency,
			RequiredBy:  payload.RequiredBy.Ptr(),
			Notes:       payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, request)
	}
}

func RequestGet(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		request, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, request)
	}
}

func RequestUpdateStatus(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload bloodRequestStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.UpdateStatus(r.Context(), id, payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, request)
	}
}
