package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/bloodbank-backend/api/responses"
	"github.com/angelmondragon/bloodbank-backend/api/validators"
	"github.com/angelmondragon/bloodbank-backend/internal/inventory"
	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
	"github.com/angelmondragon/bloodbank-backend/pkg/logger"
	"github.com/angelmondragon/bloodbank-backend/pkg/types"
)

type unitCreateRequest struct {
	BloodType       string                 `json:"bloodType" validate:"required,bloodtype"`
	Units           int                    `json:"units" validate:"required,gt=0"`
	DonationDate    types.Date             `json:"donationDate"`
	ExpiryDate      *types.Date            `json:"expiryDate,omitempty"`
	Status          *enums.InventoryStatus `json:"status,omitempty"`
	DonorID         *uuid.UUID             `json:"donorId,omitempty"`
	BagNumber       *string                `json:"bagNumber,omitempty" validate:"omitempty,max=64"`
	StorageLocation *string                `json:"storageLocation,omitempty"`
	Notes           *string                `json:"notes,omitempty"`
}

type unitStatusRequest struct {
	Status enums.InventoryStatus `json:"status" validate:"required"`
}

// InventoryList filters by status, bloodType and donorId.
func InventoryList(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := validators.ParseQueryEnum(r, "status", enums.ParseInventoryStatus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bloodType, err := validators.ParseQueryEnum(r, "bloodType", enums.ParseBloodType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		donorID, err := validators.ParseQueryUUID(r, "donorId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListUnits(r.Context(), inventory.ListParams{
			Status:     status,
			BloodType:  bloodType,
			DonorID:    donorID,
			Pagination: page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func InventoryCreate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload unitCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bt, _ := enums.ParseBloodType(payload.BloodType)
		unit, err := svc.AddUnit(r.Context(), inventory.AddUnitInput{
			BloodType:       bt,
			Units:           payload.Units,
			DonationDate:    payload.DonationDate.Time,
			ExpiryDate:      payload.ExpiryDate.Ptr(),
			Status:          payload.Status,
			DonorID:         payload.DonorID,
			BagNumber:       payload.BagNumber,
			StorageLocation: payload.StorageLocation,
			Notes:           payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, unit)
	}
}

// InventorySummary returns one row per blood type in canonical order.
func InventorySummary(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.Summary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// InventoryExpiring lists available units expiring within ?days=. Absent uses
// the configured horizon; days=0 lists units expiring today.
func InventoryExpiring(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, err := validators.ParseQueryInt(r, "days", inventory.HorizonWindow, 0, 365)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		units, err := svc.ExpiringSoon(r.Context(), days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, units)
	}
}

func InventoryGet(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		unit, err := svc.GetUnit(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, unit)
	}
}

func InventoryUpdateStatus(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload unitStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		unit, err := svc.UpdateStatus(r.Context(), id, payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, unit)
	}
}
