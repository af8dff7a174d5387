package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/bloodbank-backend/api/responses"
	"github.com/angelmondragon/bloodbank-backend/api/validators"
	"github.com/angelmondragon/bloodbank-backend/internal/transactions"
	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
	"github.com/angelmondragon/bloodbank-backend/pkg/logger"
	"github.com/angelmondragon/bloodbank-backend/pkg/types"
)

type donationRequest struct {
	DonorID         uuid.UUID        `json:"donorId" validate:"required"`
	BloodType       *string          `json:"bloodType,omitempty" validate:"omitempty,bloodtype"`
	Units           int              `json:"units" validate:"gte=0"`
	DonationDate    *types.Date      `json:"donationDate,omitempty"`
	BagNumber       *string          `json:"bagNumber,omitempty" validate:"omitempty,max=64"`
	StorageLocation *string          `json:"storageLocation,omitempty"`
	ProcessingFee   *decimal.Decimal `json:"processingFee,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
}

type transactionRequest struct {
	Type            enums.TransactionType `json:"type" validate:"required"`
	BloodType       string                `json:"bloodType" validate:"required,bloodtype"`
	Units           int                   `json:"units" validate:"required,gt=0"`
	DonorID         *uuid.UUID            `json:"donorId,omitempty"`
	RecipientID     *uuid.UUID            `json:"recipientId,omitempty"`
	HospitalID      *uuid.UUID            `json:"hospitalId,omitempty"`
	InventoryUnitID *uuid.UUID            `json:"inventoryUnitId,omitempty"`
	RequestID       *uuid.UUID            `json:"requestId,omitempty"`
	OccurredAt      *types.Date           `json:"occurredAt,omitempty"`
	ProcessingFee   *decimal.Decimal      `json:"processingFee,omitempty"`
	Notes           *string               `json:"notes,omitempty"`
}

func TransactionList(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		txType, err := validators.ParseQueryEnum(r, "type", enums.ParseTransactionType)
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

		result, err := svc.List(r.Context(), transactions.ListParams{
			Type:       txType,
			BloodType:  bloodType,
			DonorID:    donorID,
			HospitalID: hospitalID,
			Pagination: page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// TransactionRecordDonation stocks a donated unit and writes its ledger entry
// in one step.
func TransactionRecordDonation(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload donationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		donation, err := svc.RecordDonation(r.Context(), transactions.RecordDonationInput{
			DonorID:         payload.DonorID,
			BloodType:       parseBloodTypePtr(payload.BloodType),
			Units:           payload.Units,
			DonationDate:    payload.DonationDate.Ptr(),
			BagNumber:       payload.BagNumber,
			StorageLocation: payload.StorageLocation,
			ProcessingFee:   payload.ProcessingFee,
			Notes:           payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, donation)
	}
}

func TransactionCreate(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload transactionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bt, _ := enums.ParseBloodType(payload.BloodType)
		tx, err := svc.Record(r.Context(), transactions.RecordInput{
			Type:            payload.Type,
			BloodType:       bt,
			Units:           payload.Units,
			DonorID:         payload.DonorID,
			RecipientID:     payload.RecipientID,
			HospitalID:      payload.HospitalID,
			InventoryUnitID: payload.InventoryUnitID,
			RequestID:       payload.RequestID,
			OccurredAt:      payload.OccurredAt.Ptr(),
			ProcessingFee:   payload.ProcessingFee,
			Notes:           payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, tx)
	}
}

func TransactionGet(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		tx, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tx)
	}
}
