package transactions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/bloodbank-backend/internal/inventory"
	"github.com/angelmondragon/bloodbank-backend/pkg/db/models"
	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
	"github.com/angelmondragon/bloodbank-backend/pkg/pagination"
)

type TransactionDTO struct {
	ID              uuid.UUID             `json:"id"`
	Type            enums.TransactionType `json:"type"`
	BloodType       enums.BloodType       `json:"bloodType"`
	Units           int                   `json:"units"`
	DonorID         *uuid.UUID            `json:"donorId,omitempty"`
	RecipientID     *uuid.UUID            `json:"recipientId,omitempty"`
	HospitalID      *uuid.UUID            `json:"hospitalId,omitempty"`
	InventoryUnitID *uuid.UUID            `json:"inventoryUnitId,omitempty"`
	RequestID       *uuid.UUID            `json:"requestId,omitempty"`
	OccurredAt      time.Time             `json:"occurredAt"`
	ProcessingFee   decimal.Decimal       `json:"processingFee"`
	Notes           *string               `json:"notes,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
}

// DonationDTO is the outcome of a recorded donation.
type DonationDTO struct {
	Transaction TransactionDTO    `json:"transaction"`
	Unit        inventory.UnitDTO `json:"unit"`
}

// RecordDonationInput registers blood collected from a donor. BloodType is
// optional and must match the donor when given; Units defaults to 1 and
// DonationDate to now.
type RecordDonationInput struct {
	DonorID         uuid.UUID
	BloodType       *enums.BloodType
	Units           int
	DonationDate    *time.Time
	BagNumber       *string
	StorageLocation *string
	ProcessingFee   *decimal.Decimal
	Notes           *string
}

type RecordInput struct {
	Type            enums.TransactionType
	BloodType       enums.BloodType
	Units           int
	DonorID         *uuid.UUID
	RecipientID     *uuid.UUID
	HospitalID      *uuid.UUID
	InventoryUnitID *uuid.UUID
	RequestID       *uuid.UUID
	OccurredAt      *time.Time
	ProcessingFee   *decimal.Decimal
	Notes           *string
}

type ListParams struct {
	Type       *enums.TransactionType
	BloodType  *enums.BloodType
	DonorID    *uuid.UUID
	HospitalID *uuid.UUID
	Pagination pagination.Params
}

func FromModel(m models.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:              m.ID,
		Type:            m.Type,
		BloodType:       m.BloodType,
		Units:           m.Units,
		DonorID:         m.DonorID,
		RecipientID:     m.RecipientID,
		HospitalID:      m.HospitalID,
		InventoryUnitID: m.InventoryUnitID,
		RequestID:       m.RequestID,
		OccurredAt:      m.OccurredAt,
		ProcessingFee:   m.ProcessingFee,
		Notes:           m.Notes,
		CreatedAt:       m.CreatedAt,
	}
}
