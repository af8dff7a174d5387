package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/bloodbank-backend/pkg/db/models"
	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
	"github.com/angelmondragon/bloodbank-backend/pkg/pagination"
)

// UnitDTO is the wire shape of an inventory unit.
type UnitDTO struct {
	ID              uuid.UUID             `json:"id"`
	BloodType       enums.BloodType       `json:"bloodType"`
	Units           int                   `json:"units"`
	DonationDate    time.Time             `json:"donationDate"`
	ExpiryDate      time.Time             `json:"expiryDate"`
	Status          enums.InventoryStatus `json:"status"`
	DonorID         *uuid.UUID            `json:"donorId,omitempty"`
	BagNumber       *string               `json:"bagNumber,omitempty"`
	StorageLocation *string               `json:"storageLocation,omitempty"`
	Notes           *string               `json:"notes,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

// ExpiringUnitDTO adds the calendar-day countdown to a unit.
type ExpiringUnitDTO struct {
	UnitDTO
	DaysUntilExpiry int `json:"daysUntilExpiry"`
}

// AddUnitInput captures a new batch. ExpiryDate defaults to the donation
// date plus the configured shelf life; Status defaults to available.
type AddUnitInput struct {
	BloodType       enums.BloodType
	Units           int
	DonationDate    time.Time
	ExpiryDate      *time.Time
	Status          *enums.InventoryStatus
	DonorID         *uuid.UUID
	BagNumber       *string
	StorageLocation *string
	Notes           *string
}

// ListParams filters the unit listing.
type ListParams struct {
	Status     *enums.InventoryStatus
	BloodType  *enums.BloodType
	DonorID    *uuid.UUID
	Pagination pagination.Params
}

// FromModel maps the persisted unit into a DTO.
func FromModel(m models.InventoryUnit) UnitDTO {
	return UnitDTO{
		ID:              m.ID,
		BloodType:       m.BloodType,
		Units:           m.Units,
		DonationDate:    m.DonationDate,
		ExpiryDate:      m.ExpiryDate,
		Status:          m.Status,
		DonorID:         m.DonorID,
		BagNumber:       m.BagNumber,
		StorageLocation: m.StorageLocation,
		Notes:           m.Notes,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func unitCursor(m models.InventoryUnit) pagination.Cursor {
	return pagination.Cursor{CreatedAt: m.CreatedAt, ID: m.ID}
}
