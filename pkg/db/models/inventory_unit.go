package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
)

// InventoryUnit is a single countable batch of blood stock. Rows are never
// deleted; they only move through statuses.
type InventoryUnit struct {
	ID              uuid.UUID             `gorm:"type:uuid;primaryKey"`
	BloodType       enums.BloodType       `gorm:"column:blood_type;type:text;not null;index:idx_inventory_units_type_status"`
	Units           int                   `gorm:"column:units;not null"`
	DonationDate    time.Time             `gorm:"column:donation_date;not null"`
	ExpiryDate      time.Time             `gorm:"column:expiry_date;not null;index"`
	Status          enums.InventoryStatus `gorm:"column:status;type:text;not null;default:'available';index:idx_inventory_units_type_status"`
	DonorID         *uuid.UUID            `gorm:"column:donor_id;type:uuid"`
	BagNumber       *string               `gorm:"column:bag_number;type:text;uniqueIndex"`
	StorageLocation *string               `gorm:"column:storage_location;type:text"`
	Notes           *string               `gorm:"column:notes;type:text"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
