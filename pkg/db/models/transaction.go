package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
)

// Transaction records a movement of blood: a donation, a transfusion or a
// transfer between facilities.
type Transaction struct {
	ID              uuid.UUID             `gorm:"type:uuid;primaryKey"`
	Type            enums.TransactionType `gorm:"column:type;type:text;not null;index"`
	BloodType       enums.BloodType       `gorm:"column:blood_type;type:text;not null"`
	Units           int                   `gorm:"column:units;not null"`
	DonorID         *uuid.UUID            `gorm:"column:donor_id;type:uuid"`
	RecipientID     *uuid.UUID            `gorm:"column:recipient_id;type:uuid"`
	HospitalID      *uuid.UUID            `gorm:"column:hospital_id;type:uuid"`
	InventoryUnitID *uuid.UUID            `gorm:"column:inventory_unit_id;type:uuid"`
	RequestID       *uuid.UUID            `gorm:"column:request_id;type:uuid"`
	OccurredAt      time.Time             `gorm:"column:occurred_at;not null"`
	ProcessingFee   decimal.Decimal       `gorm:"column:processing_fee;type:numeric(12,2);not null;default:0"`
	Notes           *string               `gorm:"column:notes;type:text"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
