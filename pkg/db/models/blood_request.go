package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
)

// BloodRequest is a hospital's ask for units of a blood type.
type BloodRequest struct {
	ID          uuid.UUID            `gorm:"type:uuid;primaryKey"`
	HospitalID  uuid.UUID            `gorm:"column:hospital_id;type:uuid;not null;index"`
	RecipientID *uuid.UUID           `gorm:"column:recipient_id;type:uuid"`
	BloodType   enums.BloodType      `gorm:"column:blood_type;type:text;not null"`
	Units       int                  `gorm:"column:units;not null"`
	Urgency     enums.RequestUrgency `gorm:"column:urgency;type:text;not null;default:'normal'"`
	Status      enums.RequestStatus  `gorm:"column:status;type:text;not null;default:'pending';index"`
	RequiredBy  *time.Time           `gorm:"column:required_by"`
	Notes       *string              `gorm:"column:notes;type:text"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
