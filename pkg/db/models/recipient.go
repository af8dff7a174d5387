package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
)

// Recipient is a patient who may receive blood through a hospital.
type Recipient struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	FirstName        string          `gorm:"column:first_name;type:text;not null"`
	LastName         string          `gorm:"column:last_name;type:text;not null"`
	BloodType        enums.BloodType `gorm:"column:blood_type;type:text;not null;index"`
	DateOfBirth      time.Time       `gorm:"column:date_of_birth;type:date;not null"`
	MedicalCondition *string         `gorm:"column:medical_condition;type:text"`
	HospitalID       *uuid.UUID      `gorm:"column:hospital_id;type:uuid;index"`
	ContactPhone     string          `gorm:"column:contact_phone;type:text;not null"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
