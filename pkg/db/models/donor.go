package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
)

// Donor is a person registered to give blood.
type Donor struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	FirstName        string          `gorm:"column:first_name;type:text;not null"`
	LastName         string          `gorm:"column:last_name;type:text;not null"`
	BloodType        enums.BloodType `gorm:"column:blood_type;type:text;not null;index"`
	Email            string          `gorm:"column:email;type:text;not null;uniqueIndex"`
	Phone            string          `gorm:"column:phone;type:text;not null"`
	DateOfBirth      time.Time       `gorm:"column:date_of_birth;type:date;not null"`
	Gender           enums.Gender    `gorm:"column:gender;type:text;not null"`
	Address          *string         `gorm:"column:address;type:text"`
	LastDonationDate *time.Time      `gorm:"column:last_donation_date"`
	IsActive         bool            `gorm:"column:is_active;not null"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// FullName joins first and last name.
func (d Donor) FullName() string {
	return d.FirstName + " " + d.LastName
}
