package models

import (
	"time"

	"github.com/google/uuid"
)

type Hospital struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"column:name;type:text;not null;uniqueIndex"`
	Address       string    `gorm:"column:address;type:text;not null"`
	City          string    `gorm:"column:city;type:text;not null;index"`
	Phone         string    `gorm:"column:phone;type:text;not null"`
	Email         string    `gorm:"column:email;type:text;not null"`
	ContactPerson *string   `gorm:"column:contact_person;type:text"`
	IsActive      bool      `gorm:"column:is_active;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
