package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
)

type Alert struct {
	ID         uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Type       enums.AlertType     `gorm:"column:type;type:text;not null;index:idx_alerts_type_open"`
	Severity   enums.AlertSeverity `gorm:"column:severity;type:text;not null"`
	BloodType  *enums.BloodType    `gorm:"column:blood_type;type:text"`
	Title      string              `gorm:"column:title;type:text;not null"`
	Message    string              `gorm:"column:message;type:text;not null"`
	ResolvedAt *time.Time          `gorm:"column:resolved_at;index:idx_alerts_type_open"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// IsOpen reports whether the alert still needs attention.
func (a Alert) IsOpen() bool {
	return a.ResolvedAt == nil
}
