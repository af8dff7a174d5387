package alerts

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/bloodbank-backend/pkg/db/models"
	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
	"github.com/angelmondragon/bloodbank-backend/pkg/pagination"
)

type AlertDTO struct {
	ID         uuid.UUID           `json:"id"`
	Type       enums.AlertType     `json:"type"`
	Severity   enums.AlertSeverity `json:"severity"`
	BloodType  *enums.BloodType    `json:"bloodType,omitempty"`
	Title      string              `json:"title"`
	Message    string              `json:"message"`
	IsResolved bool                `json:"isResolved"`
	ResolvedAt *time.Time          `json:"resolvedAt,omitempty"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

type CreateAlertInput struct {
	Type      enums.AlertType
	Severity  enums.AlertSeverity
	BloodType *enums.BloodType
	Title     string
	Message   string
}

type ListParams struct {
	Type       *enums.AlertType
	BloodType  *enums.BloodType
	Resolved   *bool
	Pagination pagination.Params
}

func FromModel(m models.Alert) AlertDTO {
	return AlertDTO{
		ID:         m.ID,
		Type:       m.Type,
		Severity:   m.Severity,
		BloodType:  m.BloodType,
		Title:      m.Title,
		Message:    m.Message,
		IsResolved: !m.IsOpen(),
		ResolvedAt: m.ResolvedAt,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
