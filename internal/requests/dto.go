package requests

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/bloodbank-backend/pkg/db/models"
	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
	"github.com/angelmondragon/bloodbank-backend/pkg/pagination"
)

type RequestDTO struct {
	ID          uuid.UUID            `json:"id"`
	HospitalID  uuid.UUID            `json:"hospitalId"`
	RecipientID *uuid.UUID           `json:"recipientId,omitempty"`
	BloodType   enums.BloodType      `json:"bloodType"`
	Units       int                  `json:"units"`
	Urgency     enums.RequestUrgency `json:"urgency"`
	Status      enums.RequestStatus  `json:"status"`
	RequiredBy  *time.Time           `json:"requiredBy,omitempty"`
	Notes       *string              `json:"notes,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// CreateRequestInput opens a request; Urgency defaults to normal.
type CreateRequestInput struct {
	HospitalID  uuid.UUID
	RecipientID *uuid.UUID
	BloodType   enums.BloodType
	Units       int
	Urgency     *enums.RequestUrgency
	RequiredBy  *time.Time
	Notes       *string
}

type ListParams struct {
	Status     *enums.RequestStatus
	HospitalID *uuid.UUID
	BloodType  *enums.BloodType
	Pagination pagination.Params
}

func FromModel(m models.BloodRequest) RequestDTO {
	return RequestDTO{
		ID:          m.ID,
		HospitalID:  m.HospitalID,
		RecipientID: m.RecipientID,
		BloodType:   m.BloodType,
		Units:       m.Units,
		Urgency:     m.Urgency,
		Status:      m.Status,
		RequiredBy:  m.RequiredBy,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
