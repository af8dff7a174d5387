package recipients

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/bloodbank-backend/pkg/db/models"
	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
	"github.com/angelmondragon/bloodbank-backend/pkg/pagination"
)

type RecipientDTO struct {
	ID               uuid.UUID       `json:"id"`
	FirstName        string          `json:"firstName"`
	LastName         string          `json:"lastName"`
	BloodType        enums.BloodType `json:"bloodType"`
	DateOfBirth      time.Time       `json:"dateOfBirth"`
	MedicalCondition *string         `json:"medicalCondition,omitempty"`
	HospitalID       *uuid.UUID      `json:"hospitalId,omitempty"`
	ContactPhone     string          `json:"contactPhone"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type CreateRecipientInput struct {
	FirstName        string
	LastName         string
	BloodType        enums.BloodType
	DateOfBirth      time.Time
	MedicalCondition *string
	HospitalID       *uuid.UUID
	ContactPhone     string
}

type UpdateRecipientInput struct {
	FirstName        *string
	LastName         *string
	BloodType        *enums.BloodType
	DateOfBirth      *time.Time
	MedicalCondition *string
	HospitalID       *uuid.UUID
	ContactPhone     *string
}

type ListParams struct {
	BloodType  *enums.BloodType
	HospitalID *uuid.UUID
	Search     string
	Pagination pagination.Params
}

func FromModel(m models.Recipient) RecipientDTO {
	return RecipientDTO{
		ID:               m.ID,
		FirstName:        m.FirstName,
		LastName:         m.LastName,
		BloodType:        m.BloodType,
		DateOfBirth:      m.DateOfBirth,
		MedicalCondition: m.MedicalCondition,
		HospitalID:       m.HospitalID,
		ContactPhone:     m.ContactPhone,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
