package donors

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/bloodbank-backend/pkg/db/models"
	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
	"github.com/angelmondragon/bloodbank-backend/pkg/pagination"
)

// DonorDTO is the API view of a donor.
type DonorDTO struct {
	ID               uuid.UUID       `json:"id"`
	FirstName        string          `json:"firstName"`
	LastName         string          `json:"lastName"`
	BloodType        enums.BloodType `json:"bloodType"`
	Email            string          `json:"email"`
	Phone            string          `json:"phone"`
	DateOfBirth      time.Time       `json:"dateOfBirth"`
	Gender           enums.Gender    `json:"gender"`
	Address          *string         `json:"address,omitempty"`
	LastDonationDate *time.Time      `json:"lastDonationDate,omitempty"`
	IsActive         bool            `json:"isActive"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type CreateDonorInput struct {
	FirstName   string
	LastName    string
	BloodType   enums.BloodType
	Email       string
	Phone       string
	DateOfBirth time.Time
	Gender      enums.Gender
	Address     *string
	IsActive    *bool
}

// UpdateDonorInput carries a partial update; nil fields are left alone.
type UpdateDonorInput struct {
	FirstName   *string
	LastName    *string
	BloodType   *enums.BloodType
	Email       *string
	Phone       *string
	DateOfBirth *time.Time
	Gender      *enums.Gender
	Address     *string
	IsActive    *bool
}

type ListParams struct {
	BloodType  *enums.BloodType
	Active     *bool
	Search     string
	Pagination pagination.Params
}

func FromModel(m models.Donor) DonorDTO {
	return DonorDTO{
		ID:               m.ID,
		FirstName:        m.FirstName,
		LastName:         m.LastName,
		BloodType:        m.BloodType,
		Email:            m.Email,
		Phone:            m.Phone,
		DateOfBirth:      m.DateOfBirth,
		Gender:           m.Gender,
		Address:          m.Address,
		LastDonationDate: m.LastDonationDate,
		IsActive:         m.IsActive,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func donorCursor(m models.Donor) pagination.Cursor {
	return pagination.Cursor{CreatedAt: m.CreatedAt, ID: m.ID}
}
