package hospitals

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/bloodbank-backend/pkg/db/models"
	"github.com/angelmondragon/bloodbank-backend/pkg/pagination"
)

type HospitalDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	ContactPerson *string   `json:"contactPerson,omitempty"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type CreateHospitalInput struct {
	Name          string
	Address       string
	City          string
	Phone         string
	Email         string
	ContactPerson *string
	IsActive      *bool
}

type UpdateHospitalInput struct {
	Name          *string
	Address       *string
	City          *string
	Phone         *string
	Email         *string
	ContactPerson *string
	IsActive      *bool
}

type ListParams struct {
	City       string
	Active     *bool
	Search     string
	Pagination pagination.Params
}

func FromModel(m models.Hospital) HospitalDTO {
	return HospitalDTO{
		ID:            m.ID,
		Name:          m.Name,
		Address:       m.Address,
		City:          m.City,
		Phone:         m.Phone,
		Email:         m.Email,
		ContactPerson: m.ContactPerson,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
