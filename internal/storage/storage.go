// Package storage defines the persistence boundary shared by every domain
// service. Two adapters implement it: memory (tests, demos) and relational
// (gorm over postgres or sqlite).
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/bloodbank-backend/pkg/db/models"
	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
	"github.com/angelmondragon/bloodbank-backend/pkg/pagination"
)

var (
	// ErrNotFound is returned by Get/Update when no row matches the id.
	ErrNotFound = errors.New("storage: record not found")
	// ErrConflict is returned when a write violates a uniqueness rule.
	ErrConflict = errors.New("storage: unique constraint violated")
)

// Store groups the per-entity repositories behind one transactional handle.
type Store interface {
	Donors() DonorRepository
	Recipients() RecipientRepository
	Hospitals() HospitalRepository
	Inventory() InventoryRepository
	Requests() RequestRepository
	Transactions() TransactionRepository
	Alerts() AlertRepository

	// WithTx runs fn against a Store whose writes commit together or not at all.
	WithTx(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}

// PageQuery asks for up to Limit rows that follow After in newest-first order.
// Callers pass pagination.LimitWithBuffer so an extra row signals another page.
type PageQuery struct {
	Limit int
	After *pagination.Cursor
}

type DonorFilter struct {
	BloodType *enums.BloodType
	Active    *bool
	// Search matches name or email, case-insensitively.
	Search string
}

type DonorRepository interface {
	Create(ctx context.Context, donor *models.Donor) error
	Get(ctx context.Context, id uuid.UUID) (*models.Donor, error)
	Update(ctx context.Context, donor *models.Donor) error
	List(ctx context.Context, filter DonorFilter, page PageQuery) ([]models.Donor, error)
	Count(ctx context.Context, filter DonorFilter) (int64, error)
}

type RecipientFilter struct {
	BloodType  *enums.BloodType
	HospitalID *uuid.UUID
	Search     string
}

type RecipientRepository interface {
	Create(ctx context.Context, recipient *models.Recipient) error
	Get(ctx context.Context, id uuid.UUID) (*models.Recipient, error)
	Update(ctx context.Context, recipient *models.Recipient) error
	List(ctx context.Context, filter RecipientFilter, page PageQuery) ([]models.Recipient, error)
	Count(ctx context.Context, filter RecipientFilter) (int64, error)
}

type HospitalFilter struct {
	City   string
	Active *bool
	Search string
}

type HospitalRepository interface {
	Create(ctx context.Context, hospital *models.Hospital) error
	Get(ctx context.Context, id uuid.UUID) (*models.Hospital, error)
	Update(ctx context.Context, hospital *models.Hospital) error
	List(ctx context.Context, filter HospitalFilter, page PageQuery) ([]models.Hospital, error)
	Count(ctx context.Context, filter HospitalFilter) (int64, error)
}

type InventoryFilter struct {
	Statuses  []enums.InventoryStatus
	BloodType *enums.BloodType
	DonorID   *uuid.UUID
	// ExpiresBefore keeps units whose expiry is strictly before the instant.
	ExpiresBefore *time.Time
}

type InventoryRepository interface {
	Create(ctx context.Context, unit *models.InventoryUnit) error
	Get(ctx context.Context, id uuid.UUID) (*models.InventoryUnit, error)
	Update(ctx context.Context, unit *models.InventoryUnit) error
	List(ctx context.Context, filter InventoryFilter, page PageQuery) ([]models.InventoryUnit, error)
	// Find returns every matching unit ordered by expiry date, soonest first.
	Find(ctx context.Context, filter InventoryFilter) ([]models.InventoryUnit, error)
	Count(ctx context.Context, filter InventoryFilter) (int64, error)
}

type RequestFilter struct {
	Status     *enums.RequestStatus
	HospitalID *uuid.UUID
	BloodType  *enums.BloodType
}

type RequestRepository interface {
	Create(ctx context.Context, request *models.BloodRequest) error
	Get(ctx context.Context, id uuid.UUID) (*models.BloodRequest, error)
	Update(ctx context.Context, request *models.BloodRequest) error
	List(ctx context.Context, filter RequestFilter, page PageQuery) ([]models.BloodRequest, error)
	Count(ctx context.Context, filter RequestFilter) (int64, error)
}

type TransactionFilter struct {
	Type       *enums.TransactionType
	BloodType  *enums.BloodType
	DonorID    *uuid.UUID
	HospitalID *uuid.UUID
}

type TransactionRepository interface {
	Create(ctx context.Context, txn *models.Transaction) error
	Get(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	List(ctx context.Context, filter TransactionFilter, page PageQuery) ([]models.Transaction, error)
	Count(ctx context.Context, filter TransactionFilter) (int64, error)
}

type AlertFilter struct {
	Type      *enums.AlertType
	BloodType *enums.BloodType
	Resolved  *bool
}

type AlertRepository interface {
	Create(ctx context.Context, alert *models.Alert) error
	Get(ctx context.Context, id uuid.UUID) (*models.Alert, error)
	Update(ctx context.Context, alert *models.Alert) error
	List(ctx context.Context, filter AlertFilter, page PageQuery) ([]models.Alert, error)
	Count(ctx context.Context, filter AlertFilter) (int64, error)
}

// Ptr is a small helper for building optional filter fields.
func Ptr[T any](v T) *T {
	return &v
}
