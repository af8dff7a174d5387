package relational

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/bloodbank-backend/internal/storage"
	"github.com/angelmondragon/bloodbank-backend/pkg/db/models"
)

type donorRepo struct{ conn *gorm.DB }

func (r donorRepo) scope(ctx context.Context, f storage.DonorFilter) *gorm.DB {
	q := r.conn.WithContext(ctx).Model(&models.Donor{})
	if f.BloodType != nil {
		q = q.Where("blood_type = ?", *f.BloodType)
	}
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}
	if f.Search != "" {
		like := likePattern(f.Search)
		q = q.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}
	return q
}

func (r donorRepo) Create(ctx context.Context, donor *models.Donor) error {
	return create(ctx, r.conn, &donor.ID, donor)
}

func (r donorRepo) Get(ctx context.Context, id uuid.UUID) (*models.Donor, error) {
	return getByID[models.Donor](ctx, r.conn, id)
}

func (r donorRepo) Update(ctx context.Context, donor *models.Donor) error {
	return update(ctx, r.conn, donor.ID, donor)
}

func (r donorRepo) List(ctx context.Context, f storage.DonorFilter, p storage.PageQuery) ([]models.Donor, error) {
	var rows []models.Donor
	if err := paged(r.scope(ctx, f), p).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r donorRepo) Count(ctx context.Context, f storage.DonorFilter) (int64, error) {
	return count(r.scope(ctx, f))
}

type recipientRepo struct{ conn *gorm.DB }

func (r recipientRepo) scope(ctx context.Context, f storage.RecipientFilter) *gorm.DB {
	q := r.conn.WithContext(ctx).Model(&models.Recipient{})
	if f.BloodType != nil {
		q = q.Where("blood_type = ?", *f.BloodType)
	}
	if f.HospitalID != nil {
		q = q.Where("hospital_id = ?", *f.HospitalID)
	}
	if f.Search != "" {
		like := likePattern(f.Search)
		q = q.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like)
	}
	return q
}

func (r recipientRepo) Create(ctx context.Context, recipient *models.Recipient) error {
	return create(ctx, r.conn, &recipient.ID, recipient)
}

func (r recipientRepo) Get(ctx context.Context, id uuid.UUID) (*models.Recipient, error) {
	return getByID[models.Recipient](ctx, r.conn, id)
}

func (r recipientRepo) Update(ctx context.Context, recipient *models.Recipient) error {
	return update(ctx, r.conn, recipient.ID, recipient)
}

func (r recipientRepo) List(ctx context.Context, f storage.RecipientFilter, p storage.PageQuery) ([]models.Recipient, error) {
	var rows []models.Recipient
	if err := paged(r.scope(ctx, f), p).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r recipientRepo) Count(ctx context.Context, f storage.RecipientFilter) (int64, error) {
	return count(r.scope(ctx, f))
}

type hospitalRepo struct{ conn *gorm.DB }

func (r hospitalRepo) scope(ctx context.Context, f storage.HospitalFilter) *gorm.DB {
	q := r.conn.WithContext(ctx).Model(&models.Hospital{})
	if f.City != "" {
		q = q.Where("LOWER(city) = LOWER(?)", f.City)
	}
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}
	if f.Search != "" {
		like := likePattern(f.Search)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(city) LIKE ?", like, like)
	}
	return q
}

func (r hospitalRepo) Create(ctx context.Context, hospital *models.Hospital) error {
	return create(ctx, r.conn, &hospital.ID, hospital)
}

func (r hospitalRepo) Get(ctx context.Context, id uuid.UUID) (*models.Hospital, error) {
	return getByID[models.Hospital](ctx, r.conn, id)
}

func (r hospitalRepo) Update(ctx context.Context, hospital *models.Hospital) error {
	return update(ctx, r.conn, hospital.ID, hospital)
}

func (r hospitalRepo) List(ctx context.Context, f storage.HospitalFilter, p storage.PageQuery) ([]models.Hospital, error) {
	var rows []models.Hospital
	if err := paged(r.scope(ctx, f), p).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r hospitalRepo) Count(ctx context.Context, f storage.HospitalFilter) (int64, error) {
	return count(r.scope(ctx, f))
}

type inventoryRepo struct{ conn *gorm.DB }

func (r inventoryRepo) scope(ctx context.Context, f storage.InventoryFilter) *gorm.DB {
	q := r.conn.WithContext(ctx).Model(&models.InventoryUnit{})
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.BloodType != nil {
		q = q.Where("blood_type = ?", *f.BloodType)
	}
	if f.DonorID != nil {
		q = q.Where("donor_id = ?", *f.DonorID)
	}
	if f.ExpiresBefore != nil {
		q = q.Where("expiry_date < ?", *f.ExpiresBefore)
	}
	return q
}

func (r inventoryRepo) Create(ctx context.Context, unit *models.InventoryUnit) error {
	return create(ctx, r.conn, &unit.ID, unit)
}

func (r inventoryRepo) Get(ctx context.Context, id uuid.UUID) (*models.InventoryUnit, error) {
	return getByID[models.InventoryUnit](ctx, r.conn, id)
}

func (r inventoryRepo) Update(ctx context.Context, unit *models.InventoryUnit) error {
	return update(ctx, r.conn, unit.ID, unit)
}

func (r inventoryRepo) List(ctx context.Context, f storage.InventoryFilter, p storage.PageQuery) ([]models.InventoryUnit, error) {
	var rows []models.InventoryUnit
	if err := paged(r.scope(ctx, f), p).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r inventoryRepo) Find(ctx context.Context, f storage.InventoryFilter) ([]models.InventoryUnit, error) {
	var rows []models.InventoryUnit
	if err := r.scope(ctx, f).Order("expiry_date ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r inventoryRepo) Count(ctx context.Context, f storage.InventoryFilter) (int64, error) {
	return count(r.scope(ctx, f))
}

type requestRepo struct{ conn *gorm.DB }

func (r requestRepo) scope(ctx context.Context, f storage.RequestFilter) *gorm.DB {
	q := r.conn.WithContext(ctx).Model(&models.BloodRequest{})
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.HospitalID != nil {
		q = q.Where("hospital_id = ?", *f.HospitalID)
	}
	if f.BloodType != nil {
		q = q.Where("blood_type = ?", *f.BloodType)
	}
	return q
}

func (r requestRepo) Create(ctx context.Context, request *models.BloodRequest) error {
	return create(ctx, r.conn, &request.ID, request)
}

func (r requestRepo) Get(ctx context.Context, id uuid.UUID) (*models.BloodRequest, error) {
	return getByID[models.BloodRequest](ctx, r.conn, id)
}

func (r requestRepo) Update(ctx context.Context, request *models.BloodRequest) error {
	return update(ctx, r.conn, request.ID, request)
}

func (r requestRepo) List(ctx context.Context, f storage.RequestFilter, p storage.PageQuery) ([]models.BloodRequest, error) {
	var rows []models.BloodRequest
	if err := paged(r.scope(ctx, f), p).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r requestRepo) Count(ctx context.Context, f storage.RequestFilter) (int64, error) {
	return count(r.scope(ctx, f))
}

type transactionRepo struct{ conn *gorm.DB }

func (r transactionRepo) scope(ctx context.Context, f storage.TransactionFilter) *gorm.DB {
	q := r.conn.WithContext(ctx).Model(&models.Transaction{})
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.BloodType != nil {
		q = q.Where("blood_type = ?", *f.BloodType)
	}
	if f.DonorID != nil {
		q = q.Where("donor_id = ?", *f.DonorID)
	}
	if f.HospitalID != nil {
		q = q.Where("hospital_id = ?", *f.HospitalID)
	}
	return q
}

func (r transactionRepo) Create(ctx context.Context, txn *models.Transaction) error {
	return create(ctx, r.conn, &txn.ID, txn)
}

func (r transactionRepo) Get(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	return getByID[models.Transaction](ctx, r.conn, id)
}

func (r transactionRepo) List(ctx context.Context, f storage.TransactionFilter, p storage.PageQuery) ([]models.Transaction, error) {
	var rows []models.Transaction
	if err := paged(r.scope(ctx, f), p).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r transactionRepo) Count(ctx context.Context, f storage.TransactionFilter) (int64, error) {
	return count(r.scope(ctx, f))
}

type alertRepo struct{ conn *gorm.DB }

func (r alertRepo) scope(ctx context.Context, f storage.AlertFilter) *gorm.DB {
	q := r.conn.WithContext(ctx).Model(&models.Alert{})
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.BloodType != nil {
		q = q.Where("blood_type = ?", *f.BloodType)
	}
	if f.Resolved != nil {
		if *f.Resolved {
			q = q.Where("resolved_at IS NOT NULL")
		} else {
			q = q.Where("resolved_at IS NULL")
		}
	}
	return q
}

func (r alertRepo) Create(ctx context.Context, alert *models.Alert) error {
	return create(ctx, r.conn, &alert.ID, alert)
}

func (r alertRepo) Get(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	return getByID[models.Alert](ctx, r.conn, id)
}

func (r alertRepo) Update(ctx context.Context, alert *models.Alert) error {
	return update(ctx, r.conn, alert.ID, alert)
}

func (r alertRepo) List(ctx context.Context, f storage.AlertFilter, p storage.PageQuery) ([]models.Alert, error) {
	var rows []models.Alert
	if err := paged(r.scope(ctx, f), p).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r alertRepo) Count(ctx context.Context, f storage.AlertFilter) (int64, error) {
	return count(r.scope(ctx, f))
}
