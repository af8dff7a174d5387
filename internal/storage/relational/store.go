// Package relational implements storage.Store on gorm. Postgres schemas come
// from the goose migrations; sqlite databases use AutoMigrate.
package relational

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/bloodbank-backend/internal/storage"
	"github.com/angelmondragon/bloodbank-backend/pkg/db"
	"github.com/angelmondragon/bloodbank-backend/pkg/db/models"
)

type Store struct {
	conn   *gorm.DB
	client *db.Client
}

var _ storage.Store = (*Store)(nil)

func New(client *db.Client) *Store {
	return &Store{conn: client.DB(), client: client}
}

// NewFromGorm binds the store to an existing connection or transaction.
func NewFromGorm(conn *gorm.DB) *Store {
	return &Store{conn: conn}
}

// AutoMigrate creates or updates every table from the gorm models.
func (s *Store) AutoMigrate(ctx context.Context) error {
	return s.conn.WithContext(ctx).AutoMigrate(models.All()...)
}

func (s *Store) Donors() storage.DonorRepository {
	return donorRepo{conn: s.conn}
}

func (s *Store) Recipients() storage.RecipientRepository {
	return recipientRepo{conn: s.conn}
}

func (s *Store) Hospitals() storage.HospitalRepository {
	return hospitalRepo{conn: s.conn}
}

func (s *Store) Inventory() storage.InventoryRepository {
	return inventoryRepo{conn: s.conn}
}

func (s *Store) Requests() storage.RequestRepository {
	return requestRepo{conn: s.conn}
}

func (s *Store) Transactions() storage.TransactionRepository {
	return transactionRepo{conn: s.conn}
}

func (s *Store) Alerts() storage.AlertRepository {
	return alertRepo{conn: s.conn}
}

func (s *Store) WithTx(ctx context.Context, fn func(tx storage.Store) error) error {
	run := func(tx *gorm.DB) error {
		return fn(&Store{conn: tx})
	}
	if s.client != nil {
		return s.client.WithTx(ctx, run)
	}
	// already inside a transaction: gorm nests with a savepoint
	return s.conn.WithContext(ctx).Transaction(run)
}

func (s *Store) Ping(ctx context.Context) error {
	if s.client != nil {
		return s.client.Ping(ctx)
	}
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return storage.ErrNotFound
	case db.IsUniqueViolation(err, ""):
		return fmt.Errorf("%w: %v", storage.ErrConflict, err)
	default:
		return err
	}
}

func getByID[T any](ctx context.Context, conn *gorm.DB, id uuid.UUID) (*T, error) {
	var row T
	if err := conn.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

func create(ctx context.Context, conn *gorm.DB, id *uuid.UUID, row any) error {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	return translate(conn.WithContext(ctx).Create(row).Error)
}

// update writes every column except id and created_at.
func update(ctx context.Context, conn *gorm.DB, id uuid.UUID, row any) error {
	res := conn.WithContext(ctx).
		Model(row).
		Where("id = ?", id).
		Select("*").
		Omit("id", "created_at").
		Updates(row)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// paged applies newest-first keyset pagination.
func paged(q *gorm.DB, p storage.PageQuery) *gorm.DB {
	if p.After != nil {
		q = q.Where("(created_at < ?) OR (created_at = ? AND id < ?)", p.After.CreatedAt, p.After.CreatedAt, p.After.ID)
	}
	q = q.Order("created_at DESC").Order("id DESC")
	if p.Limit > 0 {
		q = q.Limit(p.Limit)
	}
	return q
}

func count(q *gorm.DB) (int64, error) {
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func likePattern(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}
