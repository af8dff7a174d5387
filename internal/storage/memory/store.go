// Package memory is a map-backed storage.Store for tests and demo runs.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/bloodbank-backend/internal/storage"
	"github.com/angelmondragon/bloodbank-backend/pkg/db/models"
)

type state struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	now  func() time.Time

	donors       map[uuid.UUID]models.Donor
	recipients   map[uuid.UUID]models.Recipient
	hospitals    map[uuid.UUID]models.Hospital
	units        map[uuid.UUID]models.InventoryUnit
	requests     map[uuid.UUID]models.BloodRequest
	transactions map[uuid.UUID]models.Transaction
	alerts       map[uuid.UUID]models.Alert
}

type snapshot struct {
	donors       map[uuid.UUID]models.Donor
	recipients   map[uuid.UUID]models.Recipient
	hospitals    map[uuid.UUID]models.Hospital
	units        map[uuid.UUID]models.InventoryUnit
	requests     map[uuid.UUID]models.BloodRequest
	transactions map[uuid.UUID]models.Transaction
	alerts       map[uuid.UUID]models.Alert
}

// Store implements storage.Store. Transactions are serialized and roll back
// by restoring a snapshot taken when they began. Writes outside a transaction
// wait for the running one to finish so a rollback never discards them.
type Store struct {
	st   *state
	inTx bool
}

type Option func(*state)

// WithClock overrides the clock used for created_at/updated_at stamps.
func WithClock(now func() time.Time) Option {
	return func(s *state) {
		if now != nil {
			s.now = now
		}
	}
}

func New(opts ...Option) *Store {
	st := &state{
		now:          func() time.Time { return time.Now().UTC() },
		donors:       map[uuid.UUID]models.Donor{},
		recipients:   map[uuid.UUID]models.Recipient{},
		hospitals:    map[uuid.UUID]models.Hospital{},
		units:        map[uuid.UUID]models.InventoryUnit{},
		requests:     map[uuid.UUID]models.BloodRequest{},
		transactions: map[uuid.UUID]models.Transaction{},
		alerts:       map[uuid.UUID]models.Alert{},
	}
	for _, opt := range opts {
		opt(st)
	}
	return &Store{st: st}
}

var _ storage.Store = (*Store)(nil)

func (s *Store) Donors() storage.DonorRepository {
	return donorRepo{st: s.st, inTx: s.inTx}
}

func (s *Store) Recipients() storage.RecipientRepository {
	return recipientRepo{st: s.st, inTx: s.inTx}
}

func (s *Store) Hospitals() storage.HospitalRepository {
	return hospitalRepo{st: s.st, inTx: s.inTx}
}

func (s *Store) Inventory() storage.InventoryRepository {
	return inventoryRepo{st: s.st, inTx: s.inTx}
}

func (s *Store) Requests() storage.RequestRepository {
	return requestRepo{st: s.st, inTx: s.inTx}
}

func (s *Store) Transactions() storage.TransactionRepository {
	return transactionRepo{st: s.st, inTx: s.inTx}
}

func (s *Store) Alerts() storage.AlertRepository {
	return alertRepo{st: s.st, inTx: s.inTx}
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// WithTx serializes fn with other transactions. Nested calls join the outer one.
func (s *Store) WithTx(ctx context.Context, fn func(tx storage.Store) error) (err error) {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.st.txMu.Lock()
	defer s.st.txMu.Unlock()

	snap := s.st.snapshot()
	defer func() {
		if r := recover(); r != nil {
			s.st.restore(snap)
			panic(r)
		}
	}()

	if err = fn(&Store{st: s.st, inTx: true}); err != nil {
		s.st.restore(snap)
	}
	return err
}

// lockWrite takes the write lock, plus txMu when the caller is not already
// inside WithTx. Call it as defer st.lockWrite(inTx)().
func (st *state) lockWrite(inTx bool) func() {
	if !inTx {
		st.txMu.Lock()
	}
	st.mu.Lock()
	return func() {
		st.mu.Unlock()
		if !inTx {
			st.txMu.Unlock()
		}
	}
}

func (st *state) snapshot() snapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return snapshot{
		donors:       maps.Clone(st.donors),
		recipients:   maps.Clone(st.recipients),
		hospitals:    maps.Clone(st.hospitals),
		units:        maps.Clone(st.units),
		requests:     maps.Clone(st.requests),
		transactions: maps.Clone(st.transactions),
		alerts:       maps.Clone(st.alerts),
	}
}

func (st *state) restore(snap snapshot) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.donors = snap.donors
	st.recipients = snap.recipients
	st.hospitals = snap.hospitals
	st.units = snap.units
	st.requests = snap.requests
	st.transactions = snap.transactions
	st.alerts = snap.alerts
}
