package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/bloodbank-backend/internal/storage"
	"github.com/angelmondragon/bloodbank-backend/pkg/db/models"
	"github.com/angelmondragon/bloodbank-backend/pkg/pagination"
)

type donorRepo struct {
	st   *state
	inTx bool
}

func donorKey(d models.Donor) pagination.Cursor {
	return pagination.Cursor{CreatedAt: d.CreatedAt, ID: d.ID}
}

func donorMatch(f storage.DonorFilter) func(models.Donor) bool {
	return func(d models.Donor) bool {
		return eqPtr(f.BloodType, d.BloodType) &&
			eqPtr(f.Active, d.IsActive) &&
			containsFold(f.Search, d.FirstName, d.LastName, d.Email)
	}
}

func (r donorRepo) Create(_ context.Context, donor *models.Donor) error {
	defer r.st.lockWrite(r.inTx)()
	for _, existing := range r.st.donors {
		if strings.EqualFold(existing.Email, donor.Email) {
			return storage.ErrConflict
		}
	}
	stamps(&donor.ID, &donor.CreatedAt, &donor.UpdatedAt, r.st.now())
	r.st.donors[donor.ID] = *donor
	return nil
}

func (r donorRepo) Get(_ context.Context, id uuid.UUID) (*models.Donor, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return lookup(r.st.donors, id)
}

func (r donorRepo) Update(_ context.Context, donor *models.Donor) error {
	defer r.st.lockWrite(r.inTx)()
	current, ok := r.st.donors[donor.ID]
	if !ok {
		return storage.ErrNotFound
	}
	for id, existing := range r.st.donors {
		if id != donor.ID && strings.EqualFold(existing.Email, donor.Email) {
			return storage.ErrConflict
		}
	}
	donor.CreatedAt = current.CreatedAt
	donor.UpdatedAt = r.st.now()
	r.st.donors[donor.ID] = *donor
	return nil
}

func (r donorRepo) List(_ context.Context, f storage.DonorFilter, q storage.PageQuery) ([]models.Donor, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return page(r.st.donors, donorMatch(f), donorKey, q), nil
}

func (r donorRepo) Count(_ context.Context, f storage.DonorFilter) (int64, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return count(r.st.donors, donorMatch(f)), nil
}

type recipientRepo struct {
	st   *state
	inTx bool
}

func recipientKey(rc models.Recipient) pagination.Cursor {
	return pagination.Cursor{CreatedAt: rc.CreatedAt, ID: rc.ID}
}

func recipientMatch(f storage.RecipientFilter) func(models.Recipient) bool {
	return func(rc models.Recipient) bool {
		return eqPtr(f.BloodType, rc.BloodType) &&
			eqOptional(f.HospitalID, rc.HospitalID) &&
			containsFold(f.Search, rc.FirstName, rc.LastName)
	}
}

func (r recipientRepo) Create(_ context.Context, recipient *models.Recipient) error {
	defer r.st.lockWrite(r.inTx)()
	stamps(&recipient.ID, &recipient.CreatedAt, &recipient.UpdatedAt, r.st.now())
	r.st.recipients[recipient.ID] = *recipient
	return nil
}

func (r recipientRepo) Get(_ context.Context, id uuid.UUID) (*models.Recipient, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return lookup(r.st.recipients, id)
}

func (r recipientRepo) Update(_ context.Context, recipient *models.Recipient) error {
	defer r.st.lockWrite(r.inTx)()
	current, ok := r.st.recipients[recipient.ID]
	if !ok {
		return storage.ErrNotFound
	}
	recipient.CreatedAt = current.CreatedAt
	recipient.UpdatedAt = r.st.now()
	r.st.recipients[recipient.ID] = *recipient
	return nil
}

func (r recipientRepo) List(_ context.Context, f storage.RecipientFilter, q storage.PageQuery) ([]models.Recipient, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return page(r.st.recipients, recipientMatch(f), recipientKey, q), nil
}

func (r recipientRepo) Count(_ context.Context, f storage.RecipientFilter) (int64, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return count(r.st.recipients, recipientMatch(f)), nil
}

type hospitalRepo struct {
	st   *state
	inTx bool
}

func hospitalKey(h models.Hospital) pagination.Cursor {
	return pagination.Cursor{CreatedAt: h.CreatedAt, ID: h.ID}
}

func hospitalMatch(f storage.HospitalFilter) func(models.Hospital) bool {
	return func(h models.Hospital) bool {
		if f.City != "" && !strings.EqualFold(f.City, h.City) {
			return false
		}
		return eqPtr(f.Active, h.IsActive) && containsFold(f.Search, h.Name, h.City)
	}
}

func (r hospitalRepo) Create(_ context.Context, hospital *models.Hospital) error {
	defer r.st.lockWrite(r.inTx)()
	for _, existing := range r.st.hospitals {
		if existing.Name == hospital.Name {
			return storage.ErrConflict
		}
	}
	stamps(&hospital.ID, &hospital.CreatedAt, &hospital.UpdatedAt, r.st.now())
	r.st.hospitals[hospital.ID] = *hospital
	return nil
}

func (r hospitalRepo) Get(_ context.Context, id uuid.UUID) (*models.Hospital, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return lookup(r.st.hospitals, id)
}

func (r hospitalRepo) Update(_ context.Context, hospital *models.Hospital) error {
	defer r.st.lockWrite(r.inTx)()
	current, ok := r.st.hospitals[hospital.ID]
	if !ok {
		return storage.ErrNotFound
	}
	for id, existing := range r.st.hospitals {
		if id != hospital.ID && existing.Name == hospital.Name {
			return storage.ErrConflict
		}
	}
	hospital.CreatedAt = current.CreatedAt
	hospital.UpdatedAt = r.st.now()
	r.st.hospitals[hospital.ID] = *hospital
	return nil
}

func (r hospitalRepo) List(_ context.Context, f storage.HospitalFilter, q storage.PageQuery) ([]models.Hospital, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return page(r.st.hospitals, hospitalMatch(f), hospitalKey, q), nil
}

func (r hospitalRepo) Count(_ context.Context, f storage.HospitalFilter) (int64, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return count(r.st.hospitals, hospitalMatch(f)), nil
}

type inventoryRepo struct {
	st   *state
	inTx bool
}

func unitKey(u models.InventoryUnit) pagination.Cursor {
	return pagination.Cursor{CreatedAt: u.CreatedAt, ID: u.ID}
}

func unitMatch(f storage.InventoryFilter) func(models.InventoryUnit) bool {
	return func(u models.InventoryUnit) bool {
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, u.Status) {
			return false
		}
		if f.ExpiresBefore != nil && !u.ExpiryDate.Before(*f.ExpiresBefore) {
			return false
		}
		return eqPtr(f.BloodType, u.BloodType) && eqOptional(f.DonorID, u.DonorID)
	}
}

func bagTaken(units map[uuid.UUID]models.InventoryUnit, unit *models.InventoryUnit) bool {
	if unit.BagNumber == nil {
		return false
	}
	for id, existing := range units {
		if id != unit.ID && existing.BagNumber != nil && *existing.BagNumber == *unit.BagNumber {
			return true
		}
	}
	return false
}

func (r inventoryRepo) Create(_ context.Context, unit *models.InventoryUnit) error {
	defer r.st.lockWrite(r.inTx)()
	if bagTaken(r.st.units, unit) {
		return storage.ErrConflict
	}
	stamps(&unit.ID, &unit.CreatedAt, &unit.UpdatedAt, r.st.now())
	r.st.units[unit.ID] = *unit
	return nil
}

func (r inventoryRepo) Get(_ context.Context, id uuid.UUID) (*models.InventoryUnit, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return lookup(r.st.units, id)
}

func (r inventoryRepo) Update(_ context.Context, unit *models.InventoryUnit) error {
	defer r.st.lockWrite(r.inTx)()
	current, ok := r.st.units[unit.ID]
	if !ok {
		return storage.ErrNotFound
	}
	if bagTaken(r.st.units, unit) {
		return storage.ErrConflict
	}
	unit.CreatedAt = current.CreatedAt
	unit.UpdatedAt = r.st.now()
	r.st.units[unit.ID] = *unit
	return nil
}

func (r inventoryRepo) List(_ context.Context, f storage.InventoryFilter, q storage.PageQuery) ([]models.InventoryUnit, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return page(r.st.units, unitMatch(f), unitKey, q), nil
}

func (r inventoryRepo) Find(_ context.Context, f storage.InventoryFilter) ([]models.InventoryUnit, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	match := unitMatch(f)
	out := make([]models.InventoryUnit, 0)
	for _, u := range r.st.units {
		if match(u) {
			out = append(out, u)
		}
	}
	slices.SortFunc(out, func(a, b models.InventoryUnit) int {
		if c := a.ExpiryDate.Compare(b.ExpiryDate); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out, nil
}

func (r inventoryRepo) Count(_ context.Context, f storage.InventoryFilter) (int64, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return count(r.st.units, unitMatch(f)), nil
}

type requestRepo struct {
	st   *state
	inTx bool
}

func requestKey(b models.BloodRequest) pagination.Cursor {
	return pagination.Cursor{CreatedAt: b.CreatedAt, ID: b.ID}
}

func requestMatch(f storage.RequestFilter) func(models.BloodRequest) bool {
	return func(b models.BloodRequest) bool {
		return eqPtr(f.Status, b.Status) && eqPtr(f.HospitalID, b.HospitalID) && eqPtr(f.BloodType, b.BloodType)
	}
}

func (r requestRepo) Create(_ context.Context, request *models.BloodRequest) error {
	defer r.st.lockWrite(r.inTx)()
	stamps(&request.ID, &request.CreatedAt, &request.UpdatedAt, r.st.now())
	r.st.requests[request.ID] = *request
	return nil
}

func (r requestRepo) Get(_ context.Context, id uuid.UUID) (*models.BloodRequest, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return lookup(r.st.requests, id)
}

func (r requestRepo) Update(_ context.Context, request *models.BloodRequest) error {
	defer r.st.lockWrite(r.inTx)()
	current, ok := r.st.requests[request.ID]
	if !ok {
		return storage.ErrNotFound
	}
	request.CreatedAt = current.CreatedAt
	request.UpdatedAt = r.st.now()
	r.st.requests[request.ID] = *request
	return nil
}

func (r requestRepo) List(_ context.Context, f storage.RequestFilter, q storage.PageQuery) ([]models.BloodRequest, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return page(r.st.requests, requestMatch(f), requestKey, q), nil
}

func (r requestRepo) Count(_ context.Context, f storage.RequestFilter) (int64, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return count(r.st.requests, requestMatch(f)), nil
}

type transactionRepo struct {
	st   *state
	inTx bool
}

func transactionKey(t models.Transaction) pagination.Cursor {
	return pagination.Cursor{CreatedAt: t.CreatedAt, ID: t.ID}
}

func transactionMatch(f storage.TransactionFilter) func(models.Transaction) bool {
	return func(t models.Transaction) bool {
		return eqPtr(f.Type, t.Type) &&
			eqPtr(f.BloodType, t.BloodType) &&
			eqOptional(f.DonorID, t.DonorID) &&
			eqOptional(f.HospitalID, t.HospitalID)
	}
}

func (r transactionRepo) Create(_ context.Context, txn *models.Transaction) error {
	defer r.st.lockWrite(r.inTx)()
	stamps(&txn.ID, &txn.CreatedAt, &txn.UpdatedAt, r.st.now())
	r.st.transactions[txn.ID] = *txn
	return nil
}

func (r transactionRepo) Get(_ context.Context, id uuid.UUID) (*models.Transaction, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return lookup(r.st.transactions, id)
}

func (r transactionRepo) List(_ context.Context, f storage.TransactionFilter, q storage.PageQuery) ([]models.Transaction, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return page(r.st.transactions, transactionMatch(f), transactionKey, q), nil
}

func (r transactionRepo) Count(_ context.Context, f storage.TransactionFilter) (int64, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return count(r.st.transactions, transactionMatch(f)), nil
}

type alertRepo struct {
	st   *state
	inTx bool
}

func alertKey(a models.Alert) pagination.Cursor {
	return pagination.Cursor{CreatedAt: a.CreatedAt, ID: a.ID}
}

func alertMatch(f storage.AlertFilter) func(models.Alert) bool {
	return func(a models.Alert) bool {
		if f.Resolved != nil && *f.Resolved == a.IsOpen() {
			return false
		}
		return eqPtr(f.Type, a.Type) && eqOptional(f.BloodType, a.BloodType)
	}
}

func (r alertRepo) Create(_ context.Context, alert *models.Alert) error {
	defer r.st.lockWrite(r.inTx)()
	stamps(&alert.ID, &alert.CreatedAt, &alert.UpdatedAt, r.st.now())
	r.st.alerts[alert.ID] = *alert
	return nil
}

func (r alertRepo) Get(_ context.Context, id uuid.UUID) (*models.Alert, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return lookup(r.st.alerts, id)
}

func (r alertRepo) Update(_ context.Context, alert *models.Alert) error {
	defer r.st.lockWrite(r.inTx)()
	current, ok := r.st.alerts[alert.ID]
	if !ok {
		return storage.ErrNotFound
	}
	alert.CreatedAt = current.CreatedAt
	alert.UpdatedAt = r.st.now()
	r.st.alerts[alert.ID] = *alert
	return nil
}

func (r alertRepo) List(_ context.Context, f storage.AlertFilter, q storage.PageQuery) ([]models.Alert, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return page(r.st.alerts, alertMatch(f), alertKey, q), nil
}

func (r alertRepo) Count(_ context.Context, f storage.AlertFilter) (int64, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return count(r.st.alerts, alertMatch(f)), nil
}
