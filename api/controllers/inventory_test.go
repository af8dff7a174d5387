package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/bloodbank-backend/internal/inventory"
	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bloodbank-backend/pkg/errors"
	"github.com/angelmondragon/bloodbank-backend/pkg/logger"
	"github.com/angelmondragon/bloodbank-backend/pkg/pagination"
)

type stubInventory struct {
	listParams   inventory.ListParams
	expiringDays int
	statusID     uuid.UUID
	status       enums.InventoryStatus
	err          error
}

func (s *stubInventory) AddUnit(context.Context, inventory.AddUnitInput) (*inventory.UnitDTO, error) {
	return &inventory.UnitDTO{ID: uuid.New()}, s.err
}

func (s *stubInventory) GetUnit(_ context.Context, id uuid.UUID) (*inventory.UnitDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &inventory.UnitDTO{ID: id}, nil
}

func (s *stubInventory) ListUnits(_ context.Context, params inventory.ListParams) (*pagination.Page[inventory.UnitDTO], error) {
	s.listParams = params
	return &pagination.Page[inventory.UnitDTO]{Items: []inventory.UnitDTO{}}, s.err
}

func (s *stubInventory) UpdateStatus(_ context.Context, id uuid.UUID, status enums.InventoryStatus) (*inventory.UnitDTO, error) {
	s.statusID = id
	s.status = status
	if s.err != nil {
		return nil, s.err
	}
	return &inventory.UnitDTO{ID: id, Status: status}, nil
}

func (s *stubInventory) Summary(context.Context) ([]inventory.BloodTypeSummary, error) {
	return nil, s.err
}

func (s *stubInventory) ExpiringSoon(_ context.Context, days int) ([]inventory.ExpiringUnitDTO, error) {
	s.expiringDays = days
	return []inventory.ExpiringUnitDTO{}, s.err
}

func TestInventoryListParsesFilters(t *testing.T) {
	svc := &stubInventory{}
	donor := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory?status=reserved&bloodType=ab%2B&donorId="+donor.String()+"&limit=5&cursor=abc", nil)
	rec := httptest.NewRecorder()

	InventoryList(svc, logger.Discard())(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, enums.InventoryStatusReserved, *svc.listParams.Status)
	require.Equal(t, enums.BloodType("AB+"), *svc.listParams.BloodType)
	require.Equal(t, donor, *svc.listParams.DonorID)
	require.Equal(t, 5, svc.listParams.Pagination.Limit)
	require.Equal(t, "abc", svc.listParams.Pagination.Cursor)
}

func TestInventoryListRejectsUnknownStatus(t *testing.T) {
	svc := &stubInventory{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory?status=frozen", nil)
	rec := httptest.NewRecorder()

	InventoryList(svc, logger.Discard())(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestInventoryExpiringDaysQuery(t *testing.T) {
	svc := &stubInventory{}

	rec := httptest.NewRecorder()
	InventoryExpiring(svc, logger.Discard())(rec, httptest.NewRequest(http.MethodGet, "/api/v1/inventory/expiring", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, inventory.HorizonWindow, svc.expiringDays)

	rec = httptest.NewRecorder()
	InventoryExpiring(svc, logger.Discard())(rec, httptest.NewRequest(http.MethodGet, "/api/v1/inventory/expiring?days=0", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 0, svc.expiringDays)

	rec = httptest.NewRecorder()
	InventoryExpiring(svc, logger.Discard())(rec, httptest.NewRequest(http.MethodGet, "/api/v1/inventory/expiring?days=14", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 14, svc.expiringDays)

	rec = httptest.NewRecorder()
	InventoryExpiring(svc, logger.Discard())(rec, httptest.NewRequest(http.MethodGet, "/api/v1/inventory/expiring?days=soon", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInventoryUpdateStatusMapsServiceErrors(t *testing.T) {
	id := uuid.New()
	newRequest := func(body string) *http.Request {
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/inventory/"+id.String()+"/status", strings.NewReader(body))
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id.String())
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	svc := &stubInventory{}
	rec := httptest.NewRecorder()
	InventoryUpdateStatus(svc, logger.Discard())(rec, newRequest(`{"status":"reserved"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, id, svc.statusID)
	require.Equal(t, enums.InventoryStatusReserved, svc.status)

	svc.err = pkgerrors.InvalidTransition("inventory unit", "expired", "available")
	rec = httptest.NewRecorder()
	InventoryUpdateStatus(svc, logger.Discard())(rec, newRequest(`{"status":"available"}`))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	svc.err = errors.New("disk on fire")
	rec = httptest.NewRecorder()
	InventoryUpdateStatus(svc, logger.Discard())(rec, newRequest(`{"status":"available"}`))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "disk on fire")

	rec = httptest.NewRecorder()
	InventoryUpdateStatus(svc, logger.Discard())(rec, newRequest(`{"status":"available","extra":1}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
