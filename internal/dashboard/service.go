// Package dashboard aggregates the counters shown on the operator home page.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/bloodbank-backend/internal/inventory"
	"github.com/angelmondragon/bloodbank-backend/internal/storage"
	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bloodbank-backend/pkg/errors"
)

type StatsDTO struct {
	TotalDonors        int64                        `json:"totalDonors"`
	ActiveDonors       int64                        `json:"activeDonors"`
	TotalRecipients    int64                        `json:"totalRecipients"`
	TotalHospitals     int64                        `json:"totalHospitals"`
	PendingRequests    int64                        `json:"pendingRequests"`
	OpenAlerts         int64                        `json:"openAlerts"`
	AvailableUnits     int                          `json:"availableUnits"`
	ExpiringUnits      int                          `json:"expiringUnits"`
	CriticalBloodTypes []enums.BloodType            `json:"criticalBloodTypes"`
	BloodTypes         []inventory.BloodTypeSummary `json:"bloodTypes"`
	GeneratedAt        time.Time                    `json:"generatedAt"`
}

type Service interface {
	Stats(ctx context.Context) (*StatsDTO, error)
}

type service struct {
	store     storage.Store
	inventory inventory.Service
	now       func() time.Time
}

func NewService(store storage.Store, inv inventory.Service, now func() time.Time) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("storage required")
	}
	if inv == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{store: store, inventory: inv, now: now}, nil
}

// Stats runs every count and the inventory summary concurrently; the first
// failure cancels the rest.
func (s *service) Stats(ctx context.Context) (*StatsDTO, error) {
	out := &StatsDTO{GeneratedAt: s.now().UTC()}
	g, gctx := errgroup.WithContext(ctx)

	count := func(dst *int64, what string, fn func(context.Context) (int64, error)) {
		g.Go(func() error {
			n, err := fn(gctx)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count "+what)
			}
			*dst = n
			return nil
		})
	}

	active, pending, open := true, enums.RequestStatusPending, false
	count(&out.TotalDonors, "donors", func(ctx context.Context) (int64, error) {
		return s.store.Donors().Count(ctx, storage.DonorFilter{})
	})
	count(&out.ActiveDonors, "active donors", func(ctx context.Context) (int64, error) {
		return s.store.Donors().Count(ctx, storage.DonorFilter{Active: &active})
	})
	count(&out.TotalRecipients, "recipients", func(ctx context.Context) (int64, error) {
		return s.store.Recipients().Count(ctx, storage.RecipientFilter{})
	})
	count(&out.TotalHospitals, "hospitals", func(ctx context.Context) (int64, error) {
		return s.store.Hospitals().Count(ctx, storage.HospitalFilter{})
	})
	count(&out.PendingRequests, "pending requests", func(ctx context.Context) (int64, error) {
		return s.store.Requests().Count(ctx, storage.RequestFilter{Status: &pending})
	})
	count(&out.OpenAlerts, "open alerts", func(ctx context.Context) (int64, error) {
		return s.store.Alerts().Count(ctx, storage.AlertFilter{Resolved: &open})
	})

	g.Go(func() error {
		summary, err := s.inventory.Summary(gctx)
		if err != nil {
			return err
		}
		out.BloodTypes = summary
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.CriticalBloodTypes = []enums.BloodType{}
	for _, bt := range out.BloodTypes {
		out.AvailableUnits += bt.Units
		out.ExpiringUnits += bt.ExpiringUnits
		if bt.IsCritical {
			out.CriticalBloodTypes = append(out.CriticalBloodTypes, bt.BloodType)
		}
	}
	return out, nil
}
