package cron

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/angelmondragon/bloodbank-backend/internal/alerts"
	"github.com/angelmondragon/bloodbank-backend/internal/inventory"
	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
	"github.com/angelmondragon/bloodbank-backend/pkg/logger"
	"github.com/angelmondragon/bloodbank-backend/pkg/metrics"
)

const inventoryAlertsJobName = "inventory-alerts"

// InventoryAlertsJobParams configure the stock alert job.
type InventoryAlertsJobParams struct {
	Logger    *logger.Logger
	Inventory inventory.Service
	Alerts    alerts.Service
	Metrics   *metrics.InventoryMetrics
}

// InventoryAlertsJob refreshes the stock gauges and raises low stock and
// expiring alerts from the inventory summary.
type InventoryAlertsJob struct {
	logg      *logger.Logger
	inventory inventory.Service
	alerts    alerts.Service
	metrics   *metrics.InventoryMetrics
}

func NewInventoryAlertsJob(params InventoryAlertsJobParams) (*InventoryAlertsJob, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	if params.Alerts == nil {
		return nil, fmt.Errorf("alerts service required")
	}
	return &InventoryAlertsJob{
		logg:      params.Logger,
		inventory: params.Inventory,
		alerts:    params.Alerts,
		metrics:   params.Metrics,
	}, nil
}

func (j *InventoryAlertsJob) Name() string { return inventoryAlertsJobName }

func (j *InventoryAlertsJob) Run(ctx context.Context) error {
	summary, err := j.inventory.Summary(ctx)
	if err != nil {
		return fmt.Errorf("inventory summary: %w", err)
	}

	var errs error
	raised := 0
	for _, row := range summary {
		j.metrics.SetBloodType(row.BloodType.String(), row.Units, row.ExpiringUnits, row.IsCritical)

		if row.IsCritical {
			ok, err := j.raise(ctx, lowStockAlert(row))
			errs = multierr.Append(errs, err)
			if ok {
				raised++
			}
		}
		if row.ExpiringUnits > 0 {
			ok, err := j.raise(ctx, expiringAlert(row))
			errs = multierr.Append(errs, err)
			if ok {
				raised++
			}
		}
	}

	ctx = j.logg.WithField(ctx, "alerts_raised", raised)
	j.logg.Info(ctx, "inventory alerts evaluated")
	return errs
}

// raise creates the alert unless one of the same kind is still open for the
// blood type.
func (j *InventoryAlertsJob) raise(ctx context.Context, input alerts.CreateAlertInput) (bool, error) {
	open, err := j.alerts.OpenExists(ctx, input.Type, input.BloodType)
	if err != nil {
		return false, fmt.Errorf("check open %s alert for %s: %w", input.Type, *input.BloodType, err)
	}
	if open {
		return false, nil
	}
	if _, err := j.alerts.Create(ctx, input); err != nil {
		return false, fmt.Errorf("create %s alert for %s: %w", input.Type, *input.BloodType, err)
	}
	j.metrics.IncAlert(input.Type.String())
	ctx = j.logg.WithBloodType(ctx, *input.BloodType)
	j.logg.Info(j.logg.WithField(ctx, "alert_type", input.Type.String()), "stock alert raised")
	return true, nil
}

func lowStockAlert(row inventory.BloodTypeSummary) alerts.CreateAlertInput {
	bloodType := row.BloodType
	severity := enums.AlertSeverityWarning
	if row.Units == 0 {
		severity = enums.AlertSeverityCritical
	}
	return alerts.CreateAlertInput{
		Type:      enums.AlertTypeLowStock,
		Severity:  severity,
		BloodType: &bloodType,
		Title:     fmt.Sprintf("Low stock: %s", bloodType),
		Message:   fmt.Sprintf("Only %d units of %s available", row.Units, bloodType),
	}
}

func expiringAlert(row inventory.BloodTypeSummary) alerts.CreateAlertInput {
	bloodType := row.BloodType
	return alerts.CreateAlertInput{
		Type:      enums.AlertTypeExpiring,
		Severity:  enums.AlertSeverityWarning,
		BloodType: &bloodType,
		Title:     fmt.Sprintf("Units expiring: %s", bloodType),
		Message:   fmt.Sprintf("%d units of %s expire soon, the first in %d days", row.ExpiringUnits, bloodType, row.ExpiringDays),
	}
}
