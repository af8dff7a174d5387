// Package fixtures seeds a store with demo data for local runs.
package fixtures

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/bloodbank-backend/internal/storage"
	"github.com/angelmondragon/bloodbank-backend/pkg/db/models"
	"github.com/angelmondragon/bloodbank-backend/pkg/enums"
)

// Summary reports how many rows LoadDemo wrote.
type Summary struct {
	Hospitals    int
	Donors       int
	Recipients   int
	Units        int
	Requests     int
	Transactions int
	Alerts       int
}

// LoadDemo writes a small, self-consistent data set relative to now inside a
// single transaction. Calling it on a store that already holds demo
// hospitals fails with storage.ErrConflict.
func LoadDemo(ctx context.Context, store storage.Store, now time.Time) (Summary, error) {
	var sum Summary
	err := store.WithTx(ctx, func(tx storage.Store) error {
		var err error
		sum, err = load(ctx, tx, now.UTC())
		return err
	})
	return sum, err
}

func load(ctx context.Context, tx storage.Store, now time.Time) (Summary, error) {
	var sum Summary
	day := func(offset int) time.Time { return now.AddDate(0, 0, offset) }
	str := func(s string) *string { return &s }

	hospitals := []*models.Hospital{
		{Name: "City General Hospital", Address: "120 Harbor Rd", City: "Springfield", Phone: "555-0100", Email: "bloodbank@citygeneral.example", ContactPerson: str("Dr. Maya Patel"), IsActive: true},
		{Name: "St. Luke Medical Center", Address: "48 Elm St", City: "Shelbyville", Phone: "555-0140", Email: "lab@stluke.example", ContactPerson: str("Dr. Owen Reyes"), IsActive: true},
		{Name: "Riverside Clinic", Address: "9 River Ln", City: "Springfield", Phone: "555-0190", Email: "desk@riverside.example", IsActive: false},
	}
	for _, h := range hospitals {
		if err := tx.Hospitals().Create(ctx, h); err != nil {
			return sum, fmt.Errorf("seed hospital %q: %w", h.Name, err)
		}
		sum.Hospitals++
	}

	donorSeeds := []struct {
		first, last string
		bt          enums.BloodType
		gender      enums.Gender
		born        int
		lastDonated int
		active      bool
	}{
		{"John", "Smith", enums.BloodTypeOPos, enums.GenderMale, 1985, -70, true},
		{"Sarah", "Johnson", enums.BloodTypeAPos, enums.GenderFemale, 1990, -20, true},
		{"Michael", "Brown", enums.BloodTypeONeg, enums.GenderMale, 1978, -120, true},
		{"Emily", "Davis", enums.BloodTypeBPos, enums.GenderFemale, 1995, -15, true},
		{"David", "Wilson", enums.BloodTypeABNeg, enums.GenderMale, 1982, -200, false},
		{"Lisa", "Garcia", enums.BloodTypeANeg, enums.GenderFemale, 1988, -60, true},
	}
	donors := make([]*models.Donor, 0, len(donorSeeds))
	for _, d := range donorSeeds {
		last := day(d.lastDonated)
		donor := &models.Donor{
			FirstName:        d.first,
			LastName:         d.last,
			BloodType:        d.bt,
			Email:            fmt.Sprintf("%s.%s@donors.example", strings.ToLower(d.first), strings.ToLower(d.last)),
			Phone:            fmt.Sprintf("555-02%02d", len(donors)),
			DateOfBirth:      time.Date(d.born, time.March, 14, 0, 0, 0, 0, time.UTC),
			Gender:           d.gender,
			LastDonationDate: &last,
			IsActive:         d.active,
		}
		if err := tx.Donors().Create(ctx, donor); err != nil {
			return sum, fmt.Errorf("seed donor %s: %w", donor.FullName(), err)
		}
		donors = append(donors, donor)
		sum.Donors++
	}

	recipients := []*models.Recipient{
		{FirstName: "Robert", LastName: "Miller", BloodType: enums.BloodTypeOPos, DateOfBirth: time.Date(1965, 7, 2, 0, 0, 0, 0, time.UTC), MedicalCondition: str("Surgery recovery"), HospitalID: &hospitals[0].ID, ContactPhone: "555-0301"},
		{FirstName: "Jennifer", LastName: "Taylor", BloodType: enums.BloodTypeABPos, DateOfBirth: time.Date(1972, 11, 19, 0, 0, 0, 0, time.UTC), MedicalCondition: str("Anemia"), HospitalID: &hospitals[1].ID, ContactPhone: "555-0302"},
		{FirstName: "Thomas", LastName: "Anderson", BloodType: enums.BloodTypeBNeg, DateOfBirth: time.Date(1959, 2, 8, 0, 0, 0, 0, time.UTC), ContactPhone: "555-0303"},
	}
	for _, r := range recipients {
		if err := tx.Recipients().Create(ctx, r); err != nil {
			return sum, fmt.Errorf("seed recipient: %w", err)
		}
		sum.Recipients++
	}

	unitSeeds := []struct {
		bt      enums.BloodType
		units   int
		donated int
		status  enums.InventoryStatus
		donor   int
	}{
		{enums.BloodTypeOPos, 25, -10, enums.InventoryStatusAvailable, 0},
		{enums.BloodTypeOPos, 6, -38, enums.InventoryStatusAvailable, -1},
		{enums.BloodTypeAPos, 18, -5, enums.InventoryStatusAvailable, 1},
		{enums.BloodTypeAPos, 4, -40, enums.InventoryStatusReserved, -1},
		{enums.BloodTypeONeg, 8, -20, enums.InventoryStatusAvailable, 2},
		{enums.BloodTypeBPos, 12, -3, enums.InventoryStatusAvailable, 3},
		{enums.BloodTypeANeg, 5, -36, enums.InventoryStatusAvailable, 5},
		{enums.BloodTypeABPos, 9, -12, enums.InventoryStatusAvailable, -1},
		{enums.BloodTypeABNeg, 2, -44, enums.InventoryStatusExpired, 4},
		{enums.BloodTypeBNeg, 3, -25, enums.InventoryStatusAvailable, -1},
	}
	units := make([]*models.InventoryUnit, 0, len(unitSeeds))
	for i, u := range unitSeeds {
		donated := day(u.donated)
		unit := &models.InventoryUnit{
			BloodType:       u.bt,
			Units:           u.units,
			DonationDate:    donated,
			ExpiryDate:      donated.AddDate(0, 0, 42),
			Status:          u.status,
			BagNumber:       str(fmt.Sprintf("DEMO-%03d", i+1)),
			StorageLocation: str(fmt.Sprintf("Fridge %d", i%3+1)),
		}
		if u.donor >= 0 {
			unit.DonorID = &donors[u.donor].ID
		}
		if err := tx.Inventory().Create(ctx, unit); err != nil {
			return sum, fmt.Errorf("seed inventory unit: %w", err)
		}
		units = append(units, unit)
		sum.Units++
	}

	requiredBy := day(2)
	requests := []*models.BloodRequest{
		{HospitalID: hospitals[0].ID, RecipientID: &recipients[0].ID, BloodType: enums.BloodTypeOPos, Units: 4, Urgency: enums.RequestUrgencyHigh, Status: enums.RequestStatusPending, RequiredBy: &requiredBy},
		{HospitalID: hospitals[1].ID, RecipientID: &recipients[1].ID, BloodType: enums.BloodTypeABPos, Units: 2, Urgency: enums.RequestUrgencyNormal, Status: enums.RequestStatusApproved},
		{HospitalID: hospitals[0].ID, BloodType: enums.BloodTypeONeg, Units: 6, Urgency: enums.RequestUrgencyCritical, Status: enums.RequestStatusPending, Notes: str("Trauma ward reserve")},
	}
	for _, r := range requests {
		if err := tx.Requests().Create(ctx, r); err != nil {
			return sum, fmt.Errorf("seed blood request: %w", err)
		}
		sum.Requests++
	}

	transactions := []*models.Transaction{
		{Type: enums.TransactionTypeDonation, BloodType: enums.BloodTypeOPos, Units: 25, DonorID: &donors[0].ID, InventoryUnitID: &units[0].ID, OccurredAt: day(-10), ProcessingFee: decimal.RequireFromString("12.50")},
		{Type: enums.TransactionTypeDonation, BloodType: enums.BloodTypeAPos, Units: 18, DonorID: &donors[1].ID, InventoryUnitID: &units[2].ID, OccurredAt: day(-5), ProcessingFee: decimal.RequireFromString("12.50")},
		{Type: enums.TransactionTypeTransfusion, BloodType: enums.BloodTypeOPos, Units: 2, RecipientID: &recipients[0].ID, HospitalID: &hospitals[0].ID, OccurredAt: day(-1), ProcessingFee: decimal.RequireFromString("85.00")},
		{Type: enums.TransactionTypeTransferOut, BloodType: enums.BloodTypeABPos, Units: 3, HospitalID: &hospitals[1].ID, RequestID: &requests[1].ID, OccurredAt: day(-2)},
	}
	for _, txn := range transactions {
		if err := tx.Transactions().Create(ctx, txn); err != nil {
			return sum, fmt.Errorf("seed transaction: %w", err)
		}
		sum.Transactions++
	}

	oNeg := enums.BloodTypeONeg
	aNeg := enums.BloodTypeANeg
	alerts := []*models.Alert{
		{Type: enums.AlertTypeLowStock, Severity: enums.AlertSeverityCritical, BloodType: &oNeg, Title: "Low O- stock", Message: "O- is below the critical threshold"},
		{Type: enums.AlertTypeExpiring, Severity: enums.AlertSeverityWarning, BloodType: &aNeg, Title: "A- units expiring", Message: "5 units of A- expire within 7 days"},
		{Type: enums.AlertTypeRequestUrgent, Severity: enums.AlertSeverityCritical, BloodType: &oNeg, Title: "Critical request for O-", Message: "City General Hospital requested 6 units of O-"},
	}
	for _, a := range alerts {
		if err := tx.Alerts().Create(ctx, a); err != nil {
			return sum, fmt.Errorf("seed alert: %w", err)
		}
		sum.Alerts++
	}
	return sum, nil
}
