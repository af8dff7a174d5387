package models

// All lists every persisted model; sqlite setups hand it to AutoMigrate.
func All() []any {
	return []any{
		&Hospital{},
		&Donor{},
		&Recipient{},
		&InventoryUnit{},
		&BloodRequest{},
		&Transaction{},
		&Alert{},
	}
}
