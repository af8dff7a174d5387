package controllers

import "github.com/angelmondragon/bloodbank-backend/pkg/enums"

// parseBloodTypePtr converts a validated optional blood type field.
func parseBloodTypePtr(raw *string) *enums.BloodType {
	if raw == nil {
		return nil
	}
	bt, err := enums.ParseBloodType(*raw)
	if err != nil {
		return nil
	}
	return &bt
}
