package enums

import (
	"fmt"
	"strings"
)

// BloodType is one of the eight ABO/Rh categories inventory is partitioned by.
type BloodType string

const (
	BloodTypeAPos  BloodType = "A+"
	BloodTypeANeg  BloodType = "A-"
	BloodTypeBPos  BloodType = "B+"
	BloodTypeBNeg  BloodType = "B-"
	BloodTypeABPos BloodType = "AB+"
	BloodTypeABNeg BloodType = "AB-"
	BloodTypeOPos  BloodType = "O+"
	BloodTypeONeg  BloodType = "O-"
)

// validBloodTypes is the canonical order used by every per-type listing.
var validBloodTypes = []BloodType{
	BloodTypeAPos,
	BloodTypeANeg,
	BloodTypeBPos,
	BloodTypeBNeg,
	BloodTypeABPos,
	BloodTypeABNeg,
	BloodTypeOPos,
	BloodTypeONeg,
}

// minusReplacer folds the typographic minus and dashes operators paste from
// documents into the ASCII hyphen used on the wire.
var minusReplacer = strings.NewReplacer("−", "-", "–", "-", "‒", "-", "﹣", "-", "－", "-")

// AllBloodTypes returns the eight blood types in canonical order.
func AllBloodTypes() []BloodType {
	out := make([]BloodType, len(validBloodTypes))
	copy(out, validBloodTypes)
	return out
}

func (b BloodType) String() string {
	return string(b)
}

// IsValid reports whether the value is a canonical blood type.
func (b BloodType) IsValid() bool {
	for _, candidate := range validBloodTypes {
		if candidate == b {
			return true
		}
	}
	return false
}

// NormalizeBloodType trims, upper-cases and folds minus variants without validating.
func NormalizeBloodType(value string) string {
	return minusReplacer.Replace(strings.ToUpper(strings.TrimSpace(value)))
}

// ParseBloodType accepts canonical and typographic spellings, e.g. "ab−".
func ParseBloodType(value string) (BloodType, error) {
	normalized := BloodType(NormalizeBloodType(value))
	if normalized.IsValid() {
		return normalized, nil
	}
	return "", fmt.Errorf("invalid blood type %q", value)
}
