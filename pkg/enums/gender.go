package enums

import (
	"fmt"
	"strings"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

var validGenders = []Gender{GenderMale, GenderFemale, GenderOther}

func (g Gender) String() string {
	return string(g)
}

func (g Gender) IsValid() bool {
	for _, candidate := range validGenders {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGender is case-insensitive.
func ParseGender(value string) (Gender, error) {
	lowered := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validGenders {
		if string(candidate) == lowered {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid gender %q", value)
}
