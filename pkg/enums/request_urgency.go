package enums

import "fmt"

type RequestUrgency string

const (
	RequestUrgencyLow      RequestUrgency = "low"
	RequestUrgencyNormal   RequestUrgency = "normal"
	RequestUrgencyHigh     RequestUrgency = "high"
	RequestUrgencyCritical RequestUrgency = "critical"
)

var validRequestUrgencies = []RequestUrgency{
	RequestUrgencyLow,
	RequestUrgencyNormal,
	RequestUrgencyHigh,
	RequestUrgencyCritical,
}

func (u RequestUrgency) String() string {
	return string(u)
}

func (u RequestUrgency) IsValid() bool {
	for _, candidate := range validRequestUrgencies {
		if candidate == u {
			return true
		}
	}
	return false
}

func ParseRequestUrgency(value string) (RequestUrgency, error) {
	for _, candidate := range validRequestUrgencies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid request urgency %q", value)
}
