package enums

import "fmt"

type AlertType string

const (
	AlertTypeLowStock      AlertType = "low_stock"
	AlertTypeExpiring      AlertType = "expiring"
	AlertTypeRequestUrgent AlertType = "request_urgent"
	AlertTypeSystem        AlertType = "system"
)

var validAlertTypes = []AlertType{
	AlertTypeLowStock,
	AlertTypeExpiring,
	AlertTypeRequestUrgent,
	AlertTypeSystem,
}

func (a AlertType) String() string {
	return string(a)
}

func (a AlertType) IsValid() bool {
	for _, candidate := range validAlertTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

func ParseAlertType(value string) (AlertType, error) {
	for _, candidate := range validAlertTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid alert type %q", value)
}

type AlertSeverity string

const (
	AlertSeverityInfo     AlertSeverity = "info"
	AlertSeverityWarning  AlertSeverity = "warning"
	AlertSeverityCritical AlertSeverity = "critical"
)

var validAlertSeverities = []AlertSeverity{
	AlertSeverityInfo,
	AlertSeverityWarning,
	AlertSeverityCritical,
}

func (s AlertSeverity) String() string {
	return string(s)
}

func (s AlertSeverity) IsValid() bool {
	for _, candidate := range validAlertSeverities {
		if candidate == s {
			return true
		}
	}
	return false
}

func ParseAlertSeverity(value string) (AlertSeverity, error) {
	for _, candidate := range validAlertSeverities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid alert severity %q", value)
}
