package enums

import "fmt"

// InventoryStatus tracks where a unit sits in its lifecycle. Only available
// units count toward stock.
type InventoryStatus string

const (
	InventoryStatusAvailable InventoryStatus = "available"
	InventoryStatusReserved  InventoryStatus = "reserved"
	InventoryStatusExpired   InventoryStatus = "expired"
	InventoryStatusDiscarded InventoryStatus = "discarded"
)

var validInventoryStatuses = []InventoryStatus{
	InventoryStatusAvailable,
	InventoryStatusReserved,
	InventoryStatusExpired,
	InventoryStatusDiscarded,
}

var inventoryTransitions = map[InventoryStatus][]InventoryStatus{
	InventoryStatusAvailable: {InventoryStatusReserved, InventoryStatusExpired, InventoryStatusDiscarded},
	InventoryStatusReserved:  {InventoryStatusExpired, InventoryStatusDiscarded},
	InventoryStatusExpired:   {InventoryStatusDiscarded},
}

func (s InventoryStatus) String() string {
	return string(s)
}

func (s InventoryStatus) IsValid() bool {
	for _, candidate := range validInventoryStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether a unit may move from s to next.
// Discarded is terminal and self transitions are refused.
func (s InventoryStatus) CanTransitionTo(next InventoryStatus) bool {
	for _, allowed := range inventoryTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func ParseInventoryStatus(value string) (InventoryStatus, error) {
	for _, candidate := range validInventoryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inventory status %q", value)
}
