package enums

import "fmt"

// TableStatus tracks dining table availability for the back office.
type TableStatus string

const (
	TableStatusAvailable TableStatus = "available"
	TableStatusOccupied  TableStatus = "occupied"
	TableStatusReserved  TableStatus = "reserved"
)

var validTableStatuses = []TableStatus{
	TableStatusAvailable,
	TableStatusOccupied,
	TableStatusReserved,
}

// String implements fmt.Stringer.
func (s TableStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is recognized.
func (s TableStatus) IsValid() bool {
	for _, candidate := range validTableStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Label returns the back-office display string for the status.
func (s TableStatus) Label() string {
	switch s {
	case TableStatusAvailable:
		return "Available"
	case TableStatusOccupied:
		return "Occupied"
	case TableStatusReserved:
		return "Reserved"
	}
	return string(s)
}

// ParseTableStatus converts a raw string into a TableStatus.
func ParseTableStatus(value string) (TableStatus, error) {
	for _, candidate := range validTableStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid table status %q", value)
}
