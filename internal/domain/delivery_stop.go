package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Priority is a single upper-case letter; A is the most urgent.
type Priority string

func ParsePriority(s string) (Priority, error) {
	p := strings.ToUpper(strings.TrimSpace(s))
	if len(p) != 1 || p[0] < 'A' || p[0] > 'Z' {
		return "", fmt.Errorf("%w: priority must be a letter A-Z, got %q", ErrValidation, s)
	}
	return Priority(p), nil
}

// StopInput carries the fields an operator enters for a new delivery stop.
type StopInput struct {
	Address  string
	Pincode  string
	Region   string
	Weight   decimal.Decimal
	Priority string
}

// Represents a single delivery assigned to one vehicle.
// A DeliveryStop is immutable once created.
type DeliveryStop struct {
	ID          uuid.UUID
	Address     string
	Pincode     string
	Region      string
	Weight      decimal.Decimal
	Priority    Priority
	VehicleType VehicleType
	VehicleName string
}

// GeocodeQuery is the free-text address used to place the stop's marker.
func (s DeliveryStop) GeocodeQuery() string {
	return s.Address + ", " + s.Region + ", " + s.Pincode
}
