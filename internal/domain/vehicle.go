package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type VehicleType string

const (
	VehicleBike  VehicleType = "bike"
	VehicleTruck VehicleType = "truck"
	VehicleVan   VehicleType = "van"
)

// VehicleTypes lists every type in display order.
var VehicleTypes = []VehicleType{VehicleBike, VehicleTruck, VehicleVan}

func ParseVehicleType(s string) (VehicleType, error) {
	t := VehicleType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case VehicleBike, VehicleTruck, VehicleVan:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown vehicle type %q", ErrValidation, s)
}

// Vehicle is a fleet member whose capacity is consumed as stops are assigned.
// CurrentCapacity only grows during a session.
type Vehicle struct {
	Name             string
	Type             VehicleType
	CarryingCapacity decimal.Decimal
	FuelEfficiency   decimal.Decimal
	CurrentCapacity  decimal.Decimal
}

// Remaining reports how much weight can still be loaded.
func (v *Vehicle) Remaining() decimal.Decimal {
	return v.CarryingCapacity.Sub(v.CurrentCapacity)
}

// CanLoad reports whether weight fits in the remaining capacity.
func (v *Vehicle) CanLoad(weight decimal.Decimal) bool {
	return !v.CurrentCapacity.Add(weight).GreaterThan(v.CarryingCapacity)
}

// Load consumes weight from the vehicle's capacity.
// The vehicle is left untouched when the weight does not fit.
func (v *Vehicle) Load(weight decimal.Decimal) error {
	if !v.CanLoad(weight) {
		return fmt.Errorf(
			"%w: %s %q has %s of %s remaining, stop weighs %s",
			ErrCapacityExceeded, v.Type, v.Name, v.Remaining(), v.CarryingCapacity, weight,
		)
	}
	v.CurrentCapacity = v.CurrentCapacity.Add(weight)
	return nil
}

// SelectedVehicle points at the vehicle that new stops are assigned to.
type SelectedVehicle struct {
	Type VehicleType
	Name string
}
