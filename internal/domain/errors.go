package domain

import "errors"

// Failure kinds reported by the registry and the route pipeline.
// Callers match them with errors.Is; wrapped messages carry the detail.
var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateName      = errors.New("duplicate vehicle name")
	ErrCapacityExceeded   = errors.New("capacity exceeded")
	ErrNoVehicleSelected  = errors.New("no vehicle selected")
	ErrVehicleNotFound    = errors.New("vehicle not found")
	ErrMissingSelection   = errors.New("vehicle type and name are required")
	ErrNoWarehouse        = errors.New("warehouse not set")
	ErrNoStopsAssigned    = errors.New("no deliveries assigned")
	ErrRemote             = errors.New("route service unreachable")
	ErrApplication        = errors.New("route service error")
	ErrEmptyRoute         = errors.New("no optimized route available")
	ErrInsufficientPoints = errors.New("not enough points for a route")
	ErrGeocodeFailure     = errors.New("geocode failed")
	ErrRenderFailed       = errors.New("failed to render route on map")
	ErrSuperseded         = errors.New("route request superseded")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrValidation, "validation"},
	{ErrDuplicateName, "duplicate_name"},
	{ErrCapacityExceeded, "capacity_exceeded"},
	{ErrNoVehicleSelected, "no_vehicle_selected"},
	{ErrVehicleNotFound, "vehicle_not_found"},
	{ErrMissingSelection, "missing_selection"},
	{ErrNoWarehouse, "no_warehouse"},
	{ErrNoStopsAssigned, "no_stops_assigned"},
	{ErrApplication, "application"},
	{ErrRemote, "remote"},
	{ErrEmptyRoute, "empty_route"},
	{ErrInsufficientPoints, "insufficient_points"},
	{ErrGeocodeFailure, "geocode_failure"},
	{ErrRenderFailed, "render_failed"},
	{ErrSuperseded, "superseded"},
}

// Kind names the taxonomy entry err belongs to, or "internal" when none matches.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "internal"
}
