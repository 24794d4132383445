package services

import (
	"context"
	"errors"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/platform/obs"
	"fleet-route-service/internal/ports"
	"fmt"
	"strings"
)

var ErrMissingRouteInput = errors.New("warehouse details or delivery locations missing")

// AddressError reports a warehouse or delivery address the optimizer could not resolve.
type AddressError struct {
	Address string
	Err     error
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("Error with address %s: %v", e.Address, e.Err)
}

func (e *AddressError) Unwrap() error { return e.Err }

// LocalOptimizer solves route requests in-process.
// It backs the optimizer service and stands in for it when no remote URL is configured.
type LocalOptimizer struct {
	Geocoder ports.Geocoder
}

func NewLocalOptimizer(geocoder ports.Geocoder) *LocalOptimizer {
	return &LocalOptimizer{Geocoder: geocoder}
}

// OptimizeRoute geocodes the warehouse and every stop, then orders the stops
// with a nearest-neighbor tour that starts and ends at the warehouse.
// The result is keyed by the vehicle of the first stop. Failures wrap
// domain.ErrApplication, as the remote service would report them.
func (o *LocalOptimizer) OptimizeRoute(
	ctx context.Context,
	req domain.RouteRequest,
) (_ domain.OptimizedRoutes, err error) {
	defer obs.Time(ctx, "optimizer.OptimizeRoute")(&err)

	if strings.TrimSpace(req.Warehouse.Address) == "" || len(req.Stops) == 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrApplication, ErrMissingRouteInput)
	}

	origin, err := o.Geocoder.Geocode(ctx, req.Warehouse.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: warehouse: %w", domain.ErrApplication, &AddressError{Address: req.Warehouse.Address, Err: err})
	}

	coords := make([]domain.Coordinates, 0, len(req.Stops))
	for _, s := range req.Stops {
		c, err := o.Geocoder.Geocode(ctx, s.Address)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrApplication, &AddressError{Address: s.Address, Err: err})
		}
		coords = append(coords, c)
	}

	order := NearestNeighborTour(origin, coords)

	route := make([]domain.Coordinates, 0, len(order)+2)
	route = append(route, origin)
	for _, i := range order {
		route = append(route, coords[i])
	}
	// Return to the warehouse.
	route = append(route, origin)

	return domain.OptimizedRoutes{
		req.Stops[0].VehicleName: {
			Route:      route,
			DistanceKm: TourDistanceKm(route),
		},
	}, nil
}
