package services

import (
	"context"
	"fleet-route-service/internal/domain"
	"fmt"
	"sync"
)

type fakeFleet struct {
	warehouse *domain.Warehouse
	stops     []domain.DeliveryStop
}

func (f *fakeFleet) Warehouse() (domain.Warehouse, bool) {
	if f.warehouse == nil {
		return domain.Warehouse{}, false
	}
	return *f.warehouse, true
}

func (f *fakeFleet) StopsForVehicle(vt domain.VehicleType, name string) []domain.DeliveryStop {
	out := []domain.DeliveryStop{}
	for _, s := range f.stops {
		if s.VehicleType == vt && s.VehicleName == name {
			out = append(out, s)
		}
	}
	return out
}

type fakeOptimizer struct {
	mu       sync.Mutex
	calls    int
	requests []domain.RouteRequest
	routes   domain.OptimizedRoutes
	err      error
	// gate, when set, blocks each call until a value is received or ctx ends.
	gate chan struct{}
}

func (f *fakeOptimizer) OptimizeRoute(ctx context.Context, req domain.RouteRequest) (domain.OptimizedRoutes, error) {
	f.mu.Lock()
	f.calls++
	f.requests = append(f.requests, req)
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", domain.ErrRemote, ctx.Err())
		}
	}
	return f.routes, f.err
}

func (f *fakeOptimizer) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeRenderer struct {
	mu      sync.Mutex
	routes  []domain.DrivingRouteRequest
	markers []domain.Marker
	err     error
	fail    map[string]bool
}

func (f *fakeRenderer) RenderMarker(_ context.Context, m domain.Marker) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[m.ID] {
		return fmt.Errorf("marker %s rejected", m.ID)
	}
	f.markers = append(f.markers, m)
	return nil
}

func (f *fakeRenderer) RenderDrivingRoute(_ context.Context, req domain.DrivingRouteRequest) (domain.DrivingDirections, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return domain.DrivingDirections{}, f.err
	}
	f.routes = append(f.routes, req)
	return domain.DrivingDirections{Path: req.Points(), DistanceMeters: 1000}, nil
}

type fakeGeocoder struct {
	coords map[string]domain.Coordinates
}

func (f *fakeGeocoder) Geocode(_ context.Context, address string) (domain.Coordinates, error) {
	c, ok := f.coords[address]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("%w: no results for %q", domain.ErrGeocodeFailure, address)
	}
	return c, nil
}
