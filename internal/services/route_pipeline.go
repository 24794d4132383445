package services

import (
	"context"
	"errors"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/platform/obs"
	"fleet-route-service/internal/ports"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultRouteTimeout = 30 * time.Second

// FleetReader is the read-only view of the registry the pipeline needs.
type FleetReader interface {
	Warehouse() (domain.Warehouse, bool)
	StopsForVehicle(vehicleType domain.VehicleType, vehicleName string) []domain.DeliveryStop
}

// RouteResult is a rendered route for one vehicle.
type RouteResult struct {
	VehicleType domain.VehicleType
	VehicleName string
	Route       domain.OptimizedRoute
	Directions  domain.DrivingDirections
}

type routeToken struct {
	id     uuid.UUID
	cancel context.CancelFunc
}

// RoutePipeline requests optimized routes and draws them on the map.
//
// Requests are tracked per vehicle: a newer request for the same vehicle
// cancels the one in flight, and only the newest may render.
type RoutePipeline struct {
	fleet     FleetReader
	optimizer ports.RouteOptimizer
	renderer  ports.MapRenderer
	timeout   time.Duration

	mu       sync.Mutex
	inflight map[string]routeToken
	// epoch advances on CancelAll; requests begun under an older epoch never register.
	epoch    uint64
	renderMu sync.Mutex
}

func NewRoutePipeline(
	fleet FleetReader,
	optimizer ports.RouteOptimizer,
	renderer ports.MapRenderer,
	timeout time.Duration,
) *RoutePipeline {
	if timeout <= 0 {
		timeout = DefaultRouteTimeout
	}
	return &RoutePipeline{
		fleet:     fleet,
		optimizer: optimizer,
		renderer:  renderer,
		timeout:   timeout,
		inflight:  make(map[string]routeToken),
	}
}

// RequestRoute asks the optimizer for the vehicle's route and renders it.
// No optimizer call is made unless a warehouse is set and the vehicle has stops.
func (p *RoutePipeline) RequestRoute(
	ctx context.Context,
	vehicleType string,
	vehicleName string,
) (_ *RouteResult, err error) {
	defer obs.Time(ctx, "route.RequestRoute")(&err)

	vehicleType = strings.TrimSpace(vehicleType)
	vehicleName = strings.TrimSpace(vehicleName)
	if vehicleType == "" || vehicleName == "" {
		return nil, fmt.Errorf("request route: %w", domain.ErrMissingSelection)
	}

	vt, err := domain.ParseVehicleType(vehicleType)
	if err != nil {
		return nil, fmt.Errorf("request route: %w", err)
	}

	// Read before the fleet so a reset in between is detected by begin.
	epoch := p.currentEpoch()

	warehouse, ok := p.fleet.Warehouse()
	if !ok {
		return nil, fmt.Errorf("request route: %w", domain.ErrNoWarehouse)
	}

	stops := p.fleet.StopsForVehicle(vt, vehicleName)
	if len(stops) == 0 {
		return nil, fmt.Errorf("request route: %w: %s %q", domain.ErrNoStopsAssigned, vt, vehicleName)
	}

	key := string(vt) + "|" + vehicleName
	ctx, token, ok := p.begin(ctx, key, epoch)
	if !ok {
		return nil, fmt.Errorf("request route: %w", domain.ErrSuperseded)
	}
	defer p.finish(key, token)

	routes, err := p.optimizer.OptimizeRoute(ctx, domain.RouteRequest{Warehouse: warehouse, Stops: stops})
	if !p.isCurrent(key, token) {
		return nil, fmt.Errorf("request route: %w", domain.ErrSuperseded)
	}
	if err != nil {
		return nil, fmt.Errorf("request route: %s %q: %w", vt, vehicleName, err)
	}

	route, ok := routes[vehicleName]
	if !ok {
		return nil, fmt.Errorf("request route: %w for %q", domain.ErrEmptyRoute, vehicleName)
	}

	p.renderMu.Lock()
	defer p.renderMu.Unlock()

	if !p.isCurrent(key, token) {
		return nil, fmt.Errorf("request route: %w", domain.ErrSuperseded)
	}

	directions, err := p.RenderRoute(ctx, vehicleName, route.Route)
	if err != nil {
		return nil, fmt.Errorf("request route: %w", err)
	}

	return &RouteResult{
		VehicleType: vt,
		VehicleName: vehicleName,
		Route:       route,
		Directions:  directions,
	}, nil
}

// RenderRoute draws driving directions through route: the first point is the
// origin, the last the destination, and every interior point a stopover.
func (p *RoutePipeline) RenderRoute(
	ctx context.Context,
	label string,
	route []domain.Coordinates,
) (domain.DrivingDirections, error) {
	if len(route) < 2 {
		return domain.DrivingDirections{}, fmt.Errorf("render route: %w: got %d", domain.ErrInsufficientPoints, len(route))
	}

	waypoints := make([]domain.Waypoint, 0, len(route)-2)
	for _, c := range route[1 : len(route)-1] {
		waypoints = append(waypoints, domain.Waypoint{Location: c, Stopover: true})
	}

	req := domain.DrivingRouteRequest{
		Label:       label,
		Origin:      route[0],
		Destination: route[len(route)-1],
		Waypoints:   waypoints,
	}

	directions, err := p.renderer.RenderDrivingRoute(ctx, req)
	if err != nil {
		if errors.Is(err, domain.ErrRenderFailed) {
			return domain.DrivingDirections{}, fmt.Errorf("render route: %w", err)
		}
		return domain.DrivingDirections{}, fmt.Errorf("render route: %w: %w", domain.ErrRenderFailed, err)
	}

	return directions, nil
}

// CancelAll cancels every request in flight and waits out a render in
// progress. Requests that read the fleet before the call never render.
func (p *RoutePipeline) CancelAll() {
	if p == nil {
		return
	}
	p.renderMu.Lock()
	defer p.renderMu.Unlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.epoch++
	for key, tok := range p.inflight {
		tok.cancel()
		delete(p.inflight, key)
	}
}

// begin registers a new request for key, cancelling any request it supersedes.
// It refuses when CancelAll has run since epoch was read.
func (p *RoutePipeline) begin(ctx context.Context, key string, epoch uint64) (context.Context, uuid.UUID, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if epoch != p.epoch {
		return ctx, uuid.Nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	id := uuid.New()
	if prev, ok := p.inflight[key]; ok {
		prev.cancel()
	}
	p.inflight[key] = routeToken{id: id, cancel: cancel}

	return ctx, id, true
}

func (p *RoutePipeline) currentEpoch() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.epoch
}

func (p *RoutePipeline) finish(key string, id uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tok, ok := p.inflight[key]
	if !ok || tok.id != id {
		return
	}
	tok.cancel()
	delete(p.inflight, key)
}

func (p *RoutePipeline) isCurrent(key string, id uuid.UUID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	tok, ok := p.inflight[key]
	return ok && tok.id == id
}
