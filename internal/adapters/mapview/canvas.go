package mapview

import (
	"context"
	"errors"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/platform/obs"
	"fleet-route-service/internal/ports"
	"fmt"
	"strings"
	"sync"
)

// RouteLayer is the driving route currently drawn on the map.
type RouteLayer struct {
	Label      string
	Request    domain.DrivingRouteRequest
	Directions domain.DrivingDirections
}

// Snapshot is a consistent copy of the canvas at Version.
type Snapshot struct {
	Version uint64
	Markers []domain.Marker
	Route   *RouteLayer
}

// Canvas is the shared map every operator sees. Markers and the route live in
// separate layers: placing a marker never clears the route and drawing a route
// never removes markers. Only one route is shown at a time.
type Canvas struct {
	directions ports.DirectionsProvider

	mu        sync.RWMutex
	markers   map[string]domain.Marker
	order     []string
	route     *RouteLayer
	version   uint64
	listeners []func(Snapshot)
}

func NewCanvas(directions ports.DirectionsProvider) *Canvas {
	return &Canvas{
		directions: directions,
		markers:    make(map[string]domain.Marker),
	}
}

// OnChange registers fn to receive a snapshot after every change.
// Listeners run on the goroutine that made the change and must not block.
func (c *Canvas) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// RenderMarker places m, replacing any marker with the same ID.
func (c *Canvas) RenderMarker(_ context.Context, m domain.Marker) error {
	if strings.TrimSpace(m.ID) == "" {
		return errors.New("render marker: empty marker id")
	}

	c.mu.Lock()
	if _, ok := c.markers[m.ID]; !ok {
		c.order = append(c.order, m.ID)
	}
	c.markers[m.ID] = m
	snap, listeners := c.commitLocked()
	c.mu.Unlock()

	notify(listeners, snap)
	return nil
}

// RenderDrivingRoute replaces the route layer with directions through req.
// The provider is called without holding the lock; a failure leaves the
// previous route in place.
func (c *Canvas) RenderDrivingRoute(
	ctx context.Context,
	req domain.DrivingRouteRequest,
) (_ domain.DrivingDirections, err error) {
	defer obs.Time(ctx, "mapview.RenderDrivingRoute")(&err)

	if c.directions == nil {
		return domain.DrivingDirections{}, errors.New("render route: no directions provider")
	}

	dirs, err := c.directions.Directions(ctx, req.Points())
	if err != nil {
		return domain.DrivingDirections{}, fmt.Errorf("render route %q: %w", req.Label, err)
	}
	if err := ctx.Err(); err != nil {
		return domain.DrivingDirections{}, fmt.Errorf("render route %q: %w", req.Label, err)
	}

	c.mu.Lock()
	c.route = &RouteLayer{Label: req.Label, Request: req, Directions: dirs}
	snap, listeners := c.commitLocked()
	c.mu.Unlock()

	notify(listeners, snap)
	return dirs, nil
}

func (c *Canvas) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

// Clear removes every marker and the route.
func (c *Canvas) Clear() {
	c.mu.Lock()
	c.markers = make(map[string]domain.Marker)
	c.order = nil
	c.route = nil
	snap, listeners := c.commitLocked()
	c.mu.Unlock()

	notify(listeners, snap)
}

func (c *Canvas) commitLocked() (Snapshot, []func(Snapshot)) {
	c.version++
	listeners := make([]func(Snapshot), len(c.listeners))
	copy(listeners, c.listeners)
	return c.snapshotLocked(), listeners
}

func (c *Canvas) snapshotLocked() Snapshot {
	markers := make([]domain.Marker, 0, len(c.order))
	for _, id := range c.order {
		markers = append(markers, c.markers[id])
	}

	var route *RouteLayer
	if c.route != nil {
		r := *c.route
		route = &r
	}

	return Snapshot{Version: c.version, Markers: markers, Route: route}
}

func notify(listeners []func(Snapshot), snap Snapshot) {
	for _, fn := range listeners {
		fn(snap)
	}
}
