package ports

import (
	"context"
	"fleet-route-service/internal/domain"
)

// Port: the shared map widget.
type MapRenderer interface {
	// Place (or replace, by ID) a marker.
	RenderMarker(ctx context.Context, m domain.Marker) error
	// Draw driving directions through the requested points.
	// A failure (e.g. unroutable waypoints) is returned to the caller.
	RenderDrivingRoute(ctx context.Context, req domain.DrivingRouteRequest) (domain.DrivingDirections, error)
}

// Contract for computing road-following directions through ordered points.
type DirectionsProvider interface {
	Directions(ctx context.Context, points []domain.Coordinates) (domain.DrivingDirections, error)
}
