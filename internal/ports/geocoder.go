package ports

import (
	"context"
	"fleet-route-service/internal/domain"
)

// Contract for resolving a free-text address to coordinates.
type Geocoder interface {
	// Return coordinates for address, or an error wrapping domain.ErrGeocodeFailure.
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
}

// Persistent address -> coordinates cache sitting in front of a Geocoder.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}
