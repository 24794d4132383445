package ports

import (
	"context"
	"fleet-route-service/internal/domain"
)

// Port: the external route-optimization service.
type RouteOptimizer interface {
	// Return the optimized route for every vehicle present in the request.
	OptimizeRoute(ctx context.Context, req domain.RouteRequest) (domain.OptimizedRoutes, error)
}
