package services

import (
	"fleet-route-service/internal/domain"
	"math"
)

// NearestNeighborTour orders stops using a greedy nearest-neighbor walk from origin.
//
// Each step moves to the closest unvisited stop by great-circle distance.
// It does not attempt global route optimization (e.g., 2-opt or exact TSP).
// Ties go to the lower index so the tour is deterministic.
// The returned slice holds indices into stops.
func NearestNeighborTour(origin domain.Coordinates, stops []domain.Coordinates) []int {
	remaining := make(map[int]struct{}, len(stops))
	for i := range stops {
		remaining[i] = struct{}{}
	}

	order := make([]int, 0, len(stops))
	current := origin

	for len(remaining) > 0 {
		best := -1
		bestDistance := math.Inf(1)

		// Select next stop by minimum distance (greedy step).
		for i := range remaining {
			d := domain.DistanceKm(current, stops[i])
			if d < bestDistance || (d == bestDistance && i < best) {
				bestDistance = d
				best = i
			}
		}

		order = append(order, best)
		delete(remaining, best)
		current = stops[best]
	}

	return order
}

// TourDistanceKm sums the leg distances along route.
func TourDistanceKm(route []domain.Coordinates) float64 {
	total := 0.0
	for i := 0; i+1 < len(route); i++ {
		total += domain.DistanceKm(route[i], route[i+1])
	}
	return total
}
