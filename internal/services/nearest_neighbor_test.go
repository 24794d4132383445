package services

import (
	"fleet-route-service/internal/domain"
	"math"
	"testing"
)

func TestNearestNeighborTour(t *testing.T) {
	hub := domain.Coordinates{Lat: 0, Lon: 0}

	// A is closest to the hub, C is closest to A, B is last.
	stops := []domain.Coordinates{
		{Lat: 0, Lon: 3}, // B
		{Lat: 0, Lon: 1}, // A
		{Lat: 1, Lon: 1}, // C
	}

	order := NearestNeighborTour(hub, stops)

	if len(order) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(order))
	}
	if order[0] != 1 {
		t.Fatalf("expected first stop A (1), got %d", order[0])
	}
	if order[1] != 2 {
		t.Fatalf("expected second stop C (2), got %d", order[1])
	}
	if order[2] != 0 {
		t.Fatalf("expected third stop B (0), got %d", order[2])
	}
}

func TestNearestNeighborTourTieBreak(t *testing.T) {
	hub := domain.Coordinates{}
	same := domain.Coordinates{Lat: 1, Lon: 1}

	order := NearestNeighborTour(hub, []domain.Coordinates{same, same, same})
	for i, idx := range order {
		if idx != i {
			t.Fatalf("tie-break order = %v, want [0 1 2]", order)
		}
	}
}

func TestNearestNeighborTourEmpty(t *testing.T) {
	if order := NearestNeighborTour(domain.Coordinates{}, nil); len(order) != 0 {
		t.Fatalf("expected empty tour, got %v", order)
	}
}

func TestTourDistanceKm(t *testing.T) {
	a := domain.Coordinates{Lat: 0, Lon: 0}
	b := domain.Coordinates{Lat: 0, Lon: 1}

	got := TourDistanceKm([]domain.Coordinates{a, b, a})
	want := 2 * domain.DistanceKm(a, b)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("distance = %f, want %f", got, want)
	}
	if TourDistanceKm([]domain.Coordinates{a}) != 0 {
		t.Fatalf("single point route must have zero distance")
	}
}
