package dto

import "fleet-route-service/internal/domain"

type RouteRequest struct {
	VehicleType string `json:"vehicle_type"`
	VehicleName string `json:"vehicle_name"`
}

type StepResponse struct {
	Instruction     string  `json:"instruction"`
	Name            string  `json:"name"`
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
}

type LegResponse struct {
	DistanceMeters  float64        `json:"distance_meters"`
	DurationSeconds float64        `json:"duration_seconds"`
	Steps           []StepResponse `json:"steps"`
}

type DirectionsResponse struct {
	Path            [][]float64   `json:"path"`
	DistanceMeters  float64       `json:"distance_meters"`
	DurationSeconds float64       `json:"duration_seconds"`
	Legs            []LegResponse `json:"legs"`
}

// Coordinates in responses are [lat, lng] pairs.
type RouteResponse struct {
	Message     string             `json:"message"`
	VehicleType string             `json:"vehicle_type"`
	VehicleName string             `json:"vehicle_name"`
	DistanceKm  float64            `json:"distance_km"`
	Route       [][]float64        `json:"route"`
	Directions  DirectionsResponse `json:"directions"`
}

func LatLngs(cs []domain.Coordinates) [][]float64 {
	out := make([][]float64, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.LatLng())
	}
	return out
}

func NewDirectionsResponse(d domain.DrivingDirections) DirectionsResponse {
	legs := make([]LegResponse, 0, len(d.Legs))
	for _, l := range d.Legs {
		steps := make([]StepResponse, 0, len(l.Steps))
		for _, s := range l.Steps {
			steps = append(steps, StepResponse{
				Instruction:     s.Instruction,
				Name:            s.Name,
				DistanceMeters:  s.DistanceMeters,
				DurationSeconds: s.DurationSeconds,
			})
		}
		legs = append(legs, LegResponse{
			DistanceMeters:  l.DistanceMeters,
			DurationSeconds: l.DurationSeconds,
			Steps:           steps,
		})
	}

	return DirectionsResponse{
		Path:            LatLngs(d.Path),
		DistanceMeters:  d.DistanceMeters,
		DurationSeconds: d.DurationSeconds,
		Legs:            legs,
	}
}
