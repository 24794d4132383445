package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/platform/obs"
	"fmt"
	"net/http"
)

type directionsRequest struct {
	Coordinates  [][]float64 `json:"coordinates"`
	Instructions bool        `json:"instructions"`
}

type directionsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"summary"`
			Segments []struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
				Steps    []struct {
					Distance    float64 `json:"distance"`
					Duration    float64 `json:"duration"`
					Instruction string  `json:"instruction"`
					Name        string  `json:"name"`
				} `json:"steps"`
			} `json:"segments"`
		} `json:"properties"`
	} `json:"features"`
}

// Directions computes road-following routes with /v2/directions/{profile}/geojson.
type Directions struct {
	client *Client
}

func NewDirections(client *Client) *Directions {
	return &Directions{client: client}
}

// Directions returns the driving path through points in order. ORS returns one
// segment per pair of consecutive points; each becomes a domain.Leg.
func (d *Directions) Directions(
	ctx context.Context,
	points []domain.Coordinates,
) (_ domain.DrivingDirections, err error) {
	defer obs.Time(ctx, "ors.Directions")(&err)

	if len(points) < 2 {
		return domain.DrivingDirections{}, errors.New("directions: at least two points are required")
	}

	coords := make([][]float64, 0, len(points))
	for _, p := range points {
		coords = append(coords, p.CoordsToList())
	}

	payload, err := json.Marshal(directionsRequest{Coordinates: coords, Instructions: true})
	if err != nil {
		return domain.DrivingDirections{}, fmt.Errorf("marshal directions request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", d.client.baseURL, d.client.profile)

	resp, err := d.client.doWithRetry(ctx, func() (*http.Request, error) {
		return d.client.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return domain.DrivingDirections{}, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return domain.DrivingDirections{}, fmt.Errorf("decode directions response: %w", err)
	}

	if len(dr.Features) == 0 {
		return domain.DrivingDirections{}, errors.New("directions: no route returned")
	}
	feature := dr.Features[0]

	path := make([]domain.Coordinates, 0, len(feature.Geometry.Coordinates))
	for i, c := range feature.Geometry.Coordinates {
		// GeoJSON positions may carry a third (elevation) value.
		if len(c) < 2 {
			return domain.DrivingDirections{}, fmt.Errorf("directions: invalid position at index %d", i)
		}
		path = append(path, domain.Coordinates{Lon: c[0], Lat: c[1]})
	}

	legs := make([]domain.Leg, 0, len(feature.Properties.Segments))
	for _, seg := range feature.Properties.Segments {
		steps := make([]domain.Step, 0, len(seg.Steps))
		for _, s := range seg.Steps {
			steps = append(steps, domain.Step{
				Instruction:     s.Instruction,
				Name:            s.Name,
				DistanceMeters:  s.Distance,
				DurationSeconds: s.Duration,
			})
		}
		legs = append(legs, domain.Leg{
			DistanceMeters:  seg.Distance,
			DurationSeconds: seg.Duration,
			Steps:           steps,
		})
	}

	return domain.DrivingDirections{
		Path:            path,
		DistanceMeters:  feature.Properties.Summary.Distance,
		DurationSeconds: feature.Properties.Summary.Duration,
		Legs:            legs,
	}, nil
}
