package services

import (
	"context"
	"errors"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/platform/obs"
	"fleet-route-service/internal/ports"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultMarkerConcurrency = 4
	WarehouseMarkerID        = "warehouse"
)

type MarkerFailure struct {
	StopID  string
	Address string
	Err     error
}

// MarkerReport summarizes one marker pass. Failures are per stop.
type MarkerReport struct {
	Placed   int
	Failures []MarkerFailure
}

// DisplayMarkers geocodes every stop independently and pins it on the map.
// A stop that cannot be resolved or placed is recorded and does not stop the others.
func DisplayMarkers(
	ctx context.Context,
	stops []domain.DeliveryStop,
	geocoder ports.Geocoder,
	renderer ports.MapRenderer,
	concurrency int,
) MarkerReport {
	var err error
	defer obs.Time(ctx, "markers.Display")(&err)

	if concurrency <= 0 {
		concurrency = DefaultMarkerConcurrency
	}

	var (
		mu     sync.Mutex
		report MarkerReport
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, stop := range stops {
		g.Go(func() error {
			id := stop.ID.String()
			placeErr := placeMarker(gctx, geocoder, renderer, id, stop.GeocodeQuery(), stop.Address)

			mu.Lock()
			defer mu.Unlock()
			if placeErr != nil {
				log.Printf("marker failed stop_id=%s address=%q err=%v", id, stop.Address, placeErr)
				report.Failures = append(report.Failures, MarkerFailure{StopID: id, Address: stop.Address, Err: placeErr})
				return nil
			}
			report.Placed++
			return nil
		})
	}

	// Workers never return errors; failures live in the report.
	_ = g.Wait()

	if len(report.Failures) > 0 {
		err = fmt.Errorf("%d of %d markers failed", len(report.Failures), len(stops))
	}
	return report
}

// DisplayWarehouse pins the warehouse, replacing any previous warehouse marker.
func DisplayWarehouse(
	ctx context.Context,
	warehouse domain.Warehouse,
	geocoder ports.Geocoder,
	renderer ports.MapRenderer,
) error {
	return placeMarker(ctx, geocoder, renderer, WarehouseMarkerID, warehouse.GeocodeQuery(), "Warehouse Location")
}

func placeMarker(
	ctx context.Context,
	geocoder ports.Geocoder,
	renderer ports.MapRenderer,
	id string,
	query string,
	title string,
) error {
	pos, err := geocoder.Geocode(ctx, query)
	if err != nil {
		if !errors.Is(err, domain.ErrGeocodeFailure) {
			err = fmt.Errorf("%w: %w", domain.ErrGeocodeFailure, err)
		}
		return fmt.Errorf("place marker %q: %w", query, err)
	}

	if err := renderer.RenderMarker(ctx, domain.Marker{ID: id, Position: pos, Title: title}); err != nil {
		return fmt.Errorf("place marker %q: %w", query, err)
	}
	return nil
}
