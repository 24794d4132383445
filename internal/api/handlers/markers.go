package handlers

import (
	"context"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/ports"
	"fleet-route-service/internal/services"
	"log"
	"sync"
)

// MarkerRefresher places map markers in the background so that geocoding
// never delays the response to the operator.
type MarkerRefresher struct {
	Geocoder    ports.Geocoder
	Renderer    ports.MapRenderer
	Concurrency int

	wg sync.WaitGroup

	// Only the newest warehouse may place its marker; geocoding can finish
	// out of order.
	warehouseMu  sync.Mutex
	warehouseGen uint64
}

// Warehouse replaces the warehouse marker.
func (m *MarkerRefresher) Warehouse(ctx context.Context, w domain.Warehouse) {
	if m == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)

	m.warehouseMu.Lock()
	m.warehouseGen++
	gen := m.warehouseGen
	m.warehouseMu.Unlock()

	renderer := &latestWarehouse{m: m, gen: gen}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := services.DisplayWarehouse(ctx, w, m.Geocoder, renderer); err != nil {
			log.Printf("warehouse marker failed: address=%q err=%v", w.Address, err)
		}
	}()
}

// Stops places a marker for each stop. Failures are logged per stop.
func (m *MarkerRefresher) Stops(ctx context.Context, stops []domain.DeliveryStop) {
	if m == nil || len(stops) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		report := services.DisplayMarkers(ctx, stops, m.Geocoder, m.Renderer, m.Concurrency)
		log.Printf("markers placed=%d failed=%d", report.Placed, len(report.Failures))
	}()
}

// Wait blocks until every background refresh has finished.
func (m *MarkerRefresher) Wait() {
	if m == nil {
		return
	}
	m.wg.Wait()
}

// latestWarehouse renders a warehouse marker only while gen is still the
// newest warehouse. The check and the render share one lock.
type latestWarehouse struct {
	m   *MarkerRefresher
	gen uint64
}

func (l *latestWarehouse) RenderMarker(ctx context.Context, mk domain.Marker) error {
	l.m.warehouseMu.Lock()
	defer l.m.warehouseMu.Unlock()

	if l.gen != l.m.warehouseGen {
		log.Printf("warehouse marker superseded: title=%q", mk.Title)
		return nil
	}
	return l.m.Renderer.RenderMarker(ctx, mk)
}

func (l *latestWarehouse) RenderDrivingRoute(
	ctx context.Context,
	req domain.DrivingRouteRequest,
) (domain.DrivingDirections, error) {
	return l.m.Renderer.RenderDrivingRoute(ctx, req)
}
