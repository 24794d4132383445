package api

import (
	"fleet-route-service/internal/adapters/mapview"
	"fleet-route-service/internal/api/dto"
	"fleet-route-service/internal/api/handlers"
	"fleet-route-service/internal/fleet"
	"fleet-route-service/internal/ports"
	"fleet-route-service/internal/realtime"
	"fleet-route-service/internal/services"
	"net/http"
)

// Deps are the collaborators the fleet coordinator API is built from.
type Deps struct {
	Fleet    *fleet.Registry
	Pipeline *services.RoutePipeline
	Canvas   *mapview.Canvas
	Hub      *realtime.Hub
	Markers  *handlers.MarkerRefresher
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	// Every map change is pushed to connected viewers.
	d.Canvas.OnChange(func(s mapview.Snapshot) {
		d.Hub.Broadcast(realtime.EventMapUpdate, dto.NewMapSnapshotResponse(s))
	})

	warehouseHandler := &handlers.WarehouseHandler{Fleet: d.Fleet, Markers: d.Markers}
	vehicleHandler := &handlers.VehicleHandler{Fleet: d.Fleet}
	deliveryHandler := &handlers.DeliveryHandler{Fleet: d.Fleet, Markers: d.Markers}
	routeHandler := &handlers.RouteHandler{Pipeline: d.Pipeline}
	mapHandler := &handlers.MapHandler{Canvas: d.Canvas, Hub: d.Hub}
	sessionHandler := &handlers.SessionHandler{Fleet: d.Fleet, Pipeline: d.Pipeline, Canvas: d.Canvas, Markers: d.Markers}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/warehouse", warehouseHandler.Handle)
	mux.HandleFunc("/vehicles", vehicleHandler.Handle)
	mux.HandleFunc("/vehicles/select", vehicleHandler.Select)
	mux.HandleFunc("/deliveries", deliveryHandler.Handle)
	mux.HandleFunc("/routes", routeHandler.Request)
	mux.HandleFunc("/map", mapHandler.Snapshot)
	mux.HandleFunc("/ws/map", mapHandler.Socket)
	mux.HandleFunc("/session/reset", sessionHandler.Reset)

	return requestIDMiddleware(loggingMiddleware(mux))
}

// NewOptimizerRouter serves the route optimization service.
func NewOptimizerRouter(optimizer ports.RouteOptimizer) http.Handler {
	mux := http.NewServeMux()

	optimizeHandler := &handlers.OptimizeHandler{Optimizer: optimizer}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/optimize-route", optimizeHandler.Optimize)

	return requestIDMiddleware(loggingMiddleware(mux))
}
