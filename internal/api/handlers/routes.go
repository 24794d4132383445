package handlers

import (
	"fleet-route-service/internal/api/dto"
	"fleet-route-service/internal/services"
	"fmt"
	"net/http"
)

type RouteHandler struct {
	Pipeline *services.RoutePipeline
}

// Request optimizes the chosen vehicle's route and draws it on the shared map.
func (h *RouteHandler) Request(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}

	var req dto.RouteRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	res, err := h.Pipeline.RequestRoute(r.Context(), req.VehicleType, req.VehicleName)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.RouteResponse{
		Message:     fmt.Sprintf("Route optimized! Total Distance: %.2f km", res.Route.DistanceKm),
		VehicleType: string(res.VehicleType),
		VehicleName: res.VehicleName,
		DistanceKm:  res.Route.DistanceKm,
		Route:       dto.LatLngs(res.Route.Route),
		Directions:  dto.NewDirectionsResponse(res.Directions),
	})
}
