package handlers

import (
	"errors"
	"fleet-route-service/internal/adapters/optimizer"
	"fleet-route-service/internal/ports"
	"fleet-route-service/internal/services"
	"log"
	"net/http"
)

const missingRouteInputMsg = "Warehouse details or delivery locations missing!"

// OptimizeHandler serves the route optimization endpoint itself.
type OptimizeHandler struct {
	Optimizer ports.RouteOptimizer
}

func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}

	var req optimizer.Request
	if !decodeJSON(w, r, &req, false) {
		return
	}

	if req.Warehouse == nil || len(req.DeliveryLocations) == 0 {
		writeError(w, r, http.StatusBadRequest, missingRouteInputMsg)
		return
	}

	routes, err := h.Optimizer.OptimizeRoute(r.Context(), req.RouteRequest())
	if err != nil {
		var addrErr *services.AddressError
		switch {
		case errors.Is(err, services.ErrMissingRouteInput):
			writeError(w, r, http.StatusBadRequest, missingRouteInputMsg)
		case errors.As(err, &addrErr):
			writeError(w, r, http.StatusBadRequest, addrErr.Error())
		default:
			log.Printf("optimize route failed: %v", err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	res := optimizer.Response{OptimizedRoutes: make(map[string]optimizer.RouteJSON, len(routes))}
	for name, route := range routes {
		res.OptimizedRoutes[name] = optimizer.NewRouteJSON(route)
	}
	writeJSON(w, r, http.StatusOK, res)
}
