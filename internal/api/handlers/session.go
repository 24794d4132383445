package handlers

import (
	"fleet-route-service/internal/adapters/mapview"
	"fleet-route-service/internal/fleet"
	"fleet-route-service/internal/services"
	"net/http"
)

type SessionHandler struct {
	Fleet    *fleet.Registry
	Pipeline *services.RoutePipeline
	Canvas   *mapview.Canvas
	Markers  *MarkerRefresher
}

// Reset starts a new session: the registry and the map are emptied.
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}

	// Let in-flight marker placement land before the map is cleared.
	h.Markers.Wait()
	h.Fleet.Reset()
	// After the registry, so a route request that read the old fleet is refused.
	h.Pipeline.CancelAll()
	h.Canvas.Clear()

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "reset"})
}
