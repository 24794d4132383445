package handlers

import (
	"fleet-route-service/internal/api/dto"
	"fleet-route-service/internal/fleet"
	"net/http"
)

type WarehouseHandler struct {
	Fleet   *fleet.Registry
	Markers *MarkerRefresher
}

func (h *WarehouseHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	if r.Method == http.MethodGet {
		res := dto.GetWarehouseResponse{}
		if wh, ok := h.Fleet.Warehouse(); ok {
			whRes := dto.NewWarehouseResponse(wh)
			res.Warehouse = &whRes
		}
		writeJSON(w, r, http.StatusOK, res)
		return
	}

	var req dto.WarehouseRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	wh, err := h.Fleet.SetWarehouse(req.Address, req.State)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	h.Markers.Warehouse(r.Context(), wh)

	writeJSON(w, r, http.StatusOK, dto.NewWarehouseResponse(wh))
}
