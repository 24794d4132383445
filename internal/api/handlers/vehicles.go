package handlers

import (
	"fleet-route-service/internal/api/dto"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/fleet"
	"net/http"
	"strings"
)

type VehicleHandler struct {
	Fleet *fleet.Registry
}

// Handle lists vehicles (GET) or registers one (POST).
func (h *VehicleHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	if r.Method == http.MethodGet {
		vehicles := h.Fleet.Vehicles()
		res := dto.ListVehiclesResponse{
			Vehicles: make([]dto.VehicleResponse, 0, len(vehicles)),
			Selected: dto.NewSelectedVehicleResponse(h.Fleet.Selected()),
		}
		for _, v := range vehicles {
			res.Vehicles = append(res.Vehicles, dto.NewVehicleResponse(v))
		}
		writeJSON(w, r, http.StatusOK, res)
		return
	}

	var req dto.VehicleRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	vt, err := domain.ParseVehicleType(req.Type)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	v, err := h.Fleet.RegisterVehicle(req.Name, vt, req.CarryingCapacity, req.FuelEfficiency)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.NewVehicleResponse(v))
}

// Select moves the selection cursor. An empty name clears it.
func (h *VehicleHandler) Select(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}

	var req dto.SelectVehicleRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	var (
		sel *domain.SelectedVehicle
		err error
	)
	if strings.TrimSpace(req.Type) == "" {
		sel, err = h.Fleet.SelectVehicle(req.Name)
	} else {
		vt, perr := domain.ParseVehicleType(req.Type)
		if perr != nil {
			writeDomainError(w, r, perr)
			return
		}
		sel, err = h.Fleet.SelectVehicleOfType(vt, req.Name)
	}
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.SelectVehicleResponse{Selected: dto.NewSelectedVehicleResponse(sel)})
}
