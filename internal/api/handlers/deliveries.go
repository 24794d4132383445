package handlers

import (
	"fleet-route-service/internal/api/dto"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/fleet"
	"fmt"
	"net/http"
	"strings"
)

type DeliveryHandler struct {
	Fleet   *fleet.Registry
	Markers *MarkerRefresher
}

// Handle lists stops (GET, optionally filtered by ?vehicle= and ?type=) or
// assigns a new one (POST).
func (h *DeliveryHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	if r.Method == http.MethodGet {
		h.list(w, r)
		return
	}

	var req dto.DeliveryRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	in := domain.StopInput{
		Address:  req.Address,
		Pincode:  req.Pincode,
		Region:   req.Region,
		Weight:   req.Weight,
		Priority: req.Priority,
	}

	vehicleType := strings.TrimSpace(req.VehicleType)
	vehicleName := strings.TrimSpace(req.VehicleName)

	var (
		stop domain.DeliveryStop
		err  error
	)
	switch {
	case vehicleType == "" && vehicleName == "":
		stop, err = h.Fleet.AddDeliveryStop(in)
	case vehicleType == "" || vehicleName == "":
		err = fmt.Errorf("add delivery stop: %w: vehicle_type and vehicle_name go together", domain.ErrValidation)
	default:
		vt, perr := domain.ParseVehicleType(vehicleType)
		if perr != nil {
			err = fmt.Errorf("add delivery stop: %w", perr)
			break
		}
		stop, err = h.Fleet.AddDeliveryStopFor(&domain.SelectedVehicle{Type: vt, Name: vehicleName}, in)
	}
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	h.Markers.Stops(r.Context(), []domain.DeliveryStop{stop})

	writeJSON(w, r, http.StatusCreated, dto.NewDeliveryResponse(stop))
}

func (h *DeliveryHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := strings.TrimSpace(q.Get("vehicle"))
	typ := strings.TrimSpace(q.Get("type"))

	var stops []domain.DeliveryStop
	switch {
	case name != "" && typ != "":
		vt, err := domain.ParseVehicleType(typ)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		stops = h.Fleet.StopsForVehicle(vt, name)
	case name != "":
		stops = h.Fleet.StopsFor(name)
	default:
		stops = h.Fleet.Stops()
	}

	res := dto.ListDeliveriesResponse{Deliveries: make([]dto.DeliveryResponse, 0, len(stops))}
	for _, s := range stops {
		res.Deliveries = append(res.Deliveries, dto.NewDeliveryResponse(s))
	}
	writeJSON(w, r, http.StatusOK, res)
}
