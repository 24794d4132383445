package dto

import (
	"fleet-route-service/internal/domain"

	"github.com/shopspring/decimal"
)

// Quantities are decimals and encode as JSON strings ("12.5"); requests accept
// either numbers or strings.

type WarehouseRequest struct {
	Address string `json:"address"`
	State   string `json:"state"`
}

type WarehouseResponse struct {
	Address string `json:"address"`
	State   string `json:"state"`
}

type GetWarehouseResponse struct {
	Warehouse *WarehouseResponse `json:"warehouse"`
}

type VehicleRequest struct {
	Name             string          `json:"name"`
	Type             string          `json:"type"`
	CarryingCapacity decimal.Decimal `json:"carrying_capacity"`
	FuelEfficiency   decimal.Decimal `json:"fuel_efficiency"`
}

type VehicleResponse struct {
	Name              string          `json:"name"`
	Type              string          `json:"type"`
	CarryingCapacity  decimal.Decimal `json:"carrying_capacity"`
	FuelEfficiency    decimal.Decimal `json:"fuel_efficiency"`
	CurrentCapacity   decimal.Decimal `json:"current_capacity"`
	RemainingCapacity decimal.Decimal `json:"remaining_capacity"`
}

type SelectedVehicleResponse struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type ListVehiclesResponse struct {
	Vehicles []VehicleResponse        `json:"vehicles"`
	Selected *SelectedVehicleResponse `json:"selected"`
}

type SelectVehicleRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type SelectVehicleResponse struct {
	Selected *SelectedVehicleResponse `json:"selected"`
}

// VehicleType and VehicleName are optional; when both are empty the stop is
// assigned to the selected vehicle.
type DeliveryRequest struct {
	Address     string          `json:"address"`
	Pincode     string          `json:"pincode"`
	Region      string          `json:"region"`
	Weight      decimal.Decimal `json:"weight"`
	Priority    string          `json:"priority"`
	VehicleType string          `json:"vehicle_type"`
	VehicleName string          `json:"vehicle_name"`
}

type DeliveryResponse struct {
	ID          string          `json:"id"`
	Address     string          `json:"address"`
	Pincode     string          `json:"pincode"`
	Region      string          `json:"region"`
	Weight      decimal.Decimal `json:"weight"`
	Priority    string          `json:"priority"`
	VehicleType string          `json:"vehicle_type"`
	VehicleName string          `json:"vehicle_name"`
}

type ListDeliveriesResponse struct {
	Deliveries []DeliveryResponse `json:"deliveries"`
}

func NewWarehouseResponse(w domain.Warehouse) WarehouseResponse {
	return WarehouseResponse{Address: w.Address, State: w.State}
}

func NewVehicleResponse(v domain.Vehicle) VehicleResponse {
	return VehicleResponse{
		Name:              v.Name,
		Type:              string(v.Type),
		CarryingCapacity:  v.CarryingCapacity,
		FuelEfficiency:    v.FuelEfficiency,
		CurrentCapacity:   v.CurrentCapacity,
		RemainingCapacity: v.Remaining(),
	}
}

func NewSelectedVehicleResponse(sel *domain.SelectedVehicle) *SelectedVehicleResponse {
	if sel == nil {
		return nil
	}
	return &SelectedVehicleResponse{Type: string(sel.Type), Name: sel.Name}
}

func NewDeliveryResponse(s domain.DeliveryStop) DeliveryResponse {
	return DeliveryResponse{
		ID:          s.ID.String(),
		Address:     s.Address,
		Pincode:     s.Pincode,
		Region:      s.Region,
		Weight:      s.Weight,
		Priority:    string(s.Priority),
		VehicleType: string(s.VehicleType),
		VehicleName: s.VehicleName,
	}
}
