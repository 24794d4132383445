package optimizer

import (
	"encoding/json"
	"fleet-route-service/internal/domain"
	"fmt"

	"github.com/shopspring/decimal"
)

// Wire format of POST /optimize-route, shared by the client and the service.

type WarehouseJSON struct {
	WarehouseAddress string `json:"warehouseAddress"`
	State            string `json:"state"`
}

type LocationJSON struct {
	Address  string      `json:"address"`
	Pincode  string      `json:"pincode"`
	Region   string      `json:"region"`
	Weight   json.Number `json:"weight"`
	Priority string      `json:"priority"`
	Vehicle  string      `json:"vehicle"`
}

type Request struct {
	Warehouse         *WarehouseJSON `json:"warehouse"`
	DeliveryLocations []LocationJSON `json:"deliveryLocations"`
}

// Coordinates are [lat, lng] pairs; distance is in km.
type RouteJSON struct {
	Route    [][]float64 `json:"route"`
	Distance float64     `json:"distance"`
}

type Response struct {
	Error           string               `json:"error,omitempty"`
	OptimizedRoutes map[string]RouteJSON `json:"optimized_routes,omitempty"`
}

func NewRequest(req domain.RouteRequest) Request {
	locs := make([]LocationJSON, 0, len(req.Stops))
	for _, s := range req.Stops {
		locs = append(locs, LocationJSON{
			Address:  s.Address,
			Pincode:  s.Pincode,
			Region:   s.Region,
			Weight:   json.Number(s.Weight.String()),
			Priority: string(s.Priority),
			Vehicle:  s.VehicleName,
		})
	}

	return Request{
		Warehouse: &WarehouseJSON{
			WarehouseAddress: req.Warehouse.Address,
			State:            req.Warehouse.State,
		},
		DeliveryLocations: locs,
	}
}

// RouteRequest converts a decoded request back to the domain form. Only the
// fields the optimizer uses are checked; a bad weight is kept as zero.
func (r Request) RouteRequest() domain.RouteRequest {
	var out domain.RouteRequest
	if r.Warehouse != nil {
		out.Warehouse = domain.Warehouse{Address: r.Warehouse.WarehouseAddress, State: r.Warehouse.State}
	}

	for _, l := range r.DeliveryLocations {
		w, _ := decimal.NewFromString(l.Weight.String())
		out.Stops = append(out.Stops, domain.DeliveryStop{
			Address:     l.Address,
			Pincode:     l.Pincode,
			Region:      l.Region,
			Weight:      w,
			Priority:    domain.Priority(l.Priority),
			VehicleName: l.Vehicle,
		})
	}
	return out
}

func NewRouteJSON(r domain.OptimizedRoute) RouteJSON {
	pairs := make([][]float64, 0, len(r.Route))
	for _, c := range r.Route {
		pairs = append(pairs, c.LatLng())
	}
	return RouteJSON{Route: pairs, Distance: r.DistanceKm}
}

func (r RouteJSON) OptimizedRoute() (domain.OptimizedRoute, error) {
	route := make([]domain.Coordinates, 0, len(r.Route))
	for i, pair := range r.Route {
		c, err := domain.CoordinatesFromLatLng(pair)
		if err != nil {
			return domain.OptimizedRoute{}, fmt.Errorf("route point %d: %w", i, err)
		}
		route = append(route, c)
	}
	return domain.OptimizedRoute{Route: route, DistanceKm: r.Distance}, nil
}
