package seed

import (
	"encoding/json"
	"fleet-route-service/internal/domain"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

// FleetWriter is the part of the registry a fixture populates.
type FleetWriter interface {
	SetWarehouse(address, state string) (domain.Warehouse, error)
	RegisterVehicle(name string, vehicleType domain.VehicleType, carrying, fuel decimal.Decimal) (domain.Vehicle, error)
}

type WarehouseSeed struct {
	Address string `json:"address"`
	State   string `json:"state"`
}

type VehicleSeed struct {
	Name             string          `json:"name"`
	Type             string          `json:"type"`
	CarryingCapacity decimal.Decimal `json:"carryingCapacity"`
	FuelEfficiency   decimal.Decimal `json:"fuelEfficiency"`
}

type FleetSeed struct {
	Warehouse *WarehouseSeed `json:"warehouse"`
	Vehicles  []VehicleSeed  `json:"vehicles"`
}

// Populate the registry with the warehouse and vehicles from a JSON file.
// The whole file is validated before anything is written.
func SeedFromJSON(jsonPath string, fleet FleetWriter) (FleetSeed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return FleetSeed{}, fmt.Errorf("seed fleet: read %q: %w", jsonPath, err)
	}

	var data FleetSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return FleetSeed{}, fmt.Errorf("seed fleet: parse json: %w", err)
	}

	types := make([]domain.VehicleType, 0, len(data.Vehicles))
	for i, v := range data.Vehicles {
		if strings.TrimSpace(v.Name) == "" {
			return FleetSeed{}, fmt.Errorf("seed fleet: vehicle at index %d: name cannot be empty", i+1)
		}
		vt, err := domain.ParseVehicleType(v.Type)
		if err != nil {
			return FleetSeed{}, fmt.Errorf("seed fleet: vehicle at index %d: %w", i+1, err)
		}
		types = append(types, vt)
	}

	if data.Warehouse != nil {
		if _, err := fleet.SetWarehouse(data.Warehouse.Address, data.Warehouse.State); err != nil {
			return FleetSeed{}, fmt.Errorf("seed fleet: warehouse: %w", err)
		}
	}

	for i, v := range data.Vehicles {
		if _, err := fleet.RegisterVehicle(v.Name, types[i], v.CarryingCapacity, v.FuelEfficiency); err != nil {
			return FleetSeed{}, fmt.Errorf("seed fleet: vehicle %q at index %d: %w", v.Name, i+1, err)
		}
	}

	return data, nil
}
