// Package fleet holds the session's authoritative fleet and delivery state.
package fleet

import (
	"fleet-route-service/internal/domain"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Registry owns the warehouse, the vehicles and their delivery stops.
//
// Every mutation either succeeds completely or leaves the registry unchanged.
// Values handed out are copies; the registry is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	warehouse *domain.Warehouse
	vehicles  map[domain.VehicleType][]*domain.Vehicle
	stops     []domain.DeliveryStop
	selected  *domain.SelectedVehicle
}

func NewRegistry() *Registry {
	r := &Registry{}
	r.reset()
	return r
}

// Reset drops all session state.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reset()
}

func (r *Registry) reset() {
	r.warehouse = nil
	r.vehicles = make(map[domain.VehicleType][]*domain.Vehicle, len(domain.VehicleTypes))
	r.stops = nil
	r.selected = nil
}

// SetWarehouse replaces the warehouse record.
func (r *Registry) SetWarehouse(address, state string) (domain.Warehouse, error) {
	address = strings.TrimSpace(address)
	state = strings.TrimSpace(state)
	if address == "" || state == "" {
		return domain.Warehouse{}, fmt.Errorf("set warehouse: %w: address and state are required", domain.ErrValidation)
	}

	w := domain.Warehouse{Address: address, State: state}

	r.mu.Lock()
	r.warehouse = &w
	r.mu.Unlock()

	return w, nil
}

func (r *Registry) Warehouse() (domain.Warehouse, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.warehouse == nil {
		return domain.Warehouse{}, false
	}
	return *r.warehouse, true
}

// RegisterVehicle adds a vehicle with no load.
// Names are unique within a vehicle type only.
func (r *Registry) RegisterVehicle(
	name string,
	vehicleType domain.VehicleType,
	carryingCapacity decimal.Decimal,
	fuelEfficiency decimal.Decimal,
) (domain.Vehicle, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Vehicle{}, fmt.Errorf("register vehicle: %w: name is required", domain.ErrValidation)
	}

	vt, err := domain.ParseVehicleType(string(vehicleType))
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("register vehicle: %w", err)
	}

	if !carryingCapacity.IsPositive() || !fuelEfficiency.IsPositive() {
		return domain.Vehicle{}, fmt.Errorf(
			"register vehicle: %w: carrying capacity and fuel efficiency must be positive",
			domain.ErrValidation,
		)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.find(vt, name) != nil {
		return domain.Vehicle{}, fmt.Errorf("register vehicle: %w: %s %q already exists", domain.ErrDuplicateName, vt, name)
	}

	v := &domain.Vehicle{
		Name:             name,
		Type:             vt,
		CarryingCapacity: carryingCapacity,
		FuelEfficiency:   fuelEfficiency,
		CurrentCapacity:  decimal.Zero,
	}
	r.vehicles[vt] = append(r.vehicles[vt], v)

	return *v, nil
}

// Vehicles lists every vehicle grouped by type, in registration order.
func (r *Registry) Vehicles() []domain.Vehicle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Vehicle, 0)
	for _, vt := range domain.VehicleTypes {
		for _, v := range r.vehicles[vt] {
			out = append(out, *v)
		}
	}
	return out
}

func (r *Registry) Vehicle(vehicleType domain.VehicleType, name string) (domain.Vehicle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v := r.find(vehicleType, name)
	if v == nil {
		return domain.Vehicle{}, false
	}
	return *v, true
}

// SelectVehicle points the cursor at the first vehicle named name, searching
// bike, truck and van in that order. An empty name clears the selection.
// An unknown name also clears it and reports ErrVehicleNotFound.
func (r *Registry) SelectVehicle(name string) (*domain.SelectedVehicle, error) {
	name = strings.TrimSpace(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.selected = nil
	if name == "" {
		return nil, nil
	}

	for _, vt := range domain.VehicleTypes {
		if v := r.find(vt, name); v != nil {
			r.selected = &domain.SelectedVehicle{Type: vt, Name: v.Name}
			sel := *r.selected
			return &sel, nil
		}
	}

	return nil, fmt.Errorf("select vehicle: %w: %q", domain.ErrVehicleNotFound, name)
}

// SelectVehicleOfType is SelectVehicle for a name that exists under several types.
func (r *Registry) SelectVehicleOfType(vehicleType domain.VehicleType, name string) (*domain.SelectedVehicle, error) {
	name = strings.TrimSpace(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.selected = nil
	if name == "" {
		return nil, nil
	}

	if r.find(vehicleType, name) == nil {
		return nil, fmt.Errorf("select vehicle: %w: %s %q", domain.ErrVehicleNotFound, vehicleType, name)
	}

	r.selected = &domain.SelectedVehicle{Type: vehicleType, Name: name}
	sel := *r.selected
	return &sel, nil
}

func (r *Registry) Selected() *domain.SelectedVehicle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.selected == nil {
		return nil
	}
	sel := *r.selected
	return &sel
}

// AddDeliveryStop assigns a new stop to the currently selected vehicle.
func (r *Registry) AddDeliveryStop(in domain.StopInput) (domain.DeliveryStop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addStop(r.selected, in)
}

// AddDeliveryStopFor assigns a new stop to sel.
//
// Preconditions are checked in order: a vehicle is selected, it still exists,
// the weight fits its remaining capacity, and every field is filled in.
func (r *Registry) AddDeliveryStopFor(sel *domain.SelectedVehicle, in domain.StopInput) (domain.DeliveryStop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addStop(sel, in)
}

func (r *Registry) addStop(sel *domain.SelectedVehicle, in domain.StopInput) (domain.DeliveryStop, error) {
	if sel == nil || sel.Name == "" {
		return domain.DeliveryStop{}, fmt.Errorf("add delivery stop: %w", domain.ErrNoVehicleSelected)
	}

	v := r.find(sel.Type, sel.Name)
	if v == nil {
		return domain.DeliveryStop{}, fmt.Errorf("add delivery stop: %w: %s %q", domain.ErrVehicleNotFound, sel.Type, sel.Name)
	}

	if !v.CanLoad(in.Weight) {
		return domain.DeliveryStop{}, fmt.Errorf(
			"add delivery stop: %w: %q has %s remaining, choose a different vehicle",
			domain.ErrCapacityExceeded, v.Name, v.Remaining(),
		)
	}

	stop, err := newStop(v, in)
	if err != nil {
		return domain.DeliveryStop{}, fmt.Errorf("add delivery stop: %w", err)
	}

	if err := v.Load(stop.Weight); err != nil {
		return domain.DeliveryStop{}, fmt.Errorf("add delivery stop: %w", err)
	}
	r.stops = append(r.stops, stop)

	return stop, nil
}

func newStop(v *domain.Vehicle, in domain.StopInput) (domain.DeliveryStop, error) {
	address := strings.TrimSpace(in.Address)
	pincode := strings.TrimSpace(in.Pincode)
	region := strings.TrimSpace(in.Region)
	if address == "" || pincode == "" || region == "" || strings.TrimSpace(in.Priority) == "" {
		return domain.DeliveryStop{}, fmt.Errorf("%w: address, pincode, region and priority are required", domain.ErrValidation)
	}
	if !in.Weight.IsPositive() {
		return domain.DeliveryStop{}, fmt.Errorf("%w: weight must be positive", domain.ErrValidation)
	}

	priority, err := domain.ParsePriority(in.Priority)
	if err != nil {
		return domain.DeliveryStop{}, err
	}

	return domain.DeliveryStop{
		ID:          uuid.New(),
		Address:     address,
		Pincode:     pincode,
		Region:      region,
		Weight:      in.Weight,
		Priority:    priority,
		VehicleType: v.Type,
		VehicleName: v.Name,
	}, nil
}

// StopsFor returns the stops assigned to any vehicle named vehicleName, in insertion order.
func (r *Registry) StopsFor(vehicleName string) []domain.DeliveryStop {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.DeliveryStop, 0)
	for _, s := range r.stops {
		if s.VehicleName == vehicleName {
			out = append(out, s)
		}
	}
	return out
}

// StopsForVehicle returns the stops assigned to one vehicle, in insertion order.
func (r *Registry) StopsForVehicle(vehicleType domain.VehicleType, vehicleName string) []domain.DeliveryStop {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.DeliveryStop, 0)
	for _, s := range r.stops {
		if s.VehicleType == vehicleType && s.VehicleName == vehicleName {
			out = append(out, s)
		}
	}
	return out
}

func (r *Registry) Stops() []domain.DeliveryStop {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.DeliveryStop(nil), r.stops...)
}

// find must be called with r.mu held.
func (r *Registry) find(vehicleType domain.VehicleType, name string) *domain.Vehicle {
	for _, v := range r.vehicles[vehicleType] {
		if v.Name == name {
			return v
		}
	}
	return nil
}
