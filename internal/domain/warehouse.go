package domain

// Warehouse is the origin of every vehicle's route.
type Warehouse struct {
	Address string
	State   string
}

// GeocodeQuery is the free-text address used to place the warehouse marker.
func (w Warehouse) GeocodeQuery() string {
	return w.Address + ", " + w.State
}
