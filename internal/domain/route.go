package domain

// RouteRequest is what the optimization service receives for one vehicle.
type RouteRequest struct {
	Warehouse Warehouse
	Stops     []DeliveryStop
}

// Represents the optimized visiting order for a single vehicle.
// Route starts at the warehouse; DistanceKm covers the whole route.
type OptimizedRoute struct {
	Route      []Coordinates
	DistanceKm float64
}

// OptimizedRoutes maps a vehicle name to its route.
type OptimizedRoutes map[string]OptimizedRoute

// Waypoint is an intermediate location on a driving route.
type Waypoint struct {
	Location Coordinates
	Stopover bool
}

// DrivingRouteRequest asks the map to draw driving directions.
// Label identifies the route on the map (the vehicle name).
type DrivingRouteRequest struct {
	Label       string
	Origin      Coordinates
	Destination Coordinates
	Waypoints   []Waypoint
}

// Points returns origin, waypoints and destination in driving order.
func (r DrivingRouteRequest) Points() []Coordinates {
	out := make([]Coordinates, 0, len(r.Waypoints)+2)
	out = append(out, r.Origin)
	for _, w := range r.Waypoints {
		out = append(out, w.Location)
	}
	return append(out, r.Destination)
}

// Step is one turn-by-turn instruction.
type Step struct {
	Instruction     string
	Name            string
	DistanceMeters  float64
	DurationSeconds float64
}

// Leg covers the drive between two consecutive stopovers.
type Leg struct {
	DistanceMeters  float64
	DurationSeconds float64
	Steps           []Step
}

// DrivingDirections is the road-following path between the points of a route.
type DrivingDirections struct {
	Path            []Coordinates
	DistanceMeters  float64
	DurationSeconds float64
	Legs            []Leg
}

// Marker is a labeled pin on the map.
type Marker struct {
	ID       string
	Position Coordinates
	Title    string
}
