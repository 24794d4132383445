package dto

import "fleet-route-service/internal/adapters/mapview"

type MarkerResponse struct {
	ID    string  `json:"id"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Title string  `json:"title"`
}

type WaypointResponse struct {
	Location []float64 `json:"location"`
	Stopover bool      `json:"stopover"`
}

type RouteLayerResponse struct {
	Label       string             `json:"label"`
	Origin      []float64          `json:"origin"`
	Destination []float64          `json:"destination"`
	Waypoints   []WaypointResponse `json:"waypoints"`
	Directions  DirectionsResponse `json:"directions"`
}

type MapSnapshotResponse struct {
	Version uint64              `json:"version"`
	Markers []MarkerResponse    `json:"markers"`
	Route   *RouteLayerResponse `json:"route"`
}

func NewMapSnapshotResponse(s mapview.Snapshot) MapSnapshotResponse {
	markers := make([]MarkerResponse, 0, len(s.Markers))
	for _, m := range s.Markers {
		markers = append(markers, MarkerResponse{
			ID:    m.ID,
			Lat:   m.Position.Lat,
			Lng:   m.Position.Lon,
			Title: m.Title,
		})
	}

	res := MapSnapshotResponse{Version: s.Version, Markers: markers}
	if s.Route != nil {
		req := s.Route.Request
		waypoints := make([]WaypointResponse, 0, len(req.Waypoints))
		for _, w := range req.Waypoints {
			waypoints = append(waypoints, WaypointResponse{Location: w.Location.LatLng(), Stopover: w.Stopover})
		}
		res.Route = &RouteLayerResponse{
			Label:       s.Route.Label,
			Origin:      req.Origin.LatLng(),
			Destination: req.Destination.LatLng(),
			Waypoints:   waypoints,
			Directions:  NewDirectionsResponse(s.Route.Directions),
		}
	}

	return res
}
