package domain

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371.0088

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Return coordinates as [lat, lng], the order used by the optimizer wire format.
func (c Coordinates) LatLng() []float64 { return []float64{c.Lat, c.Lon} }

// CoordinatesFromLatLng parses a [lat, lng] pair.
func CoordinatesFromLatLng(pair []float64) (Coordinates, error) {
	if len(pair) != 2 {
		return Coordinates{}, fmt.Errorf("coordinates: expected [lat, lng], got %d values", len(pair))
	}
	lat, lng := pair[0], pair[1]
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Coordinates{}, fmt.Errorf("coordinates: [%g, %g] out of range", lat, lng)
	}
	return Coordinates{Lat: lat, Lon: lng}, nil
}

// DistanceKm returns the great-circle distance between a and b.
func DistanceKm(a, b Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}
