package geo

import (
	"math"

	"github.com/umahmood/haversine"

	"github.com/rendis/geofind/internal/model"
)

// DistanceKm returns the great-circle distance between a and b using the
// haversine formula with an Earth radius of 6371 km.
func DistanceKm(a, b model.LocationCoords) float64 {
	_, km := haversine.Distance(
		haversine.Coord{Lat: a.Latitude, Lon: a.Longitude},
		haversine.Coord{Lat: b.Latitude, Lon: b.Longitude},
	)
	return km
}

// ValidCoords reports whether c is finite and inside the lat/lng ranges.
func ValidCoords(c model.LocationCoords) bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) ||
		math.IsInf(c.Latitude, 0) || math.IsInf(c.Longitude, 0) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}
