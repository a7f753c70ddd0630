package geo

import (
	"math"
	"testing"

	"github.com/rendis/geofind/internal/model"
)

func TestDistanceKmKnownPairs(t *testing.T) {
	tests := []struct {
		name string
		a, b model.LocationCoords
		want float64
		tol  float64
	}{
		{
			name: "one degree of latitude",
			a:    model.LocationCoords{Latitude: 0, Longitude: 0},
			b:    model.LocationCoords{Latitude: 1, Longitude: 0},
			want: 6371 * math.Pi / 180,
			tol:  1e-9,
		},
		{
			name: "antipodal on the equator",
			a:    model.LocationCoords{Latitude: 0, Longitude: 0},
			b:    model.LocationCoords{Latitude: 0, Longitude: 180},
			want: 6371 * math.Pi,
			tol:  1e-6,
		},
		{
			name: "madrid to barcelona",
			a:    model.LocationCoords{Latitude: 40.4168, Longitude: -3.7038},
			b:    model.LocationCoords{Latitude: 41.3874, Longitude: 2.1686},
			want: 505,
			tol:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tol {
				t.Fatalf("DistanceKm = %f, want %f ± %g", got, tt.want, tt.tol)
			}
		})
	}
}

func TestDistanceKmSymmetricAndZero(t *testing.T) {
	points := []model.LocationCoords{
		{Latitude: 40, Longitude: -74},
		{Latitude: -33.4489, Longitude: -70.6693},
		{Latitude: 89.9, Longitude: 179.9},
		{Latitude: -89.9, Longitude: -179.9},
		{Latitude: 0, Longitude: 0},
	}

	for _, a := range points {
		if d := DistanceKm(a, a); d != 0 {
			t.Fatalf("DistanceKm(%v, %v) = %f, want 0", a, a, d)
		}
		for _, b := range points {
			if ab, ba := DistanceKm(a, b), DistanceKm(b, a); ab != ba {
				t.Fatalf("asymmetric distance %v/%v: %f != %f", a, b, ab, ba)
			}
		}
	}
}

func TestValidCoords(t *testing.T) {
	tests := []struct {
		c    model.LocationCoords
		want bool
	}{
		{model.LocationCoords{Latitude: 40, Longitude: -74}, true},
		{model.LocationCoords{Latitude: 90, Longitude: 180}, true},
		{model.LocationCoords{Latitude: 90.1, Longitude: 0}, false},
		{model.LocationCoords{Latitude: 0, Longitude: -180.5}, false},
		{model.LocationCoords{Latitude: math.NaN(), Longitude: 0}, false},
		{model.LocationCoords{Latitude: 0, Longitude: math.Inf(1)}, false},
	}
	for _, tt := range tests {
		if got := ValidCoords(tt.c); got != tt.want {
			t.Fatalf("ValidCoords(%v) = %v, want %v", tt.c, got, tt.want)
		}
	}
}
