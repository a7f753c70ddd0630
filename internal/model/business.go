package model

import (
	"fmt"
	"time"
)

// LocationCoords is a position in degrees.
type LocationCoords struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Business represents a place returned by the lookup collaborator.
// PlaceID is its identity.
type Business struct {
	Title     string   `json:"title"`
	URI       string   `json:"uri"`
	PlaceID   string   `json:"placeId"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Coords returns the business position, or false when either component is missing.
func (b Business) Coords() (LocationCoords, bool) {
	if b.Latitude == nil || b.Longitude == nil {
		return LocationCoords{}, false
	}
	return LocationCoords{Latitude: *b.Latitude, Longitude: *b.Longitude}, true
}

// BusinessDetails is fetched lazily per business and never persisted.
type BusinessDetails struct {
	Address string   `json:"address,omitempty"`
	Phone   string   `json:"phone,omitempty"`
	Website string   `json:"website,omitempty"`
	Hours   []string `json:"hours,omitempty"`
}

// RankedBusiness is a business with its distance from the user, when known.
type RankedBusiness struct {
	Business
	DistanceKm *float64 `json:"distanceKm,omitempty"`
}

// SearchParams holds the user input for one search.
type SearchParams struct {
	Category       string
	ManualLocation string
	Coords         *LocationCoords
	RadiusKm       float64
}

// RecentSearch is one entry of the recent searches history.
type RecentSearch struct {
	Category       string    `json:"category"`
	ManualLocation string    `json:"location,omitempty"`
	Lat            *float64  `json:"lat,omitempty"`
	Lng            *float64  `json:"lng,omitempty"`
	RadiusKm       float64   `json:"radius_km"`
	SearchedAt     time.Time `json:"searched_at"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// LocationQuery is where a lookup should search: coordinates when known,
// otherwise the free text the user typed.
type LocationQuery struct {
	Coords *LocationCoords
	Text   string
}

func (q LocationQuery) String() string {
	if q.Coords != nil {
		return fmt.Sprintf("%.6f, %.6f", q.Coords.Latitude, q.Coords.Longitude)
	}
	return q.Text
}
