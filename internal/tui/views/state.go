package views

import (
	"github.com/rendis/geofind/internal/engine/geo"
	"github.com/rendis/geofind/internal/engine/search"
	"github.com/rendis/geofind/internal/favorites"
	"github.com/rendis/geofind/internal/model"
)

// State is owned by the root model. Views read it through a pointer and
// ask the root to change it with messages.
type State struct {
	// Geolocation, resolved once at startup.
	Locating bool
	Here     *model.LocationCoords
	GeoErr   error

	DefaultRadiusKm float64
	Area            *geo.Area
	Favorites       *favorites.Store
	Recent          []model.RecentSearch

	// Generation tags the search in flight; answers carrying another
	// generation are stale.
	Generation string
	Searching  bool
	Params     model.SearchParams
	Found      search.Found
	SearchErr  error

	Details    map[string]model.BusinessDetails
	DetailErrs map[string]error
	Pitches    map[string]string
	PitchErrs  map[string]error
	// Pending holds place ids with a details or pitch request in flight.
	Pending map[string]string

	// Notice is a one-line status message, such as a failed favorite write.
	Notice string
}

func NewState() *State {
	s := &State{}
	s.ResetResults()
	return s
}

// ResetResults clears everything tied to the previous search.
func (s *State) ResetResults() {
	s.Found = search.Found{}
	s.SearchErr = nil
	s.Details = make(map[string]model.BusinessDetails)
	s.DetailErrs = make(map[string]error)
	s.Pitches = make(map[string]string)
	s.PitchErrs = make(map[string]error)
	s.Pending = make(map[string]string)
	s.Notice = ""
}

func (s *State) IsFavorite(placeID string) bool {
	return s.Favorites != nil && s.Favorites.Contains(placeID)
}

// LocationStatus describes the geolocation outcome for display.
func (s *State) LocationStatus() string {
	switch {
	case s.Locating:
		return "Locating..."
	case s.Here != nil:
		return "Using your location (" + formatCoords(*s.Here) + ")"
	case s.GeoErr != nil:
		return "Location unavailable: " + s.GeoErr.Error()
	default:
		return "Location unavailable"
	}
}

// Navigation messages
type NavigateToHome struct{}
type NavigateToFavorites struct{}
type NavigateToRecent struct{}

// NavigateToSearch opens the search form, prefilled from Prefill when set.
type NavigateToSearch struct {
	Prefill *model.RecentSearch
}

// Requests handled by the root model
type SubmitSearch struct {
	Params model.SearchParams
}

type RequestDetails struct {
	Business model.Business
}

type RequestPitch struct {
	Business model.Business
	Category string
}

type ToggleFavorite struct {
	Business model.Business
}
