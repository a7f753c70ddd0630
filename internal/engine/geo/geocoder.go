package geo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/rendis/geofind/internal/engine/transport"
	"github.com/rendis/geofind/internal/model"
)

const nominatimURL = "https://nominatim.openstreetmap.org/search"

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocoder turns free-text locations into a reference point using the OSM
// Nominatim API.
type Geocoder struct {
	http    *http.Client
	baseURL string
}

func NewGeocoder(client *http.Client) *Geocoder {
	return &Geocoder{http: client, baseURL: nominatimURL}
}

// Geocode returns the coordinates and display name of the best match for q.
func (g *Geocoder) Geocode(ctx context.Context, q string) (model.LocationCoords, string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return model.LocationCoords{}, "", errors.New("empty location")
	}

	u := g.baseURL + "?" + url.Values{
		"q":      {q},
		"format": {"json"},
		"limit":  {"1"},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return model.LocationCoords{}, "", errors.Wrap(err, "creating request")
	}
	req.Header.Set("User-Agent", transport.UserAgent)

	resp, err := g.http.Do(req)
	if err != nil {
		return model.LocationCoords{}, "", errors.Wrap(err, "geocoding request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.LocationCoords{}, "", errors.Errorf("geocoding returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return model.LocationCoords{}, "", errors.Wrap(err, "decoding geocoding response")
	}
	if len(results) == 0 {
		return model.LocationCoords{}, "", errors.Errorf("location %q not found", q)
	}

	lat, errLat := strconv.ParseFloat(results[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(results[0].Lon, 64)
	c := model.LocationCoords{Latitude: lat, Longitude: lon}
	if errLat != nil || errLon != nil || !ValidCoords(c) {
		return model.LocationCoords{}, "", errors.New("invalid coordinates from geocoder")
	}

	return c, results[0].DisplayName, nil
}
