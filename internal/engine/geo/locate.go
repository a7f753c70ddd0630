package geo

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/rendis/geofind/internal/engine/transport"
	"github.com/rendis/geofind/internal/model"
)

// ErrGeolocationUnavailable matches every failure returned by Resolve.
var ErrGeolocationUnavailable = errors.New("geolocation unavailable")

// LocateError describes why the current position could not be obtained.
type LocateError struct {
	Reason string
	Err    error
}

func (e *LocateError) Error() string {
	if e.Err != nil {
		return "geolocation unavailable: " + e.Reason + ": " + e.Err.Error()
	}
	return "geolocation unavailable: " + e.Reason
}

func (e *LocateError) Unwrap() error { return e.Err }

func (e *LocateError) Is(target error) bool { return target == ErrGeolocationUnavailable }

// Locator is the runtime's location capability.
type Locator interface {
	Locate(ctx context.Context) (model.LocationCoords, error)
}

// Resolve performs a single location request. Any failure comes back as a
// *LocateError so callers can fall back to a manual location.
func Resolve(ctx context.Context, l Locator) (model.LocationCoords, error) {
	if l == nil {
		return model.LocationCoords{}, &LocateError{Reason: "unsupported"}
	}
	c, err := l.Locate(ctx)
	if err != nil {
		var le *LocateError
		if errors.As(err, &le) {
			return model.LocationCoords{}, le
		}
		return model.LocationCoords{}, &LocateError{Reason: "request failed", Err: err}
	}
	if !ValidCoords(c) {
		return model.LocationCoords{}, &LocateError{Reason: "invalid coordinates"}
	}
	return c, nil
}

// StaticLocator always reports the same position.
type StaticLocator struct {
	Coords model.LocationCoords
}

func (s StaticLocator) Locate(context.Context) (model.LocationCoords, error) {
	return s.Coords, nil
}

// NoLocator reports that no location capability exists.
type NoLocator struct{}

func (NoLocator) Locate(context.Context) (model.LocationCoords, error) {
	return model.LocationCoords{}, &LocateError{Reason: "unsupported"}
}

type ipLocateResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// IPLocator estimates the position from the public IP address using an
// ip-api.com compatible endpoint.
type IPLocator struct {
	http *http.Client
	url  string
}

func NewIPLocator(client *http.Client, url string) *IPLocator {
	return &IPLocator{http: client, url: url}
}

func (l *IPLocator) Locate(ctx context.Context) (model.LocationCoords, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return model.LocationCoords{}, errors.Wrap(err, "creating request")
	}
	req.Header.Set("User-Agent", transport.UserAgent)

	resp, err := l.http.Do(req)
	if err != nil {
		return model.LocationCoords{}, &LocateError{Reason: "unreachable", Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return model.LocationCoords{}, &LocateError{Reason: "permission denied"}
	case resp.StatusCode != http.StatusOK:
		return model.LocationCoords{}, &LocateError{Reason: "position unavailable",
			Err: errors.Errorf("status %d", resp.StatusCode)}
	}

	var out ipLocateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return model.LocationCoords{}, &LocateError{Reason: "position unavailable", Err: errors.Wrap(err, "decoding response")}
	}
	if out.Status != "" && out.Status != "success" {
		reason := out.Message
		if reason == "" {
			reason = "position unavailable"
		}
		return model.LocationCoords{}, &LocateError{Reason: reason}
	}

	return model.LocationCoords{Latitude: out.Lat, Longitude: out.Lon}, nil
}
