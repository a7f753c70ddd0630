package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/rendis/geofind/internal/engine/transport"
	"github.com/rendis/geofind/internal/model"
)

// DefaultBaseURL is the public Gemini REST endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// APIError is a non-200 answer from the model API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("model API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("model API error (status %d)", e.StatusCode)
}

// RateLimited reports whether the API asked us to slow down.
func (e *APIError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// IsRateLimited reports whether err, possibly wrapped, is a rate-limited
// API answer.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.RateLimited()
}

// Client talks to a Gemini compatible generateContent endpoint. Every call
// is a single attempt; failures are returned to the caller as-is.
type Client struct {
	http    *http.Client
	baseURL string
	model   string
	apiKey  string
}

func NewClient(httpClient *http.Client, baseURL, model, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type retrievalConfig struct {
	LatLng *latLng `json:"latLng,omitempty"`
}

type toolConfig struct {
	RetrievalConfig retrievalConfig `json:"retrievalConfig"`
}

type tool struct {
	GoogleMaps *struct{} `json:"googleMaps,omitempty"`
}

type generateRequest struct {
	Contents   []content   `json:"contents"`
	Tools      []tool      `json:"tools,omitempty"`
	ToolConfig *toolConfig `json:"toolConfig,omitempty"`
}

func newRequest(prompt string) generateRequest {
	return generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	}
}

func (r *generateRequest) withMaps(coords *model.LocationCoords) {
	r.Tools = append(r.Tools, tool{GoogleMaps: &struct{}{}})
	if coords != nil {
		r.ToolConfig = &toolConfig{RetrievalConfig: retrievalConfig{
			LatLng: &latLng{Latitude: coords.Latitude, Longitude: coords.Longitude},
		}}
	}
}

// Lookup asks the model for businesses of category near loc.
func (c *Client) Lookup(ctx context.Context, category string, loc model.LocationQuery) ([]model.Business, error) {
	req := newRequest(lookupPrompt(category, loc))
	req.withMaps(loc.Coords)

	body, err := c.generate(ctx, req)
	if err != nil {
		return nil, err
	}
	return ParseLookupResponse(body)
}

// Details asks the model for contact details and opening hours of a place.
func (c *Client) Details(ctx context.Context, placeID string) (model.BusinessDetails, error) {
	req := newRequest(detailsPrompt(placeID))
	req.withMaps(nil)

	body, err := c.generate(ctx, req)
	if err != nil {
		return model.BusinessDetails{}, err
	}
	return ParseDetailsResponse(body)
}

// Pitch asks the model for a short outreach message to a business.
func (c *Client) Pitch(ctx context.Context, name, category string) (string, error) {
	body, err := c.generate(ctx, newRequest(pitchPrompt(name, category)))
	if err != nil {
		return "", err
	}
	return ParsePitchResponse(body)
}

func (c *Client) generate(ctx context.Context, gr generateRequest) ([]byte, error) {
	if c.apiKey == "" {
		return nil, errors.New("model API key not configured")
	}

	payload, err := json.Marshal(gr)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling request")
	}

	reqURL := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", transport.UserAgent)
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "executing request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading body")
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(body, "error.message").String()
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	return body, nil
}
