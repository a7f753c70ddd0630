package genai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/rendis/geofind/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.Client(), srv.URL+"/", "test-model", "secret")
}

func TestLookupSendsMapsGroundedRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if r.URL.Path != "/models/test-model:generateContent" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "secret" {
			t.Errorf("missing api key header")
		}
		body, _ := io.ReadAll(r.Body)
		if !gjson.GetBytes(body, "tools.0.googleMaps").Exists() {
			t.Errorf("expected googleMaps tool in %s", body)
		}
		if lat := gjson.GetBytes(body, "toolConfig.retrievalConfig.latLng.latitude").Float(); lat != 40 {
			t.Errorf("expected latitude 40, got %v", lat)
		}
		if !strings.Contains(gjson.GetBytes(body, "contents.0.parts.0.text").String(), "coffee shops") {
			t.Errorf("expected category in prompt")
		}
		w.Write([]byte(lookupBody))
	})

	got, err := c.Lookup(context.Background(), "coffee shops", model.LocationQuery{
		Coords: &model.LocationCoords{Latitude: 40, Longitude: -74},
	})
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 businesses, got %d", len(got))
	}
}

func TestLookupWithManualLocationOmitsLatLng(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if gjson.GetBytes(body, "toolConfig").Exists() {
			t.Errorf("expected no toolConfig for manual location")
		}
		if !strings.Contains(gjson.GetBytes(body, "contents.0.parts.0.text").String(), "Brooklyn") {
			t.Errorf("expected manual location in prompt")
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"none"}]}}]}`))
	})

	got, err := c.Lookup(context.Background(), "bakeries", model.LocationQuery{Text: "Brooklyn"})
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no businesses, got %d", len(got))
	}
}

func TestGenerateReturnsAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded"}}`))
	})

	_, err := c.Pitch(context.Background(), "Blue Bottle", "coffee")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if !apiErr.RateLimited() || apiErr.Message != "quota exceeded" {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
	if !IsRateLimited(fmt.Errorf("looking up: %w", err)) {
		t.Fatalf("expected wrapped error to report rate limiting")
	}
	if IsRateLimited(&APIError{StatusCode: http.StatusInternalServerError}) {
		t.Fatalf("a 500 is not rate limiting")
	}
}

func TestGenerateRequiresAPIKey(t *testing.T) {
	c := NewClient(http.DefaultClient, "", "m", "")
	if _, err := c.Details(context.Background(), "abc"); err == nil {
		t.Fatalf("expected error without api key")
	}
}

func TestDetailsAndPitch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		prompt := gjson.GetBytes(body, "contents.0.parts.0.text").String()
		if strings.Contains(prompt, "place with id") {
			w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"phone\":\"123\"}"}]}}]}`))
			return
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Hi!"}]}}]}`))
	})

	d, err := c.Details(context.Background(), "places/abc")
	if err != nil || d.Phone != "123" {
		t.Fatalf("details: %+v, %v", d, err)
	}
	msg, err := c.Pitch(context.Background(), "Blue Bottle", "coffee")
	if err != nil || msg != "Hi!" {
		t.Fatalf("pitch: %q, %v", msg, err)
	}
}
