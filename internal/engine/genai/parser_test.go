package genai

import (
	"errors"
	"testing"
)

const lookupBody = `{
  "candidates": [{
    "content": {"parts": [
      {"text": "Here are some coffee shops [1]:\n1. Blue Bottle\n2. Ritual\n"},
      {"text": "` + "```json" + `\n[{\"title\":\"Blue Bottle\",\"placeId\":\"places/abc\",\"latitude\":40.01,\"longitude\":-74.0},{\"title\":\"ritual  coffee\",\"latitude\":40.2,\"longitude\":-74.1},{\"title\":\"Extra\",\"placeId\":\"places/xyz\"}]\n` + "```" + `"}
    ]},
    "groundingMetadata": {"groundingChunks": [
      {"maps": {"uri": "https://maps.google.com/?cid=1", "title": "Blue Bottle", "placeId": "places/abc"}},
      {"web": {"uri": "https://example.com", "title": "ignored"}},
      {"maps": {"uri": "https://maps.google.com/?cid=2", "title": "Ritual Coffee", "placeId": "places/def"}},
      {"maps": {"uri": "https://maps.google.com/?cid=3", "title": "No Id"}}
    ]}
  }]
}`

func TestParseLookupResponse(t *testing.T) {
	got, err := ParseLookupResponse([]byte(lookupBody))
	if err != nil {
		t.Fatalf("parse lookup: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 businesses, got %d: %+v", len(got), got)
	}

	if got[0].PlaceID != "places/abc" || got[0].Title != "Blue Bottle" || got[0].URI != "https://maps.google.com/?cid=1" {
		t.Fatalf("unexpected first business %+v", got[0])
	}
	if got[0].Latitude == nil || *got[0].Latitude != 40.01 || *got[0].Longitude != -74.0 {
		t.Fatalf("expected coordinates matched by place id, got %+v", got[0])
	}

	if got[1].PlaceID != "places/def" || got[1].Latitude == nil || *got[1].Latitude != 40.2 {
		t.Fatalf("expected coordinates matched by title, got %+v", got[1])
	}

	if got[2].PlaceID != "places/xyz" || got[2].Latitude != nil {
		t.Fatalf("expected ungrounded annotated place without coords, got %+v", got[2])
	}
	if got[2].URI != "https://www.google.com/maps/place/?q=place_id:xyz" {
		t.Fatalf("unexpected fallback uri %q", got[2].URI)
	}
}

func TestParseLookupResponseWithoutPlaces(t *testing.T) {
	body := `{"candidates":[{"content":{"parts":[{"text":"I could not find any."}]}}]}`
	got, err := ParseLookupResponse([]byte(body))
	if err != nil {
		t.Fatalf("parse lookup: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no businesses, got %d", len(got))
	}
}

func TestParseLookupResponseErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"candidates":`},
		{"blocked", `{"promptFeedback":{"blockReason":"SAFETY"}}`},
		{"empty", `{"candidates":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseLookupResponse([]byte(tt.body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	if _, err := ParseLookupResponse([]byte(`{"candidates":[]}`)); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestParseDetailsResponse(t *testing.T) {
	body := `{"candidates":[{"content":{"parts":[{"text":"Sure! {\"address\":\" 1 Main St \",\"phone\":\"+1 555\",\"website\":\"https://x.test\",\"hours\":[\"Monday: 9-5\",\"\",\"Tuesday: 9-5\"]} Hope it helps."}]}}]}`
	d, err := ParseDetailsResponse([]byte(body))
	if err != nil {
		t.Fatalf("parse details: %v", err)
	}
	if d.Address != "1 Main St" || d.Phone != "+1 555" || d.Website != "https://x.test" {
		t.Fatalf("unexpected details %+v", d)
	}
	if len(d.Hours) != 2 || d.Hours[0] != "Monday: 9-5" || d.Hours[1] != "Tuesday: 9-5" {
		t.Fatalf("unexpected hours %v", d.Hours)
	}
}

func TestParseDetailsResponseHoursAsText(t *testing.T) {
	body := `{"candidates":[{"content":{"parts":[{"text":"{\"hours\":\"Mon 9-5\\nTue 9-5\"}"}]}}]}`
	d, err := ParseDetailsResponse([]byte(body))
	if err != nil {
		t.Fatalf("parse details: %v", err)
	}
	if len(d.Hours) != 2 || d.Hours[1] != "Tue 9-5" {
		t.Fatalf("unexpected hours %v", d.Hours)
	}
}

func TestParseDetailsResponseWithoutObject(t *testing.T) {
	body := `{"candidates":[{"content":{"parts":[{"text":"No idea."}]}}]}`
	if _, err := ParseDetailsResponse([]byte(body)); err == nil {
		t.Fatalf("expected error when no JSON object is present")
	}
}

func TestParsePitchResponse(t *testing.T) {
	body := `{"candidates":[{"content":{"parts":[{"text":"  Hello "},{"text":"there!\n"}]}}]}`
	got, err := ParsePitchResponse([]byte(body))
	if err != nil {
		t.Fatalf("parse pitch: %v", err)
	}
	if got != "Hello there!" {
		t.Fatalf("unexpected pitch %q", got)
	}

	if _, err := ParsePitchResponse([]byte(`{"candidates":[{"content":{"parts":[{"text":"  "}]}}]}`)); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}
