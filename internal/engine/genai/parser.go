package genai

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/rendis/geofind/internal/model"
)

// ErrEmptyResponse means the model produced neither text nor grounding data.
var ErrEmptyResponse = errors.New("empty model response")

// ParseLookupResponse turns a generateContent answer into businesses.
//
// Businesses come from the Maps grounding chunks, in order. Coordinates come
// from a JSON array in the answer text, matched by place id and then by
// title. Entries in that array that carry a place id but no grounding chunk
// are appended after the grounded ones.
func ParseLookupResponse(body []byte) ([]model.Business, error) {
	root, err := parseRoot(body)
	if err != nil {
		return nil, err
	}

	cand := root.Get("candidates.0")
	text := candidateText(cand)
	chunks := cand.Get("groundingMetadata.groundingChunks").Array()
	if text == "" && len(chunks) == 0 {
		return nil, ErrEmptyResponse
	}

	var annotated []gjson.Result
	if arr := extractJSON(text, '[', ']', isPlaceList); arr.IsArray() {
		annotated = arr.Array()
	}

	byID := make(map[string]gjson.Result)
	byTitle := make(map[string]gjson.Result)
	for _, a := range annotated {
		if id := a.Get("placeId").String(); id != "" {
			byID[id] = a
		}
		if title := normalizeTitle(a.Get("title").String()); title != "" {
			byTitle[title] = a
		}
	}

	var businesses []model.Business
	grounded := make(map[string]bool)
	for _, ch := range chunks {
		m := ch.Get("maps")
		if !m.Exists() {
			continue
		}
		b := model.Business{
			Title:   m.Get("title").String(),
			URI:     m.Get("uri").String(),
			PlaceID: m.Get("placeId").String(),
		}
		if b.PlaceID == "" {
			continue
		}

		a, ok := byID[b.PlaceID]
		if !ok {
			a, ok = byTitle[normalizeTitle(b.Title)]
		}
		if ok {
			b.Latitude, b.Longitude = coordsOf(a)
		}

		grounded[b.PlaceID] = true
		businesses = append(businesses, b)
	}

	for _, a := range annotated {
		id := a.Get("placeId").String()
		if id == "" || grounded[id] {
			continue
		}
		b := model.Business{
			Title:   a.Get("title").String(),
			URI:     a.Get("uri").String(),
			PlaceID: id,
		}
		if b.URI == "" {
			b.URI = mapsURL(id)
		}
		b.Latitude, b.Longitude = coordsOf(a)
		grounded[id] = true
		businesses = append(businesses, b)
	}

	return businesses, nil
}

// ParseDetailsResponse reads the JSON object the details prompt asks for.
func ParseDetailsResponse(body []byte) (model.BusinessDetails, error) {
	root, err := parseRoot(body)
	if err != nil {
		return model.BusinessDetails{}, err
	}

	text := candidateText(root.Get("candidates.0"))
	if text == "" {
		return model.BusinessDetails{}, ErrEmptyResponse
	}

	obj := extractJSON(text, '{', '}', gjson.Result.IsObject)
	if !obj.IsObject() {
		return model.BusinessDetails{}, errors.New("details not found in model response")
	}

	d := model.BusinessDetails{
		Address: strings.TrimSpace(obj.Get("address").String()),
		Phone:   strings.TrimSpace(obj.Get("phone").String()),
		Website: strings.TrimSpace(obj.Get("website").String()),
	}

	hours := obj.Get("hours")
	switch {
	case hours.IsArray():
		for _, h := range hours.Array() {
			if s := strings.TrimSpace(h.String()); s != "" {
				d.Hours = append(d.Hours, s)
			}
		}
	case hours.Type == gjson.String:
		for _, line := range strings.Split(hours.String(), "\n") {
			if s := strings.TrimSpace(line); s != "" {
				d.Hours = append(d.Hours, s)
			}
		}
	}

	return d, nil
}

// ParsePitchResponse returns the plain-text answer.
func ParsePitchResponse(body []byte) (string, error) {
	root, err := parseRoot(body)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(candidateText(root.Get("candidates.0")))
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func parseRoot(body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, errors.New("malformed model response")
	}
	root := gjson.ParseBytes(body)
	if reason := root.Get("promptFeedback.blockReason").String(); reason != "" {
		return gjson.Result{}, errors.Errorf("request blocked by model: %s", reason)
	}
	return root, nil
}

// candidateText joins the text parts of a candidate.
func candidateText(cand gjson.Result) string {
	var sb strings.Builder
	for _, p := range cand.Get("content.parts").Array() {
		sb.WriteString(p.Get("text").String())
	}
	return sb.String()
}

// extractJSON finds the first JSON value delimited by open..close in text
// that accept agrees with. The text may wrap it in prose, citations or a
// markdown fence. Spans are tried from the earliest opener and the widest
// closer inward.
func extractJSON(text string, open, close byte, accept func(gjson.Result) bool) gjson.Result {
	for start := strings.IndexByte(text, open); start >= 0; {
		for end := strings.LastIndexByte(text, close); end > start; {
			if raw := text[start : end+1]; gjson.Valid(raw) {
				if v := gjson.Parse(raw); accept(v) {
					return v
				}
			}
			end = strings.LastIndexByte(text[:end], close)
		}
		next := strings.IndexByte(text[start+1:], open)
		if next < 0 {
			break
		}
		start += next + 1
	}
	return gjson.Result{}
}

func isPlaceList(v gjson.Result) bool {
	if !v.IsArray() {
		return false
	}
	items := v.Array()
	return len(items) > 0 && items[0].IsObject()
}

func coordsOf(a gjson.Result) (*float64, *float64) {
	lat, lng := a.Get("latitude"), a.Get("longitude")
	if lat.Type != gjson.Number || lng.Type != gjson.Number {
		return nil, nil
	}
	return model.Float(lat.Float()), model.Float(lng.Float())
}

func normalizeTitle(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// mapsURL constructs a Google Maps URL from a place id.
func mapsURL(placeID string) string {
	return "https://www.google.com/maps/place/?q=place_id:" + strings.TrimPrefix(placeID, "places/")
}
