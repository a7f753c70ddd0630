package genai

import (
	"fmt"

	"github.com/rendis/geofind/internal/model"
)

func lookupPrompt(category string, loc model.LocationQuery) string {
	where := fmt.Sprintf("near %q", loc.Text)
	if loc.Coords != nil {
		where = fmt.Sprintf("near latitude %.6f, longitude %.6f", loc.Coords.Latitude, loc.Coords.Longitude)
	}
	return fmt.Sprintf(`Find %s %s using Google Maps.
After your answer, output a JSON array with one object per place:
[{"title": "...", "placeId": "...", "latitude": 0.0, "longitude": 0.0}]
Use the Google Maps place id. Omit latitude and longitude when unknown.`, category, where)
}

func detailsPrompt(placeID string) string {
	return fmt.Sprintf(`Using Google Maps, look up the place with id %q.
Answer only with a JSON object:
{"address": "...", "phone": "...", "website": "...", "hours": ["Monday: 9AM-5PM", "..."]}
Use empty strings for unknown fields and one hours entry per day.`, placeID)
}

func pitchPrompt(name, category string) string {
	return fmt.Sprintf(`Write a short, friendly outreach message (under 120 words) to the owner of %q, a local business in the %q category, proposing a collaboration. Plain text only, no subject line.`, name, category)
}
