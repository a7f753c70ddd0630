package views

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/rendis/geofind/internal/model"
)

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func formatCoords(c model.LocationCoords) string {
	return fmt.Sprintf("%.4f, %.4f", c.Latitude, c.Longitude)
}

func formatDistance(d *float64) string {
	switch {
	case d == nil:
		return "-"
	case *d < 1:
		return fmt.Sprintf("%.0f m", *d*1000)
	default:
		return fmt.Sprintf("%.1f km", *d)
	}
}

// normalize removes accents/diacritics and lowercases text for fuzzy matching.
func normalize(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}), norm.NFC)
	result, _, _ := transform.String(t, strings.ToLower(s))
	return result
}

// filterRanked keeps the businesses whose title or link contain every word
// of query, ignoring case and accents.
func filterRanked(all []model.RankedBusiness, query string) []model.RankedBusiness {
	words := strings.Fields(normalize(query))
	if len(words) == 0 {
		return all
	}
	var out []model.RankedBusiness
	for _, b := range all {
		haystack := normalize(b.Title + " " + b.URI)
		match := true
		for _, w := range words {
			if !strings.Contains(haystack, w) {
				match = false
				break
			}
		}
		if match {
			out = append(out, b)
		}
	}
	return out
}
