package views

import (
	"testing"

	"github.com/rendis/geofind/internal/model"
)

func TestNormalizeFoldsAccents(t *testing.T) {
	if got := normalize("Café Ñandú"); got != "cafe nandu" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestFilterRanked(t *testing.T) {
	all := []model.RankedBusiness{
		{Business: model.Business{Title: "Café Central", PlaceID: "1"}},
		{Business: model.Business{Title: "Central Bakery", PlaceID: "2"}},
		{Business: model.Business{Title: "Pizza Place", PlaceID: "3"}},
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"1", "2", "3"}},
		{"central", []string{"1", "2"}},
		{"CAFE central", []string{"1"}},
		{"sushi", nil},
	}
	for _, tt := range tests {
		got := filterRanked(all, tt.query)
		if len(got) != len(tt.want) {
			t.Fatalf("%q: expected %d results, got %d", tt.query, len(tt.want), len(got))
		}
		for i := range got {
			if got[i].PlaceID != tt.want[i] {
				t.Fatalf("%q: expected %v at %d, got %s", tt.query, tt.want[i], i, got[i].PlaceID)
			}
		}
	}
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		in   *float64
		want string
	}{
		{nil, "-"},
		{model.Float(0.25), "250 m"},
		{model.Float(4.96), "5.0 km"},
	}
	for _, tt := range tests {
		if got := formatDistance(tt.in); got != tt.want {
			t.Fatalf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncate("Crème brûlée", 6); got != "Crème…" {
		t.Fatalf("unexpected %q", got)
	}
	if got := truncate("abc", 3); got != "abc" {
		t.Fatalf("unexpected %q", got)
	}
}
