package components

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"
)

func TestPointsFromRingSwapsAxes(t *testing.T) {
	pts := PointsFromRing(orb.Ring{{-74, 40}, {-73, 41}})
	if len(pts) != 2 || pts[0].Lat != 40 || pts[0].Lng != -74 || pts[1].Lat != 41 {
		t.Fatalf("unexpected points %+v", pts)
	}
}

func TestMapViewRendersGrid(t *testing.T) {
	m := NewMapView(20, 5)
	m.SetPoints([]Point{{Lat: 40, Lng: -74}, {Lat: 40.05, Lng: -73.95}})
	m.SetReference(&Point{Lat: 40.02, Lng: -73.98})
	m.SetSelected(1)

	out := m.View()
	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(lines))
	}
	braille := 0
	for _, r := range out {
		if r > 0x2800 && r <= 0x28FF {
			braille++
		}
	}
	if braille < 2 {
		t.Fatalf("expected plotted points, got %d braille cells", braille)
	}
}

func TestMapViewEmpty(t *testing.T) {
	if NewMapView(0, 0).View() != "" {
		t.Fatalf("expected empty view for zero size")
	}
	m := NewMapView(4, 2)
	if got := m.View(); strings.TrimSpace(got) != "" {
		t.Fatalf("expected blank grid without points, got %q", got)
	}
}
