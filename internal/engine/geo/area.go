package geo

import (
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/pkg/errors"

	"github.com/rendis/geofind/internal/model"
)

// Area restricts results to a set of polygons loaded from GeoJSON.
type Area struct {
	poly orb.MultiPolygon
}

// LoadArea reads a GeoJSON FeatureCollection, Feature or bare geometry and
// merges every polygon it contains into one area.
func LoadArea(path string) (*Area, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading area file")
	}
	return ParseArea(data)
}

// ParseArea is LoadArea over raw bytes.
func ParseArea(data []byte) (*Area, error) {
	var geoms []orb.Geometry

	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil && len(fc.Features) > 0 {
		for _, f := range fc.Features {
			geoms = append(geoms, f.Geometry)
		}
	} else if f, err := geojson.UnmarshalFeature(data); err == nil && f.Geometry != nil {
		geoms = append(geoms, f.Geometry)
	} else if g, err := geojson.UnmarshalGeometry(data); err == nil && g.Coordinates != nil {
		geoms = append(geoms, g.Geometry())
	}

	var mp orb.MultiPolygon
	for _, g := range geoms {
		switch v := g.(type) {
		case orb.Polygon:
			mp = append(mp, v)
		case orb.MultiPolygon:
			mp = append(mp, v...)
		}
	}
	if len(mp) == 0 {
		return nil, errors.New("area contains no polygons")
	}
	return &Area{poly: mp}, nil
}

// Contains reports whether c falls inside the area.
func (a *Area) Contains(c model.LocationCoords) bool {
	return planar.MultiPolygonContains(a.poly, orb.Point{c.Longitude, c.Latitude}) // orb.Point is [lng, lat]
}

// Ring returns the outer ring of the largest polygon, for drawing.
func (a *Area) Ring() orb.Ring {
	var best orb.Ring
	for _, p := range a.poly {
		if len(p) > 0 && len(p[0]) > len(best) {
			best = p[0]
		}
	}
	return best
}

// Filter drops ranked businesses whose coordinates fall outside the area.
// Businesses without coordinates are kept.
func (a *Area) Filter(ranked []model.RankedBusiness) []model.RankedBusiness {
	if a == nil {
		return ranked
	}
	filtered := make([]model.RankedBusiness, 0, len(ranked))
	for _, rb := range ranked {
		if c, ok := rb.Coords(); ok && !a.Contains(c) {
			continue
		}
		filtered = append(filtered, rb)
	}
	return filtered
}
