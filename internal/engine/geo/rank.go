package geo

import (
	"sort"

	"github.com/rendis/geofind/internal/model"
)

// Rank attaches distances from here, drops businesses farther than radiusKm
// and sorts the rest nearest first. Businesses without coordinates keep an
// undefined distance, always pass the radius filter and sort last.
// With no location every business passes through in its original order.
// A radius <= 0 disables the radius filter.
func Rank(businesses []model.Business, here *model.LocationCoords, radiusKm float64) []model.RankedBusiness {
	ranked := make([]model.RankedBusiness, 0, len(businesses))

	if here == nil || !ValidCoords(*here) {
		for _, b := range businesses {
			ranked = append(ranked, model.RankedBusiness{Business: b})
		}
		return ranked
	}

	for _, b := range businesses {
		rb := model.RankedBusiness{Business: b}
		if c, ok := b.Coords(); ok && ValidCoords(c) {
			d := DistanceKm(*here, c)
			if radiusKm > 0 && d > radiusKm {
				continue
			}
			rb.DistanceKm = &d
		}
		ranked = append(ranked, rb)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		di, dj := ranked[i].DistanceKm, ranked[j].DistanceKm
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return *di < *dj
		}
	})

	return ranked
}
