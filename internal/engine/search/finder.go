package search

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/rendis/geofind/internal/engine/geo"
	"github.com/rendis/geofind/internal/logging"
	"github.com/rendis/geofind/internal/model"
)

// Geocoder turns free text into a position.
type Geocoder interface {
	Geocode(ctx context.Context, q string) (model.LocationCoords, string, error)
}

// Finder runs a search and ranks the answer around the user. Every
// presentation layer goes through it.
type Finder struct {
	orch *Orchestrator
	log  logrus.FieldLogger

	// Geocoder, when set, gives manual-location searches a reference
	// point for ranking.
	Geocoder Geocoder
	// Area, when set, drops results located outside it.
	Area *geo.Area
}

func NewFinder(orch *Orchestrator, log logrus.FieldLogger) *Finder {
	if log == nil {
		log = logging.Discard()
	}
	return &Finder{orch: orch, log: log}
}

// Orchestrator exposes the underlying orchestrator for details and pitches.
func (f *Finder) Orchestrator() *Orchestrator {
	return f.orch
}

// Found is a ranked search answer.
type Found struct {
	Result
	// Reference is the point distances were measured from, nil when the
	// list is unranked.
	Reference *model.LocationCoords
	RadiusKm  float64
	Ranked    []model.RankedBusiness
}

// NoResults reports that nothing is left to show once ranking and area
// filtering are applied.
func (f Found) NoResults() bool {
	return len(f.Ranked) == 0
}

func (f *Finder) Find(ctx context.Context, p model.SearchParams) (Found, error) {
	res, err := f.orch.Search(ctx, Request{
		Category:       p.Category,
		Coords:         p.Coords,
		ManualLocation: p.ManualLocation,
	})
	if err != nil {
		return Found{}, err
	}

	ref := p.Coords
	if ref != nil && !geo.ValidCoords(*ref) {
		ref = nil
	}
	if ref == nil && f.Geocoder != nil && res.Location.Text != "" {
		c, name, err := f.Geocoder.Geocode(ctx, res.Location.Text)
		if err != nil {
			f.log.WithError(err).WithField("location", res.Location.Text).Warn("geocoding manual location failed, results unranked")
		} else {
			f.log.WithField("resolved", name).Debug("manual location geocoded")
			ref = &c
		}
	}

	ranked := f.Area.Filter(geo.Rank(res.Businesses, ref, p.RadiusKm))

	f.log.WithFields(logrus.Fields{
		"category": res.Category,
		"results":  len(res.Businesses),
		"shown":    len(ranked),
	}).Info("search ranked")

	return Found{Result: res, Reference: ref, RadiusKm: p.RadiusKm, Ranked: ranked}, nil
}
