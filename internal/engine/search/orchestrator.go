package search

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rendis/geofind/internal/logging"
	"github.com/rendis/geofind/internal/model"
)

// Lookup finds businesses of a category around a location.
type Lookup interface {
	Lookup(ctx context.Context, category string, loc model.LocationQuery) ([]model.Business, error)
}

// DetailFetcher loads contact details for one place.
type DetailFetcher interface {
	Details(ctx context.Context, placeID string) (model.BusinessDetails, error)
}

// PitchWriter drafts an outreach message to a business.
type PitchWriter interface {
	Pitch(ctx context.Context, name, category string) (string, error)
}

// Collaborator is everything the orchestrator needs from the AI service.
type Collaborator interface {
	Lookup
	DetailFetcher
	PitchWriter
}

// Request is one search as typed by the user.
type Request struct {
	Category       string
	Coords         *model.LocationCoords
	ManualLocation string
}

// Result is a successful lookup, already deduplicated.
type Result struct {
	Category   string
	Location   model.LocationQuery
	Businesses []model.Business
}

// NoResults reports the empty state: the lookup worked but found nothing.
func (r Result) NoResults() bool {
	return len(r.Businesses) == 0
}

type Orchestrator struct {
	ai  Collaborator
	log logrus.FieldLogger
}

func NewOrchestrator(ai Collaborator, log logrus.FieldLogger) *Orchestrator {
	if log == nil {
		log = logging.Discard()
	}
	return &Orchestrator{ai: ai, log: log}
}

// ValidateCategory applies the first input rule on its own, for callers
// that do work of their own before the location is known.
func ValidateCategory(category string) (string, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return "", &InputError{Field: "category"}
	}
	return category, nil
}

// Validate applies the input rules in order: category first, then location.
func Validate(req Request) (string, model.LocationQuery, error) {
	category, err := ValidateCategory(req.Category)
	if err != nil {
		return "", model.LocationQuery{}, err
	}
	if req.Coords != nil {
		return category, model.LocationQuery{Coords: req.Coords}, nil
	}
	manual := strings.TrimSpace(req.ManualLocation)
	if manual == "" {
		return "", model.LocationQuery{}, &InputError{Field: "location"}
	}
	return category, model.LocationQuery{Text: manual}, nil
}

// Search validates req, runs one lookup and deduplicates the answer.
func (o *Orchestrator) Search(ctx context.Context, req Request) (Result, error) {
	category, loc, err := Validate(req)
	if err != nil {
		return Result{}, err
	}

	entry := o.log.WithFields(logrus.Fields{"category": category, "location": loc.String()})
	entry.Debug("lookup started")

	raw, err := o.ai.Lookup(ctx, category, loc)
	if err != nil {
		entry.WithError(err).Warn("lookup failed")
		return Result{}, &LookupError{Err: err}
	}

	businesses := Dedupe(raw)
	entry.WithFields(logrus.Fields{"returned": len(raw), "results": len(businesses)}).Info("lookup finished")

	return Result{Category: category, Location: loc, Businesses: businesses}, nil
}

// Details fetches details for one place.
func (o *Orchestrator) Details(ctx context.Context, placeID string) (model.BusinessDetails, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return model.BusinessDetails{}, &InputError{Field: "place id"}
	}
	d, err := o.ai.Details(ctx, placeID)
	if err != nil {
		o.log.WithField("place_id", placeID).WithError(err).Warn("details failed")
		return model.BusinessDetails{}, &DetailError{PlaceID: placeID, Err: err}
	}
	return d, nil
}

// Pitch drafts an outreach message for a business.
func (o *Orchestrator) Pitch(ctx context.Context, name, category string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &InputError{Field: "business name"}
	}
	msg, err := o.ai.Pitch(ctx, name, strings.TrimSpace(category))
	if err != nil {
		o.log.WithField("business", name).WithError(err).Warn("pitch failed")
		return "", &PitchError{Name: name, Err: err}
	}
	return msg, nil
}

// Dedupe keeps the first occurrence of every place id, in order of first
// appearance. Entries without a place id are dropped.
func Dedupe(businesses []model.Business) []model.Business {
	seen := make(map[string]bool, len(businesses))
	out := make([]model.Business, 0, len(businesses))
	for _, b := range businesses {
		if b.PlaceID == "" || seen[b.PlaceID] {
			continue
		}
		seen[b.PlaceID] = true
		out = append(out, b)
	}
	return out
}
