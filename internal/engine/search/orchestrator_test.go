package search

import (
	"context"
	"errors"
	"testing"

	"github.com/rendis/geofind/internal/model"
)

type fakeAI struct {
	businesses []model.Business
	err        error
	calls      int
	lastLoc    model.LocationQuery
	lastCat    string

	details    model.BusinessDetails
	detailsErr error
	pitch      string
	pitchErr   error
}

func (f *fakeAI) Lookup(_ context.Context, category string, loc model.LocationQuery) ([]model.Business, error) {
	f.calls++
	f.lastCat = category
	f.lastLoc = loc
	return f.businesses, f.err
}

func (f *fakeAI) Details(context.Context, string) (model.BusinessDetails, error) {
	return f.details, f.detailsErr
}

func (f *fakeAI) Pitch(context.Context, string, string) (string, error) {
	return f.pitch, f.pitchErr
}

func TestSearchRejectsMissingInputBeforeLookup(t *testing.T) {
	tests := []struct {
		name  string
		req   Request
		field string
	}{
		{"everything blank", Request{Category: "", ManualLocation: ""}, "category"},
		{"blank category with coords", Request{Category: "   ", Coords: &model.LocationCoords{}}, "category"},
		{"no location", Request{Category: "coffee shops", ManualLocation: "  \t"}, "location"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ai := &fakeAI{}
			_, err := NewOrchestrator(ai, nil).Search(context.Background(), tt.req)
			if !errors.Is(err, ErrMissingInput) {
				t.Fatalf("expected ErrMissingInput, got %v", err)
			}
			var ie *InputError
			if !errors.As(err, &ie) || ie.Field != tt.field {
				t.Fatalf("expected missing %s, got %v", tt.field, err)
			}
			if ai.calls != 0 {
				t.Fatalf("lookup called %d times", ai.calls)
			}
		})
	}
}

func TestSearchPrefersCoordinates(t *testing.T) {
	ai := &fakeAI{}
	here := &model.LocationCoords{Latitude: 40, Longitude: -74}
	_, err := NewOrchestrator(ai, nil).Search(context.Background(), Request{
		Category:       "  coffee shops ",
		Coords:         here,
		ManualLocation: "Brooklyn",
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if ai.lastCat != "coffee shops" {
		t.Fatalf("expected trimmed category, got %q", ai.lastCat)
	}
	if ai.lastLoc.Coords != here || ai.lastLoc.Text != "" {
		t.Fatalf("expected coordinate query, got %+v", ai.lastLoc)
	}
}

func TestSearchUsesManualLocation(t *testing.T) {
	ai := &fakeAI{}
	_, err := NewOrchestrator(ai, nil).Search(context.Background(), Request{
		Category:       "bakeries",
		ManualLocation: " Brooklyn, NY ",
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if ai.lastLoc.Coords != nil || ai.lastLoc.Text != "Brooklyn, NY" {
		t.Fatalf("expected text query, got %+v", ai.lastLoc)
	}
}

func TestSearchDeduplicatesKeepingFirstSeen(t *testing.T) {
	ai := &fakeAI{businesses: []model.Business{
		{Title: "First", PlaceID: "abc"},
		{Title: "Other", PlaceID: "def"},
		{Title: "Second", PlaceID: "abc"},
	}}

	res, err := NewOrchestrator(ai, nil).Search(context.Background(), Request{Category: "x", ManualLocation: "y"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Businesses) != 2 {
		t.Fatalf("expected 2 businesses, got %d", len(res.Businesses))
	}
	if res.Businesses[0].Title != "First" || res.Businesses[1].PlaceID != "def" {
		t.Fatalf("unexpected dedupe result %+v", res.Businesses)
	}
	if res.NoResults() {
		t.Fatalf("expected results")
	}
}

func TestSearchNoResultsIsNotAnError(t *testing.T) {
	ai := &fakeAI{businesses: []model.Business{{Title: "no id"}}}
	res, err := NewOrchestrator(ai, nil).Search(context.Background(), Request{Category: "x", ManualLocation: "y"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !res.NoResults() {
		t.Fatalf("expected no results signal")
	}
}

func TestSearchWrapsLookupFailure(t *testing.T) {
	cause := errors.New("quota exceeded")
	ai := &fakeAI{err: cause}
	_, err := NewOrchestrator(ai, nil).Search(context.Background(), Request{Category: "x", ManualLocation: "y"})
	if !errors.Is(err, ErrLookupFailure) || !errors.Is(err, cause) {
		t.Fatalf("expected lookup failure wrapping cause, got %v", err)
	}
	if err.Error() != "quota exceeded" {
		t.Fatalf("expected message passed through, got %q", err.Error())
	}
}

func TestDedupeProperties(t *testing.T) {
	var in []model.Business
	for i := 0; i < 50; i++ {
		id := string(rune('a' + i%7))
		in = append(in, model.Business{Title: id + string(rune('0'+i%10)), PlaceID: id})
	}

	out := Dedupe(in)
	if len(out) != 7 {
		t.Fatalf("expected 7 unique ids, got %d", len(out))
	}
	for i, b := range out {
		if b.Title != in[i].Title {
			t.Fatalf("expected first-seen title %q, got %q", in[i].Title, b.Title)
		}
	}
}

func TestDetailsAndPitchErrors(t *testing.T) {
	ai := &fakeAI{detailsErr: errors.New("boom"), pitchErr: errors.New("bang")}
	o := NewOrchestrator(ai, nil)

	if _, err := o.Details(context.Background(), "abc"); !errors.Is(err, ErrDetailFetchFailure) {
		t.Fatalf("expected detail failure, got %v", err)
	}
	if _, err := o.Details(context.Background(), " "); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("expected missing input, got %v", err)
	}
	if _, err := o.Pitch(context.Background(), "Shop", "cafes"); !errors.Is(err, ErrPitchGenerationFailure) {
		t.Fatalf("expected pitch failure, got %v", err)
	}
	if _, err := o.Pitch(context.Background(), "", "cafes"); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("expected missing input, got %v", err)
	}
}

func TestDetailsAndPitchSuccess(t *testing.T) {
	ai := &fakeAI{details: model.BusinessDetails{Phone: "1"}, pitch: "hello"}
	o := NewOrchestrator(ai, nil)

	d, err := o.Details(context.Background(), "abc")
	if err != nil || d.Phone != "1" {
		t.Fatalf("details: %+v, %v", d, err)
	}
	msg, err := o.Pitch(context.Background(), "Shop", "cafes")
	if err != nil || msg != "hello" {
		t.Fatalf("pitch: %q, %v", msg, err)
	}
}

func TestValidateCategoryTrims(t *testing.T) {
	if _, err := ValidateCategory(" \t"); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("expected missing input, got %v", err)
	}
	got, err := ValidateCategory("  bakeries ")
	if err != nil || got != "bakeries" {
		t.Fatalf("expected trimmed category, got %q, %v", got, err)
	}
}
