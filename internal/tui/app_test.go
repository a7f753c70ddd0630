package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rendis/geofind/internal/engine/geo"
	"github.com/rendis/geofind/internal/engine/search"
	"github.com/rendis/geofind/internal/favorites"
	"github.com/rendis/geofind/internal/model"
	"github.com/rendis/geofind/internal/tui/views"
)

type fakeAI struct {
	businesses []model.Business
	lookups    int
	detailErr  error
}

func (f *fakeAI) Lookup(context.Context, string, model.LocationQuery) ([]model.Business, error) {
	f.lookups++
	return f.businesses, nil
}

func (f *fakeAI) Details(context.Context, string) (model.BusinessDetails, error) {
	return model.BusinessDetails{Phone: "555-0100"}, f.detailErr
}

func (f *fakeAI) Pitch(_ context.Context, name, _ string) (string, error) {
	return "Hello " + name, nil
}

func newTestApp(t *testing.T, ai *fakeAI) App {
	t.Helper()
	fav := favorites.New(memSlots{}, nil)
	if err := fav.Load(context.Background()); err != nil {
		t.Fatalf("loading favorites: %v", err)
	}
	return NewApp(Deps{
		Finder:    search.NewFinder(search.NewOrchestrator(ai, nil), nil),
		Favorites: fav,
		Slots:     memSlots{},
		Locator:   geo.NoLocator{},
		RadiusKm:  10,
	})
}

func update(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := a.Update(msg)
	return m.(App), cmd
}

func TestLocatedMessageUpdatesState(t *testing.T) {
	a := newTestApp(t, &fakeAI{})
	if !a.state.Locating {
		t.Fatalf("expected locating at startup")
	}

	a, _ = update(t, a, locatedMsg{err: &geo.LocateError{Reason: "permission denied"}})
	if a.state.Locating || a.state.Here != nil || !errors.Is(a.state.GeoErr, geo.ErrGeolocationUnavailable) {
		t.Fatalf("unexpected state after failure: %+v", a.state)
	}

	a, _ = update(t, a, locatedMsg{coords: model.LocationCoords{Latitude: 40, Longitude: -74}})
	if a.state.Here == nil || a.state.Here.Latitude != 40 {
		t.Fatalf("expected coordinates, got %+v", a.state.Here)
	}
}

func TestLocatedKeepsSearchFormInput(t *testing.T) {
	a := newTestApp(t, &fakeAI{})
	a, _ = update(t, a, views.NavigateToSearch{})
	a, _ = update(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("bakery")})

	a, _ = update(t, a, locatedMsg{coords: model.LocationCoords{Latitude: 40, Longitude: -74}})
	if a.currentView != viewSearch {
		t.Fatalf("expected to stay on the search form")
	}

	_, cmd := update(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected the form to submit")
	}
	sub, ok := cmd().(views.SubmitSearch)
	if !ok {
		t.Fatalf("expected SubmitSearch, got %T", cmd())
	}
	if sub.Params.Category != "bakery" {
		t.Fatalf("typed category lost, got %q", sub.Params.Category)
	}
	if sub.Params.Coords == nil || sub.Params.Coords.Latitude != 40 {
		t.Fatalf("expected the resolved position to be used, got %+v", sub.Params.Coords)
	}
}

func TestStaleSearchResponseIsDropped(t *testing.T) {
	ai := &fakeAI{businesses: []model.Business{{Title: "Second", PlaceID: "b"}}}
	a := newTestApp(t, ai)

	first := model.SearchParams{Category: "coffee", ManualLocation: "Brooklyn"}
	second := model.SearchParams{Category: "tea", ManualLocation: "Queens"}

	a, _ = update(t, a, views.SubmitSearch{Params: first})
	staleGen := a.state.Generation
	a, _ = update(t, a, views.SubmitSearch{Params: second})
	if a.state.Generation == staleGen {
		t.Fatalf("expected a new generation per search")
	}

	a, _ = update(t, a, searchDoneMsg{
		generation: staleGen,
		params:     first,
		found:      search.Found{Ranked: []model.RankedBusiness{{Business: model.Business{Title: "First", PlaceID: "a"}}}},
	})
	if !a.state.Searching || len(a.state.Found.Ranked) != 0 {
		t.Fatalf("stale response must not be applied")
	}

	a, cmd := update(t, a, a.searchCmd(a.state.Generation, second)())
	if a.state.Searching || a.state.SearchErr != nil {
		t.Fatalf("expected finished search, got err %v", a.state.SearchErr)
	}
	if len(a.state.Found.Ranked) != 1 || a.state.Found.Ranked[0].Title != "Second" {
		t.Fatalf("unexpected results %+v", a.state.Found.Ranked)
	}
	if cmd == nil {
		t.Fatalf("expected recent search to be saved")
	}
	a, _ = update(t, a, cmd())
	if len(a.state.Recent) != 1 || a.state.Recent[0].Category != "tea" {
		t.Fatalf("unexpected recent searches %+v", a.state.Recent)
	}
}

func TestToggleFavoriteFromResults(t *testing.T) {
	a := newTestApp(t, &fakeAI{})
	b := model.Business{Title: "Blue Bottle", PlaceID: "abc"}

	a, _ = update(t, a, views.ToggleFavorite{Business: b})
	if !a.state.IsFavorite("abc") || a.deps.Favorites.Len() != 1 {
		t.Fatalf("expected favorite to be added")
	}
	a, _ = update(t, a, views.ToggleFavorite{Business: b})
	if a.state.IsFavorite("abc") {
		t.Fatalf("expected favorite to be removed")
	}
}

func TestDetailsAreFetchedOnceAndStored(t *testing.T) {
	ai := &fakeAI{}
	a := newTestApp(t, ai)
	a, _ = update(t, a, views.SubmitSearch{Params: model.SearchParams{Category: "c", ManualLocation: "x"}})

	b := model.Business{Title: "Shop", PlaceID: "p1"}
	a, cmd := update(t, a, views.RequestDetails{Business: b})
	if cmd == nil || a.state.Pending["p1"] != views.PendingDetails {
		t.Fatalf("expected pending details request")
	}
	if _, again := update(t, a, views.RequestDetails{Business: b}); again != nil {
		t.Fatalf("expected no duplicate request while pending")
	}

	a, _ = update(t, a, cmd())
	if a.state.Pending["p1"] != "" || a.state.Details["p1"].Phone != "555-0100" {
		t.Fatalf("unexpected details state %+v", a.state.Details)
	}
}

func TestDetailsFailureIsRecorded(t *testing.T) {
	ai := &fakeAI{detailErr: errors.New("quota")}
	a := newTestApp(t, ai)
	a, _ = update(t, a, views.SubmitSearch{Params: model.SearchParams{Category: "c", ManualLocation: "x"}})

	a, cmd := update(t, a, views.RequestDetails{Business: model.Business{PlaceID: "p1"}})
	a, _ = update(t, a, cmd())
	if !errors.Is(a.state.DetailErrs["p1"], search.ErrDetailFetchFailure) {
		t.Fatalf("expected detail failure, got %v", a.state.DetailErrs["p1"])
	}
}
