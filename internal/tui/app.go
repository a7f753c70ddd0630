package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rendis/geofind/internal/engine/geo"
	"github.com/rendis/geofind/internal/engine/search"
	"github.com/rendis/geofind/internal/favorites"
	"github.com/rendis/geofind/internal/logging"
	"github.com/rendis/geofind/internal/model"
	"github.com/rendis/geofind/internal/tui/views"
)

// State is the application state shared by every view.
type State = views.State

type viewID int

const (
	viewHome viewID = iota
	viewSearch
	viewResults
	viewFavorites
	viewRecent
)

// Deps are the services the TUI drives.
type Deps struct {
	Finder    *search.Finder
	Favorites *favorites.Store
	Slots     Slots
	Locator   geo.Locator
	Area      *geo.Area
	RadiusKm  float64
	Log       logrus.FieldLogger
}

// App is the root bubbletea model.
type App struct {
	deps        Deps
	log         logrus.FieldLogger
	state       *State
	currentView viewID
	width       int
	height      int
	home        views.HomeModel
	search      views.SearchModel
	results     views.ResultsModel
	favorites   views.FavoritesModel
	recent      views.RecentModel
}

type locatedMsg struct {
	coords model.LocationCoords
	err    error
}

type recentLoadedMsg struct {
	entries []model.RecentSearch
}

type searchDoneMsg struct {
	generation string
	params     model.SearchParams
	found      search.Found
	err        error
}

type detailsDoneMsg struct {
	generation string
	placeID    string
	details    model.BusinessDetails
	err        error
}

type pitchDoneMsg struct {
	generation string
	placeID    string
	message    string
	err        error
}

func NewApp(d Deps) App {
	log := d.Log
	if log == nil {
		log = logging.Discard()
	}

	st := views.NewState()
	st.Locating = true
	st.DefaultRadiusKm = d.RadiusKm
	st.Area = d.Area
	st.Favorites = d.Favorites

	return App{
		deps:        d,
		log:         log,
		state:       st,
		currentView: viewHome,
		home:        views.NewHomeModel(st),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.home.Init(), a.locateCmd(), a.loadRecentCmd())
}

func (a App) locateCmd() tea.Cmd {
	locator := a.deps.Locator
	return func() tea.Msg {
		c, err := geo.Resolve(context.Background(), locator)
		return locatedMsg{coords: c, err: err}
	}
}

func (a App) loadRecentCmd() tea.Cmd {
	slots := a.deps.Slots
	if slots == nil {
		return nil
	}
	log := a.log
	return func() tea.Msg {
		entries, err := LoadRecent(context.Background(), slots)
		if err != nil {
			log.WithError(err).Warn("loading recent searches failed")
		}
		return recentLoadedMsg{entries: entries}
	}
}

func (a App) searchCmd(gen string, p model.SearchParams) tea.Cmd {
	finder := a.deps.Finder
	return func() tea.Msg {
		found, err := finder.Find(context.Background(), p)
		return searchDoneMsg{generation: gen, params: p, found: found, err: err}
	}
}

func (a App) saveRecentCmd(p model.SearchParams) tea.Cmd {
	slots := a.deps.Slots
	if slots == nil {
		return nil
	}
	log := a.log
	return func() tea.Msg {
		entries, err := SaveRecent(context.Background(), slots, p)
		if err != nil {
			log.WithError(err).Warn("saving recent search failed")
			return nil
		}
		return recentLoadedMsg{entries: entries}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case locatedMsg:
		a.state.Locating = false
		if msg.err != nil {
			a.state.GeoErr = msg.err
			a.log.WithError(msg.err).Info("geolocation unavailable, manual location required")
		} else {
			c := msg.coords
			a.state.Here = &c
			a.log.WithFields(logrus.Fields{"lat": c.Latitude, "lng": c.Longitude}).Info("location resolved")
		}
		if a.currentView == viewSearch {
			a.search.LocationResolved()
		}
		return a, nil

	case recentLoadedMsg:
		a.state.Recent = msg.entries
		return a, nil

	case views.NavigateToHome:
		a.currentView = viewHome
		a.state.Notice = ""
		return a, nil
	case views.NavigateToSearch:
		a.currentView = viewSearch
		a.search = views.NewSearchModel(a.state, msg.Prefill)
		return a, tea.Batch(a.search.Init(), a.sizeCmd())
	case views.NavigateToFavorites:
		a.currentView = viewFavorites
		a.state.Notice = ""
		a.favorites = views.NewFavoritesModel(a.state)
		return a, tea.Batch(a.favorites.Init(), a.sizeCmd())
	case views.NavigateToRecent:
		a.currentView = viewRecent
		a.recent = views.NewRecentModel(a.state)
		return a, tea.Batch(a.recent.Init(), a.sizeCmd())

	case views.SubmitSearch:
		return a.startSearch(msg.Params)

	case searchDoneMsg:
		if msg.generation != a.state.Generation {
			a.log.WithField("search_id", msg.generation).Debug("stale search response dropped")
			return a, nil
		}
		a.state.Searching = false
		a.state.Found = msg.found
		a.state.SearchErr = msg.err
		a.results.Refresh()
		if msg.err != nil {
			return a, nil
		}
		return a, a.saveRecentCmd(msg.params)

	case views.ToggleFavorite:
		a.toggleFavorite(msg.Business)
		return a, nil

	case views.RequestDetails:
		return a, a.requestDetails(msg.Business)
	case detailsDoneMsg:
		if msg.generation != a.state.Generation {
			return a, nil
		}
		delete(a.state.Pending, msg.placeID)
		if msg.err != nil {
			a.state.DetailErrs[msg.placeID] = msg.err
		} else {
			a.state.Details[msg.placeID] = msg.details
		}
		a.results.RefreshCard()
		return a, nil

	case views.RequestPitch:
		return a, a.requestPitch(msg.Business, msg.Category)
	case pitchDoneMsg:
		if msg.generation != a.state.Generation {
			return a, nil
		}
		delete(a.state.Pending, msg.placeID)
		if msg.err != nil {
			a.state.PitchErrs[msg.placeID] = msg.err
		} else {
			a.state.Pitches[msg.placeID] = msg.message
		}
		a.results.RefreshCard()
		return a, nil
	}

	var cmd tea.Cmd
	switch a.currentView {
	case viewHome:
		var m tea.Model
		m, cmd = a.home.Update(msg)
		a.home = m.(views.HomeModel)
	case viewSearch:
		var m tea.Model
		m, cmd = a.search.Update(msg)
		a.search = m.(views.SearchModel)
	case viewResults:
		var m tea.Model
		m, cmd = a.results.Update(msg)
		a.results = m.(views.ResultsModel)
	case viewFavorites:
		var m tea.Model
		m, cmd = a.favorites.Update(msg)
		a.favorites = m.(views.FavoritesModel)
	case viewRecent:
		var m tea.Model
		m, cmd = a.recent.Update(msg)
		a.recent = m.(views.RecentModel)
	}

	return a, cmd
}

// startSearch tags the search with a new generation so answers to earlier
// searches are ignored when they arrive.
func (a App) startSearch(p model.SearchParams) (tea.Model, tea.Cmd) {
	gen := uuid.NewString()
	a.state.ResetResults()
	a.state.Generation = gen
	a.state.Searching = true
	a.state.Params = p

	a.log.WithFields(logrus.Fields{
		"search_id": gen,
		"category":  p.Category,
		"location":  p.ManualLocation,
		"coords":    p.Coords != nil,
	}).Info("search submitted")

	a.currentView = viewResults
	a.results = views.NewResultsModel(a.state)
	return a, tea.Batch(a.results.Init(), a.sizeCmd(), a.searchCmd(gen, p))
}

func (a *App) toggleFavorite(b model.Business) {
	if a.deps.Favorites == nil {
		return
	}
	added, err := a.deps.Favorites.Toggle(context.Background(), b)
	if err != nil {
		a.state.Notice = "Could not save favorites: " + err.Error()
		a.log.WithError(err).WithField("place_id", b.PlaceID).Error("favorite toggle failed")
		return
	}
	if added {
		a.state.Notice = "Saved " + b.Title + " to favorites"
	} else {
		a.state.Notice = "Removed " + b.Title + " from favorites"
	}
	if a.currentView == viewResults {
		a.results.Refresh()
	}
}

func (a *App) requestDetails(b model.Business) tea.Cmd {
	id := b.PlaceID
	if _, ok := a.state.Details[id]; ok || a.state.Pending[id] != "" {
		return nil
	}
	delete(a.state.DetailErrs, id)
	a.state.Pending[id] = views.PendingDetails
	a.results.RefreshCard()

	gen := a.state.Generation
	orch := a.deps.Finder.Orchestrator()
	return func() tea.Msg {
		d, err := orch.Details(context.Background(), id)
		return detailsDoneMsg{generation: gen, placeID: id, details: d, err: err}
	}
}

func (a *App) requestPitch(b model.Business, category string) tea.Cmd {
	id := b.PlaceID
	if _, ok := a.state.Pitches[id]; ok || a.state.Pending[id] != "" {
		return nil
	}
	delete(a.state.PitchErrs, id)
	a.state.Pending[id] = views.PendingPitch
	a.results.RefreshCard()

	gen := a.state.Generation
	orch := a.deps.Finder.Orchestrator()
	return func() tea.Msg {
		msg, err := orch.Pitch(context.Background(), b.Title, category)
		return pitchDoneMsg{generation: gen, placeID: id, message: msg, err: err}
	}
}

func (a App) View() string {
	var content string
	switch a.currentView {
	case viewHome:
		content = a.home.View()
	case viewSearch:
		content = a.search.View()
	case viewResults:
		content = a.results.View()
	case viewFavorites:
		content = a.favorites.View()
	case viewRecent:
		content = a.recent.View()
	}

	return lipgloss.Place(
		a.width, a.height,
		lipgloss.Center, lipgloss.Top,
		content,
	)
}

// sizeCmd sends a WindowSizeMsg so newly created views get the current terminal size.
func (a App) sizeCmd() tea.Cmd {
	w, h := a.width, a.height
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: w, Height: h}
	}
}

// Run starts the TUI.
func Run(d Deps) error {
	p := tea.NewProgram(NewApp(d), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
