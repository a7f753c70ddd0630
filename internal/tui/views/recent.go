package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rendis/geofind/internal/model"
	"github.com/rendis/geofind/internal/tui/styles"
)

type RecentModel struct {
	state  *State
	cursor int
}

func NewRecentModel(state *State) RecentModel {
	return RecentModel{state: state}
}

func (m RecentModel) Init() tea.Cmd {
	return nil
}

func (m RecentModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	entries := m.state.Recent
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(entries)-1 {
				m.cursor++
			}
		case "enter":
			if m.cursor < len(entries) {
				p := m.replay(entries[m.cursor])
				return m, func() tea.Msg { return SubmitSearch{Params: p} }
			}
		case "e":
			if m.cursor < len(entries) {
				e := entries[m.cursor]
				return m, func() tea.Msg { return NavigateToSearch{Prefill: &e} }
			}
		case "esc", "q":
			return m, func() tea.Msg { return NavigateToHome{} }
		}
	}
	return m, nil
}

// replay rebuilds the parameters of a past search. Coordinate searches run
// at the current position when known, otherwise where they ran before.
func (m RecentModel) replay(e model.RecentSearch) model.SearchParams {
	p := model.SearchParams{
		Category:       e.Category,
		ManualLocation: e.ManualLocation,
		RadiusKm:       e.RadiusKm,
	}
	if e.ManualLocation == "" {
		switch {
		case m.state.Here != nil:
			here := *m.state.Here
			p.Coords = &here
		case e.Lat != nil && e.Lng != nil:
			p.Coords = &model.LocationCoords{Latitude: *e.Lat, Longitude: *e.Lng}
		}
	}
	return p
}

func (m RecentModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Recent Searches"))
	b.WriteString("\n\n")

	if len(m.state.Recent) == 0 {
		b.WriteString(styles.Hint.Render("No recent searches"))
		b.WriteString("\n\n")
		b.WriteString(styles.StatusBar.Render("esc back"))
		return styles.Border.Render(b.String())
	}

	for i, entry := range m.state.Recent {
		cursor := "  "
		style := styles.InactiveItem
		if i == m.cursor {
			cursor = "> "
			style = styles.ActiveItem
		}

		where := entry.ManualLocation
		if where == "" {
			where = "my location"
			if entry.Lat != nil && entry.Lng != nil {
				where += " (" + formatCoords(model.LocationCoords{Latitude: *entry.Lat, Longitude: *entry.Lng}) + ")"
			}
		}

		nameStr := style.Render(entry.Category)
		detail := lipgloss.NewStyle().Foreground(styles.Muted).Render(
			fmt.Sprintf("    near %s, %.1f km  %s", where, entry.RadiusKm, timeAgo(entry.SearchedAt)))

		b.WriteString(fmt.Sprintf("%s%s\n%s\n", cursor, nameStr, detail))
	}

	b.WriteString("\n")
	b.WriteString(styles.StatusBar.Render("enter run • e edit • esc back"))

	return styles.Border.Render(b.String())
}
