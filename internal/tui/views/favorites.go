package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rendis/geofind/internal/engine/geo"
	"github.com/rendis/geofind/internal/model"
	"github.com/rendis/geofind/internal/tui/styles"
)

// FavoritesModel lists saved businesses in the order they were added.
type FavoritesModel struct {
	state  *State
	cursor int
}

func NewFavoritesModel(state *State) FavoritesModel {
	return FavoritesModel{state: state}
}

func (m FavoritesModel) Init() tea.Cmd {
	return nil
}

func (m FavoritesModel) list() []model.Business {
	if m.state.Favorites == nil {
		return nil
	}
	return m.state.Favorites.List()
}

func (m FavoritesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		list := m.list()
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(list)-1 {
				m.cursor++
			}
		case "x", "f", "delete":
			if m.cursor < len(list) {
				b := list[m.cursor]
				if m.cursor == len(list)-1 && m.cursor > 0 {
					m.cursor--
				}
				return m, func() tea.Msg { return ToggleFavorite{Business: b} }
			}
		case "esc", "q":
			return m, func() tea.Msg { return NavigateToHome{} }
		}
	}
	return m, nil
}

func (m FavoritesModel) View() string {
	var b strings.Builder

	list := m.list()
	b.WriteString(styles.Title.Render(fmt.Sprintf("Favorites (%d)", len(list))))
	b.WriteString("\n\n")

	if m.state.Favorites != nil && m.state.Favorites.Warning() != "" {
		b.WriteString(styles.WarningText.Render(m.state.Favorites.Warning()))
		b.WriteString("\n\n")
	}

	if len(list) == 0 {
		b.WriteString(styles.Hint.Render("No favorites yet. Press f on a search result to save it."))
		b.WriteString("\n\n")
		b.WriteString(styles.StatusBar.Render("esc back"))
		return styles.Border.Render(b.String())
	}

	for i, biz := range list {
		cursor := "  "
		style := styles.InactiveItem
		if i == m.cursor {
			cursor = "> "
			style = styles.ActiveItem
		}

		line := styles.Star.Render("★ ") + style.Render(biz.Title)
		if c, ok := biz.Coords(); ok && m.state.Here != nil {
			d := geo.DistanceKm(*m.state.Here, c)
			line += lipgloss.NewStyle().Foreground(styles.Muted).Render("  " + formatDistance(&d))
		}
		link := lipgloss.NewStyle().Foreground(styles.Muted).Render("    " + biz.URI)

		b.WriteString(fmt.Sprintf("%s%s\n%s\n", cursor, line, link))
	}

	if m.state.Notice != "" {
		b.WriteString("\n" + styles.WarningText.Render(m.state.Notice) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.StatusBar.Render("↑↓ navigate • x remove • esc back"))

	return styles.Border.Render(b.String())
}
