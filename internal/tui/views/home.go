package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rendis/geofind/internal/tui/styles"
)

type menuItem struct {
	key   string
	label string
	desc  string
	msg   tea.Msg
}

type HomeModel struct {
	state  *State
	items  []menuItem
	cursor int
}

func NewHomeModel(state *State) HomeModel {
	return HomeModel{
		state: state,
		items: []menuItem{
			{key: "n", label: "New Search", desc: "Find businesses nearby", msg: NavigateToSearch{}},
			{key: "f", label: "Favorites", desc: "Businesses you saved", msg: NavigateToFavorites{}},
			{key: "r", label: "Recent Searches", desc: "Run a previous search again", msg: NavigateToRecent{}},
			{key: "q", label: "Quit", desc: "Exit geofind"},
		},
	}
}

func (m HomeModel) Init() tea.Cmd {
	return nil
}

func (m HomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch key := msg.String(); key {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "enter":
			return m, m.handleSelect()
		default:
			for i, item := range m.items {
				if item.key == key {
					m.cursor = i
					return m, m.handleSelect()
				}
			}
		}
	}
	return m, nil
}

func (m HomeModel) handleSelect() tea.Cmd {
	item := m.items[m.cursor]
	if item.msg == nil {
		return tea.Quit
	}
	return func() tea.Msg { return item.msg }
}

func (m HomeModel) View() string {
	var b strings.Builder

	logo := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Render("  geofind")

	version := lipgloss.NewStyle().
		Foreground(styles.Muted).
		Render(" v0.1.0")

	tagline := lipgloss.NewStyle().
		Foreground(styles.Secondary).
		Italic(true).
		Render("  Nearby business finder")

	b.WriteString(logo + version + "\n")
	b.WriteString(tagline + "\n\n")

	for i, item := range m.items {
		cursor := "  "
		style := styles.InactiveItem
		if i == m.cursor {
			cursor = "> "
			style = styles.ActiveItem
		}

		key := lipgloss.NewStyle().
			Foreground(styles.Secondary).
			Bold(true).
			Render(fmt.Sprintf("[%s]", item.key))

		label := style.Render(item.label)
		if item.key == "f" && m.state.Favorites != nil {
			label += style.Render(fmt.Sprintf(" (%d)", m.state.Favorites.Len()))
		}
		desc := lipgloss.NewStyle().
			Foreground(styles.Muted).
			Render(" - " + item.desc)

		b.WriteString(fmt.Sprintf("%s%s %s%s\n", cursor, key, label, desc))
	}

	b.WriteString("\n")
	if m.state.Here != nil {
		b.WriteString(styles.SuccessText.Render(m.state.LocationStatus()))
	} else {
		b.WriteString(styles.WarningText.Render(m.state.LocationStatus()))
	}
	if m.state.Favorites != nil && m.state.Favorites.Warning() != "" {
		b.WriteString("\n" + styles.WarningText.Render(m.state.Favorites.Warning()))
	}

	b.WriteString("\n")
	b.WriteString(styles.StatusBar.Render("↑↓ navigate • enter select • q quit"))

	return styles.Border.Render(b.String())
}
