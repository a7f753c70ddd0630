package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"

	"github.com/rendis/geofind/internal/engine/search"
	"github.com/rendis/geofind/internal/model"
	"github.com/rendis/geofind/internal/tui/styles"
)

type locationMode int

const (
	modeDevice locationMode = iota
	modeManual
)

// Field indices. fieldMode is a virtual field (not a textinput).
const (
	fieldMode = iota
	fieldCategory
	fieldLocation
	fieldRadius
	fieldCount
)

type SearchModel struct {
	state   *State
	inputs  []textinput.Model
	mode    locationMode
	focused int
	err     string
}

func NewSearchModel(state *State, prefill *model.RecentSearch) SearchModel {
	inputs := make([]textinput.Model, fieldCount)

	inputs[fieldMode] = textinput.New() // placeholder, never used
	inputs[fieldCategory] = newInput("coffee shops, bakeries...", "", 40)
	inputs[fieldLocation] = newInput("Brooklyn, NY", "", 40)
	inputs[fieldRadius] = newInput(strconv.FormatFloat(state.DefaultRadiusKm, 'f', -1, 64), "", 10)

	m := SearchModel{
		state:  state,
		inputs: inputs,
		mode:   modeDevice,
	}
	if state.Here == nil {
		m.mode = modeManual
	}

	if prefill != nil {
		m.inputs[fieldCategory].SetValue(prefill.Category)
		m.inputs[fieldLocation].SetValue(prefill.ManualLocation)
		if prefill.RadiusKm > 0 {
			m.inputs[fieldRadius].SetValue(strconv.FormatFloat(prefill.RadiusKm, 'f', -1, 64))
		}
		if prefill.ManualLocation != "" {
			m.mode = modeManual
		}
	}

	m.focused = fieldCategory
	m.inputs[fieldCategory].Focus()
	return m
}

// LocationResolved adjusts the form once the startup geolocation finishes,
// keeping whatever the user already typed. Device mode is picked only when
// no manual location was entered.
func (m *SearchModel) LocationResolved() {
	if m.state.Here == nil {
		m.mode = modeManual
		return
	}
	if strings.TrimSpace(m.inputs[fieldLocation].Value()) != "" {
		return
	}
	m.mode = modeDevice
	if m.focused == fieldLocation {
		m.inputs[fieldLocation].Blur()
		m.focused = fieldRadius
		m.inputs[fieldRadius].Focus()
	}
}

func newInput(placeholder, value string, width int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 100
	if width > 0 {
		ti.Width = width
	}
	if value != "" {
		ti.SetValue(value)
	}
	return ti
}

func (m SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return NavigateToHome{} }

		case "up", "shift+tab":
			m.err = ""
			return m, m.focusPrev()

		case "down", "tab":
			m.err = ""
			return m, m.focusNext()

		case "enter":
			if cmd := m.submit(); cmd != nil {
				return m, cmd
			}
			return m, nil

		case "left":
			if m.focused == fieldMode && m.state.Here != nil {
				m.mode = modeDevice
				return m, nil
			}

		case "right":
			if m.focused == fieldMode {
				m.mode = modeManual
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	if m.focused != fieldMode && m.focused >= 0 && m.focused < fieldCount {
		m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	}
	return m, cmd
}

func (m *SearchModel) focusNext() tea.Cmd {
	if m.focused != fieldMode {
		m.inputs[m.focused].Blur()
	}
	m.focused = m.skipField(m.focused+1, 1)
	if m.focused >= fieldCount {
		m.focused = fieldMode
	}
	if m.focused == fieldMode {
		return nil
	}
	m.inputs[m.focused].Focus()
	return textinput.Blink
}

func (m *SearchModel) focusPrev() tea.Cmd {
	if m.focused != fieldMode {
		m.inputs[m.focused].Blur()
	}
	m.focused = m.skipField(m.focused-1, -1)
	if m.focused < 0 {
		m.focused = fieldRadius
	}
	if m.focused == fieldMode {
		return nil
	}
	m.inputs[m.focused].Focus()
	return textinput.Blink
}

func (m *SearchModel) skipField(idx, dir int) int {
	for idx > fieldMode && idx < fieldCount {
		if m.mode == modeDevice && idx == fieldLocation {
			idx += dir
			continue
		}
		break
	}
	return idx
}

// params builds the search parameters from the form. Input rules are the
// orchestrator's, so a rejected form never reaches the lookup.
func (m *SearchModel) params() (model.SearchParams, error) {
	p := model.SearchParams{
		Category: strings.TrimSpace(m.inputs[fieldCategory].Value()),
		RadiusKm: m.state.DefaultRadiusKm,
	}
	if m.mode == modeDevice && m.state.Here != nil {
		here := *m.state.Here
		p.Coords = &here
	} else {
		p.ManualLocation = strings.TrimSpace(m.inputs[fieldLocation].Value())
	}

	if raw := strings.TrimSpace(m.inputs[fieldRadius].Value()); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil || r < 0 {
			return p, errors.New("Radius must be a non-negative number of km")
		}
		p.RadiusKm = r
	}

	_, _, err := search.Validate(search.Request{
		Category:       p.Category,
		Coords:         p.Coords,
		ManualLocation: p.ManualLocation,
	})
	var ie *search.InputError
	if errors.As(err, &ie) {
		switch ie.Field {
		case "category":
			return p, errors.New("Category is required")
		default:
			return p, errors.New("Location is required (location services are unavailable)")
		}
	}
	return p, err
}

func (m *SearchModel) submit() tea.Cmd {
	p, err := m.params()
	if err != nil {
		m.err = err.Error()
		return nil
	}
	return func() tea.Msg { return SubmitSearch{Params: p} }
}

func (m SearchModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("New Search") + "\n\n")

	b.WriteString(m.renderMode())
	if m.state.Here == nil {
		b.WriteString(styles.Hint.Render("  "+m.state.LocationStatus()) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(m.renderField("Category:", fieldCategory))
	if m.mode == modeManual {
		b.WriteString(m.renderField("Location:", fieldLocation))
	}
	b.WriteString(m.renderField("Radius (km):", fieldRadius))
	if m.focused == fieldRadius {
		b.WriteString(styles.Hint.Render("  0 shows every result regardless of distance") + "\n")
	}

	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorText.Render("  " + m.err))
	}

	b.WriteString("\n\n")
	b.WriteString(styles.StatusBar.Render("enter search • tab next • esc back"))

	return styles.Border.Render(b.String())
}

func (m SearchModel) renderMode() string {
	label := styles.Label.Render("Location:")

	active := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	inactive := lipgloss.NewStyle().Foreground(styles.Muted)

	var deviceStr, manualStr string
	switch {
	case m.state.Here == nil:
		deviceStr = lipgloss.NewStyle().Foreground(styles.Muted).Strikethrough(true).Render("My location")
		manualStr = active.Render("< Manual >")
	case m.mode == modeDevice:
		deviceStr = active.Render("< My location >")
		manualStr = inactive.Render("Manual")
	default:
		deviceStr = inactive.Render("My location")
		manualStr = active.Render("< Manual >")
	}

	line := fmt.Sprintf("%s  %s   %s", label, deviceStr, manualStr)

	if m.focused == fieldMode {
		indicator := lipgloss.NewStyle().Foreground(styles.Secondary).Render(" ←→")
		line += indicator
	}

	return line + "\n"
}

func (m SearchModel) renderField(label string, idx int) string {
	l := styles.Label.Render(label)
	v := m.inputs[idx].View()
	return fmt.Sprintf("%s %s\n", l, v)
}
