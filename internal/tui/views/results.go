package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rendis/geofind/internal/engine/genai"
	"github.com/rendis/geofind/internal/model"
	"github.com/rendis/geofind/internal/tui/components"
	"github.com/rendis/geofind/internal/tui/styles"
)

type focusArea int

const (
	focusTable focusArea = iota
	focusFilter
	focusCard
	focusMap
)

// Pending request kinds stored in State.Pending.
const (
	PendingDetails = "details"
	PendingPitch   = "pitch"
)

// ResultsModel shows the ranked answer of the current search.
type ResultsModel struct {
	state    *State
	filtered []model.RankedBusiness
	table    table.Model
	filter   textinput.Model
	spinner  spinner.Model
	mapView  components.MapView
	focus    focusArea
	selected int
	width    int
	height   int

	cardScrollY int
	cardLines   []string
}

func NewResultsModel(state *State) ResultsModel {
	filter := textinput.New()
	filter.Placeholder = "Type to filter..."
	filter.CharLimit = 50

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	m := ResultsModel{
		state:    state,
		filter:   filter,
		spinner:  sp,
		mapView:  components.NewMapView(30, 10),
		selected: -1,
	}
	m.Refresh()
	return m
}

func (m ResultsModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Refresh rebuilds the table, card and map from State. The root model calls
// it whenever the search answer or the favorites change.
func (m *ResultsModel) Refresh() {
	prev := ""
	if b, ok := m.current(); ok {
		prev = b.PlaceID
	}

	m.filtered = filterRanked(m.state.Found.Ranked, m.filter.Value())
	m.buildTable(m.filtered)

	m.selected = -1
	if len(m.filtered) > 0 {
		m.selected = 0
		for i, b := range m.filtered {
			if b.PlaceID == prev {
				m.selected = i
				break
			}
		}
		m.table.SetCursor(m.selected)
	}
	m.refreshMap()
	m.cacheCard()
}

// RefreshCard re-renders the detail card only.
func (m *ResultsModel) RefreshCard() {
	m.cacheCard()
}

func (m ResultsModel) current() (model.RankedBusiness, bool) {
	if m.selected < 0 || m.selected >= len(m.filtered) {
		return model.RankedBusiness{}, false
	}
	return m.filtered[m.selected], true
}

func (m ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		key := msg.String()

		switch m.focus {
		case focusTable:
			switch key {
			case "esc", "q":
				return m, func() tea.Msg { return NavigateToHome{} }
			case "/", "tab":
				m.focus = focusFilter
				m.filter.Focus()
				return m, textinput.Blink
			case "1":
				m.focus = focusCard
				m.table.SetStyles(unfocusedTableStyles())
				return m, nil
			case "2":
				m.focus = focusMap
				m.table.SetStyles(unfocusedTableStyles())
				return m, nil
			case "n":
				return m, func() tea.Msg { return NavigateToSearch{} }
			case "r":
				if m.state.SearchErr != nil && !m.state.Searching {
					p := m.state.Params
					return m, func() tea.Msg { return SubmitSearch{Params: p} }
				}
			case "f":
				if b, ok := m.current(); ok {
					return m, func() tea.Msg { return ToggleFavorite{Business: b.Business} }
				}
			case "d":
				if b, ok := m.current(); ok {
					return m, func() tea.Msg { return RequestDetails{Business: b.Business} }
				}
			case "p":
				if b, ok := m.current(); ok {
					category := m.state.Found.Category
					return m, func() tea.Msg { return RequestPitch{Business: b.Business, Category: category} }
				}
			}

		case focusFilter:
			switch key {
			case "esc", "enter", "tab":
				m.focus = focusTable
				m.filter.Blur()
				return m, nil
			}

		case focusCard:
			maxScroll := len(m.cardLines) - m.panelHeight()
			if maxScroll < 0 {
				maxScroll = 0
			}
			switch key {
			case "esc":
				m.focus = focusTable
				m.table.SetStyles(focusedTableStyles())
				return m, nil
			case "up", "k":
				if m.cardScrollY > 0 {
					m.cardScrollY--
				}
				return m, nil
			case "down", "j":
				if m.cardScrollY < maxScroll {
					m.cardScrollY++
				}
				return m, nil
			}
			return m, nil

		case focusMap:
			switch key {
			case "esc":
				m.focus = focusTable
				m.table.SetStyles(focusedTableStyles())
			case "+", "=":
				m.mapView.ZoomIn()
			case "-":
				m.mapView.ZoomOut()
			case "0":
				m.mapView.ZoomReset()
			case "up", "k":
				m.mapView.Pan(1, 0)
			case "down", "j":
				m.mapView.Pan(-1, 0)
			case "left", "h":
				m.mapView.Pan(0, -1)
			case "right", "l":
				m.mapView.Pan(0, 1)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusTable:
		m.table, cmd = m.table.Update(msg)
		cursor := m.table.Cursor()
		if cursor != m.selected && cursor < len(m.filtered) {
			m.selected = cursor
			m.cardScrollY = 0
			m.mapView.SetSelected(m.pointIndex(cursor))
			m.cacheCard()
		}
	case focusFilter:
		m.filter, cmd = m.filter.Update(msg)
		m.Refresh()
	}

	return m, cmd
}

func (m *ResultsModel) buildTable(businesses []model.RankedBusiness) {
	starW := 2
	nameW := 32
	distW := 9
	linkW := 30
	if m.width > 120 {
		extra := m.width - 120
		nameW += extra * 6 / 10
		linkW += extra * 4 / 10
	}

	columns := []table.Column{
		{Title: "★", Width: starW},
		{Title: "Name", Width: nameW},
		{Title: "Distance", Width: distW},
		{Title: "Maps", Width: linkW},
	}

	rows := make([]table.Row, len(businesses))
	for i, b := range businesses {
		star := ""
		if m.state.IsFavorite(b.PlaceID) {
			star = "★"
		}
		rows[i] = table.Row{
			star,
			truncate(b.Title, nameW),
			formatDistance(b.DistanceKm),
			truncate(b.URI, linkW),
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(m.tableHeight()),
	)
	if m.focus == focusTable || m.focus == focusFilter {
		t.SetStyles(focusedTableStyles())
	} else {
		t.SetStyles(unfocusedTableStyles())
	}
	m.table = t
}

// pointIndex maps a row of the filtered list to its index among the
// plotted points, -1 when the business has no coordinates.
func (m ResultsModel) pointIndex(row int) int {
	idx := -1
	for i := 0; i <= row && i < len(m.filtered); i++ {
		if _, ok := m.filtered[i].Coords(); ok {
			idx++
			if i == row {
				return idx
			}
		}
	}
	return -1
}

func (m *ResultsModel) refreshMap() {
	mv := components.NewMapView(m.mapWidth(), m.panelHeight())
	if m.state.Area != nil {
		mv.SetBorder(components.PointsFromRing(m.state.Area.Ring()))
	}
	var pts []components.Point
	for _, b := range m.filtered {
		if c, ok := b.Coords(); ok {
			pts = append(pts, components.Point{Lat: c.Latitude, Lng: c.Longitude})
		}
	}
	if ref := m.state.Found.Reference; ref != nil {
		mv.SetReference(&components.Point{Lat: ref.Latitude, Lng: ref.Longitude})
	}
	mv.SetPoints(pts)
	mv.SetSelected(m.pointIndex(m.selected))
	m.mapView = mv
}

func (m *ResultsModel) cacheCard() {
	b, ok := m.current()
	if !ok {
		m.cardLines = nil
		return
	}
	m.cardLines = m.buildCardLines(b)
}

func (m ResultsModel) buildCardLines(b model.RankedBusiness) []string {
	var lines []string

	title := b.Title
	if m.state.IsFavorite(b.PlaceID) {
		title = "★ " + title
	}
	lines = append(lines, title)
	if b.DistanceKm != nil {
		lines = append(lines, formatDistance(b.DistanceKm)+" away")
	}
	lines = append(lines, "")

	addRow := func(label, value string) {
		if value != "" {
			lines = append(lines, fmt.Sprintf("%-10s %s", label, value))
		}
	}

	addRow("Maps:", b.URI)
	if c, ok := b.Coords(); ok {
		addRow("Coords:", fmt.Sprintf("%.6f, %.6f", c.Latitude, c.Longitude))
	}
	addRow("PlaceID:", b.PlaceID)

	id := b.PlaceID
	switch {
	case m.state.Pending[id] == PendingDetails:
		lines = append(lines, "", "Loading details...")
	case m.state.DetailErrs[id] != nil:
		lines = append(lines, "", "Details failed: "+m.state.DetailErrs[id].Error())
	default:
		if d, ok := m.state.Details[id]; ok {
			lines = append(lines, "")
			addRow("Address:", d.Address)
			addRow("Phone:", d.Phone)
			addRow("Website:", d.Website)
			for i, h := range d.Hours {
				label := ""
				if i == 0 {
					label = "Hours:"
				}
				lines = append(lines, fmt.Sprintf("%-10s %s", label, h))
			}
		}
	}

	switch {
	case m.state.Pending[id] == PendingPitch:
		lines = append(lines, "", "Writing pitch...")
	case m.state.PitchErrs[id] != nil:
		lines = append(lines, "", "Pitch failed: "+m.state.PitchErrs[id].Error())
	default:
		if p, ok := m.state.Pitches[id]; ok {
			lines = append(lines, "", "Pitch:")
			w := m.cardWidth()
			for _, para := range strings.Split(p, "\n") {
				lines = append(lines, wrap(para, w)...)
			}
		}
	}

	return lines
}

func wrap(s string, w int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len([]rune(line))+1+len([]rune(word)) > w {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	return append(lines, line)
}

func focusedTableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Secondary)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(styles.Primary).
		Bold(true)
	return s
}

func unfocusedTableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Muted)
	s.Selected = s.Selected.
		Foreground(styles.Text).
		Background(lipgloss.Color("#333333")).
		Bold(false)
	return s
}

func (m ResultsModel) tableHeight() int {
	h := m.height/2 - 6
	if h < 5 {
		h = 5
	}
	return h
}

func (m ResultsModel) panelHeight() int {
	h := m.height/2 - 6
	if h < 6 {
		h = 6
	}
	return h
}

func (m ResultsModel) detailWidth() int {
	w := m.width - 2
	if w < 60 {
		w = 60
	}
	return w
}

func (m ResultsModel) cardWidth() int {
	w := m.detailWidth()*3/5 - 6
	if w < 24 {
		w = 24
	}
	return w
}

func (m ResultsModel) mapWidth() int {
	w := m.detailWidth() - m.detailWidth()*3/5 - 5
	if w < 16 {
		w = 16
	}
	return w
}

func (m *ResultsModel) updateLayout() {
	if m.width <= 0 {
		return
	}
	m.Refresh()
}

func (m ResultsModel) View() string {
	var b strings.Builder

	st := m.state
	header := fmt.Sprintf("%s near %s", st.Params.Category, describeLocation(st.Params))
	b.WriteString(styles.Title.Render(header))
	b.WriteString("\n")

	switch {
	case st.Searching:
		b.WriteString(m.spinner.View() + " Searching...\n\n")
		b.WriteString(styles.StatusBar.Render("esc back"))
		return b.String()

	case st.SearchErr != nil:
		b.WriteString(styles.ErrorText.Render("Search failed: " + st.SearchErr.Error()))
		if genai.IsRateLimited(st.SearchErr) {
			b.WriteString("\n")
			b.WriteString(styles.Hint.Render("The model API is rate limiting requests. Wait a moment before retrying."))
		}
		b.WriteString("\n\n")
		b.WriteString(styles.StatusBar.Render("r retry • n new search • esc back"))
		return b.String()

	case st.Found.NoResults():
		msg := "No businesses found."
		if len(st.Found.Businesses) > 0 {
			msg = fmt.Sprintf("No businesses within %.1f km (%d found farther away).", st.Found.RadiusKm, len(st.Found.Businesses))
		}
		b.WriteString(styles.Hint.Render(msg))
		b.WriteString("\n\n")
		b.WriteString(styles.StatusBar.Render("n new search • esc back"))
		return b.String()
	}

	count := fmt.Sprintf("%d results", len(st.Found.Ranked))
	if len(m.filtered) != len(st.Found.Ranked) {
		count += fmt.Sprintf(" (showing %d)", len(m.filtered))
	}
	if st.Found.Reference == nil {
		count += " • unranked: no reference location"
	}
	b.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).Render(count))
	b.WriteString("\n\n")

	filterStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	if m.focus == focusFilter {
		filterStyle = lipgloss.NewStyle().Foreground(styles.Primary)
	}
	b.WriteString(filterStyle.Render("Filter: "))
	b.WriteString(m.filter.View())
	b.WriteString("\n")

	b.WriteString(m.table.View())
	b.WriteString("\n\n")

	panelH := m.panelHeight()

	cardBorderColor := styles.Muted
	if m.focus == focusCard {
		cardBorderColor = styles.Primary
	}
	cardBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cardBorderColor).
		Padding(0, 1).
		Width(m.cardWidth() + 2).
		Height(panelH).
		Render(m.viewCardPanel(m.cardWidth(), panelH))
	cardLabel := lipgloss.NewStyle().Bold(true).Foreground(cardBorderColor).Render("[1] Details")
	if len(st.Pending) > 0 {
		cardLabel += " " + m.spinner.View()
	}
	cardBox = cardLabel + "\n" + cardBox

	mapBorderColor := styles.Muted
	if m.focus == focusMap {
		mapBorderColor = styles.Primary
	}
	mapBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(mapBorderColor).
		Render(m.mapView.View())
	mapLabel := lipgloss.NewStyle().Bold(true).Foreground(mapBorderColor).Render("[2] Map")
	mapBox = mapLabel + "\n" + mapBox

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cardBox, " ", mapBox))
	b.WriteString("\n\n")

	if st.Notice != "" {
		b.WriteString(styles.WarningText.Render(st.Notice))
		b.WriteString("\n")
	}

	var statusText string
	switch m.focus {
	case focusTable:
		statusText = "↑↓ navigate • f favorite • d details • p pitch • / filter • 1 card • 2 map • n new • esc back"
	case focusFilter:
		statusText = "type to filter • esc back"
	case focusCard:
		statusText = "↑↓ scroll • esc back to table"
	case focusMap:
		statusText = "+/- zoom • ←↑↓→ pan • 0 reset • esc back to table"
	}
	b.WriteString(styles.StatusBar.Render(statusText))

	return b.String()
}

func (m ResultsModel) viewCardPanel(w, h int) string {
	if len(m.cardLines) == 0 {
		return styles.Hint.Render("Select a business\nto view details")
	}

	lines := m.cardLines

	scrollY := m.cardScrollY
	if scrollY > len(lines)-h {
		scrollY = len(lines) - h
	}
	if scrollY < 0 {
		scrollY = 0
	}
	end := scrollY + h
	if end > len(lines) {
		end = len(lines)
	}
	visible := lines[scrollY:end]

	var sb strings.Builder
	label := lipgloss.NewStyle().Foreground(styles.Muted)
	valStyle := lipgloss.NewStyle().Foreground(styles.Text)

	for i, line := range visible {
		switch {
		case scrollY+i == 0:
			sb.WriteString(lipgloss.NewStyle().Bold(true).Foreground(styles.Text).Render(truncate(line, w)))
		case strings.HasPrefix(line, "Website:") || strings.HasPrefix(line, "Maps:"):
			parts := strings.SplitN(line, " ", 2)
			val := ""
			if len(parts) > 1 {
				val = strings.TrimSpace(parts[1])
			}
			sb.WriteString(label.Render(fmt.Sprintf("%-10s ", parts[0])))
			sb.WriteString(styles.Link.Render(truncate(val, w-11)))
		case strings.HasPrefix(line, "Details failed") || strings.HasPrefix(line, "Pitch failed"):
			sb.WriteString(styles.ErrorText.Render(truncate(line, w)))
		default:
			sb.WriteString(valStyle.Render(truncate(line, w)))
		}
		if i < len(visible)-1 {
			sb.WriteString("\n")
		}
	}

	if scrollY > 0 {
		sb.WriteString("\n")
		sb.WriteString(label.Render("  ▲ more above"))
	}
	if end < len(lines) {
		sb.WriteString("\n")
		sb.WriteString(label.Render("  ▼ more below"))
	}

	return sb.String()
}

func describeLocation(p model.SearchParams) string {
	if p.Coords != nil {
		return formatCoords(*p.Coords)
	}
	return p.ManualLocation
}
