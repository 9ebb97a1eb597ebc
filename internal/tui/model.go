// Package tui is the interactive route planner: two place searches, a
// parking interval, and the resulting route list.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kass/pitstop/pkg/client"
	"github.com/kass/pitstop/pkg/models"
	"github.com/kass/pitstop/pkg/planner"
	"github.com/kass/pitstop/pkg/render"
	"github.com/kass/pitstop/pkg/store"
)

var (
	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF79C6")).
			Background(lipgloss.Color("#282A36")).
			Padding(0, 1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8BE9FD")).
			Width(10)

	suggestionStyle = lipgloss.NewStyle().
			PaddingLeft(12)

	activeSuggestionStyle = suggestionStyle.
				Foreground(lipgloss.Color("#50FA7B"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F1FA8C"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4"))
)

type field int

const (
	fieldStart field = iota
	fieldEnd
	fieldInterval
	fieldRoutes
	fieldCount
)

// searchState tracks the suggestion list under one location input
type searchState struct {
	query    string
	pending  bool
	outcome  client.SearchOutcome
	options  []models.Location
	cursor   int
	selected string
}

type searchResultMsg struct {
	field   field
	query   string
	outcome client.SearchOutcome
	current bool
}

type routesDoneMsg struct {
	err error
}

type snapshotMsg store.Snapshot

// Config wires the model to the client and the route store
type Config struct {
	Searcher planner.Searcher
	Planner  *planner.Planner
	State    store.State
	Renderer *render.Renderer
	// Interval is the initial parking interval in minutes
	Interval int
	// UserPosition, when set, is offered as "Current Location"
	UserPosition *models.LatLng
	// InBounds reports whether a chosen location lies on the map
	InBounds func(models.LatLng) bool
}

// Model is the bubbletea model of the planner
type Model struct {
	ctx context.Context
	cfg Config

	form     *planner.Form
	boxes    [2]*planner.SearchBox
	inputs   [3]textinput.Model
	searches [2]searchState
	focus    field

	spinner spinner.Model
	snap    store.Snapshot
	cursor  int
	details map[int]bool

	notice string
	width  int
}

// New creates the planner model
func New(ctx context.Context, cfg Config) Model {
	if cfg.Renderer == nil {
		cfg.Renderer = render.New(true)
	}

	form := planner.NewForm()
	if cfg.Interval > 0 {
		form.IntervalMins = cfg.Interval
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF79C6"))

	m := Model{
		ctx:     ctx,
		cfg:     cfg,
		form:    form,
		boxes:   [2]*planner.SearchBox{planner.NewSearchBox(cfg.Searcher), planner.NewSearchBox(cfg.Searcher)},
		spinner: s,
		snap:    cfg.State.Snapshot(),
		details: make(map[int]bool),
		width:   80,
	}

	placeholders := [3]string{"Start Point", "End Point", "Interval (minutes)"}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.Prompt = ""
		ti.CharLimit = 120
		ti.Width = 50
		m.inputs[i] = ti
	}
	m.inputs[fieldInterval].CharLimit = 4
	m.inputs[fieldInterval].SetValue(strconv.Itoa(form.IntervalMins))
	m.inputs[fieldStart].Focus()

	return m
}

// Form returns the current form
func (m Model) Form() *planner.Form {
	return m.form
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case searchResultMsg:
		if !msg.current {
			return m, nil
		}
		s := &m.searches[msg.field]
		if s.query != msg.query {
			return m, nil
		}
		s.pending = false
		s.outcome = msg.outcome
		s.options = msg.outcome.Locations()
		s.cursor = 0
		return m, nil

	case routesDoneMsg:
		m.snap = m.cfg.State.Snapshot()
		m.cursor = 0
		m.details = make(map[int]bool)
		if len(m.snap.Routes) > 0 {
			m.focus = fieldRoutes
			m.blurInputs()
		}
		return m, nil

	case snapshotMsg:
		m.snap = store.Snapshot(msg)
		if m.cursor >= len(m.snap.Routes) {
			m.cursor = 0
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		return m.setFocus((m.focus + 1) % fieldCount)
	case "shift+tab":
		return m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	case "ctrl+x":
		m.form.Swap()
		m.syncLocationInputs()
		return m, nil
	case "ctrl+s":
		return m.submit()
	case "ctrl+l":
		if m.focus == fieldStart || m.focus == fieldEnd {
			return m.useCurrentLocation(m.focus)
		}
		return m, nil
	}

	switch m.focus {
	case fieldStart, fieldEnd:
		return m.handleLocationKey(msg)
	case fieldInterval:
		return m.handleIntervalKey(msg)
	case fieldRoutes:
		return m.handleRoutesKey(msg)
	}
	return m, nil
}

func (m Model) handleLocationKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.focus
	s := &m.searches[f]

	switch msg.String() {
	case "up":
		if s.cursor > 0 {
			s.cursor--
		}
		return m, nil
	case "down":
		if s.cursor < len(s.options)-1 {
			s.cursor++
		}
		return m, nil
	case "enter":
		if s.cursor < len(s.options) {
			return m.choose(f, s.options[s.cursor])
		}
		return m, nil
	case "esc":
		m.clearSearch(f)
		return m, nil
	}

	before := m.inputs[f].Value()
	var cmd tea.Cmd
	m.inputs[f], cmd = m.inputs[f].Update(msg)
	after := m.inputs[f].Value()
	if after == before {
		return m, cmd
	}

	s.query = after
	s.options = nil
	s.cursor = 0
	if strings.TrimSpace(after) == "" {
		s.pending = false
		s.outcome = client.SearchOutcome{}
		m.boxes[f].Reset()
		return m, cmd
	}
	s.pending = true
	return m, tea.Batch(cmd, m.searchCmd(f, after))
}

func (m Model) handleIntervalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		return m.submit()
	}

	previous := m.inputs[fieldInterval].Value()
	var cmd tea.Cmd
	m.inputs[fieldInterval], cmd = m.inputs[fieldInterval].Update(msg)
	text := m.inputs[fieldInterval].Value()

	if err := m.form.SetIntervalText(text); err != nil {
		// Reject the keystroke
		m.inputs[fieldInterval].SetValue(previous)
	}
	return m, cmd
}

func (m Model) handleRoutesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	routes := m.snap.Routes
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(routes)-1 {
			m.cursor++
		}
	case "enter", " ":
		if m.cursor < len(routes) {
			m.cfg.State.Select(m.cursor)
			m.snap = m.cfg.State.Snapshot()
		}
	case "d":
		if m.cursor < len(routes) {
			m.details[m.cursor] = !m.details[m.cursor]
		}
	}
	return m, nil
}

func (m Model) setFocus(f field) (tea.Model, tea.Cmd) {
	// Leaving an empty interval restores the last valid value
	if m.focus == fieldInterval && m.inputs[fieldInterval].Value() == "" {
		m.inputs[fieldInterval].SetValue(strconv.Itoa(m.form.IntervalMins))
	}

	m.focus = f
	m.blurInputs()
	if f < fieldRoutes {
		return m, m.inputs[f].Focus()
	}
	return m, nil
}

func (m *Model) blurInputs() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m Model) choose(f field, loc models.Location) (tea.Model, tea.Cmd) {
	if f == fieldStart {
		m.form.SetStart(loc)
	} else {
		m.form.SetEnd(loc)
	}
	m.inputs[f].SetValue(loc.Address)
	m.clearSearch(f)
	m.searches[f].selected = loc.Address

	m.notice = ""
	if m.cfg.InBounds != nil && !m.cfg.InBounds(loc.LatLng()) {
		m.notice = fmt.Sprintf("%s is outside the map area", loc.Address)
	}
	return m, nil
}

func (m Model) useCurrentLocation(f field) (tea.Model, tea.Cmd) {
	if m.cfg.UserPosition == nil {
		m.notice = "Current location is not available"
		return m, nil
	}
	return m.choose(f, planner.CurrentLocation(m.cfg.UserPosition.Lat, m.cfg.UserPosition.Lon))
}

func (m *Model) clearSearch(f field) {
	m.boxes[f].Reset()
	m.searches[f] = searchState{selected: m.searches[f].selected}
}

func (m *Model) syncLocationInputs() {
	if m.form.Start != nil {
		m.inputs[fieldStart].SetValue(m.form.Start.Address)
	}
	if m.form.End != nil {
		m.inputs[fieldEnd].SetValue(m.form.End.Address)
	}
	m.clearSearch(fieldStart)
	m.clearSearch(fieldEnd)
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.snap.Loading || m.cfg.State.Loading() {
		return m, nil
	}
	if err := m.form.Validate(); err != nil {
		m.notice = err.Error()
		return m, nil
	}
	m.notice = ""
	m.snap.Loading = true
	return m, m.submitCmd()
}

func (m Model) searchCmd(f field, query string) tea.Cmd {
	box := m.boxes[f]
	ctx := m.ctx
	return func() tea.Msg {
		outcome, current := box.Lookup(ctx, query)
		return searchResultMsg{field: f, query: query, outcome: outcome, current: current}
	}
}

func (m Model) submitCmd() tea.Cmd {
	form := *m.form
	p := m.cfg.Planner
	ctx := m.ctx
	return func() tea.Msg {
		return routesDoneMsg{err: p.Submit(ctx, &form)}
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("PitStop"))
	b.WriteString("\n")

	labels := [3]string{"From", "To", "Every"}
	for i := range m.inputs {
		f := field(i)
		b.WriteString(labelStyle.Render(labels[i]))
		b.WriteString(m.inputs[i].View())
		if f == fieldInterval {
			b.WriteString(dimStyle.Render(" min"))
		}
		b.WriteString("\n")
		if (f == fieldStart || f == fieldEnd) && m.focus == f {
			b.WriteString(m.suggestionsView(f))
		}
	}
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(warnStyle.Render(m.notice))
		b.WriteString("\n\n")
	}

	switch {
	case m.snap.Loading:
		b.WriteString(m.spinner.View() + " Finding routes...\n")
	case m.snap.Err != nil:
		b.WriteString(errorStyle.Render("Could not plan route: " + m.snap.Err.Error()))
		b.WriteString("\n")
	default:
		cursor := -1
		if m.focus == fieldRoutes {
			cursor = m.cursor
		}
		b.WriteString(m.cfg.Renderer.RoutesPanel(m.snap.Routes, render.PanelOptions{
			Selected: m.snap.Selected,
			Cursor:   cursor,
			Details:  m.details,
		}))
		if current, ok := m.snap.Current(); ok {
			for _, spot := range current.ParkingSpots {
				b.WriteString("\n")
				b.WriteString(m.cfg.Renderer.ParkingSpot(spot))
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help()))
	return b.String()
}

func (m Model) suggestionsView(f field) string {
	s := m.searches[f]
	var lines []string

	if m.cfg.UserPosition != nil {
		lines = append(lines, suggestionStyle.Render("ctrl+l: Use Current Location"))
	}

	switch {
	case s.query == "" && s.selected != "":
	case s.query == "":
		lines = append(lines, suggestionStyle.Render(dimStyle.Render("Enter a query to search")))
	case s.pending:
		lines = append(lines, suggestionStyle.Render(m.spinner.View()+" Searching..."))
	case s.outcome.Status == client.SearchFailed:
		lines = append(lines, suggestionStyle.Render(errorStyle.Render("Search failed: "+s.outcome.Err.Error())))
	case len(s.options) == 0:
		lines = append(lines, suggestionStyle.Render(dimStyle.Render("No results found")))
	default:
		for i, loc := range s.options {
			if i == s.cursor {
				lines = append(lines, activeSuggestionStyle.Render("> "+loc.Address))
			} else {
				lines = append(lines, suggestionStyle.Render("  "+loc.Address))
			}
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func (m Model) help() string {
	if m.focus == fieldRoutes {
		return "up/down: move • enter: select route • d: details • tab: edit • q: quit"
	}
	return "tab: next field • up/down/enter: pick place • ctrl+x: swap • ctrl+s: find routes • ctrl+c: quit"
}
