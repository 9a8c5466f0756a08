package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vzahanych/weather-lookup/internal/history"
	"github.com/vzahanych/weather-lookup/internal/suggest"
	"github.com/vzahanych/weather-lookup/internal/view"
	"github.com/vzahanych/weather-lookup/internal/weather"
	"go.uber.org/zap"
)

// WeatherClient is the backend surface the TUI needs. apiclient.Client satisfies it.
type WeatherClient interface {
	Weather(ctx context.Context, city string) (*weather.Report, error)
	WeatherAt(ctx context.Context, lat, lon float64) (*weather.Report, error)
}

type Coordinates struct {
	Lat float64
	Lon float64
}

type Options struct {
	Client    WeatherClient
	Suggester *suggest.Suggester
	Recent    *history.Recent
	Unit      view.Unit
	Logger    *zap.Logger
	// Start, when set, triggers a coordinate lookup on launch.
	Start *Coordinates
}

type Model struct {
	client    WeatherClient
	suggester *suggest.Suggester
	recent    *history.Recent
	logger    *zap.Logger
	start     *Coordinates

	input   textinput.Model
	spinner spinner.Model
	width   int

	suggestions []weather.CitySuggestion
	recents     []history.Entry
	cursor      int // -1 when nothing in the visible list is highlighted

	unit    view.Unit
	report  *weather.Report
	loading bool
	seq     uint64
	err     error
	notice  string
}

func NewModel(opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "City, e.g. London or Springfield, Illinois"
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 56

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = titleStyle

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	unit := opts.Unit
	if unit == "" {
		unit = view.Celsius
	}

	m := Model{
		client:    opts.Client,
		suggester: opts.Suggester,
		recent:    opts.Recent,
		logger:    logger,
		start:     opts.Start,
		input:     ti,
		spinner:   s,
		cursor:    -1,
		unit:      unit,
	}
	m.refreshRecents()
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.suggester != nil {
		cmds = append(cmds, waitForSuggestions(m.suggester.Results()))
	}
	if m.start != nil {
		cmds = append(cmds, func() tea.Msg {
			return startMsg{}
		})
	}
	return tea.Batch(cmds...)
}

// startMsg kicks off the launch-time coordinate lookup from inside Update, where the
// model can record the lookup sequence.
type startMsg struct{}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case startMsg:
		if m.start == nil {
			return m, nil
		}
		return m.beginLookup(lookup{
			query:  weather.FormatCoordinates(m.start.Lat, m.start.Lon),
			coords: true,
			lat:    m.start.Lat,
			lon:    m.start.Lon,
		})

	case suggestionsMsg:
		next := waitForSuggestions(m.suggester.Results())
		if !m.suggester.IsCurrent(msg.Generation) || m.loading {
			return m, next
		}
		if msg.Err != nil {
			m.suggestions = nil
			m.notice = "Suggestions unavailable: " + msg.Err.Error()
			return m, next
		}
		m.notice = ""
		m.suggestions = msg.Suggestions
		m.cursor = -1
		return m, next

	case suggestionsClosedMsg:
		return m, nil

	case weatherMsg:
		if msg.seq != m.seq {
			m.logger.Debug("Ignoring superseded lookup", zap.String("query", msg.lookup.query))
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.report = msg.report
		// Raw coordinate lookups have no name worth repeating.
		if !msg.lookup.coords || msg.lookup.label != "" {
			return m, m.saveRecent(msg.lookup)
		}
		return m, nil

	case recentSavedMsg:
		if msg.err != nil {
			m.logger.Warn("Recent searches not persisted", zap.Error(msg.err))
		}
		m.refreshRecents()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		if m.suggester != nil {
			m.suggester.Close()
		}
		return m, tea.Quit

	case "esc":
		if len(m.suggestions) > 0 {
			m.clearSuggestions()
			return m, nil
		}
		if m.suggester != nil {
			m.suggester.Close()
		}
		return m, tea.Quit

	case "ctrl+t":
		m.unit = m.unit.Toggle()
		return m, nil

	case "ctrl+r":
		if m.recent == nil {
			return m, nil
		}
		m.cursor = -1
		return m, clearRecent(m.recent)

	case "up":
		m.moveCursor(-1)
		return m, nil

	case "down":
		m.moveCursor(1)
		return m, nil

	case "enter":
		return m.submit()
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if value := m.input.Value(); value != before {
		m.cursor = -1
		if m.suggester == nil || !m.suggester.Update(value) {
			m.suggestions = nil
		}
	}
	return m, cmd
}

// visible returns the number of entries in the list the cursor moves over: suggestions
// while typing, recent searches while the input is empty.
func (m Model) visible() int {
	if len(m.suggestions) > 0 {
		return len(m.suggestions)
	}
	if strings.TrimSpace(m.input.Value()) == "" {
		return len(m.recents)
	}
	return 0
}

func (m *Model) moveCursor(delta int) {
	n := m.visible()
	if n == 0 {
		m.cursor = -1
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = n - 1
	}
	if m.cursor >= n {
		m.cursor = 0
	}
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	switch {
	case len(m.suggestions) > 0 && m.cursor >= 0:
		s := m.suggestions[m.cursor]
		m.input.SetValue(s.DisplayName)
		return m.beginLookup(lookup{
			query:  s.DisplayName,
			coords: true,
			lat:    s.Latitude,
			lon:    s.Longitude,
			label:  s.DisplayName,
			place:  &s,
		})

	case strings.TrimSpace(m.input.Value()) == "" && m.cursor >= 0 && m.cursor < len(m.recents):
		e := m.recents[m.cursor]
		m.input.SetValue(e.Query)
		if e.Place != nil {
			return m.beginLookup(lookup{
				query:  e.Query,
				coords: true,
				lat:    e.Place.Lat,
				lon:    e.Place.Lon,
				label:  e.Query,
			})
		}
		return m.beginLookup(lookup{query: e.Query})

	default:
		q := strings.TrimSpace(m.input.Value())
		if q == "" {
			return m, nil
		}
		return m.beginLookup(lookup{query: q})
	}
}

func (m Model) beginLookup(l lookup) (tea.Model, tea.Cmd) {
	m.clearSuggestions()
	m.seq++
	m.loading = true
	m.err = nil
	m.notice = ""

	m.logger.Info("Looking up weather", zap.String("query", l.query), zap.Bool("coords", l.coords))

	return m, tea.Batch(m.spinner.Tick, fetchWeather(m.client, m.seq, l))
}

func (m *Model) clearSuggestions() {
	if m.suggester != nil {
		m.suggester.Cancel()
	}
	m.suggestions = nil
	m.cursor = -1
}

func (m Model) saveRecent(l lookup) tea.Cmd {
	if m.recent == nil {
		return nil
	}
	return addRecent(m.recent, l)
}

func (m *Model) refreshRecents() {
	if m.recent == nil {
		m.recents = nil
		return
	}
	m.recents = m.recent.Entries()
}

// Unit returns the temperature unit currently displayed.
func (m Model) Unit() view.Unit {
	return m.unit
}

// Report returns the report on screen, if any.
func (m Model) Report() *weather.Report {
	return m.report
}
