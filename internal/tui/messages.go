package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vzahanych/weather-lookup/internal/history"
	"github.com/vzahanych/weather-lookup/internal/suggest"
	"github.com/vzahanych/weather-lookup/internal/weather"
)

const lookupTimeout = 20 * time.Second

// lookup describes one weather request. Picked suggestions and recalled places go by
// coordinates and keep label as the name shown and remembered.
type lookup struct {
	query    string
	coords   bool
	lat, lon float64
	label    string
	place    *weather.CitySuggestion
}

// weatherMsg is sent when a lookup finishes. seq ties it to the lookup that started it.
type weatherMsg struct {
	seq    uint64
	lookup lookup
	report *weather.Report
	err    error
}

// suggestionsMsg carries one autocomplete result from the suggester.
type suggestionsMsg suggest.Result

type suggestionsClosedMsg struct{}

// recentSavedMsg reports the outcome of persisting the recent-searches list.
type recentSavedMsg struct {
	err error
}

func fetchWeather(client WeatherClient, seq uint64, l lookup) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()

		var (
			report *weather.Report
			err    error
		)
		if l.coords {
			report, err = client.WeatherAt(ctx, l.lat, l.lon)
		} else {
			report, err = client.Weather(ctx, l.query)
		}
		if err == nil {
			switch {
			case l.place != nil:
				report.Location.Query = l.query
				report.Location.ResolvedName = l.place.Name
				report.Location.Country = l.place.Country
			case l.label != "":
				report.Location.Query = l.query
				report.Location.ResolvedName = l.label
				report.Location.Country = ""
			}
		}
		return weatherMsg{seq: seq, lookup: l, report: report, err: err}
	}
}

func waitForSuggestions(ch <-chan suggest.Result) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return suggestionsClosedMsg{}
		}
		return suggestionsMsg(r)
	}
}

func addRecent(recent *history.Recent, l lookup) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if l.coords {
			return recentSavedMsg{err: recent.AddPlace(ctx, l.label, l.lat, l.lon)}
		}
		return recentSavedMsg{err: recent.Add(ctx, l.query)}
	}
}

func clearRecent(recent *history.Recent) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return recentSavedMsg{err: recent.Clear(ctx)}
	}
}
