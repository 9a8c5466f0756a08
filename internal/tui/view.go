package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vzahanych/weather-lookup/internal/view"
)

// hourlyPreview caps how many hours are listed per day group.
const hourlyPreview = 8

func (m Model) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render("Weather Lookup")+"  "+mutedStyle.Render("units "+m.unit.Symbol()))
	sections = append(sections, inputStyle.Render(m.input.View()))

	if list := m.viewList(); list != "" {
		sections = append(sections, list)
	}

	switch {
	case m.loading:
		sections = append(sections, fmt.Sprintf("%s %s", m.spinner.View(), mutedStyle.Render("Fetching weather...")))
	case m.err != nil:
		sections = append(sections, errorStyle.Render("✗ "+m.err.Error()))
	}

	if m.notice != "" {
		sections = append(sections, mutedStyle.Render(m.notice))
	}

	if m.report != nil && !m.loading {
		sections = append(sections, m.viewReport(view.Build(m.report, m.unit)))
	}

	sections = append(sections, helpStyle.Render("Enter: search • ↑/↓: select • Ctrl+T: °C/°F • Ctrl+R: clear recent • Esc: quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewList() string {
	var (
		items []string
		title string
	)
	switch {
	case len(m.suggestions) > 0:
		title = "Suggestions"
		for _, s := range m.suggestions {
			items = append(items, s.DisplayName)
		}
	case strings.TrimSpace(m.input.Value()) == "" && len(m.recents) > 0:
		title = "Recent searches"
		for _, e := range m.recents {
			items = append(items, e.Query)
		}
	default:
		return ""
	}

	lines := []string{mutedStyle.Render(title)}
	for i, it := range items {
		if i == m.cursor {
			lines = append(lines, selectedStyle.Render("› "+it))
			continue
		}
		lines = append(lines, "  "+it)
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewReport(d view.Dashboard) string {
	cur := d.Current
	current := lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(d.Location),
		fmt.Sprintf("%s  %s  %s", icon(cur.Icon), bigTempStyle.Render(cur.Temperature), cur.Description),
		mutedStyle.Render(fmt.Sprintf("Feels like %s • Humidity %s • Wind %s", cur.FeelsLike, cur.Humidity, cur.Wind)),
		mutedStyle.Render(fmt.Sprintf("Pressure %s • Clouds %s • UV %s • Updated %s", cur.Pressure, cur.CloudCover, cur.UVIndex, cur.Time)),
	)

	var hourly []string
	for _, g := range d.Hourly {
		if len(hourly) >= 2 {
			break
		}
		row := []string{headerStyle.Render(g.Label)}
		for i, h := range g.Hours {
			if i >= hourlyPreview {
				break
			}
			row = append(row, fmt.Sprintf("%s %s %s", h.Time, icon(h.Icon), h.Temperature))
		}
		hourly = append(hourly, strings.Join(row, "  "))
	}

	var daily []string
	for _, day := range d.Daily {
		daily = append(daily, fmt.Sprintf("%-9s %s %5s / %-5s %s",
			day.Label, icon(day.Icon), day.High, day.Low, mutedStyle.Render(day.Description)))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render(current),
		sectionStyle.Render(strings.Join(hourly, "\n")),
		sectionStyle.Render(strings.Join(daily, "\n")),
	)
}
