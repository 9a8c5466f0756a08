package view

import (
	"fmt"
	"time"

	"github.com/vzahanych/weather-lookup/internal/weather"
)

const dateLayout = "2006-01-02"

type CurrentView struct {
	Temperature string
	FeelsLike   string
	Description string
	Icon        string
	Humidity    string
	Wind        string
	Pressure    string
	CloudCover  string
	UVIndex     string
	Time        string
}

type HourView struct {
	Time          string
	Temperature   string
	Description   string
	Icon          string
	Precipitation string
}

type HourGroup struct {
	Label string
	Date  string
	Hours []HourView
}

type DayView struct {
	Label         string
	Date          string
	High          string
	Low           string
	Description   string
	Icon          string
	Precipitation string
	Sunrise       string
	Sunset        string
}

// Dashboard is everything the client renders for one report.
type Dashboard struct {
	Location string
	Current  CurrentView
	Hourly   []HourGroup
	Daily    []DayView
	Unit     Unit
}

// Build turns a report into display strings in unit u. "Today" is the date of the
// report's current-conditions timestamp, i.e. the location's local date.
func Build(r *weather.Report, u Unit) Dashboard {
	today := datePart(r.Current.Time)

	return Dashboard{
		Location: LocationLabel(r.Location),
		Current:  buildCurrent(r.Current, u),
		Hourly:   GroupHourly(Upcoming(r.Hourly, r.Current.Time), today, u),
		Daily:    BuildDaily(r.Daily, today, u),
		Unit:     u,
	}
}

// Upcoming drops the hours before the one now falls in, picking that hour the same way the
// server picks the current conditions. Hours are returned unchanged when now does not parse.
func Upcoming(hours []weather.HourlyRecord, now string) []weather.HourlyRecord {
	t, err := time.Parse(weather.HourLayout, now)
	if err != nil {
		return hours
	}
	if i := weather.CurrentHourIndex(hours, t.Truncate(time.Hour), time.UTC); i > 0 {
		return hours[i:]
	}
	return hours
}

func LocationLabel(loc weather.ResolvedLocation) string {
	if loc.Country == "" {
		return loc.ResolvedName
	}
	return loc.ResolvedName + ", " + loc.Country
}

func buildCurrent(c weather.Current, u Unit) CurrentView {
	temp := c.Temperature
	return CurrentView{
		Temperature: FormatTemp(&temp, u),
		FeelsLike:   FormatTemp(c.FeelsLike, u),
		Description: c.Description,
		Icon:        c.Icon,
		Humidity:    formatValue(c.Humidity, "%.0f%%"),
		Wind:        formatWind(c.WindSpeed, c.WindDirection),
		Pressure:    formatValue(c.Pressure, "%.0f hPa"),
		CloudCover:  formatValue(c.CloudCover, "%.0f%%"),
		UVIndex:     formatValue(c.UVIndex, "%.1f"),
		Time:        clock(c.Time),
	}
}

// GroupHourly splits hourly records into calendar days, keeping their order.
func GroupHourly(hours []weather.HourlyRecord, today string, u Unit) []HourGroup {
	var groups []HourGroup
	for _, h := range hours {
		date := datePart(h.Time)
		if len(groups) == 0 || groups[len(groups)-1].Date != date {
			groups = append(groups, HourGroup{Label: DayLabel(date, today), Date: date})
		}
		g := &groups[len(groups)-1]
		g.Hours = append(g.Hours, HourView{
			Time:          clock(h.Time),
			Temperature:   FormatTemp(h.Temperature, u),
			Description:   h.Description,
			Icon:          h.Icon,
			Precipitation: formatValue(h.Precipitation, "%.1f mm"),
		})
	}
	return groups
}

func BuildDaily(days []weather.DailyRecord, today string, u Unit) []DayView {
	out := make([]DayView, 0, len(days))
	for _, d := range days {
		out = append(out, DayView{
			Label:         DayLabel(d.Date, today),
			Date:          d.Date,
			High:          FormatTemp(d.TemperatureMax, u),
			Low:           FormatTemp(d.TemperatureMin, u),
			Description:   d.Description,
			Icon:          d.Icon,
			Precipitation: formatValue(d.PrecipitationProbabilityMax, "%.0f%%"),
			Sunrise:       clock(d.Sunrise),
			Sunset:        clock(d.Sunset),
		})
	}
	return out
}

// DayLabel returns "Today", "Tomorrow" or the weekday name of date relative to today.
// Both are YYYY-MM-DD; unparseable input is returned unchanged.
func DayLabel(date, today string) string {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	t, err := time.Parse(dateLayout, today)
	if err != nil {
		return d.Weekday().String()
	}

	switch d.Sub(t) {
	case 0:
		return "Today"
	case 24 * time.Hour:
		return "Tomorrow"
	default:
		return d.Weekday().String()
	}
}

func datePart(ts string) string {
	if len(ts) < len(dateLayout) {
		return ts
	}
	return ts[:len(dateLayout)]
}

// clock extracts HH:MM from an Open-Meteo timestamp.
func clock(ts string) string {
	if i := len(dateLayout) + 1; len(ts) > i {
		return ts[i:]
	}
	return ""
}

func formatValue(v *float64, format string) string {
	if v == nil {
		return "--"
	}
	return fmt.Sprintf(format, *v)
}

func formatWind(speed, dir *float64) string {
	if speed == nil {
		return "--"
	}
	s := fmt.Sprintf("%.0f km/h", *speed)
	if dir != nil {
		s += " " + Compass(*dir)
	}
	return s
}
