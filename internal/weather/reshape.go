package weather

import (
	"errors"
	"time"

	"github.com/vzahanych/weather-lookup/internal/service"
)

// HourLayout is the timestamp format Open-Meteo uses for hourly and current entries.
const HourLayout = "2006-01-02T15:04"

var errNoCurrentTemperature = errors.New("current temperature missing from forecast")

// Reshape zips the column arrays of a forecast into records and derives current
// conditions relative to now.
func Reshape(resp *service.ForecastResponse, now time.Time) (Snapshot, error) {
	if resp.CurrentWeather == nil || resp.CurrentWeather.Temperature == nil {
		return Snapshot{}, errNoCurrentTemperature
	}

	hourly := ReshapeHourly(resp.Hourly)
	daily := ReshapeDaily(resp.Daily)

	zone := time.FixedZone(resp.Timezone, resp.UTCOffsetSeconds)
	idx := CurrentHourIndex(hourly, now, zone)

	var hour *HourlyRecord
	if idx >= 0 {
		hour = &hourly[idx]
	}

	return Snapshot{
		Current: buildCurrent(resp.CurrentWeather, hour),
		Hourly:  hourly,
		Daily:   daily,
	}, nil
}

// ReshapeHourly returns one record per entry of the time column. Missing, short or null
// metric columns leave the field unset on the affected records.
func ReshapeHourly(b *service.HourlyBlock) []HourlyRecord {
	if b == nil {
		return []HourlyRecord{}
	}

	out := make([]HourlyRecord, len(b.Time))
	for i, ts := range b.Time {
		r := HourlyRecord{
			Time:                ts,
			Temperature:         at(b.Temperature, i),
			ApparentTemperature: at(b.ApparentTemperature, i),
			Humidity:            at(b.RelativeHumidity, i),
			Precipitation:       at(b.Precipitation, i),
			WeatherCode:         at(b.WeatherCode, i),
			Pressure:            at(b.PressureMSL, i),
			CloudCover:          at(b.CloudCover, i),
			WindSpeed:           at(b.WindSpeed, i),
			WindDirection:       at(b.WindDirection, i),
			UVIndex:             at(b.UVIndex, i),
			IsDay:               flag(at(b.IsDay, i)),
		}
		if r.WeatherCode != nil {
			c := Describe(*r.WeatherCode)
			r.Description, r.Icon = c.Description, c.Icon
		}
		out[i] = r
	}
	return out
}

func ReshapeDaily(b *service.DailyBlock) []DailyRecord {
	if b == nil {
		return []DailyRecord{}
	}

	out := make([]DailyRecord, len(b.Time))
	for i, day := range b.Time {
		r := DailyRecord{
			Date:                        day,
			TemperatureMax:              at(b.TemperatureMax, i),
			TemperatureMin:              at(b.TemperatureMin, i),
			WeatherCode:                 at(b.WeatherCode, i),
			Sunrise:                     str(b.Sunrise, i),
			Sunset:                      str(b.Sunset, i),
			PrecipitationSum:            at(b.PrecipitationSum, i),
			WindSpeedMax:                at(b.WindSpeedMax, i),
			WindGustsMax:                at(b.WindGustsMax, i),
			WindDirectionDominant:       at(b.WindDirectionDominant, i),
			UVIndexMax:                  at(b.UVIndexMax, i),
			PrecipitationProbabilityMax: at(b.PrecipitationProbabilityMax, i),
		}
		if r.WeatherCode != nil {
			c := Describe(*r.WeatherCode)
			r.Description, r.Icon = c.Description, c.Icon
		}
		out[i] = r
	}
	return out
}

// CurrentHourIndex picks the first hourly entry at or after now. When every entry is in
// the past it falls back to the entry closest to now, the earliest one on ties.
// Timestamps are read in zone. Returns -1 when no timestamp parses.
func CurrentHourIndex(hourly []HourlyRecord, now time.Time, zone *time.Location) int {
	closest := -1
	var best time.Duration

	for i, h := range hourly {
		t, err := time.ParseInLocation(HourLayout, h.Time, zone)
		if err != nil {
			continue
		}
		if !t.Before(now) {
			return i
		}
		d := now.Sub(t)
		if closest < 0 || d < best {
			closest, best = i, d
		}
	}
	return closest
}

func buildCurrent(cw *service.CurrentWeather, hour *HourlyRecord) Current {
	cur := Current{
		Time:          cw.Time,
		Temperature:   *cw.Temperature,
		WindSpeed:     cw.WindSpeed,
		WindDirection: cw.WindDirection,
		WeatherCode:   cw.WeatherCode,
		IsDay:         flag(cw.IsDay),
	}

	if hour != nil {
		cur.FeelsLike = hour.ApparentTemperature
		cur.Humidity = hour.Humidity
		cur.Pressure = hour.Pressure
		cur.CloudCover = hour.CloudCover
		cur.Precipitation = hour.Precipitation
		cur.UVIndex = hour.UVIndex

		if cur.WeatherCode == nil {
			cur.WeatherCode = hour.WeatherCode
		}
		if cur.IsDay == nil {
			cur.IsDay = hour.IsDay
		}
	}

	c := unknownCondition
	if cur.WeatherCode != nil {
		c = Describe(*cur.WeatherCode)
	}
	cur.Description, cur.Icon = c.Description, c.Icon

	return cur
}

func at[T any](col []*T, i int) *T {
	if i < len(col) {
		return col[i]
	}
	return nil
}

func str(col []string, i int) string {
	if i < len(col) {
		return col[i]
	}
	return ""
}

func flag(v *int) *bool {
	if v == nil {
		return nil
	}
	b := *v != 0
	return &b
}
