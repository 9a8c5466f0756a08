package service

import (
	"context"
	"time"
)

// Geocoder resolves place names to ranked candidate locations.
type Geocoder interface {
	Search(ctx context.Context, name string, count int) ([]Place, error)
}

// ForecastProvider fetches current, hourly and daily weather for one coordinate pair.
type ForecastProvider interface {
	Forecast(ctx context.Context, req ForecastRequest) (*ForecastResponse, error)
}

// CallRecorder receives one observation per upstream call.
type CallRecorder interface {
	RecordUpstreamCall(api string, err error, elapsed time.Duration)
}

type Place struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
	Admin1      string  `json:"admin1"`
	Timezone    string  `json:"timezone"`
}

type GeocodeResponse struct {
	Results []Place `json:"results"`
}

type ForecastRequest struct {
	Latitude  float64
	Longitude float64
	Timezone  string
	Days      int
	Hourly    string
	Daily     string
}

// ForecastResponse mirrors the Open-Meteo forecast payload. Column values are pointers
// because the API emits null for hours or days it has no data for.
type ForecastResponse struct {
	Latitude         float64         `json:"latitude"`
	Longitude        float64         `json:"longitude"`
	Timezone         string          `json:"timezone"`
	UTCOffsetSeconds int             `json:"utc_offset_seconds"`
	CurrentWeather   *CurrentWeather `json:"current_weather"`
	Hourly           *HourlyBlock    `json:"hourly"`
	Daily            *DailyBlock     `json:"daily"`
	Error            bool            `json:"error"`
	Reason           string          `json:"reason"`
}

type CurrentWeather struct {
	Time          string   `json:"time"`
	Temperature   *float64 `json:"temperature"`
	WindSpeed     *float64 `json:"windspeed"`
	WindDirection *float64 `json:"winddirection"`
	WeatherCode   *int     `json:"weathercode"`
	IsDay         *int     `json:"is_day"`
}

type HourlyBlock struct {
	Time                []string   `json:"time"`
	Temperature         []*float64 `json:"temperature_2m"`
	RelativeHumidity    []*float64 `json:"relativehumidity_2m"`
	ApparentTemperature []*float64 `json:"apparent_temperature"`
	Precipitation       []*float64 `json:"precipitation"`
	WeatherCode         []*int     `json:"weathercode"`
	PressureMSL         []*float64 `json:"pressure_msl"`
	CloudCover          []*float64 `json:"cloudcover"`
	WindSpeed           []*float64 `json:"windspeed_10m"`
	WindDirection       []*float64 `json:"winddirection_10m"`
	UVIndex             []*float64 `json:"uv_index"`
	IsDay               []*int     `json:"is_day"`
}

type DailyBlock struct {
	Time                        []string   `json:"time"`
	TemperatureMax              []*float64 `json:"temperature_2m_max"`
	TemperatureMin              []*float64 `json:"temperature_2m_min"`
	WeatherCode                 []*int     `json:"weathercode"`
	Sunrise                     []string   `json:"sunrise"`
	Sunset                      []string   `json:"sunset"`
	PrecipitationSum            []*float64 `json:"precipitation_sum"`
	WindSpeedMax                []*float64 `json:"windspeed_10m_max"`
	WindGustsMax                []*float64 `json:"windgusts_10m_max"`
	WindDirectionDominant       []*float64 `json:"winddirection_10m_dominant"`
	UVIndexMax                  []*float64 `json:"uv_index_max"`
	PrecipitationProbabilityMax []*float64 `json:"precipitation_probability_max"`
}
