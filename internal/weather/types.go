package weather

// Source is reported with every Report for attribution.
const Source = "open-meteo.com"

// ResolvedLocation is the single geocoding match a Report was built from.
type ResolvedLocation struct {
	Query        string  `json:"query"`
	ResolvedName string  `json:"resolved_name"`
	Country      string  `json:"country"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Timezone     string  `json:"timezone"`
}

// Report is the /weather response body.
type Report struct {
	Location ResolvedLocation `json:"location"`
	Snapshot
	Source string `json:"source"`
}

// Snapshot holds current conditions plus the reshaped hourly and daily series.
// Units: °C, km/h, hPa, %, mm.
type Snapshot struct {
	Current Current        `json:"current"`
	Hourly  []HourlyRecord `json:"hourly"`
	Daily   []DailyRecord  `json:"daily"`
}

// Current combines the upstream current_weather block with fields taken from the
// hourly entry selected as "now". Optional fields are omitted when the upstream
// did not supply them.
type Current struct {
	Time          string   `json:"time"`
	Temperature   float64  `json:"temperature"`
	WindSpeed     *float64 `json:"windspeed,omitempty"`
	WindDirection *float64 `json:"winddirection,omitempty"`
	WeatherCode   *int     `json:"weathercode,omitempty"`
	IsDay         *bool    `json:"is_day,omitempty"`
	Description   string   `json:"description"`
	Icon          string   `json:"icon"`

	FeelsLike     *float64 `json:"feels_like,omitempty"`
	Humidity      *float64 `json:"humidity,omitempty"`
	Pressure      *float64 `json:"pressure,omitempty"`
	CloudCover    *float64 `json:"cloud_cover,omitempty"`
	Precipitation *float64 `json:"precipitation,omitempty"`
	UVIndex       *float64 `json:"uv_index,omitempty"`
}

type HourlyRecord struct {
	Time                string   `json:"time"`
	Temperature         *float64 `json:"temperature,omitempty"`
	ApparentTemperature *float64 `json:"apparent_temperature,omitempty"`
	Humidity            *float64 `json:"humidity,omitempty"`
	Precipitation       *float64 `json:"precipitation,omitempty"`
	WeatherCode         *int     `json:"weathercode,omitempty"`
	Description         string   `json:"description,omitempty"`
	Icon                string   `json:"icon,omitempty"`
	Pressure            *float64 `json:"pressure,omitempty"`
	CloudCover          *float64 `json:"cloud_cover,omitempty"`
	WindSpeed           *float64 `json:"windspeed,omitempty"`
	WindDirection       *float64 `json:"winddirection,omitempty"`
	UVIndex             *float64 `json:"uv_index,omitempty"`
	IsDay               *bool    `json:"is_day,omitempty"`
}

type DailyRecord struct {
	Date                        string   `json:"date"`
	TemperatureMax              *float64 `json:"temperature_max,omitempty"`
	TemperatureMin              *float64 `json:"temperature_min,omitempty"`
	WeatherCode                 *int     `json:"weathercode,omitempty"`
	Description                 string   `json:"description,omitempty"`
	Icon                        string   `json:"icon,omitempty"`
	Sunrise                     string   `json:"sunrise,omitempty"`
	Sunset                      string   `json:"sunset,omitempty"`
	PrecipitationSum            *float64 `json:"precipitation_sum,omitempty"`
	WindSpeedMax                *float64 `json:"windspeed_max,omitempty"`
	WindGustsMax                *float64 `json:"windgusts_max,omitempty"`
	WindDirectionDominant       *float64 `json:"winddirection_dominant,omitempty"`
	UVIndexMax                  *float64 `json:"uv_index_max,omitempty"`
	PrecipitationProbabilityMax *float64 `json:"precipitation_probability_max,omitempty"`
}

type CitySuggestion struct {
	Name        string  `json:"name"`
	State       string  `json:"state"`
	Country     string  `json:"country"`
	DisplayName string  `json:"display_name"`
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lon"`
}
