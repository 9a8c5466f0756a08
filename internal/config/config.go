package config

import (
	"sync/atomic"
)

var configValue atomic.Value

func GetConfig() *Config {
	if cfg, ok := configValue.Load().(*Config); ok {
		return cfg
	}
	return NewDefaultConfig()
}

func SetConfig(cfg *Config) {
	configValue.Store(cfg)
}

type Config struct {
	Version     string          `mapstructure:"version"`
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Upstream    UpstreamConfig  `mapstructure:"upstream"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
	Client      ClientConfig    `mapstructure:"client"`
}

type ServerConfig struct {
	Port            int        `mapstructure:"port"`
	Host            string     `mapstructure:"host"`
	ReadTimeout     int        `mapstructure:"read_timeout"`
	WriteTimeout    int        `mapstructure:"write_timeout"`
	IdleTimeout     int        `mapstructure:"idle_timeout"`
	ShutdownTimeout int        `mapstructure:"shutdown_timeout"`
	CORS            CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// UpstreamConfig describes the Open-Meteo endpoints and the fields requested from them.
// Hourly and Daily are comma separated variable lists passed through verbatim.
type UpstreamConfig struct {
	GeocodingURL string `mapstructure:"geocoding_url"`
	ForecastURL  string `mapstructure:"forecast_url"`
	Timeout      int    `mapstructure:"timeout"`
	Language     string `mapstructure:"language"`
	GeocodeCount int    `mapstructure:"geocode_count"`
	ForecastDays int    `mapstructure:"forecast_days"`
	Hourly       string `mapstructure:"hourly"`
	Daily        string `mapstructure:"daily"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

type ClientConfig struct {
	ServerURL       string `mapstructure:"server_url"`
	HistoryPath     string `mapstructure:"history_path"`
	LogPath         string `mapstructure:"log_path"`
	Units           string `mapstructure:"units"`
	DebounceMS      int    `mapstructure:"debounce_ms"`
	SuggestionLimit int    `mapstructure:"suggestion_limit"`
	MinQueryChars   int    `mapstructure:"min_query_chars"`
	RecentLimit     int    `mapstructure:"recent_limit"`
}

const (
	DefaultHourly = "temperature_2m,relativehumidity_2m,apparent_temperature,precipitation,weathercode,pressure_msl,cloudcover,windspeed_10m,winddirection_10m,uv_index,is_day"
	DefaultDaily  = "temperature_2m_max,temperature_2m_min,weathercode,sunrise,sunset,precipitation_sum,windspeed_10m_max,windgusts_10m_max,winddirection_10m_dominant,uv_index_max,precipitation_probability_max"
)

func NewDefaultConfig() *Config {
	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		Server: ServerConfig{
			Port:            3000,
			Host:            "0.0.0.0",
			ReadTimeout:     30,
			WriteTimeout:    30,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
			CORS: CORSConfig{
				AllowedOrigins: []string{"*"},
			},
		},
		Upstream: UpstreamConfig{
			GeocodingURL: "https://geocoding-api.open-meteo.com/v1",
			ForecastURL:  "https://api.open-meteo.com/v1",
			Timeout:      10,
			Language:     "en",
			GeocodeCount: 10,
			ForecastDays: 10,
			Hourly:       DefaultHourly,
			Daily:        DefaultDaily,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "",
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			Endpoint:    "tempo:4317",
			ServiceName: "weather-lookup",
		},
		Client: ClientConfig{
			ServerURL:       "http://localhost:3000",
			HistoryPath:     "weather-client.db",
			LogPath:         "weather-client.log",
			Units:           "C",
			DebounceMS:      300,
			SuggestionLimit: 5,
			MinQueryChars:   2,
			RecentLimit:     5,
		},
	}
}
