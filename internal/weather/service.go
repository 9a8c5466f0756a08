package weather

import (
	"context"
	"time"

	"github.com/vzahanych/weather-lookup/internal/config"
	"github.com/vzahanych/weather-lookup/internal/service"
	"github.com/vzahanych/weather-lookup/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Service resolves locations and assembles weather reports. It holds no per-request
// state and is safe for concurrent use.
type Service struct {
	geocoder     service.Geocoder
	forecaster   service.ForecastProvider
	geocodeCount int
	days         int
	hourly       string
	daily        string
	logger       *zap.Logger
	tele         *telemetry.Telemetry
	now          func() time.Time
}

type Option func(*Service)

// WithClock replaces the wall clock used to pick the current hour.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(geocoder service.Geocoder, forecaster service.ForecastProvider, cfg config.UpstreamConfig, logger *zap.Logger, tele *telemetry.Telemetry, opts ...Option) *Service {
	s := &Service{
		geocoder:     geocoder,
		forecaster:   forecaster,
		geocodeCount: cfg.GeocodeCount,
		days:         cfg.ForecastDays,
		hourly:       cfg.Hourly,
		daily:        cfg.Daily,
		logger:       logger,
		tele:         tele,
		now:          time.Now,
	}
	if s.geocodeCount <= 0 {
		s.geocodeCount = 10
	}
	if s.days <= 0 {
		s.days = 10
	}
	if s.hourly == "" {
		s.hourly = config.DefaultHourly
	}
	if s.daily == "" {
		s.daily = config.DefaultDaily
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WeatherForCity resolves city and builds a report from a single forecast call.
func (s *Service) WeatherForCity(ctx context.Context, city string) (*Report, error) {
	ctx, span := s.tele.GetTracer().Start(ctx, "weather.WeatherForCity")
	defer span.End()

	loc, err := s.Resolve(ctx, city)
	if err != nil {
		return nil, err
	}
	return s.report(ctx, loc)
}

// WeatherAt builds a report for a raw coordinate pair.
func (s *Service) WeatherAt(ctx context.Context, lat, lon float64) (*Report, error) {
	ctx, span := s.tele.GetTracer().Start(ctx, "weather.WeatherAt")
	defer span.End()

	loc, err := ResolveCoordinates(lat, lon)
	if err != nil {
		return nil, err
	}
	return s.report(ctx, loc)
}

func (s *Service) report(ctx context.Context, loc ResolvedLocation) (*Report, error) {
	snap, err := s.Fetch(ctx, loc)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Weather report assembled",
		zap.String("query", loc.Query),
		zap.String("resolved_name", loc.ResolvedName),
		zap.Int("hourly", len(snap.Hourly)),
		zap.Int("daily", len(snap.Daily)))

	return &Report{
		Location: loc,
		Snapshot: snap,
		Source:   Source,
	}, nil
}

// Fetch issues the forecast request for loc and reshapes the answer.
func (s *Service) Fetch(ctx context.Context, loc ResolvedLocation) (Snapshot, error) {
	ctx, span := s.tele.GetTracer().Start(ctx, "weather.Fetch")
	defer span.End()

	span.SetAttributes(
		attribute.Float64("lat", loc.Latitude),
		attribute.Float64("lon", loc.Longitude),
		attribute.String("timezone", loc.Timezone),
	)

	resp, err := s.forecaster.Forecast(ctx, service.ForecastRequest{
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Timezone:  loc.Timezone,
		Days:      s.days,
		Hourly:    s.hourly,
		Daily:     s.daily,
	})
	if err != nil {
		return Snapshot{}, upstreamUnavailable("Failed to fetch weather data", err)
	}

	snap, err := Reshape(resp, s.now())
	if err != nil {
		s.tele.RecordError(ctx, err)
		return Snapshot{}, upstreamUnavailable("Failed to fetch weather data", err)
	}
	return snap, nil
}
