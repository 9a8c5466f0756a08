package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vzahanych/weather-lookup/internal/config"
	"github.com/vzahanych/weather-lookup/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	APIGeocoding = "geocoding"
	APIForecast  = "forecast"

	maxErrorBody = 4 << 10
)

// ErrMissingData is returned when the forecast payload carries none of the requested blocks.
var ErrMissingData = errors.New("missing weather data")

// StatusError reports a non-success answer from an Open-Meteo API. Reason is taken from
// the {"error":true,"reason":...} body when one is present.
type StatusError struct {
	API    string
	Status int
	Reason string
}

func (e *StatusError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s API returned status %d", e.API, e.Status)
	}
	return fmt.Sprintf("%s API returned status %d: %s", e.API, e.Status, e.Reason)
}

type OpenMeteoService struct {
	geocodingURL string
	forecastURL  string
	language     string
	client       *http.Client
	logger       *zap.Logger
	tele         *telemetry.Telemetry
	recorder     CallRecorder
}

func NewOpenMeteoServiceWithConfig(cfg config.UpstreamConfig, logger *zap.Logger, tele *telemetry.Telemetry, recorder CallRecorder) *OpenMeteoService {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	language := cfg.Language
	if language == "" {
		language = "en"
	}

	return &OpenMeteoService{
		geocodingURL: strings.TrimRight(cfg.GeocodingURL, "/"),
		forecastURL:  strings.TrimRight(cfg.ForecastURL, "/"),
		language:     language,
		client: &http.Client{
			Timeout: timeout,
		},
		logger:   logger,
		tele:     tele,
		recorder: recorder,
	}
}

func (s *OpenMeteoService) Name() string {
	return "open-meteo"
}

// Search queries the geocoding API. Results come back in the API's relevance order and
// an empty slice means nothing matched.
func (s *OpenMeteoService) Search(ctx context.Context, name string, count int) ([]Place, error) {
	ctx, span := s.tele.GetTracer().Start(ctx, "open-meteo.Search")
	defer span.End()

	span.SetAttributes(
		attribute.String("query", name),
		attribute.Int("count", count),
	)

	q := url.Values{}
	q.Set("name", name)
	q.Set("count", strconv.Itoa(count))
	q.Set("language", s.language)
	q.Set("format", "json")

	var resp GeocodeResponse
	if err := s.getJSON(ctx, APIGeocoding, s.geocodingURL+"/search?"+q.Encode(), &resp); err != nil {
		s.tele.RecordError(ctx, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("results", len(resp.Results)))

	if resp.Results == nil {
		return []Place{}, nil
	}
	return resp.Results, nil
}

func (s *OpenMeteoService) Forecast(ctx context.Context, req ForecastRequest) (*ForecastResponse, error) {
	ctx, span := s.tele.GetTracer().Start(ctx, "open-meteo.Forecast")
	defer span.End()

	timezone := req.Timezone
	if timezone == "" {
		timezone = "auto"
	}

	span.SetAttributes(
		attribute.Float64("lat", req.Latitude),
		attribute.Float64("lon", req.Longitude),
		attribute.String("timezone", timezone),
		attribute.Int("days", req.Days),
	)

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(req.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(req.Longitude, 'f', -1, 64))
	q.Set("timezone", timezone)
	q.Set("current_weather", "true")
	if req.Hourly != "" {
		q.Set("hourly", req.Hourly)
	}
	if req.Daily != "" {
		q.Set("daily", req.Daily)
	}
	if req.Days > 0 {
		q.Set("forecast_days", strconv.Itoa(req.Days))
	}

	var resp ForecastResponse
	if err := s.getJSON(ctx, APIForecast, s.forecastURL+"/forecast?"+q.Encode(), &resp); err != nil {
		s.tele.RecordError(ctx, err)
		return nil, err
	}

	if resp.Error {
		err := &StatusError{API: APIForecast, Status: http.StatusOK, Reason: resp.Reason}
		s.tele.RecordError(ctx, err)
		return nil, err
	}

	if resp.CurrentWeather == nil && resp.Hourly == nil && resp.Daily == nil {
		s.tele.RecordError(ctx, ErrMissingData)
		return nil, ErrMissingData
	}

	return &resp, nil
}

func (s *OpenMeteoService) getJSON(ctx context.Context, api, u string, out any) (err error) {
	start := time.Now()
	defer func() {
		if s.recorder != nil {
			s.recorder.RecordUpstreamCall(api, err, time.Since(start))
		}
		if err != nil {
			s.logger.Warn("Upstream call failed",
				zap.String("provider", s.Name()),
				zap.String("api", api),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err))
			return
		}
		s.logger.Debug("Upstream call completed",
			zap.String("provider", s.Name()),
			zap.String("api", api),
			zap.Duration("elapsed", time.Since(start)))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating %s request: %w", api, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing %s request: %w", api, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(api, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", api, err)
	}

	return nil
}

func statusError(api string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload struct {
		Reason string `json:"reason"`
	}
	reason := ""
	if json.Unmarshal(body, &payload) == nil {
		reason = payload.Reason
	}

	return &StatusError{API: api, Status: resp.StatusCode, Reason: reason}
}
