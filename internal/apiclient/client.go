package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vzahanych/weather-lookup/internal/server/middlewares"
	"github.com/vzahanych/weather-lookup/internal/weather"
	"go.uber.org/zap"
)

const maxErrorBody = 4 << 10

// APIError is a non-200 answer from the weather backend. Message is the backend's
// "error" string and is meant to be shown to the user as is.
type APIError struct {
	Status    int
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client talks to the weather lookup backend.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Weather fetches the full report for a free-text city query.
func (c *Client) Weather(ctx context.Context, city string) (*weather.Report, error) {
	q := url.Values{}
	q.Set("city", city)

	var report weather.Report
	if err := c.get(ctx, "/weather", q, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) WeatherAt(ctx context.Context, lat, lon float64) (*weather.Report, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	var report weather.Report
	if err := c.get(ctx, "/weather", q, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) SearchCities(ctx context.Context, query string, limit int) ([]weather.CitySuggestion, error) {
	q := url.Values{}
	q.Set("q", query)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var resp struct {
		Suggestions []weather.CitySuggestion `json:"suggestions"`
	}
	if err := c.get(ctx, "/search-cities", q, &resp); err != nil {
		return nil, err
	}
	if resp.Suggestions == nil {
		return []weather.CitySuggestion{}, nil
	}
	return resp.Suggestions, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling weather service: %w", err)
	}
	defer resp.Body.Close()

	requestID := resp.Header.Get(middlewares.RequestIDHeader)
	c.logger.Debug("Backend call completed",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp, requestID)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

func decodeError(resp *http.Response, requestID string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload struct {
		Error string `json:"error"`
	}
	msg := fmt.Sprintf("weather service returned status %d", resp.StatusCode)
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		msg = payload.Error
	}

	return &APIError{Status: resp.StatusCode, Message: msg, RequestID: requestID}
}
