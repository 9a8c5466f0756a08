package weather

import (
	"context"
	"strings"

	"github.com/vzahanych/weather-lookup/internal/service"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultSuggestionLimit applies when the caller passes a limit outside 1..MaxSuggestionLimit.
const (
	DefaultSuggestionLimit = 5
	MaxSuggestionLimit     = 100
)

// SearchCities returns autocomplete suggestions in upstream order. An empty query
// returns an empty list without calling upstream.
func (s *Service) SearchCities(ctx context.Context, query string, limit int) ([]CitySuggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []CitySuggestion{}, nil
	}
	if limit < 1 || limit > MaxSuggestionLimit {
		limit = DefaultSuggestionLimit
	}

	ctx, span := s.tele.GetTracer().Start(ctx, "weather.SearchCities")
	defer span.End()
	span.SetAttributes(attribute.String("query", query), attribute.Int("limit", limit))

	places, err := s.geocoder.Search(ctx, query, limit)
	if err != nil {
		return nil, upstreamUnavailable("Failed to search cities", err)
	}

	out := make([]CitySuggestion, 0, len(places))
	for _, p := range places {
		out = append(out, suggestionFromPlace(p))
	}
	return out, nil
}

func suggestionFromPlace(p service.Place) CitySuggestion {
	return CitySuggestion{
		Name:        p.Name,
		State:       p.Admin1,
		Country:     p.Country,
		DisplayName: DisplayName(p.Name, p.Admin1, p.Country),
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
	}
}

// DisplayName joins the non-empty parts as "Name, State, Country".
func DisplayName(name, state, country string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{name, state, country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
