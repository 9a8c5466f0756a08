package weather

import (
	"context"
	"strconv"
	"strings"

	"github.com/vzahanych/weather-lookup/internal/service"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const autoTimezone = "auto"

// Resolve turns a free-text city query into exactly one location. The full query is
// geocoded first; when that yields nothing and the query has a comma, the part before
// the first comma is tried. The first upstream result wins.
func (s *Service) Resolve(ctx context.Context, query string) (ResolvedLocation, error) {
	ctx, span := s.tele.GetTracer().Start(ctx, "weather.Resolve")
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		return ResolvedLocation{}, invalidRequest("Please provide ?city=CityName")
	}
	span.SetAttributes(attribute.String("query", query))

	places, err := s.geocoder.Search(ctx, query, s.geocodeCount)
	if err != nil {
		return ResolvedLocation{}, upstreamUnavailable("Failed to resolve city", err)
	}

	if len(places) == 0 {
		if head, _, ok := strings.Cut(query, ","); ok {
			head = strings.TrimSpace(head)
			if head != "" {
				s.logger.Debug("Retrying geocode with city part only",
					zap.String("query", query),
					zap.String("retry", head))

				places, err = s.geocoder.Search(ctx, head, s.geocodeCount)
				if err != nil {
					return ResolvedLocation{}, upstreamUnavailable("Failed to resolve city", err)
				}
			}
		}
	}

	if len(places) == 0 {
		s.tele.RecordError(ctx, ErrNotFound, attribute.String("query", query))
		return ResolvedLocation{}, notFound(query)
	}

	loc := locationFromPlace(query, places[0])
	span.SetAttributes(
		attribute.String("resolved_name", loc.ResolvedName),
		attribute.Float64("lat", loc.Latitude),
		attribute.Float64("lon", loc.Longitude),
	)
	return loc, nil
}

// ResolveCoordinates builds a location for a raw coordinate pair without geocoding.
func ResolveCoordinates(lat, lon float64) (ResolvedLocation, error) {
	if lat < -90 || lat > 90 {
		return ResolvedLocation{}, invalidRequest("Latitude must be between -90 and 90")
	}
	if lon < -180 || lon > 180 {
		return ResolvedLocation{}, invalidRequest("Longitude must be between -180 and 180")
	}

	name := FormatCoordinates(lat, lon)
	return ResolvedLocation{
		Query:        name,
		ResolvedName: name,
		Latitude:     lat,
		Longitude:    lon,
		Timezone:     autoTimezone,
	}, nil
}

// FormatCoordinates renders a pair as "51.5074, -0.1278".
func FormatCoordinates(lat, lon float64) string {
	return strconv.FormatFloat(lat, 'f', 4, 64) + ", " + strconv.FormatFloat(lon, 'f', 4, 64)
}

func locationFromPlace(query string, p service.Place) ResolvedLocation {
	tz := p.Timezone
	if tz == "" {
		tz = autoTimezone
	}
	return ResolvedLocation{
		Query:        query,
		ResolvedName: p.Name,
		Country:      p.Country,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		Timezone:     tz,
	}
}
