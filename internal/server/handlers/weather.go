package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-lookup/internal/server/utils"
	"github.com/vzahanych/weather-lookup/internal/weather"
	"go.uber.org/zap"
)

// WeatherService is the part of weather.Service the HTTP layer depends on.
type WeatherService interface {
	WeatherForCity(ctx context.Context, city string) (*weather.Report, error)
	WeatherAt(ctx context.Context, lat, lon float64) (*weather.Report, error)
	SearchCities(ctx context.Context, query string, limit int) ([]weather.CitySuggestion, error)
}

type WeatherHandler struct {
	svc    WeatherService
	logger *zap.Logger
}

func NewWeatherHandler(svc WeatherService, logger *zap.Logger) *WeatherHandler {
	return &WeatherHandler{
		svc:    svc,
		logger: logger,
	}
}

// GetWeather serves /weather?city=... and /weather?lat=...&lon=...
func (h *WeatherHandler) GetWeather(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := utils.RequestLogger(c, h.logger)

	var (
		report *weather.Report
		err    error
	)

	// A non-empty city takes precedence and lat/lon are ignored.
	if city := strings.TrimSpace(c.Query("city")); city != "" {
		reqLogger.Info("Processing weather request", zap.String("city", city))
		report, err = h.svc.WeatherForCity(ctx, city)
	} else {
		var p CoordinateParams
		if bindErr := c.ShouldBindQuery(&p); bindErr != nil {
			reqLogger.Warn("Invalid request parameters", zap.Error(bindErr))
			badRequest(c, "lat and lon must be numbers")
			return
		}

		switch {
		case p.Lat != nil && p.Lon != nil:
			coords := CoordinateQuery{Lat: *p.Lat, Lon: *p.Lon}
			if errs := utils.ValidateStruct(coords); len(errs) > 0 {
				reqLogger.Warn("Invalid coordinates", zap.Any("errors", errs))
				badRequest(c, errs[0].Message)
				return
			}
			reqLogger.Info("Processing weather request",
				zap.Float64("lat", coords.Lat),
				zap.Float64("lon", coords.Lon))
			report, err = h.svc.WeatherAt(ctx, coords.Lat, coords.Lon)

		case p.Lat != nil || p.Lon != nil:
			badRequest(c, "Please provide both lat and lon")
			return

		default:
			badRequest(c, "Please provide ?city=CityName")
			return
		}
	}

	if err != nil {
		abortWithError(c, reqLogger, err)
		return
	}

	reqLogger.Info("Weather request completed",
		zap.String("resolved_name", report.Location.ResolvedName),
		zap.Int("hourly", len(report.Hourly)),
		zap.Int("daily", len(report.Daily)))

	c.JSON(http.StatusOK, report)
}
