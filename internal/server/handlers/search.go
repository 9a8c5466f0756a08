package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-lookup/internal/server/utils"
	"github.com/vzahanych/weather-lookup/internal/weather"
	"go.uber.org/zap"
)

// SearchCities serves /search-cities?q=...&limit=...
func (h *WeatherHandler) SearchCities(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := utils.RequestLogger(c, h.logger)

	q := c.Query("q")

	suggestions, err := h.svc.SearchCities(ctx, q, parseLimit(c.Query("limit")))
	if err != nil {
		abortWithError(c, reqLogger, err)
		return
	}

	reqLogger.Debug("City search completed",
		zap.String("q", q),
		zap.Int("results", len(suggestions)))

	if suggestions == nil {
		suggestions = []weather.CitySuggestion{}
	}
	c.JSON(http.StatusOK, SearchResponse{Suggestions: suggestions})
}

func parseLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > weather.MaxSuggestionLimit {
		return weather.DefaultSuggestionLimit
	}
	return n
}
