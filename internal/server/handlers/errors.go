package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-lookup/internal/server/utils"
	"github.com/vzahanych/weather-lookup/internal/weather"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// StatusFor maps a weather error kind to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, weather.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, weather.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, logger *zap.Logger, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.Int("status", status), zap.Error(err))
		utils.GetSpanFromGinContext(c).RecordError(err, trace.WithAttributes(attribute.Int("http.status_code", status)))
	} else {
		logger.Info("Request rejected", zap.Int("status", status), zap.Error(err))
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: weather.Message(err)})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}
