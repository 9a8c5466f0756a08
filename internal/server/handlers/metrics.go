package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-lookup/internal/metrics"
)

// NewMetricsHandler exposes the registry of m in Prometheus text format.
func NewMetricsHandler(m *metrics.Metrics) gin.HandlerFunc {
	return gin.WrapH(m.Handler())
}
