package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-lookup/internal/config"
	"github.com/vzahanych/weather-lookup/internal/metrics"
	"github.com/vzahanych/weather-lookup/internal/server/handlers"
	"github.com/vzahanych/weather-lookup/internal/server/middlewares"
	"github.com/vzahanych/weather-lookup/pkg/telemetry"
	"go.uber.org/zap"
)

type Server struct {
	engine  *gin.Engine
	server  *http.Server
	cfg     config.ServerConfig
	svc     handlers.WeatherService
	metrics *metrics.Metrics
	logger  *zap.Logger
	tele    *telemetry.Telemetry
}

func NewServer(cfg config.ServerConfig, logger *zap.Logger, tele *telemetry.Telemetry, m *metrics.Metrics, svc handlers.WeatherService) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middlewares.RequestIDMiddleware())
	engine.Use(middlewares.LoggingMiddleware(logger))
	engine.Use(middlewares.RecoveryMiddleware(logger))
	engine.Use(middlewares.CORSMiddleware(cfg.CORS.AllowedOrigins))
	engine.Use(middlewares.MetricsMiddleware(m))
	engine.Use(middlewares.TelemetryMiddleware(logger, tele))

	s := &Server{
		engine:  engine,
		cfg:     cfg,
		svc:     svc,
		metrics: m,
		logger:  logger,
		tele:    tele,
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, fmt.Sprint(cfg.Port)),
		Handler:      engine,
		ReadTimeout:  seconds(cfg.ReadTimeout),
		WriteTimeout: seconds(cfg.WriteTimeout),
		IdleTimeout:  seconds(cfg.IdleTimeout),
	}

	return s
}

func (s *Server) setupRoutes() {
	weather := handlers.NewWeatherHandler(s.svc, s.logger)
	health := handlers.NewHealthHandler(s.logger)

	// Business endpoints
	s.engine.GET("/weather", weather.GetWeather)
	s.engine.GET("/search-cities", weather.SearchCities)

	// Health endpoints (Kubernetes friendly)
	s.engine.GET("/health", health.Health)
	s.engine.GET("/health/live", health.Liveness)
	s.engine.GET("/health/ready", health.Readiness)

	// Monitoring endpoints
	s.engine.GET("/metrics", handlers.NewMetricsHandler(s.metrics))

	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.ErrorResponse{Error: "Not found"})
	})
}

// Handler exposes the configured router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Addr() string {
	return s.server.Addr
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listening on %s: %w", s.server.Addr, err)
	}
	return nil
}

// Shutdown drains in-flight requests, bounded by ctx and the configured shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	if timeout := seconds(s.cfg.ShutdownTimeout); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	s.logger.Info("Shutting down server")
	return s.server.Shutdown(ctx)
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
