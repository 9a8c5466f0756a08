package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weather-lookup/internal/config"
	"github.com/vzahanych/weather-lookup/internal/metrics"
	"github.com/vzahanych/weather-lookup/internal/server"
	"github.com/vzahanych/weather-lookup/internal/service"
	"github.com/vzahanych/weather-lookup/internal/weather"
	"github.com/vzahanych/weather-lookup/pkg/logger"
	"github.com/vzahanych/weather-lookup/pkg/telemetry"
	"go.uber.org/zap"
)

func serverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start the weather lookup HTTP server",
		Long:  `Start the HTTP server exposing /weather, /search-cities, /health and /metrics.`,
		RunE:  runServer,
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer syncLogger(log.Logger)

	tele, err := telemetry.New(cmd.Context(), cfg.Telemetry, cfg.Version, cfg.Environment)
	if err != nil {
		log.Warn("Failed to initialize telemetry, continuing without tracing", zap.Error(err))
		tele = telemetry.Disabled()
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tele.Shutdown(ctx); err != nil {
			log.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	log.Info("Starting weather lookup server",
		zap.String("config_path", configPath),
		zap.String("version", cfg.Version),
		zap.String("environment", cfg.Environment),
		zap.Bool("telemetry_enabled", cfg.Telemetry.Enabled),
		zap.Int("server_port", cfg.Server.Port))

	m := metrics.New()
	upstream := service.NewOpenMeteoServiceWithConfig(cfg.Upstream, log.Logger, tele, m)
	svc := weather.NewService(upstream, upstream, cfg.Upstream, log.Logger, tele)
	srv := server.NewServer(cfg.Server, log.Logger, tele, m, svc)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			log.Error("Server error", zap.Error(err))
		}
		return err
	case <-cmd.Context().Done():
		log.Info("Received shutdown signal")

		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during server shutdown", zap.Error(err))
			return err
		}

		log.Info("Server shutdown complete")
		return nil
	}
}
