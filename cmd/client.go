package cmd

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/vzahanych/weather-lookup/internal/apiclient"
	"github.com/vzahanych/weather-lookup/internal/config"
	"github.com/vzahanych/weather-lookup/internal/history"
	"github.com/vzahanych/weather-lookup/internal/suggest"
	"github.com/vzahanych/weather-lookup/internal/tui"
	"github.com/vzahanych/weather-lookup/internal/view"
	"github.com/vzahanych/weather-lookup/pkg/logger"
	"go.uber.org/zap"
)

type clientFlags struct {
	serverURL string
	units     string
	lat       float64
	lon       float64
}

func clientCmd() *cobra.Command {
	var flags clientFlags

	cmd := &cobra.Command{
		Use:   "client",
		Short: "Interactive terminal client for the weather lookup server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClient(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.serverURL, "server", "", "weather server base URL (default from client.server_url)")
	cmd.Flags().StringVar(&flags.units, "units", "", "temperature units, C or F (default from client.units)")
	cmd.Flags().Float64Var(&flags.lat, "lat", 0, "latitude to look up on start")
	cmd.Flags().Float64Var(&flags.lon, "lon", 0, "longitude to look up on start")

	return cmd
}

func runClient(cmd *cobra.Command, flags clientFlags) error {
	cfg := config.GetConfig()
	cc := cfg.Client

	if flags.serverURL != "" {
		cc.ServerURL = flags.serverURL
	}
	if flags.units != "" {
		cc.Units = flags.units
	}

	// The terminal belongs to the UI, so logs only ever go to a file.
	logCfg := cfg.Logging
	logCfg.OutputPath = cc.LogPath
	var log *logger.Logger
	if cc.LogPath == "" {
		log = logger.NewNop()
	} else {
		var err error
		if log, err = logger.New(logCfg); err != nil {
			return err
		}
	}
	defer syncLogger(log.Logger)

	ctx := cmd.Context()

	var store history.Storage = history.NewMemoryStore()
	if cc.HistoryPath != "" {
		sqlStore, err := history.OpenSQLite(ctx, cc.HistoryPath)
		if err != nil {
			log.Warn("Search history unavailable, keeping it in memory",
				zap.String("path", cc.HistoryPath), zap.Error(err))
		} else {
			defer sqlStore.Close()
			store = sqlStore
		}
	}

	recent, err := history.Open(ctx, store, cc.RecentLimit)
	if err != nil {
		return err
	}

	client := apiclient.New(cc.ServerURL, time.Duration(cfg.Upstream.Timeout*2)*time.Second, log.Logger)

	suggester := suggest.New(client, suggest.Options{
		Delay:    time.Duration(cc.DebounceMS) * time.Millisecond,
		MinChars: cc.MinQueryChars,
		Limit:    cc.SuggestionLimit,
	}, log.Logger)
	defer suggester.Close()

	opts := tui.Options{
		Client:    client,
		Suggester: suggester,
		Recent:    recent,
		Unit:      view.ParseUnit(cc.Units),
		Logger:    log.Logger,
	}
	if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
		if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lon") {
			return fmt.Errorf("--lat and --lon must be given together")
		}
		opts.Start = &tui.Coordinates{Lat: flags.lat, Lon: flags.lon}
	}

	log.Info("Starting weather client",
		zap.String("server_url", cc.ServerURL),
		zap.String("history_path", cc.HistoryPath),
		zap.Strings("recent", recent.Items()))

	p := tea.NewProgram(tui.NewModel(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !isContextDone(ctx) {
		return fmt.Errorf("running client: %w", err)
	}
	return nil
}

func isContextDone(ctx context.Context) bool {
	return ctx.Err() != nil
}
