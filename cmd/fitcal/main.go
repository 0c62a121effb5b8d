// Command fitcal is a command line front end for the fitness provider kit:
// it drives the authorization flow, prints workout calendar dates, and
// manages the local caches that the mobile calendar would otherwise own.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	internalhttp "github.com/cecil-the-coder/fitness-provider-kit/internal/http"
	"github.com/cecil-the-coder/fitness-provider-kit/pkg/auth"
	"github.com/cecil-the-coder/fitness-provider-kit/pkg/config"
	"github.com/cecil-the-coder/fitness-provider-kit/pkg/hevy"
	"github.com/cecil-the-coder/fitness-provider-kit/pkg/metrics"
	"github.com/cecil-the-coder/fitness-provider-kit/pkg/storage"
	"github.com/cecil-the-coder/fitness-provider-kit/pkg/strava"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app bundles the wired-up clients the subcommands work with.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	tokens *auth.Manager
	strava *strava.Client
	hevy   *hevy.Client
}

func newRootCmd() *cobra.Command {
	var configPath string
	var application *app

	root := &cobra.Command{
		Use:           "fitcal",
		Short:         "Workout calendar data from running and gym-logging providers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath)
			if err != nil {
				return err
			}
			application = a
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")

	root.AddCommand(
		newAuthCmd(&application),
		newDatesCmd(&application),
		newUsageCmd(&application),
		newRefreshCmd(&application),
		newLogoutCmd(&application),
	)
	return root
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	kv, err := storage.NewFileKV(cfg.Storage.Dir)
	if err != nil {
		return nil, err
	}

	httpClient := internalhttp.NewClient(internalhttp.Config{})
	collector := metrics.NewCollector(prometheus.NewRegistry())

	tokens := auth.NewManager(kv, httpClient, auth.ManagerConfig{
		ClientID:     cfg.Strava.ClientID,
		ClientSecret: cfg.Strava.ClientSecret,
		Logger:       logger,
		Metrics:      collector,
	})

	return &app{
		cfg:    cfg,
		logger: logger,
		tokens: tokens,
		strava: strava.NewClient(kv, tokens, httpClient, strava.Config{
			Logger:  logger,
			Metrics: collector,
		}),
		hevy: hevy.NewClient(kv, httpClient, hevy.Config{
			APIKey:  cfg.Hevy.APIKey,
			Logger:  logger,
			Metrics: collector,
		}),
	}, nil
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
