package main

import (
	"fmt"
	"os"

	"billbridge/internal/infrastructure/config"
	"billbridge/internal/infrastructure/di"
	"billbridge/internal/infrastructure/telemetry"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd(loadContainer).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// containerLoader builds the wired application. The returned func releases it.
type containerLoader func() (*di.Container, config.Config, func(), error)

func newRootCmd(load containerLoader) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "billctl",
		Short:         "Operate the bill payment store and reconciler",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(paymentCmd(load))
	rootCmd.AddCommand(sweepCmd(load))
	rootCmd.AddCommand(issuerCmd(load))
	rootCmd.AddCommand(migrateCmd(load))

	return rootCmd
}

func loadContainer() (*di.Container, config.Config, func(), error) {
	cfg, cfgErr := config.LoadConfig()
	if cfgErr != nil {
		return nil, config.Config{}, nil, fmt.Errorf("config error %s: %s", cfgErr.Code, cfgErr.Message)
	}

	logger, err := telemetry.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	logger.SetOutput(os.Stderr)

	hub, flush, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		Release:     Version,
	})
	if err != nil {
		return nil, config.Config{}, nil, err
	}

	container, err := di.Build(cfg, logger, hub)
	if err != nil {
		flush()
		return nil, config.Config{}, nil, err
	}

	release := func() {
		if err := container.Close(); err != nil {
			logger.WithError(err).Warn("store close warning")
		}
		flush()
	}
	return container, cfg, release, nil
}
