package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"billbridge/internal/application/dto"
	"billbridge/internal/infrastructure/config"
	"billbridge/internal/infrastructure/di"
	"billbridge/internal/infrastructure/telemetry"

	"github.com/sirupsen/logrus"
)

var version = "dev"

func main() {
	once := flag.Bool("once", false, "run a single sweep and exit")
	flag.Parse()

	cfg, cfgErr := config.LoadConfig()
	if cfgErr != nil {
		logrus.WithFields(logrus.Fields{
			"code":     cfgErr.Code,
			"metadata": cfgErr.Metadata,
		}).Fatal("startup config error: " + cfgErr.Message)
	}

	logger, err := telemetry.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.WithError(err).Fatal("invalid logger configuration")
	}
	if !cfg.ReconcilerEnabled && !*once {
		logger.WithField("code", "CONFIG_RECONCILER_DISABLED").Fatal("RECONCILER_ENABLED must be true for reconciler runtime")
	}

	hub, flush, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		Release:     version,
	})
	if err != nil {
		logger.WithError(err).Fatal("sentry initialization failed")
	}
	defer flush()

	container, err := di.Build(cfg, logger, hub)
	if err != nil {
		logger.WithError(err).Fatal("dependency wiring error")
	}
	defer func() {
		if err := container.Close(); err != nil {
			logger.WithError(err).Warn("store close warning")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if appErr := container.InitializePersistenceUseCase.Execute(ctx, readinessOnly(cfg)); appErr != nil {
		logger.WithFields(logrus.Fields{
			"code":    appErr.Code,
			"details": appErr.Details,
		}).Error("reconciler persistence initialization failed: " + appErr.Message)
		os.Exit(1)
	}

	if *once {
		if _, appErr := container.ReconcilerWorker.RunOnce(ctx); appErr != nil {
			os.Exit(1)
		}
		return
	}

	if err := container.ReconcilerWorker.Start(ctx); err != nil {
		logger.WithError(err).Error("reconciler stopped with error")
		os.Exit(1)
	}
	logger.Info("reconciler stopped")
}

// readinessOnly leaves migrations to cmd/server and billctl migrate.
func readinessOnly(cfg config.Config) dto.InitializePersistenceCommand {
	command := di.PersistenceCommand(cfg)
	command.SkipMigrations = true
	return command
}
