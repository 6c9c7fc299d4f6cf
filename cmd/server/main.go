package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"billbridge/internal/infrastructure/config"
	"billbridge/internal/infrastructure/di"
	"billbridge/internal/infrastructure/telemetry"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var version = "dev"

func main() {
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

	logger.WithFields(logrus.Fields{
		"db_type":         cfg.DBType,
		"database_target": cfg.DatabaseTarget,
	}).Info("persistence initialization starting")
	if appErr := container.InitializePersistenceUseCase.Execute(ctx, di.PersistenceCommand(cfg)); appErr != nil {
		logger.WithFields(logrus.Fields{
			"code":    appErr.Code,
			"details": appErr.Details,
		}).Error("persistence initialization failed: " + appErr.Message)
		os.Exit(1)
	}
	logger.WithField("database_target", cfg.DatabaseTarget).Info("persistence initialization completed")

	group, groupCtx := errgroup.WithContext(ctx)
	if container.ReconcilerWorker.Enabled() {
		group.Go(func() error {
			return container.ReconcilerWorker.Start(groupCtx)
		})
	}
	group.Go(container.Server.Start)
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return container.Server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.WithError(err).Error("server stopped with error")
		os.Exit(1)
	}
	logger.Info("server stopped")
}
