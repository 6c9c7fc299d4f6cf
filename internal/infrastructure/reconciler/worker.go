package reconciler

import (
	"context"
	"strings"
	"time"

	"billbridge/internal/application/dto"
	portsin "billbridge/internal/application/ports/in"
	apperrors "billbridge/internal/shared_kernel/errors"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Enabled      bool
	PollInterval time.Duration
	Cron         string
	BatchSize    int
	WorkerID     string
}

// Worker runs the pending payment sweep on a schedule. Runs never overlap:
// a tick that fires while a sweep is still going is skipped.
type Worker struct {
	enabled      bool
	pollInterval time.Duration
	cron         string
	batchSize    int
	workerID     string
	useCase      portsin.ReconcilePaymentsUseCase
	logger       logrus.FieldLogger
}

func NewWorker(cfg Config, useCase portsin.ReconcilePaymentsUseCase, logger logrus.FieldLogger) *Worker {
	workerID := strings.TrimSpace(cfg.WorkerID)
	if workerID == "" {
		workerID = "reconciler-" + uuid.NewString()
	}

	return &Worker{
		enabled:      cfg.Enabled,
		pollInterval: cfg.PollInterval,
		cron:         strings.TrimSpace(cfg.Cron),
		batchSize:    cfg.BatchSize,
		workerID:     workerID,
		useCase:      useCase,
		logger:       logger,
	}
}

func (w *Worker) Enabled() bool {
	return w != nil && w.enabled
}

func (w *Worker) WorkerID() string {
	if w == nil {
		return ""
	}
	return w.workerID
}

// Start blocks until ctx is done. It returns an error only when the schedule
// cannot be registered.
func (w *Worker) Start(ctx context.Context) error {
	if w == nil || !w.enabled || w.useCase == nil {
		return nil
	}

	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	var job *gocron.Scheduler
	if w.cron != "" {
		job = scheduler.Cron(w.cron)
	} else {
		job = scheduler.Every(w.pollInterval)
	}
	if _, err := job.Do(w.runCycle, ctx); err != nil {
		w.entry().WithError(err).Error("bill payment reconciler schedule rejected")
		return err
	}

	w.entry().WithFields(logrus.Fields{
		"poll_interval": w.pollInterval.String(),
		"cron":          w.cron,
		"batch_size":    w.batchSize,
	}).Info("bill payment reconciler started")

	scheduler.StartAsync()
	<-ctx.Done()
	scheduler.Stop()

	w.entry().Info("bill payment reconciler stopped")
	return nil
}

// RunOnce performs a single sweep outside the schedule.
func (w *Worker) RunOnce(ctx context.Context) (dto.ReconcilePaymentsOutput, *apperrors.AppError) {
	if w == nil || w.useCase == nil {
		return dto.ReconcilePaymentsOutput{}, apperrors.NewInternal(
			"reconcile_use_case_missing",
			"reconcile payments use case is not configured",
			nil,
		)
	}

	startedAt := time.Now().UTC()
	runID := uuid.NewString()
	output, appErr := w.useCase.Execute(ctx, dto.ReconcilePaymentsCommand{
		Now:       startedAt,
		BatchSize: w.batchSize,
		RunID:     runID,
	})

	entry := w.entry().WithField("run_id", runID)
	if appErr != nil {
		entry.WithFields(logrus.Fields{
			"code":    appErr.Code,
			"details": appErr.Details,
		}).Error("bill payment reconcile cycle failed: " + appErr.Message)
		return output, appErr
	}

	entry.WithFields(logrus.Fields{
		"scanned":    output.Scanned,
		"updated":    output.Updated,
		"paid":       output.Paid,
		"expired":    output.Expired,
		"unchanged":  output.Unchanged,
		"skipped":    output.Skipped,
		"errors":     output.Errors,
		"latency_ms": time.Since(startedAt).Milliseconds(),
	}).Info("bill payment reconcile cycle completed")

	return output, nil
}

func (w *Worker) runCycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	_, _ = w.RunOnce(ctx)
}

func (w *Worker) entry() *logrus.Entry {
	logger := w.logger
	if logger == nil {
		discard := logrus.New()
		discard.SetLevel(logrus.PanicLevel)
		logger = discard
	}
	return logger.WithField("worker_id", w.workerID)
}
