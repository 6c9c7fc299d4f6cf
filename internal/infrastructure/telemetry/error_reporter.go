package telemetry

import (
	"context"

	portsout "billbridge/internal/application/ports/out"
	apperrors "billbridge/internal/shared_kernel/errors"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

// ErrorReporter logs application errors at the level their severity calls for
// and forwards critical ones to Sentry when a hub is configured.
type ErrorReporter struct {
	logger logrus.FieldLogger
	hub    *sentry.Hub
}

var _ portsout.ErrorReporter = (*ErrorReporter)(nil)

func NewErrorReporter(logger logrus.FieldLogger, hub *sentry.Hub) *ErrorReporter {
	return &ErrorReporter{logger: logger, hub: hub}
}

func (r *ErrorReporter) Report(_ context.Context, appErr *apperrors.AppError, fields map[string]any) {
	if r == nil || appErr == nil {
		return
	}

	entry := r.logger.WithFields(logrus.Fields{
		"error_code": appErr.Code,
		"error_type": appErr.Type,
		"severity":   appErr.Severity,
	})
	for key, value := range appErr.Details {
		entry = entry.WithField("detail_"+key, value)
	}
	if len(fields) > 0 {
		entry = entry.WithFields(logrus.Fields(fields))
	}

	switch appErr.Severity {
	case apperrors.SeverityInfo:
		entry.Info(appErr.Message)
	case apperrors.SeverityWarn:
		entry.Warn(appErr.Message)
	default:
		entry.Error(appErr.Message)
		r.capture(appErr, fields)
	}
}

func (r *ErrorReporter) capture(appErr *apperrors.AppError, fields map[string]any) {
	if r.hub == nil {
		return
	}

	r.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("error_code", appErr.Code)
		scope.SetTag("error_type", string(appErr.Type))
		scope.SetContext("details", sentry.Context(appErr.Details))
		if len(fields) > 0 {
			scope.SetContext("fields", sentry.Context(fields))
		}
		r.hub.CaptureException(appErr)
	})
}
