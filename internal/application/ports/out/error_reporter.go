package out

import (
	"context"

	apperrors "billbridge/internal/shared_kernel/errors"
)

type ErrorReporter interface {
	Report(ctx context.Context, appErr *apperrors.AppError, fields map[string]any)
}
