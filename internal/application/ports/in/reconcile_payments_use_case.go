package in

import (
	"context"

	"billbridge/internal/application/dto"
	apperrors "billbridge/internal/shared_kernel/errors"
)

type ReconcilePaymentsUseCase interface {
	Execute(ctx context.Context, command dto.ReconcilePaymentsCommand) (dto.ReconcilePaymentsOutput, *apperrors.AppError)
}
