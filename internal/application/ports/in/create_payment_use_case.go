package in

import (
	"context"

	"billbridge/internal/application/dto"
	apperrors "billbridge/internal/shared_kernel/errors"
)

type CreatePaymentUseCase interface {
	Execute(ctx context.Context, command dto.CreatePaymentCommand) (dto.BillPaymentResource, *apperrors.AppError)
}
