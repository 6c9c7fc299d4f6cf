package in

import (
	"context"

	"billbridge/internal/application/dto"
	apperrors "billbridge/internal/shared_kernel/errors"
)

type GetPaymentUseCase interface {
	Execute(ctx context.Context, query dto.GetPaymentQuery) (dto.BillPaymentResource, *apperrors.AppError)
}
