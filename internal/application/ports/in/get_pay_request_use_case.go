package in

import (
	"context"

	"billbridge/internal/application/dto"
	apperrors "billbridge/internal/shared_kernel/errors"
)

type GetPayRequestUseCase interface {
	Execute(ctx context.Context, query dto.GetPayRequestQuery) (dto.PayRequestOutput, *apperrors.AppError)
}
