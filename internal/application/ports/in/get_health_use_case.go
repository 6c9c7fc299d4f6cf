package in

import (
	"context"

	"billbridge/internal/application/dto"
	apperrors "billbridge/internal/shared_kernel/errors"
)

type GetHealthUseCase interface {
	Execute(ctx context.Context, command dto.GetHealthCommand) (dto.HealthOutput, *apperrors.AppError)
}
