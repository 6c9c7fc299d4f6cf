package in

import (
	"context"

	"billbridge/internal/application/dto"
	apperrors "billbridge/internal/shared_kernel/errors"
)

type ResolveSettingsUseCase interface {
	Execute(ctx context.Context, query dto.ResolveSettingsQuery) (dto.BillIssuerResource, *apperrors.AppError)
}
