package out

import (
	"context"

	"billbridge/internal/domain/entities"
	apperrors "billbridge/internal/shared_kernel/errors"
)

type BillIssuerGateway interface {
	ResolveSettings(ctx context.Context, domain string) (entities.BillIssuer, *apperrors.AppError)
	LookupByRef(ctx context.Context, domain string, reference string) (entities.Bill, *apperrors.AppError)
	NotifyPaymentReceived(ctx context.Context, domain string, reference string) (entities.Bill, *apperrors.AppError)
}
