package out

import (
	"context"

	"billbridge/internal/application/dto"
	valueobjects "billbridge/internal/domain/value_objects"
	apperrors "billbridge/internal/shared_kernel/errors"
)

type PaymentProviderGateway interface {
	CreateInvoice(ctx context.Context, command dto.CreateInvoiceCommand) (string, *apperrors.AppError)
	CheckInvoiceStatus(ctx context.Context, invoice string) (valueobjects.InvoiceStatus, *apperrors.AppError)
}
