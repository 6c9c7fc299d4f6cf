package out

import apperrors "billbridge/internal/shared_kernel/errors"

type InvoiceDecoder interface {
	AmountMsat(invoice string) (int64, *apperrors.AppError)
}
