package out

import (
	"context"
	"iter"

	"billbridge/internal/application/dto"
	"billbridge/internal/domain/entities"
	apperrors "billbridge/internal/shared_kernel/errors"
)

type BillPaymentRepository interface {
	Find(ctx context.Context, key entities.BillPaymentKey) (entities.BillPayment, *apperrors.AppError)
	PersistNew(ctx context.Context, payment entities.BillPayment) (entities.BillPayment, *apperrors.AppError)
	// Update never modifies a record whose stored status is PAID.
	Update(ctx context.Context, command dto.UpdateBillPaymentCommand) (entities.BillPayment, *apperrors.AppError)
	// YieldPending walks PENDING records oldest first. A failed page yields one
	// error and ends the sequence.
	YieldPending(ctx context.Context, query dto.YieldPendingQuery) iter.Seq2[entities.BillPayment, *apperrors.AppError]
}
