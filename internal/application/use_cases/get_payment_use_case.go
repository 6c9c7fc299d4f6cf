package use_cases

import (
	"context"
	"strings"

	"billbridge/internal/application/dto"
	portsin "billbridge/internal/application/ports/in"
	portsout "billbridge/internal/application/ports/out"
	"billbridge/internal/domain/entities"
	apperrors "billbridge/internal/shared_kernel/errors"
)

type getPaymentUseCase struct {
	repository portsout.BillPaymentRepository
}

func NewGetPaymentUseCase(repository portsout.BillPaymentRepository) portsin.GetPaymentUseCase {
	return &getPaymentUseCase{
		repository: repository,
	}
}

func (u *getPaymentUseCase) Execute(ctx context.Context, query dto.GetPaymentQuery) (dto.BillPaymentResource, *apperrors.AppError) {
	if u.repository == nil {
		return dto.BillPaymentResource{}, apperrors.NewInternal(
			"bill_payment_repository_missing",
			"bill payment repository is required",
			nil,
		)
	}

	key := entities.BillPaymentKey{
		Domain:    normalizeDomain(query.Domain),
		Reference: strings.TrimSpace(query.Reference),
		Period:    strings.TrimSpace(query.Period),
	}
	if appErr := requireField("domain", key.Domain); appErr != nil {
		return dto.BillPaymentResource{}, appErr
	}
	if appErr := requireField("period", key.Period); appErr != nil {
		return dto.BillPaymentResource{}, appErr
	}
	if appErr := requireField("reference", key.Reference); appErr != nil {
		return dto.BillPaymentResource{}, appErr
	}

	payment, appErr := u.repository.Find(ctx, key)
	if appErr != nil {
		return dto.BillPaymentResource{}, appErr
	}

	return dto.NewBillPaymentResource(payment), nil
}
