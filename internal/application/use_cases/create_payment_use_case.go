package use_cases

import (
	"context"
	stderrors "errors"
	"strings"

	"billbridge/internal/application/dto"
	portsin "billbridge/internal/application/ports/in"
	portsout "billbridge/internal/application/ports/out"
	"billbridge/internal/domain/entities"
	"billbridge/internal/domain/policies"
	valueobjects "billbridge/internal/domain/value_objects"
	apperrors "billbridge/internal/shared_kernel/errors"

	"golang.org/x/sync/singleflight"
)

type createPaymentUseCase struct {
	issuer     portsout.BillIssuerGateway
	provider   portsout.PaymentProviderGateway
	repository portsout.BillPaymentRepository
	clock      Clock
	inflight   singleflight.Group
}

func NewCreatePaymentUseCase(
	issuer portsout.BillIssuerGateway,
	provider portsout.PaymentProviderGateway,
	repository portsout.BillPaymentRepository,
	clock Clock,
) portsin.CreatePaymentUseCase {
	if clock == nil {
		clock = NewSystemClock()
	}

	return &createPaymentUseCase{
		issuer:     issuer,
		provider:   provider,
		repository: repository,
		clock:      clock,
	}
}

func (u *createPaymentUseCase) Execute(
	ctx context.Context,
	command dto.CreatePaymentCommand,
) (dto.BillPaymentResource, *apperrors.AppError) {
	if u.issuer == nil || u.provider == nil || u.repository == nil {
		return dto.BillPaymentResource{}, apperrors.NewInternal(
			"create_payment_dependencies_missing",
			"create payment use case is not fully wired",
			nil,
		)
	}

	domain := normalizeDomain(command.Domain)
	reference := strings.TrimSpace(command.Reference)
	if appErr := requireField("domain", domain); appErr != nil {
		return dto.BillPaymentResource{}, appErr
	}
	if appErr := requireField("reference", reference); appErr != nil {
		return dto.BillPaymentResource{}, appErr
	}

	// Concurrent requests for the same bill share one issuance. The shared
	// call outlives any single caller; the gateway timeouts bound it.
	shared := u.inflight.DoChan(domain+"|"+reference, func() (any, error) {
		payment, appErr := u.createPayment(context.WithoutCancel(ctx), domain, reference)
		if appErr != nil {
			return nil, appErr
		}
		return payment, nil
	})

	var outcome singleflight.Result
	select {
	case <-ctx.Done():
		return dto.BillPaymentResource{}, apperrors.NewInternal(
			"create_payment_cancelled",
			"create payment request was cancelled",
			map[string]any{"domain": domain, "reference": reference, "error": ctx.Err().Error()},
		)
	case outcome = <-shared:
	}

	result, err := outcome.Val, outcome.Err
	if err != nil {
		var appErr *apperrors.AppError
		if stderrors.As(err, &appErr) {
			return dto.BillPaymentResource{}, appErr
		}
		return dto.BillPaymentResource{}, apperrors.NewInternal(
			"create_payment_failed",
			"failed to create payment",
			map[string]any{"error": err.Error()},
		)
	}

	return dto.NewBillPaymentResource(result.(entities.BillPayment)), nil
}

func (u *createPaymentUseCase) createPayment(
	ctx context.Context,
	domain string,
	reference string,
) (entities.BillPayment, *apperrors.AppError) {
	bill, appErr := u.issuer.LookupByRef(ctx, domain, reference)
	if appErr != nil {
		return entities.BillPayment{}, appErr
	}

	details := map[string]any{"domain": domain, "reference": reference, "period": bill.Period}
	if bill.Status == valueobjects.BillStatusOverdue {
		return entities.BillPayment{}, apperrors.New(apperrors.CodeBillOverdue, "bill is overdue", details)
	}

	var current *entities.BillPayment
	existing, appErr := u.repository.Find(ctx, entities.BillPaymentKey{
		Domain:    domain,
		Reference: reference,
		Period:    bill.Period,
	})
	switch {
	case appErr == nil:
		current = &existing
	case appErr.Is(apperrors.CodeRecordNotFound):
	default:
		return entities.BillPayment{}, appErr
	}

	if current != nil {
		switch current.InvoiceStatus {
		case valueobjects.InvoiceStatusPaid:
			return entities.BillPayment{}, apperrors.New(apperrors.CodeBillAlreadyPaid, "bill is already paid", details)
		case valueobjects.InvoiceStatusPending:
			status, appErr := u.provider.CheckInvoiceStatus(ctx, current.Invoice)
			if appErr != nil {
				return entities.BillPayment{}, appErr
			}
			if status == valueobjects.InvoiceStatusPaid {
				return entities.BillPayment{}, apperrors.New(apperrors.CodeBillAlreadyPaid, "bill is already paid", details)
			}
			if status == valueobjects.InvoiceStatusPending && current.PendingResponse.SameDetails(bill) {
				return *current, nil
			}
		}
	}

	issuer, appErr := u.issuer.ResolveSettings(ctx, domain)
	if appErr != nil {
		return entities.BillPayment{}, appErr
	}

	metadata, appErr := policies.BuildPaymentMetadata(domain, reference, bill.Description)
	if appErr != nil {
		return entities.BillPayment{}, appErr
	}
	invoice, appErr := u.provider.CreateInvoice(ctx, dto.CreateInvoiceCommand{
		Username:        issuer.Username(),
		Amount:          bill.Amount,
		Memo:            bill.Description,
		DescriptionHash: metadata.DescriptionHash,
	})
	if appErr != nil {
		return entities.BillPayment{}, appErr
	}

	now := u.clock.NowUTC()
	if current == nil {
		payment, appErr := entities.NewPendingBillPayment(domain, bill, invoice, now)
		if appErr != nil {
			return entities.BillPayment{}, appErr
		}
		return u.repository.PersistNew(ctx, payment)
	}

	return u.repository.Update(ctx, dto.UpdateBillPaymentCommand{
		Payment:         current.Reissue(invoice, bill, now),
		ExpectedInvoice: current.Invoice,
	})
}
