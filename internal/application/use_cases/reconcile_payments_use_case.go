package use_cases

import (
	"context"
	"time"

	"billbridge/internal/application/dto"
	portsin "billbridge/internal/application/ports/in"
	portsout "billbridge/internal/application/ports/out"
	"billbridge/internal/domain/entities"
	valueobjects "billbridge/internal/domain/value_objects"
	apperrors "billbridge/internal/shared_kernel/errors"
)

type reconcileOutcome int

const (
	outcomeFailed reconcileOutcome = iota
	outcomePaid
	outcomeExpired
)

type reconcilePaymentsUseCase struct {
	repository portsout.BillPaymentRepository
	provider   portsout.PaymentProviderGateway
	issuer     portsout.BillIssuerGateway
	reporter   portsout.ErrorReporter
}

func NewReconcilePaymentsUseCase(
	repository portsout.BillPaymentRepository,
	provider portsout.PaymentProviderGateway,
	issuer portsout.BillIssuerGateway,
	reporter portsout.ErrorReporter,
) portsin.ReconcilePaymentsUseCase {
	return &reconcilePaymentsUseCase{
		repository: repository,
		provider:   provider,
		issuer:     issuer,
		reporter:   reporter,
	}
}

func (u *reconcilePaymentsUseCase) Execute(
	ctx context.Context,
	command dto.ReconcilePaymentsCommand,
) (dto.ReconcilePaymentsOutput, *apperrors.AppError) {
	if u.repository == nil {
		return dto.ReconcilePaymentsOutput{}, apperrors.NewInternal(
			"bill_payment_repository_missing",
			"bill payment repository is required",
			nil,
		)
	}
	if u.provider == nil {
		return dto.ReconcilePaymentsOutput{}, apperrors.NewInternal(
			"payment_provider_gateway_missing",
			"payment provider gateway is required",
			nil,
		)
	}
	if u.issuer == nil {
		return dto.ReconcilePaymentsOutput{}, apperrors.NewInternal(
			"bill_issuer_gateway_missing",
			"bill issuer gateway is required",
			nil,
		)
	}
	if command.BatchSize < 0 {
		return dto.ReconcilePaymentsOutput{}, apperrors.NewValidation(
			"reconcile_batch_size_invalid",
			"reconcile batch size must not be negative",
			map[string]any{"batch_size": command.BatchSize},
		)
	}
	if command.Now.IsZero() {
		return dto.ReconcilePaymentsOutput{}, apperrors.NewValidation(
			"reconcile_now_missing",
			"reconcile timestamp is required",
			nil,
		)
	}

	output := dto.ReconcilePaymentsOutput{}
	pending := u.repository.YieldPending(ctx, dto.YieldPendingQuery{Limit: command.BatchSize})
	for payment, appErr := range pending {
		if appErr != nil {
			output.Errors++
			u.report(ctx, appErr, map[string]any{"run_id": command.RunID})
			continue
		}

		output.Scanned++
		outcome, appErr := u.reconcileOne(ctx, payment, command.Now.UTC())
		if appErr != nil {
			switch appErr.Code {
			case apperrors.CodeBillNoUpdateNeeded:
				output.Unchanged++
			case apperrors.CodeBillExpired, apperrors.CodeBillAlreadyPaid:
				output.Skipped++
			default:
				output.Errors++
			}
			u.report(ctx, appErr, map[string]any{
				"run_id":    command.RunID,
				"domain":    payment.Domain,
				"reference": payment.Reference,
				"period":    payment.Period,
			})
			continue
		}

		output.Updated++
		switch outcome {
		case outcomePaid:
			output.Paid++
		case outcomeExpired:
			output.Expired++
		}
	}

	return output, nil
}

func (u *reconcilePaymentsUseCase) reconcileOne(
	ctx context.Context,
	payment entities.BillPayment,
	now time.Time,
) (reconcileOutcome, *apperrors.AppError) {
	details := map[string]any{
		"domain":    payment.Domain,
		"reference": payment.Reference,
		"period":    payment.Period,
	}

	switch payment.InvoiceStatus {
	case valueobjects.InvoiceStatusExpired:
		return outcomeFailed, apperrors.New(apperrors.CodeBillExpired, "invoice already expired", details)
	case valueobjects.InvoiceStatusPaid:
		return outcomeFailed, apperrors.New(apperrors.CodeBillAlreadyPaid, "bill is already paid", details)
	}

	status, appErr := u.provider.CheckInvoiceStatus(ctx, payment.Invoice)
	if appErr != nil {
		return outcomeFailed, appErr
	}

	switch status {
	case valueobjects.InvoiceStatusPending:
		return outcomeFailed, apperrors.New(apperrors.CodeBillNoUpdateNeeded, "invoice still pending", details)
	case valueobjects.InvoiceStatusPaid:
		paidBill, appErr := u.issuer.NotifyPaymentReceived(ctx, payment.Domain, payment.Reference)
		if appErr != nil {
			return outcomeFailed, appErr
		}
		if paidBill.Status != valueobjects.BillStatusPaid {
			return outcomeFailed, apperrors.New(
				apperrors.CodeBillStatusUpdateFailed,
				"issuer did not confirm the payment",
				map[string]any{
					"domain":    payment.Domain,
					"reference": payment.Reference,
					"status":    paidBill.Status.String(),
				},
			)
		}

		if _, appErr := u.repository.Update(ctx, dto.UpdateBillPaymentCommand{
			Payment:         payment.MarkPaid(paidBill, now),
			ExpectedInvoice: payment.Invoice,
		}); appErr != nil {
			return outcomeFailed, appErr
		}
		return outcomePaid, nil
	case valueobjects.InvoiceStatusExpired:
		if _, appErr := u.repository.Update(ctx, dto.UpdateBillPaymentCommand{
			Payment:         payment.MarkExpired(now),
			ExpectedInvoice: payment.Invoice,
		}); appErr != nil {
			return outcomeFailed, appErr
		}
		return outcomeExpired, nil
	default:
		return outcomeFailed, apperrors.New(
			apperrors.CodeInvalidProviderStatus,
			"provider returned an unknown invoice status",
			map[string]any{"status": status.String()},
		)
	}
}

func (u *reconcilePaymentsUseCase) report(ctx context.Context, appErr *apperrors.AppError, fields map[string]any) {
	if u.reporter == nil {
		return
	}
	u.reporter.Report(ctx, appErr, fields)
}
