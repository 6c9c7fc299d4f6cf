package use_cases

import (
	"context"
	"strings"

	"billbridge/internal/application/dto"
	portsin "billbridge/internal/application/ports/in"
	portsout "billbridge/internal/application/ports/out"
	"billbridge/internal/domain/policies"
	apperrors "billbridge/internal/shared_kernel/errors"
)

const payRequestTag = "payRequest"

type getPayRequestUseCase struct {
	createPayment portsin.CreatePaymentUseCase
	decoder       portsout.InvoiceDecoder
}

func NewGetPayRequestUseCase(
	createPayment portsin.CreatePaymentUseCase,
	decoder portsout.InvoiceDecoder,
) portsin.GetPayRequestUseCase {
	return &getPayRequestUseCase{
		createPayment: createPayment,
		decoder:       decoder,
	}
}

func (u *getPayRequestUseCase) Execute(ctx context.Context, query dto.GetPayRequestQuery) (dto.PayRequestOutput, *apperrors.AppError) {
	if u.createPayment == nil || u.decoder == nil {
		return dto.PayRequestOutput{}, apperrors.NewInternal(
			"pay_request_dependencies_missing",
			"pay request use case is not fully wired",
			nil,
		)
	}

	domain := normalizeDomain(query.Domain)
	reference := strings.TrimSpace(query.Reference)

	payment, appErr := u.createPayment.Execute(ctx, dto.CreatePaymentCommand{
		Domain:    domain,
		Reference: reference,
	})
	if appErr != nil {
		return dto.PayRequestOutput{}, appErr
	}

	amountMsat, appErr := u.decoder.AmountMsat(payment.Invoice)
	if appErr != nil {
		return dto.PayRequestOutput{}, appErr
	}

	if query.AmountMsat != nil {
		if *query.AmountMsat != amountMsat {
			return dto.PayRequestOutput{}, apperrors.New(
				apperrors.CodeInvalidInvoiceAmount,
				"requested amount does not match the bill",
				map[string]any{
					"requested_msat": *query.AmountMsat,
					"invoice_msat":   amountMsat,
				},
			)
		}

		return dto.PayRequestOutput{
			Invoice: &dto.PayInvoiceResource{
				PR:     payment.Invoice,
				Routes: []any{},
			},
		}, nil
	}

	// The metadata must hash to what the live invoice committed to, so it is
	// rebuilt from the snapshot that invoice was issued for.
	metadata, appErr := policies.BuildPaymentMetadata(payment.Domain, payment.Reference, payment.PendingResponse.Description)
	if appErr != nil {
		return dto.PayRequestOutput{}, appErr
	}
	return dto.PayRequestOutput{
		PayRequest: &dto.PayRequestResource{
			Callback:    query.CallbackURL,
			MinSendable: amountMsat,
			MaxSendable: amountMsat,
			Metadata:    metadata.Document,
			Tag:         payRequestTag,
		},
	}, nil
}
