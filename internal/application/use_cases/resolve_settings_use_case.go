package use_cases

import (
	"context"

	"billbridge/internal/application/dto"
	portsin "billbridge/internal/application/ports/in"
	portsout "billbridge/internal/application/ports/out"
	apperrors "billbridge/internal/shared_kernel/errors"
)

type resolveSettingsUseCase struct {
	issuer portsout.BillIssuerGateway
}

func NewResolveSettingsUseCase(issuer portsout.BillIssuerGateway) portsin.ResolveSettingsUseCase {
	return &resolveSettingsUseCase{
		issuer: issuer,
	}
}

func (u *resolveSettingsUseCase) Execute(ctx context.Context, query dto.ResolveSettingsQuery) (dto.BillIssuerResource, *apperrors.AppError) {
	if u.issuer == nil {
		return dto.BillIssuerResource{}, apperrors.NewInternal(
			"bill_issuer_gateway_missing",
			"bill issuer gateway is required",
			nil,
		)
	}

	domain := normalizeDomain(query.Domain)
	if appErr := requireField("domain", domain); appErr != nil {
		return dto.BillIssuerResource{}, appErr
	}

	issuer, appErr := u.issuer.ResolveSettings(ctx, domain)
	if appErr != nil {
		return dto.BillIssuerResource{}, appErr
	}

	return dto.NewBillIssuerResource(issuer), nil
}
