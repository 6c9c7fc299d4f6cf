package entities

import (
	"strings"

	valueobjects "billbridge/internal/domain/value_objects"
	apperrors "billbridge/internal/shared_kernel/errors"
)

// Bill is the issuer's view of an outstanding charge. It is fetched fresh on
// every request and never cached.
type Bill struct {
	Reference   string
	Period      string
	Description string
	Amount      valueobjects.WalletAmount
	Status      valueobjects.BillStatus
}

type NewBillInput struct {
	Reference   string
	Period      string
	Description string
	Amount      string
	Currency    string
	Status      string
}

func NewBill(input NewBillInput) (Bill, *apperrors.AppError) {
	reference := strings.TrimSpace(input.Reference)
	if reference == "" {
		return Bill{}, apperrors.New(apperrors.CodeInvalidBill, "bill reference is required", nil)
	}

	period := strings.TrimSpace(input.Period)
	if period == "" {
		return Bill{}, apperrors.New(
			apperrors.CodeInvalidBill,
			"bill period is required",
			map[string]any{"reference": reference},
		)
	}

	amount, appErr := valueobjects.ParseWalletAmount(input.Currency, input.Amount)
	if appErr != nil {
		return Bill{}, appErr.WithDetail("reference", reference)
	}

	status, appErr := valueobjects.ParseBillStatus(input.Status)
	if appErr != nil {
		return Bill{}, apperrors.New(
			apperrors.CodeInvalidBill,
			"bill status is invalid",
			map[string]any{"reference": reference, "status": input.Status},
		)
	}

	return Bill{
		Reference:   reference,
		Period:      period,
		Description: input.Description,
		Amount:      amount,
		Status:      status,
	}, nil
}

// SameDetails reports whether two snapshots describe the same payable charge.
// Description and status are not compared.
func (b Bill) SameDetails(other Bill) bool {
	return b.Period == other.Period &&
		b.Reference == other.Reference &&
		b.Amount.Equal(other.Amount)
}
