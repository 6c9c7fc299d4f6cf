package valueobjects

import (
	"strings"

	apperrors "billbridge/internal/shared_kernel/errors"
)

type BillStatus string

const (
	BillStatusOverdue BillStatus = "OVERDUE"
	BillStatusPending BillStatus = "PENDING"
	BillStatusPaid    BillStatus = "PAID"
)

func ParseBillStatus(raw string) (BillStatus, *apperrors.AppError) {
	switch BillStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case BillStatusOverdue:
		return BillStatusOverdue, nil
	case BillStatusPending:
		return BillStatusPending, nil
	case BillStatusPaid:
		return BillStatusPaid, nil
	default:
		return "", apperrors.New(
			apperrors.CodeInvalidStatusString,
			"bill status is invalid",
			map[string]any{"status": raw},
		)
	}
}

func (s BillStatus) String() string {
	return string(s)
}
