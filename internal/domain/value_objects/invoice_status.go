package valueobjects

import (
	"strings"

	apperrors "billbridge/internal/shared_kernel/errors"
)

type InvoiceStatus string

const (
	InvoiceStatusExpired InvoiceStatus = "EXPIRED"
	InvoiceStatusPending InvoiceStatus = "PENDING"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
)

func ParseInvoiceStatus(raw string) (InvoiceStatus, *apperrors.AppError) {
	switch InvoiceStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case InvoiceStatusExpired:
		return InvoiceStatusExpired, nil
	case InvoiceStatusPending:
		return InvoiceStatusPending, nil
	case InvoiceStatusPaid:
		return InvoiceStatusPaid, nil
	default:
		return "", apperrors.New(
			apperrors.CodeInvalidStatusString,
			"invoice status is invalid",
			map[string]any{"status": raw},
		)
	}
}

// IsTerminal reports whether no further transition is allowed from s.
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid
}

func (s InvoiceStatus) String() string {
	return string(s)
}
