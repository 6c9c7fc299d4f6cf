package entities

import (
	"strings"
	"time"

	valueobjects "billbridge/internal/domain/value_objects"
	apperrors "billbridge/internal/shared_kernel/errors"
)

type BillPaymentKey struct {
	Domain    string
	Reference string
	Period    string
}

func (k BillPaymentKey) String() string {
	return k.Domain + "/" + k.Period + "/" + k.Reference
}

type BillPayment struct {
	Domain               string
	Reference            string
	Period               string
	Invoice              string
	InvoiceStatus        valueobjects.InvoiceStatus
	PendingResponse      Bill
	PaidResponse         *Bill
	NotificationSentDate *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func NewPendingBillPayment(domain string, bill Bill, invoice string, now time.Time) (BillPayment, *apperrors.AppError) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return BillPayment{}, apperrors.NewInternal(
			"bill_payment_domain_missing",
			"bill payment domain is required",
			nil,
		)
	}
	if strings.TrimSpace(invoice) == "" {
		return BillPayment{}, apperrors.New(
			apperrors.CodeInvalidInvoice,
			"invoice is required",
			map[string]any{"reference": bill.Reference},
		)
	}

	return BillPayment{
		Domain:          domain,
		Reference:       bill.Reference,
		Period:          bill.Period,
		Invoice:         invoice,
		InvoiceStatus:   valueobjects.InvoiceStatusPending,
		PendingResponse: bill,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func (p BillPayment) Key() BillPaymentKey {
	return BillPaymentKey{
		Domain:    p.Domain,
		Reference: p.Reference,
		Period:    p.Period,
	}
}

// Reissue replaces the live invoice and the snapshot it was issued for.
func (p BillPayment) Reissue(invoice string, bill Bill, now time.Time) BillPayment {
	p.Invoice = invoice
	p.InvoiceStatus = valueobjects.InvoiceStatusPending
	p.PendingResponse = bill
	p.UpdatedAt = now
	return p
}

func (p BillPayment) MarkPaid(paidBill Bill, now time.Time) BillPayment {
	notifiedAt := now
	p.InvoiceStatus = valueobjects.InvoiceStatusPaid
	p.PaidResponse = &paidBill
	p.NotificationSentDate = &notifiedAt
	p.UpdatedAt = now
	return p
}

func (p BillPayment) MarkExpired(now time.Time) BillPayment {
	p.InvoiceStatus = valueobjects.InvoiceStatusExpired
	p.UpdatedAt = now
	return p
}
