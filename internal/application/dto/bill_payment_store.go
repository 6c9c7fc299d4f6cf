package dto

import "billbridge/internal/domain/entities"

const DefaultPendingPageSize = 100

// UpdateBillPaymentCommand carries the full record to write. A non-empty
// ExpectedInvoice additionally requires the stored invoice to still match.
type UpdateBillPaymentCommand struct {
	Payment         entities.BillPayment
	ExpectedInvoice string
}

type YieldPendingQuery struct {
	Limit  int
	Offset int
}

func (q YieldPendingQuery) Normalize() YieldPendingQuery {
	if q.Limit <= 0 {
		q.Limit = DefaultPendingPageSize
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}
