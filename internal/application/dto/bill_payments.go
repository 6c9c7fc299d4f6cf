package dto

import (
	"time"

	"billbridge/internal/domain/entities"
)

type CreatePaymentCommand struct {
	Domain    string
	Reference string
}

type GetPaymentQuery struct {
	Domain    string
	Period    string
	Reference string
}

type BillResource struct {
	Reference   string `json:"reference"`
	Period      string `json:"period"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
}

type BillPaymentResource struct {
	Domain               string        `json:"domain"`
	Reference            string        `json:"reference"`
	Period               string        `json:"period"`
	Invoice              string        `json:"invoice"`
	InvoiceStatus        string        `json:"invoice_status"`
	PendingResponse      BillResource  `json:"pending_response"`
	PaidResponse         *BillResource `json:"paid_response,omitempty"`
	NotificationSentDate *time.Time    `json:"notification_sent_date,omitempty"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

func NewBillResource(bill entities.Bill) BillResource {
	return BillResource{
		Reference:   bill.Reference,
		Period:      bill.Period,
		Description: bill.Description,
		Amount:      bill.Amount.Quantity.String(),
		Currency:    bill.Amount.Currency.String(),
		Status:      bill.Status.String(),
	}
}

func NewBillPaymentResource(payment entities.BillPayment) BillPaymentResource {
	resource := BillPaymentResource{
		Domain:               payment.Domain,
		Reference:            payment.Reference,
		Period:               payment.Period,
		Invoice:              payment.Invoice,
		InvoiceStatus:        payment.InvoiceStatus.String(),
		PendingResponse:      NewBillResource(payment.PendingResponse),
		NotificationSentDate: payment.NotificationSentDate,
		CreatedAt:            payment.CreatedAt,
		UpdatedAt:            payment.UpdatedAt,
	}
	if payment.PaidResponse != nil {
		paid := NewBillResource(*payment.PaidResponse)
		resource.PaidResponse = &paid
	}

	return resource
}
