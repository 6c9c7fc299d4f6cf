package apperrors

const (
	CodeBillOverdue            = "bill_overdue"
	CodeBillAlreadyPaid        = "bill_already_paid"
	CodeBillExpired            = "bill_expired"
	CodeBillNoUpdateNeeded     = "bill_no_update_needed"
	CodeBillNotFound           = "bill_not_found"
	CodeBillStatusUpdateFailed = "bill_status_update_failed"
	CodeInvalidBill            = "invalid_bill"

	CodeBillIssuerNotFound        = "bill_issuer_not_found"
	CodeInvalidBillIssuerSettings = "invalid_bill_issuer_settings"
	CodeUnknownBillIssuerError    = "unknown_bill_issuer_error"

	CodeRecordNotFound       = "record_not_found"
	CodeRecordNotPersisted   = "record_not_persisted"
	CodeRecordNotUpdated     = "record_not_updated"
	CodeStoreConnectionError = "store_connection_error"
	CodeUnknownStoreError    = "unknown_store_error"

	CodeInvalidUsername        = "invalid_username"
	CodeInvoiceRequestRejected = "invoice_request_rejected"
	CodeInvalidInvoice         = "invalid_invoice"
	CodeInvalidProviderStatus  = "invalid_provider_status"
	CodeUnknownProviderError   = "unknown_provider_error"

	CodeInvalidStatusString  = "invalid_status_string"
	CodeInvalidInvoiceAmount = "invalid_invoice_amount"
)

type kindSpec struct {
	errType  Type
	severity Severity
}

var registry = map[string]kindSpec{
	CodeBillOverdue:            {errType: TypeConflict, severity: SeverityInfo},
	CodeBillAlreadyPaid:        {errType: TypeConflict, severity: SeverityInfo},
	CodeBillExpired:            {errType: TypeConflict, severity: SeverityInfo},
	CodeBillNoUpdateNeeded:     {errType: TypeConflict, severity: SeverityInfo},
	CodeBillNotFound:           {errType: TypeNotFound, severity: SeverityInfo},
	CodeBillStatusUpdateFailed: {errType: TypeUpstream, severity: SeverityWarn},
	CodeInvalidBill:            {errType: TypeUpstream, severity: SeverityCritical},

	CodeBillIssuerNotFound:        {errType: TypeNotFound, severity: SeverityWarn},
	CodeInvalidBillIssuerSettings: {errType: TypeInternal, severity: SeverityCritical},
	CodeUnknownBillIssuerError:    {errType: TypeUpstream, severity: SeverityCritical},

	CodeRecordNotFound:       {errType: TypeNotFound, severity: SeverityInfo},
	CodeRecordNotPersisted:   {errType: TypeConflict, severity: SeverityCritical},
	CodeRecordNotUpdated:     {errType: TypeConflict, severity: SeverityCritical},
	CodeStoreConnectionError: {errType: TypeInternal, severity: SeverityCritical},
	CodeUnknownStoreError:    {errType: TypeInternal, severity: SeverityCritical},

	CodeInvalidUsername:        {errType: TypeUpstream, severity: SeverityInfo},
	CodeInvoiceRequestRejected: {errType: TypeUpstream, severity: SeverityInfo},
	CodeInvalidInvoice:         {errType: TypeUpstream, severity: SeverityCritical},
	CodeInvalidProviderStatus:  {errType: TypeUpstream, severity: SeverityCritical},
	CodeUnknownProviderError:   {errType: TypeUpstream, severity: SeverityCritical},

	CodeInvalidStatusString:  {errType: TypeValidation, severity: SeverityWarn},
	CodeInvalidInvoiceAmount: {errType: TypeValidation, severity: SeverityInfo},
}
