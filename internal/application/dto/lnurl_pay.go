package dto

type GetPayRequestQuery struct {
	Domain      string
	Reference   string
	CallbackURL string
	AmountMsat  *int64
}

type PayRequestResource struct {
	Callback    string `json:"callback"`
	MinSendable int64  `json:"minSendable"`
	MaxSendable int64  `json:"maxSendable"`
	Metadata    string `json:"metadata"`
	Tag         string `json:"tag"`
}

type PayInvoiceResource struct {
	PR     string `json:"pr"`
	Routes []any  `json:"routes"`
}

// PayRequestOutput holds exactly one of the two LNURL-pay responses.
type PayRequestOutput struct {
	PayRequest *PayRequestResource
	Invoice    *PayInvoiceResource
}
