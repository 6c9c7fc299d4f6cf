package galoy

const walletQuery = `
query accountDefaultWallet($username: Username!, $walletCurrency: WalletCurrency) {
  wallet: accountDefaultWallet(username: $username, walletCurrency: $walletCurrency) {
    id
    walletCurrency
  }
}
`

const invoiceStatusQuery = `
query LnInvoicePaymentStatus($input: LnInvoicePaymentStatusInput!) {
  lnInvoice: lnInvoicePaymentStatus(input: $input) {
    status
  }
}
`

const createBtcInvoiceMutation = `
mutation createInvoice($input: LnInvoiceCreateOnBehalfOfRecipientInput!) {
  lnInvoice: lnInvoiceCreateOnBehalfOfRecipient(input: $input) {
    errors {
      message
    }
    invoice {
      paymentRequest
    }
  }
}
`

const createUsdInvoiceMutation = `
mutation createInvoice($input: LnUsdInvoiceCreateOnBehalfOfRecipientInput!) {
  lnInvoice: lnUsdInvoiceCreateOnBehalfOfRecipient(input: $input) {
    errors {
      message
    }
    invoice {
      paymentRequest
    }
  }
}
`

type walletResponse struct {
	Wallet *struct {
		ID             string `json:"id"`
		WalletCurrency string `json:"walletCurrency"`
	} `json:"wallet"`
}

type invoiceStatusResponse struct {
	LnInvoice *struct {
		Status string `json:"status"`
	} `json:"lnInvoice"`
}

type createInvoiceResponse struct {
	LnInvoice *struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
		Invoice *struct {
			PaymentRequest string `json:"paymentRequest"`
		} `json:"invoice"`
	} `json:"lnInvoice"`
}
