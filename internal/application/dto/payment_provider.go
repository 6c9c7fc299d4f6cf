package dto

import valueobjects "billbridge/internal/domain/value_objects"

type CreateInvoiceCommand struct {
	Username        string
	Amount          valueobjects.WalletAmount
	Memo            string
	DescriptionHash string
}
