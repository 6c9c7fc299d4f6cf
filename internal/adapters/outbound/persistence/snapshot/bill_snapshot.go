package snapshot

import (
	"encoding/json"

	"billbridge/internal/domain/entities"
	apperrors "billbridge/internal/shared_kernel/errors"

	"github.com/shopspring/decimal"
)

// Bill snapshots are stored as JSON documents with the amount as a quoted
// integer string, so quantities beyond float64 precision survive a round trip.
type billDocument struct {
	Reference   string         `json:"reference"`
	Period      string         `json:"period"`
	Description string         `json:"description"`
	Amount      amountDocument `json:"amount"`
	Status      string         `json:"status"`
}

type amountDocument struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func EncodeBill(bill entities.Bill) ([]byte, error) {
	return json.Marshal(billDocument{
		Reference:   bill.Reference,
		Period:      bill.Period,
		Description: bill.Description,
		Amount: amountDocument{
			Amount:   bill.Amount.Quantity,
			Currency: bill.Amount.Currency.String(),
		},
		Status: bill.Status.String(),
	})
}

func EncodeOptionalBill(bill *entities.Bill) ([]byte, error) {
	if bill == nil {
		return nil, nil
	}
	return EncodeBill(*bill)
}

func DecodeBill(raw []byte) (entities.Bill, *apperrors.AppError) {
	var document billDocument
	if err := json.Unmarshal(raw, &document); err != nil {
		return entities.Bill{}, apperrors.New(
			apperrors.CodeUnknownStoreError,
			"stored bill snapshot is not valid JSON",
			map[string]any{"error": err.Error()},
		)
	}

	bill, appErr := entities.NewBill(entities.NewBillInput{
		Reference:   document.Reference,
		Period:      document.Period,
		Description: document.Description,
		Amount:      document.Amount.Amount.String(),
		Currency:    document.Amount.Currency,
		Status:      document.Status,
	})
	if appErr != nil {
		return entities.Bill{}, apperrors.New(
			apperrors.CodeUnknownStoreError,
			"stored bill snapshot is invalid",
			map[string]any{"cause": appErr.Code, "reference": document.Reference},
		)
	}

	return bill, nil
}

func DecodeOptionalBill(raw []byte) (*entities.Bill, *apperrors.AppError) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	bill, appErr := DecodeBill(raw)
	if appErr != nil {
		return nil, appErr
	}
	return &bill, nil
}
