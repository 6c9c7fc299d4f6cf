package valueobjects

import (
	"strings"

	apperrors "billbridge/internal/shared_kernel/errors"
	"github.com/shopspring/decimal"
)

// Currency identifies the unit of a WalletAmount. BTC amounts are expressed
// in satoshis and USD amounts in cents.
type Currency string

const (
	CurrencyBTC Currency = "BTC"
	CurrencyUSD Currency = "USD"
)

func ParseCurrency(raw string) (Currency, *apperrors.AppError) {
	switch Currency(strings.ToUpper(strings.TrimSpace(raw))) {
	case CurrencyBTC:
		return CurrencyBTC, nil
	case CurrencyUSD:
		return CurrencyUSD, nil
	default:
		return "", apperrors.New(
			apperrors.CodeInvalidBill,
			"currency is not supported",
			map[string]any{"currency": raw},
		)
	}
}

func (c Currency) String() string {
	return string(c)
}

// WalletAmount is a positive integer quantity of minor units.
type WalletAmount struct {
	Currency Currency
	Quantity decimal.Decimal
}

func NewWalletAmount(currency Currency, quantity decimal.Decimal) (WalletAmount, *apperrors.AppError) {
	if !quantity.IsInteger() || !quantity.IsPositive() {
		return WalletAmount{}, apperrors.New(
			apperrors.CodeInvalidBill,
			"amount must be a positive integer",
			map[string]any{"amount": quantity.String(), "currency": string(currency)},
		)
	}

	return WalletAmount{Currency: currency, Quantity: quantity}, nil
}

func ParseWalletAmount(rawCurrency string, rawQuantity string) (WalletAmount, *apperrors.AppError) {
	currency, appErr := ParseCurrency(rawCurrency)
	if appErr != nil {
		return WalletAmount{}, appErr
	}

	quantity, err := decimal.NewFromString(strings.TrimSpace(rawQuantity))
	if err != nil {
		return WalletAmount{}, apperrors.New(
			apperrors.CodeInvalidBill,
			"amount is not a number",
			map[string]any{"amount": rawQuantity},
		)
	}

	return NewWalletAmount(currency, quantity)
}

func (a WalletAmount) Equal(other WalletAmount) bool {
	return a.Currency == other.Currency && a.Quantity.Equal(other.Quantity)
}

// Int64 returns the quantity as an int64 when it fits.
func (a WalletAmount) Int64() (int64, bool) {
	if !a.Quantity.IsInteger() || !a.Quantity.BigInt().IsInt64() {
		return 0, false
	}
	return a.Quantity.IntPart(), true
}

func (a WalletAmount) String() string {
	return a.Quantity.String() + " " + string(a.Currency)
}
