//go:build !integration

package valueobjects

import (
	"testing"

	apperrors "billbridge/internal/shared_kernel/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWalletAmount(t *testing.T) {
	amount, appErr := ParseWalletAmount("btc", "1000")
	require.Nil(t, appErr)
	assert.Equal(t, CurrencyBTC, amount.Currency)
	assert.True(t, amount.Quantity.Equal(decimal.NewFromInt(1000)))

	value, ok := amount.Int64()
	require.True(t, ok)
	assert.Equal(t, int64(1000), value)
}

func TestParseWalletAmountRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		currency string
		quantity string
	}{
		{name: "unsupported currency", currency: "EUR", quantity: "10"},
		{name: "zero", currency: "BTC", quantity: "0"},
		{name: "negative", currency: "USD", quantity: "-5"},
		{name: "fractional", currency: "USD", quantity: "10.5"},
		{name: "not a number", currency: "BTC", quantity: "ten"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, appErr := ParseWalletAmount(tc.currency, tc.quantity)
			require.NotNil(t, appErr)
			assert.Equal(t, apperrors.CodeInvalidBill, appErr.Code)
		})
	}
}

func TestWalletAmountEqualIgnoresRepresentation(t *testing.T) {
	a, appErr := ParseWalletAmount("USD", "250")
	require.Nil(t, appErr)
	b, appErr := NewWalletAmount(CurrencyUSD, decimal.RequireFromString("250.000"))
	require.Nil(t, appErr)
	c, appErr := NewWalletAmount(CurrencyBTC, decimal.NewFromInt(250))
	require.Nil(t, appErr)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestWalletAmountInt64Overflow(t *testing.T) {
	amount, appErr := NewWalletAmount(CurrencyBTC, decimal.RequireFromString("99999999999999999999999"))
	require.Nil(t, appErr)

	_, ok := amount.Int64()
	assert.False(t, ok)
}
