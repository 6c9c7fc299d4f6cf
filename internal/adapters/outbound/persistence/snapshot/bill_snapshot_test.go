//go:build !integration

package snapshot

import (
	"testing"

	"billbridge/internal/domain/entities"
	apperrors "billbridge/internal/shared_kernel/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeBillUsesStringAmount(t *testing.T) {
	bill, appErr := entities.NewBill(entities.NewBillInput{
		Reference:   "ref-1",
		Period:      "2026-03",
		Description: "Water",
		Amount:      "123456789012345678901234567890",
		Currency:    "BTC",
		Status:      "PENDING",
	})
	require.Nil(t, appErr)

	raw, err := EncodeBill(bill)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"reference": "ref-1",
		"period": "2026-03",
		"description": "Water",
		"amount": {"amount": "123456789012345678901234567890", "currency": "BTC"},
		"status": "PENDING"
	}`, string(raw))

	decoded, appErr := DecodeBill(raw)
	require.Nil(t, appErr)
	assert.True(t, decoded.Amount.Equal(bill.Amount))
	assert.Equal(t, bill.Reference, decoded.Reference)
}

func TestDecodeOptionalBill(t *testing.T) {
	bill, appErr := DecodeOptionalBill(nil)
	require.Nil(t, appErr)
	assert.Nil(t, bill)

	bill, appErr = DecodeOptionalBill([]byte("null"))
	require.Nil(t, appErr)
	assert.Nil(t, bill)

	raw, err := EncodeOptionalBill(nil)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestDecodeBillRejectsCorruptDocuments(t *testing.T) {
	_, appErr := DecodeBill([]byte(`{"reference":`))
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeUnknownStoreError, appErr.Code)

	_, appErr = DecodeBill([]byte(`{"reference":"r","period":"p","amount":{"amount":"0","currency":"BTC"},"status":"PENDING"}`))
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeUnknownStoreError, appErr.Code)
	assert.Equal(t, apperrors.CodeInvalidBill, appErr.Details["cause"])
}
