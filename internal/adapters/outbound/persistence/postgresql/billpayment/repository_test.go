//go:build !integration

package billpayment

import (
	"database/sql"
	"testing"
	"time"

	"billbridge/internal/adapters/outbound/persistence/postgresql/shared"
	apperrors "billbridge/internal/shared_kernel/errors"
)

type fakeRow struct {
	status string
}

func (r fakeRow) Scan(dest ...any) error {
	values := []any{
		"example.com",
		"ref-1",
		"2026-03",
		"lnbc-1",
		r.status,
		[]byte(`{"reference":"ref-1","period":"2026-03","description":"Bill ref-1","amount":{"amount":"2500","currency":"USD"},"status":"PENDING"}`),
		[]byte(nil),
		sql.NullTime{},
		time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
	for i, target := range dest {
		switch typed := target.(type) {
		case *string:
			*typed = values[i].(string)
		case *[]byte:
			*typed = values[i].([]byte)
		case *sql.NullTime:
			*typed = values[i].(sql.NullTime)
		case *time.Time:
			*typed = values[i].(time.Time)
		}
	}
	return nil
}

func TestScanBillPaymentMapsCorruptStatusToStoreError(t *testing.T) {
	_, err := scanBillPayment(fakeRow{status: "SETTLED"})
	if err == nil {
		t.Fatalf("expected error for corrupt status")
	}

	appErr := shared.ClassifyStoreError(err, "find")
	if appErr.Code != apperrors.CodeUnknownStoreError {
		t.Fatalf("expected %s, got %s", apperrors.CodeUnknownStoreError, appErr.Code)
	}
	if appErr.Type == apperrors.TypeValidation {
		t.Fatalf("expected a non-validation error type, got %s", appErr.Type)
	}
	if appErr.Details["status"] != "SETTLED" {
		t.Fatalf("expected status detail, got %v", appErr.Details)
	}
}
