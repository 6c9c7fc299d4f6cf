package pagination

import (
	"context"
	"iter"
	"time"

	"billbridge/internal/application/dto"
	"billbridge/internal/domain/entities"
	apperrors "billbridge/internal/shared_kernel/errors"
)

// Cursor is the position right after the last record of a page, in
// (created_at, domain, reference, period) order.
type Cursor struct {
	CreatedAt time.Time
	Key       entities.BillPaymentKey
}

// PageFetcher loads one page of pending records. after is nil for the first
// page, which starts at offset instead.
type PageFetcher func(ctx context.Context, after *Cursor, offset int, limit int) ([]entities.BillPayment, *apperrors.AppError)

// PendingSequence pages through pending records until a short page. Pages
// after the first continue from the last record seen rather than from a
// numeric offset, so records leaving the pending set mid-sweep do not shift
// later pages.
func PendingSequence(
	ctx context.Context,
	query dto.YieldPendingQuery,
	fetch PageFetcher,
) iter.Seq2[entities.BillPayment, *apperrors.AppError] {
	query = query.Normalize()

	return func(yield func(entities.BillPayment, *apperrors.AppError) bool) {
		var after *Cursor
		offset := query.Offset
		for {
			if err := ctx.Err(); err != nil {
				yield(entities.BillPayment{}, apperrors.New(
					apperrors.CodeUnknownStoreError,
					"pending records scan canceled",
					map[string]any{"error": err.Error()},
				))
				return
			}

			page, appErr := fetch(ctx, after, offset, query.Limit)
			if appErr != nil {
				yield(entities.BillPayment{}, appErr)
				return
			}

			for _, payment := range page {
				if !yield(payment, nil) {
					return
				}
			}
			if len(page) < query.Limit {
				return
			}

			last := page[len(page)-1]
			after = &Cursor{CreatedAt: last.CreatedAt, Key: last.Key()}
			offset = 0
		}
	}
}

// Less orders two records the way PendingSequence pages through them.
func Less(a entities.BillPayment, b entities.BillPayment) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	if a.Domain != b.Domain {
		return a.Domain < b.Domain
	}
	if a.Reference != b.Reference {
		return a.Reference < b.Reference
	}
	return a.Period < b.Period
}

// After reports whether payment sorts strictly after the cursor.
func (c Cursor) After(payment entities.BillPayment) bool {
	return Less(entities.BillPayment{
		Domain:    c.Key.Domain,
		Reference: c.Key.Reference,
		Period:    c.Key.Period,
		CreatedAt: c.CreatedAt,
	}, payment)
}
