package badgerdb

import (
	"context"
	stderrors "errors"
	"iter"
	"sort"
	"time"

	"billbridge/internal/adapters/outbound/persistence/pagination"
	"billbridge/internal/adapters/outbound/persistence/snapshot"
	"billbridge/internal/application/dto"
	portsout "billbridge/internal/application/ports/out"
	"billbridge/internal/domain/entities"
	valueobjects "billbridge/internal/domain/value_objects"
	apperrors "billbridge/internal/shared_kernel/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
)

const maxConflictRetries = 3

type billPaymentRecord struct {
	Domain                   string
	Reference                string
	Period                   string
	Invoice                  string
	Status                   string `badgerhold:"index"`
	PendingResponse          []byte
	PaidResponse             []byte
	NotificationSentUnixNano int64
	CreatedAtUnixNano        int64
	UpdatedAtUnixNano        int64
}

// recordKey is gob-encoded by badgerhold field by field, so parts that
// contain separators never collide.
type recordKey struct {
	Domain    string
	Reference string
	Period    string
}

func storageKey(key entities.BillPaymentKey) recordKey {
	return recordKey{Domain: key.Domain, Reference: key.Reference, Period: key.Period}
}

type BillPaymentRepository struct {
	store  *badgerhold.Store
	logger logrus.FieldLogger
}

var _ portsout.BillPaymentRepository = (*BillPaymentRepository)(nil)

func NewBillPaymentRepository(store *badgerhold.Store, logger logrus.FieldLogger) *BillPaymentRepository {
	return &BillPaymentRepository{store: store, logger: logger}
}

func (r *BillPaymentRepository) Find(_ context.Context, key entities.BillPaymentKey) (entities.BillPayment, *apperrors.AppError) {
	var record billPaymentRecord
	err := r.store.Get(storageKey(key), &record)
	if stderrors.Is(err, badgerhold.ErrNotFound) {
		return entities.BillPayment{}, apperrors.New(
			apperrors.CodeRecordNotFound,
			"bill payment record not found",
			keyDetails(key),
		)
	}
	if err != nil {
		return entities.BillPayment{}, storeError(err, "find")
	}

	return record.toBillPayment()
}

func (r *BillPaymentRepository) PersistNew(_ context.Context, payment entities.BillPayment) (entities.BillPayment, *apperrors.AppError) {
	record, appErr := toRecord(payment)
	if appErr != nil {
		return entities.BillPayment{}, appErr
	}

	err := r.store.Insert(storageKey(payment.Key()), record)
	if stderrors.Is(err, badgerhold.ErrKeyExists) || stderrors.Is(err, badger.ErrConflict) {
		r.warn(payment.Key(), "bill payment insert skipped, record already exists")
		return entities.BillPayment{}, apperrors.New(
			apperrors.CodeRecordNotPersisted,
			"bill payment record was not persisted",
			keyDetails(payment.Key()),
		)
	}
	if err != nil {
		return entities.BillPayment{}, storeError(err, "persist_new")
	}

	return payment, nil
}

var errGuardRejected = stderrors.New("bill payment update guard rejected")

func (r *BillPaymentRepository) Update(_ context.Context, command dto.UpdateBillPaymentCommand) (entities.BillPayment, *apperrors.AppError) {
	payment := command.Payment
	key := payment.Key()
	record, appErr := toRecord(payment)
	if appErr != nil {
		return entities.BillPayment{}, appErr
	}

	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = r.store.Badger().Update(func(tx *badger.Txn) error {
			var stored billPaymentRecord
			if getErr := r.store.TxGet(tx, storageKey(key), &stored); getErr != nil {
				if stderrors.Is(getErr, badgerhold.ErrNotFound) {
					return errGuardRejected
				}
				return getErr
			}
			if stored.Status == valueobjects.InvoiceStatusPaid.String() {
				return errGuardRejected
			}
			if command.ExpectedInvoice != "" && stored.Invoice != command.ExpectedInvoice {
				return errGuardRejected
			}

			record.CreatedAtUnixNano = stored.CreatedAtUnixNano
			return r.store.TxUpdate(tx, storageKey(key), record)
		})
		if !stderrors.Is(err, badger.ErrConflict) {
			break
		}
	}

	if stderrors.Is(err, errGuardRejected) {
		r.warn(key, "bill payment update matched no row")
		return entities.BillPayment{}, apperrors.New(
			apperrors.CodeRecordNotUpdated,
			"bill payment record was not updated",
			keyDetails(key),
		)
	}
	if err != nil {
		return entities.BillPayment{}, storeError(err, "update")
	}

	payment.CreatedAt = time.Unix(0, record.CreatedAtUnixNano).UTC()
	return payment, nil
}

func (r *BillPaymentRepository) YieldPending(ctx context.Context, query dto.YieldPendingQuery) iter.Seq2[entities.BillPayment, *apperrors.AppError] {
	return pagination.PendingSequence(ctx, query, r.fetchPendingPage)
}

func (r *BillPaymentRepository) fetchPendingPage(
	_ context.Context,
	after *pagination.Cursor,
	offset int,
	limit int,
) ([]entities.BillPayment, *apperrors.AppError) {
	pending := valueobjects.InvoiceStatusPending.String()
	var records []billPaymentRecord

	if after == nil {
		query := badgerhold.Where("Status").Eq(pending).
			SortBy("CreatedAtUnixNano", "Domain", "Reference", "Period").
			Skip(offset).
			Limit(limit)
		if err := r.store.Find(&records, query); err != nil {
			return nil, storeError(err, "yield_pending")
		}
		return toBillPayments(records, nil, limit)
	}

	query := badgerhold.Where("Status").Eq(pending).
		And("CreatedAtUnixNano").Ge(after.CreatedAt.UnixNano()).
		SortBy("CreatedAtUnixNano", "Domain", "Reference", "Period")
	if err := r.store.Find(&records, query); err != nil {
		return nil, storeError(err, "yield_pending")
	}
	return toBillPayments(records, after, limit)
}

func toBillPayments(records []billPaymentRecord, after *pagination.Cursor, limit int) ([]entities.BillPayment, *apperrors.AppError) {
	page := make([]entities.BillPayment, 0, min(len(records), limit))
	for _, record := range records {
		payment, appErr := record.toBillPayment()
		if appErr != nil {
			return nil, appErr
		}
		if after != nil && !after.After(payment) {
			continue
		}
		page = append(page, payment)
	}

	sort.SliceStable(page, func(i, j int) bool { return pagination.Less(page[i], page[j]) })
	if len(page) > limit {
		page = page[:limit]
	}
	return page, nil
}

func toRecord(payment entities.BillPayment) (billPaymentRecord, *apperrors.AppError) {
	pending, err := snapshot.EncodeBill(payment.PendingResponse)
	if err != nil {
		return billPaymentRecord{}, apperrors.NewInternal(
			"bill_snapshot_encode_failed",
			"failed to encode bill snapshot",
			map[string]any{"error": err.Error()},
		)
	}
	paid, err := snapshot.EncodeOptionalBill(payment.PaidResponse)
	if err != nil {
		return billPaymentRecord{}, apperrors.NewInternal(
			"bill_snapshot_encode_failed",
			"failed to encode bill snapshot",
			map[string]any{"error": err.Error()},
		)
	}

	record := billPaymentRecord{
		Domain:            payment.Domain,
		Reference:         payment.Reference,
		Period:            payment.Period,
		Invoice:           payment.Invoice,
		Status:            payment.InvoiceStatus.String(),
		PendingResponse:   pending,
		PaidResponse:      paid,
		CreatedAtUnixNano: payment.CreatedAt.UnixNano(),
		UpdatedAtUnixNano: payment.UpdatedAt.UnixNano(),
	}
	if payment.NotificationSentDate != nil {
		record.NotificationSentUnixNano = payment.NotificationSentDate.UnixNano()
	}
	return record, nil
}

func (r billPaymentRecord) toBillPayment() (entities.BillPayment, *apperrors.AppError) {
	status, appErr := valueobjects.ParseInvoiceStatus(r.Status)
	if appErr != nil {
		return entities.BillPayment{}, apperrors.New(
			apperrors.CodeUnknownStoreError,
			"stored bill payment has an invalid status",
			map[string]any{"status": r.Status},
		)
	}
	pending, appErr := snapshot.DecodeBill(r.PendingResponse)
	if appErr != nil {
		return entities.BillPayment{}, appErr
	}
	paid, appErr := snapshot.DecodeOptionalBill(r.PaidResponse)
	if appErr != nil {
		return entities.BillPayment{}, appErr
	}

	payment := entities.BillPayment{
		Domain:          r.Domain,
		Reference:       r.Reference,
		Period:          r.Period,
		Invoice:         r.Invoice,
		InvoiceStatus:   status,
		PendingResponse: pending,
		PaidResponse:    paid,
		CreatedAt:       time.Unix(0, r.CreatedAtUnixNano).UTC(),
		UpdatedAt:       time.Unix(0, r.UpdatedAtUnixNano).UTC(),
	}
	if r.NotificationSentUnixNano != 0 {
		sentAt := time.Unix(0, r.NotificationSentUnixNano).UTC()
		payment.NotificationSentDate = &sentAt
	}
	return payment, nil
}

func storeError(err error, operation string) *apperrors.AppError {
	return apperrors.New(
		apperrors.CodeUnknownStoreError,
		"store operation failed",
		map[string]any{"operation": operation, "error": err.Error()},
	)
}

func keyDetails(key entities.BillPaymentKey) map[string]any {
	return map[string]any{
		"domain":    key.Domain,
		"reference": key.Reference,
		"period":    key.Period,
	}
}

func (r *BillPaymentRepository) warn(key entities.BillPaymentKey, message string) {
	if r.logger == nil {
		return
	}
	r.logger.WithFields(logrus.Fields{
		"domain":    key.Domain,
		"reference": key.Reference,
		"period":    key.Period,
	}).Warn(message)
}
