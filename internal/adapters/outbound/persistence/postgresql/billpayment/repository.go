package billpayment

import (
	"context"
	"database/sql"
	stderrors "errors"
	"iter"
	"time"

	"billbridge/internal/adapters/outbound/persistence/pagination"
	"billbridge/internal/adapters/outbound/persistence/postgresql/shared"
	"billbridge/internal/adapters/outbound/persistence/snapshot"
	"billbridge/internal/application/dto"
	portsout "billbridge/internal/application/ports/out"
	"billbridge/internal/domain/entities"
	valueobjects "billbridge/internal/domain/value_objects"
	apperrors "billbridge/internal/shared_kernel/errors"

	"github.com/sirupsen/logrus"
)

const selectColumns = `
  domain,
  reference,
  period,
  invoice,
  invoice_status,
  pending_response,
  paid_response,
  notification_sent_date,
  created_at,
  updated_at
`

type Repository struct {
	db     *sql.DB
	logger logrus.FieldLogger
}

var _ portsout.BillPaymentRepository = (*Repository)(nil)

func NewRepository(db *sql.DB, logger logrus.FieldLogger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repository) Find(ctx context.Context, key entities.BillPaymentKey) (entities.BillPayment, *apperrors.AppError) {
	query := `
SELECT` + selectColumns + `
FROM app.bill_payments
WHERE domain = $1
  AND reference = $2
  AND period = $3
`

	payment, err := scanBillPayment(r.db.QueryRowContext(ctx, query, key.Domain, key.Reference, key.Period))
	if stderrors.Is(err, sql.ErrNoRows) {
		return entities.BillPayment{}, apperrors.New(
			apperrors.CodeRecordNotFound,
			"bill payment record not found",
			keyDetails(key),
		)
	}
	if err != nil {
		return entities.BillPayment{}, shared.ClassifyStoreError(err, "find")
	}

	return payment, nil
}

func (r *Repository) PersistNew(ctx context.Context, payment entities.BillPayment) (entities.BillPayment, *apperrors.AppError) {
	const query = `
INSERT INTO app.bill_payments (
  domain,
  reference,
  period,
  invoice,
  invoice_status,
  pending_response,
  paid_response,
  notification_sent_date,
  created_at,
  updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (domain, reference, period) DO NOTHING
`

	pendingResponse, paidResponse, appErr := encodeSnapshots(payment)
	if appErr != nil {
		return entities.BillPayment{}, appErr
	}

	result, err := r.db.ExecContext(
		ctx,
		query,
		payment.Domain,
		payment.Reference,
		payment.Period,
		payment.Invoice,
		payment.InvoiceStatus.String(),
		pendingResponse,
		paidResponse,
		nullableTime(payment.NotificationSentDate),
		payment.CreatedAt.UTC(),
		payment.UpdatedAt.UTC(),
	)
	if err != nil {
		if shared.IsUniqueViolation(err) {
			return entities.BillPayment{}, notPersisted(payment.Key())
		}
		return entities.BillPayment{}, shared.ClassifyStoreError(err, "persist_new")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return entities.BillPayment{}, shared.ClassifyStoreError(err, "persist_new")
	}
	if affected == 0 {
		r.logf(payment.Key(), "bill payment insert skipped, record already exists")
		return entities.BillPayment{}, notPersisted(payment.Key())
	}

	return payment, nil
}

func (r *Repository) Update(ctx context.Context, command dto.UpdateBillPaymentCommand) (entities.BillPayment, *apperrors.AppError) {
	const query = `
UPDATE app.bill_payments
SET
  invoice = $4,
  invoice_status = $5,
  pending_response = $6,
  paid_response = $7,
  notification_sent_date = $8,
  updated_at = $9
WHERE domain = $1
  AND reference = $2
  AND period = $3
  AND invoice_status <> 'PAID'
  AND ($10::text = '' OR invoice = $10::text)
RETURNING created_at
`

	payment := command.Payment
	pendingResponse, paidResponse, appErr := encodeSnapshots(payment)
	if appErr != nil {
		return entities.BillPayment{}, appErr
	}

	var createdAt time.Time
	err := r.db.QueryRowContext(
		ctx,
		query,
		payment.Domain,
		payment.Reference,
		payment.Period,
		payment.Invoice,
		payment.InvoiceStatus.String(),
		pendingResponse,
		paidResponse,
		nullableTime(payment.NotificationSentDate),
		payment.UpdatedAt.UTC(),
		command.ExpectedInvoice,
	).Scan(&createdAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		r.logf(payment.Key(), "bill payment update matched no row")
		return entities.BillPayment{}, apperrors.New(
			apperrors.CodeRecordNotUpdated,
			"bill payment record was not updated",
			keyDetails(payment.Key()),
		)
	}
	if err != nil {
		return entities.BillPayment{}, shared.ClassifyStoreError(err, "update")
	}

	payment.CreatedAt = createdAt.UTC()
	return payment, nil
}

func (r *Repository) YieldPending(ctx context.Context, query dto.YieldPendingQuery) iter.Seq2[entities.BillPayment, *apperrors.AppError] {
	return pagination.PendingSequence(ctx, query, r.fetchPendingPage)
}

func (r *Repository) fetchPendingPage(
	ctx context.Context,
	after *pagination.Cursor,
	offset int,
	limit int,
) ([]entities.BillPayment, *apperrors.AppError) {
	var (
		rows *sql.Rows
		err  error
	)
	if after == nil {
		query := `
SELECT` + selectColumns + `
FROM app.bill_payments
WHERE invoice_status = 'PENDING'
ORDER BY created_at ASC, domain ASC, reference ASC, period ASC
LIMIT $1
OFFSET $2
`
		rows, err = r.db.QueryContext(ctx, query, limit, offset)
	} else {
		query := `
SELECT` + selectColumns + `
FROM app.bill_payments
WHERE invoice_status = 'PENDING'
  AND (created_at, domain, reference, period) > ($1, $2, $3, $4)
ORDER BY created_at ASC, domain ASC, reference ASC, period ASC
LIMIT $5
`
		rows, err = r.db.QueryContext(
			ctx,
			query,
			after.CreatedAt.UTC(),
			after.Key.Domain,
			after.Key.Reference,
			after.Key.Period,
			limit,
		)
	}
	if err != nil {
		return nil, shared.ClassifyStoreError(err, "yield_pending")
	}
	defer rows.Close()

	page := make([]entities.BillPayment, 0, limit)
	for rows.Next() {
		payment, err := scanBillPayment(rows)
		if err != nil {
			return nil, shared.ClassifyStoreError(err, "yield_pending")
		}
		page = append(page, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.ClassifyStoreError(err, "yield_pending")
	}

	return page, nil
}

func scanBillPayment(scanner rowScanner) (entities.BillPayment, error) {
	var (
		payment              entities.BillPayment
		rawStatus            string
		pendingResponse      []byte
		paidResponse         []byte
		notificationSentDate sql.NullTime
	)

	if err := scanner.Scan(
		&payment.Domain,
		&payment.Reference,
		&payment.Period,
		&payment.Invoice,
		&rawStatus,
		&pendingResponse,
		&paidResponse,
		&notificationSentDate,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	); err != nil {
		return entities.BillPayment{}, err
	}

	status, appErr := valueobjects.ParseInvoiceStatus(rawStatus)
	if appErr != nil {
		return entities.BillPayment{}, invalidStoredStatus(rawStatus)
	}
	payment.InvoiceStatus = status

	pending, appErr := snapshot.DecodeBill(pendingResponse)
	if appErr != nil {
		return entities.BillPayment{}, appErr
	}
	payment.PendingResponse = pending

	paid, appErr := snapshot.DecodeOptionalBill(paidResponse)
	if appErr != nil {
		return entities.BillPayment{}, appErr
	}
	payment.PaidResponse = paid

	if notificationSentDate.Valid {
		sentAt := notificationSentDate.Time.UTC()
		payment.NotificationSentDate = &sentAt
	}
	payment.CreatedAt = payment.CreatedAt.UTC()
	payment.UpdatedAt = payment.UpdatedAt.UTC()

	return payment, nil
}

func encodeSnapshots(payment entities.BillPayment) (string, any, *apperrors.AppError) {
	pending, err := snapshot.EncodeBill(payment.PendingResponse)
	if err != nil {
		return "", nil, apperrors.NewInternal(
			"bill_snapshot_encode_failed",
			"failed to encode bill snapshot",
			map[string]any{"error": err.Error()},
		)
	}

	paid, err := snapshot.EncodeOptionalBill(payment.PaidResponse)
	if err != nil {
		return "", nil, apperrors.NewInternal(
			"bill_snapshot_encode_failed",
			"failed to encode bill snapshot",
			map[string]any{"error": err.Error()},
		)
	}
	if paid == nil {
		return string(pending), nil, nil
	}

	return string(pending), string(paid), nil
}

func invalidStoredStatus(rawStatus string) *apperrors.AppError {
	return apperrors.New(
		apperrors.CodeUnknownStoreError,
		"stored bill payment has an invalid status",
		map[string]any{"status": rawStatus},
	)
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC()
}

func notPersisted(key entities.BillPaymentKey) *apperrors.AppError {
	return apperrors.New(
		apperrors.CodeRecordNotPersisted,
		"bill payment record was not persisted",
		keyDetails(key),
	)
}

func keyDetails(key entities.BillPaymentKey) map[string]any {
	return map[string]any{
		"domain":    key.Domain,
		"reference": key.Reference,
		"period":    key.Period,
	}
}

func (r *Repository) logf(key entities.BillPaymentKey, message string) {
	if r.logger == nil {
		return
	}
	r.logger.WithFields(logrus.Fields{
		"domain":    key.Domain,
		"reference": key.Reference,
		"period":    key.Period,
	}).Warn(message)
}
