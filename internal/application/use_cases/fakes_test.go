//go:build !integration

package use_cases

import (
	"context"
	"fmt"
	"iter"
	"sort"
	"sync"
	"testing"
	"time"

	"billbridge/internal/application/dto"
	"billbridge/internal/domain/entities"
	valueobjects "billbridge/internal/domain/value_objects"
	apperrors "billbridge/internal/shared_kernel/errors"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() Clock {
	return ClockFunc(func() time.Time { return fixedNow })
}

func newTestBill(t *testing.T, reference, period, amount, currency, status string) entities.Bill {
	t.Helper()
	bill, appErr := entities.NewBill(entities.NewBillInput{
		Reference:   reference,
		Period:      period,
		Description: "Bill " + reference + " " + period,
		Amount:      amount,
		Currency:    currency,
		Status:      status,
	})
	require.Nil(t, appErr)
	return bill
}

type fakeIssuer struct {
	mu          sync.Mutex
	bills       map[string]entities.Bill
	lookupErr   *apperrors.AppError
	settings    entities.BillIssuer
	settingsErr *apperrors.AppError
	notifyBill  *entities.Bill
	notifyErr   *apperrors.AppError
	lookupGate  chan struct{}
	lookupSeen  chan struct{}
	lookups     int
	resolves    int
	notified    []string
}

func newFakeIssuer() *fakeIssuer {
	return &fakeIssuer{
		bills: map[string]entities.Bill{},
		settings: entities.BillIssuer{
			Domain:        "example.com",
			Name:          "Example Utility",
			LnAddress:     "example@blink.sv",
			BillServerURL: "https://blink.example.com/api",
		},
	}
}

func (f *fakeIssuer) putBill(domain string, bill entities.Bill) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bills[domain+"|"+bill.Reference] = bill
}

func (f *fakeIssuer) ResolveSettings(_ context.Context, domain string) (entities.BillIssuer, *apperrors.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolves++
	if f.settingsErr != nil {
		return entities.BillIssuer{}, f.settingsErr
	}
	settings := f.settings
	settings.Domain = domain
	return settings, nil
}

func (f *fakeIssuer) LookupByRef(_ context.Context, domain string, reference string) (entities.Bill, *apperrors.AppError) {
	if f.lookupSeen != nil {
		select {
		case f.lookupSeen <- struct{}{}:
		default:
		}
	}
	if f.lookupGate != nil {
		<-f.lookupGate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.lookupErr != nil {
		return entities.Bill{}, f.lookupErr
	}
	bill, ok := f.bills[domain+"|"+reference]
	if !ok {
		return entities.Bill{}, apperrors.New(apperrors.CodeBillNotFound, "bill not found", nil)
	}
	return bill, nil
}

func (f *fakeIssuer) NotifyPaymentReceived(_ context.Context, domain string, reference string) (entities.Bill, *apperrors.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notified = append(f.notified, domain+"|"+reference)
	if f.notifyErr != nil {
		return entities.Bill{}, f.notifyErr
	}
	if f.notifyBill != nil {
		return *f.notifyBill, nil
	}
	bill := f.bills[domain+"|"+reference]
	bill.Status = valueobjects.BillStatusPaid
	return bill, nil
}

type fakeProvider struct {
	mu          sync.Mutex
	statuses    map[string]valueobjects.InvoiceStatus
	statusErrs  map[string]*apperrors.AppError
	createErr   *apperrors.AppError
	nextInvoice int
	created     []dto.CreateInvoiceCommand
	checked     []string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		statuses:    map[string]valueobjects.InvoiceStatus{},
		statusErrs:  map[string]*apperrors.AppError{},
		nextInvoice: 1,
	}
}

func (f *fakeProvider) CreateInvoice(_ context.Context, command dto.CreateInvoiceCommand) (string, *apperrors.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, command)
	invoice := fmt.Sprintf("invoice-%d", f.nextInvoice)
	f.nextInvoice++
	f.statuses[invoice] = valueobjects.InvoiceStatusPending
	return invoice, nil
}

func (f *fakeProvider) CheckInvoiceStatus(_ context.Context, invoice string) (valueobjects.InvoiceStatus, *apperrors.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checked = append(f.checked, invoice)
	if appErr, ok := f.statusErrs[invoice]; ok {
		return "", appErr
	}
	status, ok := f.statuses[invoice]
	if !ok {
		return "", apperrors.New(apperrors.CodeInvalidInvoice, "unknown invoice", nil)
	}
	return status, nil
}

func (f *fakeProvider) createCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

type fakeRepository struct {
	mu         sync.Mutex
	records    map[entities.BillPaymentKey]entities.BillPayment
	findErr    *apperrors.AppError
	pageErrAt  int
	pageFetch  int
	finds      int
	inserts    int
	updates    []dto.UpdateBillPaymentCommand
	updateErrs map[entities.BillPaymentKey]*apperrors.AppError
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		records:    map[entities.BillPaymentKey]entities.BillPayment{},
		pageErrAt:  -1,
		updateErrs: map[entities.BillPaymentKey]*apperrors.AppError{},
	}
}

func (f *fakeRepository) seed(payment entities.BillPayment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[payment.Key()] = payment
}

func (f *fakeRepository) get(key entities.BillPaymentKey) (entities.BillPayment, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payment, ok := f.records[key]
	return payment, ok
}

func (f *fakeRepository) writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inserts + len(f.updates)
}

func (f *fakeRepository) Find(_ context.Context, key entities.BillPaymentKey) (entities.BillPayment, *apperrors.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finds++
	if f.findErr != nil {
		return entities.BillPayment{}, f.findErr
	}
	payment, ok := f.records[key]
	if !ok {
		return entities.BillPayment{}, apperrors.New(apperrors.CodeRecordNotFound, "record not found", nil)
	}
	return payment, nil
}

func (f *fakeRepository) PersistNew(_ context.Context, payment entities.BillPayment) (entities.BillPayment, *apperrors.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.records[payment.Key()]; exists {
		return entities.BillPayment{}, apperrors.New(apperrors.CodeRecordNotPersisted, "record not persisted", nil)
	}
	f.inserts++
	f.records[payment.Key()] = payment
	return payment, nil
}

func (f *fakeRepository) Update(_ context.Context, command dto.UpdateBillPaymentCommand) (entities.BillPayment, *apperrors.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := command.Payment.Key()
	if appErr, ok := f.updateErrs[key]; ok {
		return entities.BillPayment{}, appErr
	}
	stored, ok := f.records[key]
	if !ok || stored.InvoiceStatus == valueobjects.InvoiceStatusPaid {
		return entities.BillPayment{}, apperrors.New(apperrors.CodeRecordNotUpdated, "record not updated", nil)
	}
	if command.ExpectedInvoice != "" && stored.Invoice != command.ExpectedInvoice {
		return entities.BillPayment{}, apperrors.New(apperrors.CodeRecordNotUpdated, "record not updated", nil)
	}
	f.updates = append(f.updates, command)
	updated := command.Payment
	updated.CreatedAt = stored.CreatedAt
	f.records[key] = updated
	return updated, nil
}

func (f *fakeRepository) YieldPending(_ context.Context, query dto.YieldPendingQuery) iter.Seq2[entities.BillPayment, *apperrors.AppError] {
	query = query.Normalize()
	return func(yield func(entities.BillPayment, *apperrors.AppError) bool) {
		f.mu.Lock()
		pending := make([]entities.BillPayment, 0, len(f.records))
		for _, payment := range f.records {
			if payment.InvoiceStatus == valueobjects.InvoiceStatusPending {
				pending = append(pending, payment)
			}
		}
		f.mu.Unlock()
		sort.Slice(pending, func(i, j int) bool {
			if !pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
				return pending[i].CreatedAt.Before(pending[j].CreatedAt)
			}
			return pending[i].Key().String() < pending[j].Key().String()
		})

		offset := query.Offset
		for {
			f.mu.Lock()
			fetch := f.pageFetch
			f.pageFetch++
			f.mu.Unlock()
			if fetch == f.pageErrAt {
				yield(entities.BillPayment{}, apperrors.New(apperrors.CodeStoreConnectionError, "connection refused", nil))
				return
			}

			end := min(offset+query.Limit, len(pending))
			var page []entities.BillPayment
			if offset < len(pending) {
				page = pending[offset:end]
			}
			for _, payment := range page {
				if !yield(payment, nil) {
					return
				}
			}
			if len(page) < query.Limit {
				return
			}
			offset += query.Limit
		}
	}
}

type fakeReporter struct {
	mu       sync.Mutex
	reported []*apperrors.AppError
}

func (f *fakeReporter) Report(_ context.Context, appErr *apperrors.AppError, _ map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reported = append(f.reported, appErr)
}

func (f *fakeReporter) codes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	codes := make([]string, 0, len(f.reported))
	for _, appErr := range f.reported {
		codes = append(codes, appErr.Code)
	}
	return codes
}

type fakeDecoder struct {
	amounts map[string]int64
	err     *apperrors.AppError
}

func (f *fakeDecoder) AmountMsat(invoice string) (int64, *apperrors.AppError) {
	if f.err != nil {
		return 0, f.err
	}
	amount, ok := f.amounts[invoice]
	if !ok {
		return 0, apperrors.New(apperrors.CodeInvalidInvoiceAmount, "invoice has no amount", nil)
	}
	return amount, nil
}
