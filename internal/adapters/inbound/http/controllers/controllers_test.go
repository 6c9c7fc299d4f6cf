//go:build !integration

package controllers

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"billbridge/internal/application/dto"
	apperrors "billbridge/internal/shared_kernel/errors"

	"github.com/sirupsen/logrus"
)

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type stubCreatePaymentUseCase struct {
	last dto.CreatePaymentCommand
	err  *apperrors.AppError
}

func (s *stubCreatePaymentUseCase) Execute(_ context.Context, command dto.CreatePaymentCommand) (dto.BillPaymentResource, *apperrors.AppError) {
	s.last = command
	if s.err != nil {
		return dto.BillPaymentResource{}, s.err
	}
	return dto.BillPaymentResource{
		Domain:        command.Domain,
		Reference:     command.Reference,
		Period:        "2026-03",
		Invoice:       "lnbc1invoice",
		InvoiceStatus: "PENDING",
	}, nil
}

type stubGetPaymentUseCase struct {
	last dto.GetPaymentQuery
	err  *apperrors.AppError
}

func (s *stubGetPaymentUseCase) Execute(_ context.Context, query dto.GetPaymentQuery) (dto.BillPaymentResource, *apperrors.AppError) {
	s.last = query
	if s.err != nil {
		return dto.BillPaymentResource{}, s.err
	}
	return dto.BillPaymentResource{Domain: query.Domain, Period: query.Period, Reference: query.Reference}, nil
}

type stubResolveSettingsUseCase struct {
	last dto.ResolveSettingsQuery
	err  *apperrors.AppError
}

func (s *stubResolveSettingsUseCase) Execute(_ context.Context, query dto.ResolveSettingsQuery) (dto.BillIssuerResource, *apperrors.AppError) {
	s.last = query
	if s.err != nil {
		return dto.BillIssuerResource{}, s.err
	}
	return dto.BillIssuerResource{Domain: query.Domain, Name: "Example", LnAddress: "example@blink.sv"}, nil
}

type stubPayRequestUseCase struct {
	last   dto.GetPayRequestQuery
	output dto.PayRequestOutput
	err    *apperrors.AppError
}

func (s *stubPayRequestUseCase) Execute(_ context.Context, query dto.GetPayRequestQuery) (dto.PayRequestOutput, *apperrors.AppError) {
	s.last = query
	return s.output, s.err
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("expected valid json: %v body=%s", err, rec.Body.String())
	}
	return payload
}

func TestBillPaymentsControllerCreate(t *testing.T) {
	createUseCase := &stubCreatePaymentUseCase{}
	controller := NewBillPaymentsController(createUseCase, &stubGetPaymentUseCase{}, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/bill-payments", bytes.NewBufferString(`{"domain":"example.com","reference":"ref-1"}`))
	rec := httptest.NewRecorder()
	controller.CreateBillPayment(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if createUseCase.last.Domain != "example.com" || createUseCase.last.Reference != "ref-1" {
		t.Fatalf("unexpected command %+v", createUseCase.last)
	}
	if location := rec.Header().Get("Location"); location != "/v1/bill-payments/example.com/2026-03/ref-1" {
		t.Fatalf("unexpected Location header %q", location)
	}
	if decodeBody(t, rec)["invoice"] != "lnbc1invoice" {
		t.Fatalf("expected invoice in body, got %s", rec.Body.String())
	}
}

func TestBillPaymentsControllerCreateRejectsUnknownFields(t *testing.T) {
	controller := NewBillPaymentsController(&stubCreatePaymentUseCase{}, &stubGetPaymentUseCase{}, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/bill-payments", bytes.NewBufferString(`{"domain":"example.com","amount":1}`))
	rec := httptest.NewRecorder()
	controller.CreateBillPayment(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestBillPaymentsControllerMapsErrorTypes(t *testing.T) {
	cases := []struct {
		code   string
		status int
	}{
		{code: apperrors.CodeBillOverdue, status: http.StatusConflict},
		{code: apperrors.CodeBillNotFound, status: http.StatusNotFound},
		{code: apperrors.CodeInvoiceRequestRejected, status: http.StatusBadGateway},
		{code: apperrors.CodeStoreConnectionError, status: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			createUseCase := &stubCreatePaymentUseCase{err: apperrors.New(tc.code, "failed", nil)}
			controller := NewBillPaymentsController(createUseCase, &stubGetPaymentUseCase{}, discardLogger())

			req := httptest.NewRequest(http.MethodPost, "/v1/bill-payments", bytes.NewBufferString(`{"domain":"example.com","reference":"ref-1"}`))
			rec := httptest.NewRecorder()
			controller.CreateBillPayment(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, rec.Code)
			}
			envelope, ok := decodeBody(t, rec)["error"].(map[string]any)
			if !ok || envelope["code"] != tc.code {
				t.Fatalf("expected error code %s, got %s", tc.code, rec.Body.String())
			}
		})
	}
}

func TestBillPaymentsControllerGetUsesPathValues(t *testing.T) {
	getUseCase := &stubGetPaymentUseCase{}
	controller := NewBillPaymentsController(&stubCreatePaymentUseCase{}, getUseCase, discardLogger())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/bill-payments/{domain}/{period}/{reference}", controller.GetBillPayment)

	req := httptest.NewRequest(http.MethodGet, "/v1/bill-payments/example.com/2026-03/ref-1", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if getUseCase.last != (dto.GetPaymentQuery{Domain: "example.com", Period: "2026-03", Reference: "ref-1"}) {
		t.Fatalf("unexpected query %+v", getUseCase.last)
	}
}

func TestIssuersControllerVerifyUsesRequestHost(t *testing.T) {
	useCase := &stubResolveSettingsUseCase{}
	controller := NewIssuersController(useCase, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "http://Example.com:8080/api/verify", nil)
	rec := httptest.NewRecorder()
	controller.Verify(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if useCase.last.Domain != "example.com" {
		t.Fatalf("expected domain example.com, got %s", useCase.last.Domain)
	}
	settings, ok := decodeBody(t, rec)["settings"].(map[string]any)
	if !ok || settings["ln_address"] != "example@blink.sv" {
		t.Fatalf("expected settings envelope, got %s", rec.Body.String())
	}
}

func TestIssuersControllerGetIssuerNotFound(t *testing.T) {
	useCase := &stubResolveSettingsUseCase{err: apperrors.New(apperrors.CodeBillIssuerNotFound, "not found", nil)}
	controller := NewIssuersController(useCase, discardLogger())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/issuers/{domain}", controller.GetIssuer)

	req := httptest.NewRequest(http.MethodGet, "/v1/issuers/unknown.com", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	if useCase.last.Domain != "unknown.com" {
		t.Fatalf("expected path domain, got %s", useCase.last.Domain)
	}
}

func TestLNURLControllerPayRequest(t *testing.T) {
	useCase := &stubPayRequestUseCase{output: dto.PayRequestOutput{PayRequest: &dto.PayRequestResource{
		Callback:    "https://example.com/.well-known/lnurlp/ref-1",
		MinSendable: 1000,
		MaxSendable: 1000,
		Metadata:    "[]",
		Tag:         "payRequest",
	}}}
	controller := NewLNURLController(useCase, discardLogger())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /.well-known/lnurlp/{reference}", controller.GetPayRequest)

	req := httptest.NewRequest(http.MethodGet, "http://example.com:3000/.well-known/lnurlp/ref-1", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if useCase.last.Domain != "example.com" || useCase.last.Reference != "ref-1" {
		t.Fatalf("unexpected query %+v", useCase.last)
	}
	if useCase.last.CallbackURL != "https://example.com:3000/.well-known/lnurlp/ref-1" {
		t.Fatalf("unexpected callback %s", useCase.last.CallbackURL)
	}
	if useCase.last.AmountMsat != nil {
		t.Fatalf("expected no amount")
	}
	if decodeBody(t, rec)["tag"] != "payRequest" {
		t.Fatalf("expected payRequest tag, got %s", rec.Body.String())
	}
}

func TestLNURLControllerInvoiceWithAmount(t *testing.T) {
	useCase := &stubPayRequestUseCase{output: dto.PayRequestOutput{Invoice: &dto.PayInvoiceResource{PR: "lnbc1invoice", Routes: []any{}}}}
	controller := NewLNURLController(useCase, discardLogger())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /.well-known/lnurlp/{reference}", controller.GetPayRequest)

	req := httptest.NewRequest(http.MethodGet, "https://example.com/.well-known/lnurlp/ref-1?amount=1000", nil)
	req.TLS = &tls.ConnectionState{}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if useCase.last.AmountMsat == nil || *useCase.last.AmountMsat != 1000 {
		t.Fatalf("expected amount 1000, got %v", useCase.last.AmountMsat)
	}
	body := decodeBody(t, rec)
	if body["pr"] != "lnbc1invoice" {
		t.Fatalf("expected pr, got %s", rec.Body.String())
	}
	if routes, ok := body["routes"].([]any); !ok || len(routes) != 0 {
		t.Fatalf("expected empty routes, got %v", body["routes"])
	}
}

func TestLNURLControllerErrors(t *testing.T) {
	useCase := &stubPayRequestUseCase{err: apperrors.New(apperrors.CodeInvalidInvoiceAmount, "invoice amount mismatch", nil)}
	controller := NewLNURLController(useCase, discardLogger())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /.well-known/lnurlp/{reference}", controller.GetPayRequest)

	req := httptest.NewRequest(http.MethodGet, "/.well-known/lnurlp/ref-1?amount=5", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "ERROR" || body["code"] != apperrors.CodeInvalidInvoiceAmount {
		t.Fatalf("expected LNURL error body, got %s", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/.well-known/lnurlp/ref-1?amount=abc", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for malformed amount, got %d", rec.Code)
	}
}
