package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/url"
	"strings"
	"time"

	portsout "billbridge/internal/application/ports/out"
	"billbridge/internal/domain/entities"
	valueobjects "billbridge/internal/domain/value_objects"
	apperrors "billbridge/internal/shared_kernel/errors"

	"github.com/sirupsen/logrus"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	maxBodyBytes       = 100 * 1024
	maxErrorBodyBytes  = 1024
)

type Config struct {
	Timeout time.Duration
}

type Gateway struct {
	registry *Registry
	client   *nethttp.Client
	logger   logrus.FieldLogger
}

var _ portsout.BillIssuerGateway = (*Gateway)(nil)

func NewGateway(registry *Registry, cfg Config, logger logrus.FieldLogger) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	return &Gateway{
		registry: registry,
		client: &nethttp.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type billResponse struct {
	Reference   string      `json:"reference"`
	Period      string      `json:"period"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Currency    string      `json:"currency"`
	Status      string      `json:"status"`
}

type billStatusRequest struct {
	Status string `json:"status"`
}

func (g *Gateway) ResolveSettings(_ context.Context, domain string) (entities.BillIssuer, *apperrors.AppError) {
	if g == nil || g.registry == nil {
		return entities.BillIssuer{}, apperrors.NewInternal(
			"bill_issuer_gateway_not_configured",
			"bill issuer gateway is not configured",
			nil,
		)
	}
	return g.registry.Resolve(domain)
}

func (g *Gateway) LookupByRef(ctx context.Context, domain string, reference string) (entities.Bill, *apperrors.AppError) {
	return g.exchange(ctx, nethttp.MethodGet, domain, reference, nil)
}

func (g *Gateway) NotifyPaymentReceived(ctx context.Context, domain string, reference string) (entities.Bill, *apperrors.AppError) {
	body, err := json.Marshal(billStatusRequest{Status: valueobjects.BillStatusPaid.String()})
	if err != nil {
		return entities.Bill{}, apperrors.NewInternal(
			"bill_status_request_encode_failed",
			"failed to encode bill status request",
			map[string]any{"error": err.Error()},
		)
	}
	return g.exchange(ctx, nethttp.MethodPut, domain, reference, body)
}

func (g *Gateway) exchange(
	ctx context.Context,
	method string,
	domain string,
	reference string,
	body []byte,
) (entities.Bill, *apperrors.AppError) {
	issuer, appErr := g.ResolveSettings(ctx, domain)
	if appErr != nil {
		return entities.Bill{}, appErr
	}

	details := map[string]any{"domain": issuer.Domain, "reference": reference, "method": method}
	endpoint := issuer.BillServerURL + "/bills/" + url.PathEscape(reference)

	var payload io.Reader
	if body != nil {
		payload = bytes.NewReader(body)
	}
	request, err := nethttp.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return entities.Bill{}, unknownIssuerError("failed to build bill issuer request", details, err)
	}
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := g.client.Do(request)
	if err != nil {
		g.logf(details, err, "bill issuer request failed")
		return entities.Bill{}, unknownIssuerError("bill issuer request failed", details, err)
	}
	defer response.Body.Close()

	if response.StatusCode == nethttp.StatusNotFound {
		return entities.Bill{}, apperrors.New(apperrors.CodeBillNotFound, "bill not found", details)
	}
	if response.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBodyBytes))
		return entities.Bill{}, apperrors.New(
			apperrors.CodeUnknownBillIssuerError,
			"bill issuer returned an error status",
			withDetails(details, map[string]any{
				"status_code": response.StatusCode,
				"body":        strings.TrimSpace(string(raw)),
			}),
		)
	}

	raw, err := io.ReadAll(io.LimitReader(response.Body, maxBodyBytes))
	if err != nil {
		g.logf(details, err, "bill issuer response read failed")
		return entities.Bill{}, unknownIssuerError("failed to read bill issuer response", details, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return entities.Bill{}, apperrors.New(apperrors.CodeBillNotFound, "bill not found", details)
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var decoded billResponse
	if err := decoder.Decode(&decoded); err != nil {
		return entities.Bill{}, apperrors.New(
			apperrors.CodeInvalidBill,
			"bill issuer response is not a bill",
			withDetails(details, map[string]any{"error": err.Error()}),
		)
	}

	bill, appErr := entities.NewBill(entities.NewBillInput{
		Reference:   decoded.Reference,
		Period:      decoded.Period,
		Description: decoded.Description,
		Amount:      decoded.Amount.String(),
		Currency:    decoded.Currency,
		Status:      decoded.Status,
	})
	if appErr != nil {
		return entities.Bill{}, apperrors.New(apperrors.CodeInvalidBill, appErr.Message, withDetails(details, appErr.Details))
	}
	if bill.Reference != reference {
		return entities.Bill{}, apperrors.New(
			apperrors.CodeInvalidBill,
			"bill reference does not match request",
			withDetails(details, map[string]any{"returned_reference": bill.Reference}),
		)
	}

	return bill, nil
}

func unknownIssuerError(message string, details map[string]any, err error) *apperrors.AppError {
	return apperrors.New(
		apperrors.CodeUnknownBillIssuerError,
		message,
		withDetails(details, map[string]any{"error": err.Error()}),
	)
}

func withDetails(base map[string]any, extra map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(extra))
	for key, value := range base {
		merged[key] = value
	}
	for key, value := range extra {
		merged[key] = value
	}
	return merged
}

func (g *Gateway) logf(details map[string]any, err error, message string) {
	if g.logger == nil {
		return
	}
	g.logger.WithFields(logrus.Fields(details)).WithError(err).Info(message)
}
