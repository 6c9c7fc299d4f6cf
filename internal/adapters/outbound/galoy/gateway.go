package galoy

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"billbridge/internal/application/dto"
	portsout "billbridge/internal/application/ports/out"
	valueobjects "billbridge/internal/domain/value_objects"
	apperrors "billbridge/internal/shared_kernel/errors"

	"github.com/machinebox/graphql"
	"github.com/sirupsen/logrus"
)

const defaultTimeout = 10 * time.Second

var (
	accountNotFoundPattern = regexp.MustCompile(`(?i)account does not exist for username`)
	invalidInvoicePattern  = regexp.MustCompile(`(?i)invalid value for LnPaymentRequest`)
)

type Config struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// Gateway talks to a Galoy (Blink) GraphQL API to issue invoices on behalf of
// an issuer account and to poll their settlement status.
type Gateway struct {
	client *graphql.Client
	apiKey string
	logger logrus.FieldLogger
}

var _ portsout.PaymentProviderGateway = (*Gateway)(nil)

func NewGateway(cfg Config, logger logrus.FieldLogger) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := graphql.NewClient(
		strings.TrimSpace(cfg.Endpoint),
		graphql.WithHTTPClient(&http.Client{Timeout: timeout}),
	)

	if logger != nil {
		client.Log = func(line string) { logger.Debug(line) }
	}

	return &Gateway{
		client: client,
		apiKey: strings.TrimSpace(cfg.APIKey),
		logger: logger,
	}
}

func (g *Gateway) CreateInvoice(ctx context.Context, command dto.CreateInvoiceCommand) (string, *apperrors.AppError) {
	quantity, ok := command.Amount.Int64()
	if !ok {
		return "", apperrors.New(
			apperrors.CodeInvoiceRequestRejected,
			"invoice amount is out of range",
			map[string]any{"amount": command.Amount.String()},
		)
	}

	walletID, appErr := g.defaultWallet(ctx, command.Username, command.Amount.Currency)
	if appErr != nil {
		return "", appErr
	}

	mutation := createBtcInvoiceMutation
	if command.Amount.Currency == valueobjects.CurrencyUSD {
		mutation = createUsdInvoiceMutation
	}

	input := map[string]any{
		"recipientWalletId": walletID,
		"amount":            quantity,
		"memo":              command.Memo,
	}
	if command.DescriptionHash != "" {
		input["descriptionHash"] = command.DescriptionHash
	}

	request := g.newRequest(mutation)
	request.Var("input", input)

	var response createInvoiceResponse
	if err := g.client.Run(ctx, request, &response); err != nil {
		g.logf(logrus.Fields{"username": command.Username, "currency": command.Amount.Currency}, err, "invoice creation failed")
		if !isGraphQLError(err) {
			return "", apperrors.New(apperrors.CodeUnknownProviderError, "invoice creation failed", map[string]any{"error": err.Error()})
		}
		return "", apperrors.New(
			apperrors.CodeInvoiceRequestRejected,
			"provider rejected invoice request",
			map[string]any{"username": command.Username, "error": err.Error()},
		)
	}
	if response.LnInvoice == nil {
		return "", apperrors.New(apperrors.CodeUnknownProviderError, "provider returned no invoice payload", nil)
	}
	if len(response.LnInvoice.Errors) > 0 {
		messages := make([]string, 0, len(response.LnInvoice.Errors))
		for _, providerErr := range response.LnInvoice.Errors {
			messages = append(messages, providerErr.Message)
		}
		return "", apperrors.New(
			apperrors.CodeInvoiceRequestRejected,
			"provider rejected invoice request",
			map[string]any{"username": command.Username, "errors": messages},
		)
	}
	if response.LnInvoice.Invoice == nil || strings.TrimSpace(response.LnInvoice.Invoice.PaymentRequest) == "" {
		return "", apperrors.New(apperrors.CodeUnknownProviderError, "provider returned an empty invoice", nil)
	}

	return response.LnInvoice.Invoice.PaymentRequest, nil
}

func (g *Gateway) CheckInvoiceStatus(ctx context.Context, invoice string) (valueobjects.InvoiceStatus, *apperrors.AppError) {
	request := g.newRequest(invoiceStatusQuery)
	request.Var("input", map[string]any{"paymentRequest": invoice})

	var response invoiceStatusResponse
	if err := g.client.Run(ctx, request, &response); err != nil {
		if invalidInvoicePattern.MatchString(err.Error()) {
			return "", apperrors.New(apperrors.CodeInvalidInvoice, "provider rejected invoice", map[string]any{"error": err.Error()})
		}
		g.logf(logrus.Fields{"operation": "invoice_status"}, err, "invoice status query failed")
		return "", apperrors.New(apperrors.CodeUnknownProviderError, "invoice status query failed", map[string]any{"error": err.Error()})
	}
	if response.LnInvoice == nil {
		return "", apperrors.New(apperrors.CodeUnknownProviderError, "provider returned no invoice status", nil)
	}

	status, appErr := valueobjects.ParseInvoiceStatus(response.LnInvoice.Status)
	if appErr != nil {
		return "", apperrors.New(
			apperrors.CodeInvalidProviderStatus,
			"provider returned an unknown invoice status",
			map[string]any{"status": response.LnInvoice.Status},
		)
	}
	return status, nil
}

func (g *Gateway) defaultWallet(ctx context.Context, username string, currency valueobjects.Currency) (string, *apperrors.AppError) {
	request := g.newRequest(walletQuery)
	request.Var("username", username)
	request.Var("walletCurrency", currency.String())

	var response walletResponse
	if err := g.client.Run(ctx, request, &response); err != nil {
		if accountNotFoundPattern.MatchString(err.Error()) {
			return "", apperrors.New(apperrors.CodeInvalidUsername, "provider account not found", map[string]any{"username": username})
		}
		g.logf(logrus.Fields{"username": username}, err, "wallet lookup failed")
		return "", apperrors.New(apperrors.CodeUnknownProviderError, "wallet lookup failed", map[string]any{"error": err.Error()})
	}
	if response.Wallet == nil || response.Wallet.ID == "" {
		return "", apperrors.New(apperrors.CodeInvalidUsername, "provider account has no wallet", map[string]any{"username": username})
	}
	return response.Wallet.ID, nil
}

// isGraphQLError reports whether the provider answered with a GraphQL error
// rather than failing at the transport level.
func isGraphQLError(err error) bool {
	message := err.Error()
	return strings.HasPrefix(message, "graphql: ") && !strings.Contains(message, "non-200 status code")
}

func (g *Gateway) newRequest(query string) *graphql.Request {
	request := graphql.NewRequest(query)
	if g.apiKey != "" {
		request.Header.Set("X-API-KEY", g.apiKey)
	}
	return request
}

func (g *Gateway) logf(fields logrus.Fields, err error, message string) {
	if g.logger == nil {
		return
	}
	g.logger.WithFields(fields).WithError(err).Warn(message)
}
