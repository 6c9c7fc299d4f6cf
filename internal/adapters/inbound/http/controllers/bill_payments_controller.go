package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"billbridge/internal/application/dto"
	portsin "billbridge/internal/application/ports/in"
	apperrors "billbridge/internal/shared_kernel/errors"

	"github.com/sirupsen/logrus"
)

type BillPaymentsController struct {
	createUseCase portsin.CreatePaymentUseCase
	getUseCase    portsin.GetPaymentUseCase
	logger        logrus.FieldLogger
}

type createBillPaymentPayload struct {
	Domain    string `json:"domain"`
	Reference string `json:"reference"`
}

func NewBillPaymentsController(
	createUseCase portsin.CreatePaymentUseCase,
	getUseCase portsin.GetPaymentUseCase,
	logger logrus.FieldLogger,
) *BillPaymentsController {
	return &BillPaymentsController{
		createUseCase: createUseCase,
		getUseCase:    getUseCase,
		logger:        logger,
	}
}

func (c *BillPaymentsController) CreateBillPayment(w http.ResponseWriter, r *http.Request) {
	payload, appErr := parseCreateBillPaymentPayload(r.Body)
	if appErr != nil {
		writeAppError(w, appErr)
		return
	}

	resource, appErr := c.createUseCase.Execute(r.Context(), dto.CreatePaymentCommand{
		Domain:    payload.Domain,
		Reference: payload.Reference,
	})
	if appErr != nil {
		logRequestError(c.logger, r, "/v1/bill-payments", appErr)
		writeAppError(w, appErr)
		return
	}

	w.Header().Set("Location", "/v1/bill-payments/"+resource.Domain+"/"+resource.Period+"/"+resource.Reference)
	writeJSON(w, http.StatusOK, resource)
}

func (c *BillPaymentsController) GetBillPayment(w http.ResponseWriter, r *http.Request) {
	resource, appErr := c.getUseCase.Execute(r.Context(), dto.GetPaymentQuery{
		Domain:    r.PathValue("domain"),
		Period:    r.PathValue("period"),
		Reference: r.PathValue("reference"),
	})
	if appErr != nil {
		logRequestError(c.logger, r, "/v1/bill-payments/{domain}/{period}/{reference}", appErr)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, resource)
}

func parseCreateBillPaymentPayload(body io.Reader) (createBillPaymentPayload, *apperrors.AppError) {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()

	payload := createBillPaymentPayload{}
	if err := decoder.Decode(&payload); err != nil {
		return createBillPaymentPayload{}, apperrors.NewValidation(
			"invalid_request",
			"request body must be valid JSON",
			map[string]any{"error": err.Error()},
		)
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return createBillPaymentPayload{}, apperrors.NewValidation(
			"invalid_request",
			"request body must contain a single JSON object",
			nil,
		)
	}

	return payload, nil
}
