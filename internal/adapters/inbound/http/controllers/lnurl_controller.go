package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"billbridge/internal/application/dto"
	portsin "billbridge/internal/application/ports/in"
	apperrors "billbridge/internal/shared_kernel/errors"

	"github.com/sirupsen/logrus"
)

type LNURLController struct {
	useCase portsin.GetPayRequestUseCase
	logger  logrus.FieldLogger
}

type lnurlErrorResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
	Code   string `json:"code"`
}

func NewLNURLController(useCase portsin.GetPayRequestUseCase, logger logrus.FieldLogger) *LNURLController {
	return &LNURLController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *LNURLController) GetPayRequest(w http.ResponseWriter, r *http.Request) {
	query := dto.GetPayRequestQuery{
		Domain:      requestDomain(r),
		Reference:   r.PathValue("reference"),
		CallbackURL: requestScheme(r) + "://" + r.Host + r.URL.Path,
	}

	if rawAmount := strings.TrimSpace(r.URL.Query().Get("amount")); rawAmount != "" {
		amount, err := strconv.ParseInt(rawAmount, 10, 64)
		if err != nil {
			c.writeError(w, r, apperrors.NewValidation(
				"invalid_request",
				"amount must be an integer number of millisatoshis",
				map[string]any{"field": "amount"},
			))
			return
		}
		query.AmountMsat = &amount
	}

	output, appErr := c.useCase.Execute(r.Context(), query)
	if appErr != nil {
		c.writeError(w, r, appErr)
		return
	}

	if output.Invoice != nil {
		writeJSON(w, http.StatusOK, output.Invoice)
		return
	}
	writeJSON(w, http.StatusOK, output.PayRequest)
}

// LNURL wallets expect {"status":"ERROR","reason":...} bodies.
func (c *LNURLController) writeError(w http.ResponseWriter, r *http.Request, appErr *apperrors.AppError) {
	logRequestError(c.logger, r, "/.well-known/lnurlp/{reference}", appErr)
	writeJSON(w, statusForAppError(appErr), lnurlErrorResponse{
		Status: "ERROR",
		Reason: appErr.Message,
		Code:   appErr.Code,
	})
}
