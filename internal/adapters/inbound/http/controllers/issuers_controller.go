package controllers

import (
	"net/http"

	"billbridge/internal/application/dto"
	portsin "billbridge/internal/application/ports/in"

	"github.com/sirupsen/logrus"
)

type IssuersController struct {
	useCase portsin.ResolveSettingsUseCase
	logger  logrus.FieldLogger
}

type verifyResponse struct {
	Settings dto.BillIssuerResource `json:"settings"`
}

func NewIssuersController(useCase portsin.ResolveSettingsUseCase, logger logrus.FieldLogger) *IssuersController {
	return &IssuersController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *IssuersController) GetIssuer(w http.ResponseWriter, r *http.Request) {
	resource, appErr := c.useCase.Execute(r.Context(), dto.ResolveSettingsQuery{Domain: r.PathValue("domain")})
	if appErr != nil {
		logRequestError(c.logger, r, "/v1/issuers/{domain}", appErr)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, resource)
}

// Verify resolves the settings of the issuer whose domain the request was
// addressed to.
func (c *IssuersController) Verify(w http.ResponseWriter, r *http.Request) {
	resource, appErr := c.useCase.Execute(r.Context(), dto.ResolveSettingsQuery{Domain: requestDomain(r)})
	if appErr != nil {
		logRequestError(c.logger, r, "/api/verify", appErr)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{Settings: resource})
}
