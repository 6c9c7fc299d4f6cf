package controllers

import (
	"net/http"

	"billbridge/internal/application/dto"
	portsin "billbridge/internal/application/ports/in"
	valueobjects "billbridge/internal/domain/value_objects"

	"github.com/sirupsen/logrus"
)

type HealthController struct {
	useCase portsin.GetHealthUseCase
	logger  logrus.FieldLogger
}

func NewHealthController(useCase portsin.GetHealthUseCase, logger logrus.FieldLogger) *HealthController {
	return &HealthController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *HealthController) GetHealth(w http.ResponseWriter, r *http.Request) {
	output, appErr := c.useCase.Execute(r.Context(), dto.GetHealthCommand{})
	if appErr != nil {
		logRequestError(c.logger, r, "/healthz", appErr)
		writeAppError(w, appErr)
		return
	}

	status := http.StatusOK
	if !valueobjects.HealthStatus(output.Status).IsHealthy() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, output)
}
