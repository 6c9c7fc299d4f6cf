package use_cases

import (
	"context"
	"time"

	"billbridge/internal/application/dto"
	portsin "billbridge/internal/application/ports/in"
	portsout "billbridge/internal/application/ports/out"
	"billbridge/internal/domain/value_objects"
	apperrors "billbridge/internal/shared_kernel/errors"
)

const storeProbeTimeout = 2 * time.Second

type getHealthUseCase struct {
	store portsout.PersistenceBootstrapGateway
}

// NewGetHealthUseCase probes store when it is non-nil; a failed probe turns
// the status into degraded.
func NewGetHealthUseCase(store portsout.PersistenceBootstrapGateway) portsin.GetHealthUseCase {
	return &getHealthUseCase{store: store}
}

func (u *getHealthUseCase) Execute(ctx context.Context, _ dto.GetHealthCommand) (dto.HealthOutput, *apperrors.AppError) {
	status := valueobjects.NewHealthyStatus()
	if u.store == nil {
		return dto.HealthOutput{Status: status.String()}, nil
	}

	probeCtx, cancel := context.WithTimeout(ctx, storeProbeTimeout)
	defer cancel()

	output := dto.HealthOutput{Store: valueobjects.HealthStatusOK.String()}
	if appErr := u.store.CheckReadiness(probeCtx); appErr != nil {
		status = valueobjects.HealthStatusDegraded
		output.Store = "unreachable"
		output.StoreCode = appErr.Code
	}
	output.Status = status.String()

	return output, nil
}
