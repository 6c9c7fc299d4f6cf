package use_cases

import (
	"context"
	"strconv"
	"time"

	"billbridge/internal/application/dto"
	portsin "billbridge/internal/application/ports/in"
	portsout "billbridge/internal/application/ports/out"
	apperrors "billbridge/internal/shared_kernel/errors"
)

type initializePersistenceUseCase struct {
	gateway portsout.PersistenceBootstrapGateway
}

func NewInitializePersistenceUseCase(gateway portsout.PersistenceBootstrapGateway) portsin.InitializePersistenceUseCase {
	return &initializePersistenceUseCase{
		gateway: gateway,
	}
}

// Execute waits for the store to answer and then applies migrations unless the
// command skips them. Only store errors are retried.
func (u *initializePersistenceUseCase) Execute(ctx context.Context, command dto.InitializePersistenceCommand) *apperrors.AppError {
	if u.gateway == nil {
		return apperrors.NewInternal(
			"persistence_gateway_missing",
			"persistence gateway is required",
			nil,
		)
	}

	if command.ReadinessTimeout <= 0 {
		return apperrors.NewValidation(
			"readiness_timeout_invalid",
			"readiness timeout must be greater than zero",
			nil,
		)
	}

	if command.ReadinessRetryInterval <= 0 {
		return apperrors.NewValidation(
			"readiness_retry_interval_invalid",
			"readiness retry interval must be greater than zero",
			nil,
		)
	}

	readinessCtx, cancel := context.WithTimeout(ctx, command.ReadinessTimeout)
	defer cancel()

	attempts := 0
	for {
		attempts++
		appErr := u.gateway.CheckReadiness(readinessCtx)
		if appErr == nil {
			break
		}
		if !isRetryableStoreError(appErr) {
			return appErr.WithDetail("attempts", strconv.Itoa(attempts))
		}

		timer := time.NewTimer(command.ReadinessRetryInterval)
		select {
		case <-readinessCtx.Done():
			timer.Stop()
			return readinessTimeout(command, attempts, appErr)
		case <-timer.C:
		}
	}

	if command.SkipMigrations {
		return nil
	}
	return u.gateway.RunMigrations(ctx)
}

func isRetryableStoreError(appErr *apperrors.AppError) bool {
	return appErr.Is(apperrors.CodeStoreConnectionError) || appErr.Is(apperrors.CodeUnknownStoreError)
}

func readinessTimeout(command dto.InitializePersistenceCommand, attempts int, last *apperrors.AppError) *apperrors.AppError {
	return apperrors.NewInternal(
		"store_readiness_timeout",
		"store readiness check timed out",
		map[string]any{
			"attempts":  strconv.Itoa(attempts),
			"timeout":   command.ReadinessTimeout.String(),
			"last_code": last.Code,
		},
	)
}
