package use_cases

import (
	"strings"

	apperrors "billbridge/internal/shared_kernel/errors"
)

func normalizeDomain(raw string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(raw)), ".")
}

func requireField(field string, value string) *apperrors.AppError {
	if value != "" {
		return nil
	}

	return apperrors.NewValidation(
		"invalid_request",
		field+" is required",
		map[string]any{"field": field},
	)
}
