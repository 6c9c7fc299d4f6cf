package shared

import (
	stderrors "errors"
	"regexp"
	"syscall"

	apperrors "billbridge/internal/shared_kernel/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgInvalidPassword       = "28P01"
	pgInvalidAuthorization  = "28000"
	pgInvalidCatalogName    = "3D000"
	pgUniqueViolationSQLErr = "23505"
)

var connectionErrorPattern = regexp.MustCompile(`(?i)ECONNREFUSED|connection refused|28P01|3D000|password authentication failed|database "[^"]*" does not exist`)

// ClassifyStoreError maps a driver error onto the store error kinds. Only
// connectivity and credential failures are singled out.
func ClassifyStoreError(err error, operation string) *apperrors.AppError {
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	details := map[string]any{"operation": operation, "error": err.Error()}
	if IsConnectionError(err) {
		return apperrors.New(apperrors.CodeStoreConnectionError, "store connection failed", details)
	}

	return apperrors.New(apperrors.CodeUnknownStoreError, "store operation failed", details)
}

func IsConnectionError(err error) bool {
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgInvalidPassword, pgInvalidAuthorization, pgInvalidCatalogName:
			return true
		}
	}

	var connectErr *pgconn.ConnectError
	if stderrors.As(err, &connectErr) {
		return true
	}

	if stderrors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	return connectionErrorPattern.MatchString(err.Error())
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !stderrors.As(err, &pgErr) {
		return false
	}

	return pgErr.Code == pgUniqueViolationSQLErr
}
