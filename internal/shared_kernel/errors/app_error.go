package apperrors

import stderrors "errors"

type Type string

const (
	TypeValidation Type = "validation"
	TypeNotFound   Type = "not_found"
	TypeConflict   Type = "conflict"
	TypeUpstream   Type = "upstream"
	TypeInternal   Type = "internal"
)

// Severity only drives observability (log level and error capture). It never
// changes control flow.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarn     Severity = "warn"
	SeverityCritical Severity = "critical"
)

type AppError struct {
	Type     Type           `json:"type"`
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	Details  map[string]any `json:"details,omitempty"`
	Severity Severity       `json:"severity"`
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func (e *AppError) Is(code string) bool {
	return e != nil && e.Code == code
}

func (e *AppError) WithDetail(key string, value any) *AppError {
	if e == nil {
		return nil
	}

	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value

	clone := *e
	clone.Details = details
	return &clone
}

// New builds an error for one of the registered codes. Unregistered codes are
// treated as critical internal errors.
func New(code, message string, details map[string]any) *AppError {
	kind, ok := registry[code]
	if !ok {
		kind = kindSpec{errType: TypeInternal, severity: SeverityCritical}
	}

	return &AppError{
		Type:     kind.errType,
		Code:     code,
		Message:  message,
		Details:  details,
		Severity: kind.severity,
	}
}

func NewInternal(code, message string, details map[string]any) *AppError {
	return &AppError{
		Type:     TypeInternal,
		Code:     code,
		Message:  message,
		Details:  details,
		Severity: SeverityCritical,
	}
}

func NewValidation(code, message string, details map[string]any) *AppError {
	return &AppError{
		Type:     TypeValidation,
		Code:     code,
		Message:  message,
		Details:  details,
		Severity: SeverityInfo,
	}
}

func NewNotFound(code, message string, details map[string]any) *AppError {
	return &AppError{
		Type:     TypeNotFound,
		Code:     code,
		Message:  message,
		Details:  details,
		Severity: SeverityInfo,
	}
}

func NewConflict(code, message string, details map[string]any) *AppError {
	return &AppError{
		Type:     TypeConflict,
		Code:     code,
		Message:  message,
		Details:  details,
		Severity: SeverityWarn,
	}
}

// HasCode reports whether err is an *AppError carrying code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return false
	}
	return appErr.Code == code
}
