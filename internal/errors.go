package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
	ErrorTypeExternal     ErrorType = "EXTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidBody      ErrorCode = "INVALID_BODY"
	ErrCodeMissingFields    ErrorCode = "MISSING_FIELDS"
	ErrCodeMotivoRequired   ErrorCode = "MOTIVO_REQUIRED"
	ErrCodeUnknownCatalog   ErrorCode = "UNKNOWN_CATALOG"
	ErrCodePayloadTooLarge  ErrorCode = "PAYLOAD_TOO_LARGE"

	ErrCodeAuthMissing ErrorCode = "AUTH_MISSING"

	ErrCodeAccessRestricted     ErrorCode = "ACCESS_RESTRICTED"
	ErrCodeUpstreamUnauthorized ErrorCode = "UPSTREAM_UNAUTHORIZED"
	ErrCodeUpstreamError        ErrorCode = "UPSTREAM_ERROR"
	ErrCodeUpstreamUnreachable  ErrorCode = "UPSTREAM_UNREACHABLE"
	ErrCodeUpstreamInvalid      ErrorCode = "UPSTREAM_INVALID_RESPONSE"

	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// GetDetailedMessage joins field-level validation messages; it is what ends up in
// the envelope's message.
func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewUpstreamError describes a failure reported by (or while reaching) the backend.
// The status is the one the client will see.
func NewUpstreamError(status int, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeExternal,
		Code:       code,
		Message:    message,
		StatusCode: status,
	}
}

var (
	ErrAuthMissing      = NewUnauthorizedError("Token no proporcionado", ErrCodeAuthMissing)
	ErrInvalidBody      = NewValidationError("Cuerpo de la solicitud inválido", ErrCodeInvalidBody)
	ErrInvalidID        = NewValidationError("Identificador inválido", ErrCodeValidationFailed)
	ErrMotivoRequired   = NewValidationFieldError("motivo", "El motivo de la baja es obligatorio", ErrCodeMotivoRequired)
	ErrMissingFields    = NewValidationError("Faltan campos obligatorios", ErrCodeMissingFields)
	ErrUnknownCatalog   = &AppError{Type: ErrorTypeValidation, Code: ErrCodeUnknownCatalog, Message: "Catálogo desconocido", StatusCode: http.StatusNotFound}
	ErrPayloadTooLarge  = &AppError{Type: ErrorTypeValidation, Code: ErrCodePayloadTooLarge, Message: "El archivo excede el tamaño permitido", StatusCode: http.StatusRequestEntityTooLarge}
	ErrAccessRestricted = NewForbiddenError("No tiene permisos para acceder a este recurso", ErrCodeAccessRestricted)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
