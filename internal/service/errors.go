package service

import (
	"errors"
	"fmt"
)

// Kind classifies a ServiceError for callers deciding how to react
type Kind string

const (
	KindValidation   Kind = "validation"
	KindConflict     Kind = "conflict"
	KindNotFound     Kind = "not_found"
	KindDenied       Kind = "denied"
	KindBusinessRule Kind = "business_rule"
	KindSystem       Kind = "system"
)

// ServiceError represents a business logic error with a code
type ServiceError struct {
	Err     error
	Message string
	Code    string
	Kind    Kind
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeInvalidRequest         = "invalid_request"
	ErrCodeIdempotencyKeyConflict = "idempotency_key_conflict"
	ErrCodeConsentNotFound        = "consent_not_found"
	ErrCodePaymentNotFound        = "payment_not_found"
	ErrCodeConsentExpired         = "consent_expired"
	ErrCodeForbidden              = "forbidden"
	ErrCodeLimitExceeded          = "limit_exceeded"
	ErrCodeCurrencyMismatch       = "currency_mismatch"
	ErrCodeAmountExceedsConsent   = "amount_exceeds_consent"
	ErrCodeInternalError          = "internal_error"
)

// IsKind reports whether err is a ServiceError of the given kind
func IsKind(err error, kind Kind) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr) && svcErr.Kind == kind
}

// CodeOf returns the code of a ServiceError, or empty
func CodeOf(err error) string {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return ""
}

func invalidRequest(message string) *ServiceError {
	return &ServiceError{Kind: KindValidation, Code: ErrCodeInvalidRequest, Message: message}
}

func forbidden(message string) *ServiceError {
	return &ServiceError{Kind: KindDenied, Code: ErrCodeForbidden, Message: message}
}

func businessRule(code, message string) *ServiceError {
	return &ServiceError{Kind: KindBusinessRule, Code: code, Message: message}
}

func systemError(message string, err error) *ServiceError {
	return &ServiceError{Kind: KindSystem, Code: ErrCodeInternalError, Message: message, Err: err}
}
