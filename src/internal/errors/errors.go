// Package errors provides domain-specific error types for njupt-wifi-login.
//
// Every failure the login loop can observe carries an ErrorCode, so callers
// classify outcomes with the standard errors.Is against the sentinel values
// below instead of matching message strings.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a category of error that can occur in the application.
type ErrorCode string

const (
	// ErrCodeConfig indicates a configuration-related error.
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"

	// ErrCodeValidation indicates a validation error.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"

	// ErrCodeInterface indicates that the configured interface is missing or has no usable address.
	ErrCodeInterface ErrorCode = "INTERFACE_ERROR"

	// ErrCodeDNS indicates that a hostname could not be resolved.
	ErrCodeDNS ErrorCode = "DNS_ERROR"

	// ErrCodeNetwork indicates a transport failure (timeout, refused connection, bad response).
	ErrCodeNetwork ErrorCode = "NETWORK_ERROR"

	// ErrCodePassword indicates that the stored password could not be recovered.
	ErrCodePassword ErrorCode = "PASSWORD_ERROR"

	// ErrCodeOffHours indicates that the portal refused the login because of the nightly blackout.
	ErrCodeOffHours ErrorCode = "OFF_HOURS"

	// ErrCodeServerRejected indicates that the portal refused the login with a reason.
	ErrCodeServerRejected ErrorCode = "SERVER_REJECTED"

	// ErrCodeAuthFailed indicates that the login outcome could not be confirmed.
	ErrCodeAuthFailed ErrorCode = "AUTHENTICATION_FAILED"

	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Sentinels for errors.Is. Matching is done by code only.
var (
	ErrConfig         = New(ErrCodeConfig, "configuration error")
	ErrValidation     = New(ErrCodeValidation, "validation error")
	ErrInterface      = New(ErrCodeInterface, "interface not found")
	ErrDNS            = New(ErrCodeDNS, "dns resolution failed")
	ErrNetwork        = New(ErrCodeNetwork, "network error")
	ErrPassword       = New(ErrCodePassword, "password unavailable")
	ErrOffHours       = New(ErrCodeOffHours, "login refused during off hours")
	ErrServerRejected = New(ErrCodeServerRejected, "server rejected login")
	ErrAuthFailed     = New(ErrCodeAuthFailed, "authentication failed")
	ErrInternal       = New(ErrCodeInternal, "internal error")
)

// Error is a coded domain error. Two Errors match under errors.Is when their
// codes are equal, so the sentinels above work as code checks.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code
}

func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf returns the code of the outermost *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}

func NewConfigError(message string, cause error) *Error {
	return Wrap(ErrCodeConfig, message, cause)
}

func NewValidationError(message string, cause error) *Error {
	return Wrap(ErrCodeValidation, message, cause)
}

// NewInterfaceError reports a missing interface or one without a usable address.
func NewInterfaceError(message string, cause error) *Error {
	return Wrap(ErrCodeInterface, message, cause)
}

func NewDNSError(message string, cause error) *Error {
	return Wrap(ErrCodeDNS, message, cause)
}

func NewNetworkError(message string, cause error) *Error {
	return Wrap(ErrCodeNetwork, message, cause)
}

func NewPasswordError(message string, cause error) *Error {
	return Wrap(ErrCodePassword, message, cause)
}

// NewServerRejectedError carries the portal's rejection reason verbatim as the message.
func NewServerRejectedError(reason string) *Error {
	return New(ErrCodeServerRejected, reason)
}

func NewInternalError(message string, cause error) *Error {
	return Wrap(ErrCodeInternal, message, cause)
}
