package api

import (
	"encoding/json"
	"net/http"

	"github.com/maksimkurb/njupt-wifi-login/src/internal/log"
)

// ErrorCode identifies an API failure in the error envelope.
type ErrorCode string

const (
	ErrCodeInvalidRequest     ErrorCode = "invalid_request"
	ErrCodeForbidden          ErrorCode = "forbidden"
	ErrCodeInternalError      ErrorCode = "internal_error"
	ErrCodeServiceUnavailable ErrorCode = "service_unavailable"
)

// statusFor maps each code to the HTTP status it is sent with.
var statusFor = map[ErrorCode]int{
	ErrCodeInvalidRequest:     http.StatusBadRequest,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeInternalError:      http.StatusInternalServerError,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
}

type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

// WriteError sends {"error": {...}} with the status that belongs to code.
func WriteError(w http.ResponseWriter, code ErrorCode, message string) {
	status, ok := statusFor[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: APIError{Code: code, Message: message}}); err != nil {
		log.Debugf("Failed to write error response: %v", err)
	}
}

func WriteInvalidRequest(w http.ResponseWriter, message string) {
	WriteError(w, ErrCodeInvalidRequest, message)
}

func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, ErrCodeForbidden, message)
}

func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, ErrCodeInternalError, message)
}

// WriteServiceUnavailable is used while the login loop is not running.
func WriteServiceUnavailable(w http.ResponseWriter, message string) {
	WriteError(w, ErrCodeServiceUnavailable, message)
}
