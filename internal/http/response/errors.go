package response

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/materes/reservations/internal/domain"
)

// ErrorResponse represents a structured JSON error response. Category
// classifies the outcome for the caller: "warning" for refused
// transitions, "error" otherwise.
type ErrorResponse struct {
	Error    string `json:"error"`
	Code     string `json:"code,omitempty"`
	Category string `json:"category"`
}

// WriteError writes a structured JSON error response
func WriteError(w http.ResponseWriter, statusCode int, message string, code string) {
	writeWithCategory(w, statusCode, message, code, "error")
}

// WriteWarning writes a non-fatal refusal (illegal transition etc.)
func WriteWarning(w http.ResponseWriter, statusCode int, message string, code string) {
	writeWithCategory(w, statusCode, message, code, "warning")
}

func writeWithCategory(w http.ResponseWriter, statusCode int, message, code, category string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errResp := ErrorResponse{
		Error:    message,
		Code:     code,
		Category: category,
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		log.Printf("failed to encode error response: %v", err)
	}
}

// Common error codes
const (
	CodeInvalidInput      = "INVALID_INPUT"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeAlreadyConfirmed  = "ALREADY_CONFIRMED"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeRateLimit         = "RATE_LIMIT_EXCEEDED"
	CodeInternalError     = "INTERNAL_ERROR"
)

// Convenience functions for common errors
func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, CodeInvalidInput)
}

func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message, CodeUnauthorized)
}

func Forbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message, CodeForbidden)
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message, CodeInternalError)
}

func RateLimit(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, message, CodeRateLimit)
}

// FromDomain maps a lifecycle error onto the right HTTP status and
// code. Transition refusals are warnings (409), not server failures.
func FromDomain(w http.ResponseWriter, err error) {
	var (
		validationErr *domain.ValidationError
		notFoundErr   *domain.NotFoundError
		confirmedErr  *domain.AlreadyConfirmedError
		transitionErr *domain.InvalidTransitionError
	)

	switch {
	case errors.As(err, &validationErr):
		BadRequest(w, validationErr.Error())
	case errors.As(err, &notFoundErr):
		NotFound(w, notFoundErr.Error())
	case errors.As(err, &confirmedErr):
		WriteWarning(w, http.StatusConflict, confirmedErr.Error(), CodeAlreadyConfirmed)
	case errors.As(err, &transitionErr):
		WriteWarning(w, http.StatusConflict, transitionErr.Error(), CodeInvalidTransition)
	default:
		InternalError(w, "Something went wrong. Please try again.")
	}
}
