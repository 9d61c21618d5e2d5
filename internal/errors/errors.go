// Package errors defines the structured error responses of the HTTP
// boundary.
package errors

import (
	"net/http"

	"github.com/go-chi/render"
)

// APIError is the JSON error body returned to clients.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer so handlers can respond with
// render.Render(w, r, err).
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates an APIError.
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates an APIError carrying extra detail for the client.
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined errors for the extraction API.
var (
	ErrInvalidInput       = New(http.StatusBadRequest, "INVALID_INPUT", "Invalid input file")
	ErrTooManyRows        = New(http.StatusRequestEntityTooLarge, "TOO_MANY_ROWS", "Input file exceeds the row limit")
	ErrBatchTimeout       = New(http.StatusGatewayTimeout, "BATCH_TIMEOUT", "Extraction did not complete before the deadline")
	ErrInternalServer     = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Service temporarily unavailable")
)

// InvalidInputWithError attaches the concrete validation failure to the
// generic invalid-input response.
func InvalidInputWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, "INVALID_INPUT", "Invalid input file", err.Error())
}
