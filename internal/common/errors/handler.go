// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	"net/http"
)

// ErrorHandler writes StandardErrors as JSON API responses.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// ErrorResponse is the body of every failed JSON API call.
type ErrorResponse struct {
	Error  *StandardError    `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// HandleHTTPError normalizes err, logs it and writes the mapped status.
func (h *ErrorHandler) HandleHTTPError(w http.ResponseWriter, r *http.Request, err error) {
	h.write(w, r, AsStandardError(err), nil)
}

// HandleValidationError writes a 422 carrying per-field messages.
func (h *ErrorHandler) HandleValidationError(w http.ResponseWriter, r *http.Request, stdErr *StandardError, fields map[string]string) {
	h.write(w, r, stdErr, fields)
}

func (h *ErrorHandler) write(w http.ResponseWriter, r *http.Request, stdErr *StandardError, fields map[string]string) {
	status := HTTPStatus(stdErr.Code)
	h.logError(r, stdErr, status)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: stdErr, Fields: fields})
}

func (h *ErrorHandler) logError(r *http.Request, stdErr *StandardError, status int) {
	if h.logger == nil {
		return
	}
	h.logger.Error("Request failed", map[string]interface{}{
		"method":        r.Method,
		"path":          r.URL.Path,
		"status":        status,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"retries":       GetRetryCount(stdErr.Code),
		"errorCategory": GetErrorCategory(stdErr.Code),
	})
}
