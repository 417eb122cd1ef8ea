// Package response writes the versioned JSON envelope for handlers that sit
// outside huma: plain chi routes, the router's 404/405 handlers and
// middleware rejections.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	domainerrors "github.com/listenupapp/staff-directory/internal/errors"
	"github.com/listenupapp/staff-directory/internal/store"
)

// Version is the envelope version clients check before decoding.
const Version = 1

// Envelope is the response body of every JSON endpoint.
type Envelope struct {
	Version int        `json:"v"`
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody is the error member of a failed envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Success wraps data in a successful envelope.
func Success(data any) Envelope {
	return Envelope{Version: Version, Success: true, Data: data}
}

// Failure wraps an error body in a failed envelope.
func Failure(body ErrorBody) Envelope {
	return Envelope{Version: Version, Success: false, Error: &body}
}

// JSON writes data with the given status. Statuses of 400 and above are
// written as failures carrying a generic message.
func JSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	env := Success(data)
	if status >= http.StatusBadRequest {
		env = Failure(ErrorBody{Code: codeForStatus(status), Message: http.StatusText(status)})
	}
	write(w, status, env, logger)
}

// OK writes a 200 success envelope.
func OK(w http.ResponseWriter, data any, logger *slog.Logger) {
	write(w, http.StatusOK, Success(data), logger)
}

// Text writes a text/plain body.
func Text(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// Error writes a failed envelope for err. Domain and store errors keep their
// status and message; anything else is logged and reported as INTERNAL.
func Error(w http.ResponseWriter, err error, logger *slog.Logger) {
	status, body := Describe(err)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.Error("unhandled error", slog.String("error", err.Error()))
	}
	write(w, status, Failure(body), logger)
}

// TooManyRequests writes a 429 failure.
func TooManyRequests(w http.ResponseWriter, message string, logger *slog.Logger) {
	write(w, http.StatusTooManyRequests, Failure(ErrorBody{Code: "RATE_LIMITED", Message: message}), logger)
}

// Describe maps err to a status and error body.
func Describe(err error) (int, ErrorBody) {
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		return domainErr.HTTPStatus(), ErrorBody{
			Code:    string(domainErr.Code),
			Message: domainErr.Message,
			Details: domainErr.Details,
		}
	}

	var storeErr *store.Error
	if errors.As(err, &storeErr) {
		return storeErr.HTTPCode(), ErrorBody{Code: codeForStatus(storeErr.HTTPCode()), Message: storeErr.Message}
	}

	return http.StatusInternalServerError, ErrorBody{
		Code:    string(domainerrors.CodeInternal),
		Message: "internal server error",
	}
}

func write(w http.ResponseWriter, status int, env Envelope, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil && logger != nil {
		logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return string(domainerrors.CodeValidation)
	case http.StatusUnauthorized:
		return string(domainerrors.CodeUnauthorized)
	case http.StatusForbidden:
		return string(domainerrors.CodeForbidden)
	case http.StatusNotFound:
		return string(domainerrors.CodeNotFound)
	case http.StatusMethodNotAllowed:
		return string(domainerrors.CodeMethodNotAllowed)
	case http.StatusConflict:
		return string(domainerrors.CodeAlreadyExists)
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	default:
		return string(domainerrors.CodeInternal)
	}
}
