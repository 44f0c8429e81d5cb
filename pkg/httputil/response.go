// Package httputil holds the JSON envelope shared by service handlers.
package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/errors"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/logger"
)

// Response is the JSON envelope for every API response.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse is the error half of Response.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already on the wire; an encode failure cannot be reported.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err to a status and error code. 5xx responses are logged
// with the request-scoped logger when one is present, else with fallback.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	requestID := logger.CorrelationIDFromContext(r.Context())

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Status >= http.StatusInternalServerError {
			logServerError(r, err, fallback)
		}
		WriteJSON(w, appErr.Status, Response{
			Error: &ErrorResponse{Code: appErr.Code, Message: appErr.Message, RequestID: requestID},
		})
		return
	}

	status := apperrors.HTTPStatus(err)
	resp := &ErrorResponse{RequestID: requestID}
	switch status {
	case http.StatusNotFound:
		resp.Code, resp.Message = "NOT_FOUND", "resource not found"
	case http.StatusBadRequest:
		resp.Code, resp.Message = "INVALID_INPUT", err.Error()
	case http.StatusUnauthorized:
		resp.Code, resp.Message = "UNAUTHORIZED", "authentication required"
	case http.StatusForbidden:
		resp.Code, resp.Message = "FORBIDDEN", "access denied"
	case http.StatusConflict:
		resp.Code, resp.Message = "CONFLICT", "resource conflict"
	case http.StatusServiceUnavailable:
		resp.Code, resp.Message = "SERVICE_UNAVAILABLE", "a dependency is unavailable"
		logServerError(r, err, fallback)
	default:
		status = http.StatusInternalServerError
		resp.Code, resp.Message = "INTERNAL_ERROR", "an internal error occurred"
		logServerError(r, err, fallback)
	}

	WriteJSON(w, status, Response{Error: resp})
}

func logServerError(r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() && fallback != nil {
		l = fallback
	}
	l.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
}
