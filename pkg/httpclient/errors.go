package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/errors"
)

type downstreamError struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ParseResponseError consumes and closes resp.Body and maps the downstream
// status onto an AppError. Bodies in the platform's {"error":{...}} envelope
// keep their message.
func ParseResponseError(resp *http.Response, service string) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s returned %d: read body: %w", service, resp.StatusCode, err)
	}

	message := http.StatusText(resp.StatusCode)
	code := ""
	var env downstreamError
	if json.Unmarshal(body, &env) == nil && env.Error != nil {
		message, code = env.Error.Message, env.Error.Code
	} else if len(body) > 0 && len(body) <= 512 {
		message = string(body)
	}
	return mapStatus(resp.StatusCode, code, service+": "+message)
}

func mapStatus(status int, code, message string) error {
	switch {
	case status == http.StatusNotFound:
		return &apperrors.AppError{Code: "NOT_FOUND", Message: message, Status: status, Err: apperrors.ErrNotFound}
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return apperrors.InvalidInput(message)
	case status == http.StatusUnauthorized:
		return apperrors.Unauthorized(message)
	case status == http.StatusForbidden:
		return apperrors.Forbidden(message)
	case status == http.StatusConflict:
		return apperrors.Conflict(message)
	case status == http.StatusServiceUnavailable, status == http.StatusTooManyRequests:
		return apperrors.ServiceUnavailable(message)
	case status >= http.StatusInternalServerError:
		if code == "" {
			code = "UPSTREAM_ERROR"
		}
		return &apperrors.AppError{Code: code, Message: message, Status: http.StatusBadGateway, Err: apperrors.ErrInternal}
	default:
		if code == "" {
			code = "UPSTREAM_ERROR"
		}
		return &apperrors.AppError{Code: code, Message: message, Status: status}
	}
}
