package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// APIErrorResponse mirrors the httputil.ErrorResponse structure produced by
// the storefront API surface. It is used to parse structured error bodies
// when calling the API from client-side state stores.
type APIErrorResponse struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an appropriate AppError. If the response body matches the standard
// envelope format, the code and message are preserved. Otherwise a generic
// error is returned with the status code and raw body.
//
// The caller should only invoke this when resp.StatusCode indicates an error
// (i.e., not 2xx). The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("api returned status %d (failed to read body: %w)", resp.StatusCode, err)
	}

	var parsed APIErrorResponse
	if json.Unmarshal(bodyBytes, &parsed) == nil && parsed.Error != nil {
		return mapAPIError(resp.StatusCode, parsed.Error.Code, parsed.Error.Message)
	}

	// Fallback: unstructured error body.
	return fmt.Errorf("api returned status %d: %s", resp.StatusCode, string(bodyBytes))
}

// mapAPIError translates an API status and error code into an AppError that
// preserves the error semantics across the client/server boundary.
func mapAPIError(status int, code, message string) error {
	switch {
	case status == http.StatusNotFound:
		return &apperrors.AppError{
			Code:    code,
			Message: message,
			Status:  http.StatusNotFound,
			Err:     apperrors.ErrNotFound,
		}
	case status == http.StatusBadRequest:
		return apperrors.InvalidInput(message)
	case status == http.StatusUnauthorized:
		return apperrors.Unauthorized(message)
	case status == http.StatusServiceUnavailable:
		return &apperrors.AppError{
			Code:    code,
			Message: message,
			Status:  http.StatusServiceUnavailable,
			Err:     apperrors.ErrServiceUnavail,
		}
	case status >= 500:
		return fmt.Errorf("api server error (%d/%s): %s", status, code, message)
	default:
		return &apperrors.AppError{
			Code:    code,
			Message: message,
			Status:  status,
		}
	}
}
