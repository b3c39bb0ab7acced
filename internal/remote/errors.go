package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is the single error shape produced by the client.
// Status is 0 for transport and decoding failures.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether the request never produced an HTTP status
func (e *APIError) IsTransport() bool {
	return e.Status == 0
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not an APIError
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// errorBody covers the error payloads the blog API returns
type errorBody struct {
	Detail         string   `json:"detail"`
	Message        string   `json:"message"`
	NonFieldErrors []string `json:"non_field_errors"`
}

// genericMessage is used when the error body carries nothing usable
func genericMessage(status int) string {
	return fmt.Sprintf("HTTP error, status %d", status)
}

// newResponseError builds an APIError from a non-success response body
func newResponseError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Message: genericMessage(status)}

	var parsed errorBody
	if len(body) == 0 || json.Unmarshal(body, &parsed) != nil {
		return apiErr
	}

	switch {
	case parsed.Detail != "":
		apiErr.Message = parsed.Detail
	case parsed.Message != "":
		apiErr.Message = parsed.Message
	case len(parsed.NonFieldErrors) > 0 && parsed.NonFieldErrors[0] != "":
		apiErr.Message = parsed.NonFieldErrors[0]
	}
	return apiErr
}

// newTransportError wraps a failure that happened before or while reading a response
func newTransportError(op string, err error) *APIError {
	return &APIError{
		Message: fmt.Sprintf("%s: %v", op, err),
		Err:     err,
	}
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}
