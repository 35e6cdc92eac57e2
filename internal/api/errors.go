package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Machine-readable error codes produced by the client itself. Backend codes
// pass through unchanged.
const (
	CodeUnknown         = "UNKNOWN"
	CodeTimeout         = "TIMEOUT"
	CodeNetworkError    = "NETWORK_ERROR"
	CodeInvalidResponse = "INVALID_RESPONSE"
)

// StatusNetworkError is reported when no response was received at all.
const StatusNetworkError = 0

const fallbackMessage = "An unexpected error occurred"

// APIError is the single error type returned by Client for failed exchanges.
// It is immutable once constructed.
type APIError struct {
	message   string
	code      string
	status    int
	details   json.RawMessage
	requestID string
	cause     error
}

// NewAPIError builds an APIError, defaulting the message and code when the
// backend omitted them.
func NewAPIError(message, code string, status int, details json.RawMessage, requestID string) *APIError {
	if message == "" {
		message = fallbackMessage
	}
	if code == "" {
		code = CodeUnknown
	}
	var dup json.RawMessage
	if len(details) > 0 {
		dup = append(json.RawMessage(nil), details...)
	}
	return &APIError{
		message:   message,
		code:      code,
		status:    status,
		details:   dup,
		requestID: requestID,
	}
}

func newTransportError(code string, status int, message, requestID string, cause error) *APIError {
	e := NewAPIError(message, code, status, nil, requestID)
	e.cause = cause
	return e
}

// Error implements error.
func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s (%d): %s", e.code, e.status, e.message)
	if e.requestID != "" {
		msg += " [request " + e.requestID + "]"
	}
	return msg
}

// Unwrap exposes the transport cause, if any.
func (e *APIError) Unwrap() error { return e.cause }

// Message returns the human-readable message.
func (e *APIError) Message() string { return e.message }

// Code returns the machine-readable code.
func (e *APIError) Code() string { return e.code }

// Status returns the HTTP status, 408 for timeouts and 0 for network errors.
func (e *APIError) Status() int { return e.status }

// Details returns a copy of the opaque details payload.
func (e *APIError) Details() json.RawMessage {
	if len(e.details) == 0 {
		return nil
	}
	return append(json.RawMessage(nil), e.details...)
}

// RequestID returns the backend request id used for support correlation.
func (e *APIError) RequestID() string { return e.requestID }

func (e *APIError) IsUnauthorized() bool { return e.status == http.StatusUnauthorized }
func (e *APIError) IsForbidden() bool    { return e.status == http.StatusForbidden }
func (e *APIError) IsNotFound() bool     { return e.status == http.StatusNotFound }
func (e *APIError) IsRateLimited() bool  { return e.status == http.StatusTooManyRequests }

// IsTimeout reports whether the request exceeded its deadline.
func (e *APIError) IsTimeout() bool { return e.code == CodeTimeout }

// errorBody is the backend error envelope. Every field is optional.
type errorBody struct {
	Success   *bool           `json:"success"`
	Message   string          `json:"message"`
	Error     json.RawMessage `json:"error"`
	Code      string          `json:"code"`
	Details   json.RawMessage `json:"details"`
	RequestID string          `json:"requestId"`
}

// errorFromBody maps a non-2xx response to an APIError. The message prefers
// the backend "message" field, then "error", then the generic fallback.
func errorFromBody(status int, body []byte, headerRequestID string) *APIError {
	var parsed errorBody
	if len(body) > 0 {
		_ = json.Unmarshal(body, &parsed)
	}
	message := parsed.Message
	if message == "" {
		message = errorFieldMessage(parsed.Error)
	}
	requestID := parsed.RequestID
	if requestID == "" {
		requestID = headerRequestID
	}
	return NewAPIError(message, parsed.Code, status, parsed.Details, requestID)
}

// errorFieldMessage accepts "error" as either a string or an object with a
// message field.
func errorFieldMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Message
	}
	return ""
}
