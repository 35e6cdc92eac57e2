package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAPIError_Defaults(t *testing.T) {
	e := NewAPIError("", "", http.StatusInternalServerError, nil, "")
	assert.Equal(t, fallbackMessage, e.Message())
	assert.Equal(t, CodeUnknown, e.Code())
	assert.Equal(t, 500, e.Status())
	assert.Nil(t, e.Details())
	assert.Equal(t, "UNKNOWN (500): An unexpected error occurred", e.Error())
}

func TestAPIError_Predicates(t *testing.T) {
	tests := []struct {
		status                          int
		unauthorized, forbidden, nf, rl bool
	}{
		{401, true, false, false, false},
		{403, false, true, false, false},
		{404, false, false, true, false},
		{429, false, false, false, true},
		{500, false, false, false, false},
	}
	for _, tt := range tests {
		e := NewAPIError("x", "", tt.status, nil, "")
		assert.Equal(t, tt.unauthorized, e.IsUnauthorized(), "status %d", tt.status)
		assert.Equal(t, tt.forbidden, e.IsForbidden(), "status %d", tt.status)
		assert.Equal(t, tt.nf, e.IsNotFound(), "status %d", tt.status)
		assert.Equal(t, tt.rl, e.IsRateLimited(), "status %d", tt.status)
	}
}

func TestAPIError_DetailsAreCopied(t *testing.T) {
	details := json.RawMessage(`{"field":"email"}`)
	e := NewAPIError("bad", "VALIDATION", 400, details, "req-1")
	details[2] = 'X'

	got := e.Details()
	assert.JSONEq(t, `{"field":"email"}`, string(got))
	got[2] = 'Y'
	assert.JSONEq(t, `{"field":"email"}`, string(e.Details()))
	assert.Contains(t, e.Error(), "[request req-1]")
}

func TestErrorFromBody_MessagePrecedence(t *testing.T) {
	e := errorFromBody(400, []byte(`{"success":false,"message":"Bad input","error":"ignored","code":"BAD"}`), "")
	assert.Equal(t, "Bad input", e.Message())
	assert.Equal(t, "BAD", e.Code())

	e = errorFromBody(400, []byte(`{"error":"Only error"}`), "")
	assert.Equal(t, "Only error", e.Message())
	assert.Equal(t, CodeUnknown, e.Code())

	e = errorFromBody(400, []byte(`{"error":{"message":"Nested"}}`), "")
	assert.Equal(t, "Nested", e.Message())

	e = errorFromBody(502, []byte(`<html>bad gateway</html>`), "hdr-1")
	assert.Equal(t, fallbackMessage, e.Message())
	assert.Equal(t, "hdr-1", e.RequestID())

	e = errorFromBody(409, []byte(`{"message":"dup","requestId":"body-1"}`), "hdr-1")
	assert.Equal(t, "body-1", e.RequestID())
}
