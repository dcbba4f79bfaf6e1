package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotConfigured is returned on first use when gateway credentials are
// missing from the environment. Not recoverable at the call site.
var ErrNotConfigured = errors.New("ligdicash credentials not configured")

// GatewayError is a non-2xx response from the payment gateway. Message holds
// the `message` field when the body parses as JSON, else the raw body text.
type GatewayError struct {
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("ligdicash error (status %d): %s", e.StatusCode, e.Message)
}

func newGatewayError(statusCode int, body []byte) *GatewayError {
	msg := strings.TrimSpace(string(body))
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		msg = parsed.Message
	}
	return &GatewayError{StatusCode: statusCode, Message: msg}
}
