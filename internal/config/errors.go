package config

import (
	"errors"
	"fmt"
)

// Sentinel errors for internal use.
var (
	ErrAuthentication = errors.New("invalid API key")
	ErrRateLimited    = errors.New("rate limit exceeded")
	ErrServer         = errors.New("upstream server error")
	ErrTransport      = errors.New("transport failure")
	ErrUpstream       = errors.New("upstream API error")
	ErrInvalidNetwork = errors.New("unsupported network")
	ErrInvalidAddress = errors.New("invalid wallet address")
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrPaginationCap  = errors.New("pagination page cap exceeded")
)

// APIError wraps an upstream API failure with the HTTP (or JSON-RPC) status
// code that triggered it. Kind is one of the sentinel errors above, so callers
// can classify with errors.Is.
type APIError struct {
	Status  int
	Message string
	Kind    error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.Kind }

// NewAPIError creates an APIError classified under the given sentinel.
func NewAPIError(kind error, status int, message string) *APIError {
	return &APIError{Status: status, Message: message, Kind: kind}
}

// IsAPIError returns true if err is (or wraps) an APIError.
func IsAPIError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae)
}

// Error codes — shared with the HTTP API via error responses.
const (
	ErrorInvalidNetwork = "ERROR_INVALID_NETWORK"
	ErrorInvalidAddress = "ERROR_INVALID_ADDRESS"
	ErrorScanFailed     = "ERROR_SCAN_FAILED"
	ErrorRateLimited    = "ERROR_RATE_LIMITED"
	ErrorAuthentication = "ERROR_AUTHENTICATION"
	ErrorInternal       = "ERROR_INTERNAL"
)
