package ynab

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	internalTypes "github.com/eshaffer321/ynab-go/internal/types"
)

var (
	// ErrNotAuthenticated is returned when no access token is configured
	ErrNotAuthenticated = internalTypes.ErrNotAuthenticated

	// ErrSessionExpired is returned when the access token has expired
	ErrSessionExpired = internalTypes.ErrSessionExpired

	// ErrSplitMismatch is returned when a split's lines do not add up to the
	// parent amount
	ErrSplitMismatch = errors.New("sub-transaction amounts do not equal transaction amount")
)

// TransportError is a request that never produced a complete response
type TransportError = internalTypes.TransportError

// APIError is the structured failure the API returns as {"error": {...}}
type APIError struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Detail     string `json:"detail"`
	StatusCode int    `json:"-"`
	Operation  string `json:"-"`
	RequestID  string `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s %s: %s", e.Operation, e.ID, e.Name, e.Detail)
	}
	return fmt.Sprintf("%s: %s %s", e.Operation, e.ID, e.Name)
}

// ProtocolError is a complete response whose body does not have the shape
// the operation expects
type ProtocolError struct {
	Operation  string
	StatusCode int
	RequestID  string
	// Body is the start of the raw response
	Body string
	Err  error
}

// Error implements the error interface
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: unexpected response (status %d): %v", e.Operation, e.StatusCode, e.Err)
}

// Unwrap returns the decode or validation error
func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// ValidationError represents validation errors
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []*ValidationError `json:"errors"`
}

// Error implements the error interface
func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d validation errors occurred", len(e.Errors))
}

// IsAPIError reports whether err carries a structured API failure
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// IsProtocolError reports whether err is a response the client could not
// understand
func IsProtocolError(err error) bool {
	var protoErr *ProtocolError
	return errors.As(err, &protoErr)
}

// IsNotFound reports whether err is an API "404" failure
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return strings.HasPrefix(apiErr.ID, "404") || apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsAuthError checks if error is authentication related
func IsAuthError(err error) bool {
	if errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrSessionExpired) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || strings.HasPrefix(apiErr.ID, "401")
	}
	return false
}

// IsRetryable checks if error is retryable
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == http.StatusTooManyRequests
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		if errors.Is(err, context.Canceled) {
			return false
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return true
		}
		var netErr net.Error
		return errors.As(err, &netErr) && netErr.Timeout()
	}

	return false
}
