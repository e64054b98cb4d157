package types

import (
	"errors"
	"time"
)

const (
	// DefaultBaseURL is the default YNAB API base URL
	DefaultBaseURL = "https://api.ynab.com/v1"

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second

	// UserAgent is the user agent string
	UserAgent = "ynab-go/1.0.0"
)

// Common errors
var (
	// ErrNotAuthenticated is returned when no access token is configured
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSessionExpired is returned when the stored access token has expired
	ErrSessionExpired = errors.New("session expired")
)
