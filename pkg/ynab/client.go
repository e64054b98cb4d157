package ynab

import (
	"context"
	"net/http"
	"time"

	"github.com/eshaffer321/ynab-go/internal/endpoint"
	"github.com/eshaffer321/ynab-go/internal/transport"
	internalTypes "github.com/eshaffer321/ynab-go/internal/types"
	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
)

const (
	// DefaultBaseURL is the default YNAB API base URL
	DefaultBaseURL = internalTypes.DefaultBaseURL

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = internalTypes.DefaultTimeout
)

// Client is the main YNAB API client
type Client struct {
	// Service interfaces
	User                  UserService
	Budgets               BudgetService
	Accounts              AccountService
	Categories            CategoryService
	Payees                PayeeService
	PayeeLocations        PayeeLocationService
	Months                MonthService
	Transactions          TransactionService
	ScheduledTransactions ScheduledTransactionService
	Auth                  AuthService

	// Internal fields
	baseURL    string
	httpClient *http.Client
	transport  Transport
	options    *ClientOptions
	session    *Session
}

// ClientOptions configures the client
type ClientOptions struct {
	// BaseURL overrides the default API base URL
	BaseURL string

	// HTTPClient allows using a custom HTTP client
	HTTPClient *http.Client

	// Timeout sets the HTTP client timeout
	Timeout time.Duration

	// Token is a personal access token or OAuth access token
	Token string

	// SessionFile path for session persistence
	SessionFile string

	// Logger for debug logging
	Logger Logger

	// RetryConfig enables retries. Off when nil.
	RetryConfig *RetryConfig

	// RateLimiter is waited on before every request
	RateLimiter RateLimiter

	// Hooks for observability
	Hooks *Hooks

	// SentryDSN enables Sentry error tracking when set
	SentryDSN string

	// SentryOptions allows custom Sentry configuration
	SentryOptions *sentry.ClientOptions
}

// RetryConfig configures retry behavior
type RetryConfig = internalTypes.RetryConfig

// Hooks provides lifecycle hooks for requests
type Hooks = internalTypes.Hooks

// Logger interface for logging
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// RateLimiter interface for rate limiting
type RateLimiter interface {
	Wait(ctx context.Context) error
}

// Transport executes a request and returns the complete response
type Transport interface {
	Do(ctx context.Context, req *transport.Request) (*transport.Response, error)
	SetAuth(token string)
	SetSession(session *internalTypes.Session)
}

// Session is the access token in use
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId,omitempty"`
	SavedAt   time.Time `json:"savedAt"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// NewClient creates a new YNAB client
func NewClient(opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}

	// Initialize Sentry if DSN is provided
	if opts.SentryDSN != "" || opts.SentryOptions != nil {
		sentryOpts := sentry.ClientOptions{}

		if opts.SentryOptions != nil {
			sentryOpts = *opts.SentryOptions
		}

		// Override DSN if provided separately
		if opts.SentryDSN != "" {
			sentryOpts.Dsn = opts.SentryDSN
		}

		if sentryOpts.Environment == "" {
			sentryOpts.Environment = "production"
		}

		if err := sentry.Init(sentryOpts); err != nil {
			// Log error but don't fail client creation
			if opts.Logger != nil {
				opts.Logger.Error("Failed to initialize Sentry", "error", err)
			}
		}
	}

	// Set defaults
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: DefaultTimeout,
		}
	}

	if opts.Timeout > 0 {
		opts.HTTPClient.Timeout = opts.Timeout
	}

	transportOpts := &transport.Options{
		BaseURL:     opts.BaseURL,
		HTTPClient:  opts.HTTPClient,
		RetryConfig: opts.RetryConfig,
		Logger:      opts.Logger,
		Hooks:       opts.Hooks,
	}

	c := newClient(opts, transport.NewRESTTransport(transportOpts))

	if opts.Token != "" {
		if err := c.Auth.SetToken(opts.Token); err != nil {
			return nil, err
		}
	}

	// Load session if file specified and no token was given
	if opts.Token == "" && opts.SessionFile != "" {
		if err := c.Auth.LoadSession(opts.SessionFile); err != nil && opts.Logger != nil {
			opts.Logger.Warn("Failed to load session", "error", err)
		}
	}

	return c, nil
}

// NewClientWithToken creates a client with an access token
func NewClientWithToken(token string) (*Client, error) {
	return NewClient(&ClientOptions{
		Token: token,
	})
}

// newClient wires the services around t
func newClient(opts *ClientOptions, t Transport) *Client {
	c := &Client{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		transport:  t,
		options:    opts,
	}
	c.initServices()
	return c
}

// initServices initializes all service implementations
func (c *Client) initServices() {
	c.User = &userService{client: c}
	c.Budgets = &budgetService{client: c}
	c.Accounts = &accountService{client: c}
	c.Categories = &categoryService{client: c}
	c.Payees = &payeeService{client: c}
	c.PayeeLocations = &payeeLocationService{client: c}
	c.Months = &monthService{client: c}
	c.Transactions = &transactionService{client: c}
	c.ScheduledTransactions = &scheduledTransactionService{client: c}
	c.Auth = newAuthService(c)
}

// SetToken sets the access token
func (c *Client) SetToken(token string) error {
	return c.Auth.SetToken(token)
}

// GetSession returns the current session
func (c *Client) GetSession() *Session {
	return c.session
}

// Close flushes any pending Sentry events
func (c *Client) Close() {
	sentry.Flush(2 * time.Second)
}

// newRequest builds the request for the named route. ids fill the route's
// path placeholders in order.
func (c *Client) newRequest(operation string, query *endpoint.Query, body interface{}, ids ...string) (*transport.Request, error) {
	route, err := endpoint.Load(operation)
	if err != nil {
		return nil, err
	}
	path, err := route.Expand(ids...)
	if err != nil {
		return nil, errors.Wrap(err, "invalid request")
	}
	return &transport.Request{
		Operation: operation,
		Method:    route.Method,
		Path:      path,
		Query:     query.Encode(),
		Body:      body,
	}, nil
}

// call executes req and decodes its result into T
func call[T any](ctx context.Context, c *Client, req *transport.Request) (*T, error) {
	if c.options.RateLimiter != nil {
		if err := c.options.RateLimiter.Wait(ctx); err != nil {
			c.capture(ctx, req.Operation, "", err)
			return nil, errors.Wrap(err, "rate limiter")
		}
	}

	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		var transportErr *TransportError
		if errors.As(err, &transportErr) {
			c.capture(ctx, req.Operation, transportErr.RequestID, err)
		}
		return nil, err
	}

	result := Decode[T](req.Operation, resp.StatusCode, resp.Body).withRequestID(resp.RequestID)

	if violation, ok := result.Violation(); ok {
		c.logWarn("Unexpected YNAB response", "operation", req.Operation, "status", resp.StatusCode, "request_id", resp.RequestID, "error", violation.Err)
		c.capture(ctx, req.Operation, resp.RequestID, violation)
	}
	if failure, ok := result.Failure(); ok && failure.StatusCode >= 500 {
		c.capture(ctx, req.Operation, resp.RequestID, failure)
	}

	return result.Unwrap()
}

// capture reports err to Sentry with the operation and request id
func (c *Client) capture(ctx context.Context, operation, requestID string, err error) {
	report := func(scope *sentry.Scope) {
		scope.SetTag("ynab.operation", operation)
		if requestID != "" {
			scope.SetTag("ynab.request_id", requestID)
		}
	}

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			report(scope)
			hub.CaptureException(err)
		})
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		report(scope)
		sentry.CaptureException(err)
	})
}

func (c *Client) logWarn(msg string, keysAndValues ...interface{}) {
	if c.options.Logger != nil {
		c.options.Logger.Warn(msg, keysAndValues...)
	}
}

func (c *Client) logDebug(msg string, keysAndValues ...interface{}) {
	if c.options.Logger != nil {
		c.options.Logger.Debug(msg, keysAndValues...)
	}
}
