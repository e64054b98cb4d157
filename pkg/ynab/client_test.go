package ynab

import (
	"context"
	"net/http"
	"testing"

	"github.com/eshaffer321/ynab-go/internal/endpoint"
	"github.com/eshaffer321/ynab-go/internal/transport"
	internalTypes "github.com/eshaffer321/ynab-go/internal/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTransport is a mock implementation of the Transport interface
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Do(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	args := m.Called(ctx, req)

	var resp *transport.Response
	if r := args.Get(0); r != nil {
		resp = r.(*transport.Response)
	}
	return resp, args.Error(1)
}

func (m *MockTransport) SetAuth(token string) {
	m.Called(token)
}

func (m *MockTransport) SetSession(session *internalTypes.Session) {
	m.Called(session)
}

// newTestClient wires a client around a fresh mock transport
func newTestClient() (*Client, *MockTransport) {
	mockTransport := new(MockTransport)
	return newClient(&ClientOptions{}, mockTransport), mockTransport
}

// respond builds a complete response with a fixed request id
func respond(status int, body string) *transport.Response {
	return &transport.Response{StatusCode: status, Body: []byte(body), RequestID: "req-123"}
}

// operation matches a request by its operation name
func operation(name string) interface{} {
	return mock.MatchedBy(func(req *transport.Request) bool {
		return req.Operation == name
	})
}

// captureRequest records the request passed to Do
func captureRequest(dst **transport.Request) func(mock.Arguments) {
	return func(args mock.Arguments) {
		*dst = args.Get(1).(*transport.Request)
	}
}

type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (l *recordingLogger) Info(msg string, keysAndValues ...interface{})  {}
func (l *recordingLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.warnings = append(l.warnings, msg)
}
func (l *recordingLogger) Error(msg string, keysAndValues ...interface{}) {}

type failingLimiter struct{ err error }

func (f failingLimiter) Wait(ctx context.Context) error { return f.err }

func TestClient_NewRequest(t *testing.T) {
	client, _ := newTestClient()

	query := &endpoint.Query{}
	query.Set("last_knowledge_of_server", "42")

	req, err := client.newRequest(endpoint.GetAccount, query, nil, "budget 1", "acc/1")
	require.NoError(t, err)
	assert.Equal(t, endpoint.GetAccount, req.Operation)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/budgets/budget%201/accounts/acc%2F1", req.Path)
	assert.Equal(t, "last_knowledge_of_server=42", req.Query)

	_, err = client.newRequest(endpoint.GetAccount, nil, nil, "budget-1")
	assert.Error(t, err)

	_, err = client.newRequest(endpoint.GetAccount, nil, nil, "budget-1", "")
	assert.Error(t, err)

	_, err = client.newRequest("no_such_route", nil, nil)
	assert.Error(t, err)
}

func TestClient_CallStampsRequestID(t *testing.T) {
	client, mockTransport := newTestClient()

	mockTransport.On("Do", mock.Anything, operation(endpoint.GetUser)).
		Return(respond(http.StatusUnauthorized, `{"error":{"id":"401","name":"unauthorized","detail":"Unauthorized"}}`), nil)

	user, err := client.User.Get(context.Background())
	require.Error(t, err)
	assert.Nil(t, user)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "401", apiErr.ID)
	assert.Equal(t, "unauthorized", apiErr.Name)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, endpoint.GetUser, apiErr.Operation)
	assert.Equal(t, "req-123", apiErr.RequestID)
	assert.True(t, IsAuthError(err))

	mockTransport.AssertExpectations(t)
}

func TestClient_CallTransportError(t *testing.T) {
	client, mockTransport := newTestClient()

	transportErr := &TransportError{Operation: endpoint.GetUser, RequestID: "req-9", Err: context.DeadlineExceeded}
	mockTransport.On("Do", mock.Anything, mock.Anything).Return(nil, transportErr)

	_, err := client.User.Get(context.Background())
	require.Error(t, err)

	var got *TransportError
	require.True(t, errors.As(err, &got))
	assert.Equal(t, "req-9", got.RequestID)
	assert.True(t, IsRetryable(err))
	assert.False(t, IsAPIError(err))
	assert.False(t, IsProtocolError(err))
}

func TestClient_CallLogsViolations(t *testing.T) {
	logger := &recordingLogger{}
	mockTransport := new(MockTransport)
	client := newClient(&ClientOptions{Logger: logger}, mockTransport)

	mockTransport.On("Do", mock.Anything, mock.Anything).
		Return(respond(http.StatusOK, `{"data":{"user":{}}}`), nil)

	_, err := client.User.Get(context.Background())
	require.Error(t, err)
	assert.True(t, IsProtocolError(err))
	assert.Len(t, logger.warnings, 1)
}

func TestClient_CallRateLimiter(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newClient(&ClientOptions{RateLimiter: failingLimiter{err: context.Canceled}}, mockTransport)

	_, err := client.User.Get(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	mockTransport.AssertNotCalled(t, "Do", mock.Anything, mock.Anything)
}

func TestClient_SetToken(t *testing.T) {
	client, mockTransport := newTestClient()

	mockTransport.On("SetSession", mock.MatchedBy(func(s *internalTypes.Session) bool {
		return s != nil && s.Token == "secret"
	})).Return()

	require.NoError(t, client.SetToken("  secret  "))
	require.NotNil(t, client.GetSession())
	assert.Equal(t, "secret", client.GetSession().Token)

	assert.Error(t, client.SetToken("   "))

	mockTransport.AssertExpectations(t)
}

func TestAuthService_Verify(t *testing.T) {
	client, mockTransport := newTestClient()

	mockTransport.On("SetSession", mock.Anything).Return()
	mockTransport.On("Do", mock.Anything, operation(endpoint.GetUser)).
		Return(respond(http.StatusOK, `{"data":{"user":{"id":"user-1"}}}`), nil)

	require.NoError(t, client.Auth.SetToken("secret"))

	user, err := client.Auth.Verify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)

	session, err := client.Auth.GetSession()
	require.NoError(t, err)
	assert.Equal(t, "user-1", session.UserID)
	assert.Equal(t, "secret", session.Token)
}

func TestAuthService_GetSessionWithoutToken(t *testing.T) {
	client, _ := newTestClient()

	_, err := client.Auth.GetSession()
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
