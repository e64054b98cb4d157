package ynab

import (
	"context"

	"github.com/eshaffer321/ynab-go/internal/auth"
	internalTypes "github.com/eshaffer321/ynab-go/internal/types"
	"github.com/pkg/errors"
)

// authService implements the AuthService interface
type authService struct {
	client  *Client
	service *auth.Service
}

// newAuthService creates a new auth service
func newAuthService(client *Client) *authService {
	var logger internalTypes.Logger
	if client.options.Logger != nil {
		logger = client.options.Logger
	}
	return &authService{
		client:  client,
		service: auth.NewService(logger),
	}
}

// convertSession converts internal types.Session to ynab.Session
func (a *authService) convertSession(s *internalTypes.Session) *Session {
	if s == nil {
		return nil
	}
	return &Session{
		Token:     s.Token,
		UserID:    s.UserID,
		SavedAt:   s.SavedAt,
		ExpiresAt: s.ExpiresAt,
	}
}

// activate hands the current session to the transport and the client
func (a *authService) activate() error {
	session, err := a.service.GetSession()
	if err != nil {
		return err
	}
	a.client.session = a.convertSession(session)
	a.client.transport.SetSession(session)
	return nil
}

// SetToken uses token for every following request
func (a *authService) SetToken(token string) error {
	if err := a.service.SetToken(token, 0); err != nil {
		return err
	}
	return a.activate()
}

// Verify checks the token by fetching its user
func (a *authService) Verify(ctx context.Context) (*User, error) {
	user, err := a.client.User.Get(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to verify access token")
	}

	a.service.SetUserID(user.ID)
	if err := a.activate(); err != nil {
		return nil, err
	}
	a.client.logDebug("Access token verified", "user_id", user.ID)

	// Save session if configured
	if a.client.options.SessionFile != "" {
		_ = a.service.SaveSession(a.client.options.SessionFile)
	}

	return user, nil
}

// GetSession returns the current session
func (a *authService) GetSession() (*Session, error) {
	session, err := a.service.GetSession()
	if err != nil {
		return nil, err
	}
	return a.convertSession(session), nil
}

// SaveSession saves session to file
func (a *authService) SaveSession(path string) error {
	return a.service.SaveSession(path)
}

// LoadSession loads session from file
func (a *authService) LoadSession(path string) error {
	if err := a.service.LoadSession(path); err != nil {
		return err
	}
	return a.activate()
}
