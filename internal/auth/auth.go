package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/eshaffer321/ynab-go/internal/types"
	"github.com/pkg/errors"
)

// Service keeps the access token used by the transport and persists it
// between runs. YNAB authenticates with a bearer token (a personal access
// token or an OAuth access token), so there is no login exchange.
type Service struct {
	session *types.Session
	logger  types.Logger
	now     func() time.Time
}

// NewService creates a new auth service
func NewService(logger types.Logger) *Service {
	return &Service{
		logger: logger,
		now:    time.Now,
	}
}

// SetToken starts a session for token. OAuth tokens carry an expiry; personal
// access tokens pass a zero ttl and never expire locally.
func (s *Service) SetToken(token string, ttl time.Duration) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("empty access token")
	}

	session := &types.Session{
		Token:   token,
		SavedAt: s.now(),
	}
	if ttl > 0 {
		session.ExpiresAt = session.SavedAt.Add(ttl)
	}
	s.session = session
	return nil
}

// SetUserID records the user the token belongs to
func (s *Service) SetUserID(userID string) {
	if s.session != nil {
		s.session.UserID = userID
	}
}

// GetSession returns the current session
func (s *Service) GetSession() (*types.Session, error) {
	if s.session == nil {
		return nil, types.ErrNotAuthenticated
	}
	return s.session, nil
}

// SaveSession saves session to file
func (s *Service) SaveSession(path string) error {
	if s.session == nil {
		return types.ErrNotAuthenticated
	}

	// Create directory if needed
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.Wrap(err, "failed to create session directory")
	}

	data, err := json.MarshalIndent(s.session, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal session")
	}

	// Write to file with restrictive permissions
	if err := os.WriteFile(path, data, 0600); err != nil {
		return errors.Wrap(err, "failed to write session file")
	}

	if s.logger != nil {
		s.logger.Info("Session saved", "path", path)
	}

	return nil
}

// LoadSession loads session from file
func (s *Service) LoadSession(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.ErrNotAuthenticated
		}
		return errors.Wrap(err, "failed to read session file")
	}

	var session types.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return errors.Wrap(err, "failed to unmarshal session")
	}

	if session.Token == "" {
		return types.ErrNotAuthenticated
	}

	// Check expiry
	if !session.ExpiresAt.IsZero() && s.now().After(session.ExpiresAt) {
		return types.ErrSessionExpired
	}

	s.session = &session

	if s.logger != nil {
		s.logger.Info("Session loaded", "path", path, "user_id", session.UserID)
	}

	return nil
}

// Clear forgets the current session and removes path if given
func (s *Service) Clear(path string) error {
	s.session = nil
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove session file")
	}
	return nil
}
