package ynab

import (
	"context"

	"github.com/eshaffer321/ynab-go/internal/endpoint"
	"github.com/pkg/errors"
)

// userService implements the UserService interface
type userService struct {
	client *Client
}

type userData struct {
	User User `json:"user" validate:"required"`
}

// Get retrieves the authenticated user
func (s *userService) Get(ctx context.Context) (*User, error) {
	req, err := s.client.newRequest(endpoint.GetUser, nil, nil)
	if err != nil {
		return nil, err
	}

	data, err := call[userData](ctx, s.client, req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user")
	}

	return &data.User, nil
}
