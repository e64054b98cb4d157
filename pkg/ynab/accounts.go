package ynab

import (
	"context"

	"github.com/eshaffer321/ynab-go/internal/endpoint"
	"github.com/pkg/errors"
)

// accountService implements the AccountService interface
type accountService struct {
	client *Client
}

type accountsData struct {
	Accounts        []Account  `json:"accounts" validate:"required,dive"`
	ServerKnowledge *Knowledge `json:"server_knowledge" validate:"required"`
}

type accountData struct {
	Account Account `json:"account" validate:"required"`
}

// List retrieves accounts
func (s *accountService) List(ctx context.Context, budgetID string, opts ...ListOption) (*AccountList, error) {
	query := &endpoint.Query{}
	collectListOptions(opts).apply(query)

	req, err := s.client.newRequest(endpoint.GetAccounts, query, nil, budgetID)
	if err != nil {
		return nil, err
	}

	data, err := call[accountsData](ctx, s.client, req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list accounts")
	}

	return &AccountList{
		Accounts:        data.Accounts,
		ServerKnowledge: *data.ServerKnowledge,
	}, nil
}

// Get retrieves a single account
func (s *accountService) Get(ctx context.Context, budgetID, accountID string) (*Account, error) {
	req, err := s.client.newRequest(endpoint.GetAccount, nil, nil, budgetID, accountID)
	if err != nil {
		return nil, err
	}

	data, err := call[accountData](ctx, s.client, req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get account")
	}

	return &data.Account, nil
}

// Create creates a new account
func (s *accountService) Create(ctx context.Context, budgetID string, params *SaveAccount) (*Account, error) {
	if params == nil {
		return nil, &ValidationErrors{Errors: []*ValidationError{{Field: "account", Message: "is required"}}}
	}
	if err := validateStruct(params); err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"account": params,
	}

	req, err := s.client.newRequest(endpoint.CreateAccount, nil, body, budgetID)
	if err != nil {
		return nil, err
	}

	data, err := call[accountData](ctx, s.client, req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create account")
	}

	return &data.Account, nil
}
