package ynab

import (
	"context"

	"github.com/eshaffer321/ynab-go/internal/endpoint"
	"github.com/pkg/errors"
)

// LastUsedBudget is the alias the API accepts for the most recently opened
// budget. What it names can change between calls.
const LastUsedBudget = "last-used"

// budgetService implements the BudgetService interface
type budgetService struct {
	client *Client
}

type budgetData struct {
	Budget          BudgetDetail `json:"budget" validate:"required"`
	ServerKnowledge *Knowledge   `json:"server_knowledge" validate:"required"`
}

type budgetSettingsData struct {
	Settings BudgetSettings `json:"settings" validate:"required"`
}

// List retrieves budget summaries
func (s *budgetService) List(ctx context.Context, includeAccounts bool) (*BudgetList, error) {
	query := &endpoint.Query{}
	if includeAccounts {
		query.Set("include_accounts", "true")
	}

	req, err := s.client.newRequest(endpoint.GetBudgets, query, nil)
	if err != nil {
		return nil, err
	}

	list, err := call[BudgetList](ctx, s.client, req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list budgets")
	}

	return list, nil
}

// Get exports a budget
func (s *budgetService) Get(ctx context.Context, budgetID string, opts ...ListOption) (*BudgetExport, error) {
	query := &endpoint.Query{}
	collectListOptions(opts).apply(query)

	req, err := s.client.newRequest(endpoint.GetBudget, query, nil, budgetID)
	if err != nil {
		return nil, err
	}

	data, err := call[budgetData](ctx, s.client, req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get budget")
	}

	return &BudgetExport{
		Budget:          data.Budget,
		ServerKnowledge: *data.ServerKnowledge,
	}, nil
}

// GetSettings retrieves a budget's settings
func (s *budgetService) GetSettings(ctx context.Context, budgetID string) (*BudgetSettings, error) {
	req, err := s.client.newRequest(endpoint.GetBudgetSettings, nil, nil, budgetID)
	if err != nil {
		return nil, err
	}

	data, err := call[budgetSettingsData](ctx, s.client, req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get budget settings")
	}

	return &data.Settings, nil
}

// Resolve maps LastUsedBudget to a real budget id. The listing's default
// budget is preferred; without one the alias is exported once to read its id.
func (s *budgetService) Resolve(ctx context.Context, budgetID string) (string, error) {
	if budgetID != LastUsedBudget {
		return budgetID, nil
	}

	list, err := s.List(ctx, false)
	if err != nil {
		return "", err
	}
	if list.DefaultBudget != nil && list.DefaultBudget.ID != "" {
		return list.DefaultBudget.ID, nil
	}

	export, err := s.Get(ctx, budgetID)
	if err != nil {
		return "", err
	}
	if export.Budget.ID == LastUsedBudget {
		return "", errors.Errorf("budget %s did not resolve to an id", budgetID)
	}
	return export.Budget.ID, nil
}
