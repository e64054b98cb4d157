package ynab

import (
	"context"

	"github.com/eshaffer321/ynab-go/internal/endpoint"
	"github.com/pkg/errors"
)

// CurrentMonth addresses the current budget month in month operations
const CurrentMonth = "current"

// monthService implements the MonthService interface
type monthService struct {
	client *Client
}

type monthsData struct {
	Months          []MonthSummary `json:"months" validate:"required,dive"`
	ServerKnowledge *Knowledge     `json:"server_knowledge" validate:"required"`
}

type monthData struct {
	Month MonthDetail `json:"month" validate:"required"`
}

// List retrieves month summaries
func (s *monthService) List(ctx context.Context, budgetID string, opts ...ListOption) (*MonthList, error) {
	query := &endpoint.Query{}
	collectListOptions(opts).apply(query)

	req, err := s.client.newRequest(endpoint.GetMonths, query, nil, budgetID)
	if err != nil {
		return nil, err
	}

	data, err := call[monthsData](ctx, s.client, req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list months")
	}

	return &MonthList{
		Months:          data.Months,
		ServerKnowledge: *data.ServerKnowledge,
	}, nil
}

// Get retrieves a month with its category snapshot
func (s *monthService) Get(ctx context.Context, budgetID, month string) (*MonthDetail, error) {
	req, err := s.client.newRequest(endpoint.GetMonth, nil, nil, budgetID, month)
	if err != nil {
		return nil, err
	}

	data, err := call[monthData](ctx, s.client, req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get month %s", month)
	}

	return &data.Month, nil
}
