package ynab

import (
	"context"

	"github.com/eshaffer321/ynab-go/internal/endpoint"
	"github.com/pkg/errors"
)

// scheduledTransactionService implements the ScheduledTransactionService interface
type scheduledTransactionService struct {
	client *Client
}

type scheduledTransactionsData struct {
	ScheduledTransactions []ScheduledTransactionDetail `json:"scheduled_transactions" validate:"required,dive"`
	ServerKnowledge       *Knowledge                   `json:"server_knowledge" validate:"required"`
}

type scheduledTransactionData struct {
	ScheduledTransaction ScheduledTransactionDetail `json:"scheduled_transaction" validate:"required"`
}

// List retrieves scheduled transactions
func (s *scheduledTransactionService) List(ctx context.Context, budgetID string, opts ...ListOption) (*ScheduledTransactionList, error) {
	query := &endpoint.Query{}
	collectListOptions(opts).apply(query)

	req, err := s.client.newRequest(endpoint.GetScheduledTransactions, query, nil, budgetID)
	if err != nil {
		return nil, err
	}

	data, err := call[scheduledTransactionsData](ctx, s.client, req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list scheduled transactions")
	}

	return &ScheduledTransactionList{
		ScheduledTransactions: data.ScheduledTransactions,
		ServerKnowledge:       *data.ServerKnowledge,
	}, nil
}

// Get retrieves a single scheduled transaction
func (s *scheduledTransactionService) Get(ctx context.Context, budgetID, scheduledTransactionID string) (*ScheduledTransactionDetail, error) {
	req, err := s.client.newRequest(endpoint.GetScheduledTransaction, nil, nil, budgetID, scheduledTransactionID)
	if err != nil {
		return nil, err
	}

	data, err := call[scheduledTransactionData](ctx, s.client, req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get scheduled transaction")
	}

	return &data.ScheduledTransaction, nil
}
