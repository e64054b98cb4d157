package ynab

import (
	"context"
	"fmt"

	"github.com/eshaffer321/ynab-go/internal/endpoint"
	"github.com/pkg/errors"
)

// Query parameters of transaction listings, in the order they are sent
const (
	sinceDateParam = "since_date"
	typeParam      = "type"
)

// transactionService implements the TransactionService interface
type transactionService struct {
	client *Client
}

type transactionsData struct {
	Transactions    []TransactionDetail `json:"transactions" validate:"required,dive"`
	ServerKnowledge *Knowledge          `json:"server_knowledge" validate:"required"`
}

type hybridTransactionsData struct {
	Transactions    []HybridTransaction `json:"transactions" validate:"required,dive"`
	ServerKnowledge *Knowledge          `json:"server_knowledge,omitempty"`
}

type transactionData struct {
	Transaction     TransactionDetail `json:"transaction" validate:"required"`
	ServerKnowledge *Knowledge        `json:"server_knowledge,omitempty"`
}

type bulkData struct {
	Bulk BulkResult `json:"bulk" validate:"required"`
}

// Query returns a transaction query builder
func (s *transactionService) Query(budgetID string) TransactionQueryBuilder {
	return &transactionQueryBuilder{
		client:   s.client,
		budgetID: budgetID,
	}
}

// QueryByPayee returns a payee-scoped query builder
func (s *transactionService) QueryByPayee(budgetID, payeeID string) HybridQueryBuilder {
	return &hybridQueryBuilder{
		client:   s.client,
		budgetID: budgetID,
		payeeID:  payeeID,
	}
}

// Get retrieves a single transaction
func (s *transactionService) Get(ctx context.Context, budgetID, transactionID string) (*TransactionDetail, error) {
	req, err := s.client.newRequest(endpoint.GetTransaction, nil, nil, budgetID, transactionID)
	if err != nil {
		return nil, err
	}

	data, err := call[transactionData](ctx, s.client, req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	return &data.Transaction, nil
}

// Create creates one transaction
func (s *transactionService) Create(ctx context.Context, budgetID string, params *SaveTransaction) (*SaveTransactionsResult, error) {
	if params == nil {
		return nil, &ValidationErrors{Errors: []*ValidationError{{Field: "transaction", Message: "is required"}}}
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"transaction": params,
	}
	return s.save(ctx, endpoint.CreateTransactions, budgetID, body, "failed to create transaction")
}

// CreateMany creates several transactions in one request
func (s *transactionService) CreateMany(ctx context.Context, budgetID string, params []SaveTransaction) (*SaveTransactionsResult, error) {
	if err := validateEach(params); err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"transactions": params,
	}
	return s.save(ctx, endpoint.CreateTransactions, budgetID, body, "failed to create transactions")
}

// Update replaces a transaction
func (s *transactionService) Update(ctx context.Context, budgetID, transactionID string, params *SaveTransaction) (*TransactionDetail, error) {
	if params == nil {
		return nil, &ValidationErrors{Errors: []*ValidationError{{Field: "transaction", Message: "is required"}}}
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"transaction": params,
	}

	req, err := s.client.newRequest(endpoint.UpdateTransaction, nil, body, budgetID, transactionID)
	if err != nil {
		return nil, err
	}

	data, err := call[transactionData](ctx, s.client, req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update transaction")
	}

	return &data.Transaction, nil
}

// UpdateMany patches several transactions
func (s *transactionService) UpdateMany(ctx context.Context, budgetID string, params []SaveTransactionWithID) (*SaveTransactionsResult, error) {
	if err := validateEach(params); err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"transactions": params,
	}
	return s.save(ctx, endpoint.UpdateTransactions, budgetID, body, "failed to update transactions")
}

// Delete deletes a transaction
func (s *transactionService) Delete(ctx context.Context, budgetID, transactionID string) (*TransactionDetail, error) {
	req, err := s.client.newRequest(endpoint.DeleteTransaction, nil, nil, budgetID, transactionID)
	if err != nil {
		return nil, err
	}

	data, err := call[transactionData](ctx, s.client, req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete transaction")
	}

	return &data.Transaction, nil
}

// Import imports pending transactions from linked accounts
func (s *transactionService) Import(ctx context.Context, budgetID string) (*ImportResult, error) {
	req, err := s.client.newRequest(endpoint.ImportTransactions, nil, nil, budgetID)
	if err != nil {
		return nil, err
	}

	result, err := call[ImportResult](ctx, s.client, req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to import transactions")
	}

	return result, nil
}

// CreateBulk creates transactions through the bulk endpoint
func (s *transactionService) CreateBulk(ctx context.Context, budgetID string, params []SaveTransaction) (*BulkResult, error) {
	if err := validateEach(params); err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"transactions": params,
	}

	req, err := s.client.newRequest(endpoint.BulkCreateTransactions, nil, body, budgetID)
	if err != nil {
		return nil, err
	}

	data, err := call[bulkData](ctx, s.client, req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to bulk create transactions")
	}

	return &data.Bulk, nil
}

func (s *transactionService) save(ctx context.Context, operation, budgetID string, body interface{}, msg string) (*SaveTransactionsResult, error) {
	req, err := s.client.newRequest(operation, nil, body, budgetID)
	if err != nil {
		return nil, err
	}

	result, err := call[SaveTransactionsResult](ctx, s.client, req)
	if err != nil {
		return nil, errors.Wrap(err, msg)
	}

	return result, nil
}

// validateEach validates every payload, prefixing field names with the
// payload's index
func validateEach[T any, P interface {
	*T
	Validate() error
}](params []T) error {
	if len(params) == 0 {
		return &ValidationErrors{Errors: []*ValidationError{{Field: "transactions", Message: "must not be empty"}}}
	}

	out := &ValidationErrors{}
	for i := range params {
		err := P(&params[i]).Validate()
		if err == nil {
			continue
		}
		var verrs *ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, v := range verrs.Errors {
			out.Errors = append(out.Errors, &ValidationError{
				Field:   fmt.Sprintf("transactions[%d].%s", i, v.Field),
				Message: v.Message,
				Value:   v.Value,
			})
		}
	}
	if len(out.Errors) > 0 {
		return out
	}
	return nil
}

// transactionQueryBuilder implements TransactionQueryBuilder
type transactionQueryBuilder struct {
	client     *Client
	budgetID   string
	accountID  string
	categoryID string
	sinceDate  *Date
	filter     *TransactionFilterType
	since      *Knowledge
}

// InAccount restricts the listing to one account
func (b *transactionQueryBuilder) InAccount(accountID string) TransactionQueryBuilder {
	b.accountID = accountID
	return b
}

// InCategory restricts the listing to one category
func (b *transactionQueryBuilder) InCategory(categoryID string) TransactionQueryBuilder {
	b.categoryID = categoryID
	return b
}

// SinceDate sets the earliest transaction date
func (b *transactionQueryBuilder) SinceDate(date Date) TransactionQueryBuilder {
	b.sinceDate = &date
	return b
}

// OfType sets the type filter
func (b *transactionQueryBuilder) OfType(filter TransactionFilterType) TransactionQueryBuilder {
	b.filter = &filter
	return b
}

// Since sets the cursor
func (b *transactionQueryBuilder) Since(k Knowledge) TransactionQueryBuilder {
	b.since = &k
	return b
}

// Execute runs the query
func (b *transactionQueryBuilder) Execute(ctx context.Context) (*TransactionList, error) {
	if b.accountID != "" && b.categoryID != "" {
		return nil, &ValidationErrors{Errors: []*ValidationError{{
			Field:   "scope",
			Message: "a listing is scoped to an account or a category, not both",
		}}}
	}

	query, err := transactionQuery(b.sinceDate, b.filter, b.since)
	if err != nil {
		return nil, err
	}

	operation, ids := endpoint.GetTransactions, []string{b.budgetID}
	switch {
	case b.accountID != "":
		operation, ids = endpoint.GetTransactionsByAccount, append(ids, b.accountID)
	case b.categoryID != "":
		operation, ids = endpoint.GetTransactionsByCategory, append(ids, b.categoryID)
	}

	req, err := b.client.newRequest(operation, query, nil, ids...)
	if err != nil {
		return nil, err
	}

	data, err := call[transactionsData](ctx, b.client, req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transactions")
	}

	return &TransactionList{
		Transactions:    data.Transactions,
		ServerKnowledge: *data.ServerKnowledge,
	}, nil
}

// hybridQueryBuilder implements HybridQueryBuilder
type hybridQueryBuilder struct {
	client    *Client
	budgetID  string
	payeeID   string
	sinceDate *Date
	filter    *TransactionFilterType
	since     *Knowledge
}

// SinceDate sets the earliest transaction date
func (b *hybridQueryBuilder) SinceDate(date Date) HybridQueryBuilder {
	b.sinceDate = &date
	return b
}

// OfType sets the type filter
func (b *hybridQueryBuilder) OfType(filter TransactionFilterType) HybridQueryBuilder {
	b.filter = &filter
	return b
}

// Since sets the cursor
func (b *hybridQueryBuilder) Since(k Knowledge) HybridQueryBuilder {
	b.since = &k
	return b
}

// Execute runs the query
func (b *hybridQueryBuilder) Execute(ctx context.Context) (*HybridTransactionList, error) {
	query, err := transactionQuery(b.sinceDate, b.filter, b.since)
	if err != nil {
		return nil, err
	}

	req, err := b.client.newRequest(endpoint.GetTransactionsByPayee, query, nil, b.budgetID, b.payeeID)
	if err != nil {
		return nil, err
	}

	data, err := call[hybridTransactionsData](ctx, b.client, req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get payee transactions")
	}

	return &HybridTransactionList{
		Transactions:    data.Transactions,
		ServerKnowledge: data.ServerKnowledge,
	}, nil
}

// transactionQuery encodes the listing filters as since_date, type,
// last_knowledge_of_server
func transactionQuery(sinceDate *Date, filter *TransactionFilterType, since *Knowledge) (*endpoint.Query, error) {
	query := &endpoint.Query{}
	if sinceDate != nil && !sinceDate.IsZero() {
		query.Set(sinceDateParam, sinceDate.String())
	}
	if filter != nil {
		if !filter.Valid() {
			return nil, &ValidationErrors{Errors: []*ValidationError{{
				Field:   typeParam,
				Message: "must be one of [uncategorized unapproved]",
				Value:   string(*filter),
			}}}
		}
		query.Set(typeParam, string(*filter))
	}
	opts := listOptions{since: since}
	opts.apply(query)
	return query, nil
}
