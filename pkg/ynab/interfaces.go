package ynab

import "context"

// UserService reads the token owner
type UserService interface {
	// Get retrieves the authenticated user
	Get(ctx context.Context) (*User, error)
}

// BudgetService handles budget operations
type BudgetService interface {
	// List retrieves budget summaries, with their accounts if includeAccounts
	List(ctx context.Context, includeAccounts bool) (*BudgetList, error)

	// Get exports a budget, incrementally when SinceKnowledge is given
	Get(ctx context.Context, budgetID string, opts ...ListOption) (*BudgetExport, error)

	// GetSettings retrieves a budget's display settings
	GetSettings(ctx context.Context, budgetID string) (*BudgetSettings, error)

	// Resolve turns LastUsedBudget into the concrete id it currently names.
	// Any other id is returned unchanged.
	Resolve(ctx context.Context, budgetID string) (string, error)
}

// AccountService handles all account-related operations
type AccountService interface {
	// List retrieves accounts
	List(ctx context.Context, budgetID string, opts ...ListOption) (*AccountList, error)

	// Get retrieves a single account by ID
	Get(ctx context.Context, budgetID, accountID string) (*Account, error)

	// Create creates a new account
	Create(ctx context.Context, budgetID string, params *SaveAccount) (*Account, error)
}

// CategoryService handles categories and their monthly budgets
type CategoryService interface {
	// List retrieves category groups with their categories
	List(ctx context.Context, budgetID string, opts ...ListOption) (*CategoryList, error)

	// Get retrieves a category with the current month's figures
	Get(ctx context.Context, budgetID, categoryID string) (*Category, error)

	// GetForMonth retrieves a category's figures for month (YYYY-MM-01 or "current")
	GetForMonth(ctx context.Context, budgetID, month, categoryID string) (*Category, error)

	// UpdateForMonth sets a category's budgeted amount for month
	UpdateForMonth(ctx context.Context, budgetID, month, categoryID string, params *SaveMonthCategory) (*CategoryUpdate, error)
}

// PayeeService handles payees
type PayeeService interface {
	// List retrieves payees
	List(ctx context.Context, budgetID string, opts ...ListOption) (*PayeeList, error)

	// Get retrieves a single payee
	Get(ctx context.Context, budgetID, payeeID string) (*Payee, error)
}

// PayeeLocationService handles payee locations
type PayeeLocationService interface {
	// List retrieves every payee location of a budget
	List(ctx context.Context, budgetID string, opts ...ListOption) (*PayeeLocationList, error)

	// Get retrieves a single payee location
	Get(ctx context.Context, budgetID, payeeLocationID string) (*PayeeLocation, error)

	// ListForPayee retrieves the locations of one payee
	ListForPayee(ctx context.Context, budgetID, payeeID string) (*PayeeLocationList, error)
}

// MonthService handles budget months
type MonthService interface {
	// List retrieves month summaries
	List(ctx context.Context, budgetID string, opts ...ListOption) (*MonthList, error)

	// Get retrieves a month (YYYY-MM-01 or "current") with its categories
	Get(ctx context.Context, budgetID, month string) (*MonthDetail, error)
}

// TransactionService handles all transaction-related operations
type TransactionService interface {
	// Query returns a transaction query builder
	Query(budgetID string) TransactionQueryBuilder

	// QueryByPayee returns a builder for a payee-scoped listing
	QueryByPayee(budgetID, payeeID string) HybridQueryBuilder

	// Get retrieves a single transaction
	Get(ctx context.Context, budgetID, transactionID string) (*TransactionDetail, error)

	// Create creates one transaction
	Create(ctx context.Context, budgetID string, params *SaveTransaction) (*SaveTransactionsResult, error)

	// CreateMany creates several transactions in one request
	CreateMany(ctx context.Context, budgetID string, params []SaveTransaction) (*SaveTransactionsResult, error)

	// Update replaces a transaction
	Update(ctx context.Context, budgetID, transactionID string, params *SaveTransaction) (*TransactionDetail, error)

	// UpdateMany patches several transactions
	UpdateMany(ctx context.Context, budgetID string, params []SaveTransactionWithID) (*SaveTransactionsResult, error)

	// Delete deletes a transaction and returns its final state
	Delete(ctx context.Context, budgetID, transactionID string) (*TransactionDetail, error)

	// Import imports pending transactions from linked accounts
	Import(ctx context.Context, budgetID string) (*ImportResult, error)

	// CreateBulk creates transactions through the bulk endpoint
	CreateBulk(ctx context.Context, budgetID string, params []SaveTransaction) (*BulkResult, error)
}

// TransactionQueryBuilder builds transaction listings
type TransactionQueryBuilder interface {
	// InAccount restricts the listing to one account
	InAccount(accountID string) TransactionQueryBuilder

	// InCategory restricts the listing to one category
	InCategory(categoryID string) TransactionQueryBuilder

	// SinceDate returns transactions on or after date
	SinceDate(date Date) TransactionQueryBuilder

	// OfType filters to uncategorized or unapproved transactions
	OfType(filter TransactionFilterType) TransactionQueryBuilder

	// Since asks only for changes after k
	Since(k Knowledge) TransactionQueryBuilder

	// Execute runs the query
	Execute(ctx context.Context) (*TransactionList, error)
}

// HybridQueryBuilder builds payee-scoped transaction listings
type HybridQueryBuilder interface {
	SinceDate(date Date) HybridQueryBuilder
	OfType(filter TransactionFilterType) HybridQueryBuilder
	Since(k Knowledge) HybridQueryBuilder

	// Execute runs the query
	Execute(ctx context.Context) (*HybridTransactionList, error)
}

// ScheduledTransactionService handles scheduled transactions
type ScheduledTransactionService interface {
	// List retrieves scheduled transactions
	List(ctx context.Context, budgetID string, opts ...ListOption) (*ScheduledTransactionList, error)

	// Get retrieves a single scheduled transaction
	Get(ctx context.Context, budgetID, scheduledTransactionID string) (*ScheduledTransactionDetail, error)
}

// AuthService handles the access token
type AuthService interface {
	// SetToken uses token for every following request
	SetToken(token string) error

	// Verify checks the token against the API and records its user
	Verify(ctx context.Context) (*User, error)

	// GetSession returns the current session
	GetSession() (*Session, error)

	// SaveSession saves session to file
	SaveSession(path string) error

	// LoadSession loads session from file
	LoadSession(path string) error
}
