package endpoint

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// Operation names. They double as diagnostics labels, so keep them stable.
const (
	GetUser = "get_user"

	GetBudgets        = "get_budgets"
	GetBudget         = "get_budget"
	GetBudgetSettings = "get_budget_settings"

	GetAccounts   = "get_accounts"
	GetAccount    = "get_account"
	CreateAccount = "create_account"

	GetCategories       = "get_categories"
	GetCategory         = "get_category"
	GetMonthCategory    = "get_month_category"
	UpdateMonthCategory = "update_month_category"

	GetPayees                 = "get_payees"
	GetPayee                  = "get_payee"
	GetPayeeLocations         = "get_payee_locations"
	GetPayeeLocation          = "get_payee_location"
	GetPayeeLocationsForPayee = "get_payee_locations_for_payee"

	GetMonths = "get_months"
	GetMonth  = "get_month"

	GetTransactions           = "get_transactions"
	GetTransactionsByAccount  = "get_transactions_by_account"
	GetTransactionsByCategory = "get_transactions_by_category"
	GetTransactionsByPayee    = "get_transactions_by_payee"
	GetTransaction            = "get_transaction"
	CreateTransactions        = "create_transactions"
	UpdateTransaction         = "update_transaction"
	UpdateTransactions        = "update_transactions"
	DeleteTransaction         = "delete_transaction"
	ImportTransactions        = "import_transactions"
	BulkCreateTransactions    = "bulk_create_transactions"

	GetScheduledTransactions = "get_scheduled_transactions"
	GetScheduledTransaction  = "get_scheduled_transaction"
)

// Route is a named API endpoint with a path template such as
// "/budgets/{budget_id}/accounts/{account_id}".
type Route struct {
	Name     string
	Method   string
	Template string
}

var routes = map[string]Route{
	GetUser: {GetUser, http.MethodGet, "/user"},

	GetBudgets:        {GetBudgets, http.MethodGet, "/budgets"},
	GetBudget:         {GetBudget, http.MethodGet, "/budgets/{budget_id}"},
	GetBudgetSettings: {GetBudgetSettings, http.MethodGet, "/budgets/{budget_id}/settings"},

	GetAccounts:   {GetAccounts, http.MethodGet, "/budgets/{budget_id}/accounts"},
	GetAccount:    {GetAccount, http.MethodGet, "/budgets/{budget_id}/accounts/{account_id}"},
	CreateAccount: {CreateAccount, http.MethodPost, "/budgets/{budget_id}/accounts"},

	GetCategories:       {GetCategories, http.MethodGet, "/budgets/{budget_id}/categories"},
	GetCategory:         {GetCategory, http.MethodGet, "/budgets/{budget_id}/categories/{category_id}"},
	GetMonthCategory:    {GetMonthCategory, http.MethodGet, "/budgets/{budget_id}/months/{month}/categories/{category_id}"},
	UpdateMonthCategory: {UpdateMonthCategory, http.MethodPatch, "/budgets/{budget_id}/months/{month}/categories/{category_id}"},

	GetPayees:                 {GetPayees, http.MethodGet, "/budgets/{budget_id}/payees"},
	GetPayee:                  {GetPayee, http.MethodGet, "/budgets/{budget_id}/payees/{payee_id}"},
	GetPayeeLocations:         {GetPayeeLocations, http.MethodGet, "/budgets/{budget_id}/payee_locations"},
	GetPayeeLocation:          {GetPayeeLocation, http.MethodGet, "/budgets/{budget_id}/payee_locations/{payee_location_id}"},
	GetPayeeLocationsForPayee: {GetPayeeLocationsForPayee, http.MethodGet, "/budgets/{budget_id}/payees/{payee_id}/payee_locations"},

	GetMonths: {GetMonths, http.MethodGet, "/budgets/{budget_id}/months"},
	GetMonth:  {GetMonth, http.MethodGet, "/budgets/{budget_id}/months/{month}"},

	GetTransactions:           {GetTransactions, http.MethodGet, "/budgets/{budget_id}/transactions"},
	GetTransactionsByAccount:  {GetTransactionsByAccount, http.MethodGet, "/budgets/{budget_id}/accounts/{account_id}/transactions"},
	GetTransactionsByCategory: {GetTransactionsByCategory, http.MethodGet, "/budgets/{budget_id}/categories/{category_id}/transactions"},
	GetTransactionsByPayee:    {GetTransactionsByPayee, http.MethodGet, "/budgets/{budget_id}/payees/{payee_id}/transactions"},
	GetTransaction:            {GetTransaction, http.MethodGet, "/budgets/{budget_id}/transactions/{transaction_id}"},
	CreateTransactions:        {CreateTransactions, http.MethodPost, "/budgets/{budget_id}/transactions"},
	UpdateTransaction:         {UpdateTransaction, http.MethodPut, "/budgets/{budget_id}/transactions/{transaction_id}"},
	UpdateTransactions:        {UpdateTransactions, http.MethodPatch, "/budgets/{budget_id}/transactions"},
	DeleteTransaction:         {DeleteTransaction, http.MethodDelete, "/budgets/{budget_id}/transactions/{transaction_id}"},
	ImportTransactions:        {ImportTransactions, http.MethodPost, "/budgets/{budget_id}/transactions/import"},
	BulkCreateTransactions:    {BulkCreateTransactions, http.MethodPost, "/budgets/{budget_id}/transactions/bulk"},

	GetScheduledTransactions: {GetScheduledTransactions, http.MethodGet, "/budgets/{budget_id}/scheduled_transactions"},
	GetScheduledTransaction:  {GetScheduledTransaction, http.MethodGet, "/budgets/{budget_id}/scheduled_transactions/{scheduled_transaction_id}"},
}

// Load returns the route registered under name
func Load(name string) (Route, error) {
	r, ok := routes[name]
	if !ok {
		return Route{}, fmt.Errorf("unknown route %s", name)
	}
	return r, nil
}

// MustLoad loads a route and panics on error (for initialization)
func MustLoad(name string) Route {
	r, err := Load(name)
	if err != nil {
		panic(err)
	}
	return r
}

// List returns all route names, sorted
func List() []string {
	names := make([]string, 0, len(routes))
	for name := range routes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Placeholders returns the template's placeholder names in order.
func (r Route) Placeholders() []string {
	var names []string
	rest := r.Template
	for {
		start := strings.IndexByte(rest, '{')
		if start == -1 {
			return names
		}
		end := strings.IndexByte(rest[start:], '}')
		if end == -1 {
			return names
		}
		names = append(names, rest[start+1:start+end])
		rest = rest[start+end+1:]
	}
}

// Expand fills the template's placeholders with ids, in order. Every id is
// path-escaped and must be non-empty.
func (r Route) Expand(ids ...string) (string, error) {
	names := r.Placeholders()
	if len(names) != len(ids) {
		return "", fmt.Errorf("route %s: expected %d path parameters, got %d", r.Name, len(names), len(ids))
	}

	path := r.Template
	for i, name := range names {
		if ids[i] == "" {
			return "", fmt.Errorf("route %s: %s is empty", r.Name, name)
		}
		path = strings.Replace(path, "{"+name+"}", url.PathEscape(ids[i]), 1)
	}
	return path, nil
}
