package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/eshaffer321/ynab-go/pkg/ynab"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	defaultBudgetID = ynab.LastUsedBudget
	defaultLimit    = 50
)

// ynabTools holds the YNAB client and implements all tool handlers
type ynabTools struct {
	client *ynab.Client

	mu         sync.Mutex
	currencies map[string]ynab.CurrencyFormat
}

func newYNABTools(client *ynab.Client) *ynabTools {
	return &ynabTools{client: client, currencies: make(map[string]ynab.CurrencyFormat)}
}

// currency returns the budget's currency format, fetched once per budget.
// The last-used alias can name a different budget on every call, so it is
// never cached.
func (t *ynabTools) currency(ctx context.Context, budgetID string) (ynab.CurrencyFormat, error) {
	if budgetID == ynab.LastUsedBudget {
		settings, err := t.client.Budgets.GetSettings(ctx, budgetID)
		if err != nil {
			return ynab.CurrencyFormat{}, fmt.Errorf("failed to fetch budget settings: %w", err)
		}
		return settings.CurrencyFormat, nil
	}

	t.mu.Lock()
	f, ok := t.currencies[budgetID]
	t.mu.Unlock()
	if ok {
		return f, nil
	}

	settings, err := t.client.Budgets.GetSettings(ctx, budgetID)
	if err != nil {
		return ynab.CurrencyFormat{}, fmt.Errorf("failed to fetch budget settings: %w", err)
	}

	t.mu.Lock()
	t.currencies[budgetID] = settings.CurrencyFormat
	t.mu.Unlock()
	return settings.CurrencyFormat, nil
}

func budgetOrDefault(id string) string {
	if id == "" {
		return defaultBudgetID
	}
	return id
}

// Amount is a milliunit amount with its display form
type Amount struct {
	Milliunits int64  `json:"milliunits" jsonschema:"Amount in milliunits (1000 per currency unit)"`
	Formatted  string `json:"formatted" jsonschema:"Amount formatted in the budget's currency"`
}

func amount(f ynab.CurrencyFormat, v int64) Amount {
	return Amount{Milliunits: v, Formatted: f.Format(v)}
}

// GetBudgets tool

type GetBudgetsInput struct{}

type BudgetEntry struct {
	ID         string `json:"id" jsonschema:"Budget ID"`
	Name       string `json:"name" jsonschema:"Budget name"`
	Currency   string `json:"currency,omitempty" jsonschema:"ISO currency code"`
	FirstMonth string `json:"firstMonth,omitempty" jsonschema:"First budget month (YYYY-MM-DD)"`
	LastMonth  string `json:"lastMonth,omitempty" jsonschema:"Last budget month (YYYY-MM-DD)"`
	IsDefault  bool   `json:"isDefault" jsonschema:"Whether this is the default budget"`
}

type GetBudgetsOutput struct {
	Budgets []BudgetEntry `json:"budgets" jsonschema:"List of budgets"`
	Count   int           `json:"count" jsonschema:"Number of budgets"`
}

func (t *ynabTools) GetBudgets(ctx context.Context, req *mcp.CallToolRequest, input GetBudgetsInput) (*mcp.CallToolResult, GetBudgetsOutput, error) {
	list, err := t.client.Budgets.List(ctx, false)
	if err != nil {
		return nil, GetBudgetsOutput{}, fmt.Errorf("failed to fetch budgets: %w", err)
	}

	entries := make([]BudgetEntry, 0, len(list.Budgets))
	for _, b := range list.Budgets {
		entry := BudgetEntry{
			ID:        b.ID,
			Name:      b.Name,
			IsDefault: list.DefaultBudget != nil && list.DefaultBudget.ID == b.ID,
		}
		if b.CurrencyFormat != nil {
			entry.Currency = b.CurrencyFormat.ISOCode
		}
		if b.FirstMonth != nil {
			entry.FirstMonth = b.FirstMonth.String()
		}
		if b.LastMonth != nil {
			entry.LastMonth = b.LastMonth.String()
		}
		entries = append(entries, entry)
	}

	return nil, GetBudgetsOutput{Budgets: entries, Count: len(entries)}, nil
}

// GetAccounts tool

type GetAccountsInput struct {
	BudgetID      string `json:"budgetId,omitempty" jsonschema:"Budget ID (default: last-used)"`
	IncludeClosed bool   `json:"includeClosed,omitempty" jsonschema:"Include closed accounts"`
}

type AccountEntry struct {
	ID               string `json:"id" jsonschema:"Account ID"`
	Name             string `json:"name" jsonschema:"Account name"`
	Type             string `json:"type" jsonschema:"Account type (e.g. checking, creditCard, mortgage)"`
	OnBudget         bool   `json:"onBudget" jsonschema:"Whether the account is on budget"`
	Closed           bool   `json:"closed" jsonschema:"Whether the account is closed"`
	Balance          Amount `json:"balance" jsonschema:"Current balance"`
	ClearedBalance   Amount `json:"clearedBalance" jsonschema:"Cleared balance"`
	UnclearedBalance Amount `json:"unclearedBalance" jsonschema:"Uncleared balance"`
}

type GetAccountsOutput struct {
	Accounts []AccountEntry `json:"accounts" jsonschema:"List of accounts"`
	Count    int            `json:"count" jsonschema:"Number of accounts"`
}

func (t *ynabTools) GetAccounts(ctx context.Context, req *mcp.CallToolRequest, input GetAccountsInput) (*mcp.CallToolResult, GetAccountsOutput, error) {
	budgetID := budgetOrDefault(input.BudgetID)

	currency, err := t.currency(ctx, budgetID)
	if err != nil {
		return nil, GetAccountsOutput{}, err
	}

	list, err := t.client.Accounts.List(ctx, budgetID)
	if err != nil {
		return nil, GetAccountsOutput{}, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	entries := []AccountEntry{}
	for _, acc := range list.Accounts {
		if acc.Deleted || (acc.Closed && !input.IncludeClosed) {
			continue
		}
		entries = append(entries, AccountEntry{
			ID:               acc.ID,
			Name:             acc.Name,
			Type:             string(acc.Type),
			OnBudget:         acc.OnBudget,
			Closed:           acc.Closed,
			Balance:          amount(currency, acc.Balance),
			ClearedBalance:   amount(currency, acc.ClearedBalance),
			UnclearedBalance: amount(currency, acc.UnclearedBalance),
		})
	}

	return nil, GetAccountsOutput{Accounts: entries, Count: len(entries)}, nil
}

// GetCategories tool

type GetCategoriesInput struct {
	BudgetID      string `json:"budgetId,omitempty" jsonschema:"Budget ID (default: last-used)"`
	IncludeHidden bool   `json:"includeHidden,omitempty" jsonschema:"Include hidden categories"`
}

type CategoryEntry struct {
	ID       string `json:"id" jsonschema:"Category ID"`
	Name     string `json:"name" jsonschema:"Category name"`
	Group    string `json:"group" jsonschema:"Category group name"`
	Hidden   bool   `json:"hidden" jsonschema:"Whether the category is hidden"`
	Budgeted Amount `json:"budgeted" jsonschema:"Amount budgeted this month"`
	Activity Amount `json:"activity" jsonschema:"Activity this month"`
	Balance  Amount `json:"balance" jsonschema:"Available balance"`
	GoalType string `json:"goalType,omitempty" jsonschema:"Goal type if a goal is set"`
}

type GetCategoriesOutput struct {
	Categories []CategoryEntry `json:"categories" jsonschema:"List of categories"`
	Count      int             `json:"count" jsonschema:"Number of categories"`
}

func (t *ynabTools) GetCategories(ctx context.Context, req *mcp.CallToolRequest, input GetCategoriesInput) (*mcp.CallToolResult, GetCategoriesOutput, error) {
	budgetID := budgetOrDefault(input.BudgetID)

	currency, err := t.currency(ctx, budgetID)
	if err != nil {
		return nil, GetCategoriesOutput{}, err
	}

	list, err := t.client.Categories.List(ctx, budgetID)
	if err != nil {
		return nil, GetCategoriesOutput{}, fmt.Errorf("failed to fetch categories: %w", err)
	}

	entries := []CategoryEntry{}
	for _, group := range list.CategoryGroups {
		if group.Deleted || (group.Hidden && !input.IncludeHidden) {
			continue
		}
		for _, cat := range group.Categories {
			if cat.Deleted || (cat.Hidden && !input.IncludeHidden) {
				continue
			}
			entries = append(entries, categoryEntry(currency, group.Name, cat))
		}
	}

	return nil, GetCategoriesOutput{Categories: entries, Count: len(entries)}, nil
}

func categoryEntry(currency ynab.CurrencyFormat, group string, cat ynab.Category) CategoryEntry {
	entry := CategoryEntry{
		ID:       cat.ID,
		Name:     cat.Name,
		Group:    group,
		Hidden:   cat.Hidden,
		Budgeted: amount(currency, cat.Budgeted),
		Activity: amount(currency, cat.Activity),
		Balance:  amount(currency, cat.Balance),
	}
	if cat.Goal != nil {
		entry.GoalType = string(cat.Goal.Type)
	}
	return entry
}

// GetTransactions tool

type GetTransactionsInput struct {
	BudgetID  string `json:"budgetId,omitempty" jsonschema:"Budget ID (default: last-used)"`
	SinceDate string `json:"sinceDate,omitempty" jsonschema:"Only transactions on or after this date (YYYY-MM-DD)"`
	Type      string `json:"type,omitempty" jsonschema:"Only uncategorized or unapproved transactions"`
	AccountID string `json:"accountId,omitempty" jsonschema:"Only transactions of this account"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum number of transactions to return (default: 50)"`
}

type SplitEntry struct {
	Amount   Amount `json:"amount" jsonschema:"Line amount"`
	Payee    string `json:"payee,omitempty" jsonschema:"Line payee"`
	Category string `json:"category,omitempty" jsonschema:"Line category"`
	Memo     string `json:"memo,omitempty" jsonschema:"Line memo"`
}

type TransactionEntry struct {
	ID       string       `json:"id" jsonschema:"Transaction ID"`
	Date     string       `json:"date" jsonschema:"Transaction date (YYYY-MM-DD)"`
	Amount   Amount       `json:"amount" jsonschema:"Transaction amount, negative for outflows"`
	Account  string       `json:"account" jsonschema:"Account name"`
	Payee    string       `json:"payee,omitempty" jsonschema:"Payee name"`
	Category string       `json:"category,omitempty" jsonschema:"Category name"`
	Memo     string       `json:"memo,omitempty" jsonschema:"Memo"`
	Cleared  string       `json:"cleared" jsonschema:"Cleared status"`
	Approved bool         `json:"approved" jsonschema:"Whether the transaction is approved"`
	Splits   []SplitEntry `json:"splits,omitempty" jsonschema:"Lines of a split transaction"`
}

type GetTransactionsOutput struct {
	Transactions []TransactionEntry `json:"transactions" jsonschema:"List of transactions"`
	Count        int                `json:"count" jsonschema:"Number of transactions returned"`
}

func (t *ynabTools) GetTransactions(ctx context.Context, req *mcp.CallToolRequest, input GetTransactionsInput) (*mcp.CallToolResult, GetTransactionsOutput, error) {
	budgetID := budgetOrDefault(input.BudgetID)

	query := t.client.Transactions.Query(budgetID)
	if input.AccountID != "" {
		query = query.InAccount(input.AccountID)
	}
	if input.SinceDate != "" {
		since, err := ynab.ParseDate(input.SinceDate)
		if err != nil {
			return nil, GetTransactionsOutput{}, fmt.Errorf("invalid sinceDate (expected YYYY-MM-DD): %w", err)
		}
		query = query.SinceDate(since)
	}
	if input.Type != "" {
		filter := ynab.TransactionFilterType(input.Type)
		if !filter.Valid() {
			return nil, GetTransactionsOutput{}, fmt.Errorf("invalid type %q (expected uncategorized or unapproved)", input.Type)
		}
		query = query.OfType(filter)
	}

	currency, err := t.currency(ctx, budgetID)
	if err != nil {
		return nil, GetTransactionsOutput{}, err
	}

	result, err := query.Execute(ctx)
	if err != nil {
		return nil, GetTransactionsOutput{}, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	// Most recent first
	entries := []TransactionEntry{}
	for i := len(result.Transactions) - 1; i >= 0 && len(entries) < limit; i-- {
		tx := result.Transactions[i]
		if tx.Deleted {
			continue
		}
		entries = append(entries, transactionEntry(currency, tx))
	}

	return nil, GetTransactionsOutput{Transactions: entries, Count: len(entries)}, nil
}

func transactionEntry(currency ynab.CurrencyFormat, tx ynab.TransactionDetail) TransactionEntry {
	entry := TransactionEntry{
		ID:       tx.ID,
		Date:     tx.Date.String(),
		Amount:   amount(currency, tx.Amount),
		Account:  tx.AccountName,
		Payee:    deref(tx.PayeeName),
		Category: deref(tx.CategoryName),
		Memo:     deref(tx.Memo),
		Cleared:  string(tx.Cleared),
		Approved: tx.Approved,
	}
	if tx.IsSplit() {
		for _, sub := range tx.Subtransactions {
			if sub.Deleted {
				continue
			}
			entry.Splits = append(entry.Splits, SplitEntry{
				Amount:   amount(currency, sub.Amount),
				Payee:    deref(sub.PayeeName),
				Category: deref(sub.CategoryName),
				Memo:     deref(sub.Memo),
			})
		}
	}
	return entry
}

// GetMonth tool

type GetMonthInput struct {
	BudgetID string `json:"budgetId,omitempty" jsonschema:"Budget ID (default: last-used)"`
	Month    string `json:"month,omitempty" jsonschema:"Month as YYYY-MM-01 or current (default: current)"`
}

type GetMonthOutput struct {
	Month        string          `json:"month" jsonschema:"Budget month (YYYY-MM-DD)"`
	Income       Amount          `json:"income" jsonschema:"Income for the month"`
	Budgeted     Amount          `json:"budgeted" jsonschema:"Total budgeted"`
	Activity     Amount          `json:"activity" jsonschema:"Total activity"`
	ToBeBudgeted Amount          `json:"toBeBudgeted" jsonschema:"Amount left to budget"`
	AgeOfMoney   *int            `json:"ageOfMoney,omitempty" jsonschema:"Age of money in days"`
	Categories   []CategoryEntry `json:"categories" jsonschema:"Per-category figures for the month"`
}

func (t *ynabTools) GetMonth(ctx context.Context, req *mcp.CallToolRequest, input GetMonthInput) (*mcp.CallToolResult, GetMonthOutput, error) {
	budgetID := budgetOrDefault(input.BudgetID)
	month := input.Month
	if month == "" {
		month = "current"
	}

	currency, err := t.currency(ctx, budgetID)
	if err != nil {
		return nil, GetMonthOutput{}, err
	}

	detail, err := t.client.Months.Get(ctx, budgetID, month)
	if err != nil {
		return nil, GetMonthOutput{}, fmt.Errorf("failed to fetch month: %w", err)
	}

	out := GetMonthOutput{
		Month:        detail.Month.String(),
		Income:       amount(currency, detail.Income),
		Budgeted:     amount(currency, detail.Budgeted),
		Activity:     amount(currency, detail.Activity),
		ToBeBudgeted: amount(currency, detail.ToBeBudgeted),
		AgeOfMoney:   detail.AgeOfMoney,
		Categories:   []CategoryEntry{},
	}
	for _, cat := range detail.Categories {
		if cat.Deleted || cat.Hidden {
			continue
		}
		out.Categories = append(out.Categories, categoryEntry(currency, deref(cat.CategoryGroupName), cat))
	}

	return nil, out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
