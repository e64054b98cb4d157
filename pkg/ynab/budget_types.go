package ynab

import "time"

// User is the owner of the access token
type User struct {
	ID string `json:"id" validate:"required"`
}

// DateFormat is a budget's date display format
type DateFormat struct {
	Format string `json:"format"`
}

// CurrencyFormat is a budget's currency display format
type CurrencyFormat struct {
	ISOCode          string `json:"iso_code"`
	ExampleFormat    string `json:"example_format"`
	DecimalDigits    int    `json:"decimal_digits"`
	DecimalSeparator string `json:"decimal_separator"`
	SymbolFirst      bool   `json:"symbol_first"`
	GroupSeparator   string `json:"group_separator"`
	CurrencySymbol   string `json:"currency_symbol"`
	DisplaySymbol    bool   `json:"display_symbol"`
}

// BudgetSummary is a budget without its collections. Accounts is nil unless
// they were requested.
type BudgetSummary struct {
	ID             string          `json:"id" validate:"required"`
	Name           string          `json:"name"`
	LastModifiedOn *time.Time      `json:"last_modified_on,omitempty"`
	FirstMonth     *Date           `json:"first_month,omitempty"`
	LastMonth      *Date           `json:"last_month,omitempty"`
	DateFormat     *DateFormat     `json:"date_format,omitempty"`
	CurrencyFormat *CurrencyFormat `json:"currency_format,omitempty"`
	Accounts       []Account       `json:"accounts,omitempty" validate:"omitempty,dive"`
}

// BudgetDetail is a complete budget export. Every collection is flat: sub
// records point at their parent by id.
type BudgetDetail struct {
	ID             string          `json:"id" validate:"required"`
	Name           string          `json:"name"`
	LastModifiedOn *time.Time      `json:"last_modified_on,omitempty"`
	FirstMonth     *Date           `json:"first_month,omitempty"`
	LastMonth      *Date           `json:"last_month,omitempty"`
	DateFormat     *DateFormat     `json:"date_format,omitempty"`
	CurrencyFormat *CurrencyFormat `json:"currency_format,omitempty"`

	Accounts                 []Account                     `json:"accounts" validate:"dive"`
	Payees                   []Payee                       `json:"payees" validate:"dive"`
	PayeeLocations           []PayeeLocation               `json:"payee_locations" validate:"dive"`
	CategoryGroups           []CategoryGroup               `json:"category_groups" validate:"dive"`
	Categories               []Category                    `json:"categories" validate:"dive"`
	Months                   []MonthDetail                 `json:"months" validate:"dive"`
	Transactions             []TransactionSummary          `json:"transactions" validate:"dive"`
	Subtransactions          []SubTransaction              `json:"subtransactions" validate:"dive"`
	ScheduledTransactions    []ScheduledTransactionSummary `json:"scheduled_transactions" validate:"dive"`
	ScheduledSubtransactions []ScheduledSubTransaction     `json:"scheduled_subtransactions" validate:"dive"`
}

// Summary returns the budget without its collections
func (b *BudgetDetail) Summary() BudgetSummary {
	return BudgetSummary{
		ID:             b.ID,
		Name:           b.Name,
		LastModifiedOn: b.LastModifiedOn,
		FirstMonth:     b.FirstMonth,
		LastMonth:      b.LastMonth,
		DateFormat:     b.DateFormat,
		CurrencyFormat: b.CurrencyFormat,
	}
}

// BudgetSettings holds a budget's display settings
type BudgetSettings struct {
	DateFormat     DateFormat     `json:"date_format"`
	CurrencyFormat CurrencyFormat `json:"currency_format"`
}

// BudgetList is the result of listing budgets
type BudgetList struct {
	Budgets       []BudgetSummary `json:"budgets" validate:"required,dive"`
	DefaultBudget *BudgetSummary  `json:"default_budget,omitempty"`
}

// BudgetExport is a full or incremental budget export
type BudgetExport struct {
	Budget          BudgetDetail `json:"budget"`
	ServerKnowledge Knowledge    `json:"server_knowledge"`
}
