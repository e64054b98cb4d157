package ynab

import (
	"time"

	"github.com/pkg/errors"
)

// ErrBalanceMismatch is returned when an account's balance is not the sum of
// its cleared and uncleared balances
var ErrBalanceMismatch = errors.New("balance does not equal cleared plus uncleared balance")

// PeriodicValue maps a YYYY-MM-DD effective date to a milliunit amount
type PeriodicValue map[string]int64

// Account is a budget account
type Account struct {
	ID       string      `json:"id" validate:"required"`
	Name     string      `json:"name"`
	Type     AccountType `json:"type" validate:"oneof=checking savings cash creditCard lineOfCredit otherAsset otherLiability mortgage autoLoan studentLoan personalLoan medicalDebt otherDebt"`
	OnBudget bool        `json:"on_budget"`
	Closed   bool        `json:"closed"`
	Note     *string     `json:"note,omitempty"`

	Balance          int64 `json:"balance"`
	ClearedBalance   int64 `json:"cleared_balance"`
	UnclearedBalance int64 `json:"uncleared_balance"`

	// TransferPayeeID is the payee used for transfers into this account
	TransferPayeeID string `json:"transfer_payee_id" validate:"required"`

	DirectImportLinked  *bool      `json:"direct_import_linked,omitempty"`
	DirectImportInError *bool      `json:"direct_import_in_error,omitempty"`
	LastReconciledAt    *time.Time `json:"last_reconciled_at,omitempty"`

	DebtOriginalBalance *int64        `json:"debt_original_balance,omitempty"`
	DebtInterestRates   PeriodicValue `json:"debt_interest_rates,omitempty"`
	DebtMinimumPayments PeriodicValue `json:"debt_minimum_payments,omitempty"`
	DebtEscrowAmounts   PeriodicValue `json:"debt_escrow_amounts,omitempty"`

	Deleted bool `json:"deleted"`
}

// EntityID implements Entity
func (a Account) EntityID() string { return a.ID }

// IsDeleted implements Entity
func (a Account) IsDeleted() bool { return a.Deleted }

// CheckBalance verifies balance == cleared_balance + uncleared_balance
func (a Account) CheckBalance() error {
	if a.Balance != a.ClearedBalance+a.UnclearedBalance {
		return errors.Wrapf(ErrBalanceMismatch, "account %s: %d != %d + %d",
			a.ID, a.Balance, a.ClearedBalance, a.UnclearedBalance)
	}
	return nil
}

// AccountList is the result of listing accounts
type AccountList struct {
	Accounts        []Account
	ServerKnowledge Knowledge
}
