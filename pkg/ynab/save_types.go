package ynab

import "fmt"

// SaveSubTransaction is one line of a split in a write payload
type SaveSubTransaction struct {
	Amount     int64   `json:"amount"`
	PayeeID    *string `json:"payee_id,omitempty"`
	PayeeName  *string `json:"payee_name,omitempty" validate:"omitempty,max=200"`
	CategoryID *string `json:"category_id,omitempty"`
	Memo       *string `json:"memo,omitempty" validate:"omitempty,max=500"`
}

// SaveTransaction is the payload for creating or replacing a transaction
type SaveTransaction struct {
	AccountID       string               `json:"account_id" validate:"required"`
	Date            Date                 `json:"date" validate:"required"`
	Amount          int64                `json:"amount"`
	PayeeID         *string              `json:"payee_id,omitempty"`
	PayeeName       *string              `json:"payee_name,omitempty" validate:"omitempty,max=200"`
	CategoryID      *string              `json:"category_id,omitempty"`
	Memo            *string              `json:"memo,omitempty" validate:"omitempty,max=500"`
	Cleared         *ClearedStatus       `json:"cleared,omitempty" validate:"omitempty,oneof=cleared uncleared reconciled"`
	Approved        *bool                `json:"approved,omitempty"`
	FlagColor       *FlagColor           `json:"flag_color,omitempty" validate:"omitempty,oneof=red orange yellow green blue purple"`
	ImportID        *string              `json:"import_id,omitempty" validate:"omitempty,max=36"`
	Subtransactions []SaveSubTransaction `json:"subtransactions,omitempty" validate:"omitempty,dive"`
}

// Validate checks required fields, enum values and that a split adds up
func (t *SaveTransaction) Validate() error {
	if err := validateStruct(t); err != nil {
		return err
	}
	return checkSaveSplit("", t.Amount, t.Subtransactions)
}

// SaveTransactionWithID is an entry of a patch: only ID is required, every
// other set field overrides the stored value
type SaveTransactionWithID struct {
	ID              string               `json:"id" validate:"required"`
	AccountID       *string              `json:"account_id,omitempty"`
	Date            *Date                `json:"date,omitempty"`
	Amount          *int64               `json:"amount,omitempty"`
	PayeeID         *string              `json:"payee_id,omitempty"`
	PayeeName       *string              `json:"payee_name,omitempty" validate:"omitempty,max=200"`
	CategoryID      *string              `json:"category_id,omitempty"`
	Memo            *string              `json:"memo,omitempty" validate:"omitempty,max=500"`
	Cleared         *ClearedStatus       `json:"cleared,omitempty" validate:"omitempty,oneof=cleared uncleared reconciled"`
	Approved        *bool                `json:"approved,omitempty"`
	FlagColor       *FlagColor           `json:"flag_color,omitempty" validate:"omitempty,oneof=red orange yellow green blue purple"`
	ImportID        *string              `json:"import_id,omitempty" validate:"omitempty,max=36"`
	Subtransactions []SaveSubTransaction `json:"subtransactions,omitempty" validate:"omitempty,dive"`
}

// Validate checks the entry. The split total is only checked when the patch
// sets both the amount and the sub-transactions.
func (t *SaveTransactionWithID) Validate() error {
	if err := validateStruct(t); err != nil {
		return err
	}
	if t.Amount == nil {
		return nil
	}
	return checkSaveSplit(t.ID, *t.Amount, t.Subtransactions)
}

func checkSaveSplit(id string, amount int64, subs []SaveSubTransaction) error {
	if len(subs) == 0 {
		return nil
	}
	var sum int64
	for _, s := range subs {
		sum += s.Amount
	}
	if sum == amount {
		return nil
	}
	field := "subtransactions"
	if id != "" {
		field = fmt.Sprintf("subtransactions[%s]", id)
	}
	return &ValidationErrors{Errors: []*ValidationError{{
		Field:   field,
		Message: fmt.Sprintf("split amounts sum to %d, transaction amount is %d", sum, amount),
		Value:   sum,
	}}}
}

// SaveAccount is the payload for creating an account
type SaveAccount struct {
	Name    string      `json:"name" validate:"required"`
	Type    AccountType `json:"type" validate:"required,oneof=checking savings cash creditCard lineOfCredit otherAsset otherLiability mortgage autoLoan studentLoan personalLoan medicalDebt otherDebt"`
	Balance int64       `json:"balance"`
}

// SaveMonthCategory sets a category's budgeted amount for a month
type SaveMonthCategory struct {
	Budgeted int64 `json:"budgeted"`
}
