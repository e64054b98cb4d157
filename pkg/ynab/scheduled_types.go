package ynab

// ScheduledCore holds the fields both scheduled transaction shapes share.
// Scheduled transactions have no cleared or approved state.
type ScheduledCore struct {
	ID                string            `json:"id" validate:"required"`
	DateFirst         Date              `json:"date_first" validate:"required"`
	DateNext          Date              `json:"date_next" validate:"required"`
	Frequency         ScheduleFrequency `json:"frequency" validate:"oneof=never daily weekly everyOtherWeek twiceAMonth every4Weeks monthly everyOtherMonth every3Months every4Months twiceAYear yearly everyOtherYear"`
	Amount            int64             `json:"amount"`
	Memo              *string           `json:"memo,omitempty"`
	FlagColor         *FlagColor        `json:"flag_color,omitempty" validate:"omitempty,oneof=red orange yellow green blue purple"`
	AccountID         string            `json:"account_id" validate:"required"`
	PayeeID           *string           `json:"payee_id,omitempty"`
	CategoryID        *string           `json:"category_id,omitempty"`
	TransferAccountID *string           `json:"transfer_account_id,omitempty"`
	Deleted           bool              `json:"deleted"`
}

// EntityID implements Entity
func (s ScheduledCore) EntityID() string { return s.ID }

// IsDeleted implements Entity
func (s ScheduledCore) IsDeleted() bool { return s.Deleted }

// NextOccurrence returns date_next. Occurrences beyond it are not computed.
func (s ScheduledCore) NextOccurrence() Date { return s.DateNext }

// ScheduledTransactionSummary is the flat shape used in budget exports
type ScheduledTransactionSummary struct {
	ScheduledCore
}

// ScheduledTransactionDetail carries resolved names and sub-transactions
type ScheduledTransactionDetail struct {
	ScheduledCore
	AccountName     string                    `json:"account_name"`
	PayeeName       *string                   `json:"payee_name,omitempty"`
	CategoryName    *string                   `json:"category_name,omitempty"`
	Subtransactions []ScheduledSubTransaction `json:"subtransactions" validate:"required,dive"`
}

// ScheduledSubTransaction is one line of a split scheduled transaction
type ScheduledSubTransaction struct {
	ID                     string  `json:"id" validate:"required"`
	ScheduledTransactionID string  `json:"scheduled_transaction_id" validate:"required"`
	Amount                 int64   `json:"amount"`
	Memo                   *string `json:"memo,omitempty"`
	PayeeID                *string `json:"payee_id,omitempty"`
	CategoryID             *string `json:"category_id,omitempty"`
	TransferAccountID      *string `json:"transfer_account_id,omitempty"`
	Deleted                bool    `json:"deleted"`
}

// EntityID implements Entity
func (s ScheduledSubTransaction) EntityID() string { return s.ID }

// IsDeleted implements Entity
func (s ScheduledSubTransaction) IsDeleted() bool { return s.Deleted }

// ScheduledTransactionList is the result of listing scheduled transactions
type ScheduledTransactionList struct {
	ScheduledTransactions []ScheduledTransactionDetail
	ServerKnowledge       Knowledge
}
