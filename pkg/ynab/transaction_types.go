package ynab

// Transaction is implemented by the three transaction shapes the API
// returns: TransactionSummary, TransactionDetail and HybridTransaction.
type Transaction interface {
	Entity
	Base() TransactionCore
	isTransaction()
}

// TransactionCore holds the fields every transaction shape shares
type TransactionCore struct {
	ID                      string               `json:"id" validate:"required"`
	Date                    Date                 `json:"date" validate:"required"`
	Amount                  int64                `json:"amount"`
	Memo                    *string              `json:"memo,omitempty"`
	Cleared                 ClearedStatus        `json:"cleared" validate:"oneof=cleared uncleared reconciled"`
	Approved                bool                 `json:"approved"`
	FlagColor               *FlagColor           `json:"flag_color,omitempty" validate:"omitempty,oneof=red orange yellow green blue purple"`
	AccountID               string               `json:"account_id" validate:"required"`
	PayeeID                 *string              `json:"payee_id,omitempty"`
	CategoryID              *string              `json:"category_id,omitempty"`
	TransferAccountID       *string              `json:"transfer_account_id,omitempty"`
	MatchedTransactionID    *string              `json:"matched_transaction_id,omitempty"`
	ImportID                *string              `json:"import_id,omitempty"`
	ImportPayeeName         *string              `json:"import_payee_name,omitempty"`
	ImportPayeeNameOriginal *string              `json:"import_payee_name_original,omitempty"`
	DebtTransactionType     *DebtTransactionType `json:"debt_transaction_type,omitempty" validate:"omitempty,oneof=payment refund fee interest escrow balancedAdjustment credit charge"`
	Deleted                 bool                 `json:"deleted"`
}

// EntityID implements Entity
func (t TransactionCore) EntityID() string { return t.ID }

// IsDeleted implements Entity
func (t TransactionCore) IsDeleted() bool { return t.Deleted }

// Base returns the shared fields
func (t TransactionCore) Base() TransactionCore { return t }

// TransactionSummary is the flat shape used in budget exports
type TransactionSummary struct {
	TransactionCore
	// TransferTransactionID is the other side of a transfer
	TransferTransactionID *string `json:"transfer_transaction_id,omitempty"`
}

func (TransactionSummary) isTransaction() {}

// TransactionDetail carries resolved names and its sub-transactions. When
// Subtransactions holds live entries the parent's category and payee are
// nominal; see Lines.
type TransactionDetail struct {
	TransactionCore
	AccountName     string           `json:"account_name"`
	PayeeName       *string          `json:"payee_name,omitempty"`
	CategoryName    *string          `json:"category_name,omitempty"`
	Subtransactions []SubTransaction `json:"subtransactions" validate:"required,dive"`
}

func (TransactionDetail) isTransaction() {}

// HybridTransaction is an entry of a payee-scoped listing, which flattens
// transactions and sub-transactions into one sequence
type HybridTransaction struct {
	TransactionCore
	Type                HybridType `json:"type" validate:"oneof=transaction subtransaction"`
	ParentTransactionID *string    `json:"parent_transaction_id,omitempty"`
	AccountName         string     `json:"account_name"`
	PayeeName           *string    `json:"payee_name,omitempty"`
	CategoryName        *string    `json:"category_name,omitempty"`
}

func (HybridTransaction) isTransaction() {}

// SubTransaction is one line of a split transaction
type SubTransaction struct {
	ID                    string  `json:"id" validate:"required"`
	TransactionID         string  `json:"transaction_id" validate:"required"`
	Amount                int64   `json:"amount"`
	Memo                  *string `json:"memo,omitempty"`
	PayeeID               *string `json:"payee_id,omitempty"`
	PayeeName             *string `json:"payee_name,omitempty"`
	CategoryID            *string `json:"category_id,omitempty"`
	CategoryName          *string `json:"category_name,omitempty"`
	TransferAccountID     *string `json:"transfer_account_id,omitempty"`
	TransferTransactionID *string `json:"transfer_transaction_id,omitempty"`
	Deleted               bool    `json:"deleted"`
}

// EntityID implements Entity
func (s SubTransaction) EntityID() string { return s.ID }

// IsDeleted implements Entity
func (s SubTransaction) IsDeleted() bool { return s.Deleted }

// TransactionList is the result of a transaction listing
type TransactionList struct {
	Transactions    []TransactionDetail
	ServerKnowledge Knowledge
}

// HybridTransactionList is the result of a payee-scoped listing.
// ServerKnowledge is nil when the API omits it.
type HybridTransactionList struct {
	Transactions    []HybridTransaction
	ServerKnowledge *Knowledge
}

// SaveTransactionsResult is the result of creating or patching transactions
type SaveTransactionsResult struct {
	TransactionIDs []string `json:"transaction_ids" validate:"required"`
	// Transaction is set when a single transaction was saved
	Transaction *TransactionDetail `json:"transaction,omitempty"`
	// Transactions is set when several were saved
	Transactions       []TransactionDetail `json:"transactions,omitempty" validate:"omitempty,dive"`
	DuplicateImportIDs []string            `json:"duplicate_import_ids,omitempty"`
	ServerKnowledge    Knowledge           `json:"server_knowledge"`
}

// ImportResult lists the transactions created by a linked-account import
type ImportResult struct {
	TransactionIDs []string `json:"transaction_ids" validate:"required"`
}

// BulkResult is the result of a bulk create
type BulkResult struct {
	TransactionIDs     []string `json:"transaction_ids" validate:"required"`
	DuplicateImportIDs []string `json:"duplicate_import_ids" validate:"required"`
}
