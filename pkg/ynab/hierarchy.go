package ynab

import (
	"sort"

	"github.com/pkg/errors"
)

// Line is one effective categorization line of a transaction
type Line struct {
	TransactionID string
	// SubTransactionID is set when the line comes from a split
	SubTransactionID *string
	AccountID        string
	Date             Date
	Amount           int64
	PayeeID          *string
	CategoryID       *string
	Memo             *string
}

// IsSplit reports whether the transaction has live sub-transactions
func (t *TransactionDetail) IsSplit() bool {
	for _, s := range t.Subtransactions {
		if !s.Deleted {
			return true
		}
	}
	return false
}

// Lines returns how the transaction is actually categorized: the parent
// itself when unsplit, otherwise one line per live sub-transaction with the
// sub-transaction's own payee and category.
func (t *TransactionDetail) Lines() []Line {
	if !t.IsSplit() {
		return []Line{{
			TransactionID: t.ID,
			AccountID:     t.AccountID,
			Date:          t.Date,
			Amount:        t.Amount,
			PayeeID:       t.PayeeID,
			CategoryID:    t.CategoryID,
			Memo:          t.Memo,
		}}
	}

	lines := make([]Line, 0, len(t.Subtransactions))
	for _, s := range t.Subtransactions {
		if s.Deleted {
			continue
		}
		subID := s.ID
		lines = append(lines, Line{
			TransactionID:    t.ID,
			SubTransactionID: &subID,
			AccountID:        t.AccountID,
			Date:             t.Date,
			Amount:           s.Amount,
			PayeeID:          s.PayeeID,
			CategoryID:       s.CategoryID,
			Memo:             s.Memo,
		})
	}
	return lines
}

// CheckSplitTotal verifies that live sub-transactions add up to the parent
func (t *TransactionDetail) CheckSplitTotal() error {
	if !t.IsSplit() {
		return nil
	}
	var sum int64
	for _, s := range t.Subtransactions {
		if !s.Deleted {
			sum += s.Amount
		}
	}
	if sum != t.Amount {
		return errors.Wrapf(ErrSplitMismatch, "transaction %s: %d != %d", t.ID, sum, t.Amount)
	}
	return nil
}

// IsSubtransaction reports whether the entry is a line of a split
func (h *HybridTransaction) IsSubtransaction() bool {
	return h.Type == HybridTypeSubtransaction
}

// ParentID returns the parent transaction id of a sub-transaction entry.
// parent_transaction_id is ignored on plain transaction entries.
func (h *HybridTransaction) ParentID() (string, bool) {
	if !h.IsSubtransaction() || h.ParentTransactionID == nil || *h.ParentTransactionID == "" {
		return "", false
	}
	return *h.ParentTransactionID, true
}

// HybridGroups is a payee-scoped listing rebuilt into its two levels
type HybridGroups struct {
	// Standalone holds plain transaction entries
	Standalone []HybridTransaction
	// ByParent holds sub-transaction entries keyed by parent id
	ByParent map[string][]HybridTransaction
	// Orphans holds sub-transaction entries without a parent id
	Orphans []HybridTransaction
}

// GroupHybrid splits a payee-scoped listing into standalone transactions and
// sub-transactions. Deleted entries are dropped.
func GroupHybrid(items []HybridTransaction) HybridGroups {
	groups := HybridGroups{ByParent: make(map[string][]HybridTransaction)}
	for _, h := range items {
		if h.Deleted {
			continue
		}
		if !h.IsSubtransaction() {
			groups.Standalone = append(groups.Standalone, h)
			continue
		}
		if parent, ok := h.ParentID(); ok {
			groups.ByParent[parent] = append(groups.ByParent[parent], h)
			continue
		}
		groups.Orphans = append(groups.Orphans, h)
	}
	return groups
}

// AccountTotals sums live standalone entries per account. Sub-transaction
// entries are never counted: their parent already carries the amount.
func AccountTotals(items []HybridTransaction) map[string]int64 {
	totals := make(map[string]int64)
	for _, h := range GroupHybrid(items).Standalone {
		totals[h.AccountID] += h.Amount
	}
	return totals
}

// SubtransactionsByParent links the export's flat sub-transactions to their
// parent transaction ids
func (b *BudgetDetail) SubtransactionsByParent() map[string][]SubTransaction {
	out := make(map[string][]SubTransaction)
	for _, s := range b.Subtransactions {
		out[s.TransactionID] = append(out[s.TransactionID], s)
	}
	return out
}

// ScheduledSubtransactionsByParent links the export's flat scheduled
// sub-transactions to their parent ids
func (b *BudgetDetail) ScheduledSubtransactionsByParent() map[string][]ScheduledSubTransaction {
	out := make(map[string][]ScheduledSubTransaction)
	for _, s := range b.ScheduledSubtransactions {
		out[s.ScheduledTransactionID] = append(out[s.ScheduledTransactionID], s)
	}
	return out
}

// DanglingReference is a foreign id in a budget export that resolves to
// nothing in the same export
type DanglingReference struct {
	Kind  string
	ID    string
	Field string
	Ref   string
}

// CheckReferences returns every foreign id in the export that does not
// resolve inside it, sorted by kind, id and field
func (b *BudgetDetail) CheckReferences() []DanglingReference {
	accounts := idSet(b.Accounts)
	payees := idSet(b.Payees)
	categories := idSet(b.Categories)
	groups := idSet(b.CategoryGroups)
	transactions := idSet(b.Transactions)
	scheduled := idSet(b.ScheduledTransactions)

	var out []DanglingReference
	check := func(kind, id, field string, ref *string, set map[string]struct{}) {
		if ref == nil || *ref == "" {
			return
		}
		if _, ok := set[*ref]; !ok {
			out = append(out, DanglingReference{Kind: kind, ID: id, Field: field, Ref: *ref})
		}
	}

	for _, a := range b.Accounts {
		check("account", a.ID, "transfer_payee_id", &a.TransferPayeeID, payees)
	}
	for _, p := range b.Payees {
		check("payee", p.ID, "transfer_account_id", p.TransferAccountID, accounts)
	}
	for _, l := range b.PayeeLocations {
		check("payee_location", l.ID, "payee_id", &l.PayeeID, payees)
	}
	for _, c := range b.Categories {
		check("category", c.ID, "category_group_id", &c.CategoryGroupID, groups)
	}
	for _, t := range b.Transactions {
		check("transaction", t.ID, "account_id", &t.AccountID, accounts)
		check("transaction", t.ID, "payee_id", t.PayeeID, payees)
		check("transaction", t.ID, "category_id", t.CategoryID, categories)
		check("transaction", t.ID, "transfer_account_id", t.TransferAccountID, accounts)
		check("transaction", t.ID, "transfer_transaction_id", t.TransferTransactionID, transactions)
	}
	for _, s := range b.Subtransactions {
		check("subtransaction", s.ID, "transaction_id", &s.TransactionID, transactions)
		check("subtransaction", s.ID, "payee_id", s.PayeeID, payees)
		check("subtransaction", s.ID, "category_id", s.CategoryID, categories)
		check("subtransaction", s.ID, "transfer_account_id", s.TransferAccountID, accounts)
	}
	for _, s := range b.ScheduledTransactions {
		check("scheduled_transaction", s.ID, "account_id", &s.AccountID, accounts)
		check("scheduled_transaction", s.ID, "payee_id", s.PayeeID, payees)
		check("scheduled_transaction", s.ID, "category_id", s.CategoryID, categories)
		check("scheduled_transaction", s.ID, "transfer_account_id", s.TransferAccountID, accounts)
	}
	for _, s := range b.ScheduledSubtransactions {
		check("scheduled_subtransaction", s.ID, "scheduled_transaction_id", &s.ScheduledTransactionID, scheduled)
		check("scheduled_subtransaction", s.ID, "payee_id", s.PayeeID, payees)
		check("scheduled_subtransaction", s.ID, "category_id", s.CategoryID, categories)
		check("scheduled_subtransaction", s.ID, "transfer_account_id", s.TransferAccountID, accounts)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		if out[i].ID != out[j].ID {
			return out[i].ID < out[j].ID
		}
		return out[i].Field < out[j].Field
	})
	return out
}

func idSet[T Entity](items []T) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item.EntityID()] = struct{}{}
	}
	return set
}
