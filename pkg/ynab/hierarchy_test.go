package ynab

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestAccount_CheckBalance(t *testing.T) {
	ok := Account{ID: "a1", Balance: -2500, ClearedBalance: -1000, UnclearedBalance: -1500}
	assert.NoError(t, ok.CheckBalance())

	bad := Account{ID: "a2", Balance: 100, ClearedBalance: 50, UnclearedBalance: 40}
	err := bad.CheckBalance()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBalanceMismatch)
	assert.Contains(t, err.Error(), "a2")
}

func TestTransactionDetail_Lines(t *testing.T) {
	t.Run("unsplit transaction is its own line", func(t *testing.T) {
		tx := TransactionDetail{
			TransactionCore: TransactionCore{ID: "t1", AccountID: "a1", Amount: -5000, PayeeID: strPtr("p1"), CategoryID: strPtr("c1")},
			Subtransactions: []SubTransaction{},
		}

		assert.False(t, tx.IsSplit())
		lines := tx.Lines()
		require.Len(t, lines, 1)
		assert.Nil(t, lines[0].SubTransactionID)
		assert.Equal(t, int64(-5000), lines[0].Amount)
		assert.Equal(t, "c1", *lines[0].CategoryID)
		assert.NoError(t, tx.CheckSplitTotal())
	})

	t.Run("split lines keep their own payee and category", func(t *testing.T) {
		tx := TransactionDetail{
			TransactionCore: TransactionCore{ID: "t2", AccountID: "a1", Amount: -10000, PayeeID: strPtr("p-parent"), CategoryID: strPtr("split-category")},
			Subtransactions: []SubTransaction{
				{ID: "s1", TransactionID: "t2", Amount: -6000, PayeeID: strPtr("p1"), CategoryID: strPtr("groceries")},
				{ID: "s2", TransactionID: "t2", Amount: -4000, PayeeID: strPtr("p2"), CategoryID: strPtr("household")},
				{ID: "s3", TransactionID: "t2", Amount: -999, Deleted: true},
			},
		}

		assert.True(t, tx.IsSplit())
		assert.NoError(t, tx.CheckSplitTotal())

		lines := tx.Lines()
		require.Len(t, lines, 2)
		assert.Equal(t, "s1", *lines[0].SubTransactionID)
		assert.Equal(t, "groceries", *lines[0].CategoryID)
		assert.Equal(t, "p1", *lines[0].PayeeID)
		assert.Equal(t, "household", *lines[1].CategoryID)
		assert.Equal(t, "p2", *lines[1].PayeeID)
		for _, line := range lines {
			assert.Equal(t, "t2", line.TransactionID)
			assert.Equal(t, "a1", line.AccountID)
		}
	})

	t.Run("only deleted subtransactions is not a split", func(t *testing.T) {
		tx := TransactionDetail{
			TransactionCore: TransactionCore{ID: "t3", Amount: -100},
			Subtransactions: []SubTransaction{{ID: "s1", TransactionID: "t3", Amount: -50, Deleted: true}},
		}
		assert.False(t, tx.IsSplit())
		assert.Len(t, tx.Lines(), 1)
	})

	t.Run("split that does not add up", func(t *testing.T) {
		tx := TransactionDetail{
			TransactionCore: TransactionCore{ID: "t4", Amount: -100},
			Subtransactions: []SubTransaction{{ID: "s1", TransactionID: "t4", Amount: -60}},
		}
		assert.ErrorIs(t, tx.CheckSplitTotal(), ErrSplitMismatch)
	})
}

func TestHybridType_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input string
		want  HybridType
	}{
		{`"transaction"`, HybridTypeTransaction},
		{`"subtransaction"`, HybridTypeSubtransaction},
		{`"sub_transaction"`, HybridTypeSubtransaction},
		{`"SubTransaction"`, HybridTypeSubtransaction},
		{`"split"`, HybridType("split")},
	}

	for _, tt := range tests {
		var got HybridType
		require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func hybridListing(t *testing.T) []HybridTransaction {
	t.Helper()
	body := `{"data":{"transactions":[
		{"id":"t1","date":"2024-03-01","amount":-10000,"cleared":"cleared","approved":true,"account_id":"a1","account_name":"Checking","type":"transaction","deleted":false},
		{"id":"s1","date":"2024-03-01","amount":-6000,"cleared":"cleared","approved":true,"account_id":"a1","account_name":"Checking","type":"sub_transaction","parent_transaction_id":"t1","deleted":false},
		{"id":"s2","date":"2024-03-01","amount":-4000,"cleared":"cleared","approved":true,"account_id":"a1","account_name":"Checking","type":"subtransaction","parent_transaction_id":"t1","deleted":false},
		{"id":"t2","date":"2024-03-02","amount":-2500,"cleared":"uncleared","approved":false,"account_id":"a2","account_name":"Card","type":"transaction","parent_transaction_id":"ignored","deleted":false},
		{"id":"s9","date":"2024-03-02","amount":-100,"cleared":"uncleared","approved":false,"account_id":"a2","account_name":"Card","type":"subtransaction","deleted":false},
		{"id":"t3","date":"2024-03-03","amount":-700,"cleared":"uncleared","approved":false,"account_id":"a2","account_name":"Card","type":"transaction","deleted":true}
	]}}`

	result := Decode[hybridTransactionsData]("get_transactions_by_payee", 200, []byte(body))
	data, err := result.Unwrap()
	require.NoError(t, err)
	assert.Nil(t, data.ServerKnowledge)
	return data.Transactions
}

func TestGroupHybrid(t *testing.T) {
	groups := GroupHybrid(hybridListing(t))

	require.Len(t, groups.Standalone, 2)
	assert.Equal(t, "t1", groups.Standalone[0].ID)
	assert.Equal(t, "t2", groups.Standalone[1].ID)

	require.Len(t, groups.ByParent["t1"], 2)
	assert.Equal(t, "s1", groups.ByParent["t1"][0].ID)
	assert.Equal(t, "s2", groups.ByParent["t1"][1].ID)
	assert.NotContains(t, groups.ByParent, "ignored")

	require.Len(t, groups.Orphans, 1)
	assert.Equal(t, "s9", groups.Orphans[0].ID)
}

func TestHybridTransaction_ParentID(t *testing.T) {
	items := hybridListing(t)

	parent, ok := items[1].ParentID()
	assert.True(t, ok)
	assert.Equal(t, "t1", parent)

	// parent_transaction_id on a plain transaction is ignored
	_, ok = items[3].ParentID()
	assert.False(t, ok)
}

func TestAccountTotals(t *testing.T) {
	totals := AccountTotals(hybridListing(t))

	// Sub-transaction entries are not counted on top of their parent and
	// deleted entries are dropped
	assert.Equal(t, map[string]int64{"a1": -10000, "a2": -2500}, totals)
}

func TestBudgetDetail_SubtransactionsByParent(t *testing.T) {
	budget := BudgetDetail{
		Subtransactions: []SubTransaction{
			{ID: "s1", TransactionID: "t1"},
			{ID: "s2", TransactionID: "t2"},
			{ID: "s3", TransactionID: "t1"},
		},
		ScheduledSubtransactions: []ScheduledSubTransaction{
			{ID: "ss1", ScheduledTransactionID: "st1"},
		},
	}

	byParent := budget.SubtransactionsByParent()
	require.Len(t, byParent["t1"], 2)
	assert.Equal(t, "s3", byParent["t1"][1].ID)
	assert.Len(t, byParent["t2"], 1)

	scheduled := budget.ScheduledSubtransactionsByParent()
	assert.Len(t, scheduled["st1"], 1)
}

func TestBudgetDetail_CheckReferences(t *testing.T) {
	budget := BudgetDetail{
		Accounts: []Account{{ID: "a1", TransferPayeeID: "p-transfer"}},
		Payees: []Payee{
			{ID: "p1"},
			{ID: "p-transfer", TransferAccountID: strPtr("a1")},
		},
		PayeeLocations: []PayeeLocation{{ID: "l1", PayeeID: "p-missing"}},
		CategoryGroups: []CategoryGroup{{ID: "g1"}},
		Categories: []Category{
			{ID: "c1", CategoryGroupID: "g1"},
			{ID: "c2", CategoryGroupID: "g-missing"},
		},
		Transactions: []TransactionSummary{
			{TransactionCore: TransactionCore{ID: "t1", AccountID: "a1", PayeeID: strPtr("p1"), CategoryID: strPtr("c1")}},
			{TransactionCore: TransactionCore{ID: "t2", AccountID: "a-missing", CategoryID: strPtr("c1")}},
		},
		Subtransactions: []SubTransaction{
			{ID: "s1", TransactionID: "t1", CategoryID: strPtr("c-missing")},
		},
	}

	refs := budget.CheckReferences()
	assert.Equal(t, []DanglingReference{
		{Kind: "category", ID: "c2", Field: "category_group_id", Ref: "g-missing"},
		{Kind: "payee_location", ID: "l1", Field: "payee_id", Ref: "p-missing"},
		{Kind: "subtransaction", ID: "s1", Field: "category_id", Ref: "c-missing"},
		{Kind: "transaction", ID: "t2", Field: "account_id", Ref: "a-missing"},
	}, refs)
}
