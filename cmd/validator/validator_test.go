package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/eshaffer321/ynab-go/pkg/ynab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exportJSON = `{"data":{"budget":{"id":"b1","name":"Home",
	"accounts":[{"id":"a1","name":"Checking","type":"checking","balance":0,"cleared_balance":0,"uncleared_balance":0,"transfer_payee_id":"p-t1","deleted":false}],
	"payees":[{"id":"p-t1","name":"Transfer : Checking","transfer_account_id":"a1"}],
	"payee_locations":[],"category_groups":[],"categories":[],"months":[],
	"transactions":[{"id":"t1","date":"2024-03-01","amount":-1000,"cleared":"cleared","approved":true,"account_id":"a-gone","deleted":false}],
	"subtransactions":[],"scheduled_transactions":[],"scheduled_subtransactions":[]
},"server_knowledge":5}}`

func newValidatorServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		path := r.URL.Path
		switch {
		case path == "/user":
			fmt.Fprint(w, `{"data":{"user":{"id":"u1"}}}`)
		case path == "/budgets":
			fmt.Fprint(w, `{"data":{"budgets":[{"id":"b1","name":"Home","accounts":[]}]}}`)
		case path == "/budgets/b1":
			fmt.Fprint(w, exportJSON)
		case strings.HasSuffix(path, "/accounts"):
			fmt.Fprint(w, `{"data":{"accounts":[
				{"id":"a1","name":"Checking","type":"checking","balance":1000,"cleared_balance":600,"uncleared_balance":300,"transfer_payee_id":"p-t1","deleted":false}
			],"server_knowledge":5}}`)
		case strings.HasSuffix(path, "/categories"):
			fmt.Fprint(w, `{"data":{"category_groups":[{"id":"g1","name":"Bills","categories":[{"id":"c1","category_group_id":"g1","name":"Rent"}]}],"server_knowledge":5}}`)
		case strings.HasSuffix(path, "/payee_locations"):
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"error":{"id":"500","name":"internal_server_error","detail":"Something went wrong"}}`)
		case strings.HasSuffix(path, "/payees"):
			fmt.Fprint(w, `{"data":{"payees":[],"server_knowledge":5}}`)
		case strings.HasSuffix(path, "/months"):
			fmt.Fprint(w, `{"data":{"months":[{"month":"2024-03-01"}]}}`)
		case strings.HasSuffix(path, "/scheduled_transactions"):
			fmt.Fprint(w, `{"data":{"scheduled_transactions":[],"server_knowledge":5}}`)
		case strings.HasSuffix(path, "/transactions"):
			fmt.Fprint(w, `{"data":{"transactions":[
				{"id":"t1","date":"2024-03-01","amount":-1000,"cleared":"cleared","approved":true,"account_id":"a1","account_name":"Checking","deleted":false,"subtransactions":[
					{"id":"s1","transaction_id":"t1","amount":-400,"deleted":false},
					{"id":"s2","transaction_id":"t1","amount":-500,"deleted":false}
				]}
			],"server_knowledge":5}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":{"id":"404.2","name":"resource_not_found","detail":"Resource not found"}}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func runValidator(t *testing.T, names ...string) *ValidationReport {
	t.Helper()
	srv := newValidatorServer(t)
	client, err := ynab.NewClient(&ynab.ClientOptions{BaseURL: srv.URL, Token: "test-token"})
	require.NoError(t, err)

	v := NewValidator(&ValidatorConfig{BudgetID: "b1", Checks: names}, client)
	return v.Run(context.Background())
}

func resultFor(t *testing.T, report *ValidationReport, name string) CheckResult {
	t.Helper()
	for _, r := range report.Results {
		if r.Check == name {
			return r
		}
	}
	t.Fatalf("no result for %s", name)
	return CheckResult{}
}

func TestValidator_RunAll(t *testing.T) {
	report := runValidator(t)

	assert.Equal(t, "b1", report.BudgetID)
	assert.Equal(t, len(checkOrder), report.TotalChecks)
	assert.Equal(t, report.TotalChecks, report.Passed+report.Failed)

	for _, name := range []string{"get_user", "get_budgets", "get_categories", "get_payees", "get_scheduled_transactions"} {
		r := resultFor(t, report, name)
		assert.True(t, r.Passed, name)
		assert.Equal(t, OutcomeOK, r.Outcome, name)
	}

	accounts := resultFor(t, report, "get_accounts")
	assert.False(t, accounts.Passed)
	assert.Equal(t, OutcomeInconsistent, accounts.Outcome)
	require.Len(t, accounts.Findings, 1)
	assert.Contains(t, accounts.Findings[0], "account a1")

	export := resultFor(t, report, "get_budget_export")
	assert.Equal(t, OutcomeInconsistent, export.Outcome)
	assert.Equal(t, []string{"transaction t1: account_id refers to missing a-gone"}, export.Findings)

	locations := resultFor(t, report, "get_payee_locations")
	assert.Equal(t, OutcomeAPIError, locations.Outcome)
	assert.NotEmpty(t, locations.RequestID)
	assert.Contains(t, locations.Error, "internal_server_error")

	months := resultFor(t, report, "get_months")
	assert.Equal(t, OutcomeProtocolViolation, months.Outcome)
	assert.NotEmpty(t, months.RequestID)

	transactions := resultFor(t, report, "get_transactions")
	assert.Equal(t, OutcomeInconsistent, transactions.Outcome)
	require.Len(t, transactions.Findings, 1)
	assert.Contains(t, transactions.Findings[0], "transaction t1")

	assert.Equal(t, 5, report.Passed)
	assert.InDelta(t, 50.0, report.SuccessRate, 0.001)
}

func TestValidator_SelectedChecks(t *testing.T) {
	report := runValidator(t, "get_user", "get_nothing")

	require.Len(t, report.Results, 2)
	assert.True(t, report.Results[0].Passed)

	unknown := report.Results[1]
	assert.False(t, unknown.Passed)
	assert.Equal(t, OutcomeError, unknown.Outcome)
	assert.Contains(t, unknown.Error, "unknown check")
}
