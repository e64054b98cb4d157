package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eshaffer321/ynab-go/pkg/ynab"
)

// Check outcomes
const (
	OutcomeOK                = "ok"
	OutcomeInconsistent      = "inconsistent"
	OutcomeAPIError          = "api_error"
	OutcomeProtocolViolation = "protocol_violation"
	OutcomeError             = "error"
)

// CheckResult is the result of one check
type CheckResult struct {
	Check     string        `json:"check"`
	Passed    bool          `json:"passed"`
	Outcome   string        `json:"outcome"`
	Findings  []string      `json:"findings,omitempty"`
	Error     string        `json:"error,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// ValidationReport is the full validation report
type ValidationReport struct {
	Timestamp   time.Time     `json:"timestamp"`
	BudgetID    string        `json:"budget_id"`
	TotalChecks int           `json:"total_checks"`
	Passed      int           `json:"passed"`
	Failed      int           `json:"failed"`
	SuccessRate float64       `json:"success_rate"`
	Results     []CheckResult `json:"results"`
}

// checkFunc runs one check and returns what it found wrong in an otherwise
// accepted response
type checkFunc func(ctx context.Context, client *ynab.Client, budgetID string) ([]string, error)

var checks = map[string]checkFunc{
	"get_user":                   checkUser,
	"get_budgets":                checkBudgets,
	"get_budget_export":          checkBudgetExport,
	"get_accounts":               checkAccounts,
	"get_categories":             checkCategories,
	"get_payees":                 checkPayees,
	"get_payee_locations":        checkPayeeLocations,
	"get_months":                 checkMonths,
	"get_transactions":           checkTransactions,
	"get_scheduled_transactions": checkScheduledTransactions,
}

// checkOrder is the default run order
var checkOrder = []string{
	"get_user",
	"get_budgets",
	"get_budget_export",
	"get_accounts",
	"get_categories",
	"get_payees",
	"get_payee_locations",
	"get_months",
	"get_transactions",
	"get_scheduled_transactions",
}

// Validator runs checks against one budget
type Validator struct {
	config *ValidatorConfig
	client *ynab.Client
}

// NewValidator creates a new validator
func NewValidator(config *ValidatorConfig, client *ynab.Client) *Validator {
	return &Validator{config: config, client: client}
}

// Run executes the configured checks, every one of them even after failures
func (v *Validator) Run(ctx context.Context) *ValidationReport {
	names := v.config.Checks
	if len(names) == 0 {
		names = checkOrder
	}

	report := &ValidationReport{
		Timestamp: time.Now(),
		BudgetID:  v.config.BudgetID,
		Results:   make([]CheckResult, 0, len(names)),
	}

	for _, name := range names {
		if v.config.Verbose {
			fmt.Printf("Checking %s...\n", name)
		}

		result := v.runCheck(ctx, name)
		report.Results = append(report.Results, result)

		if result.Passed {
			report.Passed++
		} else {
			report.Failed++
		}
	}

	report.TotalChecks = len(report.Results)
	if report.TotalChecks > 0 {
		report.SuccessRate = float64(report.Passed) / float64(report.TotalChecks) * 100
	}

	return report
}

func (v *Validator) runCheck(ctx context.Context, name string) CheckResult {
	start := time.Now()
	result := CheckResult{Check: name}

	check, ok := checks[name]
	if !ok {
		result.Outcome = OutcomeError
		result.Error = fmt.Sprintf("unknown check: %s", name)
		return result
	}

	findings, err := check(ctx, v.client, v.config.BudgetID)
	result.Duration = time.Since(start)

	if err != nil {
		result.Outcome, result.RequestID = classify(err)
		result.Error = err.Error()
		return result
	}

	result.Findings = findings
	if len(findings) > 0 {
		result.Outcome = OutcomeInconsistent
		return result
	}

	result.Outcome = OutcomeOK
	result.Passed = true
	return result
}

// classify maps an operation error to an outcome and its request id
func classify(err error) (string, string) {
	var protoErr *ynab.ProtocolError
	if errors.As(err, &protoErr) {
		return OutcomeProtocolViolation, protoErr.RequestID
	}
	var apiErr *ynab.APIError
	if errors.As(err, &apiErr) {
		return OutcomeAPIError, apiErr.RequestID
	}
	var transportErr *ynab.TransportError
	if errors.As(err, &transportErr) {
		return OutcomeError, transportErr.RequestID
	}
	return OutcomeError, ""
}

func knowledgeRegressed(name string, before, after ynab.Knowledge) []string {
	if after < before {
		return []string{fmt.Sprintf("%s: server knowledge went back from %d to %d", name, before, after)}
	}
	return nil
}

func balanceFindings(accounts []ynab.Account) []string {
	var findings []string
	for _, a := range accounts {
		if err := a.CheckBalance(); err != nil {
			findings = append(findings, fmt.Sprintf("account %s: %v", a.ID, err))
		}
	}
	return findings
}

func checkUser(ctx context.Context, client *ynab.Client, _ string) ([]string, error) {
	_, err := client.User.Get(ctx)
	return nil, err
}

func checkBudgets(ctx context.Context, client *ynab.Client, _ string) ([]string, error) {
	list, err := client.Budgets.List(ctx, true)
	if err != nil {
		return nil, err
	}
	var findings []string
	for _, b := range list.Budgets {
		findings = append(findings, balanceFindings(b.Accounts)...)
	}
	return findings, nil
}

func checkBudgetExport(ctx context.Context, client *ynab.Client, budgetID string) ([]string, error) {
	export, err := client.Budgets.Get(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	var findings []string
	for _, d := range export.Budget.CheckReferences() {
		findings = append(findings, fmt.Sprintf("%s %s: %s refers to missing %s", d.Kind, d.ID, d.Field, d.Ref))
	}
	return findings, nil
}

func checkAccounts(ctx context.Context, client *ynab.Client, budgetID string) ([]string, error) {
	full, err := client.Accounts.List(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	delta, err := client.Accounts.List(ctx, budgetID, ynab.SinceKnowledge(full.ServerKnowledge))
	if err != nil {
		return nil, err
	}
	findings := balanceFindings(full.Accounts)
	return append(findings, knowledgeRegressed("accounts", full.ServerKnowledge, delta.ServerKnowledge)...), nil
}

func checkCategories(ctx context.Context, client *ynab.Client, budgetID string) ([]string, error) {
	full, err := client.Categories.List(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	delta, err := client.Categories.List(ctx, budgetID, ynab.SinceKnowledge(full.ServerKnowledge))
	if err != nil {
		return nil, err
	}

	var findings []string
	for _, g := range full.CategoryGroups {
		for _, c := range g.Categories {
			if c.CategoryGroupID != g.ID {
				findings = append(findings, fmt.Sprintf("category %s: listed under group %s but belongs to %s", c.ID, g.ID, c.CategoryGroupID))
			}
		}
	}
	return append(findings, knowledgeRegressed("categories", full.ServerKnowledge, delta.ServerKnowledge)...), nil
}

func checkPayees(ctx context.Context, client *ynab.Client, budgetID string) ([]string, error) {
	full, err := client.Payees.List(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	delta, err := client.Payees.List(ctx, budgetID, ynab.SinceKnowledge(full.ServerKnowledge))
	if err != nil {
		return nil, err
	}
	return knowledgeRegressed("payees", full.ServerKnowledge, delta.ServerKnowledge), nil
}

func checkPayeeLocations(ctx context.Context, client *ynab.Client, budgetID string) ([]string, error) {
	_, err := client.PayeeLocations.List(ctx, budgetID)
	return nil, err
}

func checkMonths(ctx context.Context, client *ynab.Client, budgetID string) ([]string, error) {
	full, err := client.Months.List(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	delta, err := client.Months.List(ctx, budgetID, ynab.SinceKnowledge(full.ServerKnowledge))
	if err != nil {
		return nil, err
	}

	var findings []string
	for _, m := range full.Months {
		if m.Month.Day() != 1 {
			findings = append(findings, fmt.Sprintf("month %s: not the first of the month", m.Month))
		}
	}
	return append(findings, knowledgeRegressed("months", full.ServerKnowledge, delta.ServerKnowledge)...), nil
}

func checkTransactions(ctx context.Context, client *ynab.Client, budgetID string) ([]string, error) {
	full, err := client.Transactions.Query(budgetID).Execute(ctx)
	if err != nil {
		return nil, err
	}
	delta, err := client.Transactions.Query(budgetID).Since(full.ServerKnowledge).Execute(ctx)
	if err != nil {
		return nil, err
	}

	var findings []string
	for i := range full.Transactions {
		tx := &full.Transactions[i]
		if tx.Deleted {
			continue
		}
		if err := tx.CheckSplitTotal(); err != nil {
			findings = append(findings, fmt.Sprintf("transaction %s: %v", tx.ID, err))
		}
	}
	return append(findings, knowledgeRegressed("transactions", full.ServerKnowledge, delta.ServerKnowledge)...), nil
}

func checkScheduledTransactions(ctx context.Context, client *ynab.Client, budgetID string) ([]string, error) {
	full, err := client.ScheduledTransactions.List(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	var findings []string
	for _, s := range full.ScheduledTransactions {
		if !s.Deleted && s.DateNext.Before(s.DateFirst.Time) {
			findings = append(findings, fmt.Sprintf("scheduled transaction %s: next date %s before first date %s", s.ID, s.DateNext, s.DateFirst))
		}
	}
	return findings, nil
}
