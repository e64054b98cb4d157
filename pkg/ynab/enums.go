package ynab

import (
	"encoding/json"
	"strings"
)

// AccountType is the kind of an account
type AccountType string

const (
	AccountTypeChecking       AccountType = "checking"
	AccountTypeSavings        AccountType = "savings"
	AccountTypeCash           AccountType = "cash"
	AccountTypeCreditCard     AccountType = "creditCard"
	AccountTypeLineOfCredit   AccountType = "lineOfCredit"
	AccountTypeOtherAsset     AccountType = "otherAsset"
	AccountTypeOtherLiability AccountType = "otherLiability"
	AccountTypeMortgage       AccountType = "mortgage"
	AccountTypeAutoLoan       AccountType = "autoLoan"
	AccountTypeStudentLoan    AccountType = "studentLoan"
	AccountTypePersonalLoan   AccountType = "personalLoan"
	AccountTypeMedicalDebt    AccountType = "medicalDebt"
	AccountTypeOtherDebt      AccountType = "otherDebt"
)

// IsDebt reports whether the account is one of the loan account types
func (t AccountType) IsDebt() bool {
	switch t {
	case AccountTypeMortgage, AccountTypeAutoLoan, AccountTypeStudentLoan,
		AccountTypePersonalLoan, AccountTypeMedicalDebt, AccountTypeOtherDebt:
		return true
	}
	return false
}

// ClearedStatus is the cleared state of a transaction
type ClearedStatus string

const (
	ClearedStatusCleared    ClearedStatus = "cleared"
	ClearedStatusUncleared  ClearedStatus = "uncleared"
	ClearedStatusReconciled ClearedStatus = "reconciled"
)

// FlagColor is a transaction flag
type FlagColor string

const (
	FlagColorRed    FlagColor = "red"
	FlagColorOrange FlagColor = "orange"
	FlagColorYellow FlagColor = "yellow"
	FlagColorGreen  FlagColor = "green"
	FlagColorBlue   FlagColor = "blue"
	FlagColorPurple FlagColor = "purple"
)

// GoalType is the kind of goal set on a category
type GoalType string

const (
	GoalTypeTargetBalance     GoalType = "TB"
	GoalTypeTargetBalanceDate GoalType = "TBD"
	GoalTypeMonthlyFunding    GoalType = "MF"
	GoalTypeNeed              GoalType = "NEED"
	GoalTypeDebt              GoalType = "DEBT"
)

// DebtTransactionType classifies transactions on loan accounts
type DebtTransactionType string

const (
	DebtTransactionPayment            DebtTransactionType = "payment"
	DebtTransactionRefund             DebtTransactionType = "refund"
	DebtTransactionFee                DebtTransactionType = "fee"
	DebtTransactionInterest           DebtTransactionType = "interest"
	DebtTransactionEscrow             DebtTransactionType = "escrow"
	DebtTransactionBalancedAdjustment DebtTransactionType = "balancedAdjustment"
	DebtTransactionCredit             DebtTransactionType = "credit"
	DebtTransactionCharge             DebtTransactionType = "charge"
)

// ScheduleFrequency is how often a scheduled transaction repeats
type ScheduleFrequency string

const (
	FrequencyNever           ScheduleFrequency = "never"
	FrequencyDaily           ScheduleFrequency = "daily"
	FrequencyWeekly          ScheduleFrequency = "weekly"
	FrequencyEveryOtherWeek  ScheduleFrequency = "everyOtherWeek"
	FrequencyTwiceAMonth     ScheduleFrequency = "twiceAMonth"
	FrequencyEvery4Weeks     ScheduleFrequency = "every4Weeks"
	FrequencyMonthly         ScheduleFrequency = "monthly"
	FrequencyEveryOtherMonth ScheduleFrequency = "everyOtherMonth"
	FrequencyEvery3Months    ScheduleFrequency = "every3Months"
	FrequencyEvery4Months    ScheduleFrequency = "every4Months"
	FrequencyTwiceAYear      ScheduleFrequency = "twiceAYear"
	FrequencyYearly          ScheduleFrequency = "yearly"
	FrequencyEveryOtherYear  ScheduleFrequency = "everyOtherYear"
)

// HybridType discriminates entries of a payee-scoped transaction listing
type HybridType string

const (
	HybridTypeTransaction    HybridType = "transaction"
	HybridTypeSubtransaction HybridType = "subtransaction"
)

// UnmarshalJSON accepts every spelling the API has used for sub-transaction
// entries. Anything else is kept verbatim and rejected by validation.
func (t *HybridType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch strings.ToLower(strings.ReplaceAll(s, "_", "")) {
	case "transaction":
		*t = HybridTypeTransaction
	case "subtransaction":
		*t = HybridTypeSubtransaction
	default:
		*t = HybridType(s)
	}
	return nil
}

// TransactionFilterType narrows a transaction listing
type TransactionFilterType string

const (
	FilterUncategorized TransactionFilterType = "uncategorized"
	FilterUnapproved    TransactionFilterType = "unapproved"
)

// Valid reports whether t is a filter the API accepts
func (t TransactionFilterType) Valid() bool {
	return t == FilterUncategorized || t == FilterUnapproved
}
