package ynab

// MonthSummary is a budget month's totals
type MonthSummary struct {
	Month        Date    `json:"month" validate:"required"`
	Note         *string `json:"note,omitempty"`
	Income       int64   `json:"income"`
	Budgeted     int64   `json:"budgeted"`
	Activity     int64   `json:"activity"`
	ToBeBudgeted int64   `json:"to_be_budgeted"`
	AgeOfMoney   *int    `json:"age_of_money,omitempty"`
	Deleted      bool    `json:"deleted"`
}

// EntityID implements Entity. Months are keyed by their YYYY-MM-01 date.
func (m MonthSummary) EntityID() string { return m.Month.String() }

// IsDeleted implements Entity
func (m MonthSummary) IsDeleted() bool { return m.Deleted }

// MonthDetail is a budget month with its category snapshot
type MonthDetail struct {
	MonthSummary
	Categories []Category `json:"categories" validate:"dive"`
}

// Category returns the month's snapshot of category id
func (m *MonthDetail) Category(id string) (Category, bool) {
	for _, c := range m.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// MonthList is the result of listing months
type MonthList struct {
	Months          []MonthSummary
	ServerKnowledge Knowledge
}
