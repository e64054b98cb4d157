package ynab

import "encoding/json"

// CategoryGroup is a group of categories
type CategoryGroup struct {
	ID      string `json:"id" validate:"required"`
	Name    string `json:"name"`
	Hidden  bool   `json:"hidden"`
	Deleted bool   `json:"deleted"`
}

// EntityID implements Entity
func (g CategoryGroup) EntityID() string { return g.ID }

// IsDeleted implements Entity
func (g CategoryGroup) IsDeleted() bool { return g.Deleted }

// CategoryGroupWithCategories is a group as returned by the category listing
type CategoryGroupWithCategories struct {
	CategoryGroup
	Categories []Category `json:"categories" validate:"required,dive"`
}

// Goal is the goal set on a category
type Goal struct {
	Type               GoalType `json:"type" validate:"oneof=TB TBD MF NEED DEBT"`
	Day                *int     `json:"day,omitempty"`
	Cadence            *int     `json:"cadence,omitempty"`
	CadenceFrequency   *int     `json:"cadence_frequency,omitempty"`
	CreationMonth      *Date    `json:"creation_month,omitempty"`
	Target             *int64   `json:"target,omitempty"`
	TargetMonth        *Date    `json:"target_month,omitempty"`
	PercentageComplete *int     `json:"percentage_complete,omitempty"`
	MonthsToBudget     *int     `json:"months_to_budget,omitempty"`
	UnderFunded        *int64   `json:"under_funded,omitempty"`
	OverallFunded      *int64   `json:"overall_funded,omitempty"`
	OverallLeft        *int64   `json:"overall_left,omitempty"`
}

// Category is a budget category. Within a month listing the figures are the
// category's state for that month.
type Category struct {
	ID                      string  `json:"id" validate:"required"`
	CategoryGroupID         string  `json:"category_group_id" validate:"required"`
	CategoryGroupName       *string `json:"category_group_name,omitempty"`
	Name                    string  `json:"name"`
	Hidden                  bool    `json:"hidden"`
	OriginalCategoryGroupID *string `json:"original_category_group_id,omitempty"`
	Note                    *string `json:"note,omitempty"`

	Budgeted int64 `json:"budgeted"`
	Activity int64 `json:"activity"`
	Balance  int64 `json:"balance"`

	// Goal is nil when the category has no goal
	Goal *Goal `json:"-"`

	Deleted bool `json:"deleted"`
}

// EntityID implements Entity
func (c Category) EntityID() string { return c.ID }

// IsDeleted implements Entity
func (c Category) IsDeleted() bool { return c.Deleted }

// categoryFields drops Category's JSON methods
type categoryFields Category

// categoryJSON is the wire layout, where goal fields are flat
type categoryJSON struct {
	categoryFields
	GoalType               *GoalType `json:"goal_type"`
	GoalDay                *int      `json:"goal_day"`
	GoalCadence            *int      `json:"goal_cadence"`
	GoalCadenceFrequency   *int      `json:"goal_cadence_frequency"`
	GoalCreationMonth      *Date     `json:"goal_creation_month"`
	GoalTarget             *int64    `json:"goal_target"`
	GoalTargetMonth        *Date     `json:"goal_target_month"`
	GoalPercentageComplete *int      `json:"goal_percentage_complete"`
	GoalMonthsToBudget     *int      `json:"goal_months_to_budget"`
	GoalUnderFunded        *int64    `json:"goal_under_funded"`
	GoalOverallFunded      *int64    `json:"goal_overall_funded"`
	GoalOverallLeft        *int64    `json:"goal_overall_left"`
}

// UnmarshalJSON folds the flat goal_* fields into Goal. Goal stays nil
// unless goal_type is set.
func (c *Category) UnmarshalJSON(data []byte) error {
	var w categoryJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*c = Category(w.categoryFields)
	c.Goal = nil
	if w.GoalType != nil {
		c.Goal = &Goal{
			Type:               *w.GoalType,
			Day:                w.GoalDay,
			Cadence:            w.GoalCadence,
			CadenceFrequency:   w.GoalCadenceFrequency,
			CreationMonth:      w.GoalCreationMonth,
			Target:             w.GoalTarget,
			TargetMonth:        w.GoalTargetMonth,
			PercentageComplete: w.GoalPercentageComplete,
			MonthsToBudget:     w.GoalMonthsToBudget,
			UnderFunded:        w.GoalUnderFunded,
			OverallFunded:      w.GoalOverallFunded,
			OverallLeft:        w.GoalOverallLeft,
		}
	}
	return nil
}

// MarshalJSON writes the wire layout so a stored category decodes back
// to the same value
func (c Category) MarshalJSON() ([]byte, error) {
	w := categoryJSON{categoryFields: categoryFields(c)}
	if g := c.Goal; g != nil {
		goalType := g.Type
		w.GoalType = &goalType
		w.GoalDay = g.Day
		w.GoalCadence = g.Cadence
		w.GoalCadenceFrequency = g.CadenceFrequency
		w.GoalCreationMonth = g.CreationMonth
		w.GoalTarget = g.Target
		w.GoalTargetMonth = g.TargetMonth
		w.GoalPercentageComplete = g.PercentageComplete
		w.GoalMonthsToBudget = g.MonthsToBudget
		w.GoalUnderFunded = g.UnderFunded
		w.GoalOverallFunded = g.OverallFunded
		w.GoalOverallLeft = g.OverallLeft
	}
	return json.Marshal(w)
}

// CategoryList is the result of listing categories
type CategoryList struct {
	CategoryGroups  []CategoryGroupWithCategories
	ServerKnowledge Knowledge
}

// Groups returns the groups without their categories
func (l *CategoryList) Groups() []CategoryGroup {
	groups := make([]CategoryGroup, 0, len(l.CategoryGroups))
	for _, g := range l.CategoryGroups {
		groups = append(groups, g.CategoryGroup)
	}
	return groups
}

// Categories returns every category across all groups, in listing order
func (l *CategoryList) Categories() []Category {
	var categories []Category
	for _, g := range l.CategoryGroups {
		categories = append(categories, g.Categories...)
	}
	return categories
}

// CategoryUpdate is the result of changing a category's month budget
type CategoryUpdate struct {
	Category        Category
	ServerKnowledge Knowledge
}
