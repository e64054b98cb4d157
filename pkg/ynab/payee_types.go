package ynab

// Payee is a payee. A payee with TransferAccountID set stands in for
// transfers to that account.
type Payee struct {
	ID                string  `json:"id" validate:"required"`
	Name              string  `json:"name"`
	TransferAccountID *string `json:"transfer_account_id,omitempty"`
	Deleted           bool    `json:"deleted"`
}

// EntityID implements Entity
func (p Payee) EntityID() string { return p.ID }

// IsDeleted implements Entity
func (p Payee) IsDeleted() bool { return p.Deleted }

// IsTransfer reports whether the payee represents an account transfer
func (p Payee) IsTransfer() bool {
	return p.TransferAccountID != nil
}

// PayeeList is the result of listing payees
type PayeeList struct {
	Payees          []Payee
	ServerKnowledge Knowledge
}

// PayeeLocation is a place a payee was recorded. Coordinates are kept as
// the strings the API returns.
type PayeeLocation struct {
	ID        string `json:"id" validate:"required"`
	PayeeID   string `json:"payee_id" validate:"required"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
	Deleted   bool   `json:"deleted"`
}

// EntityID implements Entity
func (l PayeeLocation) EntityID() string { return l.ID }

// IsDeleted implements Entity
func (l PayeeLocation) IsDeleted() bool { return l.Deleted }

// PayeeLocationList is the result of listing payee locations. Older API
// versions omit the knowledge value, in which case ServerKnowledge is nil.
type PayeeLocationList struct {
	PayeeLocations  []PayeeLocation
	ServerKnowledge *Knowledge
}
