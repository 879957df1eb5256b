package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Settlement rows are append-only: they are created once and never updated
// or deleted.
type Settlement struct {
	ID               int             `json:"id,omitempty" db:"id,omitempty"`
	GroupID          int             `json:"group_id,omitempty" db:"group_id,omitempty"`
	PaidBy           int             `json:"paid_by,omitempty" db:"paid_by,omitempty"`
	ReceivedBy       int             `json:"received_by,omitempty" db:"received_by,omitempty"`
	Amount           decimal.Decimal `json:"amount,omitempty" db:"amount,omitempty"`
	Description      string          `json:"description,omitempty" db:"description,omitempty"`
	Note             string          `json:"note,omitempty" db:"note,omitempty"`
	RelatedExpenseID int             `json:"related_expense_id,omitempty" db:"related_expense_id,omitempty"`
	Reference        string          `json:"reference,omitempty" db:"reference,omitempty"`
	CreatedAt        sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
}
