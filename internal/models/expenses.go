package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          int             `json:"id,omitempty" db:"id,omitempty"`
	GroupID     int             `json:"group_id,omitempty" db:"group_id,omitempty"`
	PaidBy      int             `json:"paid_by,omitempty" db:"paid_by,omitempty"`
	Amount      decimal.Decimal `json:"amount,omitempty" db:"amount,omitempty"`
	Description string          `json:"description,omitempty" db:"description,omitempty"`
	Category    string          `json:"category,omitempty" db:"category,omitempty"`
	Note        string          `json:"note,omitempty" db:"note,omitempty"`
	SplitType   string          `json:"split_type,omitempty" db:"split_type,omitempty"`
	CreatedBy   int             `json:"created_by,omitempty" db:"created_by,omitempty"`
	CreatedAt   sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
}
