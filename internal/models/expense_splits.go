package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type ExpenseSplit struct {
	ID        int             `json:"id,omitempty" db:"id,omitempty"`
	ExpenseID int             `json:"expense_id,omitempty" db:"expense_id,omitempty"`
	OwedBy    int             `json:"owed_by,omitempty" db:"owed_by,omitempty"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Paid      bool            `json:"paid,omitempty" db:"paid,omitempty"`
	CreatedAt sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
}
