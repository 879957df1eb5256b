package sqlconnect

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"hisab/internal/ledger"
	"hisab/internal/models"
)

func TestParseDBTime(t *testing.T) {
	got := parseDBTime(sql.NullString{String: "2026-03-15 10:30:00", Valid: true})
	want := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("parseDBTime = %v, want %v", got, want)
	}

	if !parseDBTime(sql.NullString{}).IsZero() {
		t.Error("expected zero time for NULL value")
	}

	if !parseDBTime(sql.NullString{String: "garbage", Valid: true}).IsZero() {
		t.Error("expected zero time for unparseable value")
	}
}

func TestExpenseFromRow(t *testing.T) {
	row := models.Expense{
		ID:          7,
		GroupID:     3,
		PaidBy:      1,
		Amount:      decimal.RequireFromString("90.00"),
		Description: "groceries",
		Category:    "food",
		Note:        "weekly run",
		SplitType:   "equal",
		CreatedBy:   1,
		CreatedAt:   sql.NullString{String: "2026-03-15 10:30:00", Valid: true},
	}

	got := expenseFromRow(row)

	if got.ID != 7 || got.GroupID != 3 || got.PaidBy != 1 || got.CreatedBy != 1 {
		t.Errorf("identity fields not carried over: %+v", got)
	}
	if got.SplitType != ledger.SplitEqual {
		t.Errorf("split type = %q, want %q", got.SplitType, ledger.SplitEqual)
	}
	if !got.Amount.Equal(row.Amount) {
		t.Errorf("amount = %s, want %s", got.Amount, row.Amount)
	}
	want := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	if !got.CreatedAt.Equal(want) {
		t.Errorf("created at = %v, want %v", got.CreatedAt, want)
	}
}

func TestSplitFromRow(t *testing.T) {
	row := models.ExpenseSplit{
		ID:        11,
		ExpenseID: 7,
		OwedBy:    2,
		Amount:    decimal.RequireFromString("30.00"),
		Paid:      true,
	}

	got := splitFromRow(row)

	if got.UserID != 2 {
		t.Errorf("user = %d, want 2", got.UserID)
	}
	if !got.Amount.Equal(row.Amount) {
		t.Errorf("amount = %s, want %s", got.Amount, row.Amount)
	}
	if !got.Paid {
		t.Error("paid flag not carried over")
	}
}

func TestSettlementFromRow(t *testing.T) {
	row := models.Settlement{
		ID:               5,
		GroupID:          3,
		PaidBy:           2,
		ReceivedBy:       1,
		Amount:           decimal.RequireFromString("30.00"),
		Description:      "march groceries",
		Note:             "bank transfer",
		RelatedExpenseID: 7,
		CreatedAt:        sql.NullString{String: "2026-03-16 09:00:00", Valid: true},
	}

	got := settlementFromRow(row)

	if got.ID != 5 || got.GroupID != 3 || got.PaidBy != 2 || got.ReceivedBy != 1 {
		t.Errorf("identity fields not carried over: %+v", got)
	}
	if got.RelatedExpenseID != 7 {
		t.Errorf("related expense = %d, want 7", got.RelatedExpenseID)
	}
	if !got.Amount.Equal(row.Amount) {
		t.Errorf("amount = %s, want %s", got.Amount, row.Amount)
	}
	if got.CreatedAt.IsZero() {
		t.Error("created at not parsed")
	}
}
