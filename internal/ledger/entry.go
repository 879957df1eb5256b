package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SplitType selects how an expense is divided among its participants.
type SplitType string

const (
	SplitEqual   SplitType = "equal"
	SplitUnequal SplitType = "unequal"
)

// tolerance is the maximum accepted difference between an expense amount and
// the sum of its splits, in currency units.
var tolerance = decimal.RequireFromString("0.01")

// WithinTolerance reports whether an amount is close enough to zero to count
// as settled.
func WithinTolerance(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(tolerance)
}

// Split is one participant's owed share of an expense.
//
// A zero Amount marks a participant as included in the expense without owing
// anything. Paid marks a share settled out-of-band at creation time; paid
// shares never enter the running ledger.
type Split struct {
	UserID int
	Amount decimal.Decimal
	Paid   bool
}

// Expense is one shared cost. GroupID zero means a personal (1:1) expense.
type Expense struct {
	ID          int
	GroupID     int
	PaidBy      int
	Amount      decimal.Decimal
	Description string
	Category    string
	Note        string
	SplitType   SplitType
	Splits      []Split
	CreatedBy   int
	CreatedAt   time.Time
}

// Settlement is a direct payment between two members that reduces an
// outstanding debt. Settlements are append-only historical facts.
//
// RelatedExpenseID, when nonzero, points at the expense this payment
// explicitly offsets; that expense is then excluded from personal
// running-balance computation. The amount is deliberately not reconciled
// against the offset expense's owed share.
type Settlement struct {
	ID               int
	GroupID          int
	PaidBy           int
	ReceivedBy       int
	Amount           decimal.Decimal
	Description      string
	Note             string
	RelatedExpenseID int
	CreatedAt        time.Time
}

// ValidateExpense checks the expense's structural invariants: a positive
// amount, at least one split, no duplicate participants, no negative split
// amounts, and splits summing to the total within tolerance.
func ValidateExpense(e *Expense) error {
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: expense amount must be greater than 0", ErrInvalidAmount)
	}
	if len(e.Splits) == 0 {
		return ErrEmptySplit
	}

	seen := make(map[int]bool, len(e.Splits))
	sum := decimal.Zero
	for _, s := range e.Splits {
		if seen[s.UserID] {
			return fmt.Errorf("%w: user %d", ErrDuplicateParticipant, s.UserID)
		}
		seen[s.UserID] = true
		if s.Amount.IsNegative() {
			return fmt.Errorf("%w: split amount for user %d is negative", ErrInvalidAmount, s.UserID)
		}
		sum = sum.Add(s.Amount)
	}

	if sum.Sub(e.Amount).Abs().GreaterThan(tolerance) {
		return fmt.Errorf("%w: splits sum to %s, expense amount is %s", ErrSplitMismatch, sum, e.Amount)
	}
	return nil
}

// ValidateSettlement checks a settlement's invariants: a positive amount and
// distinct payer and receiver.
func ValidateSettlement(s *Settlement) error {
	if s.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: settlement amount must be greater than 0", ErrInvalidAmount)
	}
	if s.PaidBy == s.ReceivedBy {
		return ErrSelfSettlement
	}
	return nil
}
