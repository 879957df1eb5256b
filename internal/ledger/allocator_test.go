package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAllocateEqual(t *testing.T) {
	tests := []struct {
		name         string
		amount       string
		participants []int
		wantErr      error
		wantShares   []string
	}{
		{
			name:         "even division",
			amount:       "100.00",
			participants: []int{1, 2, 3, 4},
			wantShares:   []string{"25", "25", "25", "25"},
		},
		{
			name:         "rounding remainder goes to last participant",
			amount:       "100.00",
			participants: []int{1, 2, 3},
			wantShares:   []string{"33.33", "33.33", "33.34"},
		},
		{
			name:         "two-way odd cent",
			amount:       "0.03",
			participants: []int{7, 9},
			wantShares:   []string{"0.02", "0.01"},
		},
		{
			name:         "single participant owes everything",
			amount:       "42.50",
			participants: []int{5},
			wantShares:   []string{"42.50"},
		},
		{
			name:         "no participants",
			amount:       "10.00",
			participants: []int{},
			wantErr:      ErrEmptySplit,
		},
		{
			name:         "duplicate participant",
			amount:       "10.00",
			participants: []int{1, 2, 1},
			wantErr:      ErrDuplicateParticipant,
		},
		{
			name:         "zero amount",
			amount:       "0",
			participants: []int{1, 2},
			wantErr:      ErrInvalidAmount,
		},
		{
			name:         "negative amount",
			amount:       "-5.00",
			participants: []int{1, 2},
			wantErr:      ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splits, err := Allocate(dec(tt.amount), SplitEqual, nil, tt.participants)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Allocate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Allocate() unexpected error: %v", err)
			}
			if len(splits) != len(tt.participants) {
				t.Fatalf("got %d splits, want %d", len(splits), len(tt.participants))
			}
			sum := decimal.Zero
			for i, s := range splits {
				if s.UserID != tt.participants[i] {
					t.Errorf("split %d user = %d, want %d", i, s.UserID, tt.participants[i])
				}
				if !s.Amount.Equal(dec(tt.wantShares[i])) {
					t.Errorf("split %d amount = %s, want %s", i, s.Amount, tt.wantShares[i])
				}
				sum = sum.Add(s.Amount)
			}
			// Shares must reassemble the total exactly, not just within tolerance.
			if !sum.Equal(dec(tt.amount)) {
				t.Errorf("splits sum = %s, want %s", sum, tt.amount)
			}
		})
	}
}

func TestAllocateUnequal(t *testing.T) {
	tests := []struct {
		name         string
		amount       string
		declared     []Split
		participants []int
		wantErr      error
	}{
		{
			name:     "valid exact split",
			amount:   "100.00",
			declared: []Split{{UserID: 1, Amount: dec("60")}, {UserID: 2, Amount: dec("40")}},
		},
		{
			name:     "sum off by less than tolerance is accepted",
			amount:   "100.00",
			declared: []Split{{UserID: 1, Amount: dec("33.33")}, {UserID: 2, Amount: dec("33.33")}, {UserID: 3, Amount: dec("33.33")}},
		},
		{
			name:     "sum mismatch rejected",
			amount:   "100.00",
			declared: []Split{{UserID: 1, Amount: dec("60")}, {UserID: 2, Amount: dec("30")}},
			wantErr:  ErrSplitMismatch,
		},
		{
			name:     "zero-amount placeholder participant is allowed",
			amount:   "50.00",
			declared: []Split{{UserID: 1, Amount: dec("50")}, {UserID: 2, Amount: dec("0")}},
		},
		{
			name:     "negative split amount rejected",
			amount:   "10.00",
			declared: []Split{{UserID: 1, Amount: dec("20")}, {UserID: 2, Amount: dec("-10")}},
			wantErr:  ErrInvalidAmount,
		},
		{
			name:     "duplicate member rejected",
			amount:   "20.00",
			declared: []Split{{UserID: 1, Amount: dec("10")}, {UserID: 1, Amount: dec("10")}},
			wantErr:  ErrDuplicateParticipant,
		},
		{
			name:    "empty splits rejected",
			amount:  "20.00",
			wantErr: ErrEmptySplit,
		},
		{
			name:         "member outside group scope rejected",
			amount:       "30.00",
			declared:     []Split{{UserID: 1, Amount: dec("15")}, {UserID: 4, Amount: dec("15")}},
			participants: []int{1, 2, 3},
			wantErr:      ErrInvalidParticipant,
		},
		{
			name:         "members inside scope accepted",
			amount:       "30.00",
			declared:     []Split{{UserID: 1, Amount: dec("15")}, {UserID: 3, Amount: dec("15")}},
			participants: []int{1, 2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splits, err := Allocate(dec(tt.amount), SplitUnequal, tt.declared, tt.participants)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Allocate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Allocate() unexpected error: %v", err)
			}
			if len(splits) != len(tt.declared) {
				t.Fatalf("got %d splits, want %d", len(splits), len(tt.declared))
			}
		})
	}
}

func TestValidateExpense(t *testing.T) {
	base := func() *Expense {
		return &Expense{
			ID:     1,
			PaidBy: 1,
			Amount: dec("100.00"),
			Splits: []Split{{UserID: 2, Amount: dec("50")}, {UserID: 3, Amount: dec("50")}},
		}
	}

	t.Run("valid expense", func(t *testing.T) {
		if err := ValidateExpense(base()); err != nil {
			t.Fatalf("ValidateExpense() = %v, want nil", err)
		}
	})

	t.Run("split mismatch never accepted", func(t *testing.T) {
		e := base()
		e.Splits = []Split{{UserID: 2, Amount: dec("60")}, {UserID: 3, Amount: dec("30")}}
		if err := ValidateExpense(e); !errors.Is(err, ErrSplitMismatch) {
			t.Fatalf("ValidateExpense() = %v, want ErrSplitMismatch", err)
		}
	})

	t.Run("duplicate split member", func(t *testing.T) {
		e := base()
		e.Splits = []Split{{UserID: 2, Amount: dec("50")}, {UserID: 2, Amount: dec("50")}}
		if err := ValidateExpense(e); !errors.Is(err, ErrDuplicateParticipant) {
			t.Fatalf("ValidateExpense() = %v, want ErrDuplicateParticipant", err)
		}
	})

	t.Run("non-positive amount", func(t *testing.T) {
		e := base()
		e.Amount = dec("0")
		if err := ValidateExpense(e); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("ValidateExpense() = %v, want ErrInvalidAmount", err)
		}
	})
}

func TestValidateSettlement(t *testing.T) {
	t.Run("valid settlement", func(t *testing.T) {
		s := &Settlement{PaidBy: 1, ReceivedBy: 2, Amount: dec("25.00")}
		if err := ValidateSettlement(s); err != nil {
			t.Fatalf("ValidateSettlement() = %v, want nil", err)
		}
	})

	t.Run("self settlement rejected", func(t *testing.T) {
		s := &Settlement{PaidBy: 1, ReceivedBy: 1, Amount: dec("25.00")}
		if err := ValidateSettlement(s); !errors.Is(err, ErrSelfSettlement) {
			t.Fatalf("ValidateSettlement() = %v, want ErrSelfSettlement", err)
		}
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		s := &Settlement{PaidBy: 1, ReceivedBy: 2, Amount: dec("-1")}
		if err := ValidateSettlement(s); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("ValidateSettlement() = %v, want ErrInvalidAmount", err)
		}
	})
}
