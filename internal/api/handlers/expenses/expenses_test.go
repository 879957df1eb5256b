package expenses

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"hisab/internal/ledger"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestResolveReallocation(t *testing.T) {
	existing := ledger.Expense{
		Amount:    d("90.00"),
		SplitType: ledger.SplitUnequal,
		Splits: []ledger.Split{
			{UserID: 1, Amount: d("30.00")},
			{UserID: 2, Amount: d("30.00")},
			{UserID: 3, Amount: d("30.00")},
		},
	}

	tests := []struct {
		name      string
		amount    decimal.Decimal
		splitType string
		declared  []splitRequest
		wantErr   error
		validate  func(t *testing.T, amount decimal.Decimal, st ledger.SplitType, splits []ledger.Split)
	}{
		{
			name:   "splits only keeps existing amount",
			amount: decimal.Zero,
			declared: []splitRequest{
				{UserID: 1, Amount: d("50.00")},
				{UserID: 2, Amount: d("25.00")},
				{UserID: 3, Amount: d("15.00")},
			},
			validate: func(t *testing.T, amount decimal.Decimal, st ledger.SplitType, splits []ledger.Split) {
				if !amount.Equal(d("90.00")) {
					t.Errorf("amount = %s, want 90.00", amount)
				}
				if st != ledger.SplitUnequal {
					t.Errorf("split type = %q, want unequal", st)
				}
				if len(splits) != 3 || !splits[0].Amount.Equal(d("50.00")) {
					t.Errorf("unexpected splits: %+v", splits)
				}
			},
		},
		{
			name:      "switch to equal keeps existing amount",
			amount:    decimal.Zero,
			splitType: "equal",
			validate: func(t *testing.T, amount decimal.Decimal, st ledger.SplitType, splits []ledger.Split) {
				if st != ledger.SplitEqual {
					t.Errorf("split type = %q, want equal", st)
				}
				for _, s := range splits {
					if !s.Amount.Equal(d("30.00")) {
						t.Errorf("share for user %d = %s, want 30.00", s.UserID, s.Amount)
					}
				}
			},
		},
		{
			name:   "new amount reallocates declared shares",
			amount: d("120.00"),
			declared: []splitRequest{
				{UserID: 1, Amount: d("60.00")},
				{UserID: 2, Amount: d("40.00")},
				{UserID: 3, Amount: d("20.00")},
			},
			validate: func(t *testing.T, amount decimal.Decimal, st ledger.SplitType, splits []ledger.Split) {
				if !amount.Equal(d("120.00")) {
					t.Errorf("amount = %s, want 120.00", amount)
				}
				if !splits[1].Amount.Equal(d("40.00")) {
					t.Errorf("unexpected splits: %+v", splits)
				}
			},
		},
		{
			name:   "declared shares must match existing amount",
			amount: decimal.Zero,
			declared: []splitRequest{
				{UserID: 1, Amount: d("50.00")},
				{UserID: 2, Amount: d("50.00")},
			},
			wantErr: ledger.ErrSplitMismatch,
		},
		{
			name:   "outsider rejected",
			amount: decimal.Zero,
			declared: []splitRequest{
				{UserID: 1, Amount: d("45.00")},
				{UserID: 9, Amount: d("45.00")},
			},
			wantErr: ledger.ErrInvalidParticipant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, st, splits, err := resolveReallocation(existing, tt.amount, tt.splitType, tt.declared)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.validate(t, amount, st, splits)
		})
	}
}
