package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNet(t *testing.T) {
	t.Run("collapses mutual debts to one direction", func(t *testing.T) {
		pairwise := map[int]map[int]decimal.Decimal{
			1: {2: dec("30")},
			2: {1: dec("50")},
		}
		netted := Net(pairwise)

		if !netted[2][1].Equal(dec("20")) {
			t.Errorf("netted[2][1] = %s, want 20", netted[2][1])
		}
		if !netted[1][2].Equal(decimal.Zero) {
			t.Errorf("netted[1][2] = %s, want 0", netted[1][2])
		}
	})

	t.Run("negative entries flip direction", func(t *testing.T) {
		// B owed A 50, then paid back 80: pairwise[2][1] went to -30.
		pairwise := map[int]map[int]decimal.Decimal{
			1: {2: decimal.Zero},
			2: {1: dec("-30")},
		}
		netted := Net(pairwise)

		if !netted[1][2].Equal(dec("30")) {
			t.Errorf("netted[1][2] = %s, want 30", netted[1][2])
		}
		if !netted[2][1].Equal(decimal.Zero) {
			t.Errorf("netted[2][1] = %s, want 0", netted[2][1])
		}
	})

	t.Run("exact offset clears both directions", func(t *testing.T) {
		pairwise := map[int]map[int]decimal.Decimal{
			1: {2: dec("25")},
			2: {1: dec("25")},
		}
		netted := Net(pairwise)

		if !netted[1][2].Equal(decimal.Zero) || !netted[2][1].Equal(decimal.Zero) {
			t.Errorf("netted = %s/%s, want 0/0", netted[1][2], netted[2][1])
		}
	})

	t.Run("no bidirectional edges survive", func(t *testing.T) {
		pairwise := map[int]map[int]decimal.Decimal{
			1: {2: dec("10"), 3: dec("7.25"), 4: decimal.Zero},
			2: {1: dec("4"), 3: decimal.Zero, 4: dec("12")},
			3: {1: dec("7.25"), 2: dec("9"), 4: dec("3")},
			4: {1: dec("1"), 2: dec("12"), 3: dec("15.10")},
		}
		netted := Net(pairwise)

		for a, row := range netted {
			for b, amt := range row {
				if amt.IsPositive() && netted[b][a].IsPositive() {
					t.Errorf("bidirectional edge between %d and %d: %s and %s", a, b, amt, netted[b][a])
				}
				if amt.IsNegative() {
					t.Errorf("netted[%d][%d] = %s, negative amounts must not survive netting", a, b, amt)
				}
			}
		}
	})
}

// End-to-end walk through the documented scenario: A pays 100 split between
// B and C, then B settles up.
func TestGroupBalancesScenario(t *testing.T) {
	members := []int{1, 2, 3} // A, B, C
	expenses := []Expense{{
		ID:     1,
		PaidBy: 1,
		Amount: dec("100.00"),
		Splits: []Split{{UserID: 2, Amount: dec("50")}, {UserID: 3, Amount: dec("50")}},
	}}

	t.Run("before settlement", func(t *testing.T) {
		balances := GroupBalances(members, expenses, nil)

		a, b, c := balances[0], balances[1], balances[2]
		if !a.TotalBalance.Equal(dec("100")) {
			t.Errorf("A total = %s, want 100", a.TotalBalance)
		}
		if len(a.OwedBy) != 2 || !a.OwedBy[0].Amount.Equal(dec("50")) || !a.OwedBy[1].Amount.Equal(dec("50")) {
			t.Errorf("A owedBy = %+v, want 50 from B and 50 from C", a.OwedBy)
		}
		if len(a.Owes) != 0 {
			t.Errorf("A owes = %+v, want none", a.Owes)
		}
		if len(b.Owes) != 1 || b.Owes[0].UserID != 1 || !b.Owes[0].Amount.Equal(dec("50")) {
			t.Errorf("B owes = %+v, want 50 to A", b.Owes)
		}
		if len(c.Owes) != 1 || c.Owes[0].UserID != 1 || !c.Owes[0].Amount.Equal(dec("50")) {
			t.Errorf("C owes = %+v, want 50 to A", c.Owes)
		}
	})

	t.Run("after settlement", func(t *testing.T) {
		settlements := []Settlement{{ID: 1, PaidBy: 2, ReceivedBy: 1, Amount: dec("50")}}
		balances := GroupBalances(members, expenses, settlements)

		a, b, c := balances[0], balances[1], balances[2]
		if !a.TotalBalance.Equal(dec("50")) {
			t.Errorf("A total = %s, want 50", a.TotalBalance)
		}
		if len(a.OwedBy) != 1 || a.OwedBy[0].UserID != 3 {
			t.Errorf("A owedBy = %+v, want only C", a.OwedBy)
		}
		if !b.TotalBalance.Equal(decimal.Zero) || len(b.Owes) != 0 || len(b.OwedBy) != 0 {
			t.Errorf("B = %+v, want no edges and zero balance", b)
		}
		if len(c.Owes) != 1 || !c.Owes[0].Amount.Equal(dec("50")) {
			t.Errorf("C owes = %+v, want 50 to A", c.Owes)
		}
	})
}

// The scalar totals and the netted graph are computed independently; for
// every member the sign of the total must agree with the direction of their
// netted edges, and group totals must conserve to zero.
func TestGroupBalancesCrossCheck(t *testing.T) {
	members := []int{1, 2, 3, 4}
	expenses := []Expense{
		{ID: 1, PaidBy: 1, Amount: dec("120"), Splits: []Split{{UserID: 2, Amount: dec("40")}, {UserID: 3, Amount: dec("40")}, {UserID: 4, Amount: dec("40")}}},
		{ID: 2, PaidBy: 2, Amount: dec("90"), Splits: []Split{{UserID: 1, Amount: dec("45")}, {UserID: 4, Amount: dec("45")}}},
		{ID: 3, PaidBy: 4, Amount: dec("10"), Splits: []Split{{UserID: 3, Amount: dec("10")}}},
	}
	settlements := []Settlement{
		{ID: 1, PaidBy: 3, ReceivedBy: 1, Amount: dec("20")},
	}

	balances := GroupBalances(members, expenses, settlements)

	sum := decimal.Zero
	for _, mb := range balances {
		sum = sum.Add(mb.TotalBalance)

		owes := decimal.Zero
		for _, d := range mb.Owes {
			owes = owes.Add(d.Amount)
		}
		owedBy := decimal.Zero
		for _, d := range mb.OwedBy {
			owedBy = owedBy.Add(d.Amount)
		}
		net := owedBy.Sub(owes)
		if !net.Equal(mb.TotalBalance) {
			t.Errorf("member %d: netted edges sum to %s, totals say %s", mb.UserID, net, mb.TotalBalance)
		}
	}
	if !sum.Equal(decimal.Zero) {
		t.Errorf("group totals sum = %s, want 0", sum)
	}
}
