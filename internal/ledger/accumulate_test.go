package ledger

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

// The concrete scenario used throughout: A pays 100 for B and C.
func groupScenario() ([]Expense, []Settlement, []int) {
	expenses := []Expense{
		{
			ID:     1,
			PaidBy: 1, // A
			Amount: dec("100.00"),
			Splits: []Split{{UserID: 2, Amount: dec("50")}, {UserID: 3, Amount: dec("50")}},
		},
	}
	return expenses, nil, []int{1, 2, 3}
}

func TestAccumulate(t *testing.T) {
	t.Run("single expense", func(t *testing.T) {
		expenses, settlements, scope := groupScenario()
		acc := Accumulate(expenses, settlements, scope)

		wantTotals := map[int]string{1: "100", 2: "-50", 3: "-50"}
		for id, want := range wantTotals {
			if !acc.Totals[id].Equal(dec(want)) {
				t.Errorf("totals[%d] = %s, want %s", id, acc.Totals[id], want)
			}
		}
		if !acc.Pairwise[2][1].Equal(dec("50")) {
			t.Errorf("pairwise[2][1] = %s, want 50", acc.Pairwise[2][1])
		}
		if !acc.Pairwise[3][1].Equal(dec("50")) {
			t.Errorf("pairwise[3][1] = %s, want 50", acc.Pairwise[3][1])
		}
		if !acc.Pairwise[1][2].Equal(decimal.Zero) {
			t.Errorf("pairwise[1][2] = %s, want 0", acc.Pairwise[1][2])
		}
	})

	t.Run("settlement reduces debt and totals", func(t *testing.T) {
		expenses, _, scope := groupScenario()
		settlements := []Settlement{{ID: 1, PaidBy: 2, ReceivedBy: 1, Amount: dec("50")}}
		acc := Accumulate(expenses, settlements, scope)

		wantTotals := map[int]string{1: "50", 2: "0", 3: "-50"}
		for id, want := range wantTotals {
			if !acc.Totals[id].Equal(dec(want)) {
				t.Errorf("totals[%d] = %s, want %s", id, acc.Totals[id], want)
			}
		}
		if !acc.Pairwise[2][1].Equal(decimal.Zero) {
			t.Errorf("pairwise[2][1] = %s, want 0 after settlement", acc.Pairwise[2][1])
		}
	})

	t.Run("overpayment flips the pairwise sign", func(t *testing.T) {
		expenses, _, scope := groupScenario()
		settlements := []Settlement{{ID: 1, PaidBy: 2, ReceivedBy: 1, Amount: dec("80")}}
		acc := Accumulate(expenses, settlements, scope)

		if !acc.Pairwise[2][1].Equal(dec("-30")) {
			t.Errorf("pairwise[2][1] = %s, want -30", acc.Pairwise[2][1])
		}
	})

	t.Run("paid splits are excluded", func(t *testing.T) {
		expenses := []Expense{{
			ID:     1,
			PaidBy: 1,
			Amount: dec("100.00"),
			Splits: []Split{
				{UserID: 2, Amount: dec("50"), Paid: true},
				{UserID: 3, Amount: dec("50")},
			},
		}}
		acc := Accumulate(expenses, nil, []int{1, 2, 3})

		wantTotals := map[int]string{1: "50", 2: "0", 3: "-50"}
		for id, want := range wantTotals {
			if !acc.Totals[id].Equal(dec(want)) {
				t.Errorf("totals[%d] = %s, want %s", id, acc.Totals[id], want)
			}
		}
	})

	t.Run("payer own split does not enter the ledger", func(t *testing.T) {
		expenses := []Expense{{
			ID:     1,
			PaidBy: 1,
			Amount: dec("90.00"),
			Splits: []Split{
				{UserID: 1, Amount: dec("30")},
				{UserID: 2, Amount: dec("30")},
				{UserID: 3, Amount: dec("30")},
			},
		}}
		acc := Accumulate(expenses, nil, []int{1, 2, 3})

		wantTotals := map[int]string{1: "60", 2: "-30", 3: "-30"}
		for id, want := range wantTotals {
			if !acc.Totals[id].Equal(dec(want)) {
				t.Errorf("totals[%d] = %s, want %s", id, acc.Totals[id], want)
			}
		}
	})

	t.Run("out-of-scope members are dropped silently", func(t *testing.T) {
		expenses, _, _ := groupScenario()
		acc := Accumulate(expenses, nil, []int{1, 2}) // member 3 missing

		if !acc.Totals[1].Equal(dec("100")) {
			t.Errorf("totals[1] = %s, want 100", acc.Totals[1])
		}
		if !acc.Totals[2].Equal(dec("-50")) {
			t.Errorf("totals[2] = %s, want -50", acc.Totals[2])
		}
		if _, ok := acc.Totals[3]; ok {
			t.Error("totals should not contain the out-of-scope member")
		}
	})
}

// Accumulation is a commutative fold: any permutation of the inputs must
// produce identical totals and pairwise ledgers.
func TestAccumulateOrderIndependence(t *testing.T) {
	scope := []int{1, 2, 3, 4}
	expenses := []Expense{
		{ID: 1, PaidBy: 1, Amount: dec("100"), Splits: []Split{{UserID: 2, Amount: dec("50")}, {UserID: 3, Amount: dec("50")}}},
		{ID: 2, PaidBy: 2, Amount: dec("60"), Splits: []Split{{UserID: 1, Amount: dec("20")}, {UserID: 3, Amount: dec("20")}, {UserID: 4, Amount: dec("20")}}},
		{ID: 3, PaidBy: 3, Amount: dec("15.99"), Splits: []Split{{UserID: 4, Amount: dec("15.99")}}},
		{ID: 4, PaidBy: 4, Amount: dec("33.34"), Splits: []Split{{UserID: 1, Amount: dec("11.11")}, {UserID: 2, Amount: dec("11.11")}, {UserID: 3, Amount: dec("11.12")}}},
	}
	settlements := []Settlement{
		{ID: 1, PaidBy: 2, ReceivedBy: 1, Amount: dec("25")},
		{ID: 2, PaidBy: 4, ReceivedBy: 2, Amount: dec("20")},
		{ID: 3, PaidBy: 3, ReceivedBy: 1, Amount: dec("10.50")},
	}

	want := Accumulate(expenses, settlements, scope)

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 20; trial++ {
		e := make([]Expense, len(expenses))
		copy(e, expenses)
		s := make([]Settlement, len(settlements))
		copy(s, settlements)
		rng.Shuffle(len(e), func(i, j int) { e[i], e[j] = e[j], e[i] })
		rng.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })

		got := Accumulate(e, s, scope)
		for _, id := range scope {
			if !got.Totals[id].Equal(want.Totals[id]) {
				t.Fatalf("trial %d: totals[%d] = %s, want %s", trial, id, got.Totals[id], want.Totals[id])
			}
			for _, other := range scope {
				if id == other {
					continue
				}
				if !got.Pairwise[id][other].Equal(want.Pairwise[id][other]) {
					t.Fatalf("trial %d: pairwise[%d][%d] = %s, want %s",
						trial, id, other, got.Pairwise[id][other], want.Pairwise[id][other])
				}
			}
		}
	}
}

// Every unit owed inside a closed scope is owed to someone inside it, so the
// totals of a closed group always sum to zero.
func TestAccumulateConservation(t *testing.T) {
	scope := []int{1, 2, 3, 4}
	expenses := []Expense{
		{ID: 1, PaidBy: 1, Amount: dec("99.99"), Splits: []Split{{UserID: 2, Amount: dec("33.33")}, {UserID: 3, Amount: dec("33.33")}, {UserID: 4, Amount: dec("33.33")}}},
		{ID: 2, PaidBy: 3, Amount: dec("40"), Splits: []Split{{UserID: 3, Amount: dec("10")}, {UserID: 1, Amount: dec("10")}, {UserID: 2, Amount: dec("10")}, {UserID: 4, Amount: dec("10")}}},
	}
	settlements := []Settlement{
		{ID: 1, PaidBy: 2, ReceivedBy: 1, Amount: dec("12.75")},
	}

	acc := Accumulate(expenses, settlements, scope)
	sum := decimal.Zero
	for _, id := range scope {
		sum = sum.Add(acc.Totals[id])
	}
	if !sum.Equal(decimal.Zero) {
		t.Fatalf("closed-scope totals sum = %s, want 0", sum)
	}
}
