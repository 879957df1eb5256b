package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestPairBalance(t *testing.T) {
	x, y := 10, 20

	t.Run("expense makes counterpart owe the payer", func(t *testing.T) {
		expenses := []Expense{{
			ID:     1,
			PaidBy: x,
			Amount: dec("40.00"),
			Splits: []Split{{UserID: y, Amount: dec("40")}},
		}}

		bal := PairBalance(x, y, expenses, nil)
		if !bal.Equal(dec("40")) {
			t.Fatalf("balance = %s, want 40", bal)
		}
		// Symmetric view negates.
		if !PairBalance(y, x, expenses, nil).Equal(dec("-40")) {
			t.Fatalf("reverse balance = %s, want -40", PairBalance(y, x, expenses, nil))
		}
	})

	t.Run("related settlement offsets the expense exactly once", func(t *testing.T) {
		expenses := []Expense{{
			ID:     1,
			PaidBy: x,
			Amount: dec("40.00"),
			Splits: []Split{{UserID: y, Amount: dec("40")}},
		}}
		settlements := []Settlement{{
			ID:               1,
			PaidBy:           y,
			ReceivedBy:       x,
			Amount:           dec("40"),
			RelatedExpenseID: 1,
		}}

		if bal := PairBalance(x, y, expenses, settlements); !bal.Equal(decimal.Zero) {
			t.Fatalf("balance = %s, want 0 after related settlement", bal)
		}
	})

	t.Run("related settlement amount is not reconciled", func(t *testing.T) {
		// The settlement excludes the expense even when the amounts differ.
		expenses := []Expense{{
			ID:     1,
			PaidBy: x,
			Amount: dec("40.00"),
			Splits: []Split{{UserID: y, Amount: dec("40")}},
		}}
		settlements := []Settlement{{
			ID:               1,
			PaidBy:           y,
			ReceivedBy:       x,
			Amount:           dec("10"),
			RelatedExpenseID: 1,
		}}

		if bal := PairBalance(x, y, expenses, settlements); !bal.Equal(decimal.Zero) {
			t.Fatalf("balance = %s, want 0 (offsetting is by reference, not amount)", bal)
		}
	})

	t.Run("unrelated settlement adjusts the running balance", func(t *testing.T) {
		expenses := []Expense{{
			ID:     1,
			PaidBy: x,
			Amount: dec("40.00"),
			Splits: []Split{{UserID: y, Amount: dec("40")}},
		}}
		settlements := []Settlement{{ID: 1, PaidBy: y, ReceivedBy: x, Amount: dec("15")}}

		if bal := PairBalance(x, y, expenses, settlements); !bal.Equal(dec("25")) {
			t.Fatalf("balance = %s, want 25", bal)
		}
	})

	t.Run("group expenses and third parties are excluded", func(t *testing.T) {
		expenses := []Expense{
			{ID: 1, GroupID: 7, PaidBy: x, Amount: dec("100"), Splits: []Split{{UserID: y, Amount: dec("100")}}},
			{ID: 2, PaidBy: x, Amount: dec("30"), Splits: []Split{{UserID: 99, Amount: dec("30")}}},
			{ID: 3, PaidBy: x, Amount: dec("12.50"), Splits: []Split{{UserID: y, Amount: dec("12.50")}}},
		}

		if bal := PairBalance(x, y, expenses, nil); !bal.Equal(dec("12.50")) {
			t.Fatalf("balance = %s, want 12.50", bal)
		}
	})
}

func TestPairBalances(t *testing.T) {
	me := 1
	expenses := []Expense{
		{ID: 1, PaidBy: me, Amount: dec("40"), Splits: []Split{{UserID: 2, Amount: dec("40")}}},
		{ID: 2, PaidBy: 3, Amount: dec("18"), Splits: []Split{{UserID: me, Amount: dec("18")}}},
	}

	balances := PairBalances(me, expenses, nil)
	if len(balances) != 2 {
		t.Fatalf("got %d counterparts, want 2", len(balances))
	}
	if balances[0].UserID != 2 || !balances[0].Amount.Equal(dec("40")) {
		t.Errorf("balances[0] = %+v, want user 2 owing 40", balances[0])
	}
	if balances[1].UserID != 3 || !balances[1].Amount.Equal(dec("-18")) {
		t.Errorf("balances[1] = %+v, want -18 toward user 3", balances[1])
	}
}

func TestMonthlySpending(t *testing.T) {
	me := 1
	at := func(month time.Month) time.Time {
		return time.Date(2025, month, 15, 12, 0, 0, 0, time.UTC)
	}
	expenses := []Expense{
		// Paid by me: my spend is what I covered for others.
		{ID: 1, PaidBy: me, Amount: dec("60"), CreatedAt: at(time.January),
			Splits: []Split{{UserID: me, Amount: dec("20")}, {UserID: 2, Amount: dec("20")}, {UserID: 3, Amount: dec("20")}}},
		// Someone else paid: my spend is my owed share.
		{ID: 2, PaidBy: 2, Amount: dec("50"), CreatedAt: at(time.January),
			Splits: []Split{{UserID: me, Amount: dec("25")}, {UserID: 3, Amount: dec("25")}}},
		{ID: 3, PaidBy: 3, Amount: dec("10"), CreatedAt: at(time.March),
			Splits: []Split{{UserID: me, Amount: dec("10")}}},
		// Different year, ignored.
		{ID: 4, PaidBy: me, Amount: dec("99"), CreatedAt: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
			Splits: []Split{{UserID: 2, Amount: dec("99")}}},
	}

	months := MonthlySpending(me, expenses, 2025)
	if len(months) != 12 {
		t.Fatalf("got %d months, want 12", len(months))
	}
	if !months[0].Total.Equal(dec("65")) { // 40 covered for others + 25 owed
		t.Errorf("january = %s, want 65", months[0].Total)
	}
	if !months[2].Total.Equal(dec("10")) {
		t.Errorf("march = %s, want 10", months[2].Total)
	}
	if !months[5].Total.Equal(decimal.Zero) {
		t.Errorf("june = %s, want 0", months[5].Total)
	}

	if total := TotalSpent(me, expenses, 2025); !total.Equal(dec("75")) {
		t.Errorf("TotalSpent = %s, want 75", total)
	}
}

func TestSummary(t *testing.T) {
	me := 1
	now := time.Date(2025, time.August, 20, 10, 0, 0, 0, time.UTC)
	expenses := []Expense{
		// This month: I paid, others owe me.
		{ID: 1, PaidBy: me, Amount: dec("100"), CreatedAt: now.AddDate(0, 0, -5),
			Splits: []Split{{UserID: 2, Amount: dec("50")}, {UserID: 3, Amount: dec("50")}}},
		// Earlier this year: I owe user 2.
		{ID: 2, PaidBy: 2, Amount: dec("80"), CreatedAt: time.Date(2025, time.February, 2, 0, 0, 0, 0, time.UTC),
			Splits: []Split{{UserID: me, Amount: dec("40")}, {UserID: 3, Amount: dec("40")}}},
		// Pre-settled split never counts toward owed figures.
		{ID: 3, PaidBy: 2, Amount: dec("30"), CreatedAt: now.AddDate(0, 0, -1),
			Splits: []Split{{UserID: me, Amount: dec("30"), Paid: true}}},
	}

	sum := Summary(me, expenses, now)

	if !sum.MonthlyTotal.Equal(dec("130")) {
		t.Errorf("MonthlyTotal = %s, want 130", sum.MonthlyTotal)
	}
	if !sum.YearlyTotal.Equal(dec("210")) {
		t.Errorf("YearlyTotal = %s, want 210", sum.YearlyTotal)
	}
	if !sum.YouAreOwed.Equal(dec("100")) {
		t.Errorf("YouAreOwed = %s, want 100", sum.YouAreOwed)
	}
	if !sum.YouOwe.Equal(dec("40")) {
		t.Errorf("YouOwe = %s, want 40", sum.YouOwe)
	}
	if !sum.TotalBalance.Equal(dec("60")) {
		t.Errorf("TotalBalance = %s, want 60", sum.TotalBalance)
	}
	if len(sum.PeopleOwing) != 2 {
		t.Fatalf("PeopleOwing = %+v, want users 2 and 3", sum.PeopleOwing)
	}
	if len(sum.PeopleOwed) != 1 || sum.PeopleOwed[0].UserID != 2 || !sum.PeopleOwed[0].Amount.Equal(dec("40")) {
		t.Errorf("PeopleOwed = %+v, want 40 toward user 2", sum.PeopleOwed)
	}
}
