package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// MonthTotal is one calendar month's personal spend.
type MonthTotal struct {
	Month int
	Total decimal.Decimal
}

// CounterpartTotal aggregates what flows between the user and one
// counterpart across all unsettled splits.
type CounterpartTotal struct {
	UserID int
	Amount decimal.Decimal
}

// DashboardSummary is the caller's aggregate position across all expenses
// touching them.
type DashboardSummary struct {
	TotalBalance decimal.Decimal
	MonthlyTotal decimal.Decimal
	YearlyTotal  decimal.Decimal
	YouAreOwed   decimal.Decimal
	YouOwe       decimal.Decimal
	PeopleOwing  []CounterpartTotal
	PeopleOwed   []CounterpartTotal
}

// personalShare is what an expense cost the user themselves: when they paid,
// the shares they covered for the other participants; otherwise their own
// owed split.
func personalShare(e *Expense, userID int) decimal.Decimal {
	share := decimal.Zero
	if e.PaidBy == userID {
		for _, s := range e.Splits {
			if s.UserID != userID {
				share = share.Add(s.Amount)
			}
		}
		return share
	}
	for _, s := range e.Splits {
		if s.UserID == userID {
			return s.Amount
		}
	}
	return share
}

// MonthlySpending buckets the user's personal share by calendar month for
// one year. The result always holds 12 entries, months 1 through 12.
func MonthlySpending(userID int, expenses []Expense, year int) []MonthTotal {
	totals := make([]MonthTotal, 12)
	for i := range totals {
		totals[i] = MonthTotal{Month: i + 1, Total: decimal.Zero}
	}
	for _, e := range expenses {
		if e.CreatedAt.Year() != year {
			continue
		}
		m := int(e.CreatedAt.Month()) - 1
		totals[m].Total = totals[m].Total.Add(personalShare(&e, userID))
	}
	return totals
}

// TotalSpent sums the user's personal share across one calendar year.
func TotalSpent(userID int, expenses []Expense, year int) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		if e.CreatedAt.Year() != year {
			continue
		}
		total = total.Add(personalShare(&e, userID))
	}
	return total
}

// Summary computes the caller's dashboard aggregates over all expenses
// touching them. MonthlyTotal and YearlyTotal count full expense amounts for
// the current month and year; the owed figures count unsettled splits only.
func Summary(userID int, expenses []Expense, now time.Time) DashboardSummary {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())

	sum := DashboardSummary{
		TotalBalance: decimal.Zero,
		MonthlyTotal: decimal.Zero,
		YearlyTotal:  decimal.Zero,
		YouAreOwed:   decimal.Zero,
		YouOwe:       decimal.Zero,
	}
	owing := make(map[int]decimal.Decimal)
	owed := make(map[int]decimal.Decimal)

	for _, e := range expenses {
		if !e.CreatedAt.Before(monthStart) {
			sum.MonthlyTotal = sum.MonthlyTotal.Add(e.Amount)
		}
		if !e.CreatedAt.Before(yearStart) {
			sum.YearlyTotal = sum.YearlyTotal.Add(e.Amount)
		}

		if e.PaidBy == userID {
			for _, s := range e.Splits {
				if s.UserID == userID || s.Paid {
					continue
				}
				sum.YouAreOwed = sum.YouAreOwed.Add(s.Amount)
				owing[s.UserID] = owing[s.UserID].Add(s.Amount)
			}
			continue
		}
		for _, s := range e.Splits {
			if s.UserID != userID || s.Paid {
				continue
			}
			sum.YouOwe = sum.YouOwe.Add(s.Amount)
			owed[e.PaidBy] = owed[e.PaidBy].Add(s.Amount)
		}
	}

	sum.TotalBalance = sum.YouAreOwed.Sub(sum.YouOwe)
	sum.PeopleOwing = sortedCounterparts(owing)
	sum.PeopleOwed = sortedCounterparts(owed)
	return sum
}

func sortedCounterparts(m map[int]decimal.Decimal) []CounterpartTotal {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]CounterpartTotal, 0, len(ids))
	for _, id := range ids {
		out = append(out, CounterpartTotal{UserID: id, Amount: m[id]})
	}
	return out
}
