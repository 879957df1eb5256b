package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Debt is one directed edge of the netted debt graph, seen from a member:
// the counterpart user and the amount flowing between them.
type Debt struct {
	UserID int
	Amount decimal.Decimal
}

// MemberBalance is one member's position inside a scope: their scalar net
// balance plus the netted pairwise detail. Owes lists outgoing debts, OwedBy
// lists incoming ones.
type MemberBalance struct {
	UserID       int
	TotalBalance decimal.Decimal
	Owes         []Debt
	OwedBy       []Debt
}

// GroupBalances computes the full balance view for a member scope: the
// accumulated totals plus the netted debt edges per member. Members keep
// their input order; edges are ordered by counterpart id.
//
// TotalBalance comes from the accumulator's scalar totals, not from summing
// the netted graph; the two agree in sign but are computed independently.
func GroupBalances(members []int, expenses []Expense, settlements []Settlement) []MemberBalance {
	acc := Accumulate(expenses, settlements, members)
	netted := Net(acc.Pairwise)

	ids := make([]int, len(members))
	copy(ids, members)
	sort.Ints(ids)

	balances := make([]MemberBalance, len(members))
	for i, m := range members {
		mb := MemberBalance{UserID: m, TotalBalance: acc.Totals[m]}
		for _, other := range ids {
			if other == m {
				continue
			}
			if out := netted[m][other]; out.IsPositive() {
				mb.Owes = append(mb.Owes, Debt{UserID: other, Amount: out})
			}
			if in := netted[other][m]; in.IsPositive() {
				mb.OwedBy = append(mb.OwedBy, Debt{UserID: other, Amount: in})
			}
		}
		balances[i] = mb
	}
	return balances
}

// PairBalance computes the 1:1 running balance between x and y over personal
// history. Positive means y owes x; negative means x owes y.
//
// Only personal expenses (no group) where one of the pair paid and the other
// appears in the splits contribute. A settlement carrying a
// RelatedExpenseID removes that expense's contribution and contributes
// nothing itself: the pair was offset explicitly and counting either side
// again would double-count the debt.
func PairBalance(x, y int, expenses []Expense, settlements []Settlement) decimal.Decimal {
	offset := make(map[int]bool)
	var counted []Settlement
	for _, s := range settlements {
		if !involvesPair(s.PaidBy, s.ReceivedBy, x, y) {
			continue
		}
		if s.RelatedExpenseID != 0 {
			offset[s.RelatedExpenseID] = true
			continue
		}
		counted = append(counted, s)
	}

	var relevant []Expense
	for _, e := range expenses {
		if e.GroupID != 0 || offset[e.ID] {
			continue
		}
		if !pairExpense(&e, x, y) {
			continue
		}
		relevant = append(relevant, e)
	}

	acc := Accumulate(relevant, counted, []int{x, y})
	return acc.Totals[x]
}

// PairBalances computes the per-counterpart running balances for one user
// across their personal history, ordered by counterpart id.
func PairBalances(me int, expenses []Expense, settlements []Settlement) []Debt {
	others := make(map[int]bool)
	for _, e := range expenses {
		if e.GroupID != 0 {
			continue
		}
		if e.PaidBy != me {
			others[e.PaidBy] = true
		}
		for _, s := range e.Splits {
			if s.UserID != me {
				others[s.UserID] = true
			}
		}
	}
	for _, s := range settlements {
		if s.PaidBy == me && s.ReceivedBy != me {
			others[s.ReceivedBy] = true
		}
		if s.ReceivedBy == me && s.PaidBy != me {
			others[s.PaidBy] = true
		}
	}

	ids := make([]int, 0, len(others))
	for id := range others {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	balances := make([]Debt, 0, len(ids))
	for _, other := range ids {
		balances = append(balances, Debt{
			UserID: other,
			Amount: PairBalance(me, other, expenses, settlements),
		})
	}
	return balances
}

// pairExpense reports whether e is a 1:1 expense between x and y: one of the
// pair paid and the other carries a split. Expenses touching only one side
// are excluded.
func pairExpense(e *Expense, x, y int) bool {
	var other int
	switch e.PaidBy {
	case x:
		other = y
	case y:
		other = x
	default:
		return false
	}
	for _, s := range e.Splits {
		if s.UserID == other {
			return true
		}
	}
	return false
}

func involvesPair(a, b, x, y int) bool {
	return (a == x && b == y) || (a == y && b == x)
}
