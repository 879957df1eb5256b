package ledger

import "github.com/shopspring/decimal"

// Balances is the result of folding a set of expenses and settlements over a
// member scope.
//
// Totals holds each member's net position: positive means the member is owed
// money, negative means the member owes. Pairwise is the raw directed ledger,
// Pairwise[debtor][creditor] = amount the debtor owes that creditor before
// netting. Settlement payments subtract from Pairwise[payer][receiver] and
// can drive an entry negative; netting resolves the direction.
type Balances struct {
	Totals   map[int]decimal.Decimal
	Pairwise map[int]map[int]decimal.Decimal
}

// Accumulate folds expenses and settlements into per-member totals and a
// pairwise ledger over scopeMembers.
//
// The fold is commutative: the result depends only on the input set, never on
// processing order. Splits flagged Paid are excluded (settled out-of-band at
// creation). A contribution referencing a member outside the scope is
// silently dropped for that member; callers pre-filter inputs to the scope
// they are authorized for.
func Accumulate(expenses []Expense, settlements []Settlement, scopeMembers []int) Balances {
	totals := make(map[int]decimal.Decimal, len(scopeMembers))
	pairwise := make(map[int]map[int]decimal.Decimal, len(scopeMembers))
	for _, a := range scopeMembers {
		totals[a] = decimal.Zero
		pairwise[a] = make(map[int]decimal.Decimal, len(scopeMembers)-1)
		for _, b := range scopeMembers {
			if a != b {
				pairwise[a][b] = decimal.Zero
			}
		}
	}

	inScope := func(id int) bool {
		_, ok := totals[id]
		return ok
	}

	for _, e := range expenses {
		for _, s := range e.Splits {
			// The payer's own share and pre-settled shares never enter the
			// running ledger.
			if s.UserID == e.PaidBy || s.Paid {
				continue
			}
			if inScope(e.PaidBy) {
				totals[e.PaidBy] = totals[e.PaidBy].Add(s.Amount)
			}
			if inScope(s.UserID) {
				totals[s.UserID] = totals[s.UserID].Sub(s.Amount)
			}
			if inScope(e.PaidBy) && inScope(s.UserID) {
				pairwise[s.UserID][e.PaidBy] = pairwise[s.UserID][e.PaidBy].Add(s.Amount)
			}
		}
	}

	for _, s := range settlements {
		if inScope(s.PaidBy) {
			totals[s.PaidBy] = totals[s.PaidBy].Add(s.Amount)
		}
		if inScope(s.ReceivedBy) {
			totals[s.ReceivedBy] = totals[s.ReceivedBy].Sub(s.Amount)
		}
		if inScope(s.PaidBy) && inScope(s.ReceivedBy) {
			pairwise[s.PaidBy][s.ReceivedBy] = pairwise[s.PaidBy][s.ReceivedBy].Sub(s.Amount)
		}
	}

	return Balances{Totals: totals, Pairwise: pairwise}
}
