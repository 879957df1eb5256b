package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Net reduces a pairwise ledger to at most one directed debt per unordered
// pair: after netting, result[a][b] > 0 implies result[b][a] == 0.
//
// Each unordered pair is visited exactly once in ascending id order; the two
// directed entries are collapsed into their difference, flowing from the net
// debtor to the net creditor. The input matrix is not modified.
func Net(pairwise map[int]map[int]decimal.Decimal) map[int]map[int]decimal.Decimal {
	ids := make([]int, 0, len(pairwise))
	for id := range pairwise {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	result := make(map[int]map[int]decimal.Decimal, len(ids))
	for _, id := range ids {
		result[id] = make(map[int]decimal.Decimal, len(ids)-1)
	}

	for i, a := range ids {
		for _, b := range ids[i+1:] {
			diff := pairwise[a][b].Sub(pairwise[b][a])
			switch {
			case diff.IsPositive():
				result[a][b] = diff
				result[b][a] = decimal.Zero
			case diff.IsNegative():
				result[b][a] = diff.Neg()
				result[a][b] = decimal.Zero
			default:
				result[a][b] = decimal.Zero
				result[b][a] = decimal.Zero
			}
		}
	}
	return result
}
