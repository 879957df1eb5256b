package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Allocate computes each participant's owed share for one expense.
//
// For SplitEqual the amount is divided evenly across participants, each share
// rounded to 2 decimal places. The last participant in declared order absorbs
// the rounding remainder so the shares always sum to amount exactly.
//
// For SplitUnequal the declared shares are used as-is after validation:
// no negative amounts (zero is allowed and marks a participant who owes
// nothing), no duplicate participants, members inside the participant scope,
// and a sum within 0.01 of amount.
//
// participants is the authorized scope: the group's member list, or the pair
// for a personal expense. A nil participants slice skips the scope check for
// unequal splits (personal expenses whose scope is defined by the declared
// splits themselves).
func Allocate(amount decimal.Decimal, splitType SplitType, declared []Split, participants []int) ([]Split, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: expense amount must be greater than 0", ErrInvalidAmount)
	}

	switch splitType {
	case SplitEqual:
		return allocateEqual(amount, participants)
	case SplitUnequal:
		return allocateUnequal(amount, declared, participants)
	default:
		return nil, fmt.Errorf("unknown split type %q", splitType)
	}
}

func allocateEqual(amount decimal.Decimal, participants []int) ([]Split, error) {
	if len(participants) == 0 {
		return nil, ErrEmptySplit
	}

	seen := make(map[int]bool, len(participants))
	for _, id := range participants {
		if seen[id] {
			return nil, fmt.Errorf("%w: user %d", ErrDuplicateParticipant, id)
		}
		seen[id] = true
	}

	share := amount.Div(decimal.NewFromInt(int64(len(participants)))).Round(2)

	splits := make([]Split, len(participants))
	allocated := decimal.Zero
	for i, id := range participants {
		if i == len(participants)-1 {
			// Last participant absorbs the rounding remainder.
			splits[i] = Split{UserID: id, Amount: amount.Sub(allocated)}
			break
		}
		splits[i] = Split{UserID: id, Amount: share}
		allocated = allocated.Add(share)
	}
	return splits, nil
}

func allocateUnequal(amount decimal.Decimal, declared []Split, participants []int) ([]Split, error) {
	if len(declared) == 0 {
		return nil, ErrEmptySplit
	}

	var scope map[int]bool
	if participants != nil {
		scope = make(map[int]bool, len(participants))
		for _, id := range participants {
			scope[id] = true
		}
	}

	seen := make(map[int]bool, len(declared))
	sum := decimal.Zero
	splits := make([]Split, len(declared))
	for i, s := range declared {
		if seen[s.UserID] {
			return nil, fmt.Errorf("%w: user %d", ErrDuplicateParticipant, s.UserID)
		}
		seen[s.UserID] = true
		if s.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: split amount for user %d is negative", ErrInvalidAmount, s.UserID)
		}
		if scope != nil && !scope[s.UserID] {
			return nil, fmt.Errorf("%w: user %d", ErrInvalidParticipant, s.UserID)
		}
		sum = sum.Add(s.Amount)
		splits[i] = Split{UserID: s.UserID, Amount: s.Amount, Paid: s.Paid}
	}

	if sum.Sub(amount).Abs().GreaterThan(tolerance) {
		return nil, fmt.Errorf("%w: splits sum to %s, expense amount is %s", ErrSplitMismatch, sum, amount)
	}
	return splits, nil
}
