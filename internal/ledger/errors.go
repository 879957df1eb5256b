package ledger

import "errors"

// Validation errors returned by the ledger core. Handlers match these with
// errors.Is and translate them to 4xx responses.
var (
	// ErrInvalidAmount is returned when an amount is zero or negative where
	// a positive amount is required, or when a split amount is negative.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrSplitMismatch is returned when declared splits do not sum to the
	// expense total within the 0.01 tolerance.
	ErrSplitMismatch = errors.New("splits do not sum to expense amount")

	// ErrInvalidParticipant is returned when a split references a member
	// outside the expense's participant scope.
	ErrInvalidParticipant = errors.New("participant not in scope")

	// ErrSelfSettlement is returned when a settlement's payer and receiver
	// are the same user.
	ErrSelfSettlement = errors.New("payer and receiver cannot be the same")

	// ErrDuplicateParticipant is returned when the same member appears twice
	// in one expense's splits.
	ErrDuplicateParticipant = errors.New("duplicate participant in splits")

	// ErrEmptySplit is returned when an expense has no participants.
	ErrEmptySplit = errors.New("no participants to split with")
)
