// Package transfer implements the client-side ownership transfer workflow: a
// step-gated state machine that re-authenticates the current owner through an
// emailed one-time code, lets them pick a successor from the roster, and
// executes the transfer.
package transfer

// Step is the workflow position. Operations are valid only at specific steps;
// calls made at another step do nothing and issue no network call.
type Step int

const (
	// StepInitial is the opening state, before any code has been sent.
	StepInitial Step = iota
	// StepAwaitingCode means a code was emailed and the user must enter it.
	StepAwaitingCode
	// StepVerified means the code checked out and a transfer token is held.
	StepVerified
	// StepOwnerSelected means a successor has been chosen from the roster.
	StepOwnerSelected
	// StepSubmitting means the transfer call is in flight.
	StepSubmitting
	// StepDone is terminal: ownership changed and client state reloads.
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepInitial:
		return "initial"
	case StepAwaitingCode:
		return "awaiting_code"
	case StepVerified:
		return "verified"
	case StepOwnerSelected:
		return "owner_selected"
	case StepSubmitting:
		return "submitting"
	case StepDone:
		return "done"
	default:
		return "unknown"
	}
}
