package engine

import "context"

// Subject describes one party of a transfer for policy evaluation.
type Subject struct {
	ID       string
	Role     string
	Status   string
	IsMember bool
}

// TransferInput is the input document for eligibility evaluation.
type TransferInput struct {
	WorkspaceID string
	Actor       Subject
	Target      Subject
}

// Decision is the outcome of eligibility evaluation. Reasons lists the deny
// rules that fired; empty when Allowed is true.
type Decision struct {
	Allowed bool
	Reasons []string
}

// Evaluator decides whether an ownership transfer is allowed.
type Evaluator interface {
	EvaluateTransfer(ctx context.Context, in TransferInput) (Decision, error)
}
