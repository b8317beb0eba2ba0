// Package service implements workspace operations: the member roster and the
// ownership transfer executor.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	accountrepo "workspace-console/internal/account/repository"
	"workspace-console/internal/audit"
	"workspace-console/internal/events"
	"workspace-console/internal/events/producer"
	"workspace-console/internal/policy/engine"
	"workspace-console/internal/security"
	"workspace-console/internal/workspace/domain"
	"workspace-console/internal/workspace/repository"
)

var (
	// ErrTransferTokenInvalid is returned when the transfer token is malformed,
	// expired, or bound to a different account or workspace.
	ErrTransferTokenInvalid = errors.New("invalid transfer token")
	// ErrNotOwner is returned when the caller does not hold the owner role.
	ErrNotOwner = errors.New("caller is not the workspace owner")
	// ErrMemberNotFound is returned when the chosen new owner is not a member.
	ErrMemberNotFound = errors.New("target member not found")
	// ErrMemberInactive is returned when the chosen new owner is banned or closed.
	ErrMemberInactive = errors.New("target member is not active")
	// ErrTransferToSelf is returned when the owner picks themselves.
	ErrTransferToSelf = errors.New("cannot transfer ownership to yourself")
	// ErrNotEligible is returned when a workspace policy forbids the transfer
	// for a reason outside the standard ones.
	ErrNotEligible = errors.New("transfer not permitted by workspace policy")
	// ErrWorkspaceNotFound is returned when the workspace does not exist.
	ErrWorkspaceNotFound = errors.New("workspace not found")
)

// Service answers roster reads and executes ownership transfers.
type Service struct {
	workspaces repository.Repository
	accounts   accountrepo.Repository
	tokens     *security.TokenProvider
	policy     engine.Evaluator
	audit      audit.Recorder
	bus        *events.Bus
	mirror     producer.Producer
	logger     *zap.SugaredLogger
}

// NewService returns a workspace service. auditRec and mirror may be nil.
func NewService(
	workspaces repository.Repository,
	accounts accountrepo.Repository,
	tokens *security.TokenProvider,
	policy engine.Evaluator,
	auditRec audit.Recorder,
	bus *events.Bus,
	mirror producer.Producer,
	logger *zap.SugaredLogger,
) *Service {
	return &Service{
		workspaces: workspaces,
		accounts:   accounts,
		tokens:     tokens,
		policy:     policy,
		audit:      auditRec,
		bus:        bus,
		mirror:     mirror,
		logger:     logger,
	}
}

// Members returns the roster for the workspace, every account with a
// membership regardless of role or status. The caller must already be
// authenticated into the workspace.
func (s *Service) Members(ctx context.Context, workspaceID string) ([]*domain.Member, error) {
	members, err := s.workspaces.ListMembers(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// TransferOwnership makes newOwnerID the workspace owner. transferToken must
// be a valid transfer token bound to the calling actor and workspace; the
// token is stateless, so a failed attempt leaves it usable for a retry.
func (s *Service) TransferOwnership(ctx context.Context, actorID, workspaceID, newOwnerID, transferToken string) error {
	tokAccount, tokWorkspace, err := s.tokens.ValidateTransfer(transferToken)
	if err != nil {
		return ErrTransferTokenInvalid
	}
	if tokAccount != actorID || tokWorkspace != workspaceID {
		return ErrTransferTokenInvalid
	}

	ws, err := s.workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("get workspace: %w", err)
	}
	if ws == nil {
		return ErrWorkspaceNotFound
	}

	input, err := s.buildPolicyInput(ctx, workspaceID, actorID, newOwnerID)
	if err != nil {
		return err
	}
	decision, err := s.policy.EvaluateTransfer(ctx, input)
	if err != nil {
		return fmt.Errorf("evaluate eligibility: %w", err)
	}
	if !decision.Allowed {
		return denyError(decision.Reasons)
	}

	if err := s.workspaces.SwapOwner(ctx, workspaceID, actorID, newOwnerID); err != nil {
		return fmt.Errorf("swap owner: %w", err)
	}

	s.logger.Infow("ownership transferred",
		"workspace_id", workspaceID, "from", actorID, "to", newOwnerID)
	if s.audit != nil {
		s.audit.LogEvent(ctx, workspaceID, actorID, audit.ActionOwnerTransfer,
			"workspace:"+workspaceID, "new_owner="+newOwnerID)
	}
	event := events.Event{
		Kind:        events.KindOwnershipTransferred,
		WorkspaceID: workspaceID,
		ActorID:     actorID,
		SubjectID:   newOwnerID,
	}
	if s.bus != nil {
		s.bus.Publish(event)
	}
	if s.mirror != nil {
		if err := s.mirror.Emit(ctx, &event); err != nil {
			s.logger.Warnw("event mirror emit failed", "error", err)
		}
	}
	return nil
}

func (s *Service) buildPolicyInput(ctx context.Context, workspaceID, actorID, newOwnerID string) (engine.TransferInput, error) {
	actorMembership, err := s.workspaces.GetMembership(ctx, workspaceID, actorID)
	if err != nil {
		return engine.TransferInput{}, fmt.Errorf("get actor membership: %w", err)
	}
	targetMembership, err := s.workspaces.GetMembership(ctx, workspaceID, newOwnerID)
	if err != nil {
		return engine.TransferInput{}, fmt.Errorf("get target membership: %w", err)
	}

	in := engine.TransferInput{
		WorkspaceID: workspaceID,
		Actor:       engine.Subject{ID: actorID},
		Target:      engine.Subject{ID: newOwnerID},
	}
	if actorMembership != nil {
		in.Actor.IsMember = true
		in.Actor.Role = string(actorMembership.Role)
		if acc, err := s.accounts.GetByID(ctx, actorID); err != nil {
			return engine.TransferInput{}, fmt.Errorf("get actor account: %w", err)
		} else if acc != nil {
			in.Actor.Status = string(acc.Status)
		}
	}
	if targetMembership != nil {
		in.Target.IsMember = true
		in.Target.Role = string(targetMembership.Role)
		if acc, err := s.accounts.GetByID(ctx, newOwnerID); err != nil {
			return engine.TransferInput{}, fmt.Errorf("get target account: %w", err)
		} else if acc != nil {
			in.Target.Status = string(acc.Status)
		}
	}
	return in, nil
}

// denyError maps policy deny reasons to sentinel errors; the first standard
// reason wins, anything custom collapses into ErrNotEligible.
func denyError(reasons []string) error {
	for _, r := range reasons {
		switch r {
		case "actor_not_owner":
			return ErrNotOwner
		case "target_not_member":
			return ErrMemberNotFound
		case "target_inactive":
			return ErrMemberInactive
		case "transfer_to_self":
			return ErrTransferToSelf
		}
	}
	if len(reasons) > 0 {
		return fmt.Errorf("%w: %s", ErrNotEligible, strings.Join(reasons, ", "))
	}
	return ErrNotEligible
}
