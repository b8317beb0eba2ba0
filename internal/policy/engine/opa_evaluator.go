package engine

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"

	"workspace-console/internal/policy/repository"
)

const policyPackage = "console.owner_transfer"

// Default Rego rules: the caller must hold the owner role, the target must be
// an active member, and the owner cannot transfer to themselves. Workspaces
// may override these with a stored policy.
const defaultRegoPolicy = `package console.owner_transfer

default allowed = false

deny contains "actor_not_owner" if {
	input.actor.role != "owner"
}

deny contains "target_not_member" if {
	not input.target.is_member
}

deny contains "target_inactive" if {
	input.target.is_member
	input.target.status != "active"
}

deny contains "transfer_to_self" if {
	input.target.id == input.actor.id
}

allowed if {
	count(deny) == 0
}
`

// OPAEvaluator evaluates transfer eligibility using OPA Rego. A per-workspace
// override from the policy repository replaces the default rules entirely.
type OPAEvaluator struct {
	policyRepo repository.Repository
}

// NewOPAEvaluator returns an OPA-based eligibility evaluator. policyRepo may
// be nil; then every workspace uses the default rules.
func NewOPAEvaluator(policyRepo repository.Repository) *OPAEvaluator {
	return &OPAEvaluator{policyRepo: policyRepo}
}

// HealthCheck verifies that the in-process Rego engine can compile and
// evaluate the default rules. Does not touch the policy repo.
func (e *OPAEvaluator) HealthCheck(ctx context.Context) error {
	in := TransferInput{
		Actor:  Subject{ID: "a", Role: "owner", Status: "active", IsMember: true},
		Target: Subject{ID: "b", Role: "normal", Status: "active", IsMember: true},
	}
	rs, err := e.eval(ctx, defaultRegoPolicy, buildInput(in), "allowed")
	if err != nil {
		return fmt.Errorf("eval default policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return fmt.Errorf("policy query returned no result")
	}
	return nil
}

// EvaluateTransfer evaluates eligibility for the given actor and target.
// Evaluation failures (bad stored policy, compile error) fail closed.
func (e *OPAEvaluator) EvaluateTransfer(ctx context.Context, in TransferInput) (Decision, error) {
	module := defaultRegoPolicy
	if e.policyRepo != nil && in.WorkspaceID != "" {
		override, err := e.policyRepo.GetByWorkspace(ctx, in.WorkspaceID)
		if err != nil {
			log.Printf("policy: failed to load override for workspace %s: %v", in.WorkspaceID, err)
		} else if override != nil && override.Rego != "" {
			module = override.Rego
		}
	}

	input := buildInput(in)

	allowedRS, err := e.eval(ctx, module, input, "allowed")
	if err != nil {
		return Decision{}, fmt.Errorf("evaluate allowed: %w", err)
	}
	decision := Decision{}
	if len(allowedRS) > 0 && len(allowedRS[0].Expressions) > 0 {
		if v, ok := allowedRS[0].Expressions[0].Value.(bool); ok {
			decision.Allowed = v
		}
	}
	if decision.Allowed {
		return decision, nil
	}

	denyRS, err := e.eval(ctx, module, input, "deny")
	if err == nil && len(denyRS) > 0 && len(denyRS[0].Expressions) > 0 {
		if set, ok := denyRS[0].Expressions[0].Value.([]interface{}); ok {
			for _, r := range set {
				if s, ok := r.(string); ok {
					decision.Reasons = append(decision.Reasons, s)
				}
			}
			sort.Strings(decision.Reasons)
		}
	}
	return decision, nil
}

func (e *OPAEvaluator) eval(ctx context.Context, module string, input map[string]interface{}, query string) (rego.ResultSet, error) {
	compiler, err := ast.CompileModules(map[string]string{"policy_0.rego": module})
	if err != nil {
		return nil, fmt.Errorf("compile policy: %w", err)
	}
	q := rego.New(
		rego.Query(fmt.Sprintf("data.%s.%s", policyPackage, query)),
		rego.Compiler(compiler),
		rego.Input(input),
	)
	return q.Eval(ctx)
}

func buildInput(in TransferInput) map[string]interface{} {
	return map[string]interface{}{
		"workspace_id": in.WorkspaceID,
		"actor": map[string]interface{}{
			"id":        in.Actor.ID,
			"role":      in.Actor.Role,
			"status":    in.Actor.Status,
			"is_member": in.Actor.IsMember,
		},
		"target": map[string]interface{}{
			"id":        in.Target.ID,
			"role":      in.Target.Role,
			"status":    in.Target.Status,
			"is_member": in.Target.IsMember,
		},
	}
}
