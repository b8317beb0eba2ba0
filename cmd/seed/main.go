// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev owner (owner@example.com) already exists.
package main

import (
	"context"
	"log"
	"os"
	"time"

	accountdomain "workspace-console/internal/account/domain"
	accountrepo "workspace-console/internal/account/repository"
	"workspace-console/internal/config"
	"workspace-console/internal/db"
	policydomain "workspace-console/internal/policy/domain"
	policyrepo "workspace-console/internal/policy/repository"
	"workspace-console/internal/security"
	workspacedomain "workspace-console/internal/workspace/domain"
	workspacerepo "workspace-console/internal/workspace/repository"
)

const (
	devOwnerEmail  = "owner@example.com"
	devMemberEmail = "member@example.com"
	devPassword    = "password123"
	devOwnerID     = "dev-account-001"
	devMemberID    = "dev-account-002"
	devWorkspaceID = "dev-workspace-001"
	devOwnerMemID  = "dev-membership-001"
	devMemberMemID = "dev-membership-002"
	devPolicyRowID = "dev-policy-001"
)

// devRegoPolicy mirrors the default rules in internal/policy/engine; seeded so
// the override path is exercised locally.
const devRegoPolicy = `package console.owner_transfer

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

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	ctx := context.Background()
	pool, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	accounts := accountrepo.NewPostgresRepository(pool)
	workspaces := workspacerepo.NewPostgresRepository(pool)
	policies := policyrepo.NewPostgresRepository(pool)

	existing, err := accounts.GetByEmail(ctx, devOwnerEmail)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (owner@example.com exists). Skipping.")
		os.Exit(0)
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	passwordHash, err := hasher.Hash([]byte(devPassword))
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	now := time.Now().UTC()

	if err := accounts.Create(ctx, &accountdomain.Account{
		ID: devOwnerID, Email: devOwnerEmail, Name: "Dev Owner",
		PasswordHash: passwordHash, Status: accountdomain.AccountStatusActive,
		CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		log.Fatalf("create owner account: %v", err)
	}
	if err := accounts.Create(ctx, &accountdomain.Account{
		ID: devMemberID, Email: devMemberEmail, Name: "Dev Member",
		PasswordHash: passwordHash, Status: accountdomain.AccountStatusActive,
		CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		log.Fatalf("create member account: %v", err)
	}

	if err := workspaces.Create(ctx, &workspacedomain.Workspace{
		ID: devWorkspaceID, Name: "Dev Workspace",
		Status: workspacedomain.WorkspaceStatusActive, CreatedAt: now,
	}); err != nil {
		log.Fatalf("create workspace: %v", err)
	}
	if err := workspaces.CreateMembership(ctx, &workspacedomain.Membership{
		ID: devOwnerMemID, WorkspaceID: devWorkspaceID, AccountID: devOwnerID,
		Role: workspacedomain.RoleOwner, CreatedAt: now,
	}); err != nil {
		log.Fatalf("create owner membership: %v", err)
	}
	if err := workspaces.CreateMembership(ctx, &workspacedomain.Membership{
		ID: devMemberMemID, WorkspaceID: devWorkspaceID, AccountID: devMemberID,
		Role: workspacedomain.RoleNormal, CreatedAt: now,
	}); err != nil {
		log.Fatalf("create member membership: %v", err)
	}

	if err := policies.Upsert(ctx, &policydomain.EligibilityPolicy{
		ID: devPolicyRowID, WorkspaceID: devWorkspaceID, Rego: devRegoPolicy,
		CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		log.Fatalf("seed policy: %v", err)
	}

	log.Printf("Seeded workspace %s with owner %s and member %s (password %q)",
		devWorkspaceID, devOwnerEmail, devMemberEmail, devPassword)
}
