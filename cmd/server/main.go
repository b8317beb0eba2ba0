// Package main runs the workspace console HTTP server.
package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	accountrepo "workspace-console/internal/account/repository"
	"workspace-console/internal/audit"
	auditrepo "workspace-console/internal/audit/repository"
	"workspace-console/internal/auth"
	"workspace-console/internal/config"
	"workspace-console/internal/db"
	"workspace-console/internal/devcode"
	"workspace-console/internal/events"
	"workspace-console/internal/events/producer"
	"workspace-console/internal/logger"
	"workspace-console/internal/policy/engine"
	policyrepo "workspace-console/internal/policy/repository"
	"workspace-console/internal/security"
	sessionrepo "workspace-console/internal/session/repository"
	"workspace-console/internal/telemetry/otel"
	consolehttp "workspace-console/internal/transport/http"
	"workspace-console/internal/transport/http/handlers"
	"workspace-console/internal/verification"
	"workspace-console/internal/verification/mail"
	verificationrepo "workspace-console/internal/verification/repository"
	workspacerepo "workspace-console/internal/workspace/repository"
	workspacesvc "workspace-console/internal/workspace/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "workspace-console", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalw("telemetry init", "error", err)
	}
	providers.SetGlobal()
	defer func() {
		shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = providers.Shutdown(shCtx)
	}()

	pool, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalw("database connect", "error", err)
	}
	defer pool.Close()

	privateKey, err := security.ParsePrivateKey(cfg.TokenPrivateKey)
	if err != nil {
		log.Fatalw("token private key", "error", err)
	}
	publicKey, err := security.ParsePublicKey(cfg.TokenPublicKey)
	if err != nil {
		log.Fatalw("token public key", "error", err)
	}
	tokens := security.NewTokenProvider(privateKey, publicKey, cfg.TokenIssuer, cfg.TokenAudience)
	hasher := security.NewHasher(cfg.BcryptCost)

	accounts := accountrepo.NewPostgresRepository(pool)
	workspaces := workspacerepo.NewPostgresRepository(pool)
	sessions := sessionrepo.NewPostgresRepository(pool)
	challenges := verificationrepo.NewPostgresRepository(pool)
	policies := policyrepo.NewPostgresRepository(pool)
	auditLogs := auditrepo.NewPostgresRepository(pool)

	auditor := audit.NewLogger(auditLogs, func(ctx context.Context) string {
		if ip := auth.GetClientIP(ctx); ip != "" {
			return ip
		}
		return "unknown"
	})

	evaluator := engine.NewOPAEvaluator(policies)
	if err := evaluator.HealthCheck(ctx); err != nil {
		log.Fatalw("policy engine", "error", err)
	}

	bus := events.NewBus()
	busCh, busCancel := bus.Subscribe()
	defer busCancel()
	go func() {
		for e := range busCh {
			log.Infow("event", "kind", e.Kind, "workspace_id", e.WorkspaceID,
				"actor_id", e.ActorID, "subject_id", e.SubjectID)
		}
	}()

	mirror, err := producer.NewKafkaProducer(cfg.KafkaBrokersList(), cfg.EventsKafkaTopic)
	if err != nil {
		log.Fatalw("kafka producer", "error", err)
	}
	if mirror != nil {
		defer func() { _ = mirror.Close() }()
	}

	var devStore devcode.Store
	if cfg.DevCodeEnabled {
		devStore = devcode.NewMemoryStore()
		log.Warnw("dev code retrieval enabled; do not use in production")
	}

	sender := mail.NewClient(cfg.MailAPIKey, cfg.MailBaseURL, cfg.MailSender)

	authSvc := auth.NewService(accounts, workspaces, sessions, hasher, tokens, auditor, log, cfg.AccessTTL())
	verificationSvc := verification.NewService(challenges, workspaces, accounts, sender, tokens,
		devStore, auditor, log, verificationrepo.DefaultChallengeTTL, cfg.TransferTTL())
	var mirrorProducer producer.Producer
	if mirror != nil {
		mirrorProducer = mirror
	}
	workspaceSvc := workspacesvc.NewService(workspaces, accounts, tokens, evaluator,
		auditor, bus, mirrorProducer, log)

	h := handlers.NewHandler(log, authSvc, verificationSvc, workspaceSvc, tokens, devStore)
	app := consolehttp.NewApp(log, h, authSvc)

	go func() {
		log.Infow("server listening", "addr", cfg.HTTPAddr)
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			log.Errorw("server stopped", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = app.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Warnw("server shutdown timeout", "timeout", shutdownTimeout)
	}
}
