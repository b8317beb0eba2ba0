package transfer

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Fallback notification messages, used when an error carries no text of its
// own. The verify failure message is fixed regardless of the error.
const (
	msgSendFailed     = "Sending verification email failed"
	msgVerifyFailed   = "Verifying email failed"
	msgTransferFailed = "Transfer failed"
	msgTransferDone   = "Ownership transferred"
)

// Session drives one ownership transfer workflow from open to done or
// cancel. All methods are safe for concurrent use; operations called at the
// wrong step, while another call is in flight, or after Cancel do nothing
// and issue no network call.
type Session struct {
	gateway  Gateway
	executor Executor
	roster   RosterProvider
	notifier Notifier
	logger   *zap.SugaredLogger
	reload   func()

	actorID string
	timer   *ResendTimer

	mu              sync.Mutex
	step            Step
	stepToken       string
	verifiedToken   string
	selectedOwnerID string
	inFlight        bool
	closed          bool
}

// Option configures a Session.
type Option func(*Session)

// WithTickInterval overrides the countdown tick period. For tests.
func WithTickInterval(d time.Duration) Option {
	return func(s *Session) { s.timer = NewResendTimer(d) }
}

// WithReload sets the hook run after a successful transfer, standing in for
// the full client reload that refetches all role-dependent state.
func WithReload(fn func()) Option {
	return func(s *Session) { s.reload = fn }
}

// WithLogger sets the session logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Session) { s.logger = l }
}

// NewSession returns a workflow session at StepInitial for the acting owner
// actorID. notifier may be nil.
func NewSession(actorID string, gateway Gateway, executor Executor, roster RosterProvider, notifier Notifier, opts ...Option) *Session {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	s := &Session{
		gateway:  gateway,
		executor: executor,
		roster:   roster,
		notifier: notifier,
		logger:   zap.NewNop().Sugar(),
		actorID:  actorID,
		timer:    NewResendTimer(0),
		step:     StepInitial,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start sends the first verification email. Valid only at StepInitial; on
// success the session moves to StepAwaitingCode and the resend countdown is
// armed. On failure the session stays at StepInitial.
func (s *Session) Start(ctx context.Context) error {
	if !s.begin(StepInitial) {
		return nil
	}
	return s.sendCode(ctx, StepInitial)
}

// Resend sends a fresh verification email. Valid only at StepAwaitingCode
// and only once the previous countdown has expired; the countdown re-arms at
// sixty regardless of what was left. The prior step token is replaced.
func (s *Session) Resend(ctx context.Context) error {
	s.mu.Lock()
	if s.closed || s.inFlight || s.step != StepAwaitingCode || s.timer.Active() {
		s.mu.Unlock()
		return nil
	}
	s.inFlight = true
	s.mu.Unlock()
	return s.sendCode(ctx, StepAwaitingCode)
}

// sendCode performs the send call with inFlight already held and fromStep as
// the step to remain at on failure.
func (s *Session) sendCode(ctx context.Context, fromStep Step) error {
	token, err := s.gateway.SendOwnerEmail(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if s.closed {
		return nil
	}
	if err != nil {
		s.logger.Infow("send verification email failed", "step", fromStep, "error", err)
		s.notifier.Error(notifyMessage(err, msgSendFailed))
		return err
	}
	s.stepToken = token
	s.step = StepAwaitingCode
	s.timer.Arm(ResendSeconds)
	return nil
}

// SubmitCode checks the entered code. Valid only at StepAwaitingCode with a
// non-empty code. A wrong code and an expired challenge are treated alike:
// the session stays at StepAwaitingCode and the user may retry or resend.
func (s *Session) SubmitCode(ctx context.Context, code string) error {
	if code == "" {
		return nil
	}
	if !s.begin(StepAwaitingCode) {
		return nil
	}
	s.mu.Lock()
	stepToken := s.stepToken
	s.mu.Unlock()

	outcome, err := s.gateway.VerifyOwnerEmail(ctx, stepToken, code)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if s.closed {
		return nil
	}
	if err != nil {
		s.logger.Infow("verify code failed", "error", err)
		s.notifier.Error(notifyMessage(err, msgVerifyFailed))
		return err
	}
	if !outcome.IsValid {
		s.notifier.Error(msgVerifyFailed)
		return nil
	}
	s.verifiedToken = outcome.Token
	s.step = StepVerified
	s.timer.Stop()
	return nil
}

// SelectOwner picks the successor. Valid at StepVerified and StepOwnerSelected
// (re-selection). The choice must be a roster member other than the acting
// owner; an invalid choice surfaces a notification and changes nothing.
func (s *Session) SelectOwner(ctx context.Context, memberID string) error {
	s.mu.Lock()
	if s.closed || s.inFlight || (s.step != StepVerified && s.step != StepOwnerSelected) {
		s.mu.Unlock()
		return nil
	}
	s.inFlight = true
	s.mu.Unlock()

	err := s.checkSelection(ctx, memberID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if s.closed {
		return nil
	}
	if err != nil {
		s.notifier.Error(notifyMessage(err, msgTransferFailed))
		return err
	}
	s.selectedOwnerID = memberID
	s.step = StepOwnerSelected
	return nil
}

func (s *Session) checkSelection(ctx context.Context, memberID string) error {
	if memberID == "" {
		return &ValidationError{Message: "no member selected"}
	}
	if memberID == s.actorID {
		return &ValidationError{Message: "cannot transfer ownership to yourself"}
	}
	members, err := s.roster.Members(ctx)
	if err != nil {
		return &NetworkError{Err: err}
	}
	for _, m := range members {
		if m.ID == memberID {
			return nil
		}
	}
	return &ValidationError{Message: "selected member is not in this workspace"}
}

// Submit executes the transfer. Valid only at StepOwnerSelected with both a
// selection and a verified token held; anything else is a no-op with no
// network call. While the call is in flight the session sits at
// StepSubmitting, so a second Submit is a no-op by step-gating. On success
// the session reaches StepDone and the reload hook runs; on failure it
// returns to StepOwnerSelected and the verified token stays usable for retry.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.closed || s.inFlight || s.step != StepOwnerSelected || s.selectedOwnerID == "" || s.verifiedToken == "" {
		s.mu.Unlock()
		return nil
	}
	s.inFlight = true
	s.step = StepSubmitting
	newOwnerID, token := s.selectedOwnerID, s.verifiedToken
	s.mu.Unlock()

	err := s.executor.TransferOwnership(ctx, newOwnerID, token)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if s.closed {
		return nil
	}
	if err != nil {
		s.logger.Infow("transfer failed", "new_owner", newOwnerID, "error", err)
		s.notifier.Error(notifyMessage(err, msgTransferFailed))
		s.step = StepOwnerSelected
		return err
	}
	s.step = StepDone
	s.timer.Stop()
	s.notifier.Success(msgTransferDone)
	if s.reload != nil {
		s.reload()
	}
	return nil
}

// Cancel tears the workflow down from any step: the countdown stops and all
// later calls do nothing. The result of any call still in flight is
// discarded. Safe to call more than once.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.timer.Stop()
}

// Members returns the roster for the owner picker.
func (s *Session) Members(ctx context.Context) ([]Member, error) {
	return s.roster.Members(ctx)
}

// Step returns the current workflow step.
func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// SelectedOwner returns the chosen successor's id, or "".
func (s *Session) SelectedOwner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedOwnerID
}

// Verified reports whether the session holds a transfer token.
func (s *Session) Verified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verifiedToken != ""
}

// ResendRemaining returns the seconds until resend becomes available.
func (s *Session) ResendRemaining() int {
	return s.timer.Remaining()
}

// ResendAvailable reports whether a resend may be requested now.
func (s *Session) ResendAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && s.step == StepAwaitingCode && !s.timer.Active()
}

// Closed reports whether Cancel has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// begin acquires the in-flight slot if the session sits at expect.
func (s *Session) begin(expect Step) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.inFlight || s.step != expect {
		return false
	}
	s.inFlight = true
	return true
}
