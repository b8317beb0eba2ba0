package transfer

import (
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestResendTimerCountsToZero(t *testing.T) {
	timer := NewResendTimer(time.Millisecond)
	timer.Arm(5)

	if !timer.Active() {
		t.Fatal("timer should be active after arming")
	}
	if got := timer.Remaining(); got != 5 {
		t.Fatalf("remaining = %d right after arming, want 5", got)
	}

	waitFor(t, 2*time.Second, func() bool { return !timer.Active() })

	if got := timer.Remaining(); got != 0 {
		t.Fatalf("remaining = %d after expiry, want 0", got)
	}
	if timer.Active() {
		t.Fatal("timer must stay inactive after reaching zero")
	}
}

func TestResendTimerStop(t *testing.T) {
	timer := NewResendTimer(10 * time.Millisecond)
	timer.Arm(60)
	timer.Stop()

	if timer.Active() {
		t.Fatal("timer should be inactive after Stop")
	}
	if got := timer.Remaining(); got != 0 {
		t.Fatalf("remaining = %d after Stop, want 0", got)
	}
	// idempotent
	timer.Stop()
}

func TestResendTimerRearmReplacesCountdown(t *testing.T) {
	timer := NewResendTimer(time.Millisecond)
	timer.Arm(3)
	timer.Arm(1000)

	if got := timer.Remaining(); got < 900 {
		t.Fatalf("remaining = %d after re-arm, want close to 1000", got)
	}
	if !timer.Active() {
		t.Fatal("timer should be active after re-arm")
	}
	timer.Stop()
}

func TestResendTimerArmZeroStaysInactive(t *testing.T) {
	timer := NewResendTimer(time.Millisecond)
	timer.Arm(0)

	if timer.Active() {
		t.Fatal("arming with zero seconds must not activate the timer")
	}
}
