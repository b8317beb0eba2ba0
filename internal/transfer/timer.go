package transfer

import (
	"sync"
	"time"
)

// ResendSeconds is the countdown armed after every successful code send.
const ResendSeconds = 60

// ResendTimer is a cancellable one-per-second countdown. While active the
// resend action is unavailable; reaching zero deactivates the timer and is
// the sole point resend opens up again. At most one countdown runs at a time;
// arming replaces any countdown in progress.
type ResendTimer struct {
	mu        sync.Mutex
	remaining int
	active    bool
	cancel    chan struct{}
	interval  time.Duration
}

// NewResendTimer returns an unarmed timer. interval is the tick period; pass
// 0 for the production one-second tick.
func NewResendTimer(interval time.Duration) *ResendTimer {
	if interval <= 0 {
		interval = time.Second
	}
	return &ResendTimer{interval: interval}
}

// Arm starts a countdown from seconds, replacing any countdown in progress.
func (t *ResendTimer) Arm(seconds int) {
	t.mu.Lock()
	if t.cancel != nil {
		close(t.cancel)
		t.cancel = nil
	}
	t.remaining = seconds
	t.active = seconds > 0
	if !t.active {
		t.mu.Unlock()
		return
	}
	cancel := make(chan struct{})
	t.cancel = cancel
	t.mu.Unlock()

	go t.run(cancel)
}

func (t *ResendTimer) run(cancel chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-cancel:
			return
		case <-ticker.C:
			t.mu.Lock()
			if t.cancel != cancel {
				// replaced by a newer countdown
				t.mu.Unlock()
				return
			}
			t.remaining--
			if t.remaining <= 0 {
				t.remaining = 0
				t.active = false
				t.cancel = nil
				t.mu.Unlock()
				return
			}
			t.mu.Unlock()
		}
	}
}

// Stop cancels the countdown. Safe to call when unarmed or already stopped.
func (t *ResendTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		close(t.cancel)
		t.cancel = nil
	}
	t.active = false
	t.remaining = 0
}

// Remaining returns the seconds left in the countdown.
func (t *ResendTimer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Active reports whether a countdown is running.
func (t *ResendTimer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}
