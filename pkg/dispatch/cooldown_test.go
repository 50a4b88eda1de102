package dispatch

import (
	"testing"
	"time"
)

// fixedClock lets tests move the ledger's notion of now.
type fixedClock struct {
	at time.Time
}

func (c *fixedClock) now() time.Time          { return c.at }
func (c *fixedClock) advance(d time.Duration) { c.at = c.at.Add(d) }

func newTestLedger() (*CooldownLedger, *fixedClock) {
	clock := &fixedClock{at: time.Unix(1_700_000_000, 0)}
	l := NewCooldownLedger()
	l.now = clock.now
	return l, clock
}

func TestCooldownApplyAndExpiry(t *testing.T) {
	l, clock := newTestLedger()

	if active, _ := l.Apply("cmd", "U1", 5*time.Second); active {
		t.Fatal("first Apply reported an active cooldown")
	}

	clock.advance(2 * time.Second)
	active, remaining := l.Apply("cmd", "U1", 5*time.Second)
	if !active {
		t.Fatal("Apply at t=2s did not report an active cooldown")
	}
	if remaining != 3 {
		t.Errorf("remaining = %d, want 3", remaining)
	}

	clock.advance(3*time.Second + 10*time.Millisecond)
	if active, _ := l.Apply("cmd", "U1", 5*time.Second); active {
		t.Fatal("Apply at t=5.01s still reported an active cooldown")
	}
	// Expired entry was overwritten, so the new cooldown is armed.
	if got := l.Remaining("cmd", "U1"); got != 5 {
		t.Errorf("Remaining after re-arm = %d, want 5", got)
	}
}

func TestCooldownRemainingRoundsUp(t *testing.T) {
	l, clock := newTestLedger()
	l.Apply("cmd", "U1", 5*time.Second)

	clock.advance(4*time.Second + 500*time.Millisecond)
	if got := l.Remaining("cmd", "U1"); got != 1 {
		t.Errorf("Remaining = %d, want 1 (ceil of 0.5s)", got)
	}
}

func TestCooldownUnknownSubject(t *testing.T) {
	l, _ := newTestLedger()
	if got := l.Remaining("never-seen", "U1"); got != 0 {
		t.Errorf("Remaining for unknown subject = %d, want 0", got)
	}
}

func TestCooldownDisabled(t *testing.T) {
	l, _ := newTestLedger()
	for i := 0; i < 3; i++ {
		if active, _ := l.Apply("cmd", "U1", 0); active {
			t.Fatal("zero-duration cooldown reported active")
		}
	}
}

func TestCooldownKeysAreIndependent(t *testing.T) {
	l, _ := newTestLedger()
	l.Apply("cmd", "U1", 10*time.Second)

	if active, _ := l.Apply("cmd", "U2", 10*time.Second); active {
		t.Error("cooldown for U1 leaked to U2")
	}
	if active, _ := l.Apply("other", "U1", 10*time.Second); active {
		t.Error("cooldown for subject cmd leaked to subject other")
	}
	if active, _ := l.Apply(ComponentSubject("cmd"), "U1", 10*time.Second); active {
		t.Error("command cooldown leaked to same-named component subject")
	}
}
