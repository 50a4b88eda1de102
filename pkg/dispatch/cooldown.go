package dispatch

import (
	"math"
	"sync"
	"time"
)

// CooldownLedger tracks per-(subject, user) cooldown expiry instants.
// Subjects are command names, or component identifiers prefixed via
// ComponentSubject. Entries are never pruned: an expired entry reads as no
// cooldown and is overwritten on the next Apply.
type CooldownLedger struct {
	mu    sync.Mutex
	until map[string]map[string]time.Time
	now   func() time.Time
}

// NewCooldownLedger returns an empty ledger.
func NewCooldownLedger() *CooldownLedger {
	return &CooldownLedger{
		until: make(map[string]map[string]time.Time),
		now:   time.Now,
	}
}

// ComponentSubject returns the ledger subject key for a component, keeping
// component cooldowns partitioned from same-named commands.
func ComponentSubject(id string) string {
	return "component:" + id
}

// Remaining returns the whole seconds left on an active cooldown, rounded
// up, or 0 when no cooldown is active.
func (l *CooldownLedger) Remaining(subject, user string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.remainingLocked(subject, user)
}

// Apply checks and arms a cooldown as one step under the lock: if a cooldown
// is already active it is reported without touching state, otherwise a new
// expiry of now+d is recorded. d <= 0 disables the cooldown entirely.
func (l *CooldownLedger) Apply(subject, user string, d time.Duration) (active bool, remaining int) {
	if d <= 0 {
		return false, 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if left := l.remainingLocked(subject, user); left > 0 {
		return true, left
	}
	users := l.until[subject]
	if users == nil {
		users = make(map[string]time.Time)
		l.until[subject] = users
	}
	users[user] = l.now().Add(d)
	return false, 0
}

func (l *CooldownLedger) remainingLocked(subject, user string) int {
	users, ok := l.until[subject]
	if !ok {
		return 0
	}
	until, ok := users[user]
	if !ok {
		return 0
	}
	left := until.Sub(l.now())
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Seconds()))
}
