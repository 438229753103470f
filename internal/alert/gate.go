// Package alert gates HIGH-risk notifications behind a cooldown window so a
// flapping sensor cannot trigger an SMS storm.
package alert

import (
	"sync"
	"time"
)

// DefaultCooldown is the minimum interval between two granted alerts.
const DefaultCooldown = 10 * time.Minute

// Gate is the process-wide cooldown gate. One instance is shared by every
// ingestion path; callers that fail to acquire simply do not alert for that
// event, there is no queuing or retry.
type Gate struct {
	mu        sync.Mutex
	cooldown  time.Duration
	lastGrant time.Time
}

// NewGate creates a gate in the armed state (the first acquisition always
// succeeds). A cooldown of zero or less falls back to DefaultCooldown.
func NewGate(cooldown time.Duration) *Gate {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Gate{cooldown: cooldown}
}

// TryAcquire reports whether an alert may fire at the given instant, and if
// so records the grant. The check and the update are one critical section:
// among concurrent callers inside a cooldown window exactly one wins. The
// window is measured from the previous grant, not from delivery completion,
// so the lock is never held across a send.
func (g *Gate) TryAcquire(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.lastGrant.IsZero() && now.Sub(g.lastGrant) < g.cooldown {
		return false
	}
	g.lastGrant = now
	return true
}
