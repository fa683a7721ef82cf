package rbac

import (
	"sync"
	"time"
)

// Tracker holds, per username, the timestamps of recently granted
// privileged actions. It is shared by every request goroutine and guarded
// internally; callers receive it by injection, there is no package global.
type Tracker struct {
	mu     sync.Mutex
	grants map[string][]time.Time
}

func NewTracker() *Tracker {
	return &Tracker{grants: make(map[string][]time.Time)}
}

// RecordAndCheck purges entries older than window relative to now, then
// reports whether a new grant fits under limit. On a fit, now is appended
// to the history; on a miss, the history is left unmodified.
func (t *Tracker) RecordAndCheck(username string, now time.Time, window time.Duration, limit int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	recent := t.grants[username][:0]
	for _, ts := range t.grants[username] {
		if now.Sub(ts) < window {
			recent = append(recent, ts)
		}
	}

	if len(recent) < limit {
		t.grants[username] = append(recent, now)
		return true
	}
	t.grants[username] = recent
	return false
}
