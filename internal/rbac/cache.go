package rbac

import (
	"strings"
	"sync"
	"time"

	"cadetboard/internal/models"
)

// RoleCache memoizes roster lookups for a short TTL so that not every
// request costs a remote round trip. Entries expire lazily on read; there
// is no background sweep. A role change in the roster may therefore take up
// to TTL to be observed, which is an accepted trade-off.
type RoleCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]roleEntry
}

type roleEntry struct {
	role       models.Role
	lastSeen   string
	insertedAt time.Time
}

func NewRoleCache(ttl time.Duration) *RoleCache {
	return &RoleCache{ttl: ttl, entries: make(map[string]roleEntry)}
}

// Get returns the cached role for a username, case-insensitively. An entry
// older than the TTL is treated as absent and removed.
func (c *RoleCache) Get(username string, now time.Time) (models.Role, string, bool) {
	key := cacheKey(username)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return models.RoleUnknown, "", false
	}
	if now.Sub(entry.insertedAt) >= c.ttl {
		delete(c.entries, key)
		return models.RoleUnknown, "", false
	}
	return entry.role, entry.lastSeen, true
}

func (c *RoleCache) Put(username string, role models.Role, lastSeen string, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(username)] = roleEntry{role: role, lastSeen: lastSeen, insertedAt: now}
}

func cacheKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
