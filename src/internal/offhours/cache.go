// Package offhours remembers that the portal refused logins for the night so
// the periodic check can stay quiet until logins are accepted again.
package offhours

import (
	"sync"
	"time"
)

// The portal operates on China Standard Time.
var cst = time.FixedZone("CST", 8*60*60)

const (
	// Logins may be refused between windowStart and windowEnd.
	windowStart = 23*time.Hour + 20*time.Minute
	windowEnd   = 6*time.Hour + 20*time.Minute
	// Logins are accepted again from cutoff.
	cutoff = 7*time.Hour + 5*time.Minute

	// MaxSuppression is the longest expiration Set can arm.
	MaxSuppression = 24*time.Hour - windowStart + cutoff
)

// Cache is safe for concurrent use.
type Cache struct {
	mu        sync.Mutex
	now       func() time.Time
	expiresAt *time.Time
}

// New returns an unarmed cache using the wall clock.
func New() *Cache {
	return NewWithClock(time.Now)
}

// NewWithClock returns an unarmed cache reading time from now.
func NewWithClock(now func() time.Time) *Cache {
	return &Cache{now: now}
}

// Set arms the cache until the next cutoff if the current time falls inside the
// off-hours window. Outside the window it does nothing, so a stray refusal
// during the day cannot suppress checks.
func (c *Cache) Set() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().In(cst)
	if !inWindow(now) {
		return
	}
	expires := nextCutoff(now)
	c.expiresAt = &expires
}

// Clear disarms the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expiresAt = nil
}

// Expiration returns how long checks should stay suppressed, or 0 if they should not.
func (c *Cache) Expiration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.expiresAt == nil {
		return 0
	}
	remaining := c.expiresAt.Sub(c.now())
	if remaining <= 0 {
		return 0
	}
	return remaining
}

// ExpiresAt returns the armed deadline, if any.
func (c *Cache) ExpiresAt() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.expiresAt == nil {
		return time.Time{}, false
	}
	return *c.expiresAt, true
}

// minuteOfDay truncates to the minute, so the whole 06:20 minute is still inside the window.
func minuteOfDay(t time.Time) time.Duration {
	h, m, _ := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute
}

func inWindow(t time.Time) bool {
	d := minuteOfDay(t)
	return d >= windowStart || d <= windowEnd
}

func nextCutoff(t time.Time) time.Time {
	y, mo, d := t.Date()
	c := time.Date(y, mo, d, 0, 0, 0, 0, t.Location()).Add(cutoff)
	if !c.After(t) {
		c = c.AddDate(0, 0, 1)
	}
	return c
}
