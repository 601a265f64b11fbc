// Package ratelimit caps how many inbound updates each user may send.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter decides whether an update from userID is processed.
type Limiter interface {
	Allow(userID int64) bool
}

// Noop allows everything.
type Noop struct{}

func (Noop) Allow(int64) bool { return true }

// MemoryLimiter applies a token bucket per user and periodically evicts idle entries.
type MemoryLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	mu     sync.Mutex
	byUser map[int64]*entry
	hits   uint64
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMemoryLimiter allows perMinute updates per user per minute, all of which may
// arrive in a burst. Returns nil if perMinute is not positive.
func NewMemoryLimiter(perMinute int) *MemoryLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &MemoryLimiter{
		limit:   rate.Limit(float64(perMinute) / 60),
		burst:   perMinute,
		idleTTL: 10 * time.Minute,
		now:     time.Now,
		byUser:  make(map[int64]*entry),
	}
}

// Allow reports whether one token can be consumed for userID.
func (l *MemoryLimiter) Allow(userID int64) bool {
	if l == nil {
		return true
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.byUser[userID]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.byUser[userID] = e
	}
	e.lastSeen = now
	allowed := e.limiter.AllowN(now, 1)

	l.hits++
	if l.hits%512 == 0 {
		cutoff := now.Add(-l.idleTTL)
		for k, v := range l.byUser {
			if v.lastSeen.Before(cutoff) {
				delete(l.byUser, k)
			}
		}
	}

	return allowed
}
