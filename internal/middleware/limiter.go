package middleware

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterTTL             = 30 * time.Minute
)

type limiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

// KeyedLimiter holds one token bucket per key (client IP, user id).
// Buckets idle for longer than limiterTTL are dropped.
type KeyedLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	limit   rate.Limit
	burst   int
}

// NewKeyedLimiter allows one event per every, with bursts of burst. The
// cleanup loop runs until ctx is done.
func NewKeyedLimiter(ctx context.Context, every time.Duration, burst int) *KeyedLimiter {
	l := &KeyedLimiter{
		entries: make(map[string]*limiterEntry),
		limit:   rate.Every(every),
		burst:   burst,
	}
	go l.cleanup(ctx)
	return l
}

// Allow reports whether key may proceed now.
func (l *KeyedLimiter) Allow(key string) bool {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = e
	}
	e.lastUse = time.Now()
	l.mu.Unlock()

	return e.limiter.Allow()
}

func (l *KeyedLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.mu.Lock()
			now := time.Now()
			for key, e := range l.entries {
				if now.Sub(e.lastUse) > limiterTTL {
					delete(l.entries, key)
				}
			}
			l.mu.Unlock()
		}
	}
}
