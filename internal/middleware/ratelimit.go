package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/AnshRaj112/hubmatch-backend/pkg/clientip"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// RateLimitWindow is 120 seconds
	RateLimitWindow = 120 * time.Second
	// RateLimitMaxRequests is the maximum number of requests allowed in the window
	RateLimitMaxRequests = 60
	// RateLimitKeyPrefix is the Redis key prefix for rate limiting
	RateLimitKeyPrefix = "ratelimit:"
	// BlockedIPKeyPrefix is the Redis key prefix for blocked IPs
	BlockedIPKeyPrefix = "blocked_ip:"
	// BlockedIPDuration is how long an IP stays blocked
	BlockedIPDuration = 15 * time.Minute
)

// RedisRateLimiter is a fixed-window per-IP counter shared by every instance.
// An IP that exceeds the window is blocked for BlockFor. Redis errors let
// the request through.
type RedisRateLimiter struct {
	Client     *redis.Client
	Window     time.Duration
	Max        int
	BlockFor   time.Duration
	TrustProxy bool
	Logger     *zap.Logger
}

func NewRedisRateLimiter(client *redis.Client, trustProxy bool, logger *zap.Logger) *RedisRateLimiter {
	return &RedisRateLimiter{
		Client:     client,
		Window:     RateLimitWindow,
		Max:        RateLimitMaxRequests,
		BlockFor:   BlockedIPDuration,
		TrustProxy: trustProxy,
		Logger:     logger,
	}
}

func (l *RedisRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ip := clientip.RealClientIP(r, l.TrustProxy)

		blockedKey := BlockedIPKeyPrefix + ip
		isBlocked, err := l.Client.Exists(ctx, blockedKey).Result()
		if err == nil && isBlocked > 0 {
			writeError(w, http.StatusTooManyRequests, "Your IP has been temporarily blocked due to excessive requests. Please try again later.")
			return
		}

		rateLimitKey := RateLimitKeyPrefix + ip
		n, err := l.Client.Incr(ctx, rateLimitKey).Result()
		if err != nil {
			l.Logger.Debug("rate limiter unavailable, allowing request", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		if n == 1 {
			// first hit opens the window
			l.Client.Expire(ctx, rateLimitKey, l.Window)
		}

		count := int(n)
		if count > l.Max {
			if err := l.Client.Set(ctx, blockedKey, "1", l.BlockFor).Err(); err != nil {
				l.Logger.Warn("failed to block ip", zap.String("ip", ip), zap.Error(err))
			}
			w.Header().Set("Retry-After", strconv.Itoa(int(l.BlockFor.Seconds())))
			writeError(w, http.StatusTooManyRequests,
				fmt.Sprintf("Rate limit exceeded. Try again in %d seconds.", int(l.BlockFor.Seconds())))
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.Max))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(l.Max-count))

		next.ServeHTTP(w, r)
	})
}
