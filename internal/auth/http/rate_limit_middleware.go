package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	apperrors "github.com/allisson/securevault/internal/errors"
	"github.com/allisson/securevault/internal/httputil"
)

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterIdleTimeout     = time.Hour
)

// limiterStore holds one token bucket per key and forgets idle keys.
type limiterStore[K comparable] struct {
	mu       sync.Mutex
	limiters map[K]*limiterEntry
	rps      float64
	burst    int
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

func newLimiterStore[K comparable](rps float64, burst int) *limiterStore[K] {
	return &limiterStore[K]{
		limiters: make(map[K]*limiterEntry),
		rps:      rps,
		burst:    burst,
	}
}

// getLimiter retrieves or creates the limiter for key.
func (s *limiterStore[K]) getLimiter(key K) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if entry, ok := s.limiters[key]; ok {
		entry.lastAccess = now
		return entry.limiter
	}

	entry := &limiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(s.rps), s.burst),
		lastAccess: now,
	}
	s.limiters[key] = entry
	return entry.limiter
}

// removeIdle drops limiters not used since threshold and returns how many were removed.
func (s *limiterStore[K]) removeIdle(threshold time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.limiters {
		if entry.lastAccess.Before(threshold) {
			delete(s.limiters, key)
			removed++
		}
	}
	return removed
}

func (s *limiterStore[K]) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}

// cleanupStale removes idle limiters every interval until ctx is cancelled.
func (s *limiterStore[K]) cleanupStale(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.removeIdle(time.Now().Add(-idle))
		}
	}
}

// rejectRateLimited writes 429 with a Retry-After header.
func rejectRateLimited(c *gin.Context, limiter *rate.Limiter, message string) int {
	reservation := limiter.Reserve()
	retryAfter := int(reservation.Delay().Seconds())
	reservation.Cancel()
	if retryAfter < 1 {
		retryAfter = 1
	}

	c.Header("Retry-After", strconv.Itoa(retryAfter))
	c.JSON(http.StatusTooManyRequests, gin.H{
		"error":   "rate_limit_exceeded",
		"message": message,
	})
	c.Abort()
	return retryAfter
}

// RateLimitMiddleware enforces a per-user token bucket on authenticated requests.
//
// MUST be used after AuthenticationMiddleware. The stale limiter cleanup runs
// until ctx is cancelled.
//
// Returns 429 Too Many Requests with a Retry-After header when the limit is exceeded.
func RateLimitMiddleware(ctx context.Context, rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := newLimiterStore[uuid.UUID](rps, burst)
	go store.cleanupStale(ctx, limiterCleanupInterval, limiterIdleTimeout)

	return func(c *gin.Context) {
		user, ok := GetUser(c.Request.Context())
		if !ok {
			logger.Error("rate limit middleware: no authenticated user in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		limiter := store.getLimiter(user.ID)
		if !limiter.Allow() {
			retryAfter := rejectRateLimited(c, limiter, "Too many requests. Please retry after the specified delay.")
			logger.Debug("rate limit exceeded",
				slog.String("user_id", user.ID.String()),
				slog.Int("retry_after", retryAfter))
			return
		}

		c.Next()
	}
}

// IPRateLimitMiddleware enforces a per-IP token bucket on the unauthenticated
// register, challenge and login endpoints.
//
// Uses c.ClientIP(), which honours X-Forwarded-For and X-Real-IP from trusted proxies.
func IPRateLimitMiddleware(ctx context.Context, rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := newLimiterStore[string](rps, burst)
	go store.cleanupStale(ctx, limiterCleanupInterval, limiterIdleTimeout)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		limiter := store.getLimiter(clientIP)
		if !limiter.Allow() {
			retryAfter := rejectRateLimited(
				c,
				limiter,
				"Too many authentication requests from this IP. Please retry after the specified delay.",
			)
			logger.Debug("ip rate limit exceeded",
				slog.String("client_ip", clientIP),
				slog.Int("retry_after", retryAfter))
			return
		}

		c.Next()
	}
}
