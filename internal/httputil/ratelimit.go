package httputil

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// KeyedLimiter holds one token bucket per key and evicts buckets that have been idle for an hour.
type KeyedLimiter struct {
	limiters sync.Map // map[string]*limiterEntry
	limit    rate.Limit
	burst    int
}

// limiterEntry holds a rate limiter and last access time for cleanup.
type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
	mu         sync.Mutex
}

// NewKeyedLimiter creates a KeyedLimiter. The cleanup goroutine runs until ctx is done.
func NewKeyedLimiter(ctx context.Context, limit rate.Limit, burst int) *KeyedLimiter {
	k := &KeyedLimiter{
		limit: limit,
		burst: burst,
	}
	go k.cleanupStale(ctx, 5*time.Minute, time.Hour)
	return k
}

// Allow reports whether a request for key may proceed. When it may not, the returned duration
// is how long the caller should wait before retrying.
func (k *KeyedLimiter) Allow(key string) (bool, time.Duration) {
	limiter := k.get(key)
	if limiter.Allow() {
		return true, 0
	}

	reservation := limiter.Reserve()
	delay := reservation.Delay()
	reservation.Cancel()
	return false, delay
}

func (k *KeyedLimiter) get(key string) *rate.Limiter {
	if val, ok := k.limiters.Load(key); ok {
		entry := val.(*limiterEntry)
		entry.mu.Lock()
		entry.lastAccess = time.Now()
		entry.mu.Unlock()
		return entry.limiter
	}

	entry := &limiterEntry{
		limiter:    rate.NewLimiter(k.limit, k.burst),
		lastAccess: time.Now(),
	}
	actual, _ := k.limiters.LoadOrStore(key, entry)
	return actual.(*limiterEntry).limiter
}

// cleanupStale removes limiters that have not been used within idle.
func (k *KeyedLimiter) cleanupStale(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			k.evictIdle(time.Now().Add(-idle))
		}
	}
}

func (k *KeyedLimiter) evictIdle(threshold time.Time) {
	k.limiters.Range(func(key, value any) bool {
		entry := value.(*limiterEntry)
		entry.mu.Lock()
		shouldDelete := entry.lastAccess.Before(threshold)
		entry.mu.Unlock()

		if shouldDelete {
			k.limiters.Delete(key)
		}
		return true
	})
}

// AbortTooManyRequests writes a 429 response with a Retry-After header rounded up to whole seconds.
func AbortTooManyRequests(c *gin.Context, retryAfter time.Duration) {
	seconds := int((retryAfter + time.Second - 1) / time.Second)
	if seconds < 1 {
		seconds = 1
	}

	c.Header("Retry-After", strconv.Itoa(seconds))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
		Error:   "rate_limit_exceeded",
		Message: "Too many requests. Please retry after the specified delay.",
	})
}
