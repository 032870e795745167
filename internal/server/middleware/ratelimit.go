package middleware

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	// RequestsPerSecond is the refill rate of the token bucket.
	RequestsPerSecond float64
	// Burst is the maximum burst size.
	Burst int
	// Enabled controls whether rate limiting is active.
	Enabled bool
}

// RateLimiter is a reloadable token bucket shared by all clients.
type RateLimiter struct {
	mu      sync.RWMutex
	enabled bool
	limiter *rate.Limiter
}

// NewRateLimiter creates a limiter from config.
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	l := &RateLimiter{}
	l.Update(config)
	return l
}

// Update swaps in a new configuration.
func (l *RateLimiter) Update(config RateLimitConfig) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.enabled = config.Enabled
	if config.Enabled {
		l.limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst)
	} else {
		l.limiter = nil
	}
}

// Allow reports whether a request may proceed now.
func (l *RateLimiter) Allow() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if !l.enabled {
		return true
	}
	return l.limiter.Allow()
}

// RateLimit rejects requests once the limiter's bucket is empty.
func RateLimit(limiter *RateLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				rateLimitRejects.Inc()
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
