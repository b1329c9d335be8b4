// Package ratelimit provides a token-bucket HTTP rate limiter keyed by
// client IP.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// Config controls a Limiter's per-key token bucket.
type Config struct {
	RequestsPerSecond float64
	Burst             int
}

// DefaultConfig returns a reasonable single-process default.
func DefaultConfig() Config {
	return Config{RequestsPerSecond: 50, Burst: 100}
}

// RateLimiter holds one token bucket per client key (IP address),
// created lazily on first use.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	cfg      Config
}

// New constructs a RateLimiter from cfg, filling in defaults for
// non-positive fields.
func New(cfg Config) *RateLimiter {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 50
	}
	if cfg.Burst <= 0 {
		cfg.Burst = int(cfg.RequestsPerSecond * 2)
	}
	return &RateLimiter{limiters: make(map[string]*rate.Limiter), cfg: cfg}
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	l, ok := rl.limiters[key]
	if !ok {
		l = rate.NewLimiter(rate.Limit(rl.cfg.RequestsPerSecond), rl.cfg.Burst)
		rl.limiters[key] = l
	}
	return l
}

// Allow reports whether a request keyed by key may proceed, consuming
// one token if so.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.limiterFor(key).Allow()
}

// LimiterCount returns the number of distinct keys currently tracked.
func (rl *RateLimiter) LimiterCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// ClientKey extracts the rate-limit key from a request: the first
// X-Forwarded-For hop if present, else RemoteAddr's host part.
func ClientKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
