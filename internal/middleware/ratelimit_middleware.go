package middleware

import (
	"sync"
	"time"
)

const (
	defaultInvalidAttempts = 5
	defaultInvalidWindow   = time.Minute
)

// InvalidAuthRateLimiter counts failed admin authentications per IP inside a
// fixed window.
type InvalidAuthRateLimiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	attempts map[string]*attemptInfo
	lastGC   time.Time
	now      func() time.Time
}

type attemptInfo struct {
	count   int
	firstAt time.Time
}

func NewInvalidAuthRateLimiter(limit int, window time.Duration) *InvalidAuthRateLimiter {
	return &InvalidAuthRateLimiter{
		limit:    limit,
		window:   window,
		attempts: make(map[string]*attemptInfo),
		now:      time.Now,
	}
}

// Allow records a failed attempt for ip and reports whether it is still under
// the limit.
func (r *InvalidAuthRateLimiter) Allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.gc(now)

	info, exists := r.attempts[ip]
	if !exists || now.Sub(info.firstAt) > r.window {
		r.attempts[ip] = &attemptInfo{count: 1, firstAt: now}
		return true
	}
	if info.count >= r.limit {
		return false
	}
	info.count++
	return true
}

// gc drops expired entries at most once per window. Caller holds mu.
func (r *InvalidAuthRateLimiter) gc(now time.Time) {
	if now.Sub(r.lastGC) < r.window {
		return
	}
	r.lastGC = now
	for ip, info := range r.attempts {
		if now.Sub(info.firstAt) > r.window {
			delete(r.attempts, ip)
		}
	}
}
