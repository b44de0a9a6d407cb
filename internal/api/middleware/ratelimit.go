package middleware

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	apperrors "github.com/yachtdrop/backend/pkg/errors"
)

// RateLimiter is a per-client sliding-window limiter held in process memory.
// Limits are per instance; behind a load balancer each replica enforces its
// own window, which is acceptable for abuse protection.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	clients map[string][]time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window per
// client IP
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		clients: make(map[string][]time.Time),
	}
}

// SetClock overrides the time source, used by tests to control the window
func (rl *RateLimiter) SetClock(now func() time.Time) {
	rl.now = now
}

// Allow records a request for the client and reports whether it is within
// the limit. The second return is the seconds until the window frees up,
// for the Retry-After header.
func (rl *RateLimiter) Allow(clientIP string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)

	recent := rl.clients[clientIP][:0]
	for _, t := range rl.clients[clientIP] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= rl.limit {
		rl.clients[clientIP] = recent
		retryAfter := int(recent[0].Sub(cutoff).Seconds()) + 1
		return false, retryAfter
	}

	rl.clients[clientIP] = append(recent, now)

	// Opportunistic pruning keeps the map from growing with one-off clients.
	if len(rl.clients) > 10000 {
		for ip, times := range rl.clients {
			if len(times) == 0 || !times[len(times)-1].After(cutoff) {
				delete(rl.clients, ip)
			}
		}
	}

	return true, 0
}

// Middleware rejects clients over the limit with 429 and a Retry-After header
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, retryAfter := rl.Allow(clientIP(r))
		if !allowed {
			appErr := apperrors.NewRateLimitedError("rate limit exceeded, slow down")
			w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{"error": appErr.Message})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP resolves the caller's address, trusting proxy headers when present
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// First entry is the originating client.
		if idx := strings.Index(forwarded, ","); idx >= 0 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return strings.TrimSpace(forwarded)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
