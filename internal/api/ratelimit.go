// Per-client rate limiting for the observation API.
package api

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Limiter caps requests per client per fixed window.
type Limiter struct {
	mu      sync.Mutex
	seen    map[string]*window
	maxHits int
	span    time.Duration
}

type window struct {
	hits    int
	started time.Time
}

// NewLimiter creates a limiter allowing maxHits requests per span.
func NewLimiter(maxHits int, span time.Duration) *Limiter {
	l := &Limiter{
		seen:    make(map[string]*window),
		maxHits: maxHits,
		span:    span,
	}
	go l.sweep()
	return l
}

// Allow records a hit for the client and reports whether it is still within
// its budget for the current window.
func (l *Limiter) Allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.seen[client]
	if !ok || now.Sub(w.started) >= l.span {
		l.seen[client] = &window{hits: 1, started: now}
		return true
	}
	w.hits++
	return w.hits <= l.maxHits
}

// RetryAfter returns seconds until the client's window resets.
func (l *Limiter) RetryAfter(client string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.seen[client]
	if !ok {
		return 0
	}
	left := l.span - time.Since(w.started)
	if left <= 0 {
		return 0
	}
	return int(left.Seconds()) + 1
}

// sweep periodically drops stale windows.
func (l *Limiter) sweep() {
	for {
		time.Sleep(10 * time.Minute)
		l.mu.Lock()
		now := time.Now()
		for client, w := range l.seen {
			if now.Sub(w.started) > 2*l.span {
				delete(l.seen, client)
			}
		}
		l.mu.Unlock()
	}
}

// Middleware wraps a handler with rate limiting. Returns 429 when exceeded.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := clientAddr(r)
		if !l.Allow(client) {
			w.Header().Set("Retry-After", strconv.Itoa(l.RetryAfter(client)))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientAddr identifies the caller: first X-Forwarded-For hop when proxied,
// otherwise the remote IP without port.
func clientAddr(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i, c := range xff {
			if c == ',' {
				return xff[:i]
			}
		}
		return xff
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
