// Package ratelimit slows down password guessing on the sign-in page.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// pruneAt is the map size above which Allow sweeps expired windows.
const pruneAt = 1024

// Limiter admits at most limit hits per key in each fixed window.
// It is safe for concurrent use and starts no goroutines.
type Limiter struct {
	limit  int
	period time.Duration
	now    func() time.Time

	mu   sync.Mutex
	hits map[string]*bucket
}

type bucket struct {
	n     int
	until time.Time
}

// New returns a Limiter allowing limit hits per key per period.
func New(limit int, period time.Duration) *Limiter {
	return &Limiter{
		limit:  limit,
		period: period,
		now:    time.Now,
		hits:   make(map[string]*bucket),
	}
}

// Allow records a hit for key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.hits) > pruneAt {
		l.prune(now)
	}

	b := l.hits[key]
	if b == nil || !now.Before(b.until) {
		l.hits[key] = &bucket{n: 1, until: now.Add(l.period)}
		return true
	}
	if b.n >= l.limit {
		return false
	}
	b.n++
	return true
}

// Remaining is the number of hits key has left in its current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.hits[key]
	if b == nil || !l.now().Before(b.until) {
		return l.limit
	}
	return max(l.limit-b.n, 0)
}

// Reset forgets key's window.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	delete(l.hits, key)
	l.mu.Unlock()
}

// prune drops expired windows. Callers hold mu.
func (l *Limiter) prune(now time.Time) {
	for k, b := range l.hits {
		if !now.Before(b.until) {
			delete(l.hits, k)
		}
	}
}

// ClientIP is the first X-Forwarded-For entry, then X-Real-IP, then the
// host part of RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// LoginLimiter throttles sign-in attempts per client IP and per username.
type LoginLimiter struct {
	byIP   *Limiter
	byUser *Limiter
}

// NewLoginLimiter allows maxAttempts per username per window, and four times
// that per IP so a shared office connection is not locked out.
func NewLoginLimiter(maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginLimiter{
		byIP:   New(maxAttempts*4, window),
		byUser: New(maxAttempts, window),
	}
}

// Check reports whether a login attempt may proceed, and if not, the
// message to show.
func (ll *LoginLimiter) Check(r *http.Request, username string) (bool, string) {
	if !ll.byIP.Allow(ClientIP(r)) {
		return false, "Bạn đã thử đăng nhập quá nhiều lần. Vui lòng đợi vài phút rồi thử lại."
	}
	if key := userKey(username); key != "" && !ll.byUser.Allow(key) {
		return false, "Tài khoản này đã bị tạm khóa do đăng nhập sai nhiều lần. Vui lòng thử lại sau."
	}
	return true, ""
}

// Succeeded clears the username window after a successful login.
func (ll *LoginLimiter) Succeeded(username string) {
	if key := userKey(username); key != "" {
		ll.byUser.Reset(key)
	}
}

func userKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
