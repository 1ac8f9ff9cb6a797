package http

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MKhiriev/go-vidtube/internal/config"
	"golang.org/x/time/rate"
)

// visitorIdleFactor times the window is how long an idle client's limiter
// is kept.
const visitorIdleFactor = 3

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipRateLimiter keeps one token bucket per client IP. Requests refill at
// Requests per Window with bursts of Burst. Idle buckets are dropped inline
// at most once per window.
type ipRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor

	limit  rate.Limit
	burst  int
	window time.Duration

	lastSweep time.Time
	now       func() time.Time
}

func newIPRateLimiter(cfg config.RateLimit) *ipRateLimiter {
	limit := rate.Inf
	if cfg.Requests > 0 && cfg.Window > 0 {
		limit = rate.Every(cfg.Window / time.Duration(cfg.Requests))
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &ipRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		burst:    burst,
		window:   cfg.Window,
		now:      time.Now,
	}
}

func (l *ipRateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}

// sweep must be called with mu held.
func (l *ipRateLimiter) sweep(now time.Time) {
	if l.window <= 0 || now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now

	idle := visitorIdleFactor * l.window
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) > idle {
			delete(l.visitors, ip)
		}
	}
}

func (l *ipRateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// withRateLimit answers 429 with a Retry-After hint once the caller's
// bucket is empty.
func (h *Handler) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.limiter.allow(h.proxies.ClientIP(r)) {
			retryAfter := 1
			if h.limiter.limit != rate.Inf && h.limiter.limit > 0 {
				retryAfter = max(1, int(math.Ceil(1/float64(h.limiter.limit))))
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			h.writeError(w, r, ErrTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
