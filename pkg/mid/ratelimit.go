package mid

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// LimiterRegistry hands out a token bucket per client key. It is injected
// into the middleware rather than living in a package-level variable, so
// tests can construct an isolated registry and Reset gives deterministic
// starting conditions.
type LimiterRegistry struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

// NewLimiterRegistry creates a registry allowing r events/second with the
// given burst per client.
func NewLimiterRegistry(r rate.Limit, burst int) *LimiterRegistry {
	return &LimiterRegistry{
		limiters: make(map[string]*rate.Limiter),
		rate:     r,
		burst:    burst,
	}
}

// Allow reports whether the client identified by key may proceed.
func (l *LimiterRegistry) Allow(key string) bool {
	l.mu.Lock()
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.rate, l.burst)
		l.limiters[key] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

// Reset drops all per-client state, restoring full burst for everyone.
func (l *LimiterRegistry) Reset() {
	l.mu.Lock()
	l.limiters = make(map[string]*rate.Limiter)
	l.mu.Unlock()
}

// clientKey identifies a client by IP, ignoring the ephemeral port.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit returns middleware rejecting requests over the per-client
// limit with 429.
func RateLimit(reg *LimiterRegistry) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !reg.Allow(clientKey(r)) {
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
