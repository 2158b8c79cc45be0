package httpmw

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"idlepost/internal/identity"
)

// WithRateLimit throttles requests per player (or per client IP when
// no identity is forwarded). Stale limiters are evicted so the map
// does not grow with every player ever seen.
func WithRateLimit(rps rate.Limit, burst int) func(http.Handler) http.Handler {
	lim := &limiterSet{
		rps:     rps,
		burst:   burst,
		entries: map[string]*limiterEntry{},
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !lim.allow(limitKey(r)) {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]any{"error": "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func limitKey(r *http.Request) string {
	if p, ok := identity.FromRequest(r); ok {
		return "player:" + p.ID
	}
	return "ip:" + clientIP(r)
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterSet struct {
	mu      sync.Mutex
	rps     rate.Limit
	burst   int
	entries map[string]*limiterEntry
}

const limiterTTL = 10 * time.Minute

func (s *limiterSet) allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	e, ok := s.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(s.rps, s.burst)}
		s.entries[key] = e
	}
	e.lastSeen = now

	if len(s.entries) > 1024 {
		for k, v := range s.entries {
			if now.Sub(v.lastSeen) > limiterTTL {
				delete(s.entries, k)
			}
		}
	}

	return e.limiter.Allow()
}
