package api

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"

	"github.com/nooreldeenmagdy/ai-chat-service/internal/auth"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/config"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/observability"
)

// RateLimiter keeps one token bucket per client. Buckets of clients that
// stay quiet for IdleTTL are evicted.
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	clock   clockwork.Clock
	clients *ttlcache.Cache[string, *rate.Limiter]
}

func NewRateLimiter(cfg config.RateLimitConfig, clock clockwork.Clock) *RateLimiter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	idle := cfg.IdleTTL
	if idle <= 0 {
		idle = 10 * time.Minute
	}
	perMinute := cfg.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 10
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = perMinute
	}
	return &RateLimiter{
		limit: rate.Every(time.Minute / time.Duration(perMinute)),
		burst: burst,
		clock: clock,
		clients: ttlcache.New(
			ttlcache.WithTTL[string, *rate.Limiter](idle),
		),
	}
}

// Start runs the eviction loop until Stop is called.
func (l *RateLimiter) Start() {
	go l.clients.Start()
}

func (l *RateLimiter) Stop() {
	l.clients.Stop()
}

// Allow consumes one token for key. When the bucket is empty it reports how
// long the client should wait.
func (l *RateLimiter) Allow(key string) (bool, time.Duration) {
	item, _ := l.clients.GetOrSet(key, rate.NewLimiter(l.limit, l.burst))
	limiter := item.Value()

	now := l.clock.Now()
	reservation := limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, 0
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, retryAfter := l.Allow(clientKey(r))
		if !allowed {
			observability.IncrementRateLimited(r.Pattern)
			if retryAfter > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			}
			writeError(r.Context(), w, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded", true, nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey prefers the authenticated client and falls back to the remote
// IP. Forwarding headers are not trusted.
func clientKey(r *http.Request) string {
	if identity, ok := auth.IdentityFromContext(r.Context()); ok && identity.ClientID != "" {
		return "client:" + identity.ClientID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + host
}
