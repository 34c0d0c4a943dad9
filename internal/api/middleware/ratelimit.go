package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/darmiel/checkin/internal/api/presenter"
)

// maxTrackedClients bounds the limiter map; it is reset once exceeded.
const maxTrackedClients = 10_000

// RateLimiter keeps one token bucket per client address.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewRateLimiter allows each client requestsPerSecond with the given burst.
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

func (l *RateLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, ok := l.limiters[key]; ok {
		return limiter
	}
	if len(l.limiters) >= maxTrackedClients {
		l.limiters = make(map[string]*rate.Limiter)
	}
	limiter := rate.NewLimiter(l.limit, l.burst)
	l.limiters[key] = limiter
	return limiter
}

// Allow reports whether a request from key may proceed now.
func (l *RateLimiter) Allow(key string) bool {
	return l.get(key).Allow()
}

// Middleware rejects requests over the client's budget with 429.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	retryAfter := "1"
	if l.limit > 0 && l.limit < 1 {
		retryAfter = strconv.Itoa(int(math.Ceil(1 / float64(l.limit))))
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)
		if !l.Allow(key) {
			log.Ctx(r.Context()).Warn().Str("client", key).Msg("rate limit exceeded")
			w.Header().Set("Retry-After", retryAfter)
			presenter.Error(w, r, "too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
