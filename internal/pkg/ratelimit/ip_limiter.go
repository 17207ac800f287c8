package ratelimit

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const idleLimiterTTL = 10 * time.Minute

// IPLimiter hands out one token bucket per client key. Buckets idle for
// ten minutes are evicted.
type IPLimiter struct {
	limiters *cache.Cache
	mu       sync.Mutex
	rps      rate.Limit
	burst    int
}

// NewIPLimiter creates a limiter allowing rps requests per second with the given burst
func NewIPLimiter(rps float64, burst int) *IPLimiter {
	return &IPLimiter{
		limiters: cache.New(idleLimiterTTL, idleLimiterTTL),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

// Allow reports whether a request from key may proceed now
func (l *IPLimiter) Allow(key string) bool {
	return l.limiterFor(key).Allow()
}

func (l *IPLimiter) limiterFor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, ok := l.limiters.Get(key); ok {
		limiter := v.(*rate.Limiter)
		l.limiters.SetDefault(key, limiter)
		return limiter
	}

	limiter := rate.NewLimiter(l.rps, l.burst)
	l.limiters.SetDefault(key, limiter)
	return limiter
}
