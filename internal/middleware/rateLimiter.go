package middleware

import (
	"sync"

	"github.com/yotome/rag-assistant/internal/config"
	"golang.org/x/time/rate"
)

var limiterInstance = newIPRateLimiter(rate.Limit(config.RATE_LIMIT_PER_SECOND), config.BURST_RATE_LIMIT_PER_SECOND)

// ipRateLimiter hands out one token bucket per client IP.
type ipRateLimiter struct {
	mu       sync.RWMutex
	visitors map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newIPRateLimiter(r rate.Limit, b int) *ipRateLimiter {
	return &ipRateLimiter{visitors: make(map[string]*rate.Limiter), limit: r, burst: b}
}

func (l *ipRateLimiter) GetLimiter(ip string) *rate.Limiter {
	l.mu.RLock()
	limiter, ok := l.visitors[ip]
	l.mu.RUnlock()
	if ok {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if limiter, ok := l.visitors[ip]; ok {
		return limiter
	}
	limiter = rate.NewLimiter(l.limit, l.burst)
	l.visitors[ip] = limiter
	return limiter
}

//TODO: move the visitor map to redis once this runs on more than one instance
