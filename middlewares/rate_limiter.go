package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter allows each client IP at most rate requests per interval,
// counted over a sliding window. IPs with no request inside the window are
// dropped at most once per interval.
type RateLimiter struct {
	rate      int
	interval  time.Duration
	ips       map[string][]time.Time
	lastSweep time.Time
	mu        sync.Mutex
}

func NewRateLimiter(rate int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		rate:     rate,
		interval: interval,
		ips:      make(map[string][]time.Time),
	}
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP(), time.Now()) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"status":  false,
				"message": "Too many requests, please slow down",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(ip string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := now.Add(-rl.interval)
	if now.Sub(rl.lastSweep) >= rl.interval {
		rl.pruneLocked(cutoff)
		rl.lastSweep = now
	}

	valid := make([]time.Time, 0, len(rl.ips[ip])+1)
	for _, t := range rl.ips[ip] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= rl.rate {
		rl.ips[ip] = valid
		return false
	}
	rl.ips[ip] = append(valid, now)
	return true
}

func (rl *RateLimiter) pruneLocked(cutoff time.Time) {
	for ip, hits := range rl.ips {
		if len(hits) == 0 || !hits[len(hits)-1].After(cutoff) {
			delete(rl.ips, ip)
		}
	}
}

// A login bucket idle this long has refilled, so forgetting it changes nothing.
const loginIdleTTL = time.Minute

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type loginLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*ipLimiter
	lastSweep time.Time
}

func newLoginLimiter() *loginLimiter {
	return &loginLimiter{limiters: make(map[string]*ipLimiter)}
}

func (l *loginLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= loginIdleTTL {
		for key, entry := range l.limiters {
			if now.Sub(entry.lastSeen) >= loginIdleTTL {
				delete(l.limiters, key)
			}
		}
		l.lastSweep = now
	}

	entry, ok := l.limiters[ip]
	if !ok {
		entry = &ipLimiter{limiter: rate.NewLimiter(rate.Every(time.Minute/5), 5)}
		l.limiters[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// NewStrictRateLimiter guards login: five attempts per minute per IP.
func NewStrictRateLimiter() gin.HandlerFunc {
	limiter := newLoginLimiter()

	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP(), time.Now()) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"status":  false,
				"message": "Too many login attempts, please wait a moment",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// Throttle caps the whole API at perSecond requests per second. Zero or less
// disables it.
func Throttle(perSecond int) gin.HandlerFunc {
	if perSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := rate.NewLimiter(rate.Limit(perSecond), perSecond)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"status":  false,
				"message": "Server is busy, please retry",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
