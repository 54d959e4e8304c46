package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"home-library/internal/logging"
)

// IdleTTL is how long a client's limiter is kept after its last request.
const IdleTTL = time.Hour

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	rate  rate.Limit
	burst int
	now   func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor
}

func NewIPRateLimiter(r rate.Limit, burst int) *IPRateLimiter {
	return &IPRateLimiter{rate: r, burst: burst, now: time.Now, visitors: map[string]*visitor{}}
}

// Limiter returns the bucket for ip, creating it on first use.
func (l *IPRateLimiter) Limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = l.now()
	return v.limiter
}

// Sweep forgets clients idle for longer than IdleTTL and reports how many.
func (l *IPRateLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-IdleTTL)
	n := 0
	for ip, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, ip)
			n++
		}
	}
	return n
}

// DailyQuota caps AI requests across all clients. The count resets at
// midnight Pacific time, when the Gemini free tier resets.
type DailyQuota struct {
	limit int64
	now   func() time.Time

	mu      sync.Mutex
	used    int64
	resetAt time.Time
}

func NewDailyQuota(limit int64) *DailyQuota {
	q := &DailyQuota{limit: limit, now: time.Now}
	q.resetAt = nextMidnightPT(q.now())
	return q
}

// Take consumes one request. When the quota is used up it returns false and
// the time left until the reset.
func (q *DailyQuota) Take() (bool, time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	if !now.Before(q.resetAt) {
		logging.Info().Str("component", "ratelimit").Int64("used", q.used).Msg("daily quota reset")
		q.used = 0
		q.resetAt = nextMidnightPT(now)
	}
	if q.used >= q.limit {
		return false, q.resetAt.Sub(now)
	}
	q.used++
	return true, 0
}

// Remaining is the number of requests left today.
func (q *DailyQuota) Remaining() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return max(q.limit-q.used, 0)
}

func nextMidnightPT(now time.Time) time.Time {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		loc = time.UTC
	}
	t := now.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, loc)
}

// RateLimitMiddleware checks the shared daily quota, then the caller's own
// bucket. Both rejections answer 429 with Retry-After. Either limiter may be nil.
func RateLimitMiddleware(ips *IPRateLimiter, quota *DailyQuota) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.Ctx(c.Request.Context())

		if quota != nil {
			if ok, wait := quota.Take(); !ok {
				secs := ceilSeconds(wait)
				log.Warn().Int("retry_after", secs).Msg("daily ai quota exhausted")
				tooMany(c, secs, "DAILY_QUOTA_EXCEEDED", "The daily AI quota is used up. Please come back tomorrow.")
				return
			}
		}

		if ips != nil {
			ip := c.ClientIP()
			if lim := ips.Limiter(ip); !lim.Allow() {
				r := lim.Reserve()
				secs := ceilSeconds(r.Delay())
				r.Cancel()
				log.Warn().Str("ip", ip).Int("retry_after", secs).Msg("ai rate limit hit")
				tooMany(c, secs, "RATE_LIMITED", "Too many requests. Please slow down.")
				return
			}
		}

		c.Next()
	}
}

func tooMany(c *gin.Context, retryAfter int, code, msg string) {
	c.Header("Retry-After", strconv.Itoa(retryAfter))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":      msg,
		"code":       code,
		"fallback":   true,
		"retryAfter": retryAfter,
	})
}

func ceilSeconds(d time.Duration) int {
	return max(int(math.Ceil(d.Seconds())), 1)
}
