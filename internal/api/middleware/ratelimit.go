package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
)

const msgTooManyRequests = "слишком много запросов"

// Лимитеры, не использовавшиеся дольше этого, удаляются
const limiterIdleTTL = 10 * time.Minute

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter token bucket на каждый IP адрес
type IPRateLimiter struct {
	mu       sync.Mutex
	ips      map[string]*ipLimiter
	r        rate.Limit
	b        int
	now      func() time.Time
	lastScan time.Time
}

// NewIPRateLimiter создает лимитер: rps запросов в секунду, всплеск burst
func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*ipLimiter),
		r:   rate.Limit(rps),
		b:   burst,
		now: time.Now,
	}
}

// Allow расходует токен для ip
func (i *IPRateLimiter) Allow(ip string) bool {
	return i.limiter(ip).AllowN(i.now(), 1)
}

func (i *IPRateLimiter) limiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	if now.Sub(i.lastScan) > limiterIdleTTL {
		for key, entry := range i.ips {
			if now.Sub(entry.lastSeen) > limiterIdleTTL {
				delete(i.ips, key)
			}
		}
		i.lastScan = now
	}

	entry, ok := i.ips[ip]
	if !ok {
		entry = &ipLimiter{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// RateLimit отвечает 429, когда IP исчерпал лимит
func RateLimit(limiter *IPRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r)) {
				handlers.RespondError(w, http.StatusTooManyRequests, msgTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
