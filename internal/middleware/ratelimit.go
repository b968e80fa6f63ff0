package middleware

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter enforces a fixed-window request cap per client IP, counted in
// Redis so the limit holds across replicas. A nil client disables the
// limiter; Redis errors fail open so a cache outage never takes the API down
// with it.
type RateLimiter struct {
	rdb     *redis.Client
	scope   string
	limit   int
	window  time.Duration
	message string
}

func NewRateLimiter(rdb *redis.Client, scope string, limit int, window time.Duration, message string) *RateLimiter {
	return &RateLimiter{rdb: rdb, scope: scope, limit: limit, window: window, message: message}
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	if l.rdb == nil || l.limit <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := fmt.Sprintf("ratelimit:%s:%s", l.scope, clientIP(r))

		count, err := l.rdb.Incr(r.Context(), key).Result()
		if err != nil {
			log.Printf("rate limit (%s): %v", l.scope, err)
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			if err := l.rdb.Expire(r.Context(), key, l.window).Err(); err != nil {
				log.Printf("rate limit expire (%s): %v", l.scope, err)
			}
		}
		if count > int64(l.limit) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": l.message})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP trusts RemoteAddr, which chi's RealIP middleware has already
// rewritten from X-Forwarded-For when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
