package middleware

import (
	"net"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"feedreader/internal/limiter"
)

// RateLimit limits anonymous traffic per client IP. Store outages admit the
// request, matching the plan limiter.
func RateLimit(store limiter.Store, limitPerMinute int, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIPForRateLimit(r)
			res, err := store.Consume(r.Context(), "ip:"+ip, limitPerMinute)
			if err != nil {
				logger.Warn().Err(err).Str("ip", ip).Msg("public rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limitPerMinute))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			if !res.Allowed {
				w.Header().Set("Retry-After", "60")
				WriteError(w, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "rate limit exceeded: "+strconv.Itoa(limitPerMinute)+" requests per minute")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIPForRateLimit keys on the connection address. Proxy headers are
// resolved by chi's RealIP ahead of this middleware, so X-Forwarded-For is
// not read here and a client cannot rotate it to get a fresh bucket.
func clientIPForRateLimit(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && net.ParseIP(host) != nil {
		return host
	}
	return r.RemoteAddr
}
