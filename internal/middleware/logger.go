package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"feedreader/internal/authz"
)

type responseWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// Logger writes one access line per request. Mounted after Session so the
// line carries the admission outcome: the identity and the furthest stage
// the guard chain reached.
func Logger(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)

			ev := l.Info()
			switch {
			case rw.status >= http.StatusInternalServerError:
				ev = l.Error()
			case rw.status == http.StatusTooManyRequests:
				ev = l.Warn()
			}
			ev = ev.Str("request_id", RequestIDFromContext(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rw.status).
				Int("bytes", rw.bytes)
			if req, ok := authz.FromContext(r.Context()); ok {
				if req.Identity != nil {
					ev = ev.Int64("user_id", req.Identity.UserID)
				}
				ev = ev.Stringer("stage", req.Stage())
			}
			ev.Dur("took", time.Since(start)).Msg("request")
		})
	}
}
