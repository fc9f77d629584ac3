package middleware

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"feedreader/internal/authz"
	"feedreader/internal/session"
)

// Session resolves the caller once per request and starts its admission
// state. An invalid token is treated as anonymous, so protected routes answer
// 401 while public routes keep working.
func Session(resolver session.Resolver, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := resolver.Resolve(r)
			if err != nil {
				logger.Debug().Err(err).Str("request_id", RequestIDFromContext(r.Context())).Msg("session rejected")
				identity = nil
			}
			ctx := authz.WithRequest(r.Context(), authz.NewRequest(identity))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admit runs chain before the handler. Chains layered on the same request
// share its cache, so the user is loaded once however many chains run.
func Admit(chain authz.Chain) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			req, ok := authz.FromContext(ctx)
			if !ok {
				req = authz.NewRequest(nil)
				ctx = authz.WithRequest(ctx, req)
			}
			err := chain.Run(ctx, req)
			if req.RateLimit != nil {
				setRateHeaders(w, req.RateLimit)
			}
			if err != nil {
				WriteAdmissionError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WriteAdmissionError renders err with its taxonomy kind. Causes are never
// written to the client.
func WriteAdmissionError(w http.ResponseWriter, err error) {
	ae := authz.AsError(err)
	if ae.Kind == authz.KindTooManyRequests {
		w.Header().Set("Retry-After", "60")
	}
	WriteError(w, ae.Status(), string(ae.Kind), ae.Message)
}

func setRateHeaders(w http.ResponseWriter, d *authz.RateLimitDecision) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
	if d.Remaining >= 0 {
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
	}
}
