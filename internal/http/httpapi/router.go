package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"feedreader/internal/authz"
	"feedreader/internal/domain"
	"feedreader/internal/http/handlers"
	"feedreader/internal/limiter"
	"feedreader/internal/middleware"
	"feedreader/internal/session"
)

// Deps wires the router.
type Deps struct {
	App              *handlers.App
	Pipeline         *authz.Pipeline
	Sessions         session.Resolver
	PublicLimiter    limiter.Store
	PublicRatePerMin int
	CORSOrigins      []string
	Logger           zerolog.Logger
}

// NewRouter mounts every route behind the admission chain it needs. Chains
// come from the pipeline and are built once, here, at startup.
func NewRouter(d Deps) http.Handler {
	app, p := d.App, d.Pipeline

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.CORS(d.CORSOrigins),
		middleware.Session(d.Sessions, d.Logger),
		middleware.Logger(d.Logger),
	)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(d.PublicLimiter, d.PublicRatePerMin, d.Logger))
		r.Use(middleware.Admit(p.Public()))
		r.Get("/v1/healthz", app.Health)
		r.Get("/v1/openapi.json", app.OpenAPIJSON)
		r.Get("/v1/docs", app.OpenAPIDocs)
	})

	r.With(middleware.Admit(p.WithAuth())).Get("/v1/me", app.Me)
	r.With(middleware.Admit(p.WithAuthSkipVerification())).Post("/v1/auth/resend-verification", app.ResendVerification)
	r.With(middleware.Admit(p.WithRateLimit())).Get("/v1/feeds/poll", app.PollFeeds)

	sources := p.WithQuota(domain.ResourceSources).With("sources", p.RateGuard())
	r.With(middleware.Admit(sources)).Post("/v1/sources", app.CreateSource)
	r.With(middleware.Admit(p.WithQuota(domain.ResourceCategories))).Post("/v1/categories", app.CreateCategory)
	r.With(middleware.Admit(p.WithQuota(domain.ResourcePublicFeeds))).Post("/v1/public-feeds", app.CreatePublicFeed)

	r.Route("/v1/admin", func(r chi.Router) {
		r.Use(middleware.Admit(p.WithAdmin()))
		r.Get("/blocked-domains", app.ListBlockedDomains)
		r.Post("/blocked-domains", app.AddBlockedDomain)
		r.Post("/blocked-domains/check", app.CheckBlockedDomain)
		r.Delete("/blocked-domains/{domain}", app.DeleteBlockedDomain)
	})

	return r
}
