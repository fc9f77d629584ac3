package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"feedreader/internal/authz"
	"feedreader/internal/domain"
	"feedreader/internal/domainpolicy"
	"feedreader/internal/middleware"
)

const maxBodyBytes = 64 << 10

// App holds the collaborators shared by the HTTP handlers. Handlers only run
// after their admission chain has admitted the request.
type App struct {
	Resources domain.ResourceRepository
	Blocklist domain.BlockedDomainStore
	Domains   *domainpolicy.Checker
	Checks    map[string]HealthCheck
	Logger    zerolog.Logger
	Now       func() time.Time
}

func NewApp(resources domain.ResourceRepository, blocklist domain.BlockedDomainStore, logger zerolog.Logger) *App {
	return &App{
		Resources: resources,
		Blocklist: blocklist,
		Domains:   domainpolicy.NewChecker(blocklist, logger),
		Checks:    map[string]HealthCheck{},
		Logger:    logger.With().Str("component", "http").Logger(),
		Now:       time.Now,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	middleware.WriteError(w, code, kind, message)
}

func (a *App) internal(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if r.Context().Err() != nil {
		middleware.WriteAdmissionError(w, r.Context().Err())
		return
	}
	a.Logger.Error().Err(err).Str("request_id", middleware.RequestIDFromContext(r.Context())).Msg(msg)
	a.error(w, http.StatusInternalServerError, string(authz.KindInternal), "internal server error")
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		a.error(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload")
		return false
	}
	return true
}

// currentUser returns the user loaded by the admission chain.
func (a *App) currentUser(r *http.Request) *domain.User {
	req, ok := authz.FromContext(r.Context())
	if !ok {
		return nil
	}
	return req.User
}
