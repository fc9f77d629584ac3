package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"feedreader/internal/domain"
	"feedreader/internal/domainpolicy"
)

type blockedDomainDTO struct {
	Domain string  `json:"domain"`
	Reason *string `json:"reason"`
}

type addBlockedDomainRequest struct {
	Domain string  `json:"domain"`
	Reason *string `json:"reason"`
}

type checkDomainRequest struct {
	URL  string `json:"url"`
	Plan string `json:"plan"`
}

type checkDomainDTO struct {
	Host    string  `json:"host"`
	Blocked bool    `json:"blocked"`
	Reason  *string `json:"reason"`
}

func (a *App) ListBlockedDomains(w http.ResponseWriter, r *http.Request) {
	entries, err := a.Domains.List(r.Context())
	if err != nil {
		a.internal(w, r, err, "list blocked domains")
		return
	}
	items := make([]blockedDomainDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, blockedDomainDTO{Domain: e.Domain, Reason: e.Reason})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) AddBlockedDomain(w http.ResponseWriter, r *http.Request) {
	var req addBlockedDomainRequest
	if !a.decode(w, r, &req) {
		return
	}
	pattern := domainpolicy.NormalizeDomain(req.Domain)
	if !domainpolicy.ValidPattern(pattern) {
		a.error(w, http.StatusBadRequest, "BAD_REQUEST", "domain must be a hostname or *.suffix pattern")
		return
	}
	entry := domain.BlockedDomain{Domain: pattern, Reason: req.Reason}
	if err := a.Blocklist.Upsert(r.Context(), entry); err != nil {
		a.internal(w, r, err, "add blocked domain")
		return
	}
	a.json(w, http.StatusCreated, blockedDomainDTO{Domain: entry.Domain, Reason: entry.Reason})
}

func (a *App) DeleteBlockedDomain(w http.ResponseWriter, r *http.Request) {
	pattern := domainpolicy.NormalizeDomain(chi.URLParam(r, "domain"))
	err := a.Blocklist.Delete(r.Context(), pattern)
	if errors.Is(err, domain.ErrNotFound) {
		a.error(w, http.StatusNotFound, "NOT_FOUND", "blocked domain not found")
		return
	}
	if err != nil {
		a.internal(w, r, err, "delete blocked domain")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CheckBlockedDomain evaluates a URL as a user on the given plan would see it.
func (a *App) CheckBlockedDomain(w http.ResponseWriter, r *http.Request) {
	var req checkDomainRequest
	if !a.decode(w, r, &req) {
		return
	}
	var plan domain.UserPlan
	if strings.TrimSpace(req.Plan) != "" {
		p, ok := domain.ParsePlan(req.Plan)
		if !ok {
			a.error(w, http.StatusBadRequest, "BAD_REQUEST", "unsupported plan")
			return
		}
		plan = p
	}
	res, err := a.Domains.CheckURL(r.Context(), req.URL, plan)
	if errors.Is(err, domainpolicy.ErrInvalidURL) {
		a.error(w, http.StatusBadRequest, "BAD_REQUEST", "url must be an absolute URL")
		return
	}
	if err != nil {
		a.internal(w, r, err, "check blocked domain")
		return
	}
	a.json(w, http.StatusOK, checkDomainDTO{Host: res.Host, Blocked: res.Blocked, Reason: res.Reason})
}
