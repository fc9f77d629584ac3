package handlers

import (
	"errors"
	"net/http"
	"strings"

	"feedreader/internal/domainpolicy"
)

type createSourceRequest struct {
	FeedURL string `json:"feed_url"`
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

type createPublicFeedRequest struct {
	Slug string `json:"slug"`
}

type createdDTO struct {
	ID int64 `json:"id"`
}

// CreateSource runs after the quota and rate guards. The feed host is
// checked against the blocklist here since it depends on the payload.
func (a *App) CreateSource(w http.ResponseWriter, r *http.Request) {
	u := a.currentUser(r)
	var req createSourceRequest
	if !a.decode(w, r, &req) {
		return
	}
	res, err := a.Domains.CheckURL(r.Context(), req.FeedURL, u.Plan)
	if errors.Is(err, domainpolicy.ErrInvalidURL) {
		a.error(w, http.StatusBadRequest, "BAD_REQUEST", "feed_url must be an absolute URL")
		return
	}
	if err != nil {
		a.internal(w, r, err, "check feed domain")
		return
	}
	if res.Blocked {
		msg := "feeds from " + res.Host + " are not allowed"
		if res.Reason != nil && *res.Reason != "" {
			msg += ": " + *res.Reason
		}
		a.error(w, http.StatusForbidden, "FORBIDDEN", msg)
		return
	}
	id, err := a.Resources.CreateSource(r.Context(), u.ID, strings.TrimSpace(req.FeedURL))
	if err != nil {
		a.internal(w, r, err, "create source")
		return
	}
	a.json(w, http.StatusCreated, createdDTO{ID: id})
}

func (a *App) CreateCategory(w http.ResponseWriter, r *http.Request) {
	u := a.currentUser(r)
	var req createCategoryRequest
	if !a.decode(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		a.error(w, http.StatusBadRequest, "BAD_REQUEST", "name is required")
		return
	}
	id, err := a.Resources.CreateCategory(r.Context(), u.ID, name)
	if err != nil {
		a.internal(w, r, err, "create category")
		return
	}
	a.json(w, http.StatusCreated, createdDTO{ID: id})
}

func (a *App) CreatePublicFeed(w http.ResponseWriter, r *http.Request) {
	u := a.currentUser(r)
	var req createPublicFeedRequest
	if !a.decode(w, r, &req) {
		return
	}
	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if slug == "" {
		a.error(w, http.StatusBadRequest, "BAD_REQUEST", "slug is required")
		return
	}
	id, err := a.Resources.CreatePublicFeed(r.Context(), u.ID, slug)
	if err != nil {
		a.internal(w, r, err, "create public feed")
		return
	}
	a.json(w, http.StatusCreated, createdDTO{ID: id})
}
