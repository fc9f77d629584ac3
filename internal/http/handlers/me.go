package handlers

import (
	"net/http"
	"time"

	"feedreader/internal/domain"
)

type quotaDTO struct {
	APIRateLimitPerMinute int `json:"api_rate_limit_per_minute"`
	Sources               int `json:"sources"`
	PublicFeeds           int `json:"public_feeds"`
	Categories            int `json:"categories"`
}

type userProfileDTO struct {
	ID            int64      `json:"id"`
	Email         string     `json:"email"`
	Role          string     `json:"role"`
	Plan          string     `json:"plan"`
	EmailVerified bool       `json:"email_verified"`
	LastSeenAt    *time.Time `json:"last_seen_at,omitempty"`
	Quota         quotaDTO   `json:"quota"`
}

func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	u := a.currentUser(r)
	if u == nil {
		a.error(w, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
		return
	}
	q := domain.QuotaForPlan(u.Plan)
	a.json(w, http.StatusOK, userProfileDTO{
		ID:            u.ID,
		Email:         u.Email,
		Role:          string(u.Role),
		Plan:          string(u.Plan),
		EmailVerified: u.EmailVerified,
		LastSeenAt:    u.LastSeenAt,
		Quota: quotaDTO{
			APIRateLimitPerMinute: q.APIRateLimitPerMinute,
			Sources:               q.ResourceLimits.Sources,
			PublicFeeds:           q.ResourceLimits.PublicFeeds,
			Categories:            q.ResourceLimits.Categories,
		},
	})
}

// ResendVerification is reachable by unverified users. Mail delivery is
// handled outside this service; the request is only acknowledged.
func (a *App) ResendVerification(w http.ResponseWriter, r *http.Request) {
	u := a.currentUser(r)
	if u == nil {
		a.error(w, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
		return
	}
	if u.EmailVerified {
		a.json(w, http.StatusOK, map[string]string{"status": "already_verified"})
		return
	}
	a.Logger.Info().Int64("user_id", u.ID).Msg("verification email requested")
	a.json(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
