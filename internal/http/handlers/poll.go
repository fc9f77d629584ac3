package handlers

import (
	"net/http"
	"time"

	"feedreader/internal/authz"
)

type pollDTO struct {
	PolledAt  time.Time `json:"polled_at"`
	Items     []any     `json:"items"`
	Remaining *int      `json:"rate_limit_remaining,omitempty"`
}

// PollFeeds is the high-frequency endpoint the client calls on an interval.
// Items are served by the feed fetcher; this endpoint only reports admission.
func (a *App) PollFeeds(w http.ResponseWriter, r *http.Request) {
	out := pollDTO{PolledAt: a.Now().UTC(), Items: []any{}}
	if req, ok := authz.FromContext(r.Context()); ok && req.RateLimit != nil && req.RateLimit.Remaining >= 0 {
		remaining := req.RateLimit.Remaining
		out.Remaining = &remaining
	}
	a.json(w, http.StatusOK, out)
}
