package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck probes one dependency. Registered in App.Checks by name.
type HealthCheck func(ctx context.Context) error

// Health reports "ok" when every registered dependency answers, otherwise 503
// with the failing component names. Error details stay in the logs.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(a.Checks))
	for name := range a.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	failing := []string{}
	for _, name := range names {
		if err := a.Checks[name](ctx); err != nil {
			a.Logger.Warn().Err(err).Str("check", name).Msg("health check failed")
			failing = append(failing, name)
		}
	}

	if len(failing) > 0 {
		a.json(w, http.StatusServiceUnavailable, map[string]any{"status": "degraded", "failing": failing})
		return
	}
	a.json(w, http.StatusOK, map[string]any{"status": "ok"})
}
