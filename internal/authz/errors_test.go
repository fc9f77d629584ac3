package authz

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedreader/internal/domain"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindUnauthenticated, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindTooManyRequests, http.StatusTooManyRequests},
		{KindCanceled, StatusClientClosedRequest},
		{KindInternal, http.StatusInternalServerError},
		{Kind("other"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(string(tc.kind), func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.kind))
		})
	}
}

func TestAsError(t *testing.T) {
	assert.Nil(t, AsError(nil))

	typed := forbidden("nope")
	assert.Same(t, typed, AsError(fmt.Errorf("wrapped: %w", typed)))

	assert.Equal(t, KindCanceled, AsError(fmt.Errorf("query: %w", context.Canceled)).Kind)
	assert.Equal(t, KindCanceled, AsError(context.DeadlineExceeded).Kind)

	raw := errors.New("connection reset by peer")
	ae := AsError(raw)
	assert.Equal(t, KindInternal, ae.Kind)
	assert.Equal(t, "internal server error", ae.Message)
	assert.NotContains(t, ae.Error(), "connection reset")
	assert.ErrorIs(t, ae, raw)
}

func TestQuotaExceededMessage(t *testing.T) {
	err := quotaExceeded(domain.ResourceSources, 10)
	assert.Equal(t, KindForbidden, err.Kind)
	assert.Equal(t, "Sources limit reached (10). Upgrade your plan to add more sources.", err.Message)
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)

	err = quotaExceeded(domain.ResourcePublicFeeds, 1)
	assert.Equal(t, "Public Feeds limit reached (1). Upgrade your plan to add more public feeds.", err.Message)
}

func TestTooManyRequestsMessage(t *testing.T) {
	err := tooManyRequests(60)
	require.Equal(t, KindTooManyRequests, err.Kind)
	assert.Equal(t, http.StatusTooManyRequests, err.Status())
	assert.Contains(t, err.Message, "60")
}
