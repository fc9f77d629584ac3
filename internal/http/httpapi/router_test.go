package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedreader/internal/adapter/sqlite"
	"feedreader/internal/authz"
	"feedreader/internal/domain"
	"feedreader/internal/http/handlers"
	"feedreader/internal/limiter"
	"feedreader/internal/session"
)

const secret = "router-test-secret"

var userSeq atomic.Int64

type testServer struct {
	handler  http.Handler
	users    *sqlite.UserRepository
	settings *sqlite.SettingsRepository
	pipeline *authz.Pipeline
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlite.Migrate(ctx, db))

	users := sqlite.NewUserRepository(db)
	resources := sqlite.NewResourceRepository(db)
	blocklist := sqlite.NewBlockedDomainRepository(db)
	settings := sqlite.NewSettingsRepository(db)

	frozen := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return frozen }
	logger := zerolog.Nop()

	pipeline := authz.NewPipeline(authz.Config{
		Users:       users,
		Resources:   resources,
		Settings:    settings,
		RateLimiter: authz.NewRateLimiter(limiter.NewMemoryStore(limiter.WithClock(clock))),
		Logger:      logger,
	})
	t.Cleanup(pipeline.Detached().Wait)

	handler := NewRouter(Deps{
		App:              handlers.NewApp(resources, blocklist, logger),
		Pipeline:         pipeline,
		Sessions:         session.NewJWTResolver(secret),
		PublicLimiter:    limiter.NewMemoryStore(limiter.WithClock(clock)),
		PublicRatePerMin: 1000,
		Logger:           logger,
	})
	return &testServer{handler: handler, users: users, settings: settings, pipeline: pipeline}
}

func (s *testServer) createUser(t *testing.T, u domain.User) (int64, string) {
	t.Helper()
	if u.Email == "" {
		u.Email = "user" + strconv.FormatInt(userSeq.Add(1), 10) + "@example.com"
	}
	id, err := s.users.Create(context.Background(), u)
	require.NoError(t, err)
	token, err := session.SignToken(secret, "", domain.Identity{UserID: id, Role: u.Role}, time.Hour, time.Now())
	require.NoError(t, err)
	return id, token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func verified(role domain.UserRole, plan domain.UserPlan) domain.User {
	return domain.User{Role: role, Plan: plan, EmailVerified: true}
}

func TestHealthIsPublic(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/v1/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestMeRequiresSession(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/v1/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHENTICATED", decodeError(t, rec).Error.Code)

	rec = s.do(t, http.MethodGet, "/v1/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeReturnsProfile(t *testing.T) {
	s := newTestServer(t)
	id, token := s.createUser(t, verified(domain.UserRoleUser, domain.UserPlanPro))

	rec := s.do(t, http.MethodGet, "/v1/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		ID    int64  `json:"id"`
		Plan  string `json:"plan"`
		Quota struct {
			Sources int `json:"sources"`
		} `json:"quota"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, id, body.ID)
	assert.Equal(t, "pro", body.Plan)
	assert.Equal(t, 200, body.Quota.Sources)

	s.pipeline.Detached().Wait()
	u, err := s.users.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.NotNil(t, u.LastSeenAt, "last_seen_at should be recorded")
}

func TestDeletedAccountIsUnauthenticated(t *testing.T) {
	s := newTestServer(t)
	token, err := session.SignToken(secret, "", domain.Identity{UserID: 4242}, time.Hour, time.Now())
	require.NoError(t, err)

	rec := s.do(t, http.MethodGet, "/v1/me", token, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "authentication required", decodeError(t, rec).Error.Message)
}

func TestVerificationFlow(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.settings.SetRequireEmailVerification(context.Background(), true))
	_, token := s.createUser(t, domain.User{Plan: domain.UserPlanFree})

	rec := s.do(t, http.MethodGet, "/v1/me", token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error.Message, "verification")

	rec = s.do(t, http.MethodPost, "/v1/auth/resend-verification", token, nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	_, adminToken := s.createUser(t, domain.User{Role: domain.UserRoleAdmin})
	rec = s.do(t, http.MethodGet, "/v1/me", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBannedUserRejected(t *testing.T) {
	s := newTestServer(t)
	u := verified(domain.UserRoleUser, domain.UserPlanFree)
	u.Banned = true
	_, token := s.createUser(t, u)

	rec := s.do(t, http.MethodPost, "/v1/sources", token, map[string]string{"feed_url": "https://example.com/rss"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "account banned", decodeError(t, rec).Error.Message)

	rec = s.do(t, http.MethodPost, "/v1/auth/resend-verification", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	_, userToken := s.createUser(t, verified(domain.UserRoleUser, domain.UserPlanFree))
	_, adminToken := s.createUser(t, verified(domain.UserRoleAdmin, domain.UserPlanFree))

	rec := s.do(t, http.MethodGet, "/v1/admin/blocked-domains", userToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "admin access required", decodeError(t, rec).Error.Message)

	reason := "spam network"
	rec = s.do(t, http.MethodPost, "/v1/admin/blocked-domains", adminToken, map[string]any{"domain": "*.Spam.test", "reason": reason})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/admin/blocked-domains", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Items []struct {
			Domain string `json:"domain"`
		} `json:"items"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "*.spam.test", list.Items[0].Domain)

	rec = s.do(t, http.MethodPost, "/v1/admin/blocked-domains/check", adminToken, map[string]string{"url": "https://spam.test/feed"})
	require.Equal(t, http.StatusOK, rec.Code)
	var verdict struct {
		Blocked bool    `json:"blocked"`
		Reason  *string `json:"reason"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&verdict))
	assert.True(t, verdict.Blocked)
	require.NotNil(t, verdict.Reason)
	assert.Equal(t, reason, *verdict.Reason)

	rec = s.do(t, http.MethodDelete, "/v1/admin/blocked-domains/*.spam.test", adminToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodDelete, "/v1/admin/blocked-domains/*.spam.test", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSourceQuota(t *testing.T) {
	s := newTestServer(t)
	_, token := s.createUser(t, verified(domain.UserRoleUser, domain.UserPlanFree))

	for i := 0; i < 10; i++ {
		rec := s.do(t, http.MethodPost, "/v1/sources", token, map[string]string{"feed_url": "https://example.com/" + strconv.Itoa(i)})
		require.Equal(t, http.StatusCreated, rec.Code, "source %d: %s", i+1, rec.Body.String())
	}

	rec := s.do(t, http.MethodPost, "/v1/sources", token, map[string]string{"feed_url": "https://example.com/11"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Sources limit reached (10). Upgrade your plan to add more sources.", decodeError(t, rec).Error.Message)
}

func TestPublicFeedQuota(t *testing.T) {
	s := newTestServer(t)
	_, token := s.createUser(t, verified(domain.UserRoleUser, domain.UserPlanFree))

	rec := s.do(t, http.MethodPost, "/v1/public-feeds", token, map[string]string{"slug": "mine"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/public-feeds", token, map[string]string{"slug": "another"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error.Message, "Public Feeds limit reached (1)")
}

func TestSourceBlockedDomain(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.createUser(t, verified(domain.UserRoleAdmin, domain.UserPlanFree))
	_, freeToken := s.createUser(t, verified(domain.UserRoleUser, domain.UserPlanFree))
	_, enterpriseToken := s.createUser(t, verified(domain.UserRoleUser, domain.UserPlanEnterprise))

	rec := s.do(t, http.MethodPost, "/v1/admin/blocked-domains", adminToken, map[string]any{"domain": "example.com", "reason": "scraper farm"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/sources", freeToken, map[string]string{"feed_url": "https://www.blog.example.com/rss"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error.Message, "scraper farm")

	rec = s.do(t, http.MethodPost, "/v1/sources", freeToken, map[string]string{"feed_url": "https://example.org/rss"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/sources", enterpriseToken, map[string]string{"feed_url": "https://blog.example.com/rss"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/sources", freeToken, map[string]string{"feed_url": "not a url"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPollRateLimit(t *testing.T) {
	s := newTestServer(t)
	_, token := s.createUser(t, verified(domain.UserRoleUser, domain.UserPlanFree))

	for i := 0; i < 60; i++ {
		rec := s.do(t, http.MethodGet, "/v1/feeds/poll", token, nil)
		require.Equal(t, http.StatusOK, rec.Code, "poll %d", i+1)
		assert.Equal(t, "60", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := s.do(t, http.MethodGet, "/v1/feeds/poll", token, nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate limit exceeded: 60 requests per minute", decodeError(t, rec).Error.Message)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
}
