// Package authz implements the request-scoped admission pipeline that every
// protected operation passes through before business logic runs.
package authz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"feedreader/internal/detach"
	"feedreader/internal/domain"
	"feedreader/internal/limiter"
	"feedreader/internal/telemetry"
)

// DefaultLastSeenInterval throttles last_seen_at writes.
const DefaultLastSeenInterval = 5 * time.Minute

// Config wires the collaborators of a Pipeline.
type Config struct {
	Users     domain.UserRepository
	Resources domain.ResourceRepository
	Settings  domain.SettingsRepository
	// Quotas defaults to PlanCatalog.
	Quotas QuotaProvider
	// RateLimiter defaults to an in-process limiter.
	RateLimiter *RateLimiter
	// Reporter defaults to telemetry.Nop.
	Reporter telemetry.Reporter
	// Detached defaults to a runner bounded by DetachedTimeout that reports
	// failures to Reporter.
	Detached        *detach.Runner
	DetachedTimeout time.Duration
	Logger          zerolog.Logger
	Now             func() time.Time
	// LastSeenInterval defaults to DefaultLastSeenInterval.
	LastSeenInterval time.Duration
	// BypassRateLimit disables the rate guard entirely (tests, load runs).
	BypassRateLimit bool
}

// Pipeline owns the guards and the canonical chains built from them.
type Pipeline struct {
	users            domain.UserRepository
	settings         domain.SettingsRepository
	quotas           QuotaProvider
	quota            *QuotaLimiter
	rate             *RateLimiter
	reporter         telemetry.Reporter
	detached         *detach.Runner
	logger           zerolog.Logger
	now              func() time.Time
	lastSeenInterval time.Duration
	bypassRateLimit  bool

	public      Chain
	auth        Chain
	authSkip    Chain
	admin       Chain
	rateLimited Chain
	quotaChains map[domain.Resource]Chain
}

// NewPipeline builds the pipeline and its canonical chains.
func NewPipeline(cfg Config) *Pipeline {
	p := &Pipeline{
		users:            cfg.Users,
		settings:         cfg.Settings,
		quotas:           cfg.Quotas,
		quota:            NewQuotaLimiter(cfg.Resources),
		rate:             cfg.RateLimiter,
		reporter:         cfg.Reporter,
		detached:         cfg.Detached,
		logger:           cfg.Logger.With().Str("component", "authz").Logger(),
		now:              cfg.Now,
		lastSeenInterval: cfg.LastSeenInterval,
		bypassRateLimit:  cfg.BypassRateLimit,
	}
	if p.quotas == nil {
		p.quotas = PlanCatalog{}
	}
	if p.rate == nil {
		p.rate = NewRateLimiter(limiter.NewMemoryStore(), WithRateLogger(p.logger))
	}
	if p.reporter == nil {
		p.reporter = telemetry.Nop{}
	}
	if p.detached == nil {
		timeout := cfg.DetachedTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		p.detached = detach.NewRunner(timeout, p.detachedFailure)
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.lastSeenInterval <= 0 {
		p.lastSeenInterval = DefaultLastSeenInterval
	}
	p.buildChains()
	return p
}

func (p *Pipeline) buildChains() {
	p.public = NewChain("public", p.rejected)
	p.auth = NewChain("auth", p.rejected,
		p.requireIdentity,
		p.loadUser,
		p.checkBan,
		p.checkVerification,
		p.touchLastSeen,
	)
	p.authSkip = NewChain("auth_skip_verification", p.rejected,
		p.requireIdentity,
		p.loadUser,
		p.checkBan,
		p.skipVerification,
		p.touchLastSeen,
	)
	p.admin = p.auth.With("admin", p.requireAdmin)
	p.rateLimited = p.auth.With("rate_limited", p.checkRate)
	p.quotaChains = make(map[domain.Resource]Chain, len(domain.Resources))
	for _, r := range domain.Resources {
		p.quotaChains[r] = p.auth.With("quota:"+string(r), p.QuotaGuard(r))
	}

	guards := zerolog.Dict()
	for _, c := range p.chains() {
		guards.Int(c.Name(), c.Len())
	}
	p.logger.Debug().Dict("guards", guards).Msg("admission chains built")
}

// chains lists every canonical chain in a stable order.
func (p *Pipeline) chains() []Chain {
	out := []Chain{p.public, p.auth, p.authSkip, p.admin, p.rateLimited}
	for _, r := range domain.Resources {
		out = append(out, p.quotaChains[r])
	}
	return out
}

// Public admits every request.
func (p *Pipeline) Public() Chain { return p.public }

// WithAuth requires a live, unbanned and (when configured) verified account.
func (p *Pipeline) WithAuth() Chain { return p.auth }

// WithAuthSkipVerification is WithAuth without the email verification check,
// for endpoints unverified users must reach.
func (p *Pipeline) WithAuthSkipVerification() Chain { return p.authSkip }

// WithAdmin is WithAuth plus the admin role check.
func (p *Pipeline) WithAdmin() Chain { return p.admin }

// WithRateLimit is WithAuth plus the plan rate limit.
func (p *Pipeline) WithRateLimit() Chain { return p.rateLimited }

// WithQuota is WithAuth plus the quota check for r. It panics for unknown
// resources since routes are declared at startup.
func (p *Pipeline) WithQuota(r domain.Resource) Chain {
	c, ok := p.quotaChains[r]
	if !ok {
		panic(fmt.Sprintf("authz: unknown resource %q", r))
	}
	return c
}

// RateGuard returns the rate-limit guard for composing custom chains.
func (p *Pipeline) RateGuard() Guard { return p.checkRate }

// Detached exposes the runner used for fire-and-forget writes.
func (p *Pipeline) Detached() *detach.Runner { return p.detached }

func (p *Pipeline) requireIdentity(_ context.Context, req *Request) error {
	if req.Identity == nil {
		return unauthenticated(domain.ErrUnauthorized)
	}
	req.advance(StageIdentityResolved)
	return nil
}

func (p *Pipeline) loadUser(ctx context.Context, req *Request) error {
	user, err := p.resolveUser(ctx, req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return unauthenticated(err)
		}
		return fmt.Errorf("load user: %w", err)
	}
	req.User = user
	req.advance(StageUserLoaded)
	return nil
}

func (p *Pipeline) resolveUser(ctx context.Context, req *Request) (*domain.User, error) {
	userID := req.Identity.UserID
	user, err := req.Cache.GetOrFetchUser(func() (*domain.User, error) {
		return p.users.GetByID(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (p *Pipeline) resolveQuota(ctx context.Context, req *Request, user *domain.User) (*domain.QuotaSnapshot, error) {
	q, err := req.Cache.GetOrFetchQuota(func() (*domain.QuotaSnapshot, error) {
		snap, err := p.quotas.QuotaForPlan(ctx, user.Plan)
		if err != nil {
			return nil, err
		}
		return &snap, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load quota: %w", err)
	}
	req.Quota = q
	return q, nil
}

func (p *Pipeline) checkBan(_ context.Context, req *Request) error {
	if req.User.Banned {
		return forbidden("account banned")
	}
	req.advance(StageNotBanned)
	return nil
}

// Admins bypass verification whether the role comes from the session or the
// stored record.
func (p *Pipeline) checkVerification(ctx context.Context, req *Request) error {
	if req.Identity.IsAdmin() || req.User.IsAdmin() {
		req.advance(StageVerified)
		return nil
	}
	if req.User.EmailVerified {
		req.advance(StageVerified)
		return nil
	}
	settings, err := p.settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if settings.RequireEmailVerification {
		return forbidden("email verification required")
	}
	req.advance(StageVerified)
	return nil
}

func (p *Pipeline) skipVerification(_ context.Context, req *Request) error {
	req.advance(StageVerificationSkipped)
	return nil
}

func (p *Pipeline) touchLastSeen(ctx context.Context, req *Request) error {
	now := p.now()
	if req.lastSeenScheduled || !req.User.LastSeenStale(now, p.lastSeenInterval) {
		return nil
	}
	req.lastSeenScheduled = true
	userID := req.User.ID
	p.detached.Go(ctx, "update_last_seen", func(ctx context.Context) error {
		if err := p.users.UpdateLastSeenAt(ctx, userID, now); err != nil {
			return fmt.Errorf("update last_seen_at for user %d: %w", userID, err)
		}
		return nil
	})
	return nil
}

func (p *Pipeline) requireAdmin(_ context.Context, req *Request) error {
	if !req.User.IsAdmin() {
		return forbidden("admin access required")
	}
	req.advance(StageRoleChecked)
	return nil
}

// QuotaGuard rejects the request when the user already holds the plan's
// maximum number of r.
func (p *Pipeline) QuotaGuard(r domain.Resource) Guard {
	return func(ctx context.Context, req *Request) error {
		quota, err := p.resolveQuota(ctx, req, req.User)
		if err != nil {
			return err
		}
		dec, err := p.quota.CheckLimit(ctx, r, req.User.ID, quota.ResourceLimits)
		if err != nil {
			return err
		}
		if !dec.Allowed {
			return quotaExceeded(r, dec.Limit)
		}
		req.advance(StageQuotaChecked)
		return nil
	}
}

// Unauthenticated traffic is not limited here. A deleted account counts as
// unauthenticated when the guard runs without the auth guards before it.
func (p *Pipeline) checkRate(ctx context.Context, req *Request) error {
	if req.Identity == nil || p.bypassRateLimit {
		return nil
	}
	user, err := p.resolveUser(ctx, req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load user: %w", err)
	}
	quota, err := p.resolveQuota(ctx, req, user)
	if err != nil {
		return err
	}
	dec, err := p.rate.CheckAPIRateLimit(ctx, user.ID, user.Plan, quota.APIRateLimitPerMinute)
	if err != nil {
		return fmt.Errorf("check rate limit: %w", err)
	}
	req.RateLimit = &dec
	if !dec.Allowed {
		return tooManyRequests(dec.Limit)
	}
	req.advance(StageRateChecked)
	return nil
}

func (p *Pipeline) rejected(ctx context.Context, chain string, req *Request, err *Error) {
	if err.Kind == KindCanceled {
		return
	}
	ev := p.logger.Debug()
	level := telemetry.LevelDebug
	if err.Kind == KindInternal {
		ev = p.logger.Error()
		level = telemetry.LevelError
	}
	var userID int64
	if req.Identity != nil {
		userID = req.Identity.UserID
	}
	ev.Err(err.Unwrap()).
		Str("chain", chain).
		Str("kind", string(err.Kind)).
		Str("stage", req.Stage().String()).
		Int64("user_id", userID).
		Msg("admission rejected")

	cause := err.Unwrap()
	if cause == nil {
		cause = err
	}
	telemetry.Capture(ctx, p.reporter, cause, telemetry.Event{
		Level: level,
		Tags:  map[string]string{"chain": chain, "kind": string(err.Kind)},
		Extra: map[string]any{"stage": req.Stage().String()},
	})
}

func (p *Pipeline) detachedFailure(ctx context.Context, name string, err error) {
	p.logger.Warn().Err(err).Str("task", name).Msg("detached write failed")
	telemetry.Capture(ctx, p.reporter, err, telemetry.Event{
		Level: telemetry.LevelWarning,
		Tags:  map[string]string{"task": name},
	})
}
