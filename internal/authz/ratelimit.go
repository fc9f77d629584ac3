package authz

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"feedreader/internal/domain"
	"feedreader/internal/limiter"
)

// RateLimitDecision is the per-request outcome of the API rate check.
type RateLimitDecision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	FailedOpen bool
}

// RateLimiter applies the plan-scaled requests-per-minute budget through an
// external counting store.
//
// When the store reports a retryable outage the request is admitted
// (fail-open), so a limiter outage cannot take the whole API down with it.
// This favours availability over strictness. Set FailClosed to reject
// instead.
type RateLimiter struct {
	store      limiter.Store
	failClosed bool
	logger     zerolog.Logger
}

// RateLimiterOption configures a RateLimiter.
type RateLimiterOption func(*RateLimiter)

// FailClosed makes store outages fail the request instead of admitting it.
func FailClosed(enabled bool) RateLimiterOption {
	return func(r *RateLimiter) { r.failClosed = enabled }
}

// WithRateLogger sets the logger used for fail-open events.
func WithRateLogger(l zerolog.Logger) RateLimiterOption {
	return func(r *RateLimiter) { r.logger = l }
}

// NewRateLimiter wraps store.
func NewRateLimiter(store limiter.Store, opts ...RateLimiterOption) *RateLimiter {
	r := &RateLimiter{store: store, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BucketKey is the plan-scoped bucket identifier for a user.
func BucketKey(plan domain.UserPlan, userID int64) string {
	return "api:" + string(plan) + ":" + strconv.FormatInt(userID, 10)
}

// CheckAPIRateLimit consumes one request from the user's bucket.
func (r *RateLimiter) CheckAPIRateLimit(ctx context.Context, userID int64, plan domain.UserPlan, limitPerMinute int) (RateLimitDecision, error) {
	res, err := r.store.Consume(ctx, BucketKey(plan, userID), limitPerMinute)
	if err != nil {
		if ctx.Err() == nil && limiter.IsRetryable(err) && !r.failClosed {
			r.logger.Warn().Err(err).Int64("user_id", userID).Str("plan", string(plan)).Msg("rate limiter unavailable, admitting request")
			return RateLimitDecision{Allowed: true, Limit: limitPerMinute, Remaining: -1, FailedOpen: true}, nil
		}
		return RateLimitDecision{}, err
	}
	return RateLimitDecision{Allowed: res.Allowed, Limit: limitPerMinute, Remaining: res.Remaining}, nil
}
