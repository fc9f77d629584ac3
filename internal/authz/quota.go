package authz

import (
	"context"
	"fmt"

	"feedreader/internal/domain"
)

// QuotaProvider resolves the quota snapshot for a plan.
type QuotaProvider interface {
	QuotaForPlan(ctx context.Context, plan domain.UserPlan) (domain.QuotaSnapshot, error)
}

// PlanCatalog serves the built-in plan table.
type PlanCatalog struct{}

// QuotaForPlan implements QuotaProvider.
func (PlanCatalog) QuotaForPlan(_ context.Context, plan domain.UserPlan) (domain.QuotaSnapshot, error) {
	return domain.QuotaForPlan(plan), nil
}

// QuotaDecision is the outcome of a resource quota check.
type QuotaDecision struct {
	Allowed bool
	Limit   int
	Current int
}

// QuotaLimiter compares a user's resource usage with the plan ceiling.
//
// The check is a soft limit: two concurrent creations can both pass and
// overshoot the ceiling slightly. No lock is taken across requests.
type QuotaLimiter struct {
	resources domain.ResourceRepository
}

// NewQuotaLimiter builds a QuotaLimiter counting rows through resources.
func NewQuotaLimiter(resources domain.ResourceRepository) *QuotaLimiter {
	return &QuotaLimiter{resources: resources}
}

// CheckLimit reports whether userID may create one more r under limits.
func (q *QuotaLimiter) CheckLimit(ctx context.Context, r domain.Resource, userID int64, limits domain.ResourceLimits) (QuotaDecision, error) {
	if !r.Valid() {
		return QuotaDecision{}, fmt.Errorf("%w: %q", domain.ErrInvalidResource, r)
	}
	limit := limits.For(r)
	current, err := q.resources.CountForUser(ctx, userID, r)
	if err != nil {
		return QuotaDecision{}, fmt.Errorf("count %s: %w", r, err)
	}
	return QuotaDecision{Allowed: current < limit, Limit: limit, Current: current}, nil
}
