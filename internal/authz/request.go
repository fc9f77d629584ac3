package authz

import (
	"context"

	"feedreader/internal/domain"
)

// Stage is the furthest admission state a request has reached.
type Stage int

const (
	StageAnonymous Stage = iota
	StageIdentityResolved
	StageUserLoaded
	StageNotBanned
	StageVerified
	StageVerificationSkipped
	StageRoleChecked
	StageQuotaChecked
	StageRateChecked
	StageAdmitted
)

var stageNames = [...]string{
	"anonymous",
	"identity_resolved",
	"user_loaded",
	"not_banned",
	"verified",
	"verification_skipped",
	"role_checked",
	"quota_checked",
	"rate_checked",
	"admitted",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// Request is the admission state threaded through a guard chain. It is
// created fresh for every inbound request.
type Request struct {
	Identity  *domain.Identity
	Cache     *RequestCache
	User      *domain.User
	Quota     *domain.QuotaSnapshot
	RateLimit *RateLimitDecision

	stage             Stage
	lastSeenScheduled bool
}

// NewRequest starts admission for identity, which may be nil.
func NewRequest(identity *domain.Identity) *Request {
	return &Request{Identity: identity, Cache: NewRequestCache()}
}

// Stage reports the furthest state reached so far.
func (r *Request) Stage() Stage {
	return r.stage
}

func (r *Request) advance(s Stage) {
	r.stage = s
}

type requestKey struct{}

// WithRequest stores req in ctx for downstream handlers.
func WithRequest(ctx context.Context, req *Request) context.Context {
	return context.WithValue(ctx, requestKey{}, req)
}

// FromContext returns the admission request stored in ctx.
func FromContext(ctx context.Context) (*Request, bool) {
	req, ok := ctx.Value(requestKey{}).(*Request)
	return req, ok && req != nil
}
