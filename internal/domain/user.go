package domain

import "time"

// UserRole enumerates supported roles.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// UserPlan enumerates subscription plans.
type UserPlan string

const (
	UserPlanFree       UserPlan = "free"
	UserPlanPro        UserPlan = "pro"
	UserPlanEnterprise UserPlan = "enterprise"
)

// ParsePlan normalizes s and reports whether it names a known plan.
func ParsePlan(s string) (UserPlan, bool) {
	switch p := UserPlan(normalizeToken(s)); p {
	case UserPlanFree, UserPlanPro, UserPlanEnterprise:
		return p, true
	}
	return "", false
}

// Identity is the authenticated principal supplied by the session resolver.
// It lives for one request and is never persisted.
type Identity struct {
	UserID int64
	Role   UserRole
}

// IsAdmin reports whether the session carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == UserRoleAdmin
}

// User is the persisted account record consulted by the admission pipeline.
type User struct {
	ID            int64
	Email         string
	Role          UserRole
	Plan          UserPlan
	Banned        bool
	EmailVerified bool
	LastSeenAt    *time.Time
	CreatedAt     time.Time
}

// IsAdmin reports whether the stored role is admin.
func (u User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// LastSeenStale reports whether LastSeenAt is unset or older than interval.
func (u User) LastSeenStale(now time.Time, interval time.Duration) bool {
	if u.LastSeenAt == nil {
		return true
	}
	return now.Sub(*u.LastSeenAt) >= interval
}
