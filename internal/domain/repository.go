package domain

import (
	"context"
	"time"
)

// UserRepository defines access methods for users.
type UserRepository interface {
	// GetByID returns ErrNotFound when no row matches.
	GetByID(ctx context.Context, id int64) (*User, error)
	UpdateLastSeenAt(ctx context.Context, id int64, at time.Time) error
}

// ResourceRepository counts and creates plan-bounded resources.
type ResourceRepository interface {
	CountForUser(ctx context.Context, userID int64, r Resource) (int, error)
	CreateSource(ctx context.Context, userID int64, feedURL string) (int64, error)
	CreateCategory(ctx context.Context, userID int64, name string) (int64, error)
	CreatePublicFeed(ctx context.Context, userID int64, slug string) (int64, error)
}

// BlockedDomainRepository loads the blocklist in bulk.
type BlockedDomainRepository interface {
	List(ctx context.Context) ([]BlockedDomain, error)
}

// SettingsRepository reads instance-wide settings.
type SettingsRepository interface {
	Get(ctx context.Context) (GlobalSettings, error)
}

// BlockedDomainStore is the admin-facing side of the blocklist.
type BlockedDomainStore interface {
	BlockedDomainRepository
	Upsert(ctx context.Context, entry BlockedDomain) error
	// Delete returns ErrNotFound when no entry matches pattern.
	Delete(ctx context.Context, pattern string) error
}

// AccountUpdate lists the account fields to change. Nil fields are kept.
type AccountUpdate struct {
	Plan          *UserPlan
	Banned        *bool
	EmailVerified *bool
}

// Empty reports whether u changes nothing.
func (u AccountUpdate) Empty() bool {
	return u.Plan == nil && u.Banned == nil && u.EmailVerified == nil
}

// AccountRepository is used by operator tooling to look up and update accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateAccount(ctx context.Context, id int64, u AccountUpdate) (*User, error)
}
