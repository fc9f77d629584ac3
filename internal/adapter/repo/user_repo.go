package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"feedreader/internal/domain"
	"feedreader/internal/infra"
	"feedreader/internal/sqlinline"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	db infra.SQLExecutor
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(db infra.SQLExecutor) *UserRepositoryPG {
	return &UserRepositoryPG{db: db}
}

// GetByID fetches a user by id.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, sqlinline.QSelectUserByID, id))
}

// GetByEmail fetches a user by email, case-insensitively.
func (r *UserRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, sqlinline.QSelectUserByEmail, email))
}

// UpdateLastSeenAt moves last_seen_at forward. Older timestamps are ignored.
func (r *UserRepositoryPG) UpdateLastSeenAt(ctx context.Context, id int64, at time.Time) error {
	if _, err := r.db.Exec(ctx, sqlinline.QUpdateUserLastSeen, id, at.UTC()); err != nil {
		return fmt.Errorf("update last seen: %w", err)
	}
	return nil
}

// UpdateAccount applies the non-nil fields of u to the stored user.
func (r *UserRepositoryPG) UpdateAccount(ctx context.Context, id int64, u domain.AccountUpdate) (*domain.User, error) {
	var plan *string
	if u.Plan != nil {
		p := string(*u.Plan)
		plan = &p
	}
	return scanUser(r.db.QueryRow(ctx, sqlinline.QUpdateUserAccount, id, plan, u.Banned, u.EmailVerified))
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u          domain.User
		role, plan string
	)
	if err := row.Scan(&u.ID, &u.Email, &role, &plan, &u.Banned, &u.EmailVerified, &u.LastSeenAt, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	u.Role = domain.UserRole(role)
	u.Plan = domain.UserPlan(plan)
	return &u, nil
}
