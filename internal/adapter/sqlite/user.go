package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"feedreader/internal/domain"
)

// UserRepository implements domain.UserRepository and domain.AccountRepository.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, qSelectUserByID, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, qSelectUserByEmail, email))
}

// Create inserts u and returns its id. Role and plan default to user/free.
func (r *UserRepository) Create(ctx context.Context, u domain.User) (int64, error) {
	role, plan := u.Role, u.Plan
	if role == "" {
		role = domain.UserRoleUser
	}
	if plan == "" {
		plan = domain.UserPlanFree
	}
	var lastSeen any
	if u.LastSeenAt != nil {
		lastSeen = u.LastSeenAt.UTC()
	}
	var id int64
	err := r.db.QueryRowContext(ctx, qInsertUser, u.Email, string(role), string(plan), u.Banned, u.EmailVerified, lastSeen).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

// UpdateLastSeenAt moves last_seen_at forward. Older timestamps are ignored.
func (r *UserRepository) UpdateLastSeenAt(ctx context.Context, id int64, at time.Time) error {
	if _, err := r.db.ExecContext(ctx, qUpdateUserLastSeen, at.UTC(), id); err != nil {
		return fmt.Errorf("update last seen: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdateAccount(ctx context.Context, id int64, u domain.AccountUpdate) (*domain.User, error) {
	var plan any
	if u.Plan != nil {
		plan = string(*u.Plan)
	}
	var banned, verified any
	if u.Banned != nil {
		banned = *u.Banned
	}
	if u.EmailVerified != nil {
		verified = *u.EmailVerified
	}
	return scanUser(r.db.QueryRowContext(ctx, qUpdateUserAccount, id, plan, banned, verified))
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var (
		u          domain.User
		role, plan string
		lastSeen   sql.NullTime
	)
	if err := row.Scan(&u.ID, &u.Email, &role, &plan, &u.Banned, &u.EmailVerified, &lastSeen, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, translate(err)
	}
	u.Role = domain.UserRole(role)
	u.Plan = domain.UserPlan(plan)
	if lastSeen.Valid {
		t := lastSeen.Time
		u.LastSeenAt = &t
	}
	return &u, nil
}
