package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"feedreader/internal/domain"
)

// SettingsRepository implements domain.SettingsRepository.
type SettingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the global settings. A missing row yields the defaults.
func (r *SettingsRepository) Get(ctx context.Context) (domain.GlobalSettings, error) {
	var s domain.GlobalSettings
	err := r.db.QueryRowContext(ctx, qSelectGlobalSettings).Scan(&s.RequireEmailVerification)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.GlobalSettings{}, nil
	}
	if err != nil {
		return domain.GlobalSettings{}, translate(err)
	}
	return s, nil
}

// SetRequireEmailVerification toggles the verification requirement.
func (r *SettingsRepository) SetRequireEmailVerification(ctx context.Context, on bool) error {
	_, err := r.db.ExecContext(ctx, qUpsertGlobalSettings, on)
	return translate(err)
}
