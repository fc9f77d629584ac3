package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"feedreader/internal/domain"
	"feedreader/internal/infra"
	"feedreader/internal/sqlinline"
)

// SettingsRepositoryPG implements domain.SettingsRepository.
type SettingsRepositoryPG struct {
	db infra.SQLExecutor
}

// NewSettingsRepository creates a settings repository backed by PostgreSQL.
func NewSettingsRepository(db infra.SQLExecutor) *SettingsRepositoryPG {
	return &SettingsRepositoryPG{db: db}
}

// Get returns the global settings. A missing row yields the defaults.
func (r *SettingsRepositoryPG) Get(ctx context.Context) (domain.GlobalSettings, error) {
	var s domain.GlobalSettings
	err := r.db.QueryRow(ctx, sqlinline.QSelectGlobalSettings).Scan(&s.RequireEmailVerification)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.GlobalSettings{}, nil
	}
	if err != nil {
		return domain.GlobalSettings{}, translate(err)
	}
	return s, nil
}
