// Package adapter opens the repositories for the configured database driver.
package adapter

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"feedreader/internal/adapter/repo"
	"feedreader/internal/adapter/sqlite"
	"feedreader/internal/domain"
	"feedreader/internal/infra"
)

// UserStore is the union of the user-facing and operator-facing user methods.
type UserStore interface {
	domain.UserRepository
	domain.AccountRepository
}

// Repositories groups the stores of one database.
type Repositories struct {
	Users     UserStore
	Resources domain.ResourceRepository
	Blocklist domain.BlockedDomainStore
	Settings  domain.SettingsRepository

	ping  func(context.Context) error
	close func()
}

// Ping checks that the database answers.
func (r *Repositories) Ping(ctx context.Context) error {
	if r.ping == nil {
		return nil
	}
	return r.ping(ctx)
}

// Close releases the underlying connections.
func (r *Repositories) Close() {
	if r.close != nil {
		r.close()
	}
}

// Open connects to the database selected by cfg.DBDriver and, when
// cfg.DBAutoMigrate is set, creates missing tables.
func Open(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) (*Repositories, error) {
	switch cfg.DBDriver {
	case infra.DBDriverPostgres:
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		runner := infra.NewSQLRunner(pool, logger)
		if cfg.DBAutoMigrate {
			if err := repo.Migrate(ctx, runner); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return &Repositories{
			Users:     repo.NewUserRepository(runner),
			Resources: repo.NewResourceRepository(runner),
			Blocklist: repo.NewBlockedDomainRepository(runner),
			Settings:  repo.NewSettingsRepository(runner),
			ping:      pool.Ping,
			close:     pool.Close,
		}, nil
	case infra.DBDriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if cfg.DBAutoMigrate {
			if err := sqlite.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, err
			}
		}
		return &Repositories{
			Users:     sqlite.NewUserRepository(db),
			Resources: sqlite.NewResourceRepository(db),
			Blocklist: sqlite.NewBlockedDomainRepository(db),
			Settings:  sqlite.NewSettingsRepository(db),
			ping:      db.PingContext,
			close:     func() { _ = db.Close() },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}
