package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"feedreader/internal/domain"
	"feedreader/internal/infra"
	"feedreader/internal/sqlinline"
)

const pgUndefinedTable = "42P01"

// BlockedDomainRepositoryPG implements domain.BlockedDomainRepository.
type BlockedDomainRepositoryPG struct {
	db infra.SQLExecutor
}

// NewBlockedDomainRepository creates a blocklist repository backed by PostgreSQL.
func NewBlockedDomainRepository(db infra.SQLExecutor) *BlockedDomainRepositoryPG {
	return &BlockedDomainRepositoryPG{db: db}
}

// List returns every entry ordered by domain.
func (r *BlockedDomainRepositoryPG) List(ctx context.Context) ([]domain.BlockedDomain, error) {
	rows, err := r.db.Query(ctx, sqlinline.QSelectBlockedDomains)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var out []domain.BlockedDomain
	for rows.Next() {
		var bd domain.BlockedDomain
		if err := rows.Scan(&bd.Domain, &bd.Reason); err != nil {
			return nil, err
		}
		out = append(out, bd)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// Upsert inserts entry or replaces the reason of an existing one.
func (r *BlockedDomainRepositoryPG) Upsert(ctx context.Context, entry domain.BlockedDomain) error {
	_, err := r.db.Exec(ctx, sqlinline.QUpsertBlockedDomain, entry.Domain, entry.Reason)
	return translate(err)
}

// Delete removes the entry for pattern. Deleting a missing entry returns
// domain.ErrNotFound.
func (r *BlockedDomainRepositoryPG) Delete(ctx context.Context, pattern string) error {
	tag, err := r.db.Exec(ctx, sqlinline.QDeleteBlockedDomain, pattern)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
		return fmt.Errorf("%w: %s", domain.ErrMissingTable, pgErr.Message)
	}
	return err
}
