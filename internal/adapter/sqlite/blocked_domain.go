package sqlite

import (
	"context"
	"database/sql"

	"feedreader/internal/domain"
)

// BlockedDomainRepository implements domain.BlockedDomainStore.
type BlockedDomainRepository struct {
	db *sql.DB
}

func NewBlockedDomainRepository(db *sql.DB) *BlockedDomainRepository {
	return &BlockedDomainRepository{db: db}
}

func (r *BlockedDomainRepository) List(ctx context.Context) ([]domain.BlockedDomain, error) {
	rows, err := r.db.QueryContext(ctx, qSelectBlockedDomains)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var out []domain.BlockedDomain
	for rows.Next() {
		var (
			bd     domain.BlockedDomain
			reason sql.NullString
		)
		if err := rows.Scan(&bd.Domain, &reason); err != nil {
			return nil, err
		}
		if reason.Valid {
			r := reason.String
			bd.Reason = &r
		}
		out = append(out, bd)
	}
	return out, translate(rows.Err())
}

func (r *BlockedDomainRepository) Upsert(ctx context.Context, entry domain.BlockedDomain) error {
	var reason any
	if entry.Reason != nil {
		reason = *entry.Reason
	}
	_, err := r.db.ExecContext(ctx, qUpsertBlockedDomain, entry.Domain, reason)
	return translate(err)
}

func (r *BlockedDomainRepository) Delete(ctx context.Context, pattern string) error {
	res, err := r.db.ExecContext(ctx, qDeleteBlockedDomain, pattern)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
