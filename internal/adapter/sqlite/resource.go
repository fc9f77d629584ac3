package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"feedreader/internal/domain"
)

var countQueries = map[domain.Resource]string{
	domain.ResourceSources:     qCountSources,
	domain.ResourceCategories:  qCountCategories,
	domain.ResourcePublicFeeds: qCountPublicFeeds,
}

// ResourceRepository implements domain.ResourceRepository.
type ResourceRepository struct {
	db *sql.DB
}

func NewResourceRepository(db *sql.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

func (r *ResourceRepository) CountForUser(ctx context.Context, userID int64, res domain.Resource) (int, error) {
	q, ok := countQueries[res]
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidResource, res)
	}
	var n int
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(&n); err != nil {
		return 0, translate(err)
	}
	return n, nil
}

func (r *ResourceRepository) CreateSource(ctx context.Context, userID int64, feedURL string) (int64, error) {
	return r.insert(ctx, qInsertSource, userID, feedURL)
}

func (r *ResourceRepository) CreateCategory(ctx context.Context, userID int64, name string) (int64, error) {
	return r.insert(ctx, qInsertCategory, userID, name)
}

func (r *ResourceRepository) CreatePublicFeed(ctx context.Context, userID int64, slug string) (int64, error) {
	return r.insert(ctx, qInsertPublicFeed, userID, slug)
}

func (r *ResourceRepository) insert(ctx context.Context, q string, args ...any) (int64, error) {
	var id int64
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&id); err != nil {
		return 0, translate(err)
	}
	return id, nil
}
