package repo

import (
	"context"
	"fmt"

	"feedreader/internal/domain"
	"feedreader/internal/infra"
	"feedreader/internal/sqlinline"
)

var countQueries = map[domain.Resource]string{
	domain.ResourceSources:     sqlinline.QCountSourcesByUser,
	domain.ResourceCategories:  sqlinline.QCountCategoriesByUser,
	domain.ResourcePublicFeeds: sqlinline.QCountPublicFeedsByUser,
}

// ResourceRepositoryPG implements domain.ResourceRepository.
type ResourceRepositoryPG struct {
	db infra.SQLExecutor
}

// NewResourceRepository creates a resource repository backed by PostgreSQL.
func NewResourceRepository(db infra.SQLExecutor) *ResourceRepositoryPG {
	return &ResourceRepositoryPG{db: db}
}

// CountForUser counts the rows of resource r owned by userID.
func (r *ResourceRepositoryPG) CountForUser(ctx context.Context, userID int64, res domain.Resource) (int, error) {
	q, ok := countQueries[res]
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidResource, res)
	}
	var n int
	if err := r.db.QueryRow(ctx, q, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *ResourceRepositoryPG) CreateSource(ctx context.Context, userID int64, feedURL string) (int64, error) {
	return r.insert(ctx, sqlinline.QInsertSource, userID, feedURL)
}

func (r *ResourceRepositoryPG) CreateCategory(ctx context.Context, userID int64, name string) (int64, error) {
	return r.insert(ctx, sqlinline.QInsertCategory, userID, name)
}

func (r *ResourceRepositoryPG) CreatePublicFeed(ctx context.Context, userID int64, slug string) (int64, error) {
	return r.insert(ctx, sqlinline.QInsertPublicFeed, userID, slug)
}

func (r *ResourceRepositoryPG) insert(ctx context.Context, q string, args ...any) (int64, error) {
	var id int64
	if err := r.db.QueryRow(ctx, q, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
