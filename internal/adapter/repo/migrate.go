package repo

import (
	"context"
	"fmt"

	"feedreader/internal/infra"
	"feedreader/internal/sqlinline"
)

// Migrate creates the admission tables when they do not exist.
func Migrate(ctx context.Context, db infra.SQLExecutor) error {
	if _, err := db.Exec(ctx, sqlinline.QCreateSchema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
