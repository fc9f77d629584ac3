package domainpolicy

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"feedreader/internal/domain"
)

// pgUndefinedTable is the SQLSTATE for a missing relation.
const pgUndefinedTable = "42P01"

// LoadBlockedDomains reads every blocklist entry. A blocklist table that has
// not been created yet reads as an empty list. Every other error is returned
// unchanged.
func LoadBlockedDomains(ctx context.Context, repo domain.BlockedDomainRepository) ([]domain.BlockedDomain, error) {
	entries, err := repo.List(ctx)
	if err != nil {
		if IsMissingTable(err) {
			return []domain.BlockedDomain{}, nil
		}
		return nil, err
	}
	return entries, nil
}

// IsMissingTable reports whether err means the queried table does not exist.
func IsMissingTable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, domain.ErrMissingTable) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUndefinedTable
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "no such table") {
		return true
	}
	loc := missingRelation.FindStringIndex(msg)
	// `column "x" of relation "t" does not exist` is a schema error, not a missing table.
	return loc != nil && !strings.Contains(msg[:loc[0]], "column")
}

var missingRelation = regexp.MustCompile(`relation "[^"]+" does not exist`)
