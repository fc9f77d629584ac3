package domainpolicy

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"feedreader/internal/domain"
)

// ErrInvalidURL is returned for feed URLs without a parseable host.
var ErrInvalidURL = errors.New("invalid feed url")

// Result is the outcome of checking a feed URL.
type Result struct {
	Host string
	Verdict
}

// Checker evaluates feed URLs against the stored blocklist.
type Checker struct {
	repo   domain.BlockedDomainRepository
	logger zerolog.Logger
}

// NewChecker builds a Checker reading entries from repo.
func NewChecker(repo domain.BlockedDomainRepository, logger zerolog.Logger) *Checker {
	return &Checker{repo: repo, logger: logger.With().Str("component", "domainpolicy").Logger()}
}

// List returns the stored entries, tolerating a missing table.
func (c *Checker) List(ctx context.Context) ([]domain.BlockedDomain, error) {
	return LoadBlockedDomains(ctx, c.repo)
}

// CheckURL extracts the host of rawURL and reports whether plan may use it.
func (c *Checker) CheckURL(ctx context.Context, rawURL string, plan domain.UserPlan) (Result, error) {
	host, ok := ExtractDomain(rawURL)
	if !ok {
		return Result{}, ErrInvalidURL
	}
	if bypass(plan) {
		return Result{Host: host}, nil
	}
	entries, err := c.List(ctx)
	if err != nil {
		return Result{}, err
	}
	v := BlockedDomainReason(host, entries, plan)
	if v.Blocked {
		c.logger.Debug().Str("host", host).Str("plan", string(plan)).Msg("feed host blocked")
	}
	return Result{Host: host, Verdict: v}, nil
}
