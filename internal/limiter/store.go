package limiter

import (
	"context"
	"errors"
)

// ErrUnavailable marks store failures that are expected to heal on retry.
var ErrUnavailable = errors.New("limiter: store unavailable")

// Result is the outcome of consuming one token.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
}

// Store consumes tokens from per-key buckets refilled over a rolling minute.
type Store interface {
	Consume(ctx context.Context, key string, limitPerMinute int) (Result, error)
}

// IsRetryable reports whether err is a transient store outage.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
