package limiter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const window = time.Minute

// slidingWindow trims entries older than the window, admits the request only
// while the remaining count is below the limit, and returns {allowed, count}.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count >= limit then
  return {0, count}
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return {1, count + 1}
`)

// RedisStore is a distributed Store keeping one sorted set per bucket.
type RedisStore struct {
	client  redis.Scripter
	prefix  string
	timeout time.Duration
	now     func() time.Time
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithPrefix namespaces every bucket key.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

// WithTimeout bounds each Consume round trip. Zero keeps the caller deadline only.
func WithTimeout(d time.Duration) RedisOption {
	return func(s *RedisStore) { s.timeout = d }
}

// NewRedisStore builds a RedisStore on top of client.
func NewRedisStore(client redis.Scripter, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client:  client,
		prefix:  "ratelimit:",
		timeout: 100 * time.Millisecond,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Consume implements Store.
func (s *RedisStore) Consume(ctx context.Context, key string, limitPerMinute int) (Result, error) {
	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	now := s.now().UnixMilli()
	reply, err := slidingWindow.Run(callCtx, s.client, []string{s.prefix + key},
		now,
		window.Milliseconds(),
		limitPerMinute,
		fmt.Sprintf("%d-%s", now, uuid.NewString()),
	).Int64Slice()
	if err != nil {
		return Result{}, classify(ctx, err)
	}
	if len(reply) != 2 {
		return Result{}, fmt.Errorf("limiter: unexpected script reply %v", reply)
	}

	count := int(reply[1])
	remaining := limitPerMinute - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{Allowed: reply[0] == 1, Limit: limitPerMinute, Remaining: remaining}, nil
}

// classify separates caller cancellation, transient outages and everything else.
func classify(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if isTransient(err) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return fmt.Errorf("limiter: %w", err)
}

func isTransient(err error) bool {
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, redis.ErrClosed),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET):
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
