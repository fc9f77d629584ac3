// Package limiter provides the counting stores behind the per-user API rate
// limit.
//
// A Store consumes one token from a named bucket whose budget is expressed in
// requests per minute:
//
//	res, err := store.Consume(ctx, "api:pro:42", 300)
//
// # Backends
//
//   - RedisStore: a rolling one-minute window kept in a Redis sorted set and
//     updated atomically by a Lua script. Use it whenever more than one API
//     replica serves traffic.
//
//   - MemoryStore: an in-process token bucket (golang.org/x/time/rate) with a
//     burst equal to the per-minute budget. State is local to the process.
//
// # Errors
//
// Errors that mean "the store could not be reached" wrap ErrUnavailable and
// report true from IsRetryable. Callers decide whether such an outage admits
// or rejects the request. Cancellation of the caller's context is returned
// unchanged.
package limiter
