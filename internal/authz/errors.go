package authz

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"feedreader/internal/domain"
)

// Kind classifies an admission failure. It is the only part of the
// taxonomy that reaches clients besides Message.
type Kind string

const (
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindForbidden       Kind = "FORBIDDEN"
	KindTooManyRequests Kind = "TOO_MANY_REQUESTS"
	KindCanceled        Kind = "CANCELED"
	KindInternal        Kind = "INTERNAL"
)

// StatusClientClosedRequest is the non-standard status used for requests the
// caller abandoned.
const StatusClientClosedRequest = 499

// Error is a typed, client-safe admission failure. The cause is kept for
// server-side logging and never rendered by Error.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Status maps the error kind to an HTTP status code.
func (e *Error) Status() int {
	return HTTPStatus(e.Kind)
}

// HTTPStatus maps k to an HTTP status code.
func HTTPStatus(k Kind) int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	case KindCanceled:
		return StatusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

// AsError converts any error returned by a chain into an *Error.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return canceled(err)
	}
	return internal(err)
}

// The same message is used for a missing session and a deleted account so
// the response does not reveal which accounts exist.
func unauthenticated(cause error) *Error {
	return &Error{Kind: KindUnauthenticated, Message: "authentication required", cause: cause}
}

func forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func quotaExceeded(r domain.Resource, limit int) *Error {
	return &Error{
		Kind:    KindForbidden,
		Message: fmt.Sprintf("%s limit reached (%d). Upgrade your plan to add more %s.", r.Title(), limit, r.Label()),
		cause:   domain.ErrQuotaExceeded,
	}
}

func tooManyRequests(limit int) *Error {
	return &Error{
		Kind:    KindTooManyRequests,
		Message: fmt.Sprintf("rate limit exceeded: %d requests per minute", limit),
	}
}

func canceled(cause error) *Error {
	return &Error{Kind: KindCanceled, Message: "request canceled", cause: cause}
}

func internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", cause: cause}
}
