package authz

import "context"

// Guard is a single admission check. It may read or populate req and aborts
// the chain by returning an error.
type Guard func(ctx context.Context, req *Request) error

// RejectFunc observes a chain rejection.
type RejectFunc func(ctx context.Context, chain string, req *Request, err *Error)

// Chain is an ordered, immutable list of guards. Chains are composed once at
// startup and shared by every request.
type Chain struct {
	name     string
	guards   []Guard
	onReject RejectFunc
}

// NewChain builds a chain from guards, run in the given order.
func NewChain(name string, onReject RejectFunc, guards ...Guard) Chain {
	return Chain{name: name, guards: append([]Guard(nil), guards...), onReject: onReject}
}

// With returns a new chain named name that runs c's guards followed by guards.
func (c Chain) With(name string, guards ...Guard) Chain {
	next := make([]Guard, 0, len(c.guards)+len(guards))
	next = append(next, c.guards...)
	next = append(next, guards...)
	return Chain{name: name, guards: next, onReject: c.onReject}
}

// Name identifies the chain in logs.
func (c Chain) Name() string {
	return c.name
}

// Len is the number of guards in the chain.
func (c Chain) Len() int {
	return len(c.guards)
}

// Run executes the guards in order and stops at the first failure. The
// returned error is always an *Error.
func (c Chain) Run(ctx context.Context, req *Request) error {
	for _, g := range c.guards {
		if err := ctx.Err(); err != nil {
			return c.reject(ctx, req, canceled(err))
		}
		if err := g(ctx, req); err != nil {
			ae := AsError(err)
			if ae.Kind == KindInternal && ctx.Err() != nil {
				ae = canceled(ctx.Err())
			}
			return c.reject(ctx, req, ae)
		}
	}
	req.advance(StageAdmitted)
	return nil
}

func (c Chain) reject(ctx context.Context, req *Request, err *Error) error {
	if c.onReject != nil {
		c.onReject(ctx, c.name, req, err)
	}
	return err
}
