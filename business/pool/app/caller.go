// Package app contains application services and port definitions for the
// pool context.
package app

import (
	"context"

	"github.com/mglvn/swappool/business/pool/domain"
)

type callerKey struct{}

// WithCaller returns a context carrying the acting principal. The host
// attaches it once per request; every mutating or balance-reading pool
// operation requires it.
func WithCaller(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, callerKey{}, p)
}

// CallerFromContext extracts the acting principal, if present.
func CallerFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(callerKey{}).(domain.Principal)
	return p, ok
}
