// Package ctxutil provides context utility functions.
package ctxutil

import "context"

// Canceled returns the context error once ctx is done, nil otherwise.
// Long loops (directory walks, archive extraction) call it per iteration.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}

// Detached returns a context that is never canceled but keeps ctx's values,
// so cleanup can still log through the request logger after an interrupt.
func Detached(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
