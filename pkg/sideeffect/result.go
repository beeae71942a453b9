// Package sideeffect models best-effort work whose failure must never fail the caller.
package sideeffect

import (
	"context"
	"fmt"

	"wspace-be/internal/pkg/logger"
)

// Result is the outcome of a best-effort call. Err is kept for logging only.
type Result[T any] struct {
	Value T
	Err   error
}

func (r Result[T]) Ok() bool {
	return r.Err == nil
}

// Try runs fn and converts errors and panics into a failed Result, logged at Warn.
// On failure Value is the zero value of T.
func Try[T any](ctx context.Context, log logger.ILogger, name string, fn func(ctx context.Context) (T, error)) (res Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			res = Result[T]{Value: zero, Err: fmt.Errorf("panic: %v", r)}
			log.Warn("SIDE_EFFECT", name+" panicked", map[string]interface{}{"error": res.Err.Error()})
		}
	}()

	v, err := fn(ctx)
	if err != nil {
		log.Warn("SIDE_EFFECT", name+" failed", map[string]interface{}{"error": err.Error()})
		var zero T
		return Result[T]{Value: zero, Err: err}
	}
	return Result[T]{Value: v}
}

// Go runs fn in the background on a context detached from the request.
func Go(ctx context.Context, log logger.ILogger, name string, fn func(ctx context.Context) error) {
	detached := context.WithoutCancel(ctx)
	go Try(detached, log, name, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
}
