package stagez

import (
	"context"
)

// Effect creates a Processor that performs side effects without modifying the data.
// The original value always passes through unchanged; a returned error stops
// the pipeline.
//
// Unlike Apply, Effect cannot transform data. Unlike Transform, it can fail.
//
// Example:
//
//	audit := stagez.Effect("audit", func(ctx context.Context, path string) error {
//	    return auditLog.Record(ctx, path)
//	})
func Effect[T any](name Name, fn func(context.Context, T) error) Processor[T, T] {
	return Processor[T, T]{
		name: name,
		fn: func(ctx context.Context, value T) (T, error) {
			if err := fn(ctx, value); err != nil {
				var zero T
				return zero, err
			}
			return value, nil
		},
	}
}
