package stagez

import (
	"context"
)

// Transform creates a Processor that applies a pure transformation function to data.
// Transform is the simplest adapter - use it when your operation always succeeds.
//
// If your transformation might fail (e.g., parsing, validation), use Apply instead.
//
// Example:
//
//	upper := stagez.Transform("upper", func(_ context.Context, s string) string {
//	    return strings.ToUpper(s)
//	})
func Transform[In, Out any](name Name, fn func(context.Context, In) Out) Processor[In, Out] {
	return Processor[In, Out]{
		name: name,
		fn: func(ctx context.Context, in In) (Out, error) {
			return fn(ctx, in), nil
		},
	}
}
