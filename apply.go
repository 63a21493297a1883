package stagez

import (
	"context"
)

// Apply creates a Processor from a function that transforms data and may return an error.
// Apply is the workhorse adapter - use it when your transformation might fail due to
// parsing, external calls, or validation.
//
// A returned error is classified into the stagez taxonomy with Classify and
// stamped with the processor name and duration. Returning an *Error directly
// (for example from a nested pipeline) passes it through untouched.
//
// Example:
//
//	parse := stagez.Apply("parse_url", func(_ context.Context, raw string) (url.URL, error) {
//	    u, err := url.Parse(raw)
//	    if err != nil {
//	        return url.URL{}, err
//	    }
//	    return *u, nil
//	})
func Apply[In, Out any](name Name, fn func(context.Context, In) (Out, error)) Processor[In, Out] {
	return Processor[In, Out]{
		name: name,
		fn:   fn,
	}
}
