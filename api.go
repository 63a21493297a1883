package stagez

import "context"

// Stage defines the interface for any component that turns a value of type
// In into a value of type Out, or fails with an error.
//
// Stage is the foundation of stagez - every leaf, adapter and connector
// implements this interface. Connectors are themselves Stages, so a
// pipeline is a tree of Stages whose root is invoked with a single call.
//
// Key design principles:
//   - Types line up at compile time through Go generics
//   - Errors are returned, never recovered by connectors
//   - Stages are immutable once built and may be invoked any number of times
//   - Named components for debugging and monitoring
//
// Implementations outside this package (network fetches, file writers) are
// expected to report failures as *Error values, either by constructing them
// directly or by passing their errors through Classify.
type Stage[In, Out any] interface {
	Process(context.Context, In) (Out, error)
	Name() Name
}

// Name is a type alias for stage and connector names.
// Using this type encourages storing names as constants rather than
// using inline strings throughout your code.
//
// Example:
//
//	const (
//	    FetchName Name = "fetch"
//	    StoreName Name = "store"
//	)
type Name = string

// Unit is the input type of stages that need no input, such as Constant.
type Unit = struct{}

// Pair is the output of a Zip: the results of its two branches, in order.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Cloner is an interface for types that can create deep copies of themselves.
// Zip, Constant and Fallback hand out copies of a single value; when that
// value implements Cloner[T], Clone is used so that a stage mutating its copy
// cannot be observed by another stage.
//
// The Clone method must return a deep copy where modifications to the clone
// do not affect the original value. For types containing pointers, slices, or maps,
// ensure these are also copied.
//
// Example implementation:
//
//	type Page struct {
//	    URL     string
//	    Headers map[string]string
//	}
//
//	func (p Page) Clone() Page {
//	    headers := make(map[string]string, len(p.Headers))
//	    for k, v := range p.Headers {
//	        headers[k] = v
//	    }
//	    return Page{URL: p.URL, Headers: headers}
//	}
type Cloner[T any] interface {
	Clone() T
}

// duplicate returns an isolated copy of value. Types implementing Cloner[T]
// are deep copied; anything else is copied by assignment.
func duplicate[T any](value T) T {
	if c, ok := any(value).(Cloner[T]); ok {
		return c.Clone()
	}
	return value
}
