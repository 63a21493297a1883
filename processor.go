package stagez

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zoobzio/clockz"
)

// Processor is a named stage backed by a function. It is the basic building
// block returned by the adapter functions Apply, Transform and Effect, and by
// the leaf primitives Identity and Constant.
//
// The fn field is private so processors are only created through the
// adapters, which keep error classification and panic recovery consistent.
type Processor[In, Out any] struct {
	fn    func(context.Context, In) (Out, error)
	name  Name
	clock clockz.Clock
}

// Process implements the Stage interface. Errors returned by the wrapped
// function are classified into *Error; panics are recovered as ErrPanic.
func (p Processor[In, Out]) Process(ctx context.Context, in In) (result Out, err error) {
	defer recoverFromPanic(&result, &err, p.name)

	clock := p.getClock()
	start := clock.Now()
	result, err = p.fn(ctx, in)
	if err != nil {
		var zero Out
		return zero, fail(p.name, err, clock, start)
	}
	return result, nil
}

// Name returns the name of the processor for debugging and error reporting.
func (p Processor[In, Out]) Name() Name {
	return p.name
}

// WithClock returns a copy of the processor that measures durations with
// clock. Useful with clockz.NewFakeClock in tests.
func (p Processor[In, Out]) WithClock(clock clockz.Clock) Processor[In, Out] {
	p.clock = clock
	return p
}

func (p Processor[In, Out]) getClock() clockz.Clock {
	if p.clock == nil {
		return clockz.RealClock
	}
	return p.clock
}

// recoverFromPanic turns a panic inside a stage function into a KindOther
// error wrapping ErrPanic.
func recoverFromPanic[Out any](result *Out, err *error, name Name) {
	if r := recover(); r != nil {
		var zero Out
		*result = zero
		*err = NewOtherError(name, fmt.Errorf("%w: %v", ErrPanic, r))
	}
}

// fail classifies err on behalf of the named stage. Errors that already are
// *Error values are returned untouched; anything else is stamped with the
// stage name and timing.
func fail(name Name, err error, clock clockz.Clock, start time.Time) *Error {
	var stageErr *Error
	if errors.As(err, &stageErr) {
		return stageErr
	}
	stageErr = newError(kindOf(err), name, err)
	stageErr.Timestamp = clock.Now()
	stageErr.Duration = clock.Since(start)
	return stageErr
}
