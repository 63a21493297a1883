package stagez

import (
	"context"
	"sync"
)

// Fallback is the explicit recovery stage. None of the other connectors
// recover from a failure; when a pipeline should survive one, wrap the risky
// part in a Fallback.
//
// Fallback runs primary. If it fails and the failure is recoverable, backup
// runs with a copy of the same input and its result, or its error, is
// returned unchanged. Every failure is recoverable unless When narrows the
// set.
//
// Example - serve a placeholder page when the network is down:
//
//	page := stagez.NewFallback("page", download, placeholder).
//	    When(func(err error) bool { return errors.Is(err, stagez.ErrNetwork) })
type Fallback[In, Out any] struct {
	primary Stage[In, Out]
	backup  Stage[In, Out]
	when    func(error) bool
	name    Name
	mu      sync.RWMutex
}

// NewFallback creates a Fallback that tries primary, then backup.
func NewFallback[In, Out any](name Name, primary, backup Stage[In, Out]) *Fallback[In, Out] {
	return &Fallback[In, Out]{
		name:    name,
		primary: primary,
		backup:  backup,
	}
}

// When restricts recovery to failures for which recoverable returns true.
// Other failures from primary are returned as they are.
func (f *Fallback[In, Out]) When(recoverable func(error) bool) *Fallback[In, Out] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.when = recoverable
	return f
}

// Process implements the Stage interface.
func (f *Fallback[In, Out]) Process(ctx context.Context, in In) (Out, error) {
	f.mu.RLock()
	when := f.when
	f.mu.RUnlock()

	result, err := f.primary.Process(ctx, duplicate(in))
	if err == nil {
		return result, nil
	}
	if when != nil && !when(err) {
		var zero Out
		return zero, err
	}
	return f.backup.Process(ctx, duplicate(in))
}

// Primary returns the stage tried first.
func (f *Fallback[In, Out]) Primary() Stage[In, Out] {
	return f.primary
}

// Backup returns the stage tried when primary fails.
func (f *Fallback[In, Out]) Backup() Stage[In, Out] {
	return f.backup
}

// Name returns the name of this connector.
func (f *Fallback[In, Out]) Name() Name {
	return f.name
}
