// Package stagez provides a small algebra for building typed, fallible,
// multi-stage data transformations out of reusable stages.
//
// # Core Concepts
//
// The library is built around a single interface:
//
//	type Stage[In, Out any] interface {
//	    Process(context.Context, In) (Out, error)
//	    Name() Name
//	}
//
// Everything is a Stage: leaves created with adapter functions, and the
// connectors that compose them. A pipeline is a tree of Stages; running it is
// one synchronous call on the root that flows the input down to the leaves
// and stops at the first failure.
//
// # Adapter Functions
//
//   - Apply: operations that may fail (parsing, I/O, calls to other systems)
//   - Transform: pure transformations that cannot fail
//   - Effect: side effects that leave the value unchanged
//   - Identity: pass-through, the neutral element of composition
//   - Constant: ignores its Unit input and emits a fixed value
//
// # Connectors
//
//   - NewThen: sequential composition, first's output feeds second
//   - NewZip: run one source, hand a copy of its output to two branches, return both results as a Pair
//   - NewChain: a typed prefix followed by same-type stages appended at runtime with If
//   - NewFallback: explicit recovery, try a backup when the primary fails
//   - NewEach: apply a stage to every element of a slice
//
// Types line up at compile time: NewThen only accepts a second stage whose
// input is the first stage's output, NewZip only accepts branches consuming
// the source's output, and Chain only accepts Stage[T, T] after its prefix.
//
// # Error Handling
//
// Every failure is an *Error with one of three kinds: network, I/O, or other
// (an arbitrary cause kept for inspection). Connectors never wrap, retry or
// recover: the error returned by a pipeline is the exact value produced by
// the failing leaf.
//
//	_, err := pipeline.Process(ctx, stagez.Unit{})
//	var stageErr *stagez.Error
//	if errors.As(err, &stageErr) {
//	    log.Printf("%s failed (%s): %v", stageErr.Stage, stageErr.Kind, stageErr.Err)
//	}
//	if errors.Is(err, stagez.ErrNetwork) {
//	    // transport failure
//	}
//
// # Example
//
//	double := stagez.Transform("double", func(_ context.Context, n int) int { return n * 2 })
//	negate := stagez.Transform("negate", func(_ context.Context, n int) int { return -n })
//
//	zip := stagez.NewZip("both", stagez.Constant("three", 3), double, negate)
//	pair, _ := zip.Process(ctx, stagez.Unit{})
//	// pair.First == 6, pair.Second == -3
//
// Execution is single-threaded. Zip runs its branches one after the other;
// nothing in this package starts goroutines on the data path.
package stagez
