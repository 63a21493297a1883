package stagez

import (
	"context"
)

// Identity returns its input unchanged and never fails. It is the neutral
// element of NewThen and a handy placeholder while assembling a pipeline.
func Identity[T any](name Name) Processor[T, T] {
	return Processor[T, T]{
		name: name,
		fn: func(_ context.Context, value T) (T, error) {
			return value, nil
		},
	}
}

// Constant ignores its input and emits a copy of value on every call. It
// seeds a pipeline whose outer input is Unit with a fixed starting value,
// such as the target to process.
//
// When T implements Cloner[T] each call returns value.Clone(), so a later
// stage mutating its result cannot change what the next call emits.
//
//	target := stagez.Constant("target", 5)
//	n, _ := target.Process(ctx, stagez.Unit{}) // 5
func Constant[T any](name Name, value T) Processor[Unit, T] {
	return Processor[Unit, T]{
		name: name,
		fn: func(_ context.Context, _ Unit) (T, error) {
			return duplicate(value), nil
		},
	}
}
