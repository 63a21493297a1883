package stagez

import (
	"context"
)

// Each lifts a stage over a slice: every element is processed in order and
// the outputs are collected in the same order. The first failing element
// stops the run and its error is returned unchanged; no partial slice is
// returned.
//
//	paths := stagez.NewEach("paths", archive.URLPath())
//	out, err := paths.Process(ctx, targets)
type Each[In, Out any] struct {
	stage Stage[In, Out]
	name  Name
}

// NewEach creates an Each applying stage to every element.
func NewEach[In, Out any](name Name, stage Stage[In, Out]) *Each[In, Out] {
	return &Each[In, Out]{name: name, stage: stage}
}

// Process implements the Stage interface.
func (e *Each[In, Out]) Process(ctx context.Context, in []In) ([]Out, error) {
	out := make([]Out, 0, len(in))
	for _, value := range in {
		result, err := e.stage.Process(ctx, value)
		if err != nil {
			return nil, err
		}
		out = append(out, result)
	}
	return out, nil
}

// Name returns the name of this connector.
func (e *Each[In, Out]) Name() Name {
	return e.name
}
