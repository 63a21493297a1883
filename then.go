package stagez

import (
	"context"

	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Observability constants for the Then connector.
const (
	// Metrics.
	ThenProcessedTotal = metricz.Key("then.processed.total")
	ThenFailuresTotal  = metricz.Key("then.failures.total")

	// Spans.
	ThenProcessSpan = tracez.Key("then.process")

	// Tags.
	ThenTagConnector = tracez.Tag("then.connector")
	ThenTagFailedAt  = tracez.Tag("then.failed_at")
	ThenTagSuccess   = tracez.Tag("then.success")
	ThenTagError     = tracez.Tag("then.error")
)

// Then composes two stages sequentially: the output of first becomes the
// input of second. The intermediate type Mid is checked by the compiler, so
// a Then can only be built from stages whose types line up.
//
// Execution is strict left to right with first-failure short-circuit:
//   - if first fails, second never runs and first's error is returned
//   - if second fails, its error is returned
//   - no partial output is ever returned
//
// Errors are forwarded exactly as the failing stage produced them.
//
// Example:
//
//	download := stagez.NewThen("download", archive.Fetch(client, ""), archive.Body())
//	body, err := download.Process(ctx, target)
//
// # Observability
//
// Metrics:
//   - then.processed.total: Counter of invocations
//   - then.failures.total: Counter of failed invocations
//
// Traces:
//   - then.process: Span for the whole composition, tagged with the name of
//     the failing stage on error
type Then[In, Mid, Out any] struct {
	first   Stage[In, Mid]
	second  Stage[Mid, Out]
	name    Name
	metrics *metricz.Registry
	tracer  *tracez.Tracer
}

// NewThen creates a sequential composition of first and second.
func NewThen[In, Mid, Out any](name Name, first Stage[In, Mid], second Stage[Mid, Out]) *Then[In, Mid, Out] {
	metrics := metricz.New()
	metrics.Counter(ThenProcessedTotal)
	metrics.Counter(ThenFailuresTotal)

	return &Then[In, Mid, Out]{
		name:    name,
		first:   first,
		second:  second,
		metrics: metrics,
		tracer:  tracez.New(),
	}
}

// Process implements the Stage interface.
func (t *Then[In, Mid, Out]) Process(ctx context.Context, in In) (Out, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	t.metrics.Counter(ThenProcessedTotal).Inc()

	ctx, span := t.tracer.StartSpan(ctx, ThenProcessSpan)
	defer span.Finish()
	span.SetTag(ThenTagConnector, t.name)

	mid, err := t.first.Process(ctx, in)
	if err != nil {
		t.metrics.Counter(ThenFailuresTotal).Inc()
		span.SetTag(ThenTagSuccess, "false")
		span.SetTag(ThenTagFailedAt, t.first.Name())
		span.SetTag(ThenTagError, err.Error())
		var zero Out
		return zero, err
	}

	out, err := t.second.Process(ctx, mid)
	if err != nil {
		t.metrics.Counter(ThenFailuresTotal).Inc()
		span.SetTag(ThenTagSuccess, "false")
		span.SetTag(ThenTagFailedAt, t.second.Name())
		span.SetTag(ThenTagError, err.Error())
		var zero Out
		return zero, err
	}

	span.SetTag(ThenTagSuccess, "true")
	return out, nil
}

// First returns the stage that runs first.
func (t *Then[In, Mid, Out]) First() Stage[In, Mid] {
	return t.first
}

// Second returns the stage that consumes the first stage's output.
func (t *Then[In, Mid, Out]) Second() Stage[Mid, Out] {
	return t.second
}

// Name returns the name of this connector.
func (t *Then[In, Mid, Out]) Name() Name {
	return t.name
}

// Metrics returns the metrics registry for this connector.
func (t *Then[In, Mid, Out]) Metrics() *metricz.Registry {
	return t.metrics
}

// Tracer returns the tracer for this connector.
func (t *Then[In, Mid, Out]) Tracer() *tracez.Tracer {
	return t.tracer
}

// Close gracefully shuts down observability components.
func (t *Then[In, Mid, Out]) Close() error {
	if t.tracer != nil {
		t.tracer.Close()
	}
	return nil
}
