package stagez

import (
	"context"

	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Observability constants for the Zip connector.
const (
	// Metrics.
	ZipProcessedTotal = metricz.Key("zip.processed.total")
	ZipSuccessesTotal = metricz.Key("zip.successes.total")
	ZipFailuresTotal  = metricz.Key("zip.failures.total")

	// Spans.
	ZipProcessSpan = tracez.Key("zip.process")
	ZipBranchSpan  = tracez.Key("zip.branch")

	// Tags.
	ZipTagConnector  = tracez.Tag("zip.connector")
	ZipTagBranchName = tracez.Tag("zip.branch_name")
	ZipTagFailedAt   = tracez.Tag("zip.failed_at")
	ZipTagSuccess    = tracez.Tag("zip.success")
	ZipTagError      = tracez.Tag("zip.error")
)

// Zip fans one intermediate value out to two independent stages. The source
// stage runs exactly once; its output is duplicated and each branch receives
// its own copy. The result is the ordered Pair of the branch outputs.
//
// Branches run one after the other, first then second, never concurrently.
// Neither branch sees the other's result:
//   - if source fails, no branch runs and source's error is returned
//   - if first fails, second never runs and first's error is returned
//   - if second fails, its error is returned
//
// Duplication uses Clone when Mid implements Cloner[Mid] and plain
// assignment otherwise. Types holding references that a branch may mutate
// must implement Cloner, or supply a copy function with WithClone.
//
// Example - derive a storage path and fetch content for the same target:
//
//	zip := stagez.NewZip("archive",
//	    stagez.Constant("target", target),
//	    archive.URLPath(),
//	    download,
//	)
//	pair, err := zip.Process(ctx, stagez.Unit{})
//	// pair.First: "https/example.com/index.html", pair.Second: body stream
//
// # Observability
//
// Metrics:
//   - zip.processed.total: Counter of invocations
//   - zip.successes.total: Counter of invocations where both branches succeeded
//   - zip.failures.total: Counter of failed invocations
//
// Traces:
//   - zip.process: Span for the whole fan-out
//   - zip.branch: Child span per branch that ran
type Zip[In, Mid, O1, O2 any] struct {
	source  Stage[In, Mid]
	first   Stage[Mid, O1]
	second  Stage[Mid, O2]
	clone   func(Mid) Mid
	name    Name
	metrics *metricz.Registry
	tracer  *tracez.Tracer
}

// NewZip creates a fan-out of source into first and second.
func NewZip[In, Mid, O1, O2 any](name Name, source Stage[In, Mid], first Stage[Mid, O1], second Stage[Mid, O2]) *Zip[In, Mid, O1, O2] {
	metrics := metricz.New()
	metrics.Counter(ZipProcessedTotal)
	metrics.Counter(ZipSuccessesTotal)
	metrics.Counter(ZipFailuresTotal)

	return &Zip[In, Mid, O1, O2]{
		name:    name,
		source:  source,
		first:   first,
		second:  second,
		metrics: metrics,
		tracer:  tracez.New(),
	}
}

// WithClone sets the function used to duplicate the source output for each
// branch, for types that cannot implement Cloner.
func (z *Zip[In, Mid, O1, O2]) WithClone(clone func(Mid) Mid) *Zip[In, Mid, O1, O2] {
	z.clone = clone
	return z
}

// Process implements the Stage interface.
func (z *Zip[In, Mid, O1, O2]) Process(ctx context.Context, in In) (Pair[O1, O2], error) {
	if ctx == nil {
		ctx = context.Background()
	}
	z.metrics.Counter(ZipProcessedTotal).Inc()

	ctx, span := z.tracer.StartSpan(ctx, ZipProcessSpan)
	defer span.Finish()
	span.SetTag(ZipTagConnector, z.name)

	failed := func(at Name, err error) (Pair[O1, O2], error) {
		z.metrics.Counter(ZipFailuresTotal).Inc()
		span.SetTag(ZipTagSuccess, "false")
		span.SetTag(ZipTagFailedAt, at)
		span.SetTag(ZipTagError, err.Error())
		return Pair[O1, O2]{}, err
	}

	mid, err := z.source.Process(ctx, in)
	if err != nil {
		return failed(z.source.Name(), err)
	}

	left, right := z.duplicate(mid), z.duplicate(mid)

	firstCtx, firstSpan := z.tracer.StartSpan(ctx, ZipBranchSpan)
	firstSpan.SetTag(ZipTagBranchName, z.first.Name())
	o1, err := z.first.Process(firstCtx, left)
	firstSpan.Finish()
	if err != nil {
		return failed(z.first.Name(), err)
	}

	secondCtx, secondSpan := z.tracer.StartSpan(ctx, ZipBranchSpan)
	secondSpan.SetTag(ZipTagBranchName, z.second.Name())
	o2, err := z.second.Process(secondCtx, right)
	secondSpan.Finish()
	if err != nil {
		return failed(z.second.Name(), err)
	}

	z.metrics.Counter(ZipSuccessesTotal).Inc()
	span.SetTag(ZipTagSuccess, "true")
	return Pair[O1, O2]{First: o1, Second: o2}, nil
}

func (z *Zip[In, Mid, O1, O2]) duplicate(value Mid) Mid {
	if z.clone != nil {
		return z.clone(value)
	}
	return duplicate(value)
}

// Name returns the name of this connector.
func (z *Zip[In, Mid, O1, O2]) Name() Name {
	return z.name
}

// Metrics returns the metrics registry for this connector.
func (z *Zip[In, Mid, O1, O2]) Metrics() *metricz.Registry {
	return z.metrics
}

// Tracer returns the tracer for this connector.
func (z *Zip[In, Mid, O1, O2]) Tracer() *tracez.Tracer {
	return z.tracer
}

// Close gracefully shuts down observability components.
func (z *Zip[In, Mid, O1, O2]) Close() error {
	if z.tracer != nil {
		z.tracer.Close()
	}
	return nil
}
