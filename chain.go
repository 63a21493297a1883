package stagez

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Observability constants for the Chain connector.
const (
	// Metrics.
	ChainProcessedTotal  = metricz.Key("chain.processed.total")
	ChainSuccessesTotal  = metricz.Key("chain.successes.total")
	ChainFailuresTotal   = metricz.Key("chain.failures.total")
	ChainStagesCompleted = metricz.Key("chain.stages.completed")
	ChainStagesTotal     = metricz.Key("chain.stages.total")
	ChainDurationMs      = metricz.Key("chain.duration.ms")

	// Spans.
	ChainProcessSpan = tracez.Key("chain.process")
	ChainStageSpan   = tracez.Key("chain.stage")

	// Tags.
	ChainTagStageCount  = tracez.Tag("chain.stage_count")
	ChainTagStageNumber = tracez.Tag("chain.stage_number")
	ChainTagStageName   = tracez.Tag("chain.stage_name")
	ChainTagSuccess     = tracez.Tag("chain.success")
	ChainTagError       = tracez.Tag("chain.error")

	// Hook event keys.
	ChainEventStageComplete = hookz.Key("chain.stage_complete")
	ChainEventAllComplete   = hookz.Key("chain.all_complete")
)

// ChainEvent represents a chain processing event.
// This is emitted via hookz when individual stages complete or when
// the whole chain has finished.
type ChainEvent struct {
	Timestamp       time.Time     // When the event occurred
	Error           error         // Error if stage failed
	Name            Name          // Connector name
	StageName       Name          // Name of the stage
	StageNumber     int           // Stage number, the prefix is 1
	TotalStages     int           // Prefix plus appended stages
	CompletedStages int           // Number of stages completed (for all_complete)
	Duration        time.Duration // How long this stage took
	TotalDuration   time.Duration // Total time for all stages (for all_complete)
	Success         bool          // Whether the stage succeeded
}

// Chain wraps a statically typed prefix stage and extends it with any number
// of stages that consume and produce the prefix's output type T. The appended
// stages are held as Stage[T, T] interface values, so the shape of a pipeline
// can depend on runtime configuration while its type stays Chain[In, T].
//
// Execution runs the prefix, then every appended stage in insertion order,
// each consuming the previous output. The first failure is returned exactly
// as produced and the remaining stages are skipped. With no appended stages
// a Chain behaves exactly like its prefix.
//
// Stages are appended while a pipeline is being assembled. Process takes a
// snapshot of the stage list, so a Chain can be shared once built.
//
// Example - optional size limit chosen from configuration:
//
//	body := stagez.NewChain("body", download).
//	    If(cfg.Limit > 0, archive.Limit(cfg.Limit)).
//	    If(cfg.Verbose, archive.Log[io.ReadCloser](logger, "body"))
//
// # Observability
//
// Metrics:
//   - chain.processed.total: Counter of chain operations
//   - chain.successes.total: Counter of successful completions
//   - chain.failures.total: Counter of failed chains
//   - chain.stages.completed: Gauge of stages completed in the last run
//   - chain.stages.total: Gauge of total stages
//   - chain.duration.ms: Gauge of total chain duration
//
// Traces:
//   - chain.process: Parent span for the entire chain
//   - chain.stage: Child span for each appended stage
//
// Events (via hooks):
//   - chain.stage_complete: Fired as each stage completes
//   - chain.all_complete: Fired when all stages succeed
type Chain[In, T any] struct {
	prefix  Stage[In, T]
	clock   clockz.Clock
	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[ChainEvent]
	name    Name
	stages  []Stage[T, T]
	mu      sync.RWMutex
}

// NewChain creates a Chain whose fixed prefix is prefix.
func NewChain[In, T any](name Name, prefix Stage[In, T]) *Chain[In, T] {
	metrics := metricz.New()
	metrics.Counter(ChainProcessedTotal)
	metrics.Counter(ChainSuccessesTotal)
	metrics.Counter(ChainFailuresTotal)
	metrics.Gauge(ChainStagesCompleted)
	metrics.Gauge(ChainStagesTotal)
	metrics.Gauge(ChainDurationMs)

	return &Chain[In, T]{
		name:    name,
		prefix:  prefix,
		metrics: metrics,
		tracer:  tracez.New(),
		hooks:   hookz.New[ChainEvent](),
	}
}

// If appends stage when cond is true and does nothing otherwise. It returns
// the chain so conditional steps read as one builder expression:
//
//	chain := stagez.NewChain("text", source).
//	    If(cfg.Trim, trim).
//	    If(cfg.Upper, upper)
func (c *Chain[In, T]) If(cond bool, stage Stage[T, T]) *Chain[In, T] {
	if !cond {
		return c
	}
	return c.Append(stage)
}

// Append adds stage to the end of the chain unconditionally. A nil stage
// is ignored.
func (c *Chain[In, T]) Append(stage Stage[T, T]) *Chain[In, T] {
	if stage == nil {
		return c
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stages = append(c.stages, stage)
	return c
}

// WithClock sets a custom clock for testing.
func (c *Chain[In, T]) WithClock(clock clockz.Clock) *Chain[In, T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clock = clock
	return c
}

// Process implements the Stage interface.
func (c *Chain[In, T]) Process(ctx context.Context, in In) (result T, err error) {
	c.mu.RLock()
	stages := slices.Clone(c.stages)
	clock := c.getClock()
	c.mu.RUnlock()

	if ctx == nil {
		ctx = context.Background()
	}

	total := len(stages) + 1

	c.metrics.Counter(ChainProcessedTotal).Inc()
	c.metrics.Gauge(ChainStagesTotal).Set(float64(total))
	start := clock.Now()

	ctx, span := c.tracer.StartSpan(ctx, ChainProcessSpan)
	span.SetTag(ChainTagStageCount, fmt.Sprintf("%d", total))
	defer func() {
		elapsed := clock.Since(start)
		c.metrics.Gauge(ChainDurationMs).Set(float64(elapsed.Milliseconds()))

		if err == nil {
			span.SetTag(ChainTagSuccess, "true")
			c.metrics.Counter(ChainSuccessesTotal).Inc()
		} else {
			span.SetTag(ChainTagSuccess, "false")
			span.SetTag(ChainTagError, err.Error())
			c.metrics.Counter(ChainFailuresTotal).Inc()
		}
		span.Finish()
	}()

	prefixStart := clock.Now()
	result, err = c.prefix.Process(ctx, in)
	c.emitStage(ctx, clock, c.prefix.Name(), 1, total, clock.Since(prefixStart), err)
	if err != nil {
		c.metrics.Gauge(ChainStagesCompleted).Set(0)
		var zero T
		return zero, err
	}

	completed := 1
	for i, stage := range stages {
		stageCtx, stageSpan := c.tracer.StartSpan(ctx, ChainStageSpan)
		stageSpan.SetTag(ChainTagStageNumber, fmt.Sprintf("%d", i+2))
		stageSpan.SetTag(ChainTagStageName, stage.Name())

		stageStart := clock.Now()
		next, stageErr := stage.Process(stageCtx, result)
		stageDuration := clock.Since(stageStart)
		stageSpan.Finish()

		c.emitStage(ctx, clock, stage.Name(), i+2, total, stageDuration, stageErr)
		if stageErr != nil {
			c.metrics.Gauge(ChainStagesCompleted).Set(float64(completed))
			var zero T
			return zero, stageErr
		}

		result = next
		completed++
	}

	c.metrics.Gauge(ChainStagesCompleted).Set(float64(completed))
	_ = c.hooks.Emit(ctx, ChainEventAllComplete, ChainEvent{ //nolint:errcheck
		Name:            c.name,
		TotalStages:     total,
		CompletedStages: completed,
		TotalDuration:   clock.Since(start),
		Success:         true,
		Timestamp:       clock.Now(),
	})

	return result, nil
}

func (c *Chain[In, T]) emitStage(ctx context.Context, clock clockz.Clock, stage Name, number, total int, duration time.Duration, err error) {
	_ = c.hooks.Emit(ctx, ChainEventStageComplete, ChainEvent{ //nolint:errcheck
		Name:        c.name,
		StageName:   stage,
		StageNumber: number,
		TotalStages: total,
		Success:     err == nil,
		Error:       err,
		Duration:    duration,
		Timestamp:   clock.Now(),
	})
}

func (c *Chain[In, T]) getClock() clockz.Clock {
	if c.clock == nil {
		return clockz.RealClock
	}
	return c.clock
}

// Prefix returns the fixed first stage of the chain.
func (c *Chain[In, T]) Prefix() Stage[In, T] {
	return c.prefix
}

// Len returns the number of appended stages, not counting the prefix.
func (c *Chain[In, T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.stages)
}

// Names returns the prefix name followed by the appended stage names in order.
func (c *Chain[In, T]) Names() []Name {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]Name, 0, len(c.stages)+1)
	names = append(names, c.prefix.Name())
	for _, stage := range c.stages {
		names = append(names, stage.Name())
	}
	return names
}

// Name returns the name of this connector.
func (c *Chain[In, T]) Name() Name {
	return c.name
}

// Metrics returns the metrics registry for this connector.
func (c *Chain[In, T]) Metrics() *metricz.Registry {
	return c.metrics
}

// Tracer returns the tracer for this connector.
func (c *Chain[In, T]) Tracer() *tracez.Tracer {
	return c.tracer
}

// Close gracefully shuts down observability components.
func (c *Chain[In, T]) Close() error {
	if c.tracer != nil {
		c.tracer.Close()
	}
	c.hooks.Close()
	return nil
}

// OnStageComplete registers a handler called after each stage, including the
// prefix, succeeds or fails.
// The handler is called asynchronously.
func (c *Chain[In, T]) OnStageComplete(handler func(context.Context, ChainEvent) error) error {
	_, err := c.hooks.Hook(ChainEventStageComplete, handler)
	return err
}

// OnAllComplete registers a handler called when every stage has succeeded.
// The handler is called asynchronously.
func (c *Chain[In, T]) OnAllComplete(handler func(context.Context, ChainEvent) error) error {
	_, err := c.hooks.Hook(ChainEventAllComplete, handler)
	return err
}
