// Package testing provides test utilities for stagez pipelines.
//
// MockStage stands in for any Stage[In, Out]: it records every call, returns
// configured values or errors, and comes with assertion helpers for checking
// how often, and with what, a stage was invoked.
//
// Example usage:
//
//	func TestArchive(t *testing.T) {
//		store := stagetest.NewMockStage[stagez.Pair[string, io.ReadCloser], stagez.Unit](t, "store")
//
//		pipeline := stagez.NewThen("archive", download, store)
//		_, err := pipeline.Process(context.Background(), target)
//
//		if err == nil {
//			t.Fatal("expected download to fail")
//		}
//		stagetest.AssertNotProcessed(t, store)
//	}
package testing

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zoobzio/stagez"
)

// MockStage provides a configurable mock implementation of stagez.Stage[In, Out].
// It tracks calls, allows configuring return values, and provides assertion
// helpers for testing pipeline behavior.
type MockStage[In, Out any] struct { //nolint:govet // fieldalignment: Test helper struct optimized for functionality over memory efficiency
	t           *testing.T
	name        string
	callCount   int64
	lastInput   In
	returnVal   Out
	returnErr   error
	fn          func(context.Context, In) (Out, error)
	panicMsg    string
	mu          sync.RWMutex
	callHistory []MockCall[In]
	maxHistory  int
}

// MockCall represents a single call to the mock stage.
type MockCall[In any] struct {
	Input     In
	Timestamp time.Time
	Context   context.Context
}

// NewMockStage creates a new mock stage for testing.
// The stage tracks all calls and returns the zero Out until configured.
func NewMockStage[In, Out any](t *testing.T, name string) *MockStage[In, Out] {
	return &MockStage[In, Out]{
		t:          t,
		name:       name,
		maxHistory: 100, // Keep last 100 calls by default
	}
}

// WithReturn configures the mock to return specific values.
// The mock will return these values for all subsequent calls.
func (m *MockStage[In, Out]) WithReturn(val Out, err error) *MockStage[In, Out] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.returnVal = val
	m.returnErr = err
	m.fn = nil
	return m
}

// WithFunc configures the mock to compute its result from the input.
// It takes precedence over WithReturn until WithReturn is called again.
func (m *MockStage[In, Out]) WithFunc(fn func(context.Context, In) (Out, error)) *MockStage[In, Out] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fn = fn
	return m
}

// WithPanic configures the mock to panic with a specific message.
func (m *MockStage[In, Out]) WithPanic(msg string) *MockStage[In, Out] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panicMsg = msg
	return m
}

// WithHistorySize configures how many calls to keep in history.
// Set to 0 to disable history tracking.
func (m *MockStage[In, Out]) WithHistorySize(size int) *MockStage[In, Out] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxHistory = size
	if size == 0 {
		m.callHistory = nil
	} else if len(m.callHistory) > size {
		m.callHistory = m.callHistory[len(m.callHistory)-size:]
	}
	return m
}

// Name returns the name of the mock stage.
func (m *MockStage[In, Out]) Name() stagez.Name {
	return stagez.Name(m.name)
}

// Process implements stagez.Stage[In, Out]. It records the call and returns
// the configured values.
func (m *MockStage[In, Out]) Process(ctx context.Context, in In) (Out, error) {
	atomic.AddInt64(&m.callCount, 1)

	m.mu.Lock()
	m.lastInput = in
	if m.maxHistory > 0 {
		m.callHistory = append(m.callHistory, MockCall[In]{
			Input:     in,
			Timestamp: time.Now(),
			Context:   ctx,
		})
		if len(m.callHistory) > m.maxHistory {
			m.callHistory = m.callHistory[1:] // Remove oldest
		}
	}

	fn := m.fn
	returnVal := m.returnVal
	returnErr := m.returnErr
	panicMsg := m.panicMsg
	m.mu.Unlock()

	if panicMsg != "" {
		panic(panicMsg)
	}

	if fn != nil {
		return fn(ctx, in)
	}
	return returnVal, returnErr
}

// CallCount returns the number of times Process has been called.
func (m *MockStage[In, Out]) CallCount() int {
	return int(atomic.LoadInt64(&m.callCount))
}

// LastInput returns the input from the most recent call.
func (m *MockStage[In, Out]) LastInput() In {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastInput
}

// CallHistory returns a copy of all recorded calls.
// Returns nil if history tracking is disabled.
func (m *MockStage[In, Out]) CallHistory() []MockCall[In] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.maxHistory == 0 {
		return nil
	}
	history := make([]MockCall[In], len(m.callHistory))
	copy(history, m.callHistory)
	return history
}

// Reset clears all call tracking.
func (m *MockStage[In, Out]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	atomic.StoreInt64(&m.callCount, 0)
	m.lastInput = *new(In)
	m.callHistory = nil
}

// Assertion Helpers

// AssertProcessed verifies that a mock stage was called exactly n times.
func AssertProcessed[In, Out any](t *testing.T, mock *MockStage[In, Out], expectedCalls int) {
	t.Helper()
	actualCalls := mock.CallCount()
	if actualCalls != expectedCalls {
		t.Errorf("expected mock stage %s to be called %d times, but was called %d times",
			mock.name, expectedCalls, actualCalls)
	}
}

// AssertNotProcessed verifies that a mock stage was never called.
func AssertNotProcessed[In, Out any](t *testing.T, mock *MockStage[In, Out]) {
	t.Helper()
	AssertProcessed(t, mock, 0)
}

// AssertProcessedWith verifies that a mock stage was last called with specific input.
func AssertProcessedWith[In comparable, Out any](t *testing.T, mock *MockStage[In, Out], expectedInput In) {
	t.Helper()
	if mock.CallCount() == 0 {
		t.Errorf("expected mock stage %s to be called with input %v, but it was never called",
			mock.name, expectedInput)
		return
	}

	actualInput := mock.LastInput()
	if actualInput != expectedInput {
		t.Errorf("expected mock stage %s to be called with input %v, but was called with %v",
			mock.name, expectedInput, actualInput)
	}
}

// AssertKind verifies that err is a *stagez.Error of the given kind.
func AssertKind(t *testing.T, err error, kind stagez.Kind) {
	t.Helper()
	stageErr, ok := err.(*stagez.Error) //nolint:errorlint // connectors return the leaf error itself
	if !ok {
		t.Errorf("expected *stagez.Error of kind %s, got %T: %v", kind, err, err)
		return
	}
	if stageErr.Kind != kind {
		t.Errorf("expected error kind %s, got %s", kind, stageErr.Kind)
	}
}
