package stagez

import (
	"context"
	"sync"
)

// probe records every value it receives and delegates to fn.
type probe[In, Out any] struct {
	fn    func(In) (Out, error)
	name  Name
	seen  []In
	mu    sync.Mutex
	calls int
}

func newProbe[In, Out any](name Name, fn func(In) (Out, error)) *probe[In, Out] {
	return &probe[In, Out]{name: name, fn: fn}
}

func (p *probe[In, Out]) Process(_ context.Context, in In) (Out, error) {
	p.mu.Lock()
	p.calls++
	p.seen = append(p.seen, in)
	p.mu.Unlock()
	return p.fn(in)
}

func (p *probe[In, Out]) Name() Name {
	return p.name
}

func (p *probe[In, Out]) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *probe[In, Out]) Seen() []In {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]In(nil), p.seen...)
}

// failing returns a probe that always fails with err.
func failing[In, Out any](name Name, err error) *probe[In, Out] {
	return newProbe(name, func(In) (Out, error) {
		var zero Out
		return zero, err
	})
}

// record is a Cloner used to check that branches get isolated copies.
type record struct {
	Tags []string
	ID   int
}

func (r record) Clone() record {
	tags := make([]string, len(r.Tags))
	copy(tags, r.Tags)
	return record{ID: r.ID, Tags: tags}
}
