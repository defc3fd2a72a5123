package resilience

import "sync"

// SingleFlight collapses concurrent calls sharing a key into one execution.
// Results are not retained after the call returns.
type SingleFlight[T any] struct {
	mu    sync.Mutex
	calls map[string]*flightCall[T]
}

type flightCall[T any] struct {
	wg  sync.WaitGroup
	val T
	err error
}

// Do runs fn once per in-flight key. shared reports whether the result was
// produced by another caller's execution.
func (g *SingleFlight[T]) Do(key string, fn func() (T, error)) (val T, err error, shared bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*flightCall[T])
	}

	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		c.wg.Wait()
		return c.val, c.err, true
	}

	c := &flightCall[T]{}
	c.wg.Add(1)
	g.calls[key] = c
	g.mu.Unlock()

	defer func() {
		c.wg.Done()
		g.mu.Lock()
		delete(g.calls, key)
		g.mu.Unlock()
	}()

	c.val, c.err = fn()
	return c.val, c.err, false
}

// FlightResult is the outcome delivered by DoChan.
type FlightResult[T any] struct {
	Val    T
	Err    error
	Shared bool
}

// DoChan is Do without blocking the caller, so a caller can stop waiting
// while the shared execution runs to completion for the others.
func (g *SingleFlight[T]) DoChan(key string, fn func() (T, error)) <-chan FlightResult[T] {
	ch := make(chan FlightResult[T], 1)
	go func() {
		val, err, shared := g.Do(key, fn)
		ch <- FlightResult[T]{Val: val, Err: err, Shared: shared}
	}()
	return ch
}
