package collections

import "sync"

// Deferred is a value whose construction is postponed until Get is first
// called. The factory runs at most once; later calls return the same value.
//
// Unlike a transparent proxy a Deferred must be forced explicitly:
//
//	conn := collections.Defer(func() *Client { return dial(addr) })
//	// nothing dialled yet
//	c := conn.Get()
type Deferred[T any] struct {
	once    sync.Once
	factory func() T
	value   T
	done    bool
}

// Defer wraps factory in a Deferred.
func Defer[T any](factory func() T) *Deferred[T] {
	return &Deferred[T]{factory: factory}
}

// Resolve wraps an already computed value.
func Resolve[T any](value T) *Deferred[T] {
	d := &Deferred[T]{value: value, done: true}
	d.once.Do(func() {})
	return d
}

// Get returns the value, running the factory on first use.
func (d *Deferred[T]) Get() T {
	d.once.Do(func() {
		d.value = d.factory()
		d.factory = nil
		d.done = true
	})
	return d.value
}

// Resolved reports whether the value has been computed.
func (d *Deferred[T]) Resolved() bool {
	return d.done
}
