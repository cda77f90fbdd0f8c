// Package lazy provides deferred counterparts of the collections types.
//
// A [Sequence] records operations (map, filter, flatMap, take, skip,
// slice, unique, chunk, each) without running them. A terminal call
// compiles the recorded operations into one [iter.Seq] and pulls items
// through every stage in a single pass. Terminals stop pulling as soon as
// their answer is known:
//
//	calls := 0
//	ok := lazy.Range(1, 100_000).
//	    Map(func(n, _ int) int { calls++; return n }).
//	    Contains(50) // true, calls == 50
//
// Each stage numbers the items that reach it from 0, so the index passed to
// a callback declared after a Filter counts only the items that passed.
//
// A flatMap ends the pipeline for the items it expands. Its elements are
// emitted directly, so operations declared after it do not apply to them.
// A later take still stops the source, but only between expansions.
//
// # Errors
//
// Declaring an operation with an unusable argument (a nil callback, a chunk
// size <= 0, a range step of 0) is a programming error and panics with an
// error wrapping [ErrInvalidArgument] at the declaring call, before any item
// is pulled. A panic raised by a callback propagates out of the terminal
// call unchanged.
//
// # Deferred maps
//
// A [Map] stores concrete values and producers side by side. A producer
// runs the first time its key is read and at most once per Map instance:
//
//	m := lazy.FromProducers(map[string]func() int{"answer": compute})
//	m.Has("answer")           // true, compute not called
//	v, _ := m.Get("answer")   // compute called once
//	v, _ = m.Get("answer")    // cached
package lazy
