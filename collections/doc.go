// Package collections provides generic eager collection types and the
// helper functions shared with the lazy package.
//
// # Overview
//
// Three types cover ordered, keyed and mutable data:
//
//   - [Sequence][T]: an immutable ordered list.
//   - [Map][K, V]: an immutable map that remembers insertion order.
//   - [Collection][K, V]: a mutable keyed collection with count/entries
//     caches and lazy pipeline methods.
//
//	result := collections.Of(1, 2, 3, 4, 5, 6, 7, 8, 9, 10).
//	    Filter(func(n, _ int) bool { return n%2 == 0 }).
//	    Reverse().
//	    Take(3).
//	    Implode(", ", strconv.Itoa) // → "10, 8, 6"
//
// # Immutability
//
// Every transformation on Sequence and Map returns a new value and leaves
// the receiver unchanged, so both are safe to share across goroutines.
// Collection is the exception: Set, Unset, Remove and [Push] mutate in place.
//
// # Errors
//
// Accessors that address a specific index or key return an error wrapping a
// sentinel from errors.go ([ErrIndexOutOfRange], [ErrKeyNotFound]); soft
// accessors (Get, First, GetOrDefault) return a presence flag or a default.
//
// # Type-transforming operations
//
// Go methods cannot introduce type parameters, so operations that change the
// element type are package-level functions:
//
//	labels := collections.MapTo(collections.Of(1, 2, 3),
//	    func(n, _ int) string { return "#" + strconv.Itoa(n) })
//
// Package-level functions: [MapTo], [FlatMapTo], [Reduce], [Pluck],
// [PluckPath], [GroupBy], [KeyBy], [ToMap], [Zip], [Combine], [Collapse],
// [ReduceEntries], [Sum], [Avg], [Min], [Max].
//
// # Lazy pipelines on Collection
//
// [Collection.LazyMap], [Collection.LazyFilter], [Collection.LazyTake],
// [LazyChunkCollection] and [Collection.LazyPipeline] declare work that runs
// only when the result is consumed:
//
//	c := collections.LazyRange(1, 1_000_000)
//	out, _ := c.LazyPipeline(
//	    collections.PipeMap(func(v, _ int) int { return v * 2 }),
//	    collections.PipeTake[int, int](3),
//	)
//	out.Values().All() // [2 4 6], three source values pulled
//
// # Deferred values
//
// [Deferred] is an explicit thunk: the value is built on the first call to
// Get. There is no transparent proxying, callers force the value themselves.
package collections
