package collections

// This file contains package-level generic functions for operations that
// transform a Sequence[T] into something parameterised by another type.
//
// Go generics do not allow methods to introduce their own type parameters, so
// these operations are stand-alone functions that compose with method chains:
//
//	names := collections.MapTo(
//	    collections.Of(1, 2, 3).Filter(func(n, _ int) bool { return n > 1 }),
//	    func(n, _ int) string { return strconv.Itoa(n) },
//	)

// MapTo applies fn to every item and returns a new Sequence[U].
func MapTo[T, U any](s *Sequence[T], fn func(T, int) U) *Sequence[U] {
	out := make([]U, len(s.items))
	for i, item := range s.items {
		out[i] = fn(item, i)
	}
	return &Sequence[U]{items: out}
}

// FlatMapTo applies fn to every item and flattens the resulting slices.
//
//	words := collections.FlatMapTo(collections.Of("hello world", "foo"),
//	    func(s string, _ int) []string { return strings.Fields(s) })
//	// → [hello world foo]
func FlatMapTo[T, U any](s *Sequence[T], fn func(T, int) []U) *Sequence[U] {
	out := make([]U, 0, len(s.items))
	for i, item := range s.items {
		out = append(out, fn(item, i)...)
	}
	return &Sequence[U]{items: out}
}

// Reduce folds a Sequence[T] into a value of type U.
func Reduce[T, U any](s *Sequence[T], fn func(U, T, int) U, initial U) U {
	result := initial
	for i, item := range s.items {
		result = fn(result, item, i)
	}
	return result
}

// Pluck extracts a single field U from every item.
//
//	names := collections.Pluck(users, func(u User) string { return u.Name })
func Pluck[T, U any](s *Sequence[T], fn func(T) U) *Sequence[U] {
	return MapTo(s, func(item T, _ int) U { return fn(item) })
}

// PluckPath extracts the value at a dot-separated path from every record,
// skipping records where the path does not resolve. It is meant for decoded
// JSON objects and CSV rows.
//
//	cities := collections.PluckPath(records, "address.city")
func PluckPath[T any](s *Sequence[T], path string) *Sequence[any] {
	out := make([]any, 0, len(s.items))
	for _, item := range s.items {
		if v, ok := Lookup(item, path); ok {
			out = append(out, v)
		}
	}
	return &Sequence[any]{items: out}
}

// GroupBy groups items by the comparable key K extracted by fn. Groups are
// returned as an ordered Map in first-seen key order.
func GroupBy[T any, K comparable](s *Sequence[T], fn func(T) K) *Map[K, *Sequence[T]] {
	out := EmptyMap[K, *Sequence[T]]()
	for _, item := range s.items {
		k := fn(item)
		g, ok := out.items[k]
		if !ok {
			g = Empty[T]()
			out.keys = append(out.keys, k)
		}
		g.items = append(g.items, item)
		out.items[k] = g
	}
	return out
}

// KeyBy builds an ordered Map keyed by fn. When several items share a key
// the last one wins.
func KeyBy[T any, K comparable](s *Sequence[T], fn func(T) K) *Map[K, T] {
	return ToMap(s, func(item T, _ int) K { return fn(item) })
}

// ToMap builds an ordered Map, keying each item with keyFn(item, index).
func ToMap[T any, K comparable](s *Sequence[T], keyFn func(T, int) K) *Map[K, T] {
	out := EmptyMap[K, T]()
	for i, item := range s.items {
		out.set(keyFn(item, i), item)
	}
	return out
}

// Zip combines two sequences element-by-element into Pairs, stopping at the
// shorter one.
func Zip[A, B any](a *Sequence[A], b *Sequence[B]) *Sequence[Pair[A, B]] {
	n := min(len(a.items), len(b.items))
	out := make([]Pair[A, B], n)
	for i := 0; i < n; i++ {
		out[i] = Pair[A, B]{First: a.items[i], Second: b.items[i]}
	}
	return &Sequence[Pair[A, B]]{items: out}
}

// Combine creates an ordered Map from equal-length key and value slices.
// Returns [ErrMismatchedLengths] if len(keys) != len(values).
func Combine[K comparable, V any](keys []K, values []V) (*Map[K, V], error) {
	if len(keys) != len(values) {
		return nil, ErrMismatchedLengths
	}
	out := EmptyMap[K, V]()
	for i, k := range keys {
		out.set(k, values[i])
	}
	return out, nil
}

// Collapse flattens a Sequence of Sequences one level.
//
//	flat := collections.Collapse(collections.Of(collections.Of(1, 2), collections.Of(3)))
//	// → [1 2 3]
func Collapse[T any](s *Sequence[*Sequence[T]]) *Sequence[T] {
	total := 0
	for _, chunk := range s.items {
		total += len(chunk.items)
	}
	out := make([]T, 0, total)
	for _, chunk := range s.items {
		out = append(out, chunk.items...)
	}
	return &Sequence[T]{items: out}
}
