package collections

import (
	"fmt"
	"iter"
	"reflect"
	"slices"

	"github.com/hasbyte1/go-lazy-collections/internal/fingerprint"
)

// Collection is a mutable, insertion-ordered keyed collection.
//
// A Collection is backed either by its own entries or by a lazy
// [iter.Seq2] source (see [Lazy], [LazyRange] and the Lazy* methods). A
// lazily backed collection pulls its source only when a terminal method such
// as Entries, Count or Values needs it, and the first mutation materializes it.
//
// Count and Entries are cached. Every mutating method (Set, Unset, Remove,
// [Push]) clears both caches before returning, so readers never observe a
// stale view.
//
// Unlike [Sequence] and [Map], a Collection is not safe for concurrent use.
type Collection[K comparable, V any] struct {
	keys   []K
	items  map[K]V
	source iter.Seq2[K, V]

	count        int
	countCached  bool
	entriesCache []Pair[K, V]
}

// ─────────────────────────────────────────────────────────────────────────────
// Constructors
// ─────────────────────────────────────────────────────────────────────────────

// NewCollection creates an empty Collection.
func NewCollection[K comparable, V any]() *Collection[K, V] {
	return &Collection[K, V]{items: map[K]V{}}
}

// FromPairs creates a Collection from ordered key/value pairs.
func FromPairs[K comparable, V any](pairs ...Pair[K, V]) *Collection[K, V] {
	c := &Collection[K, V]{items: make(map[K]V, len(pairs))}
	for _, p := range pairs {
		c.put(p.First, p.Second)
	}
	return c
}

// List creates a Collection keyed 0..n-1 from values.
func List[V any](values ...V) *Collection[int, V] {
	c := &Collection[int, V]{keys: make([]int, len(values)), items: make(map[int]V, len(values))}
	for i, v := range values {
		c.keys[i] = i
		c.items[i] = v
	}
	return c
}

// Lazy creates a Collection backed by seq. Nothing is pulled until a
// terminal method runs.
func Lazy[K comparable, V any](seq iter.Seq2[K, V]) *Collection[K, V] {
	return &Collection[K, V]{source: seq}
}

// LazyRange creates a lazily backed Collection over start..end inclusive,
// keyed by position. It panics with [ErrInvalidStep] if step is 0.
func LazyRange(start, end int, step ...int) *Collection[int, int] {
	st := 1
	if len(step) > 0 {
		st = step[0]
	}
	if st == 0 {
		panic(fmt.Errorf("%w: 0", ErrInvalidStep))
	}
	return Lazy(func(yield func(int, int) bool) {
		i := 0
		for v := range rangeInts(start, end, st) {
			if !yield(i, v) {
				return
			}
			i++
		}
	})
}

// LazyObjects creates a Collection of [Deferred] values, one per factory.
// No factory runs until its value's Get is called.
func LazyObjects[K comparable, V any](factories ...Pair[K, func() V]) *Collection[K, *Deferred[V]] {
	c := &Collection[K, *Deferred[V]]{items: make(map[K]*Deferred[V], len(factories))}
	for _, f := range factories {
		c.put(f.First, Defer(f.Second))
	}
	return c
}

// ─────────────────────────────────────────────────────────────────────────────
// Internal state
// ─────────────────────────────────────────────────────────────────────────────

func (c *Collection[K, V]) put(k K, v V) {
	if _, ok := c.items[k]; !ok {
		c.keys = append(c.keys, k)
	}
	c.items[k] = v
}

func (c *Collection[K, V]) invalidate() {
	c.countCached = false
	c.entriesCache = nil
}

// materializeInPlace replaces a lazy source by its entries.
func (c *Collection[K, V]) materializeInPlace() {
	if c.source == nil {
		return
	}
	entries := c.entries()
	c.source = nil
	c.keys = make([]K, 0, len(entries))
	c.items = make(map[K]V, len(entries))
	for _, e := range entries {
		c.put(e.First, e.Second)
	}
}

func (c *Collection[K, V]) entries() []Pair[K, V] {
	if c.entriesCache != nil {
		return c.entriesCache
	}
	out := []Pair[K, V]{}
	for k, v := range c.Iter() {
		out = append(out, Pair[K, V]{First: k, Second: v})
	}
	c.entriesCache = out
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Read access
// ─────────────────────────────────────────────────────────────────────────────

// Iter returns an iterator over the entries. For an entry-backed collection
// it reflects mutations made before iteration starts.
func (c *Collection[K, V]) Iter() iter.Seq2[K, V] {
	if c.entriesCache != nil {
		cached := c.entriesCache
		return func(yield func(K, V) bool) {
			for _, e := range cached {
				if !yield(e.First, e.Second) {
					return
				}
			}
		}
	}
	if c.source != nil {
		return c.source
	}
	return func(yield func(K, V) bool) {
		for _, k := range slices.Clone(c.keys) {
			v, ok := c.items[k]
			if !ok {
				continue
			}
			if !yield(k, v) {
				return
			}
		}
	}
}

// Get returns the value stored under key.
func (c *Collection[K, V]) Get(key K) (V, bool) {
	if c.source != nil {
		for _, e := range c.entries() {
			if e.First == key {
				return e.Second, true
			}
		}
		var zero V
		return zero, false
	}
	v, ok := c.items[key]
	return v, ok
}

// Has reports whether key is present.
func (c *Collection[K, V]) Has(key K) bool {
	_, ok := c.Get(key)
	return ok
}

// Count returns the number of entries. The result is cached until the next
// mutation; a lazy source is walked once without being buffered.
func (c *Collection[K, V]) Count() int {
	if c.countCached {
		return c.count
	}
	switch {
	case c.entriesCache != nil:
		c.count = len(c.entriesCache)
	case c.source != nil:
		n := 0
		for range c.source {
			n++
		}
		c.count = n
	default:
		c.count = len(c.keys)
	}
	c.countCached = true
	return c.count
}

// IsEmpty reports whether the collection has no entries.
func (c *Collection[K, V]) IsEmpty() bool {
	for range c.Iter() {
		return false
	}
	return true
}

// Entries returns the entries in order. The slice is a copy.
func (c *Collection[K, V]) Entries() []Pair[K, V] {
	return slices.Clone(c.entries())
}

// All returns the entries as a Go map.
func (c *Collection[K, V]) All() map[K]V {
	out := make(map[K]V)
	for k, v := range c.Iter() {
		out[k] = v
	}
	return out
}

// Keys returns the keys in order.
func (c *Collection[K, V]) Keys() *Sequence[K] {
	entries := c.entries()
	out := make([]K, len(entries))
	for i, e := range entries {
		out[i] = e.First
	}
	return &Sequence[K]{items: out}
}

// Values returns the values in order.
func (c *Collection[K, V]) Values() *Sequence[V] {
	entries := c.entries()
	out := make([]V, len(entries))
	for i, e := range entries {
		out[i] = e.Second
	}
	return &Sequence[V]{items: out}
}

// Contains reports whether a value deeply equal to value is present.
func (c *Collection[K, V]) Contains(value V) bool {
	for _, v := range c.Iter() {
		if reflect.DeepEqual(v, value) {
			return true
		}
	}
	return false
}

// First returns the first value, optionally matching fns[0].
func (c *Collection[K, V]) First(fns ...func(V, K) bool) (V, bool) {
	for k, v := range c.Iter() {
		if len(fns) == 0 || fns[0](v, k) {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// Last returns the last value, optionally matching fns[0].
func (c *Collection[K, V]) Last(fns ...func(V, K) bool) (V, bool) {
	entries := c.entries()
	for i := len(entries) - 1; i >= 0; i-- {
		if len(fns) == 0 || fns[0](entries[i].Second, entries[i].First) {
			return entries[i].Second, true
		}
	}
	var zero V
	return zero, false
}

// Each calls fn(value, key) for every entry and returns c.
func (c *Collection[K, V]) Each(fn func(V, K)) *Collection[K, V] {
	for k, v := range c.Iter() {
		fn(v, k)
	}
	return c
}

// Reduce folds the values in order.
func (c *Collection[K, V]) Reduce(fn func(carry V, value V, key K) V, initial V) V {
	acc := initial
	for k, v := range c.Iter() {
		acc = fn(acc, v, k)
	}
	return acc
}

// IsLazy reports whether the collection is still backed by a lazy source.
func (c *Collection[K, V]) IsLazy() bool { return c.source != nil }

// Materialize returns an entry-backed copy of c.
func (c *Collection[K, V]) Materialize() *Collection[K, V] {
	return FromPairs(c.entries()...)
}

// ─────────────────────────────────────────────────────────────────────────────
// Mutation
// ─────────────────────────────────────────────────────────────────────────────

// Set stores value under key, appending key if it is new.
func (c *Collection[K, V]) Set(key K, value V) {
	c.materializeInPlace()
	c.put(key, value)
	c.invalidate()
}

// Unset deletes key. It is a no-op when key is absent.
func (c *Collection[K, V]) Unset(key K) {
	c.materializeInPlace()
	if _, ok := c.items[key]; !ok {
		return
	}
	delete(c.items, key)
	c.keys = slices.DeleteFunc(c.keys, func(k K) bool { return k == key })
	c.invalidate()
}

// Remove deletes the first entry whose value is deeply equal to value and
// reports whether one was found.
func (c *Collection[K, V]) Remove(value V) bool {
	c.materializeInPlace()
	for _, k := range c.keys {
		if reflect.DeepEqual(c.items[k], value) {
			c.Unset(k)
			return true
		}
	}
	return false
}

// Push appends values to an int-keyed collection, continuing after the
// largest existing key.
func Push[V any](c *Collection[int, V], values ...V) {
	c.materializeInPlace()
	next := 0
	if len(c.keys) > 0 {
		next = slices.Max(c.keys) + 1
	}
	for i, v := range values {
		c.put(next+i, v)
	}
	c.invalidate()
}

// ─────────────────────────────────────────────────────────────────────────────
// Eager transformations
// ─────────────────────────────────────────────────────────────────────────────

// Map returns a new Collection with each value replaced by fn(value, key).
func (c *Collection[K, V]) Map(fn func(V, K) V) *Collection[K, V] {
	return c.LazyMap(fn).Materialize()
}

// Filter returns a new Collection with the entries for which fn is true.
func (c *Collection[K, V]) Filter(fn func(V, K) bool) *Collection[K, V] {
	return c.LazyFilter(fn).Materialize()
}

// SortKeys returns a new Collection ordered by key in natural order.
func (c *Collection[K, V]) SortKeys() *Collection[K, V] {
	entries := slices.Clone(c.entries())
	slices.SortStableFunc(entries, func(a, b Pair[K, V]) int { return CompareNatural(a.First, b.First) })
	return FromPairs(entries...)
}

// Sort returns a new Collection ordered by value using cmp, keeping keys.
func (c *Collection[K, V]) Sort(cmp func(a, b V) int) *Collection[K, V] {
	entries := slices.Clone(c.entries())
	slices.SortStableFunc(entries, func(a, b Pair[K, V]) int { return cmp(a.Second, b.Second) })
	return FromPairs(entries...)
}

// Reverse returns a new Collection with the entries in reverse order.
func (c *Collection[K, V]) Reverse() *Collection[K, V] {
	entries := slices.Clone(c.entries())
	slices.Reverse(entries)
	return FromPairs(entries...)
}

// Slice returns at most length entries starting at offset, keeping keys.
// A negative offset counts from the end; a negative length means to the end.
func (c *Collection[K, V]) Slice(offset, length int) *Collection[K, V] {
	return FromPairs(From(c.entries()).Slice(offset, length).items...)
}

// Take returns the first n entries, or the last -n entries when n < 0.
func (c *Collection[K, V]) Take(n int) *Collection[K, V] {
	return FromPairs(From(c.entries()).Take(n).items...)
}

// Unique returns a new Collection without entries whose value is
// structurally equal to an earlier one.
func (c *Collection[K, V]) Unique() *Collection[K, V] {
	seen := fingerprint.Set{}
	return c.Filter(func(v V, _ K) bool { return seen.Add(v) })
}

// ─────────────────────────────────────────────────────────────────────────────
// Lazy transformations
//
// The Lazy* methods return lazily backed collections that read c when they
// are consumed, not when they are declared.
// ─────────────────────────────────────────────────────────────────────────────

// LazyMap returns a lazily backed Collection mapping each value with fn.
func (c *Collection[K, V]) LazyMap(fn func(V, K) V) *Collection[K, V] {
	return Lazy(mapStage(c.Iter, fn))
}

// LazyFilter returns a lazily backed Collection keeping the entries for which
// fn is true. Keys are preserved.
func (c *Collection[K, V]) LazyFilter(fn func(V, K) bool) *Collection[K, V] {
	return Lazy(filterStage(c.Iter, fn))
}

// LazyTake returns the first n entries lazily. A negative n selects the last
// -n entries, which requires materializing c.
func (c *Collection[K, V]) LazyTake(n int) *Collection[K, V] {
	if n < 0 {
		return c.Take(n)
	}
	return Lazy(takeStage(c.Iter, n))
}

// LazyPipeline fuses ops into one lazily backed Collection. Each op wraps
// the stage before it, so a single pass over c drives the whole chain.
// Returns [ErrInvalidOperation] for a nil or malformed op.
func (c *Collection[K, V]) LazyPipeline(ops ...PipelineOp[K, V]) (*Collection[K, V], error) {
	stage := c.Iter
	for i, op := range ops {
		if op == nil {
			return nil, fmt.Errorf("%w: op %d is nil", ErrInvalidOperation, i)
		}
		if err := op.validate(); err != nil {
			return nil, fmt.Errorf("%w: op %d: %v", ErrInvalidOperation, i, err)
		}
		next := op.wrap(stage)
		stage = func() iter.Seq2[K, V] { return next }
	}
	return Lazy(stage()), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Chunking
//
// These are package functions because a method of Collection cannot return
// a Collection of Collections.
// ─────────────────────────────────────────────────────────────────────────────

// ChunkCollection splits c into collections of size, keeping keys.
// Returns [ErrInvalidChunkSize] if size <= 0.
func ChunkCollection[K comparable, V any](c *Collection[K, V], size int) ([]*Collection[K, V], error) {
	chunks, err := LazyChunkCollection(c, size)
	if err != nil {
		return nil, err
	}
	return chunks.Values().All(), nil
}

// LazyChunkCollection groups the entries of c into collections of size,
// built on demand and keyed 0, 1, 2, ...
// Returns [ErrInvalidChunkSize] if size <= 0.
func LazyChunkCollection[K comparable, V any](c *Collection[K, V], size int) (*Collection[int, *Collection[K, V]], error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChunkSize, size)
	}
	return Lazy(func(yield func(int, *Collection[K, V]) bool) {
		chunk := NewCollection[K, V]()
		n := 0
		for k, v := range c.Iter() {
			chunk.put(k, v)
			if len(chunk.keys) == size {
				if !yield(n, chunk) {
					return
				}
				n++
				chunk = NewCollection[K, V]()
			}
		}
		if len(chunk.keys) > 0 {
			yield(n, chunk)
		}
	}), nil
}
