package lazy

import (
	"fmt"
	"iter"
	"reflect"
	"slices"
	"strings"

	"github.com/hasbyte1/go-lazy-collections/collections"
)

// Sequence is a lazily evaluated, immutable sequence of T.
//
// Chain methods (Map, Filter, Take, ...) only record an operation and return
// a new Sequence; the receiver is never modified and no callback runs.
// Terminal methods (All, First, Count, ...) compile the recorded operations
// into a single pass over the source and pull items one at a time, stopping
// as soon as their result is known:
//
//	calls := 0
//	first5 := lazy.Range(1, 1_000_000).
//	    Map(func(n, _ int) int { calls++; return n * 2 }).
//	    Take(5).
//	    All() // [2 4 6 8 10], calls == 5
//
// Each terminal call traverses the source again from the start, so a
// Sequence may be consumed any number of times as long as its source can.
type Sequence[T any] struct {
	source iter.Seq[any]
	ops    []operation
}

var _ collections.Enumerable[int] = (*Sequence[int])(nil)

// ─────────────────────────────────────────────────────────────────────────────
// Constructors
// ─────────────────────────────────────────────────────────────────────────────

// Empty returns a Sequence with no items.
func Empty[T any]() *Sequence[T] {
	return &Sequence[T]{source: sliceSeq[T](nil)}
}

// Of returns a Sequence over values.
func Of[T any](values ...T) *Sequence[T] {
	return From(values)
}

// From returns a Sequence over a copy of items.
func From[T any](items []T) *Sequence[T] {
	return &Sequence[T]{source: sliceSeq(slices.Clone(items))}
}

// FromSeq returns a Sequence reading seq. seq is pulled once per terminal
// call.
func FromSeq[T any](seq iter.Seq[T]) *Sequence[T] {
	return &Sequence[T]{source: func(yield func(any) bool) {
		for v := range seq {
			if !yield(v) {
				return
			}
		}
	}}
}

// FromValues returns a Sequence over the values of a keyed stream, for
// example [maps.All] or a file iterator's Records.
func FromValues[K, V any](seq iter.Seq2[K, V]) *Sequence[V] {
	return &Sequence[V]{source: func(yield func(any) bool) {
		for _, v := range seq {
			if !yield(v) {
				return
			}
		}
	}}
}

// FromSequence returns a lazy view over an eager sequence.
func FromSequence[T any](s *collections.Sequence[T]) *Sequence[T] {
	return FromSeq(s.Iter())
}

// Range returns the integers from start to end inclusive, advancing by
// step (default 1). A negative step counts down. Nothing is generated until
// a terminal call, so huge ranges are cheap to declare.
//
// Range panics with [ErrInvalidStep] if step is 0.
func Range(start, end int, step ...int) *Sequence[int] {
	st := 1
	if len(step) > 0 {
		st = step[0]
	}
	if st == 0 {
		panic(ErrInvalidStep)
	}
	return &Sequence[int]{ops: []operation{{kind: opRange, rng: rangeArgs{start, end, st}}}}
}

// ─────────────────────────────────────────────────────────────────────────────
// Pipeline plumbing
// ─────────────────────────────────────────────────────────────────────────────

// with returns a new Sequence of U sharing s's source with op appended.
func with[T, U any](s *Sequence[T], op operation) *Sequence[U] {
	if s.expands() && reflect.TypeFor[T]() != reflect.TypeFor[U]() {
		panic(fmt.Errorf("%w: %s cannot change the item type after FlatMap", ErrInvalidArgument, op.kind))
	}
	ops := make([]operation, len(s.ops), len(s.ops)+1)
	copy(ops, s.ops)
	return &Sequence[U]{source: s.source, ops: append(ops, op)}
}

// expands reports whether a flatMap has been declared.
func (s *Sequence[T]) expands() bool {
	return slices.ContainsFunc(s.ops, func(op operation) bool { return op.kind == opFlatMap })
}

// compile folds the declared operations over the source. The first flatMap
// ends the fold: its elements go straight to the output and the operations
// after it are skipped, except that a take bounds it between expansions.
func (s *Sequence[T]) compile() iter.Seq[any] {
	seq := s.source
	if seq == nil {
		seq = sliceSeq[T](nil)
	}
	for i, op := range s.ops {
		if op.kind == opFlatMap {
			return op.expand(seq, takeLimit(s.ops[i+1:]))
		}
		seq = op.apply(seq)
	}
	return seq
}

// takeLimit returns the smallest take in ops, or -1 if there is none.
func takeLimit(ops []operation) int {
	limit := -1
	for _, op := range ops {
		if op.kind == opTake && (limit < 0 || max(op.n, 0) < limit) {
			limit = max(op.n, 0)
		}
	}
	return limit
}

// Iter returns an iterator that runs the pipeline on demand.
func (s *Sequence[T]) Iter() iter.Seq[T] {
	pipeline := s.compile()
	return func(yield func(T) bool) {
		for v := range pipeline {
			if !yield(as[T](v)) {
				return
			}
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Chain methods
// ─────────────────────────────────────────────────────────────────────────────

// Map replaces every item with fn(item, index).
func (s *Sequence[T]) Map(fn func(T, int) T) *Sequence[T] {
	return MapTo(s, fn)
}

// Filter keeps the items for which fn(item, index) is true. index counts
// the items reaching the filter, so later stages see a contiguous index.
func (s *Sequence[T]) Filter(fn func(T, int) bool) *Sequence[T] {
	mustFunc(fn != nil, "Filter")
	return with[T, T](s, operation{kind: opFilter, predFn: func(v any, i int) bool { return fn(as[T](v), i) }})
}

// FlatMap replaces every item with the elements of fn(item, index). The
// elements are emitted as they are: stages declared after FlatMap do not
// see them, and neither does a second FlatMap.
//
// A later Take is the one exception. It is checked once each expansion has
// been emitted in full, so it stops the source but never cuts an expansion
// short:
//
//	lazy.Of(1, 2, 3).
//	    FlatMap(func(n, _ int) []int { return []int{n, n * 10} }).
//	    Take(3).
//	    All() // [1 10 2 20]
//
// Consumers that stop early, such as First, still stop mid-expansion.
// Stages after FlatMap must keep its item type; MapTo or Chunk there panics
// with [ErrInvalidArgument].
func (s *Sequence[T]) FlatMap(fn func(T, int) []T) *Sequence[T] {
	return FlatMapTo(s, fn)
}

// Take stops the pipeline after n items. n <= 0 yields nothing without
// pulling the source.
func (s *Sequence[T]) Take(n int) *Sequence[T] {
	return with[T, T](s, operation{kind: opTake, n: n})
}

// Skip discards the first n items reaching it.
func (s *Sequence[T]) Skip(n int) *Sequence[T] {
	return with[T, T](s, operation{kind: opSkip, n: max(n, 0)})
}

// Slice passes length items starting at offset. A negative length means
// no upper bound; a negative offset is treated as 0 because a lazy sequence
// has no known end to count from.
func (s *Sequence[T]) Slice(offset, length int) *Sequence[T] {
	return with[T, T](s, operation{kind: opSlice, offset: max(offset, 0), length: length})
}

// Unique drops items structurally equal to one already seen, keeping the
// first occurrence. Memory grows with the number of distinct items.
func (s *Sequence[T]) Unique() *Sequence[T] {
	return with[T, T](s, operation{kind: opUnique})
}

// Each calls fn(item, index) for every item that passes through, leaving
// the item unchanged.
func (s *Sequence[T]) Each(fn func(T, int)) *Sequence[T] {
	mustFunc(fn != nil, "Each")
	return with[T, T](s, operation{kind: opEach, eachFn: func(v any, i int) { fn(as[T](v), i) }})
}

// MapTo is the type-changing form of [Sequence.Map].
func MapTo[T, U any](s *Sequence[T], fn func(T, int) U) *Sequence[U] {
	mustFunc(fn != nil, "Map")
	return with[T, U](s, operation{kind: opMap, mapFn: func(v any, i int) any { return fn(as[T](v), i) }})
}

// FlatMapTo is the type-changing form of [Sequence.FlatMap].
func FlatMapTo[T, U any](s *Sequence[T], fn func(T, int) []U) *Sequence[U] {
	mustFunc(fn != nil, "FlatMap")
	return with[T, U](s, operation{kind: opFlatMap, flatFn: func(v any, i int) []any {
		out := fn(as[T](v), i)
		boxed := make([]any, len(out))
		for j, e := range out {
			boxed[j] = e
		}
		return boxed
	}})
}

// Chunk groups consecutive items into eager sequences of size. The last
// group holds the remainder, if any.
//
// Chunk panics with [ErrInvalidChunkSize] if size <= 0.
func Chunk[T any](s *Sequence[T], size int) *Sequence[*collections.Sequence[T]] {
	if size <= 0 {
		panic(fmt.Errorf("%w: %d", ErrInvalidChunkSize, size))
	}
	return with[T, *collections.Sequence[T]](s, operation{kind: opChunk, n: size, groupFn: func(buf []any) any {
		items := make([]T, len(buf))
		for i, v := range buf {
			items[i] = as[T](v)
		}
		return collections.From(items)
	}})
}

// ─────────────────────────────────────────────────────────────────────────────
// Terminals
// ─────────────────────────────────────────────────────────────────────────────

// All runs the pipeline and returns every item.
func (s *Sequence[T]) All() []T {
	out := []T{}
	for v := range s.Iter() {
		out = append(out, v)
	}
	return out
}

// ToSlice is an alias for [Sequence.All].
func (s *Sequence[T]) ToSlice() []T { return s.All() }

// ToEager runs the pipeline into an eager sequence.
func (s *Sequence[T]) ToEager() *collections.Sequence[T] {
	return collections.FromSeq(s.Iter())
}

// First returns the first item, optionally the first matching fns[0]. It
// stops pulling as soon as one is found.
func (s *Sequence[T]) First(fns ...func(T) bool) (T, bool) {
	for v := range s.Iter() {
		if len(fns) == 0 || fns[0](v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Last returns the last item, optionally the last matching fns[0]. It
// always runs the whole pipeline.
func (s *Sequence[T]) Last(fns ...func(T) bool) (T, bool) {
	var (
		last  T
		found bool
	)
	for v := range s.Iter() {
		if len(fns) == 0 || fns[0](v) {
			last, found = v, true
		}
	}
	return last, found
}

// Count runs the pipeline and returns the number of items.
func (s *Sequence[T]) Count() int {
	n := 0
	for range s.compile() {
		n++
	}
	return n
}

// Contains reports whether an item deeply equal to value is produced,
// stopping at the first match.
func (s *Sequence[T]) Contains(value T) bool {
	return s.Any(func(v T) bool { return reflect.DeepEqual(v, value) })
}

// Any reports whether fn holds for at least one item, stopping at the
// first match.
func (s *Sequence[T]) Any(fn func(T) bool) bool {
	_, ok := s.First(fn)
	return ok
}

// Every reports whether fn holds for every item, stopping at the first
// failure. It is true for an empty sequence.
func (s *Sequence[T]) Every(fn func(T) bool) bool {
	for v := range s.Iter() {
		if !fn(v) {
			return false
		}
	}
	return true
}

// At returns the item at position index, pulling no further than needed.
// It returns [collections.ErrIndexOutOfRange] when the pipeline is shorter.
func (s *Sequence[T]) At(index int) (T, error) {
	var zero T
	if index < 0 {
		return zero, fmt.Errorf("%w: %d", collections.ErrIndexOutOfRange, index)
	}
	i := 0
	for v := range s.Iter() {
		if i == index {
			return v, nil
		}
		i++
	}
	return zero, fmt.Errorf("%w: %d", collections.ErrIndexOutOfRange, index)
}

// Reduce folds the items into a single T.
func (s *Sequence[T]) Reduce(fn func(carry, item T) T, initial T) T {
	acc := initial
	for v := range s.Iter() {
		acc = fn(acc, v)
	}
	return acc
}

// Reduce folds the items of s into a value of type U.
func Reduce[T, U any](s *Sequence[T], fn func(U, T, int) U, initial U) U {
	acc := initial
	i := 0
	for v := range s.Iter() {
		acc = fn(acc, v, i)
		i++
	}
	return acc
}

// IsEmpty reports whether the pipeline produces no item. It pulls at most
// one.
func (s *Sequence[T]) IsEmpty() bool {
	for range s.compile() {
		return false
	}
	return true
}

// IsNotEmpty is the negation of [Sequence.IsEmpty].
func (s *Sequence[T]) IsNotEmpty() bool { return !s.IsEmpty() }

// Join runs the pipeline and joins the %v form of every item with sep.
func (s *Sequence[T]) Join(sep string) string {
	var sb strings.Builder
	first := true
	for v := range s.Iter() {
		if !first {
			sb.WriteString(sep)
		}
		first = false
		fmt.Fprint(&sb, v)
	}
	return sb.String()
}

// ToMap runs the pipeline into a lazy map keyed by keyFn(item, index).
// Later items overwrite earlier ones with the same key.
func ToMap[T any, K comparable](s *Sequence[T], keyFn func(T, int) K) *Map[K, T] {
	m := EmptyMap[K, T]()
	i := 0
	for v := range s.Iter() {
		m.set(keyFn(v, i), Eager(v))
		i++
	}
	return m
}
