package collections

import (
	"encoding/json"
	"fmt"
	"iter"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/hasbyte1/go-lazy-collections/internal/fingerprint"
)

// Sequence is an immutable, ordered list of T.
//
// Every method that transforms the sequence returns a *new* Sequence, leaving
// the receiver unchanged. Reads are therefore safe from multiple goroutines.
//
// # Creating a sequence
//
//	s := collections.Of(1, 2, 3, 4, 5)
//	s := collections.From([]string{"a", "b", "c"})
//	s := collections.Range(0, 10, 2) // 0 2 4 6 8 10
//	s := collections.Empty[int]()
//
// # Method chaining
//
//	result := collections.Of(5, 3, 8, 1).
//	    Filter(func(n, _ int) bool { return n > 2 }).
//	    Sort(func(a, b int) bool { return a < b }).
//	    Take(2) // [3 5]
//
// Operations that change the element type ([MapTo], [FlatMapTo], [Pluck],
// [GroupBy], ...) are package-level functions because Go methods cannot
// introduce type parameters.
//
// For deferred evaluation over large or infinite sources use the lazy
// package, whose Sequence shares this terminal surface through [Enumerable].
type Sequence[T any] struct {
	items []T
}

var _ Enumerable[int] = (*Sequence[int])(nil)

// ─────────────────────────────────────────────────────────────────────────────
// Constructors
// ─────────────────────────────────────────────────────────────────────────────

// Of creates a Sequence from a variadic list of items (copied).
func Of[T any](items ...T) *Sequence[T] {
	return From(items)
}

// From creates a Sequence from a slice (the slice is copied).
func From[T any](items []T) *Sequence[T] {
	dst := make([]T, len(items))
	copy(dst, items)
	return &Sequence[T]{items: dst}
}

// FromSeq drains seq into a new Sequence.
func FromSeq[T any](seq iter.Seq[T]) *Sequence[T] {
	items := []T{}
	for v := range seq {
		items = append(items, v)
	}
	return &Sequence[T]{items: items}
}

// Empty creates an empty Sequence of type T.
func Empty[T any]() *Sequence[T] {
	return &Sequence[T]{items: []T{}}
}

// Range returns the integers from start to end inclusive, advancing by step
// (default 1). A negative step counts down. When step points away from end
// the result is empty.
//
// Range panics if step is 0.
func Range(start, end int, step ...int) *Sequence[int] {
	st := 1
	if len(step) > 0 {
		st = step[0]
	}
	if st == 0 {
		panic(fmt.Errorf("%w: 0", ErrInvalidStep))
	}
	return &Sequence[int]{items: slices.AppendSeq([]int{}, rangeInts(start, end, st))}
}

// rangeInts yields start, start+step, ... up to end inclusive. It stops
// before a step that would pass end, so values near the int limits never
// wrap around.
func rangeInts(start, end, step int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if (step > 0 && start > end) || (step < 0 && start < end) {
			return
		}
		for i := start; ; i += step {
			if !yield(i) {
				return
			}
			// distances are taken as uint so end-i cannot overflow
			if step > 0 && uint(end)-uint(i) < uint(step) {
				return
			}
			if step < 0 && uint(i)-uint(end) < -uint(step) {
				return
			}
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Accessors
// ─────────────────────────────────────────────────────────────────────────────

// All returns a copy of the underlying slice.
func (s *Sequence[T]) All() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// ToSlice is an alias for [Sequence.All].
func (s *Sequence[T]) ToSlice() []T { return s.All() }

// Iter returns an iterator over the items in order.
func (s *Sequence[T]) Iter() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range s.items {
			if !yield(item) {
				return
			}
		}
	}
}

// ToJSON serialises the items to a JSON array.
func (s *Sequence[T]) ToJSON() ([]byte, error) {
	return json.Marshal(s.items)
}

// MarshalJSON implements [json.Marshaler] so nested sequences (for example
// the groups produced by Chunk) encode as plain arrays.
func (s *Sequence[T]) MarshalJSON() ([]byte, error) { return s.ToJSON() }

// Count returns the number of items.
func (s *Sequence[T]) Count() int { return len(s.items) }

// IsEmpty reports whether the sequence contains no items.
func (s *Sequence[T]) IsEmpty() bool { return len(s.items) == 0 }

// IsNotEmpty reports whether the sequence has at least one item.
func (s *Sequence[T]) IsNotEmpty() bool { return len(s.items) > 0 }

// At returns the item at index, or [ErrIndexOutOfRange].
func (s *Sequence[T]) At(index int) (T, error) {
	if index < 0 || index >= len(s.items) {
		var zero T
		return zero, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	return s.items[index], nil
}

// Get returns the item at index together with a presence flag.
func (s *Sequence[T]) Get(index int) (T, bool) {
	v, err := s.At(index)
	return v, err == nil
}

// Has reports whether index is a valid position.
func (s *Sequence[T]) Has(index int) bool {
	return index >= 0 && index < len(s.items)
}

// String returns a JSON representation of the sequence.
func (s *Sequence[T]) String() string {
	b, err := s.ToJSON()
	if err != nil {
		return fmt.Sprintf("%v", s.items)
	}
	return string(b)
}

// Each calls fn(item, index) for every item.
func (s *Sequence[T]) Each(fn func(T, int)) {
	for i, item := range s.items {
		fn(item, i)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Search & Lookup
// ─────────────────────────────────────────────────────────────────────────────

// First returns the first item, optionally matching fns[0].
// Returns the zero value and false when nothing qualifies.
func (s *Sequence[T]) First(fns ...func(T) bool) (T, bool) {
	for _, item := range s.items {
		if len(fns) == 0 || fns[0](item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// FirstOrFail returns the first item matching fn, or [ErrNoMatchingItems].
func (s *Sequence[T]) FirstOrFail(fn func(T) bool) (T, error) {
	item, ok := s.First(fn)
	if !ok {
		return item, ErrNoMatchingItems
	}
	return item, nil
}

// Last returns the last item, optionally matching fns[0].
// Returns the zero value and false when nothing qualifies.
func (s *Sequence[T]) Last(fns ...func(T) bool) (T, bool) {
	for i := len(s.items) - 1; i >= 0; i-- {
		if len(fns) == 0 || fns[0](s.items[i]) {
			return s.items[i], true
		}
	}
	var zero T
	return zero, false
}

// Contains reports whether value is deeply equal to one of the items.
func (s *Sequence[T]) Contains(value T) bool {
	return s.IndexOf(value) >= 0
}

// ContainsFunc reports whether at least one item satisfies fn.
func (s *Sequence[T]) ContainsFunc(fn func(T) bool) bool {
	return s.Search(fn) >= 0
}

// IndexOf returns the index of the first item deeply equal to value, or -1.
func (s *Sequence[T]) IndexOf(value T) int {
	return s.Search(func(item T) bool { return reflect.DeepEqual(item, value) })
}

// Search returns the index of the first item for which fn returns true, or -1.
func (s *Sequence[T]) Search(fn func(T) bool) int {
	for i, item := range s.items {
		if fn(item) {
			return i
		}
	}
	return -1
}

// ─────────────────────────────────────────────────────────────────────────────
// Transformation (type-preserving)
// ─────────────────────────────────────────────────────────────────────────────

// Filter returns the items for which fn(item, index) returns true.
func (s *Sequence[T]) Filter(fn func(T, int) bool) *Sequence[T] {
	out := make([]T, 0, len(s.items))
	for i, item := range s.items {
		if fn(item, i) {
			out = append(out, item)
		}
	}
	return &Sequence[T]{items: out}
}

// Reject is the complement of [Sequence.Filter].
func (s *Sequence[T]) Reject(fn func(T, int) bool) *Sequence[T] {
	return s.Filter(func(item T, i int) bool { return !fn(item, i) })
}

// Map returns a new Sequence with each item replaced by fn(item, index).
// Use the package-level [MapTo] to change the element type.
func (s *Sequence[T]) Map(fn func(T, int) T) *Sequence[T] {
	return MapTo(s, fn)
}

// FlatMap maps each item to a slice and flattens the results one level.
func (s *Sequence[T]) FlatMap(fn func(T, int) []T) *Sequence[T] {
	return FlatMapTo(s, fn)
}

// Reduce folds the sequence into a single T.
// Use the package-level [Reduce] when the accumulator type differs.
func (s *Sequence[T]) Reduce(fn func(carry, item T) T, initial T) T {
	result := initial
	for _, item := range s.items {
		result = fn(result, item)
	}
	return result
}

// Unique removes structurally equal duplicates, keeping first occurrences.
func (s *Sequence[T]) Unique() *Sequence[T] {
	seen := fingerprint.Set{}
	return s.Filter(func(item T, _ int) bool { return seen.Add(item) })
}

// UniqueBy removes items whose key, as extracted by fn, was already seen.
func (s *Sequence[T]) UniqueBy(fn func(T) any) *Sequence[T] {
	seen := make(map[any]struct{}, len(s.items))
	return s.Filter(func(item T, _ int) bool {
		k := fn(item)
		if _, ok := seen[k]; ok {
			return false
		}
		seen[k] = struct{}{}
		return true
	})
}

// Diff returns the items of s whose key (see fn) is absent from other.
func (s *Sequence[T]) Diff(other *Sequence[T], fn func(T) any) *Sequence[T] {
	set := make(map[any]struct{}, other.Count())
	for _, item := range other.items {
		set[fn(item)] = struct{}{}
	}
	return s.Filter(func(item T, _ int) bool {
		_, found := set[fn(item)]
		return !found
	})
}

// Reverse returns the items in reverse order.
func (s *Sequence[T]) Reverse() *Sequence[T] {
	n := len(s.items)
	out := make([]T, n)
	for i, item := range s.items {
		out[n-1-i] = item
	}
	return &Sequence[T]{items: out}
}

// Sort returns a stably sorted copy ordered by less.
func (s *Sequence[T]) Sort(less func(a, b T) bool) *Sequence[T] {
	out := s.All()
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return &Sequence[T]{items: out}
}

// ─────────────────────────────────────────────────────────────────────────────
// Add / Remove
// ─────────────────────────────────────────────────────────────────────────────

// Append returns a new sequence with items added at the end.
func (s *Sequence[T]) Append(items ...T) *Sequence[T] {
	out := make([]T, len(s.items)+len(items))
	copy(out, s.items)
	copy(out[len(s.items):], items)
	return &Sequence[T]{items: out}
}

// Prepend returns a new sequence with items inserted at the front.
func (s *Sequence[T]) Prepend(items ...T) *Sequence[T] {
	out := make([]T, len(items)+len(s.items))
	copy(out, items)
	copy(out[len(items):], s.items)
	return &Sequence[T]{items: out}
}

// Insert returns a new sequence with value placed at index.
// index may equal Count() to append; anything outside [0, Count()] returns
// [ErrIndexOutOfRange].
func (s *Sequence[T]) Insert(index int, value T) (*Sequence[T], error) {
	if index < 0 || index > len(s.items) {
		return s, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	out := make([]T, 0, len(s.items)+1)
	out = append(out, s.items[:index]...)
	out = append(out, value)
	out = append(out, s.items[index:]...)
	return &Sequence[T]{items: out}, nil
}

// Remove returns a new sequence without the item at index.
func (s *Sequence[T]) Remove(index int) (*Sequence[T], error) {
	if !s.Has(index) {
		return s, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	out := make([]T, 0, len(s.items)-1)
	out = append(out, s.items[:index]...)
	out = append(out, s.items[index+1:]...)
	return &Sequence[T]{items: out}, nil
}

// Concat returns a new sequence with all items of other appended.
func (s *Sequence[T]) Concat(other *Sequence[T]) *Sequence[T] {
	return s.Append(other.items...)
}

// ─────────────────────────────────────────────────────────────────────────────
// Slicing
// ─────────────────────────────────────────────────────────────────────────────

// Take returns at most n items from the start.
// A negative n returns items from the end (Take(-3) is the last 3 items).
func (s *Sequence[T]) Take(n int) *Sequence[T] {
	if n < 0 {
		return s.Slice(n, -1)
	}
	return s.Slice(0, n)
}

// Skip returns the sequence without its first n items.
func (s *Sequence[T]) Skip(n int) *Sequence[T] {
	if n < 0 {
		n = 0
	}
	return s.Slice(n, -1)
}

// Slice returns at most length items starting at offset.
// A negative offset counts from the end; a negative length means "to the end".
func (s *Sequence[T]) Slice(offset, length int) *Sequence[T] {
	total := len(s.items)
	if offset < 0 {
		offset = max(total+offset, 0)
	}
	if offset >= total {
		return Empty[T]()
	}
	end := total
	if length >= 0 && offset+length < total {
		end = offset + length
	}
	return From(s.items[offset:end])
}

// Chunk splits the sequence into consecutive groups of size.
// The last group may be shorter. Returns [ErrInvalidChunkSize] if size <= 0.
func (s *Sequence[T]) Chunk(size int) ([]*Sequence[T], error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChunkSize, size)
	}
	chunks := make([]*Sequence[T], 0, (len(s.items)+size-1)/size)
	for i := 0; i < len(s.items); i += size {
		chunks = append(chunks, From(s.items[i:min(i+size, len(s.items))]))
	}
	return chunks, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// String helpers
// ─────────────────────────────────────────────────────────────────────────────

// Join concatenates the default string form of every item, separated by sep.
func (s *Sequence[T]) Join(sep string) string {
	return s.Implode(sep, func(item T) string { return fmt.Sprint(item) })
}

// Implode joins all items into a string using sep, converting each with fn.
func (s *Sequence[T]) Implode(sep string, fn func(T) string) string {
	parts := make([]string, len(s.items))
	for i, item := range s.items {
		parts[i] = fn(item)
	}
	return strings.Join(parts, sep)
}
