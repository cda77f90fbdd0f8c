package collections

import (
	"errors"
	"iter"
)

// PipelineOp is one step of [Collection.LazyPipeline]. The set of steps is
// closed: build them with [PipeMap], [PipeFilter], [PipeTake], [PipeSkip] and
// [PipeStep].
type PipelineOp[K comparable, V any] interface {
	validate() error
	wrap(src func() iter.Seq2[K, V]) iter.Seq2[K, V]
}

// MapOp replaces each value with Fn(value, key).
type MapOp[K comparable, V any] struct{ Fn func(V, K) V }

// FilterOp keeps the entries for which Fn returns true.
type FilterOp[K comparable, V any] struct{ Fn func(V, K) bool }

// TakeOp stops after N entries.
type TakeOp[K comparable, V any] struct{ N int }

// SkipOp drops the first N entries.
type SkipOp[K comparable, V any] struct{ N int }

// StepOp combines a filter and a map: Fn returns the value to emit and
// whether to keep the entry at all.
type StepOp[K comparable, V any] struct{ Fn func(V, K) (V, bool) }

// PipeMap returns a [MapOp].
func PipeMap[K comparable, V any](fn func(V, K) V) PipelineOp[K, V] { return MapOp[K, V]{Fn: fn} }

// PipeFilter returns a [FilterOp].
func PipeFilter[K comparable, V any](fn func(V, K) bool) PipelineOp[K, V] {
	return FilterOp[K, V]{Fn: fn}
}

// PipeTake returns a [TakeOp].
func PipeTake[K comparable, V any](n int) PipelineOp[K, V] { return TakeOp[K, V]{N: n} }

// PipeSkip returns a [SkipOp].
func PipeSkip[K comparable, V any](n int) PipelineOp[K, V] { return SkipOp[K, V]{N: n} }

// PipeStep returns a [StepOp].
func PipeStep[K comparable, V any](fn func(V, K) (V, bool)) PipelineOp[K, V] {
	return StepOp[K, V]{Fn: fn}
}

var (
	errNilFunc       = errors.New("nil callback")
	errNegativeCount = errors.New("negative count")
)

func (o MapOp[K, V]) validate() error    { return checkFunc(o.Fn == nil) }
func (o FilterOp[K, V]) validate() error { return checkFunc(o.Fn == nil) }
func (o StepOp[K, V]) validate() error   { return checkFunc(o.Fn == nil) }
func (o TakeOp[K, V]) validate() error   { return checkCount(o.N) }
func (o SkipOp[K, V]) validate() error   { return checkCount(o.N) }

func checkFunc(isNil bool) error {
	if isNil {
		return errNilFunc
	}
	return nil
}

func checkCount(n int) error {
	if n < 0 {
		return errNegativeCount
	}
	return nil
}

func (o MapOp[K, V]) wrap(src func() iter.Seq2[K, V]) iter.Seq2[K, V] { return mapStage(src, o.Fn) }

func (o FilterOp[K, V]) wrap(src func() iter.Seq2[K, V]) iter.Seq2[K, V] {
	return filterStage(src, o.Fn)
}

func (o TakeOp[K, V]) wrap(src func() iter.Seq2[K, V]) iter.Seq2[K, V] { return takeStage(src, o.N) }

func (o SkipOp[K, V]) wrap(src func() iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		seen := 0
		for k, v := range src() {
			if seen < o.N {
				seen++
				continue
			}
			if !yield(k, v) {
				return
			}
		}
	}
}

func (o StepOp[K, V]) wrap(src func() iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for k, v := range src() {
			out, keep := o.Fn(v, k)
			if !keep {
				continue
			}
			if !yield(k, out) {
				return
			}
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Stages shared with the Lazy* methods
// ─────────────────────────────────────────────────────────────────────────────

func mapStage[K comparable, V any](src func() iter.Seq2[K, V], fn func(V, K) V) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for k, v := range src() {
			if !yield(k, fn(v, k)) {
				return
			}
		}
	}
}

func filterStage[K comparable, V any](src func() iter.Seq2[K, V], fn func(V, K) bool) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for k, v := range src() {
			if fn(v, k) && !yield(k, v) {
				return
			}
		}
	}
}

func takeStage[K comparable, V any](src func() iter.Seq2[K, V], n int) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if n <= 0 {
			return
		}
		taken := 0
		for k, v := range src() {
			if !yield(k, v) {
				return
			}
			taken++
			if taken >= n {
				return
			}
		}
	}
}
