package lazy

import (
	"iter"

	"github.com/hasbyte1/go-lazy-collections/internal/fingerprint"
)

type opKind uint8

const (
	opRange opKind = iota
	opMap
	opFilter
	opFlatMap
	opTake
	opSkip
	opSlice
	opUnique
	opChunk
	opEach
)

var opNames = [...]string{
	opRange:   "range",
	opMap:     "map",
	opFilter:  "filter",
	opFlatMap: "flatMap",
	opTake:    "take",
	opSkip:    "skip",
	opSlice:   "slice",
	opUnique:  "unique",
	opChunk:   "chunk",
	opEach:    "each",
}

func (k opKind) String() string { return opNames[k] }

type rangeArgs struct {
	start, end, step int
}

// operation is one declared pipeline step. Only the fields used by kind are
// set. Callbacks are stored untyped; the typed wrappers live on Sequence.
type operation struct {
	kind opKind

	mapFn  func(any, int) any
	predFn func(any, int) bool
	flatFn func(any, int) []any
	eachFn func(any, int)

	// chunk builds the emitted group from the buffered values.
	groupFn func([]any) any

	n, offset, length int
	rng               rangeArgs
}

// apply wraps src in the stage for o. All per-run state is created inside
// the returned function so every traversal starts from scratch.
func (o operation) apply(src iter.Seq[any]) iter.Seq[any] {
	switch o.kind {
	case opRange:
		return rangeSeq(o.rng)

	case opMap:
		return func(yield func(any) bool) {
			i := 0
			for v := range src {
				if !yield(o.mapFn(v, i)) {
					return
				}
				i++
			}
		}

	case opFilter:
		return func(yield func(any) bool) {
			i := 0
			for v := range src {
				keep := o.predFn(v, i)
				i++
				if keep && !yield(v) {
					return
				}
			}
		}

	case opFlatMap:
		return o.expand(src, -1)

	case opTake:
		return func(yield func(any) bool) {
			if o.n <= 0 {
				return
			}
			taken := 0
			for v := range src {
				if !yield(v) {
					return
				}
				if taken++; taken >= o.n {
					return
				}
			}
		}

	case opSkip:
		return func(yield func(any) bool) {
			seen := 0
			for v := range src {
				if seen < o.n {
					seen++
					continue
				}
				if !yield(v) {
					return
				}
			}
		}

	case opSlice:
		return func(yield func(any) bool) {
			if o.length == 0 {
				return
			}
			i := 0
			for v := range src {
				if i < o.offset {
					i++
					continue
				}
				if !yield(v) {
					return
				}
				if i++; o.length > 0 && i >= o.offset+o.length {
					return
				}
			}
		}

	case opUnique:
		return func(yield func(any) bool) {
			seen := fingerprint.Set{}
			for v := range src {
				if seen.Add(v) && !yield(v) {
					return
				}
			}
		}

	case opChunk:
		return func(yield func(any) bool) {
			buf := make([]any, 0, o.n)
			for v := range src {
				buf = append(buf, v)
				if len(buf) == o.n {
					if !yield(o.groupFn(buf)) {
						return
					}
					buf = make([]any, 0, o.n)
				}
			}
			if len(buf) > 0 {
				yield(o.groupFn(buf))
			}
		}

	case opEach:
		return func(yield func(any) bool) {
			i := 0
			for v := range src {
				o.eachFn(v, i)
				if !yield(v) {
					return
				}
				i++
			}
		}
	}
	panic("lazy: unknown operation " + o.kind.String())
}

// expand runs a flatMap as the last stage of a pipeline. A limit >= 0 ends
// the traversal once that many elements are out, checked only between
// expansions.
func (o operation) expand(src iter.Seq[any], limit int) iter.Seq[any] {
	return func(yield func(any) bool) {
		if limit == 0 {
			return
		}
		i, emitted := 0, 0
		for v := range src {
			for _, e := range o.flatFn(v, i) {
				if !yield(e) {
					return
				}
				emitted++
			}
			i++
			if limit > 0 && emitted >= limit {
				return
			}
		}
	}
}

// rangeSeq stops before a step that would pass end, so a range ending near
// the int limits does not wrap around.
func rangeSeq(r rangeArgs) iter.Seq[any] {
	return func(yield func(any) bool) {
		if (r.step > 0 && r.start > r.end) || (r.step < 0 && r.start < r.end) {
			return
		}
		for i := r.start; ; i += r.step {
			if !yield(i) {
				return
			}
			var left, stride uint
			if r.step > 0 {
				left, stride = uint(r.end)-uint(i), uint(r.step)
			} else {
				left, stride = uint(i)-uint(r.end), -uint(r.step)
			}
			if left < stride {
				return
			}
		}
	}
}

func sliceSeq[T any](items []T) iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, v := range items {
			if !yield(v) {
				return
			}
		}
	}
}

// as unboxes v, mapping a nil interface to the zero T so interface element
// types survive the trip through the untyped pipeline.
func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}
