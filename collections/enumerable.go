package collections

import "iter"

// Enumerable is the read-only surface shared by the eager [Sequence] and the
// lazy package's Sequence.
//
// The aggregate helpers ([Sum], [Avg], [Min], [Max]) accept an Enumerable, so
// they stream a lazy pipeline instead of materialising it.
type Enumerable[T any] interface {
	// All returns every item as a plain Go slice.
	All() []T

	// Iter returns an iterator over the items in order.
	Iter() iter.Seq[T]

	// Count returns the number of items.
	Count() int

	// Contains reports whether an item deeply equal to value exists.
	Contains(value T) bool

	// First returns the first item, optionally matching fns[0].
	First(fns ...func(T) bool) (T, bool)

	// Last returns the last item, optionally matching fns[0].
	Last(fns ...func(T) bool) (T, bool)

	// IsEmpty reports whether there are no items.
	IsEmpty() bool
}
