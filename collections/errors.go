package collections

import "errors"

// Sentinel errors returned by Sequence, Map and Collection operations.
//
// Use [errors.Is] for comparisons; most returned errors wrap one of these
// with the offending index, key or argument.
var (
	// ErrIndexOutOfRange is returned when an index is outside [0, Count()-1].
	ErrIndexOutOfRange = errors.New("collections: index out of range")

	// ErrKeyNotFound is returned by [Map.Get] when the key is absent.
	ErrKeyNotFound = errors.New("collections: key not found")

	// ErrNoMatchingItems is returned by FirstOrFail when no item satisfies
	// the predicate.
	ErrNoMatchingItems = errors.New("collections: no items match the given condition")

	// ErrInvalidChunkSize is returned when Chunk is called with size <= 0.
	ErrInvalidChunkSize = errors.New("collections: chunk size must be greater than 0")

	// ErrInvalidStep is the panic value of Range when step is 0.
	ErrInvalidStep = errors.New("collections: range step must not be 0")

	// ErrMismatchedLengths is returned by Combine when the key and value
	// slices have different lengths.
	ErrMismatchedLengths = errors.New("collections: keys and values must have the same length")

	// ErrInvalidOperation is returned by [Collection.LazyPipeline] when an
	// operation is malformed (nil callback, negative count, unknown kind).
	ErrInvalidOperation = errors.New("collections: invalid pipeline operation")
)
