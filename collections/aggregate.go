package collections

import "cmp"

// Number is the constraint satisfied by every built-in integer and float type.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// Sum adds up every item of e.
func Sum[N Number](e Enumerable[N]) N {
	var total N
	for v := range e.Iter() {
		total += v
	}
	return total
}

// Avg returns the arithmetic mean of e, or false when e is empty.
func Avg[N Number](e Enumerable[N]) (float64, bool) {
	var (
		total float64
		n     int
	)
	for v := range e.Iter() {
		total += float64(v)
		n++
	}
	if n == 0 {
		return 0, false
	}
	return total / float64(n), true
}

// Min returns the smallest item of e, or false when e is empty.
func Min[T cmp.Ordered](e Enumerable[T]) (T, bool) {
	return extreme(e, func(a, b T) bool { return a < b })
}

// Max returns the largest item of e, or false when e is empty.
func Max[T cmp.Ordered](e Enumerable[T]) (T, bool) {
	return extreme(e, func(a, b T) bool { return a > b })
}

func extreme[T any](e Enumerable[T], better func(a, b T) bool) (T, bool) {
	var (
		best  T
		found bool
	)
	for v := range e.Iter() {
		if !found || better(v, best) {
			best, found = v, true
		}
	}
	return best, found
}
