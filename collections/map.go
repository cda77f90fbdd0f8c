package collections

import (
	"fmt"
	"iter"
	"reflect"
	"slices"
	"strings"
)

// Map is an immutable, insertion-ordered map from K to V.
//
// Like [Sequence], every transformation returns a new Map and leaves the
// receiver untouched:
//
//	m := collections.MapOf(collections.P("a", 1), collections.P("b", 2))
//	m2 := m.Put("c", 3)          // m still has 2 entries
//	v, err := m2.Get("c")        // 3, nil
//	_, err = m2.Get("z")         // errors.Is(err, collections.ErrKeyNotFound)
//
// Iteration order is the order in which keys were first inserted. Maps built
// from a Go map via [FromMap] order their keys naturally (numbers ascending,
// strings lexically).
type Map[K comparable, V any] struct {
	keys  []K
	items map[K]V
}

// ─────────────────────────────────────────────────────────────────────────────
// Constructors
// ─────────────────────────────────────────────────────────────────────────────

// EmptyMap creates an empty Map.
func EmptyMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{items: map[K]V{}}
}

// MapOf creates a Map from key/value pairs; later pairs overwrite earlier
// ones but keep the first position.
func MapOf[K comparable, V any](pairs ...Pair[K, V]) *Map[K, V] {
	m := &Map[K, V]{items: make(map[K]V, len(pairs))}
	for _, p := range pairs {
		m.set(p.First, p.Second)
	}
	return m
}

// FromMap copies a Go map. Keys are put in natural order.
func FromMap[K comparable, V any](src map[K]V) *Map[K, V] {
	m := &Map[K, V]{keys: make([]K, 0, len(src)), items: make(map[K]V, len(src))}
	for k, v := range src {
		m.keys = append(m.keys, k)
		m.items[k] = v
	}
	SortNatural(m.keys)
	return m
}

// set mutates m in place; only used while building a fresh Map.
func (m *Map[K, V]) set(k K, v V) {
	if _, ok := m.items[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.items[k] = v
}

func (m *Map[K, V]) clone() *Map[K, V] {
	out := &Map[K, V]{keys: slices.Clone(m.keys), items: make(map[K]V, len(m.items))}
	for k, v := range m.items {
		out.items[k] = v
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Accessors
// ─────────────────────────────────────────────────────────────────────────────

// Get returns the value for key, or [ErrKeyNotFound].
func (m *Map[K, V]) Get(key K) (V, error) {
	v, ok := m.items[key]
	if !ok {
		return v, fmt.Errorf("%w: %v", ErrKeyNotFound, key)
	}
	return v, nil
}

// GetOrDefault returns the value for key, or def when key is absent.
func (m *Map[K, V]) GetOrDefault(key K, def V) V {
	if v, ok := m.items[key]; ok {
		return v
	}
	return def
}

// Has reports whether key is present.
func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.items[key]
	return ok
}

// Keys returns the keys in order.
func (m *Map[K, V]) Keys() *Sequence[K] { return From(m.keys) }

// Values returns the values in key order.
func (m *Map[K, V]) Values() *Sequence[V] {
	out := make([]V, len(m.keys))
	for i, k := range m.keys {
		out[i] = m.items[k]
	}
	return &Sequence[V]{items: out}
}

// ToSequence is an alias for [Map.Values].
func (m *Map[K, V]) ToSequence() *Sequence[V] { return m.Values() }

// Count returns the number of entries.
func (m *Map[K, V]) Count() int { return len(m.keys) }

// IsEmpty reports whether the map has no entries.
func (m *Map[K, V]) IsEmpty() bool { return len(m.keys) == 0 }

// IsNotEmpty reports whether the map has at least one entry.
func (m *Map[K, V]) IsNotEmpty() bool { return len(m.keys) > 0 }

// All returns a copy of the entries as a Go map.
func (m *Map[K, V]) All() map[K]V {
	out := make(map[K]V, len(m.items))
	for k, v := range m.items {
		out[k] = v
	}
	return out
}

// Entries returns the entries as ordered pairs.
func (m *Map[K, V]) Entries() []Pair[K, V] {
	out := make([]Pair[K, V], len(m.keys))
	for i, k := range m.keys {
		out[i] = Pair[K, V]{First: k, Second: m.items[k]}
	}
	return out
}

// Iter returns an iterator over the entries in order.
func (m *Map[K, V]) Iter() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range m.keys {
			if !yield(k, m.items[k]) {
				return
			}
		}
	}
}

// Each calls fn for every entry in order.
func (m *Map[K, V]) Each(fn func(K, V)) {
	for _, k := range m.keys {
		fn(k, m.items[k])
	}
}

// String renders the map as {k: v, ...} in key order.
func (m *Map[K, V]) String() string {
	parts := make([]string, len(m.keys))
	for i, k := range m.keys {
		parts[i] = fmt.Sprintf("%v: %v", k, m.items[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// ─────────────────────────────────────────────────────────────────────────────
// Structural updates
// ─────────────────────────────────────────────────────────────────────────────

// Put returns a new Map with key set to value.
func (m *Map[K, V]) Put(key K, value V) *Map[K, V] {
	out := m.clone()
	out.set(key, value)
	return out
}

// PutAll returns a new Map with every pair applied in order.
func (m *Map[K, V]) PutAll(pairs ...Pair[K, V]) *Map[K, V] {
	out := m.clone()
	for _, p := range pairs {
		out.set(p.First, p.Second)
	}
	return out
}

// Remove returns a Map without key. The receiver is returned unchanged when
// key is absent.
func (m *Map[K, V]) Remove(key K) *Map[K, V] {
	if !m.Has(key) {
		return m
	}
	return m.FilterKeys(func(k K) bool { return k != key })
}

// Merge returns a new Map holding the entries of m overwritten by other.
func (m *Map[K, V]) Merge(other *Map[K, V]) *Map[K, V] {
	return m.PutAll(other.Entries()...)
}

// ─────────────────────────────────────────────────────────────────────────────
// Transformation
// ─────────────────────────────────────────────────────────────────────────────

// Map rewrites every entry with fn.
func (m *Map[K, V]) Map(fn func(K, V) (K, V)) *Map[K, V] {
	out := EmptyMap[K, V]()
	for _, k := range m.keys {
		out.set(fn(k, m.items[k]))
	}
	return out
}

// MapValues replaces every value with fn(key, value).
func (m *Map[K, V]) MapValues(fn func(K, V) V) *Map[K, V] {
	return m.Map(func(k K, v V) (K, V) { return k, fn(k, v) })
}

// MapKeys replaces every key with fn(key, value).
func (m *Map[K, V]) MapKeys(fn func(K, V) K) *Map[K, V] {
	return m.Map(func(k K, v V) (K, V) { return fn(k, v), v })
}

// Filter keeps the entries for which fn returns true.
func (m *Map[K, V]) Filter(fn func(K, V) bool) *Map[K, V] {
	out := EmptyMap[K, V]()
	for _, k := range m.keys {
		if v := m.items[k]; fn(k, v) {
			out.set(k, v)
		}
	}
	return out
}

// FilterKeys keeps the entries whose key satisfies fn.
func (m *Map[K, V]) FilterKeys(fn func(K) bool) *Map[K, V] {
	return m.Filter(func(k K, _ V) bool { return fn(k) })
}

// FilterValues keeps the entries whose value satisfies fn.
func (m *Map[K, V]) FilterValues(fn func(V) bool) *Map[K, V] {
	return m.Filter(func(_ K, v V) bool { return fn(v) })
}

// SortValues returns a new Map ordered by value using cmp (stable).
func (m *Map[K, V]) SortValues(cmp func(a, b V) int) *Map[K, V] {
	out := m.clone()
	slices.SortStableFunc(out.keys, func(a, b K) int { return cmp(out.items[a], out.items[b]) })
	return out
}

// SortKeys returns a new Map ordered by key. A nil cmp uses natural order.
func (m *Map[K, V]) SortKeys(cmp func(a, b K) int) *Map[K, V] {
	out := m.clone()
	if cmp == nil {
		SortNatural(out.keys)
	} else {
		slices.SortStableFunc(out.keys, cmp)
	}
	return out
}

// ReduceEntries folds the entries of m, in order, into a value of type A.
func ReduceEntries[K comparable, V, A any](m *Map[K, V], fn func(A, K, V) A, initial A) A {
	acc := initial
	for _, k := range m.keys {
		acc = fn(acc, k, m.items[k])
	}
	return acc
}

// ─────────────────────────────────────────────────────────────────────────────
// Natural ordering
// ─────────────────────────────────────────────────────────────────────────────

// SortNatural sorts keys in place: numbers ascending, strings lexically,
// false before true. Mixed or other kinds fall back to their %v form.
func SortNatural[K comparable](keys []K) {
	slices.SortStableFunc(keys, func(a, b K) int { return CompareNatural(a, b) })
}

// CompareNatural orders two values of the same type the way SortNatural does.
func CompareNatural(a, b any) int {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.IsValid() && vb.IsValid() && va.Kind() == vb.Kind() {
		switch va.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return compare(va.Int(), vb.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return compare(va.Uint(), vb.Uint())
		case reflect.Float32, reflect.Float64:
			return compare(va.Float(), vb.Float())
		case reflect.String:
			return strings.Compare(va.String(), vb.String())
		case reflect.Bool:
			return compare(boolRank(va.Bool()), boolRank(vb.Bool()))
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func compare[T int64 | uint64 | float64 | int](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
