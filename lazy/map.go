package lazy

import (
	"iter"
	"slices"

	"github.com/hasbyte1/go-lazy-collections/collections"
)

// Value is a LazyMap slot: either a concrete value or a producer that
// computes it on first access.
type Value[V any] struct {
	v  V
	fn func() V
}

// Eager wraps a concrete value.
func Eager[V any](v V) Value[V] { return Value[V]{v: v} }

// Defer wraps a producer. fn runs at most once per Map instance.
func Defer[V any](fn func() V) Value[V] {
	mustFunc(fn != nil, "Defer")
	return Value[V]{fn: fn}
}

// IsDeferred reports whether the slot holds a producer.
func (v Value[V]) IsDeferred() bool { return v.fn != nil }

// Map is an immutable, insertion-ordered map whose values may be computed
// on demand.
//
// Get runs a key's producer the first time it is asked for and caches the
// result on that instance. Operations that only look at keys (Has, Keys,
// FilterKeys, Count) never run a producer; operations that inspect values
// (Values, Filter, Reduce, Each, SortValues, All) materialize every entry.
// MapValues composes producers instead of running them.
//
// Put, Remove, Merge and the Filter variants return a new Map with its own
// empty cache. Values already materialized on the receiver are carried over
// as concrete values, so a producer is never re-run for derived maps.
//
// A Map is not safe for concurrent use: Get mutates the cache.
type Map[K comparable, V any] struct {
	keys  []K
	items map[K]Value[V]
	cache map[K]V
}

// ─────────────────────────────────────────────────────────────────────────────
// Constructors
// ─────────────────────────────────────────────────────────────────────────────

// EmptyMap returns an empty Map.
func EmptyMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{items: map[K]Value[V]{}, cache: map[K]V{}}
}

// FromMap returns a Map of concrete values with keys in natural order.
func FromMap[K comparable, V any](src map[K]V) *Map[K, V] {
	m := EmptyMap[K, V]()
	for _, k := range sortedKeys(src) {
		m.set(k, Eager(src[k]))
	}
	return m
}

// FromProducers returns a Map whose every value is deferred, with keys in
// natural order.
func FromProducers[K comparable, V any](src map[K]func() V) *Map[K, V] {
	m := EmptyMap[K, V]()
	for _, k := range sortedKeys(src) {
		m.set(k, Defer(src[k]))
	}
	return m
}

// OfPairs returns a Map of concrete values in pair order.
func OfPairs[K comparable, V any](pairs ...collections.Pair[K, V]) *Map[K, V] {
	m := EmptyMap[K, V]()
	for _, p := range pairs {
		m.set(p.First, Eager(p.Second))
	}
	return m
}

// FromEager returns a Map holding the entries of an eager map, keeping its
// key order. Every value is concrete, so nothing is deferred.
func FromEager[K comparable, V any](m *collections.Map[K, V]) *Map[K, V] {
	return OfPairs(m.Entries()...)
}

// OfLazy returns a Map from slots in pair order.
//
//	m := lazy.OfLazy(
//	    collections.P("config", lazy.Eager(cfg)),
//	    collections.P("index", lazy.Defer(buildIndex)),
//	)
func OfLazy[K comparable, V any](pairs ...collections.Pair[K, Value[V]]) *Map[K, V] {
	m := EmptyMap[K, V]()
	for _, p := range pairs {
		m.set(p.First, p.Second)
	}
	return m
}

func sortedKeys[K comparable, T any](src map[K]T) []K {
	keys := make([]K, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	collections.SortNatural(keys)
	return keys
}

func (m *Map[K, V]) set(k K, v Value[V]) {
	if _, ok := m.items[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.items[k] = v
}

// slot returns the entry for k as it should be copied into a derived map.
func (m *Map[K, V]) slot(k K) Value[V] {
	if v, ok := m.cache[k]; ok {
		return Eager(v)
	}
	return m.items[k]
}

func (m *Map[K, V]) derive(keys []K) *Map[K, V] {
	out := EmptyMap[K, V]()
	for _, k := range keys {
		out.set(k, m.slot(k))
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Access
// ─────────────────────────────────────────────────────────────────────────────

// Get returns the value for key, running its producer on first access.
// The second result is false when key is absent.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if v, ok := m.cache[key]; ok {
		return v, true
	}
	slot, ok := m.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	if slot.fn == nil {
		return slot.v, true
	}
	v := slot.fn()
	m.cache[key] = v
	return v, true
}

// GetOrDefault returns the value for key, or def when key is absent.
func (m *Map[K, V]) GetOrDefault(key K, def V) V {
	if v, ok := m.Get(key); ok {
		return v
	}
	return def
}

// Has reports whether key is present without running its producer.
func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.items[key]
	return ok
}

// Keys returns the keys in order without materializing any value.
func (m *Map[K, V]) Keys() *collections.Sequence[K] { return collections.From(m.keys) }

// Values materializes and returns every value in key order.
func (m *Map[K, V]) Values() *collections.Sequence[V] {
	out := make([]V, len(m.keys))
	for i, k := range m.keys {
		out[i], _ = m.Get(k)
	}
	return collections.From(out)
}

// Count returns the number of keys.
func (m *Map[K, V]) Count() int { return len(m.keys) }

// IsEmpty reports whether the map has no keys.
func (m *Map[K, V]) IsEmpty() bool { return len(m.keys) == 0 }

// IsNotEmpty reports whether the map has at least one key.
func (m *Map[K, V]) IsNotEmpty() bool { return len(m.keys) > 0 }

// Iter materializes entries one at a time as they are iterated.
func (m *Map[K, V]) Iter() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range slices.Clone(m.keys) {
			v, _ := m.Get(k)
			if !yield(k, v) {
				return
			}
		}
	}
}

// All materializes every entry into a Go map.
func (m *Map[K, V]) All() map[K]V {
	out := make(map[K]V, len(m.keys))
	for k, v := range m.Iter() {
		out[k] = v
	}
	return out
}

// Entries materializes every entry as ordered pairs.
func (m *Map[K, V]) Entries() []collections.Pair[K, V] {
	out := make([]collections.Pair[K, V], 0, len(m.keys))
	for k, v := range m.Iter() {
		out = append(out, collections.P(k, v))
	}
	return out
}

// ToEager materializes the map into an eager [collections.Map].
func (m *Map[K, V]) ToEager() *collections.Map[K, V] {
	return collections.MapOf(m.Entries()...)
}

// ToSequence returns a lazy sequence over the values. Values are
// materialized as the sequence is consumed.
func (m *Map[K, V]) ToSequence() *Sequence[V] {
	return FromValues(m.Iter())
}

// Each calls fn for every entry, materializing each value, and returns m.
func (m *Map[K, V]) Each(fn func(K, V)) *Map[K, V] {
	for k, v := range m.Iter() {
		fn(k, v)
	}
	return m
}

// MaterializeAll runs every pending producer and returns m.
func (m *Map[K, V]) MaterializeAll() *Map[K, V] {
	for _, k := range m.keys {
		m.Get(k)
	}
	return m
}

// MaterializedCount returns how many producers have run on this instance.
func (m *Map[K, V]) MaterializedCount() int { return len(m.cache) }

// IsMaterialized reports whether key's producer has run on this instance.
func (m *Map[K, V]) IsMaterialized(key K) bool {
	_, ok := m.cache[key]
	return ok
}

// ─────────────────────────────────────────────────────────────────────────────
// Structural updates
// ─────────────────────────────────────────────────────────────────────────────

// Put returns a new Map with key set to value.
func (m *Map[K, V]) Put(key K, value V) *Map[K, V] {
	out := m.derive(m.keys)
	out.set(key, Eager(value))
	return out
}

// PutLazy returns a new Map with key bound to producer.
func (m *Map[K, V]) PutLazy(key K, producer func() V) *Map[K, V] {
	out := m.derive(m.keys)
	out.set(key, Defer(producer))
	return out
}

// PutAll returns a new Map with every pair set in order.
func (m *Map[K, V]) PutAll(pairs ...collections.Pair[K, V]) *Map[K, V] {
	out := m.derive(m.keys)
	for _, p := range pairs {
		out.set(p.First, Eager(p.Second))
	}
	return out
}

// Remove returns a new Map without key.
func (m *Map[K, V]) Remove(key K) *Map[K, V] {
	return m.FilterKeys(func(k K) bool { return k != key })
}

// Merge returns a new Map with the entries of other added; other wins on
// shared keys. Neither map's producers run.
func (m *Map[K, V]) Merge(other *Map[K, V]) *Map[K, V] {
	out := m.derive(m.keys)
	for _, k := range other.keys {
		out.set(k, other.slot(k))
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Transformation
// ─────────────────────────────────────────────────────────────────────────────

// Map rewrites every entry with fn, materializing every value.
func (m *Map[K, V]) Map(fn func(K, V) (K, V)) *Map[K, V] {
	out := EmptyMap[K, V]()
	for k, v := range m.Iter() {
		nk, nv := fn(k, v)
		out.set(nk, Eager(nv))
	}
	return out
}

// MapValues replaces every value with fn(key, value). Concrete values are
// mapped now; deferred values become producers that materialize the source
// value through m and then apply fn.
func (m *Map[K, V]) MapValues(fn func(K, V) V) *Map[K, V] {
	out := EmptyMap[K, V]()
	for _, k := range m.keys {
		if cached, ok := m.cache[k]; ok {
			out.set(k, Eager(fn(k, cached)))
			continue
		}
		slot := m.items[k]
		if slot.fn == nil {
			out.set(k, Eager(fn(k, slot.v)))
			continue
		}
		out.set(k, Defer(func() V {
			v, _ := m.Get(k)
			return fn(k, v)
		}))
	}
	return out
}

// MapKeys replaces every key with fn(key, value), materializing every
// value. Slots keep their materialization state.
func (m *Map[K, V]) MapKeys(fn func(K, V) K) *Map[K, V] {
	out := EmptyMap[K, V]()
	for _, k := range m.keys {
		v, _ := m.Get(k)
		out.set(fn(k, v), m.slot(k))
	}
	return out
}

// Filter keeps the entries for which fn is true, materializing every value.
func (m *Map[K, V]) Filter(fn func(K, V) bool) *Map[K, V] {
	keep := make([]K, 0, len(m.keys))
	for k, v := range m.Iter() {
		if fn(k, v) {
			keep = append(keep, k)
		}
	}
	return m.derive(keep)
}

// FilterKeys keeps the entries whose key satisfies fn. No value is
// materialized.
func (m *Map[K, V]) FilterKeys(fn func(K) bool) *Map[K, V] {
	keep := make([]K, 0, len(m.keys))
	for _, k := range m.keys {
		if fn(k) {
			keep = append(keep, k)
		}
	}
	return m.derive(keep)
}

// FilterValues keeps the entries whose value satisfies fn.
func (m *Map[K, V]) FilterValues(fn func(V) bool) *Map[K, V] {
	return m.Filter(func(_ K, v V) bool { return fn(v) })
}

// SortValues returns a new Map ordered by value using cmp (stable),
// materializing every value.
func (m *Map[K, V]) SortValues(cmp func(a, b V) int) *Map[K, V] {
	m.MaterializeAll()
	keys := slices.Clone(m.keys)
	slices.SortStableFunc(keys, func(a, b K) int {
		va, _ := m.Get(a)
		vb, _ := m.Get(b)
		return cmp(va, vb)
	})
	return m.derive(keys)
}

// SortKeys returns a new Map ordered by key. A nil cmp uses natural order.
// No value is materialized.
func (m *Map[K, V]) SortKeys(cmp func(a, b K) int) *Map[K, V] {
	keys := slices.Clone(m.keys)
	if cmp == nil {
		collections.SortNatural(keys)
	} else {
		slices.SortStableFunc(keys, cmp)
	}
	return m.derive(keys)
}

// ReduceMap folds the entries of m in order, materializing every value.
func ReduceMap[K comparable, V, A any](m *Map[K, V], fn func(A, K, V) A, initial A) A {
	acc := initial
	for k, v := range m.Iter() {
		acc = fn(acc, k, v)
	}
	return acc
}
