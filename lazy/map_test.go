package lazy_test

import (
	"cmp"
	"testing"

	"github.com/hasbyte1/go-lazy-collections/collections"
	"github.com/hasbyte1/go-lazy-collections/lazy"
)

// producers returns deferred values for a, b and c and counts their runs.
func producers(runs map[string]int) *lazy.Map[string, int] {
	mk := func(k string, v int) func() int {
		return func() int { runs[k]++; return v }
	}
	return lazy.FromProducers(map[string]func() int{
		"a": mk("a", 1),
		"b": mk("b", 2),
		"c": mk("c", 3),
	})
}

func TestMapSingleMaterialization(t *testing.T) {
	runs := map[string]int{}
	m := producers(runs)
	if m.MaterializedCount() != 0 {
		t.Fatal("nothing should be materialized before Get")
	}
	v1, ok1 := m.Get("b")
	v2, ok2 := m.Get("b")
	if !ok1 || !ok2 || v1 != 2 || v2 != 2 {
		t.Fatalf("Get(b) = %d/%v, %d/%v", v1, ok1, v2, ok2)
	}
	if runs["b"] != 1 {
		t.Fatalf("producer ran %d times; want 1", runs["b"])
	}
	if m.MaterializedCount() != 1 || !m.IsMaterialized("b") || m.IsMaterialized("a") {
		t.Fatal("materialization bookkeeping wrong")
	}
}

func TestMapKeyOperationsDoNotMaterialize(t *testing.T) {
	runs := map[string]int{}
	m := producers(runs)
	if !m.Has("a") || m.Has("z") {
		t.Fatal("Has failed")
	}
	assertSlice(t, m.Keys().All(), []string{"a", "b", "c"})
	_ = m.FilterKeys(func(k string) bool { return k != "b" })
	_ = m.SortKeys(nil)
	_ = m.Count()
	if m.MaterializedCount() != 0 || len(runs) != 0 {
		t.Fatalf("key operations materialized %d values", m.MaterializedCount())
	}
}

func TestMapMissingKey(t *testing.T) {
	m := lazy.OfPairs(collections.P("x", 1))
	if _, ok := m.Get("y"); ok {
		t.Fatal("Get(y) should report missing")
	}
	if m.GetOrDefault("y", 5) != 5 || m.GetOrDefault("x", 5) != 1 {
		t.Fatal("GetOrDefault failed")
	}
}

func TestMapValuesStaysDeferred(t *testing.T) {
	runs := map[string]int{}
	m := producers(runs)
	doubled := m.MapValues(func(_ string, v int) int { return v * 2 })
	if len(runs) != 0 {
		t.Fatal("MapValues must not run producers")
	}
	if v, _ := doubled.Get("c"); v != 6 {
		t.Fatalf("doubled[c] = %d", v)
	}
	if v, _ := doubled.Get("c"); v != 6 || runs["c"] != 1 {
		t.Fatalf("doubled[c] ran source %d times", runs["c"])
	}
	// The source producer ran through m, so m has it cached too.
	if v, _ := m.Get("c"); v != 3 || runs["c"] != 1 {
		t.Fatalf("m[c] re-ran the producer (%d runs)", runs["c"])
	}

	concrete := lazy.OfPairs(collections.P("k", 10)).MapValues(func(_ string, v int) int { return v + 1 })
	if v, _ := concrete.Get("k"); v != 11 || concrete.MaterializedCount() != 0 {
		t.Fatal("concrete values should be mapped eagerly")
	}
}

func TestMapValueOperationsMaterialize(t *testing.T) {
	runs := map[string]int{}
	m := producers(runs)
	assertSlice(t, m.Values().All(), []int{1, 2, 3})
	if m.MaterializedCount() != 3 {
		t.Fatalf("MaterializedCount = %d; want 3", m.MaterializedCount())
	}

	big := m.FilterValues(func(v int) bool { return v > 1 })
	assertSlice(t, big.Keys().All(), []string{"b", "c"})
	sorted := m.SortValues(func(a, b int) int { return cmp.Compare(b, a) })
	assertSlice(t, sorted.Keys().All(), []string{"c", "b", "a"})
	total := lazy.ReduceMap(m, func(acc int, _ string, v int) int { return acc + v }, 0)
	if total != 6 {
		t.Fatalf("ReduceMap = %d", total)
	}
	for k, n := range runs {
		if n != 1 {
			t.Fatalf("producer %s ran %d times", k, n)
		}
	}
}

func TestMapStructuralUpdatesAreImmutable(t *testing.T) {
	runs := map[string]int{}
	m := producers(runs)

	put := m.Put("d", 4).PutLazy("e", func() int { return 5 })
	removed := m.Remove("a")
	merged := m.Merge(lazy.OfPairs(collections.P("a", 100), collections.P("z", 26)))
	putAll := m.PutAll(collections.P("q", 0))

	assertSlice(t, m.Keys().All(), []string{"a", "b", "c"})
	assertSlice(t, put.Keys().All(), []string{"a", "b", "c", "d", "e"})
	assertSlice(t, removed.Keys().All(), []string{"b", "c"})
	assertSlice(t, merged.Keys().All(), []string{"a", "b", "c", "z"})
	assertSlice(t, putAll.Keys().All(), []string{"a", "b", "c", "q"})

	if v, _ := merged.Get("a"); v != 100 {
		t.Fatalf("merged[a] = %d; other should win", v)
	}
	if len(runs) != 0 {
		t.Fatal("structural updates must not run producers")
	}
	if put.MaterializedCount() != 0 {
		t.Fatal("derived maps start with an empty cache")
	}
}

func TestMapDerivedKeepsMaterializedValues(t *testing.T) {
	runs := map[string]int{}
	m := producers(runs)
	m.Get("a")
	derived := m.Put("d", 4)
	if v, _ := derived.Get("a"); v != 1 || runs["a"] != 1 {
		t.Fatalf("derived map re-ran producer a (%d runs)", runs["a"])
	}
}

func TestMapTransforms(t *testing.T) {
	m := lazy.OfLazy(
		collections.P("x", lazy.Eager(1)),
		collections.P("y", lazy.Defer(func() int { return 2 })),
	)
	swapped := m.Map(func(k string, v int) (string, int) { return k + k, v * 10 })
	assertSlice(t, swapped.Keys().All(), []string{"xx", "yy"})
	assertSlice(t, swapped.Values().All(), []int{10, 20})

	keyed := m.MapKeys(func(k string, v int) string { return k + "!" })
	assertSlice(t, keyed.Keys().All(), []string{"x!", "y!"})

	odd := m.Filter(func(_ string, v int) bool { return v%2 == 1 })
	assertSlice(t, odd.Keys().All(), []string{"x"})

	var seen []string
	m.Each(func(k string, _ int) { seen = append(seen, k) })
	assertSlice(t, seen, []string{"x", "y"})

	eager := m.ToEager()
	if v, err := eager.Get("y"); err != nil || v != 2 {
		t.Fatalf("ToEager()[y] = %d, %v", v, err)
	}
	assertSlice(t, m.ToSequence().All(), []int{1, 2})
	if len(m.All()) != 2 || len(m.Entries()) != 2 {
		t.Fatal("All/Entries")
	}
}

func TestMaterializeAll(t *testing.T) {
	runs := map[string]int{}
	m := producers(runs).MaterializeAll()
	if m.MaterializedCount() != 3 {
		t.Fatalf("MaterializedCount = %d", m.MaterializedCount())
	}
	m.MaterializeAll()
	if runs["a"] != 1 {
		t.Fatal("MaterializeAll re-ran a producer")
	}
}

func TestFromMapNaturalOrder(t *testing.T) {
	m := lazy.FromMap(map[int]string{3: "c", 1: "a", 2: "b"})
	assertSlice(t, m.Keys().All(), []int{1, 2, 3})
	if m.IsEmpty() || !m.IsNotEmpty() || !lazy.EmptyMap[int, int]().IsEmpty() {
		t.Fatal("IsEmpty")
	}
}

func TestFromEagerKeepsOrder(t *testing.T) {
	eager := collections.MapOf(collections.P("z", 26), collections.P("a", 1), collections.P("m", 13))
	m := lazy.FromEager(eager)
	assertSlice(t, m.Keys().All(), []string{"z", "a", "m"})
	if v, ok := m.Get("m"); !ok || v != 13 {
		t.Fatalf("Get(m) = %d, %v", v, ok)
	}
	if m.MaterializedCount() != 0 {
		t.Fatalf("MaterializedCount = %d; concrete values are not producers", m.MaterializedCount())
	}

	// the eager map is unaffected by derivations of the lazy one
	m.Put("b", 2)
	if eager.Count() != 3 {
		t.Fatalf("eager Count = %d", eager.Count())
	}
}
