package collections

import (
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Dot-notation lookup for decoded records
//
// Records coming out of JSON Lines or CSV files are nested maps and slices.
// Lookup walks them with a dot-separated path:
//
//	rec := map[string]any{
//	    "user": map[string]any{
//	        "name": "Alice",
//	        "tags": []any{"admin", "ops"},
//	    },
//	}
//
//	Lookup(rec, "user.name")    → "Alice", true
//	Lookup(rec, "user.tags.1")  → "ops", true
//	Lookup(rec, "user.age")     → nil, false
// ─────────────────────────────────────────────────────────────────────────────

// Lookup resolves a dot-separated path inside v. Map segments match keys of
// any string-kinded map, numeric segments index slices and arrays, and other
// segments name exported struct fields. Pointers and interfaces are followed.
func Lookup(v any, path string) (any, bool) {
	if path == "" {
		return v, v != nil
	}
	cur := reflect.ValueOf(v)
	for _, seg := range strings.Split(path, ".") {
		next, ok := step(cur, seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	if !cur.IsValid() || !cur.CanInterface() {
		return nil, false
	}
	return cur.Interface(), true
}

func step(v reflect.Value, seg string) (reflect.Value, bool) {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return reflect.Value{}, false
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}
		out := v.MapIndex(reflect.ValueOf(seg).Convert(v.Type().Key()))
		return out, out.IsValid()
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= v.Len() {
			return reflect.Value{}, false
		}
		return v.Index(i), true
	case reflect.Struct:
		f, ok := v.Type().FieldByName(seg)
		if !ok || !f.IsExported() {
			return reflect.Value{}, false
		}
		return v.FieldByIndex(f.Index), true
	}
	return reflect.Value{}, false
}

// SearchValueKey looks for key in m and, failing that, depth-first through
// every nested map[string]any or []any value. Nested maps are visited in
// key order so the result is deterministic.
//
//	SearchValueKey(map[string]any{"a": map[string]any{"id": 7}}, "id") → 7, true
func SearchValueKey(m map[string]any, key string) (any, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if v, ok := searchNested(m[k], key); ok {
			return v, true
		}
	}
	return nil, false
}

func searchNested(v any, key string) (any, bool) {
	switch nested := v.(type) {
	case map[string]any:
		return SearchValueKey(nested, key)
	case []any:
		for _, item := range nested {
			if found, ok := searchNested(item, key); ok {
				return found, true
			}
		}
	}
	return nil, false
}
