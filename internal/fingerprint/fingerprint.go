// Package fingerprint computes structural fingerprints of arbitrary Go values.
//
// Two values share a fingerprint when they have the same dynamic type and are
// deeply equal: pointers are followed, map entries are compared independently
// of iteration order and unexported struct fields take part. Funcs, channels
// and unsafe pointers are compared by identity.
package fingerprint

import (
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Size is the length in bytes of a fingerprint.
const Size = blake2b.Size256

// maxDepth bounds pointer chasing so cyclic structures terminate.
const maxDepth = 64

// Fingerprint is a BLAKE2b-256 digest of a value's canonical encoding.
type Fingerprint [Size]byte

// Of returns the fingerprint of v.
func Of(v any) Fingerprint {
	h, err := blake2b.New256(nil)
	if err != nil {
		// New256 only fails for keys longer than 64 bytes.
		panic(err)
	}
	encode(h, reflect.ValueOf(v), 0)
	var out Fingerprint
	copy(out[:], h.Sum(nil))
	return out
}

// Set records fingerprints seen so far.
type Set map[Fingerprint]struct{}

// Add inserts the fingerprint of v and reports whether it was new.
func (s Set) Add(v any) bool {
	fp := Of(v)
	if _, ok := s[fp]; ok {
		return false
	}
	s[fp] = struct{}{}
	return true
}

func encode(w io.Writer, v reflect.Value, depth int) {
	if !v.IsValid() {
		io.WriteString(w, "nil")
		return
	}
	io.WriteString(w, v.Type().String())
	io.WriteString(w, ":")
	if depth > maxDepth {
		io.WriteString(w, "…")
		return
	}

	switch v.Kind() {
	case reflect.Bool:
		io.WriteString(w, strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		io.WriteString(w, strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		io.WriteString(w, strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		io.WriteString(w, strconv.FormatFloat(v.Float(), 'g', -1, 64))
	case reflect.Complex64, reflect.Complex128:
		io.WriteString(w, strconv.FormatComplex(v.Complex(), 'g', -1, 128))
	case reflect.String:
		io.WriteString(w, strconv.Quote(v.String()))
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			io.WriteString(w, "nil")
			return
		}
		encode(w, v.Elem(), depth+1)
	case reflect.Slice, reflect.Array:
		io.WriteString(w, "[")
		for i := 0; i < v.Len(); i++ {
			encode(w, v.Index(i), depth+1)
			io.WriteString(w, ",")
		}
		io.WriteString(w, "]")
	case reflect.Map:
		entries := make([]string, 0, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			var sb strings.Builder
			encode(&sb, iter.Key(), depth+1)
			sb.WriteString("=>")
			encode(&sb, iter.Value(), depth+1)
			entries = append(entries, sb.String())
		}
		sort.Strings(entries)
		io.WriteString(w, "{")
		for _, e := range entries {
			io.WriteString(w, e)
			io.WriteString(w, ",")
		}
		io.WriteString(w, "}")
	case reflect.Struct:
		io.WriteString(w, "{")
		for i := 0; i < v.NumField(); i++ {
			io.WriteString(w, v.Type().Field(i).Name)
			io.WriteString(w, "=")
			encode(w, v.Field(i), depth+1)
			io.WriteString(w, ",")
		}
		io.WriteString(w, "}")
	default:
		// func, chan and unsafe.Pointer compare by identity.
		io.WriteString(w, "@")
		io.WriteString(w, strconv.FormatUint(uint64(v.Pointer()), 16))
	}
}
