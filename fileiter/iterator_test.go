package fileiter_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hasbyte1/go-lazy-collections/fileiter"
)

// writeFile creates name under a fresh temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// mustOpen fails the test on a constructor error and closes the iterator
// at cleanup: it := mustOpen(t)(fileiter.Text(path)).
func mustOpen(t *testing.T) func(*fileiter.Iterator, error) *fileiter.Iterator {
	return func(it *fileiter.Iterator, err error) *fileiter.Iterator {
		t.Helper()
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		t.Cleanup(func() { it.Close() })
		return it
	}
}

type indexed struct {
	i   int
	rec any
}

func collect(it *fileiter.Iterator) []indexed {
	var out []indexed
	for i, rec := range it.Records() {
		out = append(out, indexed{i, rec})
	}
	return out
}

// ─────────────────────────────────────────────────────────────
// Cursor
// ─────────────────────────────────────────────────────────────

func TestRewindRoundTrip(t *testing.T) {
	path := writeFile(t, "data.jsonl", `{"id":1}`+"\n"+`{"id":2}`+"\n"+`{"id":3}`+"\n")
	it := mustOpen(t)(fileiter.JSONLines(path))

	first := collect(it)
	if len(first) != 3 {
		t.Fatalf("got %d records; want 3", len(first))
	}
	if err := it.Rewind(); err != nil {
		t.Fatal(err)
	}
	second := collect(it)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("second pass differs:\n%v\n%v", first, second)
	}
	if rec := first[2].rec.(map[string]any); rec["id"] != json.Number("3") || first[2].i != 2 {
		t.Fatalf("last record = %v at %d", rec, first[2].i)
	}
}

func TestBlankLinesAreSkipped(t *testing.T) {
	path := writeFile(t, "notes.txt", "\n\nalpha\n   \n\t\nbeta\r\n\ngamma")
	it := mustOpen(t)(fileiter.Text(path))

	got := collect(it)
	want := []indexed{{0, "alpha"}, {1, "beta"}, {2, "gamma"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v; want %v", got, want)
	}
}

func TestManualCursor(t *testing.T) {
	path := writeFile(t, "lines.txt", "one\ntwo\n")
	it := mustOpen(t)(fileiter.Text(path))

	if !it.Valid() || it.AtEnd() || it.Index() != 0 || it.Line() != "one" {
		t.Fatalf("not primed: valid=%v index=%d line=%q", it.Valid(), it.Index(), it.Line())
	}
	it.Next()
	if v, ok, err := it.Current(); !ok || err != nil || v != "two" || it.Index() != 1 {
		t.Fatalf("Current() = %v, %v, %v at %d", v, ok, err, it.Index())
	}
	it.Next()
	if !it.AtEnd() || it.Valid() {
		t.Fatal("expected end of stream")
	}
	if v, ok, err := it.Current(); v != nil || ok || err != nil {
		t.Fatalf("exhausted Current() = %v, %v, %v", v, ok, err)
	}
	it.Next()
	if it.Index() != 1 {
		t.Fatalf("Next past the end moved index to %d", it.Index())
	}
}

func TestEmptyFile(t *testing.T) {
	path := writeFile(t, "empty.jsonl", "\n\n")
	it := mustOpen(t)(fileiter.Open(path))
	if it.Valid() || len(collect(it)) != 0 || it.Err() != nil {
		t.Fatal("empty file should produce nothing")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	path := writeFile(t, "a.txt", "x\n")
	it, err := fileiter.Text(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := it.Close(); err != nil {
		t.Fatal(err)
	}
	if err := it.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if it.Valid() {
		t.Fatal("closed iterator should be invalid")
	}
	if err := it.Rewind(); !errors.Is(err, fileiter.ErrFileNotReadable) {
		t.Fatalf("Rewind after Close = %v", err)
	}
}

func TestSmallBuffer(t *testing.T) {
	long := strings.Repeat("x", 500)
	path := writeFile(t, "long.txt", long+"\nshort\n")
	it := mustOpen(t)(fileiter.Text(path, fileiter.WithBufferSize(16)))
	got := collect(it)
	if len(got) != 2 || got[0].rec != long || got[1].rec != "short" {
		t.Fatalf("lines longer than the buffer were split: %d records", len(got))
	}
}

// ─────────────────────────────────────────────────────────────
// Construction errors
// ─────────────────────────────────────────────────────────────

func TestMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.jsonl")
	it, err := fileiter.Open(path)
	if it != nil || !errors.Is(err, fileiter.ErrFileNotFound) {
		t.Fatalf("Open(missing) = %v, %v", it, err)
	}
	if !errors.Is(err, os.ErrNotExist) || !strings.Contains(err.Error(), path) {
		t.Fatalf("error should wrap the OS error and name the path: %v", err)
	}
}

func TestDirectoryIsNotReadable(t *testing.T) {
	_, err := fileiter.Text(t.TempDir())
	if !errors.Is(err, fileiter.ErrFileNotReadable) {
		t.Fatalf("Text(dir) = %v", err)
	}
}

func TestInvalidOptions(t *testing.T) {
	path := writeFile(t, "x.csv", "a\n")
	if _, err := fileiter.CSV(path, fileiter.CSVOptions{}); !errors.Is(err, fileiter.ErrInvalidOptions) {
		t.Fatalf("zero delimiter = %v", err)
	}
	bad := fileiter.CSVOptions{Delimiter: '"', Enclosure: '"'}
	if _, err := fileiter.CSV(path, bad); !errors.Is(err, fileiter.ErrInvalidOptions) {
		t.Fatalf("delimiter == enclosure = %v", err)
	}
	if _, err := fileiter.Custom(path, nil); !errors.Is(err, fileiter.ErrInvalidOptions) {
		t.Fatalf("nil parse function = %v", err)
	}
}

// ─────────────────────────────────────────────────────────────
// Parse errors
// ─────────────────────────────────────────────────────────────

func TestMalformedLineResume(t *testing.T) {
	path := writeFile(t, "bad.jsonl", `{"a":1}`+"\n"+`{bad json`+"\n"+`{"a":3}`+"\n")
	it := mustOpen(t)(fileiter.JSONLines(path))

	if _, ok, err := it.Current(); !ok || err != nil {
		t.Fatalf("line 0: %v", err)
	}
	it.Next()
	_, ok, err := it.Current()
	if ok || !errors.Is(err, fileiter.ErrParse) {
		t.Fatalf("line 1: ok=%v err=%v", ok, err)
	}
	var pe *fileiter.ParseError
	if !errors.As(err, &pe) || pe.Line != 1 || pe.Preview != "{bad json" {
		t.Fatalf("ParseError = %+v", pe)
	}
	if !strings.Contains(err.Error(), "line 1") {
		t.Fatalf("message lacks line number: %v", err)
	}
	// same error on a repeated call, no re-parse needed
	if _, _, again := it.Current(); again != err {
		t.Fatalf("repeated Current() = %v", again)
	}
	it.Next()
	rec, ok, err := it.Current()
	if !ok || err != nil || rec.(map[string]any)["a"] != json.Number("3") {
		t.Fatalf("line 2 after resume = %v, %v, %v", rec, ok, err)
	}
}

func TestRecordsStopsAtParseError(t *testing.T) {
	path := writeFile(t, "bad.jsonl", "1\n2\n[\n4\n")
	it := mustOpen(t)(fileiter.JSONLines(path))
	got := collect(it)
	if len(got) != 2 {
		t.Fatalf("got %d records before the error; want 2", len(got))
	}
	var pe *fileiter.ParseError
	if !errors.As(it.Err(), &pe) || pe.Line != 2 {
		t.Fatalf("Err() = %v", it.Err())
	}
	// a fresh pass clears the previous error until it is hit again
	it.Rewind()
	if it.Err() != nil {
		t.Fatalf("Err() after Rewind = %v", it.Err())
	}
}

func TestPreviewIsTruncated(t *testing.T) {
	line := "{" + strings.Repeat("é", 100)
	path := writeFile(t, "long.jsonl", line+"\n")
	it := mustOpen(t)(fileiter.JSONLines(path))
	_, _, err := it.Current()
	var pe *fileiter.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Current() = %v", err)
	}
	body := strings.TrimSuffix(pe.Preview, "...")
	if len(body) > 80 || body == pe.Preview || !strings.HasPrefix(line, body) {
		t.Fatalf("preview %q (%d bytes)", pe.Preview, len(body))
	}
}

func TestParseFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.WarnLevel)
	path := writeFile(t, "bad.jsonl", "nope\n")
	it := mustOpen(t)(fileiter.JSONLines(path, fileiter.WithLogger(logger)))
	it.Current()
	out := buf.String()
	if !strings.Contains(out, `"message":"parse failed"`) || !strings.Contains(out, `"line":0`) ||
		!strings.Contains(out, `"path":`) {
		t.Fatalf("log output = %s", out)
	}
}

// ─────────────────────────────────────────────────────────────
// Parser selection
// ─────────────────────────────────────────────────────────────

func TestOpenSelectsParserByExtension(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    any
	}{
		{"a.jsonl", `{"k":"v"}`, map[string]any{"k": "v"}},
		{"a.ndjson", `[1,2]`, []any{json.Number("1"), json.Number("2")}},
		{"a.json", `"s"`, "s"},
		{"a.csv", "h1,h2\nx,y", map[string]string{"h1": "x", "h2": "y"}},
		{"a.tsv", "h1\th2\nx\ty", map[string]string{"h1": "x", "h2": "y"}},
		{"a.TXT", `{"k":"v"}`, `{"k":"v"}`},
		{"a.log", "plain line", "plain line"},
		{"a.data", `true`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := mustOpen(t)(fileiter.Open(writeFile(t, tt.name, tt.content)))
			got := collect(it)
			if len(got) != 1 || !reflect.DeepEqual(got[0].rec, tt.want) {
				t.Fatalf("got %#v; want %#v", got, tt.want)
			}
		})
	}
}

func TestWithParserOverrides(t *testing.T) {
	path := writeFile(t, "a.jsonl", "not json\n")
	it := mustOpen(t)(fileiter.Open(path, fileiter.WithParser(fileiter.PlainTextParser{})))
	if v, ok, err := it.Current(); !ok || err != nil || v != "not json" {
		t.Fatalf("Current() = %v, %v, %v", v, ok, err)
	}
}

func TestCustomParser(t *testing.T) {
	path := writeFile(t, "nums.txt", "1\n2\n3\n4\n")
	it := mustOpen(t)(fileiter.Custom(path, func(line string, index int) (any, bool, error) {
		if index%2 == 1 {
			return nil, false, nil
		}
		return line + "!", true, nil
	}))
	got := collect(it)
	want := []indexed{{0, "1!"}, {2, "3!"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v; want %v", got, want)
	}
}

func TestRecordsEarlyBreak(t *testing.T) {
	path := writeFile(t, "n.txt", "a\nb\nc\n")
	it := mustOpen(t)(fileiter.Text(path))
	for i := range it.Records() {
		if i == 1 {
			break
		}
	}
	if it.Index() != 1 || it.Line() != "b" {
		t.Fatalf("cursor at %d (%q) after break", it.Index(), it.Line())
	}
}
