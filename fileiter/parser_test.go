package fileiter_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/hasbyte1/go-lazy-collections/fileiter"
)

func TestCSVHeaderExclusion(t *testing.T) {
	path := writeFile(t, "people.csv", "name,age\nann,30\n\nbob,41\ncid,7\n")
	it := mustOpen(t)(fileiter.CSV(path, fileiter.DefaultCSVOptions()))

	got := collect(it)
	want := []indexed{
		{1, map[string]string{"name": "ann", "age": "30"}},
		{2, map[string]string{"name": "bob", "age": "41"}},
		{3, map[string]string{"name": "cid", "age": "7"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v; want %v", got, want)
	}
}

func TestCSVHeaderRecapturedAfterRewind(t *testing.T) {
	path := writeFile(t, "p.csv", "k,v\na,1\n")
	it := mustOpen(t)(fileiter.CSV(path, fileiter.DefaultCSVOptions()))

	// the header line reports no record, however often it is asked
	for range 2 {
		if v, ok, err := it.Current(); v != nil || ok || err != nil {
			t.Fatalf("header Current() = %v, %v, %v", v, ok, err)
		}
	}
	first := collect(it)
	second := collect(it)
	if len(first) != 1 || !reflect.DeepEqual(first, second) {
		t.Fatalf("passes differ: %v / %v", first, second)
	}
}

func TestCSVWithoutHeaders(t *testing.T) {
	opts := fileiter.DefaultCSVOptions()
	opts.HasHeaders = false
	path := writeFile(t, "raw.csv", "a,b\nc,d\n")
	it := mustOpen(t)(fileiter.CSV(path, opts))
	got := collect(it)
	want := []indexed{{0, []string{"a", "b"}}, {1, []string{"c", "d"}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v; want %v", got, want)
	}
}

func TestCSVMissingAndExtraFields(t *testing.T) {
	p := fileiter.NewCSVParser(fileiter.DefaultCSVOptions())
	p.Parse("a,b,c", 0)
	rec, ok, err := p.Parse("1", 1)
	if !ok || err != nil || !reflect.DeepEqual(rec, map[string]string{"a": "1", "b": "", "c": ""}) {
		t.Fatalf("short row = %v", rec)
	}
	rec, _, _ = p.Parse("1,2,3,4", 2)
	if !reflect.DeepEqual(rec, map[string]string{"a": "1", "b": "2", "c": "3"}) {
		t.Fatalf("long row = %v", rec)
	}
	headers := p.Headers()
	p.Reset()
	if len(headers) != 3 || p.Headers() != nil {
		t.Fatal("Reset should drop the header row")
	}
}

func TestCSVFieldSplitting(t *testing.T) {
	opts := fileiter.DefaultCSVOptions()
	opts.HasHeaders = false
	tests := []struct {
		name string
		opts fileiter.CSVOptions
		line string
		want []string
	}{
		{"plain", opts, "a,b,c", []string{"a", "b", "c"}},
		{"empty fields", opts, ",x,", []string{"", "x", ""}},
		{"quoted delimiter", opts, `"x, y",z`, []string{"x, y", "z"}},
		{"doubled enclosure", opts, `"say ""hi""",ok`, []string{`say "hi"`, "ok"}},
		{"escaped enclosure", opts, `"a\"b",c`, []string{`a"b`, "c"}},
		{"quote mid field is literal", opts, `ab"c,d`, []string{`ab"c`, "d"}},
		{"unterminated enclosure", opts, `"open,rest`, []string{"open,rest"}},
		{"custom enclosure", fileiter.CSVOptions{Delimiter: ';', Enclosure: '\''}, `'a;b';c`, []string{"a;b", "c"}},
		{"no enclosure", fileiter.CSVOptions{Delimiter: ','}, `"a","b"`, []string{`"a"`, `"b"`}},
		{"unicode delimiter", fileiter.CSVOptions{Delimiter: '¦'}, "é¦ü", []string{"é", "ü"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok, err := fileiter.NewCSVParser(tt.opts).Parse(tt.line, 0)
			if !ok || err != nil || !reflect.DeepEqual(rec, tt.want) {
				t.Fatalf("Parse(%q) = %q; want %q", tt.line, rec, tt.want)
			}
		})
	}
}

func TestTSV(t *testing.T) {
	path := writeFile(t, "t.tsv", "a\tb\n1\t\"2\t3\"\n")
	it := mustOpen(t)(fileiter.TSV(path, true))
	got := collect(it)
	want := []indexed{{1, map[string]string{"a": "1", "b": "2\t3"}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v; want %v", got, want)
	}
}

func TestJSONLinesParser(t *testing.T) {
	var p fileiter.JSONLinesParser
	if v, ok, err := p.Parse("null", 0); !ok || err != nil || v != nil {
		t.Fatalf("null = %v, %v, %v", v, ok, err)
	}
	if _, ok, err := p.Parse(`{"a":`, 0); ok || err == nil {
		t.Fatal("truncated object should fail")
	}
	if _, ok, err := p.Parse(`{"a":1} {"b":2}`, 0); ok || err == nil {
		t.Fatal("two values on one line should fail")
	}
	if v, ok, err := p.Parse("  7  ", 0); !ok || err != nil || v != json.Number("7") {
		t.Fatalf("padded number = %v, %v, %v", v, ok, err)
	}
}

func TestJSONLinesKeepsLargeIntegers(t *testing.T) {
	var p fileiter.JSONLinesParser
	v, _, err := p.Parse(`{"id":9007199254740993,"ratio":0.5}`, 0)
	if err != nil {
		t.Fatal(err)
	}
	rec := v.(map[string]any)
	id, err := rec["id"].(json.Number).Int64()
	if err != nil || id != 9007199254740993 {
		t.Fatalf("id = %v, %v", id, err)
	}
	if f, _ := rec["ratio"].(json.Number).Float64(); f != 0.5 {
		t.Fatalf("ratio = %v", f)
	}
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path, want string
	}{
		{"a.csv", "csv"},
		{"dir/A.CSV", "csv"},
		{"a.tsv", "tsv"},
		{"a.txt", "text"},
		{"a.log", "text"},
		{"a.jsonl", "jsonl"},
		{"noext", "jsonl"},
	}
	for _, tt := range tests {
		if got := fileiter.FormatForPath(tt.path); got != tt.want {
			t.Errorf("FormatForPath(%q) = %q; want %q", tt.path, got, tt.want)
		}
	}
}

func TestParserFunc(t *testing.T) {
	var p fileiter.Parser = fileiter.ParserFunc(func(line string, _ int) (any, bool, error) {
		return len(line), true, nil
	})
	p.Reset()
	if v, _, _ := p.Parse("four", 0); v != 4 {
		t.Fatalf("Parse = %v", v)
	}
}
