package fileiter

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Parser turns one raw line into a record.
//
// ok=false with a nil error means "no record at this index" (a CSV header,
// a line the caller's function chose to drop). Reset discards any state
// collected from earlier lines and is called on every rewind.
type Parser interface {
	Parse(line string, index int) (record any, ok bool, err error)
	Reset()
}

// ParserFunc adapts a plain function to the Parser interface. It keeps no
// state, so Reset does nothing.
type ParserFunc func(line string, index int) (any, bool, error)

func (f ParserFunc) Parse(line string, index int) (any, bool, error) { return f(line, index) }

func (ParserFunc) Reset() {}

// JSONLinesParser decodes each line as one JSON value. Numbers decode as
// [json.Number], so integers beyond 2^53 keep every digit; use its Int64 or
// Float64 method to convert.
type JSONLinesParser struct{}

func (JSONLinesParser) Parse(line string, _ int) (any, bool, error) {
	dec := json.NewDecoder(strings.NewReader(line))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, false, fmt.Errorf("unexpected data after JSON value at offset %d", dec.InputOffset())
	}
	return v, true, nil
}

func (JSONLinesParser) Reset() {}

// PlainTextParser returns every line verbatim.
type PlainTextParser struct{}

func (PlainTextParser) Parse(line string, _ int) (any, bool, error) { return line, true, nil }

func (PlainTextParser) Reset() {}

// CSVOptions configures a CSVParser. A zero Enclosure disables quoting and
// a zero Escape disables escaping.
type CSVOptions struct {
	Delimiter  rune
	Enclosure  rune
	Escape     rune
	HasHeaders bool
}

// DefaultCSVOptions returns comma-delimited, double-quoted fields with a
// backslash escape and a header line.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{Delimiter: ',', Enclosure: '"', Escape: '\\', HasHeaders: true}
}

func (o CSVOptions) valid() bool {
	return o.Delimiter != 0 && o.Delimiter != o.Enclosure && o.Delimiter != o.Escape
}

// CSVParser splits delimited lines into fields.
//
// With HasHeaders the first line it sees is captured as the header row and
// produces no record; later lines become map[string]string keyed by header,
// with "" for missing trailing fields and extra fields dropped. Without
// headers every line becomes a []string.
type CSVParser struct {
	opts    CSVOptions
	headers []string
}

// NewCSVParser returns a parser using opts.
func NewCSVParser(opts CSVOptions) *CSVParser {
	return &CSVParser{opts: opts}
}

// NewTSVParser returns a tab-delimited CSVParser.
func NewTSVParser(hasHeaders bool) *CSVParser {
	opts := DefaultCSVOptions()
	opts.Delimiter = '\t'
	opts.HasHeaders = hasHeaders
	return NewCSVParser(opts)
}

// Headers returns the captured header row, or nil before it is read.
func (p *CSVParser) Headers() []string { return p.headers }

func (p *CSVParser) Parse(line string, _ int) (any, bool, error) {
	fields := splitFields(line, p.opts)
	if !p.opts.HasHeaders {
		return fields, true, nil
	}
	if p.headers == nil {
		p.headers = fields
		return nil, false, nil
	}
	record := make(map[string]string, len(p.headers))
	for i, h := range p.headers {
		if i < len(fields) {
			record[h] = fields[i]
		} else {
			record[h] = ""
		}
	}
	return record, true, nil
}

func (p *CSVParser) Reset() { p.headers = nil }

// splitFields splits one line on opts.Delimiter. An enclosure opens only at
// the start of a field; inside it the delimiter is literal, a doubled
// enclosure yields one enclosure rune and the escape rune makes the next rune
// literal. An unterminated enclosure runs to the end of the line.
func splitFields(line string, opts CSVOptions) []string {
	var (
		fields  []string
		field   strings.Builder
		quoted  bool
		atStart = true
	)
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quoted:
			switch {
			case opts.Escape != 0 && r == opts.Escape && r != opts.Enclosure && i+1 < len(runes):
				i++
				field.WriteRune(runes[i])
			case r == opts.Enclosure:
				if i+1 < len(runes) && runes[i+1] == opts.Enclosure {
					i++
					field.WriteRune(r)
				} else {
					quoted = false
				}
			default:
				field.WriteRune(r)
			}
		case r == opts.Delimiter:
			fields = append(fields, field.String())
			field.Reset()
			atStart = true
			continue
		case opts.Enclosure != 0 && r == opts.Enclosure && atStart:
			quoted = true
		default:
			field.WriteRune(r)
		}
		atStart = false
	}
	return append(fields, field.String())
}

// FormatForPath names the format chosen for path by its extension: "csv",
// "tsv", "text" for .txt and .log, and "jsonl" for everything else
// (including .jsonl, .ndjson and .json).
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return "csv"
	case ".tsv":
		return "tsv"
	case ".txt", ".log":
		return "text"
	default:
		return "jsonl"
	}
}

// ParserForPath picks a parser for the format [FormatForPath] reports.
// CSV and TSV files are read as headered.
func ParserForPath(path string) Parser {
	switch FormatForPath(path) {
	case "csv":
		return NewCSVParser(DefaultCSVOptions())
	case "tsv":
		return NewTSVParser(true)
	case "text":
		return PlainTextParser{}
	default:
		return JSONLinesParser{}
	}
}
