package fileiter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const defaultBufferSize = 64 * 1024

// Iterator is a cursor over the non-blank lines of a file.
//
// The cursor is positioned on the first non-blank line as soon as it is
// constructed. Index counts non-blank lines from 0; blank lines (empty after
// trimming whitespace) are skipped and never reach the parser. An Iterator
// owns its file handle and is not safe for concurrent use.
type Iterator struct {
	path       string
	file       *os.File
	reader     *bufio.Reader
	bufferSize int
	parser     Parser
	logger     zerolog.Logger

	line  string
	index int
	err   error

	// parse result for the current line, so the parser sees each line once
	parsed bool
	record any
	ok     bool
	perr   error
}

// Option configures an Iterator during construction.
type Option func(*Iterator)

// WithParser replaces the parser chosen by the constructor.
func WithParser(p Parser) Option {
	return func(it *Iterator) {
		if p != nil {
			it.parser = p
		}
	}
}

// WithLogger sets the logger for open, rewind, close and parse-failure
// events. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(it *Iterator) { it.logger = l }
}

// WithBufferSize sets the read buffer size. Values <= 0 keep the default.
func WithBufferSize(n int) Option {
	return func(it *Iterator) {
		if n > 0 {
			it.bufferSize = n
		}
	}
}

// Open opens path with a parser chosen by ParserForPath.
func Open(path string, opts ...Option) (*Iterator, error) {
	return open(path, ParserForPath(path), opts)
}

// JSONLines opens path as one JSON value per line.
func JSONLines(path string, opts ...Option) (*Iterator, error) {
	return open(path, JSONLinesParser{}, opts)
}

// CSV opens path as delimited records using csv.
func CSV(path string, csv CSVOptions, opts ...Option) (*Iterator, error) {
	if !csv.valid() {
		return nil, fmt.Errorf("%w: delimiter %q with enclosure %q and escape %q",
			ErrInvalidOptions, csv.Delimiter, csv.Enclosure, csv.Escape)
	}
	return open(path, NewCSVParser(csv), opts)
}

// TSV opens path as tab-delimited records.
func TSV(path string, hasHeaders bool, opts ...Option) (*Iterator, error) {
	return open(path, NewTSVParser(hasHeaders), opts)
}

// Text opens path yielding each non-blank line as a string.
func Text(path string, opts ...Option) (*Iterator, error) {
	return open(path, PlainTextParser{}, opts)
}

// Custom opens path and parses each line with fn.
func Custom(path string, fn func(line string, index int) (any, bool, error), opts ...Option) (*Iterator, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: nil parse function", ErrInvalidOptions)
	}
	return open(path, ParserFunc(fn), opts)
}

func open(path string, parser Parser, opts []Option) (*Iterator, error) {
	it := &Iterator{
		path:       path,
		parser:     parser,
		bufferSize: defaultBufferSize,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(it)
	}
	it.logger = it.logger.With().Str("path", path).Logger()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrFileNotFound, path, err)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrFileNotReadable, path, err)
	}
	info, err := f.Stat()
	if err == nil && info.IsDir() {
		err = errors.New("is a directory")
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrFileNotReadable, path, err)
	}

	it.file = f
	it.reader = bufio.NewReaderSize(f, it.bufferSize)
	it.prime()
	it.logger.Debug().Int("buffer", it.bufferSize).Bool("empty", !it.Valid()).Msg("file opened")
	return it, nil
}

// prime positions the cursor on the first non-blank line at index 0.
func (it *Iterator) prime() {
	it.index = 0
	it.line, _ = it.readNonBlank()
	it.clearParsed()
}

func (it *Iterator) clearParsed() {
	it.parsed, it.record, it.ok, it.perr = false, nil, false, nil
}

// readNonBlank returns the next line that is not blank after trimming, with
// its line terminator removed. It reports false at end of stream or on a
// read error, which becomes sticky in it.err.
func (it *Iterator) readNonBlank() (string, bool) {
	if it.reader == nil {
		return "", false
	}
	for {
		raw, err := it.reader.ReadString('\n')
		line := strings.TrimRight(raw, "\r\n")
		if strings.TrimSpace(line) != "" {
			return line, true
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				it.err = err
				it.logger.Error().Err(err).Int("index", it.index).Msg("read failed")
			}
			return "", false
		}
	}
}

// Next advances to the next non-blank line. At end of stream the cursor
// becomes invalid and Index stays on the last line reached.
func (it *Iterator) Next() {
	if it.line == "" {
		return
	}
	line, ok := it.readNonBlank()
	it.line = line
	if ok {
		it.index++
	}
	it.clearParsed()
}

// Current parses the line under the cursor. It returns ok=false when the
// cursor is exhausted or the parser produced no record for this line. A
// parser failure is returned as a *ParseError; the cursor does not move, so
// the caller may call Next to continue past it.
func (it *Iterator) Current() (any, bool, error) {
	if it.line == "" {
		return nil, false, nil
	}
	if !it.parsed {
		it.record, it.ok, it.perr = it.parser.Parse(it.line, it.index)
		if it.perr != nil {
			pe := newParseError(it.index, it.line, it.perr)
			it.logger.Warn().Err(it.perr).Int("line", pe.Line).Str("preview", pe.Preview).Msg("parse failed")
			it.record, it.ok, it.perr = nil, false, pe
		}
		it.parsed = true
	}
	return it.record, it.ok, it.perr
}

// Line returns the raw line under the cursor, or "" when exhausted.
func (it *Iterator) Line() string { return it.line }

// Valid reports whether the cursor is on a line.
func (it *Iterator) Valid() bool { return it.line != "" }

// AtEnd reports whether the stream is exhausted.
func (it *Iterator) AtEnd() bool { return it.line == "" }

// Index returns the 0-based index of the current non-blank line.
func (it *Iterator) Index() int { return it.index }

// Path returns the path the iterator was opened with.
func (it *Iterator) Path() string { return it.path }

// Err returns the read error that ended the stream early, or the parse
// error that stopped the last Records loop.
func (it *Iterator) Err() error { return it.err }

// Rewind seeks back to the start of the file, resets the parser and
// positions the cursor on the first non-blank line again.
func (it *Iterator) Rewind() error {
	if it.file == nil {
		return fmt.Errorf("%w: %s: iterator is closed", ErrFileNotReadable, it.path)
	}
	if _, err := it.file.Seek(0, io.SeekStart); err != nil {
		it.err = err
		return fmt.Errorf("fileiter: rewind %s: %w", it.path, err)
	}
	it.reader.Reset(it.file)
	it.err = nil
	it.parser.Reset()
	it.prime()
	it.logger.Debug().Msg("rewound")
	return nil
}

// Close releases the file. Calling Close more than once is a no-op.
func (it *Iterator) Close() error {
	if it.file == nil {
		return nil
	}
	err := it.file.Close()
	it.file, it.reader, it.line = nil, nil, ""
	it.clearParsed()
	it.logger.Debug().Msg("file closed")
	return err
}

// Records rewinds and yields (index, record) for every line that produced a
// record. Iteration stops at the first parse error, which Err then returns.
func (it *Iterator) Records() iter.Seq2[int, any] {
	return func(yield func(int, any) bool) {
		if err := it.Rewind(); err != nil {
			it.err = err
			return
		}
		for ; it.Valid(); it.Next() {
			record, ok, err := it.Current()
			if err != nil {
				it.err = err
				return
			}
			if ok && !yield(it.index, record) {
				return
			}
		}
	}
}
