package fileiter

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrFileNotFound is returned by the constructors when the path does not exist.
	ErrFileNotFound = errors.New("fileiter: file not found")

	// ErrFileNotReadable is returned by the constructors when the path exists
	// but cannot be opened for reading, or names a directory.
	ErrFileNotReadable = errors.New("fileiter: file not readable")

	// ErrParse is matched by every *ParseError.
	ErrParse = errors.New("fileiter: cannot parse line")

	// ErrInvalidOptions is returned by CSV when the delimiter is unset or
	// collides with the enclosure.
	ErrInvalidOptions = errors.New("fileiter: invalid parser options")
)

const previewLen = 80

// ParseError records a line the parser rejected.
type ParseError struct {
	Line    int    // 0-based index of the non-blank line
	Preview string // raw content, truncated to previewLen bytes
	Err     error  // error returned by the parser
}

func newParseError(index int, line string, err error) *ParseError {
	return &ParseError{Line: index, Preview: preview(line), Err: err}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("fileiter: line %d: %v (content: %q)", e.Line, e.Err, e.Preview)
}

// Unwrap exposes both ErrParse and the parser's own error to errors.Is.
func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Err} }

func preview(line string) string {
	if len(line) <= previewLen {
		return line
	}
	n := previewLen
	for n > 0 && !utf8.RuneStart(line[n]) {
		n--
	}
	return line[:n] + "..."
}
