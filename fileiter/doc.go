// Package fileiter streams large line-oriented files one record at a time.
//
// An [Iterator] reads lines through a buffered reader, skips blank ones and
// hands each remaining line to a [Parser]. Parsers exist for JSON Lines,
// CSV, TSV and plain text; [Custom] wraps any function.
//
//	it, err := fileiter.Open("events.jsonl")
//	if err != nil {
//	    return err
//	}
//	defer it.Close()
//	for i, rec := range it.Records() {
//	    ...
//	}
//	if err := it.Err(); err != nil {
//	    return err
//	}
//
// Records composes with lazy sequences without loading the file:
//
//	first := lazy.FromValues(it.Records()).Take(10).All()
//
// A malformed line surfaces as a [*ParseError] carrying the 0-based line
// index and a short preview. The cursor stays on that line; callers that
// want to skip bad lines drive the cursor with Current and Next.
package fileiter
