// Command lazyfile streams a JSON Lines, CSV, TSV or text file through a
// lazy pipeline and prints the resulting records as JSON lines.
//
//	lazyfile --pluck user.id --unique --take 10 events.jsonl
//	LAZYFILE_LOG_LEVEL=debug lazyfile --format csv --count people.dat
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/hasbyte1/go-lazy-collections/collections"
	"github.com/hasbyte1/go-lazy-collections/fileiter"
	"github.com/hasbyte1/go-lazy-collections/lazy"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "lazyfile:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Log, stderr)

	it, err := openFile(cfg, logger)
	if err != nil {
		return err
	}
	defer it.Close()

	seq := pipeline(cfg, lazy.FromValues(it.Records()))

	var n int
	if cfg.Count {
		n = seq.Count()
		if err := it.Err(); err != nil {
			return err
		}
		fmt.Fprintln(stdout, n)
	} else {
		enc := json.NewEncoder(stdout)
		for rec := range seq.Iter() {
			if err := enc.Encode(rec); err != nil {
				return fmt.Errorf("write record: %w", err)
			}
			n++
		}
		if err := it.Err(); err != nil {
			return err
		}
	}
	logger.Info().Int("records", n).Str("path", cfg.Path).Msg("done")
	return nil
}

func openFile(cfg *Config, logger zerolog.Logger) (*fileiter.Iterator, error) {
	opts := []fileiter.Option{
		fileiter.WithLogger(logger),
		fileiter.WithBufferSize(cfg.BufferKB * 1024),
	}
	format := cfg.Format
	if format == "auto" {
		// detected formats still honor the csv flags
		format = fileiter.FormatForPath(cfg.Path)
	}
	switch format {
	case "csv":
		return fileiter.CSV(cfg.Path, cfg.csvOptions(), opts...)
	case "tsv":
		return fileiter.TSV(cfg.Path, !cfg.NoHeaders, opts...)
	case "text":
		return fileiter.Text(cfg.Path, opts...)
	default:
		return fileiter.JSONLines(cfg.Path, opts...)
	}
}

// pipeline declares pluck, unique, skip and take, in that order.
func pipeline(cfg *Config, seq *lazy.Sequence[any]) *lazy.Sequence[any] {
	if cfg.Pluck != "" {
		path := cfg.Pluck
		seq = seq.Map(func(rec any, _ int) any {
			v, _ := collections.Lookup(rec, path)
			return v
		})
	}
	if cfg.Unique {
		seq = seq.Unique()
	}
	if cfg.Skip > 0 {
		seq = seq.Skip(cfg.Skip)
	}
	if cfg.Take > 0 {
		seq = seq.Take(cfg.Take)
	}
	return seq
}
