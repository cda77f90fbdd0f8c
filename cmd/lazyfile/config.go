package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/hasbyte1/go-lazy-collections/fileiter"
)

const envPrefix = "LAZYFILE"

// errUsage is returned when the command line cannot be parsed or no path
// was given.
var errUsage = errors.New("usage: lazyfile [flags] PATH")

// Config holds every setting of one run. Values come from flags, LAZYFILE_*
// environment variables and an optional config file, in that precedence.
type Config struct {
	Path      string    `mapstructure:"path" validate:"required"`
	Format    string    `mapstructure:"format" validate:"oneof=auto jsonl csv tsv text"`
	Delimiter string    `mapstructure:"delimiter" validate:"len=1"`
	Enclosure string    `mapstructure:"enclosure" validate:"max=1"`
	Escape    string    `mapstructure:"escape" validate:"max=1"`
	NoHeaders bool      `mapstructure:"no-headers"`
	Pluck     string    `mapstructure:"pluck"`
	Unique    bool      `mapstructure:"unique"`
	Skip      int       `mapstructure:"skip" validate:"gte=0"`
	Take      int       `mapstructure:"take" validate:"gte=0"`
	Count     bool      `mapstructure:"count"`
	BufferKB  int       `mapstructure:"buffer-kb" validate:"gte=0,lte=65536"`
	Log       LogConfig `mapstructure:"log"`
}

// LogConfig selects the zerolog level and writer.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("lazyfile", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.String("config", "", "optional config file (yaml, json or toml)")
	fs.String("env-file", "", "optional .env file; variables already set win")
	fs.String("format", "auto", "input format: auto, jsonl, csv, tsv or text")
	fs.String("delimiter", ",", "csv field delimiter")
	fs.String("enclosure", `"`, "csv field enclosure, empty to disable")
	fs.String("escape", `\`, "csv escape character, empty to disable")
	fs.Bool("no-headers", false, "csv/tsv files have no header line")
	fs.String("pluck", "", "dot path extracted from every record")
	fs.Bool("unique", false, "drop repeated records")
	fs.Int("skip", 0, "records to skip")
	fs.Int("take", 0, "maximum records to print, 0 for all")
	fs.Bool("count", false, "print only the number of records")
	fs.Int("buffer-kb", 64, "read buffer size in KiB")
	fs.String("log-level", "warn", "log level")
	fs.String("log-format", "console", "log format: console or json")
	return fs
}

// loadConfig resolves the run configuration from args and the environment.
func loadConfig(args []string) (*Config, error) {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}

	if file, _ := fs.GetString("env-file"); file != "" {
		if err := godotenv.Load(file); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", file, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	v.SetDefault("path", "")

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}
	for key, flag := range map[string]string{"log.level": "log-level", "log.format": "log-format"} {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if fs.NArg() > 0 {
		cfg.Path = fs.Arg(0)
	}
	if cfg.Path == "" {
		return nil, errUsage
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// csvOptions builds parser options from the csv-related settings.
func (c *Config) csvOptions() fileiter.CSVOptions {
	return fileiter.CSVOptions{
		Delimiter:  firstRune(c.Delimiter),
		Enclosure:  firstRune(c.Enclosure),
		Escape:     firstRune(c.Escape),
		HasHeaders: !c.NoHeaders,
	}
}

func firstRune(s string) rune {
	if s == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

// newLogger writes console or JSON logs to w. Console output is colored
// only when w is a terminal.
func newLogger(cfg LogConfig, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.WarnLevel
	}
	var l zerolog.Logger
	if cfg.Format == "json" {
		l = zerolog.New(w)
	} else {
		l = zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: !isTerminal(w), TimeFormat: "15:04:05"})
	}
	return l.Level(level).With().Timestamp().Str("service", "lazyfile").Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
