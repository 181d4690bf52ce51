package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/jacoelho/gq/internal/exit"
)

// Input formats accepted by the -from flag.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var (
	ErrNoArguments     = errors.New("no arguments provided")
	ErrNoQuery         = errors.New("no query provided")
	ErrTooManyArgs     = errors.New("too many positional arguments")
	ErrInvalidFormat   = errors.New("input format must be json or yaml")
	ErrConflictingMode = errors.New("pretty and compact are mutually exclusive")
	ErrNegativeLimit   = errors.New("descent limit cannot be negative")
)

// Config represents the complete configuration for the gq tool.
type Config struct {
	// Query and input
	Query     string
	InputFile string // empty means stdin
	From      string // json or yaml

	// Output rendering. Compact is the default mode; the flag exists so
	// it can be stated explicitly and conflict with Pretty.
	Pretty  bool
	Compact bool
	Raw     bool
	Color   bool

	// Diagnostics
	Benchmark bool
	Debug     bool

	// Interactive session
	REPL bool

	// Evaluation
	DescentLimit int // nodes a single '..' may visit (0 = unlimited)
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Query == "" && !c.REPL {
		return ErrNoQuery
	}

	if c.Pretty && c.Compact {
		return ErrConflictingMode
	}

	if c.From != FormatJSON && c.From != FormatYAML {
		return fmt.Errorf("%w, got: %s", ErrInvalidFormat, c.From)
	}

	if c.DescentLimit < 0 {
		return ErrNegativeLimit
	}

	if c.InputFile != "" {
		if _, err := os.Stat(c.InputFile); err != nil {
			return fmt.Errorf("input file %s not found: %w", c.InputFile, err)
		}
	}

	return nil
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and exit result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Errorf(exit.CodeUsage, "Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)

	// Suppress the default usage output since we handle it ourselves
	fs.Usage = func() {}
	// Suppress error output since we handle it ourselves
	fs.SetOutput(io.Discard)

	var (
		from         = fs.String("from", FormatJSON, "Input format: json or yaml")
		pretty       = fs.Bool("pretty", false, "Indent output across multiple lines")
		compact      = fs.Bool("compact", false, "Print one result per line (default)")
		raw          = fs.Bool("raw", false, "Print top-level strings without quotes")
		color        = fs.Bool("color", false, "Colorize output with ANSI escapes")
		benchmark    = fs.Bool("benchmark", false, "Report per-stage timings on stderr")
		debug        = fs.Bool("debug", false, "Print the parsed query on stderr before evaluating")
		repl         = fs.Bool("repl", false, "Start an interactive session")
		descentLimit = fs.Int("descent-limit", 0, "Maximum nodes a recursive descent may visit (0 for unlimited)")
	)

	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Errorf(exit.CodeUsage, "Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	// Positional arguments: query, then an optional input file. A REPL
	// session takes no query, only the optional file.
	rest := fs.Args()

	config := &Config{
		From:         *from,
		Pretty:       *pretty,
		Compact:      *compact,
		Raw:          *raw,
		Color:        *color,
		Benchmark:    *benchmark,
		Debug:        *debug,
		REPL:         *repl,
		DescentLimit: *descentLimit,
	}

	switch {
	case config.REPL:
		if len(rest) > 1 {
			return nil, exit.Errorf(exit.CodeUsage, "Error: %v\n\n%s", ErrTooManyArgs, Usage())
		}
		if len(rest) == 1 {
			config.InputFile = rest[0]
		}
	default:
		if len(rest) == 0 {
			return nil, exit.Errorf(exit.CodeUsage, "Error: %v\n\n%s", ErrNoQuery, Usage())
		}
		if len(rest) > 2 {
			return nil, exit.Errorf(exit.CodeUsage, "Error: %v\n\n%s", ErrTooManyArgs, Usage())
		}
		config.Query = rest[0]
		if len(rest) == 2 {
			config.InputFile = rest[1]
		}
	}

	if err := config.Validate(); err != nil {
		return nil, exit.Errorf(exit.CodeUsage, "Error: %v\n\n%s", err, Usage())
	}

	return config, nil
}

// Usage returns a usage string for the CLI tool.
func Usage() string {
	return `gq - JSON query tool

Usage: gq [options] <query> [file]
       gq -repl [file]

Reads JSON (or YAML with -from yaml) from the file or stdin, applies the
query, and prints one result per line.

Options:
  --from FORMAT        Input format: json or yaml (default: json)
  --pretty             Indent output across multiple lines
  --compact            Print one result per line (default)
  --raw                Print top-level strings without quotes
  --color              Colorize output with ANSI escapes
  --benchmark          Report per-stage timings on stderr
  --debug              Print the parsed query on stderr before evaluating
  --repl               Start an interactive session
  --descent-limit N    Maximum nodes a recursive descent may visit (0 for unlimited)
  -h, --help           Show this help message

Examples:
  gq '.name' data.json                   # Extract a property
  gq '.users[] | select(.age > 30)' < users.json
  gq -from yaml '.spec.replicas' deploy.yaml
  gq -pretty '.items | map(.price)' catalog.json
  gq -repl data.json                     # Explore a document interactively`
}
