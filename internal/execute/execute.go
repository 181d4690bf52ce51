// Package execute wires configuration, decoding, parsing, and evaluation
// into the one-shot and interactive entry points used by the CLI.
package execute

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jacoelho/gq/internal/config"
	"github.com/jacoelho/gq/internal/exit"
	"github.com/jacoelho/gq/internal/lexer"
	"github.com/jacoelho/gq/internal/output"
	"github.com/jacoelho/gq/internal/parser"
	"github.com/jacoelho/gq/internal/query"
	"github.com/jacoelho/gq/internal/repl"
	"github.com/jacoelho/gq/internal/value"
)

type Runner struct {
	config    *config.Config
	engine    *query.Engine
	formatter *output.Formatter
	input     io.Reader
	output    io.Writer
	errOutput io.Writer
}

func New(cfg *config.Config) (*Runner, *exit.Result) {
	engine := query.New()
	engine.DescentLimit = cfg.DescentLimit

	formatter := output.New(output.Options{
		Pretty: cfg.Pretty,
		Raw:    cfg.Raw,
		Color:  cfg.Color,
	})

	return &Runner{
		config:    cfg,
		engine:    engine,
		formatter: formatter,
		input:     os.Stdin,
		output:    os.Stdout,
		errOutput: os.Stderr,
	}, nil
}

func (r *Runner) SetInput(in io.Reader) {
	r.input = in
}

func (r *Runner) SetOutput(w io.Writer) {
	r.output = w
}

func (r *Runner) SetErrorOutput(w io.Writer) {
	r.errOutput = w
}

func (r *Runner) logf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.errOutput, format, args...)
}

// Run executes the configured query once, or starts an interactive
// session when requested, and returns the process exit code.
func (r *Runner) Run(ctx context.Context) int {
	var (
		doc  any
		code int
	)
	// A file-less interactive session starts on a null document; stdin
	// belongs to the line editor there.
	if !r.config.REPL || r.config.InputFile != "" {
		doc, code = r.decodeInput()
		if code != exit.CodeOK {
			return code
		}
	}

	if r.config.REPL {
		session := repl.New(r.engine, r.formatter, doc, r.output, r.errOutput)
		if err := session.Run(ctx); err != nil {
			r.logf("Error: %v\n", err)
			return exit.CodeEval
		}
		return exit.CodeOK
	}

	return r.runOnce(doc)
}

func (r *Runner) runOnce(doc any) int {
	parseStart := time.Now()
	expr, err := parser.ParseQuery(r.config.Query)
	if err != nil {
		r.logf("Error: %v\n", err)
		return ExitCodeFor(err)
	}
	parseElapsed := time.Since(parseStart)

	if r.config.Debug {
		r.logf("query: %s\n", expr)
	}

	evalStart := time.Now()
	results, err := r.engine.Execute(expr, doc)
	if err != nil {
		r.logf("Error: %v\n", err)
		return ExitCodeFor(err)
	}
	evalElapsed := time.Since(evalStart)

	formatStart := time.Now()
	if err := r.formatter.WriteAll(r.output, results); err != nil {
		r.logf("Error: %v\n", err)
		return exit.CodeEval
	}

	if r.config.Benchmark {
		r.logf("parse: %s\neval: %s\nformat: %s\n", parseElapsed, evalElapsed, time.Since(formatStart))
	}

	return exit.CodeOK
}

// decodeInput reads the input file or stdin and decodes it according to
// the configured format.
func (r *Runner) decodeInput() (any, int) {
	in := r.input
	if r.config.InputFile != "" {
		f, err := os.Open(r.config.InputFile)
		if err != nil {
			r.logf("Error: %v\n", err)
			return nil, exit.CodeDecode
		}
		defer f.Close()
		in = f
	}

	decodeStart := time.Now()

	var (
		doc any
		err error
	)
	switch r.config.From {
	case config.FormatYAML:
		doc, err = value.DecodeYAML(in)
	default:
		doc, err = value.Decode(in)
	}
	if err != nil {
		r.logf("Error: %v\n", err)
		return nil, exit.CodeDecode
	}

	if r.config.Benchmark {
		r.logf("decode: %s\n", time.Since(decodeStart))
	}

	return doc, exit.CodeOK
}

// ExitCodeFor maps an error to the process exit code of the stage that
// produced it.
func ExitCodeFor(err error) int {
	switch {
	case err == nil:
		return exit.CodeOK
	case errors.Is(err, lexer.ErrLex),
		errors.Is(err, parser.ErrSyntax),
		errors.Is(err, parser.ErrUnexpectedEOF):
		return exit.CodeQuery
	case errors.Is(err, value.ErrDecode):
		return exit.CodeDecode
	default:
		return exit.CodeEval
	}
}
