// Package repl provides an interactive session for exploring a single
// document with line editing, history, and tab completion.
package repl

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jacoelho/gq/internal/output"
	"github.com/jacoelho/gq/internal/parser"
	"github.com/jacoelho/gq/internal/query"
	"github.com/jacoelho/gq/internal/value"
)

const prompt = "gq> "

// Query keywords and literals for tab completion.
var completionWords = []string{
	"select", "map", "keys", "length",
	"true", "false", "null",
}

// Session evaluates queries against one loaded document until the user
// quits.
type Session struct {
	engine    *query.Engine
	formatter *output.Formatter
	doc       any
	out       io.Writer
	errOut    io.Writer
}

func New(engine *query.Engine, formatter *output.Formatter, doc any, out, errOut io.Writer) *Session {
	return &Session{
		engine:    engine,
		formatter: formatter,
		doc:       doc,
		out:       out,
		errOut:    errOut,
	}
}

// Run reads queries until Ctrl+D, :quit, or context cancellation.
func (s *Session) Run(ctx context.Context) error {
	line := liner.NewLiner()
	defer line.Close()

	// Enable Ctrl+C to abort current line
	line.SetCtrlCAborts(true)

	line.SetCompleter(s.complete)

	// Load command history from file
	historyFile := filepath.Join(os.TempDir(), ".gq_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	// Save history on exit
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintln(s.out, "Type a query, ':help' for commands, Ctrl+D to quit")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		input, err := line.Prompt(prompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				fmt.Fprintln(s.out, "^C")
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(s.out)
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, ":") {
			if quit := s.command(input); quit {
				return nil
			}
			continue
		}

		s.eval(input)
	}
}

// command handles a ':' directive and reports whether the session
// should end.
func (s *Session) command(input string) bool {
	switch input {
	case ":quit", ":q", ":exit":
		return true
	case ":keys":
		s.eval("keys")
	case ":help":
		fmt.Fprintln(s.out, "Commands:")
		fmt.Fprintln(s.out, "  :keys   List the top-level keys of the document")
		fmt.Fprintln(s.out, "  :help   Show this help")
		fmt.Fprintln(s.out, "  :quit   Exit the session")
		fmt.Fprintln(s.out, "Anything else is evaluated as a query, e.g. .items[0]")
	default:
		fmt.Fprintf(s.errOut, "unknown command %s, try :help\n", input)
	}
	return false
}

func (s *Session) eval(input string) {
	expr, err := parser.ParseQuery(input)
	if err != nil {
		fmt.Fprintf(s.errOut, "Error: %v\n", err)
		return
	}

	results, err := s.engine.Execute(expr, s.doc)
	if err != nil {
		fmt.Fprintf(s.errOut, "Error: %v\n", err)
		return
	}

	if err := s.formatter.WriteAll(s.out, results); err != nil {
		fmt.Fprintf(s.errOut, "Error: %v\n", err)
	}
}

// complete suggests keywords and, after a '.', the document's top-level
// property names.
func (s *Session) complete(line string) []string {
	var completions []string

	if idx := strings.LastIndex(line, "."); idx >= 0 {
		prefix, partial := line[:idx+1], line[idx+1:]
		if obj, ok := s.doc.(*value.Object); ok {
			for _, key := range obj.Keys() {
				if strings.HasPrefix(key, partial) {
					completions = append(completions, prefix+key)
				}
			}
		}
		return completions
	}

	for _, word := range completionWords {
		if strings.HasPrefix(word, line) {
			completions = append(completions, word)
		}
	}
	return completions
}
