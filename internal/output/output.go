// Package output renders query results to a writer. The default mode
// prints one compact JSON document per result line; pretty, raw, and
// colored variants are opt-in.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jacoelho/gq/internal/value"
)

// ANSI color codes used by the colored renderer.
const (
	colorReset   = "\x1b[0m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
)

const indentUnit = "  "

// Options controls how results are rendered.
type Options struct {
	// Pretty indents nested structures across multiple lines.
	Pretty bool
	// Raw prints top-level strings without surrounding quotes.
	Raw bool
	// Color wraps values in ANSI escape sequences.
	Color bool
}

// Formatter renders decoded values as JSON text.
type Formatter struct {
	opts Options
}

// New creates a formatter with the given options.
func New(opts Options) *Formatter {
	return &Formatter{opts: opts}
}

// WriteAll writes each result on its own line.
func (f *Formatter) WriteAll(w io.Writer, results []any) error {
	for _, result := range results {
		if err := f.Write(w, result); err != nil {
			return err
		}
	}
	return nil
}

// Write renders a single result followed by a newline.
func (f *Formatter) Write(w io.Writer, v any) error {
	if f.opts.Raw {
		if s, ok := v.(string); ok {
			_, err := fmt.Fprintln(w, s)
			return err
		}
	}

	var (
		text string
		err  error
	)
	switch {
	case f.opts.Color:
		text, err = f.colorize(v)
	case f.opts.Pretty:
		var b []byte
		b, err = json.MarshalIndent(v, "", indentUnit)
		text = string(b)
	default:
		var b []byte
		b, err = json.Marshal(v)
		text = string(b)
	}
	if err != nil {
		return fmt.Errorf("format result: %w", err)
	}

	_, err = fmt.Fprintln(w, text)
	return err
}

// colorize walks the value tree and emits JSON with ANSI colors: green
// strings and keys, blue numbers, magenta booleans and null, yellow
// brackets, cyan separators.
func (f *Formatter) colorize(v any) (string, error) {
	var b strings.Builder
	if err := f.colorValue(&b, v, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (f *Formatter) colorValue(b *strings.Builder, v any, depth int) error {
	switch val := v.(type) {
	case nil:
		b.WriteString(colorMagenta + "null" + colorReset)
	case bool:
		if val {
			b.WriteString(colorMagenta + "true" + colorReset)
		} else {
			b.WriteString(colorMagenta + "false" + colorReset)
		}
	case json.Number:
		b.WriteString(colorBlue + val.String() + colorReset)
	case string:
		quoted, err := json.Marshal(val)
		if err != nil {
			return err
		}
		b.WriteString(colorGreen)
		b.Write(quoted)
		b.WriteString(colorReset)
	case []any:
		return f.colorArray(b, val, depth)
	case *value.Object:
		return f.colorObject(b, val, depth)
	default:
		encoded, err := json.Marshal(val)
		if err != nil {
			return err
		}
		b.Write(encoded)
	}
	return nil
}

func (f *Formatter) colorArray(b *strings.Builder, arr []any, depth int) error {
	if len(arr) == 0 {
		b.WriteString(colorYellow + "[]" + colorReset)
		return nil
	}
	b.WriteString(colorYellow + "[" + colorReset)
	for i, item := range arr {
		if i > 0 {
			b.WriteString(colorCyan + "," + colorReset)
			if !f.opts.Pretty {
				b.WriteString(" ")
			}
		}
		f.newlineIndent(b, depth+1)
		if err := f.colorValue(b, item, depth+1); err != nil {
			return err
		}
	}
	f.newlineIndent(b, depth)
	b.WriteString(colorYellow + "]" + colorReset)
	return nil
}

func (f *Formatter) colorObject(b *strings.Builder, obj *value.Object, depth int) error {
	if obj.Len() == 0 {
		b.WriteString(colorYellow + "{}" + colorReset)
		return nil
	}
	b.WriteString(colorYellow + "{" + colorReset)
	for i, m := range obj.Members() {
		if i > 0 {
			b.WriteString(colorCyan + "," + colorReset)
			if !f.opts.Pretty {
				b.WriteString(" ")
			}
		}
		f.newlineIndent(b, depth+1)
		key, err := json.Marshal(m.Key)
		if err != nil {
			return err
		}
		b.WriteString(colorGreen)
		b.Write(key)
		b.WriteString(colorReset)
		b.WriteString(colorCyan + ":" + colorReset + " ")
		if err := f.colorValue(b, m.Value, depth+1); err != nil {
			return err
		}
	}
	f.newlineIndent(b, depth)
	b.WriteString(colorYellow + "}" + colorReset)
	return nil
}

func (f *Formatter) newlineIndent(b *strings.Builder, depth int) {
	if !f.opts.Pretty {
		return
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat(indentUnit, depth))
}
