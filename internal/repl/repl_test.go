package repl

import (
	"strings"
	"testing"

	"github.com/jacoelho/gq/internal/output"
	"github.com/jacoelho/gq/internal/query"
	"github.com/jacoelho/gq/internal/value"
)

func newTestSession(t *testing.T, doc string) (*Session, *strings.Builder, *strings.Builder) {
	t.Helper()

	input, err := value.Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("decode input: %v", err)
	}

	var out, errOut strings.Builder
	session := New(query.New(), output.New(output.Options{}), input, &out, &errOut)
	return session, &out, &errOut
}

func TestComplete(t *testing.T) {
	t.Parallel()

	session, _, _ := newTestSession(t, `{"name": "Ana", "nested": {"x": 1}, "age": 30}`)

	tests := []struct {
		name string
		line string
		want []string
	}{
		{name: "keyword_prefix", line: "sel", want: []string{"select"}},
		{name: "literal_prefix", line: "nu", want: []string{"null"}},
		{name: "top_level_keys_after_dot", line: ".n", want: []string{".name", ".nested"}},
		{name: "all_keys_on_bare_dot", line: ".", want: []string{".name", ".nested", ".age"}},
		{name: "no_match", line: ".zzz", want: nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := session.complete(tt.line)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("completion %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEval(t *testing.T) {
	t.Parallel()

	session, out, errOut := newTestSession(t, `{"items": [1, 2, 3]}`)

	session.eval(".items | length")
	if got := out.String(); got != "3\n" {
		t.Fatalf("got %q, want %q", got, "3\n")
	}
	if errOut.Len() != 0 {
		t.Fatalf("expected no error output, got %q", errOut.String())
	}
}

func TestEvalReportsErrors(t *testing.T) {
	t.Parallel()

	session, out, errOut := newTestSession(t, `{"items": [1, 2, 3]}`)

	session.eval(".items |")
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "Error:") {
		t.Fatalf("expected error message, got %q", errOut.String())
	}
}

func TestCommands(t *testing.T) {
	t.Parallel()

	session, out, errOut := newTestSession(t, `{"b": 1, "a": 2}`)

	if quit := session.command(":keys"); quit {
		t.Fatal("expected :keys to keep the session alive")
	}
	if got := out.String(); got != "[\"b\",\"a\"]\n" {
		t.Fatalf("got %q, want %q", got, "[\"b\",\"a\"]\n")
	}

	if quit := session.command(":quit"); !quit {
		t.Fatal("expected :quit to end the session")
	}

	if quit := session.command(":nope"); quit {
		t.Fatal("expected unknown command to keep the session alive")
	}
	if !strings.Contains(errOut.String(), "unknown command") {
		t.Fatalf("expected unknown command message, got %q", errOut.String())
	}
}
