package parser

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/jacoelho/gq/internal/ast"
	"github.com/jacoelho/gq/internal/lexer"
)

func int64p(n int64) *int64 { return &n }

func TestParseQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  ast.Expr
	}{
		{
			name:  "identity",
			query: ".",
			want:  ast.Identity{},
		},
		{
			name:  "recursive_descent",
			query: "..",
			want:  ast.RecursiveDescent{},
		},
		{
			name:  "property",
			query: ".name",
			want:  ast.Property{Name: "name"},
		},
		{
			name:  "quoted_property",
			query: `."first name"`,
			want:  ast.Property{Name: "first name"},
		},
		{
			name:  "property_chain",
			query: ".a.b",
			want:  ast.Pipe{Left: ast.Property{Name: "a"}, Right: ast.Property{Name: "b"}},
		},
		{
			name:  "index",
			query: ".[0]",
			want:  ast.Index{N: 0},
		},
		{
			name:  "negative_index",
			query: ".[-1]",
			want:  ast.Index{N: -1},
		},
		{
			name:  "property_then_index",
			query: ".items[2]",
			want:  ast.Pipe{Left: ast.Property{Name: "items"}, Right: ast.Index{N: 2}},
		},
		{
			name:  "index_then_property",
			query: ".phones[0].number",
			want: ast.Pipe{
				Left:  ast.Pipe{Left: ast.Property{Name: "phones"}, Right: ast.Index{N: 0}},
				Right: ast.Property{Name: "number"},
			},
		},
		{
			name:  "slice_both_bounds",
			query: ".[1:3]",
			want:  ast.Slice{Start: int64p(1), End: int64p(3)},
		},
		{
			name:  "slice_open_end",
			query: ".[2:]",
			want:  ast.Slice{Start: int64p(2)},
		},
		{
			name:  "slice_open_start",
			query: ".[:2]",
			want:  ast.Slice{End: int64p(2)},
		},
		{
			name:  "iterate",
			query: ".[]",
			want:  ast.Iterate{},
		},
		{
			name:  "iterate_property",
			query: ".users[]",
			want:  ast.Pipe{Left: ast.Property{Name: "users"}, Right: ast.Iterate{}},
		},
		{
			name:  "pipe",
			query: ".a | .b",
			want:  ast.Pipe{Left: ast.Property{Name: "a"}, Right: ast.Property{Name: "b"}},
		},
		{
			name:  "pipe_left_associative",
			query: ".a | .b | .c",
			want: ast.Pipe{
				Left:  ast.Pipe{Left: ast.Property{Name: "a"}, Right: ast.Property{Name: "b"}},
				Right: ast.Property{Name: "c"},
			},
		},
		{
			name:  "array_construct",
			query: "[.a, .b]",
			want:  ast.Array{Elems: []ast.Expr{ast.Property{Name: "a"}, ast.Property{Name: "b"}}},
		},
		{
			name:  "empty_array_construct",
			query: "[]",
			want:  ast.Array{Elems: []ast.Expr{}},
		},
		{
			name:  "object_construct",
			query: "{name: .n, age: .a}",
			want: ast.Object{Fields: []ast.Field{
				{Key: "name", Value: ast.Property{Name: "n"}},
				{Key: "age", Value: ast.Property{Name: "a"}},
			}},
		},
		{
			name:  "object_bare_key_shorthand",
			query: "{city}",
			want: ast.Object{Fields: []ast.Field{
				{Key: "city", Value: ast.Property{Name: "city"}},
			}},
		},
		{
			name:  "object_quoted_key",
			query: `{"first name": .n}`,
			want: ast.Object{Fields: []ast.Field{
				{Key: "first name", Value: ast.Property{Name: "n"}},
			}},
		},
		{
			name:  "select_number_literal",
			query: "select(.age > 18)",
			want: ast.Select{
				Left:  ast.Property{Name: "age"},
				Op:    ">",
				Right: ast.Literal{Value: json.Number("18")},
			},
		},
		{
			name:  "select_string_literal",
			query: `select(.name == "Ana")`,
			want: ast.Select{
				Left:  ast.Property{Name: "name"},
				Op:    "==",
				Right: ast.Literal{Value: "Ana"},
			},
		},
		{
			name:  "select_null_literal",
			query: "select(.deleted != null)",
			want: ast.Select{
				Left:  ast.Property{Name: "deleted"},
				Op:    "!=",
				Right: ast.Literal{Value: nil},
			},
		},
		{
			name:  "select_expression_operands",
			query: "select(.a <= .b)",
			want: ast.Select{
				Left:  ast.Property{Name: "a"},
				Op:    "<=",
				Right: ast.Property{Name: "b"},
			},
		},
		{
			name:  "map",
			query: "map(.price)",
			want:  ast.Map{Body: ast.Property{Name: "price"}},
		},
		{
			name:  "map_with_pipe_body",
			query: "map(.a | .b)",
			want: ast.Map{Body: ast.Pipe{
				Left:  ast.Property{Name: "a"},
				Right: ast.Property{Name: "b"},
			}},
		},
		{
			name:  "keys",
			query: "keys",
			want:  ast.Keys{},
		},
		{
			name:  "length",
			query: "length",
			want:  ast.Length{},
		},
		{
			name:  "iterate_select_pipeline",
			query: ".users[] | select(.active == true) | .name",
			want: ast.Pipe{
				Left: ast.Pipe{
					Left: ast.Pipe{Left: ast.Property{Name: "users"}, Right: ast.Iterate{}},
					Right: ast.Select{
						Left:  ast.Property{Name: "active"},
						Op:    "==",
						Right: ast.Literal{Value: true},
					},
				},
				Right: ast.Property{Name: "name"},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParseQueryErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		query   string
		wantErr error
	}{
		{name: "empty_query", query: "", wantErr: ErrSyntax},
		{name: "blank_query", query: "   ", wantErr: ErrSyntax},
		{name: "trailing_tokens", query: ". foo", wantErr: ErrSyntax},
		{name: "dangling_pipe", query: ".a |", wantErr: ErrUnexpectedEOF},
		{name: "unclosed_bracket", query: ".[0", wantErr: ErrUnexpectedEOF},
		{name: "unclosed_array_construct", query: "[.a, .b", wantErr: ErrUnexpectedEOF},
		{name: "unclosed_object_construct", query: "{a: .b", wantErr: ErrUnexpectedEOF},
		{name: "object_missing_key", query: "{: .b}", wantErr: ErrSyntax},
		{name: "fractional_index", query: ".[1.5]", wantErr: ErrSyntax},
		{name: "unknown_function", query: "flatten", wantErr: ErrSyntax},
		{name: "select_missing_paren", query: "select .a == 1", wantErr: ErrSyntax},
		{name: "select_missing_operator", query: "select(.a)", wantErr: ErrSyntax},
		{name: "select_unclosed", query: "select(.a == 1", wantErr: ErrUnexpectedEOF},
		{name: "map_unclosed", query: "map(.a", wantErr: ErrUnexpectedEOF},
		{name: "lex_failure_propagates", query: ".a @", wantErr: lexer.ErrLex},
		{name: "double_comma_array", query: "[.a,,.b]", wantErr: ErrSyntax},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseQuery(tt.query)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParsedExpressionString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{name: "identity", query: ".", want: "."},
		{name: "property_chain", query: ".a.b", want: ".a | .b"},
		{name: "quoted_property", query: `."first name"`, want: `."first name"`},
		{name: "slice", query: ".[1:3]", want: ".[1:3]"},
		{name: "select", query: "select(.age >= 21)", want: "select(.age >= 21)"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			expr, err := ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := expr.String(); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func BenchmarkParseQuery(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := ParseQuery(`.users[] | select(.age > 30) | {name, city: .address.city}`); err != nil {
			b.Fatal(err)
		}
	}
}
