package value

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestDecodePreservesKeyOrder(t *testing.T) {
	t.Parallel()

	doc, err := Decode(strings.NewReader(`{"b": 1, "a": 2, "c": {"z": true, "y": false}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	obj, ok := doc.(*Object)
	if !ok {
		t.Fatalf("expected *Object, got %T", doc)
	}

	keys := obj.Keys()
	want := []string{"b", "a", "c"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("key %d: got %q, want %q", i, keys[i], want[i])
		}
	}

	nested, _ := obj.Get("c")
	inner, ok := nested.(*Object)
	if !ok {
		t.Fatalf("expected nested *Object, got %T", nested)
	}
	innerKeys := inner.Keys()
	if innerKeys[0] != "z" || innerKeys[1] != "y" {
		t.Fatalf("expected nested order [z y], got %v", innerKeys)
	}
}

func TestDecodeNumbersKeepPrecision(t *testing.T) {
	t.Parallel()

	doc, err := Decode(strings.NewReader(`[1, 4.5, -0.25, 12345678901234567890]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	arr, ok := doc.([]any)
	if !ok {
		t.Fatalf("expected []any, got %T", doc)
	}
	for i, item := range arr {
		if _, ok := item.(json.Number); !ok {
			t.Fatalf("element %d: expected json.Number, got %T", i, item)
		}
	}
	if arr[3] != json.Number("12345678901234567890") {
		t.Fatalf("expected literal digits preserved, got %v", arr[3])
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty_input", input: ""},
		{name: "trailing_content", input: `{"a": 1} extra`},
		{name: "second_document", input: `{"a": 1} {"b": 2}`},
		{name: "malformed", input: `{"a": `},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrDecode) {
				t.Fatalf("expected ErrDecode, got %v", err)
			}
		})
	}
}

func TestDecodeScalars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  any
	}{
		{name: "string", input: `"hello"`, want: "hello"},
		{name: "number", input: `42`, want: json.Number("42")},
		{name: "boolean", input: `true`, want: true},
		{name: "null", input: `null`, want: nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Decode(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeYAMLPreservesKeyOrder(t *testing.T) {
	t.Parallel()

	input := "zip: \"10001\"\ncity: New York\ncount: 3\nratio: 0.5\n"
	doc, err := DecodeYAML(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	obj, ok := doc.(*Object)
	if !ok {
		t.Fatalf("expected *Object, got %T", doc)
	}

	keys := obj.Keys()
	want := []string{"zip", "city", "count", "ratio"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("key %d: got %q, want %q", i, keys[i], want[i])
		}
	}

	count, _ := obj.Get("count")
	if count != json.Number("3") {
		t.Fatalf("expected count as json.Number 3, got %v (%T)", count, count)
	}
	ratio, _ := obj.Get("ratio")
	if ratio != json.Number("0.5") {
		t.Fatalf("expected ratio as json.Number 0.5, got %v (%T)", ratio, ratio)
	}
}

func TestDecodeYAMLSequence(t *testing.T) {
	t.Parallel()

	doc, err := DecodeYAML(strings.NewReader("- a\n- b\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	arr, ok := doc.([]any)
	if !ok {
		t.Fatalf("expected []any, got %T", doc)
	}
	if len(arr) != 2 || arr[0] != "a" || arr[1] != "b" {
		t.Fatalf("unexpected sequence: %v", arr)
	}
}
