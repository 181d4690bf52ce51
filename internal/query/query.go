// Package query evaluates an expression tree against a decoded JSON value,
// producing an ordered sequence of result values.
//
// Every node follows one contract: given a single input value it yields an
// ordered, possibly empty sequence. Pipe composes nodes by evaluating its
// right side once per left-side result and concatenating the outputs in
// order, which is the only composition rule iteration, filtering, and
// mapping rely on.
package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/jacoelho/gq/internal/ast"
	"github.com/jacoelho/gq/internal/value"
)

var (
	// ErrType indicates an operation applied to an incompatible value kind.
	ErrType = errors.New("type error")
	// ErrDescentLimit indicates a recursive descent exceeded the engine's
	// node-visit budget.
	ErrDescentLimit = errors.New("recursive descent limit exceeded")
)

func typeError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrType, fmt.Sprintf(format, args...))
}

// Engine executes expressions. It holds no per-call state, so one Engine
// may evaluate concurrently from multiple goroutines.
type Engine struct {
	// DescentLimit bounds the number of values a single '..' visits.
	// Zero means unlimited.
	DescentLimit int
}

// New creates an engine with no descent limit.
func New() *Engine {
	return &Engine{}
}

// Execute evaluates expr against input and returns the result sequence.
// Data-shape edge cases inside a correct type (missing key, out-of-range
// index, failed predicate) degrade to null, an empty array, or a dropped
// element; only kind mismatches are hard errors, and the first one aborts
// the call.
func (e *Engine) Execute(expr ast.Expr, input any) ([]any, error) {
	switch node := expr.(type) {
	case ast.Identity:
		return []any{input}, nil

	case ast.RecursiveDescent:
		var results []any
		visited := 0
		if err := e.collectRecursive(input, &results, &visited); err != nil {
			return nil, err
		}
		return results, nil

	case ast.Property:
		obj, ok := input.(*value.Object)
		if !ok {
			return nil, typeError("cannot access property %q on %s", node.Name, value.TypeName(input))
		}
		if v, present := obj.Get(node.Name); present {
			return []any{v}, nil
		}
		return []any{nil}, nil

	case ast.Index:
		arr, ok := input.([]any)
		if !ok {
			return nil, typeError("cannot index %s", value.TypeName(input))
		}
		idx := node.N
		if idx < 0 {
			idx += int64(len(arr))
		}
		if idx < 0 || idx >= int64(len(arr)) {
			return []any{nil}, nil
		}
		return []any{arr[idx]}, nil

	case ast.Slice:
		arr, ok := input.([]any)
		if !ok {
			return nil, typeError("cannot slice %s", value.TypeName(input))
		}
		start := resolveBound(node.Start, 0, len(arr))
		end := resolveBound(node.End, len(arr), len(arr))
		if start >= end {
			return []any{[]any{}}, nil
		}
		out := make([]any, end-start)
		copy(out, arr[start:end])
		return []any{out}, nil

	case ast.Iterate:
		switch v := input.(type) {
		case []any:
			out := make([]any, len(v))
			copy(out, v)
			return out, nil
		case *value.Object:
			return v.Values(), nil
		default:
			return nil, typeError("cannot iterate over %s", value.TypeName(input))
		}

	case ast.Array:
		out := make([]any, 0, len(node.Elems))
		for _, elem := range node.Elems {
			results, err := e.Execute(elem, input)
			if err != nil {
				return nil, err
			}
			out = append(out, results...)
		}
		return []any{out}, nil

	case ast.Object:
		obj := value.NewObject()
		for _, field := range node.Fields {
			results, err := e.Execute(field.Value, input)
			if err != nil {
				return nil, err
			}
			if len(results) == 0 {
				continue
			}
			obj.Set(field.Key, results[0])
		}
		return []any{obj}, nil

	case ast.Pipe:
		left, err := e.Execute(node.Left, input)
		if err != nil {
			return nil, err
		}
		var out []any
		for _, v := range left {
			right, err := e.Execute(node.Right, v)
			if err != nil {
				return nil, err
			}
			out = append(out, right...)
		}
		return out, nil

	case ast.Select:
		return e.executeSelect(node, input)

	case ast.Map:
		arr, ok := input.([]any)
		if !ok {
			return nil, typeError("cannot map over %s", value.TypeName(input))
		}
		out := make([]any, 0, len(arr))
		for _, item := range arr {
			results, err := e.Execute(node.Body, item)
			if err != nil {
				return nil, err
			}
			out = append(out, results...)
		}
		return []any{out}, nil

	case ast.Keys:
		switch v := input.(type) {
		case *value.Object:
			keys := make([]any, 0, v.Len())
			for _, key := range v.Keys() {
				keys = append(keys, key)
			}
			return []any{keys}, nil
		case []any:
			indices := make([]any, len(v))
			for i := range v {
				indices[i] = json.Number(strconv.Itoa(i))
			}
			return []any{indices}, nil
		default:
			return nil, typeError("cannot list keys of %s", value.TypeName(input))
		}

	case ast.Length:
		switch v := input.(type) {
		case []any:
			return []any{json.Number(strconv.Itoa(len(v)))}, nil
		case *value.Object:
			return []any{json.Number(strconv.Itoa(v.Len()))}, nil
		case string:
			return []any{json.Number(strconv.Itoa(utf8.RuneCountInString(v)))}, nil
		default:
			return nil, typeError("cannot take length of %s", value.TypeName(input))
		}

	case ast.Literal:
		return []any{node.Value}, nil

	default:
		return nil, typeError("unsupported expression %T", expr)
	}
}

// executeSelect applies the predicate to one input value. Scalars never
// match; arrays reach a select one element at a time through a preceding
// '.[]' in the pipe. A side yielding anything but exactly one result, or a
// pairing with no defined ordering, fails the predicate without error.
func (e *Engine) executeSelect(node ast.Select, input any) ([]any, error) {
	switch input.(type) {
	case *value.Object, []any:
	default:
		return nil, nil
	}

	left, err := e.Execute(node.Left, input)
	if err != nil {
		return nil, err
	}
	right, err := e.Execute(node.Right, input)
	if err != nil {
		return nil, err
	}
	if len(left) != 1 || len(right) != 1 {
		return nil, nil
	}

	if applyComparison(node.Op, left[0], right[0]) {
		return []any{input}, nil
	}
	return nil, nil
}

func applyComparison(op string, left, right any) bool {
	switch op {
	case "==":
		return value.Equal(left, right)
	case "!=":
		return !value.Equal(left, right)
	}

	ord, ok := value.Compare(left, right)
	if !ok {
		return false
	}
	switch op {
	case ">":
		return ord > 0
	case "<":
		return ord < 0
	case ">=":
		return ord >= 0
	case "<=":
		return ord <= 0
	default:
		return false
	}
}

// collectRecursive emits v and then every nested value, pre-order,
// in document order.
func (e *Engine) collectRecursive(v any, out *[]any, visited *int) error {
	if e.DescentLimit > 0 {
		*visited++
		if *visited > e.DescentLimit {
			return fmt.Errorf("%w (limit %d)", ErrDescentLimit, e.DescentLimit)
		}
	}

	*out = append(*out, v)

	switch val := v.(type) {
	case *value.Object:
		for _, m := range val.Members() {
			if err := e.collectRecursive(m.Value, out, visited); err != nil {
				return err
			}
		}
	case []any:
		for _, item := range val {
			if err := e.collectRecursive(item, out, visited); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveBound turns an optional slice bound into a concrete index,
// counting negative bounds from the end and clamping to [0, length].
func resolveBound(bound *int64, def, length int) int {
	if bound == nil {
		return def
	}
	i := int(*bound)
	if i < 0 {
		i += length
		if i < 0 {
			i = 0
		}
	}
	if i > length {
		i = length
	}
	return i
}
