// Package ast defines the expression tree produced by the parser. Nodes are
// immutable after construction; the evaluator only reads them, so a parsed
// expression is safe to evaluate concurrently.
package ast

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Expr is a query expression node.
type Expr interface {
	fmt.Stringer
	node()
}

// Identity returns its input unchanged ('.').
type Identity struct{}

// RecursiveDescent emits the input and every nested value ('..').
type RecursiveDescent struct{}

// Property looks up an object member ('.name' or '."name"').
type Property struct {
	Name string
}

// Index selects an array element ('.[0]'); negative counts from the end.
type Index struct {
	N int64
}

// Slice selects an array range ('.[1:3]'); nil bounds default to 0/len.
type Slice struct {
	Start *int64
	End   *int64
}

// Iterate emits array elements or object values in order ('.[]').
type Iterate struct{}

// Array constructs an array from the concatenated results of its elements.
type Array struct {
	Elems []Expr
}

// Field is one key/value pair of an Object construction.
type Field struct {
	Key   string
	Value Expr
}

// Object constructs an object; field order is declaration order.
type Object struct {
	Fields []Field
}

// Pipe feeds each result of Left into Right ('l | r').
type Pipe struct {
	Left  Expr
	Right Expr
}

// Select keeps its input when the comparison holds ('select(l op r)').
// Op is one of ==, !=, >, <, >=, <=.
type Select struct {
	Left  Expr
	Op    string
	Right Expr
}

// Map applies Body to each element of an array ('map(body)').
type Map struct {
	Body Expr
}

// Keys emits an object's keys or an array's indices.
type Keys struct{}

// Length emits the element, member, or character count of its input.
type Length struct{}

// Literal is a constant predicate operand: string, json.Number, bool, or nil.
type Literal struct {
	Value any
}

func (Identity) node()         {}
func (RecursiveDescent) node() {}
func (Property) node()         {}
func (Index) node()            {}
func (Slice) node()            {}
func (Iterate) node()          {}
func (Array) node()            {}
func (Object) node()           {}
func (Pipe) node()             {}
func (Select) node()           {}
func (Map) node()              {}
func (Keys) node()             {}
func (Length) node()           {}
func (Literal) node()          {}

func (Identity) String() string         { return "." }
func (RecursiveDescent) String() string { return ".." }

func (p Property) String() string {
	if isBareName(p.Name) {
		return "." + p.Name
	}
	return "." + strconv.Quote(p.Name)
}

func (i Index) String() string {
	return ".[" + strconv.FormatInt(i.N, 10) + "]"
}

func (s Slice) String() string {
	var b strings.Builder
	b.WriteString(".[")
	if s.Start != nil {
		b.WriteString(strconv.FormatInt(*s.Start, 10))
	}
	b.WriteByte(':')
	if s.End != nil {
		b.WriteString(strconv.FormatInt(*s.End, 10))
	}
	b.WriteByte(']')
	return b.String()
}

func (Iterate) String() string { return ".[]" }

func (a Array) String() string {
	parts := make([]string, len(a.Elems))
	for i, e := range a.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (o Object) String() string {
	parts := make([]string, len(o.Fields))
	for i, f := range o.Fields {
		parts[i] = f.Key + ": " + f.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (p Pipe) String() string {
	return p.Left.String() + " | " + p.Right.String()
}

func (s Select) String() string {
	return "select(" + s.Left.String() + " " + s.Op + " " + s.Right.String() + ")"
}

func (m Map) String() string {
	return "map(" + m.Body.String() + ")"
}

func (Keys) String() string   { return "keys" }
func (Length) String() string { return "length" }

func (l Literal) String() string {
	switch v := l.Value.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case string:
		return strconv.Quote(v)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func isBareName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
