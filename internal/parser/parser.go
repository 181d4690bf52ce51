// Package parser builds an ast.Expr from a token stream using recursive
// descent. A parse consumes the entire stream; trailing tokens after a
// complete expression are a syntax error, and no partial tree is returned
// on failure.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/jacoelho/gq/internal/ast"
	"github.com/jacoelho/gq/internal/lexer"
)

var (
	// ErrSyntax indicates a structural mismatch in the query.
	ErrSyntax = errors.New("syntax error")
	// ErrUnexpectedEOF indicates the token stream ended mid-construct.
	ErrUnexpectedEOF = errors.New("unexpected end of input")
)

func syntaxError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSyntax, fmt.Sprintf(format, args...))
}

// ParseQuery tokenizes and parses a query in one step.
func ParseQuery(query string) (ast.Expr, error) {
	tokens, err := lexer.Tokenize(query)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

// Parse consumes the whole token stream and returns the expression tree.
func Parse(tokens []lexer.Token) (ast.Expr, error) {
	s := &state{tokens: tokens}

	if s.current().Kind == lexer.EOF {
		return nil, syntaxError("empty query")
	}

	expr, err := s.parsePipe()
	if err != nil {
		return nil, err
	}

	if tok := s.current(); tok.Kind != lexer.EOF {
		return nil, syntaxError("unexpected %s at position %d", tok, tok.Pos)
	}

	return expr, nil
}

type state struct {
	tokens []lexer.Token
	pos    int
}

func (s *state) current() lexer.Token {
	if s.pos >= len(s.tokens) {
		return lexer.Token{Kind: lexer.EOF, Pos: len(s.tokens)}
	}
	return s.tokens[s.pos]
}

func (s *state) peek() lexer.Token {
	if s.pos+1 >= len(s.tokens) {
		return lexer.Token{Kind: lexer.EOF, Pos: len(s.tokens)}
	}
	return s.tokens[s.pos+1]
}

func (s *state) advance() lexer.Token {
	tok := s.current()
	if s.pos < len(s.tokens) {
		s.pos++
	}
	return tok
}

func (s *state) expect(kind lexer.Kind) (lexer.Token, error) {
	tok := s.current()
	if tok.Kind == kind {
		s.advance()
		return tok, nil
	}
	if tok.Kind == lexer.EOF {
		return lexer.Token{}, fmt.Errorf("%w, expected %s", ErrUnexpectedEOF, kind)
	}
	return lexer.Token{}, syntaxError("expected %s, found %s at position %d", kind, tok, tok.Pos)
}

func (s *state) parsePipe() (ast.Expr, error) {
	left, err := s.parseSimple()
	if err != nil {
		return nil, err
	}

	for s.current().Kind == lexer.Pipe {
		s.advance()
		right, err := s.parseSimple()
		if err != nil {
			return nil, err
		}
		left = ast.Pipe{Left: left, Right: right}
	}

	return left, nil
}

func (s *state) parseSimple() (ast.Expr, error) {
	tok := s.current()
	switch tok.Kind {
	case lexer.Dot:
		s.advance()
		return s.parseDotted()
	case lexer.DotDot:
		s.advance()
		return ast.RecursiveDescent{}, nil
	case lexer.LBracket:
		s.advance()
		return s.parseArrayConstruct()
	case lexer.LBrace:
		s.advance()
		return s.parseObjectConstruct()
	case lexer.Ident:
		return s.parseCall()
	case lexer.EOF:
		return nil, fmt.Errorf("%w, expected an expression", ErrUnexpectedEOF)
	default:
		return nil, syntaxError("unexpected %s at position %d", tok, tok.Pos)
	}
}

// parseDotted handles everything after a leading '.': identity, property
// chains, and bracket forms, folding suffixes into nested pipes.
func (s *state) parseDotted() (ast.Expr, error) {
	tok := s.current()
	switch tok.Kind {
	case lexer.Ident, lexer.String:
		s.advance()
		return s.parseSuffixes(ast.Property{Name: tok.Text})
	case lexer.LBracket:
		s.advance()
		base, err := s.parseBracket()
		if err != nil {
			return nil, err
		}
		return s.parseSuffixes(base)
	case lexer.EOF, lexer.Pipe, lexer.Comma, lexer.RBracket, lexer.RBrace, lexer.RParen,
		lexer.Eq, lexer.NotEq, lexer.Gt, lexer.Lt, lexer.Ge, lexer.Le:
		return ast.Identity{}, nil
	default:
		return nil, syntaxError("expected property name or '[' after '.', found %s at position %d", tok, tok.Pos)
	}
}

// parseSuffixes folds trailing '.name', '."name"', and '[...]' accesses
// left to right into nested pipes, so '.a[0].b' becomes ((.a | .[0]) | .b).
func (s *state) parseSuffixes(expr ast.Expr) (ast.Expr, error) {
	for {
		switch s.current().Kind {
		case lexer.Dot:
			next := s.peek()
			switch next.Kind {
			case lexer.Ident, lexer.String:
				s.advance()
				s.advance()
				expr = ast.Pipe{Left: expr, Right: ast.Property{Name: next.Text}}
			case lexer.LBracket:
				s.advance()
				s.advance()
				access, err := s.parseBracket()
				if err != nil {
					return nil, err
				}
				expr = ast.Pipe{Left: expr, Right: access}
			default:
				// Not a suffix; leave the dot for the caller's
				// trailing-token check to report.
				return expr, nil
			}
		case lexer.LBracket:
			s.advance()
			access, err := s.parseBracket()
			if err != nil {
				return nil, err
			}
			expr = ast.Pipe{Left: expr, Right: access}
		default:
			return expr, nil
		}
	}
}

// parseBracket parses the bracket forms after the opening '[' has been
// consumed: '[]' iteration, '[N]' index, and '[N:]'/'[:M]'/'[N:M]' slices.
func (s *state) parseBracket() (ast.Expr, error) {
	tok := s.current()
	switch tok.Kind {
	case lexer.RBracket:
		s.advance()
		return ast.Iterate{}, nil
	case lexer.Number:
		n, err := integerBound(tok)
		if err != nil {
			return nil, err
		}
		s.advance()

		if s.current().Kind == lexer.Colon {
			s.advance()
			end, err := s.parseSliceBound()
			if err != nil {
				return nil, err
			}
			if _, err := s.expect(lexer.RBracket); err != nil {
				return nil, err
			}
			return ast.Slice{Start: &n, End: end}, nil
		}

		if _, err := s.expect(lexer.RBracket); err != nil {
			return nil, err
		}
		return ast.Index{N: n}, nil
	case lexer.Colon:
		s.advance()
		end, err := s.parseSliceBound()
		if err != nil {
			return nil, err
		}
		if _, err := s.expect(lexer.RBracket); err != nil {
			return nil, err
		}
		return ast.Slice{End: end}, nil
	case lexer.EOF:
		return nil, fmt.Errorf("%w inside bracket expression", ErrUnexpectedEOF)
	default:
		return nil, syntaxError("expected number, ':' or ']' in bracket expression, found %s at position %d", tok, tok.Pos)
	}
}

func (s *state) parseSliceBound() (*int64, error) {
	tok := s.current()
	if tok.Kind != lexer.Number {
		return nil, nil
	}
	n, err := integerBound(tok)
	if err != nil {
		return nil, err
	}
	s.advance()
	return &n, nil
}

func integerBound(tok lexer.Token) (int64, error) {
	if tok.Num != math.Trunc(tok.Num) {
		return 0, syntaxError("array index must be an integer, found %s at position %d", tok, tok.Pos)
	}
	return int64(tok.Num), nil
}

func (s *state) parseArrayConstruct() (ast.Expr, error) {
	elems := make([]ast.Expr, 0)

	if s.current().Kind == lexer.RBracket {
		s.advance()
		return ast.Array{Elems: elems}, nil
	}

	for {
		elem, err := s.parsePipe()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)

		switch tok := s.current(); tok.Kind {
		case lexer.Comma:
			s.advance()
		case lexer.RBracket:
			s.advance()
			return ast.Array{Elems: elems}, nil
		case lexer.EOF:
			return nil, fmt.Errorf("%w inside array construction", ErrUnexpectedEOF)
		default:
			return nil, syntaxError("expected ',' or ']' in array construction, found %s at position %d", tok, tok.Pos)
		}
	}
}

func (s *state) parseObjectConstruct() (ast.Expr, error) {
	fields := make([]ast.Field, 0)

	if s.current().Kind == lexer.RBrace {
		s.advance()
		return ast.Object{Fields: fields}, nil
	}

	for {
		tok := s.current()
		if tok.Kind != lexer.Ident && tok.Kind != lexer.String {
			if tok.Kind == lexer.EOF {
				return nil, fmt.Errorf("%w inside object construction", ErrUnexpectedEOF)
			}
			return nil, syntaxError("expected property name in object construction, found %s at position %d", tok, tok.Pos)
		}
		key := tok.Text
		s.advance()

		var fieldValue ast.Expr
		switch s.current().Kind {
		case lexer.Colon:
			s.advance()
			expr, err := s.parsePipe()
			if err != nil {
				return nil, err
			}
			fieldValue = expr
		case lexer.Comma, lexer.RBrace:
			// Bare key: {city} is shorthand for {city: .city}.
			fieldValue = ast.Property{Name: key}
		case lexer.EOF:
			return nil, fmt.Errorf("%w inside object construction", ErrUnexpectedEOF)
		default:
			return nil, syntaxError("expected ':', ',' or '}' after object key, found %s at position %d", s.current(), s.current().Pos)
		}
		fields = append(fields, ast.Field{Key: key, Value: fieldValue})

		switch tok := s.current(); tok.Kind {
		case lexer.Comma:
			s.advance()
		case lexer.RBrace:
			s.advance()
			return ast.Object{Fields: fields}, nil
		case lexer.EOF:
			return nil, fmt.Errorf("%w inside object construction", ErrUnexpectedEOF)
		default:
			return nil, syntaxError("expected ',' or '}' in object construction, found %s at position %d", tok, tok.Pos)
		}
	}
}

// parseCall handles the builtin productions select(...), map(...), keys,
// and length. They share the token stream with the rest of the grammar.
func (s *state) parseCall() (ast.Expr, error) {
	tok := s.current()
	switch tok.Text {
	case "select":
		s.advance()
		if _, err := s.expect(lexer.LParen); err != nil {
			return nil, err
		}
		left, err := s.parseOperand()
		if err != nil {
			return nil, err
		}
		op, err := s.parseComparisonOp()
		if err != nil {
			return nil, err
		}
		right, err := s.parseOperand()
		if err != nil {
			return nil, err
		}
		if _, err := s.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return ast.Select{Left: left, Op: op, Right: right}, nil
	case "map":
		s.advance()
		if _, err := s.expect(lexer.LParen); err != nil {
			return nil, err
		}
		body, err := s.parsePipe()
		if err != nil {
			return nil, err
		}
		if _, err := s.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return ast.Map{Body: body}, nil
	case "keys":
		s.advance()
		return ast.Keys{}, nil
	case "length":
		s.advance()
		return ast.Length{}, nil
	default:
		return nil, syntaxError("unknown function %q at position %d", tok.Text, tok.Pos)
	}
}

// parseOperand parses one side of a select predicate: a literal constant or
// an expression evaluated against the same input as the other side.
func (s *state) parseOperand() (ast.Expr, error) {
	tok := s.current()
	switch tok.Kind {
	case lexer.String:
		s.advance()
		return ast.Literal{Value: tok.Text}, nil
	case lexer.Number:
		s.advance()
		return ast.Literal{Value: json.Number(tok.Text)}, nil
	case lexer.True:
		s.advance()
		return ast.Literal{Value: true}, nil
	case lexer.False:
		s.advance()
		return ast.Literal{Value: false}, nil
	case lexer.Null:
		s.advance()
		return ast.Literal{Value: nil}, nil
	default:
		return s.parseSimple()
	}
}

func (s *state) parseComparisonOp() (string, error) {
	tok := s.current()
	switch tok.Kind {
	case lexer.Eq:
		s.advance()
		return "==", nil
	case lexer.NotEq:
		s.advance()
		return "!=", nil
	case lexer.Gt:
		s.advance()
		return ">", nil
	case lexer.Lt:
		s.advance()
		return "<", nil
	case lexer.Ge:
		s.advance()
		return ">=", nil
	case lexer.Le:
		s.advance()
		return "<=", nil
	case lexer.EOF:
		return "", fmt.Errorf("%w, expected comparison operator", ErrUnexpectedEOF)
	default:
		return "", syntaxError("expected comparison operator, found %s at position %d", tok, tok.Pos)
	}
}
