// Package lexer turns gq query text into a token stream.
package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrLex indicates tokenization failures.
var ErrLex = errors.New("invalid query")

func lexError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrLex, fmt.Sprintf(format, args...))
}

// Kind identifies a token type.
type Kind int

const (
	EOF Kind = iota
	Dot
	DotDot
	Pipe
	Comma
	LBracket
	RBracket
	LBrace
	RBrace
	Colon
	Question
	LParen
	RParen
	Eq
	NotEq
	Gt
	Lt
	Ge
	Le
	Ident
	String
	Number
	True
	False
	Null
)

var kindNames = map[Kind]string{
	EOF:      "end of input",
	Dot:      "'.'",
	DotDot:   "'..'",
	Pipe:     "'|'",
	Comma:    "','",
	LBracket: "'['",
	RBracket: "']'",
	LBrace:   "'{'",
	RBrace:   "'}'",
	Colon:    "':'",
	Question: "'?'",
	LParen:   "'('",
	RParen:   "')'",
	Eq:       "'=='",
	NotEq:    "'!='",
	Gt:       "'>'",
	Lt:       "'<'",
	Ge:       "'>='",
	Le:       "'<='",
	Ident:    "identifier",
	String:   "string literal",
	Number:   "number literal",
	True:     "'true'",
	False:    "'false'",
	Null:     "'null'",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown token"
}

// Token is a single lexical unit. Text carries the decoded literal for
// Ident and String tokens, Num the value for Number tokens, Pos the byte
// offset in the query for diagnostics.
type Token struct {
	Kind Kind
	Text string
	Num  float64
	Pos  int
}

func (t Token) String() string {
	switch t.Kind {
	case Ident:
		return fmt.Sprintf("identifier %q", t.Text)
	case String:
		return fmt.Sprintf("string %q", t.Text)
	case Number:
		return fmt.Sprintf("number %s", strconv.FormatFloat(t.Num, 'f', -1, 64))
	default:
		return t.Kind.String()
	}
}

// Tokenize scans the whole query left to right. The first error aborts the
// scan; on success the stream ends with an EOF token.
func Tokenize(input string) ([]Token, error) {
	tokens := make([]Token, 0, len(input)/2)
	pos := 0

	for pos < len(input) {
		r := rune(input[pos])
		if unicode.IsSpace(r) {
			pos++
			continue
		}

		if isIdentifierStart(r) {
			start := pos
			pos++
			for pos < len(input) && isIdentifierPart(rune(input[pos])) {
				pos++
			}
			literal := input[start:pos]
			switch literal {
			case "true":
				tokens = append(tokens, Token{Kind: True, Pos: start})
			case "false":
				tokens = append(tokens, Token{Kind: False, Pos: start})
			case "null":
				tokens = append(tokens, Token{Kind: Null, Pos: start})
			default:
				tokens = append(tokens, Token{Kind: Ident, Text: literal, Pos: start})
			}
			continue
		}

		if isNumberStart(input, pos) {
			tok, next, err := lexNumber(input, pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			pos = next
			continue
		}

		switch input[pos] {
		case '"':
			literal, next, err := lexString(input, pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, Token{Kind: String, Text: literal, Pos: pos})
			pos = next
		case '.':
			if pos+1 < len(input) && input[pos+1] == '.' {
				tokens = append(tokens, Token{Kind: DotDot, Pos: pos})
				pos += 2
				continue
			}
			tokens = append(tokens, Token{Kind: Dot, Pos: pos})
			pos++
		case '|':
			tokens = append(tokens, Token{Kind: Pipe, Pos: pos})
			pos++
		case ',':
			tokens = append(tokens, Token{Kind: Comma, Pos: pos})
			pos++
		case '[':
			tokens = append(tokens, Token{Kind: LBracket, Pos: pos})
			pos++
		case ']':
			tokens = append(tokens, Token{Kind: RBracket, Pos: pos})
			pos++
		case '{':
			tokens = append(tokens, Token{Kind: LBrace, Pos: pos})
			pos++
		case '}':
			tokens = append(tokens, Token{Kind: RBrace, Pos: pos})
			pos++
		case ':':
			tokens = append(tokens, Token{Kind: Colon, Pos: pos})
			pos++
		case '?':
			tokens = append(tokens, Token{Kind: Question, Pos: pos})
			pos++
		case '(':
			tokens = append(tokens, Token{Kind: LParen, Pos: pos})
			pos++
		case ')':
			tokens = append(tokens, Token{Kind: RParen, Pos: pos})
			pos++
		case '=':
			if pos+1 < len(input) && input[pos+1] == '=' {
				tokens = append(tokens, Token{Kind: Eq, Pos: pos})
				pos += 2
				continue
			}
			return nil, lexError("unexpected '=' at position %d", pos)
		case '!':
			if pos+1 < len(input) && input[pos+1] == '=' {
				tokens = append(tokens, Token{Kind: NotEq, Pos: pos})
				pos += 2
				continue
			}
			return nil, lexError("unexpected '!' at position %d", pos)
		case '>':
			if pos+1 < len(input) && input[pos+1] == '=' {
				tokens = append(tokens, Token{Kind: Ge, Pos: pos})
				pos += 2
				continue
			}
			tokens = append(tokens, Token{Kind: Gt, Pos: pos})
			pos++
		case '<':
			if pos+1 < len(input) && input[pos+1] == '=' {
				tokens = append(tokens, Token{Kind: Le, Pos: pos})
				pos += 2
				continue
			}
			tokens = append(tokens, Token{Kind: Lt, Pos: pos})
			pos++
		default:
			r, _ := utf8.DecodeRuneInString(input[pos:])
			return nil, lexError("unexpected character %q at position %d", r, pos)
		}
	}

	tokens = append(tokens, Token{Kind: EOF, Pos: len(input)})
	return tokens, nil
}

// Identifiers are ASCII only; the scan walks bytes, so wider predicates
// would split multi-byte runes.
func isIdentifierStart(r rune) bool {
	return r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

func isIdentifierPart(r rune) bool {
	return isIdentifierStart(r) || r >= '0' && r <= '9'
}

func isNumberStart(input string, pos int) bool {
	if input[pos] >= '0' && input[pos] <= '9' {
		return true
	}
	if input[pos] == '-' {
		return pos+1 < len(input) && input[pos+1] >= '0' && input[pos+1] <= '9'
	}
	return false
}

func lexNumber(input string, start int) (Token, int, error) {
	pos := start
	if input[pos] == '-' {
		pos++
	}

	for pos < len(input) && input[pos] >= '0' && input[pos] <= '9' {
		pos++
	}

	if pos < len(input) && input[pos] == '.' {
		// A lone trailing dot is not a valid fraction. It also cannot be
		// a property access: nothing in the grammar follows a number with '.'.
		pos++
		fracStart := pos
		for pos < len(input) && input[pos] >= '0' && input[pos] <= '9' {
			pos++
		}
		if pos == fracStart {
			return Token{}, 0, lexError("invalid number at position %d", start)
		}
	}

	literal := input[start:pos]
	num, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return Token{}, 0, lexError("invalid number %q at position %d", literal, start)
	}

	return Token{Kind: Number, Text: literal, Num: num, Pos: start}, pos, nil
}

func lexString(input string, start int) (string, int, error) {
	var b strings.Builder

	for pos := start + 1; pos < len(input); pos++ {
		ch := input[pos]
		if ch == '"' {
			return b.String(), pos + 1, nil
		}

		if ch == '\\' {
			pos++
			if pos >= len(input) {
				return "", 0, lexError("unterminated string at position %d", start)
			}
			switch escaped := input[pos]; escaped {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			default:
				// Unknown escapes pass the character through.
				b.WriteByte(escaped)
			}
			continue
		}

		b.WriteByte(ch)
	}

	return "", 0, lexError("unterminated string at position %d", start)
}
