package value

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrDecode indicates malformed or trailing input document content.
var ErrDecode = errors.New("invalid document")

func decodeError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDecode, fmt.Sprintf(format, args...))
}

// Decode reads a single JSON document from r into the value model. Object
// keys keep their order of appearance and numbers decode as json.Number.
// Content after the first document is an error.
func Decode(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, decodeError("empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	doc, err := decodeValue(dec, tok)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, decodeError("trailing content after document")
	}
	return doc, nil
}

func decodeValue(dec *json.Decoder, tok json.Token) (any, error) {
	if d, ok := tok.(json.Delim); ok {
		switch d {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, decodeError("unexpected delimiter %q", d.String())
		}
	}
	// Scalars arrive as nil, bool, string, or json.Number.
	return tok, nil
}

func decodeObject(dec *json.Decoder) (*Object, error) {
	obj := NewObject()
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}

		if d, ok := tok.(json.Delim); ok && d == '}' {
			return obj, nil
		}

		key, ok := tok.(string)
		if !ok {
			return nil, decodeError("object key must be a string")
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}

		val, err := decodeValue(dec, valTok)
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)
	}
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	arr := make([]any, 0)
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}

		if d, ok := tok.(json.Delim); ok && d == ']' {
			return arr, nil
		}

		val, err := decodeValue(dec, tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}
}
