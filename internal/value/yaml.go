package value

import (
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-yaml"
)

// DecodeYAML reads a single YAML document from r into the value model.
// Mappings keep their key order, mirroring what Decode does for JSON, and
// scalars normalize to the JSON model (all numbers become json.Number).
func DecodeYAML(r io.Reader) (any, error) {
	dec := yaml.NewDecoder(r, yaml.UseOrderedMap())

	var doc any
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, decodeError("empty input")
		}
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return fromYAML(doc)
}

func fromYAML(v any) (any, error) {
	switch val := v.(type) {
	case nil, bool, string:
		return val, nil
	case int:
		return number(strconv.FormatInt(int64(val), 10)), nil
	case int64:
		return number(strconv.FormatInt(val, 10)), nil
	case uint64:
		return number(strconv.FormatUint(val, 10)), nil
	case float64:
		return number(strconv.FormatFloat(val, 'g', -1, 64)), nil
	case []any:
		arr := make([]any, 0, len(val))
		for _, item := range val {
			converted, err := fromYAML(item)
			if err != nil {
				return nil, err
			}
			arr = append(arr, converted)
		}
		return arr, nil
	case yaml.MapSlice:
		obj := NewObject()
		for _, item := range val {
			key, ok := item.Key.(string)
			if !ok {
				return nil, decodeError("mapping key must be a string, got %T", item.Key)
			}
			converted, err := fromYAML(item.Value)
			if err != nil {
				return nil, err
			}
			obj.Set(key, converted)
		}
		return obj, nil
	default:
		return nil, decodeError("unsupported YAML value of type %T", v)
	}
}
