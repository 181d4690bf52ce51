package value

import (
	"encoding/json"
	"strings"
)

func number(literal string) json.Number {
	return json.Number(literal)
}

// Equal reports deep structural equality between two values. Numbers compare
// by magnitude, arrays are order-sensitive, objects compare by key set and
// member values regardless of insertion order.
func Equal(a, b any) bool {
	switch left := a.(type) {
	case nil:
		return b == nil
	case bool:
		right, ok := b.(bool)
		return ok && left == right
	case string:
		right, ok := b.(string)
		return ok && left == right
	case json.Number:
		right, ok := b.(json.Number)
		if !ok {
			return false
		}
		lf, lok := left.Float64()
		rf, rok := right.Float64()
		if lok == nil && rok == nil {
			return lf == rf
		}
		return string(left) == string(right)
	case []any:
		right, ok := b.([]any)
		if !ok || len(left) != len(right) {
			return false
		}
		for i := range left {
			if !Equal(left[i], right[i]) {
				return false
			}
		}
		return true
	case *Object:
		right, ok := b.(*Object)
		if !ok || left.Len() != right.Len() {
			return false
		}
		for _, m := range left.members {
			other, present := right.Get(m.Key)
			if !present || !Equal(m.Value, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Compare orders two values when an ordering exists: numbers by magnitude,
// strings byte-wise, booleans with false < true, and equal-length arrays
// element-wise. Any other pairing reports ok=false.
func Compare(a, b any) (int, bool) {
	switch left := a.(type) {
	case json.Number:
		right, ok := b.(json.Number)
		if !ok {
			return 0, false
		}
		lf, lerr := left.Float64()
		rf, rerr := right.Float64()
		if lerr != nil || rerr != nil {
			return 0, false
		}
		switch {
		case lf < rf:
			return -1, true
		case lf > rf:
			return 1, true
		default:
			return 0, true
		}
	case string:
		right, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(left, right), true
	case bool:
		right, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case left == right:
			return 0, true
		case !left:
			return -1, true
		default:
			return 1, true
		}
	case []any:
		right, ok := b.([]any)
		if !ok || len(left) != len(right) {
			return 0, false
		}
		for i := range left {
			if Equal(left[i], right[i]) {
				continue
			}
			return Compare(left[i], right[i])
		}
		return 0, true
	default:
		return 0, false
	}
}
