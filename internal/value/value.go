// Package value defines the JSON value model shared by the query engine:
// nil, bool, json.Number, string, []any, and *Object. Objects keep their
// members in insertion order, which encoding/json maps cannot do.
package value

import (
	"bytes"
	"encoding/json"
)

// Member is a single key/value entry of an Object.
type Member struct {
	Key   string
	Value any
}

// Object is a JSON object whose members preserve insertion order.
// The zero value is not usable; construct with NewObject.
type Object struct {
	members []Member
	index   map[string]int
}

// NewObject creates an empty ordered object.
func NewObject() *Object {
	return &Object{index: make(map[string]int)}
}

// Set inserts or replaces a member. The first insertion of a key fixes its
// position; later writes to the same key update the value in place.
func (o *Object) Set(key string, v any) {
	if i, ok := o.index[key]; ok {
		o.members[i].Value = v
		return
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, Member{Key: key, Value: v})
}

// Get returns the value for key and whether the key is present.
func (o *Object) Get(key string) (any, bool) {
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.members[i].Value, true
}

// Len returns the number of members.
func (o *Object) Len() int {
	return len(o.members)
}

// Keys returns the member keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.members))
	for i, m := range o.members {
		keys[i] = m.Key
	}
	return keys
}

// Values returns the member values in insertion order.
func (o *Object) Values() []any {
	values := make([]any, len(o.members))
	for i, m := range o.members {
		values[i] = m.Value
	}
	return values
}

// Members returns the members in insertion order. The returned slice is
// shared with the object and must not be modified.
func (o *Object) Members() []Member {
	return o.members
}

// MarshalJSON emits the members in insertion order, so json.Marshal and
// json.MarshalIndent both serialize ordered objects correctly.
func (o *Object) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, m := range o.members {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(m.Key)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		val, err := json.Marshal(m.Value)
		if err != nil {
			return nil, err
		}
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// TypeName reports the JSON type of v for diagnostics.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case *Object:
		return "object"
	default:
		return "unknown"
	}
}
