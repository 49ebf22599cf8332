package graph

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// ValueKind identifies which of the closed set of scalar types a [Value] holds.
type ValueKind int

const (
	// KindNull is the zero Value: a missing or explicitly null property.
	KindNull ValueKind = iota
	// KindString holds a string.
	KindString
	// KindNumber holds a float64.
	KindNumber
	// KindBool holds a bool.
	KindBool
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	}
	return "null"
}

// Value is a property value restricted to strings, numbers and booleans.
// The zero value is null.
type Value struct {
	kind ValueKind
	s    string
	n    float64
	b    bool
}

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Number returns a numeric Value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind reports the type held by v.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether v holds no value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string held by v and whether v is a string.
func (v Value) Str() (string, bool) { return v.s, v.kind == KindString }

// Num returns the number held by v and whether v is a number.
func (v Value) Num() (float64, bool) { return v.n, v.kind == KindNumber }

// Boolean returns the bool held by v and whether v is a bool.
func (v Value) Boolean() (bool, bool) { return v.b, v.kind == KindBool }

// String formats v for display and for use as a map key. Null formats as
// the empty string; numbers use the shortest representation that round-trips.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindNumber:
		return strconv.FormatFloat(v.n, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	}
	return ""
}

// Equal reports whether v and o hold the same kind and value.
func (v Value) Equal(o Value) bool { return v == o }

// MarshalJSON encodes v as a JSON scalar or null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.s)
	case KindNumber:
		return json.Marshal(v.n)
	case KindBool:
		return json.Marshal(v.b)
	}
	return []byte("null"), nil
}

// UnmarshalJSON decodes a JSON scalar. Arrays are accepted and flattened
// with [FromAny]; objects are rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	val, ok := FromAny(raw)
	if !ok {
		return fmt.Errorf("unsupported property value %s", data)
	}
	*v = val
	return nil
}

// FromAny converts a decoded JSON or driver value into a Value. Integer and
// float types become numbers. Slices of scalars are flattened into a string
// joined by "-". Maps and other composite types are not representable and
// return false.
func FromAny(x any) (Value, bool) {
	switch t := x.(type) {
	case nil:
		return Value{}, true
	case Value:
		return t, true
	case string:
		return String(t), true
	case bool:
		return Bool(t), true
	case float64:
		return Number(t), true
	case float32:
		return Number(float64(t)), true
	case int:
		return Number(float64(t)), true
	case int32:
		return Number(float64(t)), true
	case int64:
		return Number(float64(t)), true
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return Value{}, false
		}
		return Number(n), true
	case []any:
		s := ""
		for i, item := range t {
			iv, ok := FromAny(item)
			if !ok {
				return Value{}, false
			}
			if i > 0 {
				s += "-"
			}
			s += iv.String()
		}
		return String(s), true
	}
	return Value{}, false
}

// Properties is the property bag attached to vertices and edges.
// Lookups of absent keys yield the caller's default.
type Properties map[string]Value

// Get returns the value stored under key and whether it is present and non-null.
func (p Properties) Get(key string) (Value, bool) {
	v, ok := p[key]
	return v, ok && !v.IsNull()
}

// Value returns the value stored under key, or null.
func (p Properties) Value(key string) Value { return p[key] }

// String returns the string stored under key, or def if absent or not a string.
func (p Properties) String(key, def string) string {
	if s, ok := p[key].Str(); ok {
		return s
	}
	return def
}

// Number returns the number stored under key, or def if absent or not a number.
func (p Properties) Number(key string, def float64) float64 {
	if n, ok := p[key].Num(); ok {
		return n
	}
	return def
}

// Bool returns the bool stored under key, or def if absent or not a bool.
func (p Properties) Bool(key string, def bool) bool {
	if b, ok := p[key].Boolean(); ok {
		return b
	}
	return def
}

// Keys returns the property names in sorted order.
func (p Properties) Keys() []string { return slices.Sorted(maps.Keys(p)) }

// Clone returns a shallow copy of p. A nil bag clones to an empty one.
func (p Properties) Clone() Properties {
	if p == nil {
		return Properties{}
	}
	return maps.Clone(p)
}
