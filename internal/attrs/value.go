// Package attrs holds the loosely typed attribute mapping supplied by the
// host and the normalizer that narrows it into typed fields.
package attrs

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind tags the dynamic type of a Value.
type Kind int

const (
	KindOther Kind = iota
	KindNumber
	KindString
)

// String returns string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "other"
	}
}

// Value is a single attribute value: a number, a string, or anything else
// (booleans, lists, maps, null) carried opaquely.
type Value struct {
	kind  Kind
	num   float64
	str   string
	other any
}

// Number returns a numeric Value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// String returns a string Value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Of wraps an arbitrary Go value, narrowing numbers and strings.
func Of(v any) Value {
	switch x := v.(type) {
	case Value:
		return x
	case string:
		return String(x)
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int:
		return Number(float64(x))
	case int32:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case uint:
		return Number(float64(x))
	case uint32:
		return Number(float64(x))
	case uint64:
		return Number(float64(x))
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return Number(f)
		}
		return String(x.String())
	}
	return Value{kind: KindOther, other: v}
}

// Kind returns the value's kind.
func (v Value) Kind() Kind { return v.kind }

// Float returns the numeric payload.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Str returns the string payload.
func (v Value) Str() (string, bool) {
	return v.str, v.kind == KindString
}

// Interface returns the payload as a plain Go value.
func (v Value) Interface() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	default:
		return v.other
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return fmt.Sprintf("%g", v.num)
	case KindString:
		return v.str
	default:
		return fmt.Sprintf("%v", v.other)
	}
}

// MarshalJSON encodes the payload.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON decodes any JSON value.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = Of(raw)
	return nil
}

// UnmarshalYAML decodes any YAML node.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*v = Of(raw)
	return nil
}

// Attributes maps attribute names to values for one query.
type Attributes map[string]Value

// FromMap converts a plain map into Attributes.
func FromMap(m map[string]any) Attributes {
	a := make(Attributes, len(m))
	for k, v := range m {
		a[k] = Of(v)
	}
	return a
}

// Lookup returns the value stored under name.
func (a Attributes) Lookup(name string) (Value, bool) {
	v, ok := a[name]
	return v, ok
}

// Dump renders the attributes one per line in name order.
func (a Attributes) Dump() string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "\t%s: %s\n", k, a[k])
	}
	return b.String()
}
