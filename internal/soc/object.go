package soc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Field is a single named value of an Object.
type Field struct {
	Name  string
	Value any
}

// Object is an ordered vendor-side record. The SOC services are strict about
// element order, so fields are kept in insertion order all the way to the wire.
//
// Values are strings, bools, numbers, *Object, []*Object, []any or
// map[string]any. A nil value means "absent" and is never stored.
type Object struct {
	fields []Field
}

// NewObject creates an empty Object.
func NewObject() *Object {
	return &Object{}
}

// Set stores value under name, replacing an existing field in place.
// Setting nil removes the field.
func (o *Object) Set(name string, value any) *Object {
	if value == nil {
		o.Delete(name)
		return o
	}
	if obj, ok := value.(*Object); ok && obj == nil {
		o.Delete(name)
		return o
	}
	for i := range o.fields {
		if o.fields[i].Name == name {
			o.fields[i].Value = value
			return o
		}
	}
	o.fields = append(o.fields, Field{Name: name, Value: value})
	return o
}

// Get returns the value stored under name.
func (o *Object) Get(name string) (any, bool) {
	if o == nil {
		return nil, false
	}
	for _, f := range o.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Has reports whether name is present.
func (o *Object) Has(name string) bool {
	_, ok := o.Get(name)
	return ok
}

// String returns the text form of the field, or "" when absent.
func (o *Object) String(name string) string {
	v, ok := o.Get(name)
	if !ok {
		return ""
	}
	return FormatValue(v)
}

// Object returns the nested Object stored under name, or nil.
func (o *Object) Object(name string) *Object {
	v, _ := o.Get(name)
	obj, _ := v.(*Object)
	return obj
}

// Delete removes name.
func (o *Object) Delete(name string) {
	for i := range o.fields {
		if o.fields[i].Name == name {
			o.fields = append(o.fields[:i], o.fields[i+1:]...)
			return
		}
	}
}

// Fields returns a copy of the fields in order.
func (o *Object) Fields() []Field {
	if o == nil {
		return nil
	}
	out := make([]Field, len(o.fields))
	copy(out, o.fields)
	return out
}

// Names returns the field names in order.
func (o *Object) Names() []string {
	names := make([]string, 0, len(o.fields))
	for _, f := range o.fields {
		names = append(names, f.Name)
	}
	return names
}

// Len returns the number of fields.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.fields)
}

// MarshalJSON keeps field order, which makes envelope logs readable.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// FormatValue renders a scalar the way it travels inside an XML element.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return FormatValue(float64(t))
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// Payload is a loosely typed local resource payload as submitted by a caller.
type Payload map[string]any

// Value returns the value under key when it is present and not null.
func (p Payload) Value(key string) (any, bool) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Or applies the default-substitution rule: null and absent fall back to def,
// every other value (false, 0, "") is kept as given.
func (p Payload) Or(key string, def any) any {
	if v, ok := p.Value(key); ok {
		return v
	}
	return def
}

// First returns the first present value among keys.
func (p Payload) First(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := p.Value(k); ok {
			return v, true
		}
	}
	return nil, false
}

// Text returns the trimmed text of the first present key among keys.
func (p Payload) Text(keys ...string) string {
	v, ok := p.First(keys...)
	if !ok {
		return ""
	}
	return strings.TrimSpace(FormatValue(v))
}

// With returns a copy of p with key set to value.
func (p Payload) With(key string, value any) Payload {
	out := make(Payload, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	out[key] = value
	return out
}

// truthy reports whether a caller flag is set. Strings are parsed so that
// query-string values such as "false" and "0" count as unset.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			return b
		}
		return strings.TrimSpace(t) != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	default:
		return true
	}
}

// orNil turns an empty configured string into an absent value.
func orNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
