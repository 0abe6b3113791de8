package description

import (
	"fmt"
	"sort"
	"strings"
)

// Annotation describes one annotation instance: its annotation type and
// the explicitly given element values. Elements that are absent take the
// default supplied by the reader (see Int, Bool, String, TypeName).
type Annotation struct {
	Type   Type
	Values map[string]any
}

// NewAnnotation creates an annotation of the given type with element values.
func NewAnnotation(annotationType Type, values map[string]any) Annotation {
	return Annotation{Type: annotationType, Values: values}
}

// Is reports whether the annotation is of the named annotation type.
func (a Annotation) Is(typeName string) bool {
	return Represents(a.Type, typeName)
}

// Value returns the raw element value.
func (a Annotation) Value(name string) (any, bool) {
	v, ok := a.Values[name]
	return v, ok
}

// Int returns an integral element value, or def if absent.
// Decoders hand out int64, uint64 or float64; all are accepted.
func (a Annotation) Int(name string, def int) int {
	switch v := a.Values[name].(type) {
	case int:
		return v
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case uint8:
		return int(v)
	case uint16:
		return int(v)
	case uint32:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// Bool returns a boolean element value, or def if absent.
func (a Annotation) Bool(name string, def bool) bool {
	if v, ok := a.Values[name].(bool); ok {
		return v
	}
	return def
}

// String returns a string element value (enum constants included), or def.
func (a Annotation) String(name string, def string) string {
	switch v := a.Values[name].(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	return def
}

// TypeValue returns a class literal element value. The value may be a Type
// or a binary name; names are resolved with resolve when it is non-nil.
func (a Annotation) TypeValue(name string, resolve func(string) (Type, bool)) (Type, bool) {
	switch v := a.Values[name].(type) {
	case Type:
		return v, true
	case string:
		if resolve != nil {
			return resolve(v)
		}
	}
	return nil, false
}

// Render formats the annotation as it would appear in source, with element
// values in name order.
func (a Annotation) Render() string {
	var b strings.Builder
	b.WriteByte('@')
	b.WriteString(a.Type.Name())
	if len(a.Values) == 0 {
		return b.String()
	}
	names := make([]string, 0, len(a.Values))
	for n := range a.Values {
		names = append(names, n)
	}
	sort.Strings(names)
	b.WriteByte('(')
	for i, n := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		switch v := a.Values[n].(type) {
		case Type:
			fmt.Fprintf(&b, "%s=%s.class", n, v.Name())
		case string:
			fmt.Fprintf(&b, "%s=%q", n, v)
		default:
			fmt.Fprintf(&b, "%s=%v", n, v)
		}
	}
	b.WriteByte(')')
	return b.String()
}

// FindAnnotation returns the first annotation of the named type.
func FindAnnotation(annotations []Annotation, typeName string) (Annotation, bool) {
	for _, a := range annotations {
		if a.Is(typeName) {
			return a, true
		}
	}
	return Annotation{}, false
}

// HasAnnotation reports whether any annotation is of the named type.
func HasAnnotation(annotations []Annotation, typeName string) bool {
	_, ok := FindAnnotation(annotations, typeName)
	return ok
}
