package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// FieldKind identifies how a field converts between wire and Go values.
type FieldKind int

const (
	FieldSimple FieldKind = iota
	FieldBoolean
	FieldInteger
	FieldDatetime
	FieldObject
	FieldObjectList
	FieldObjectDict
	FieldList
)

func (k FieldKind) String() string {
	switch k {
	case FieldBoolean:
		return "boolean"
	case FieldInteger:
		return "integer"
	case FieldDatetime:
		return "datetime"
	case FieldObject:
		return "object"
	case FieldObjectList:
		return "object_list"
	case FieldObjectDict:
		return "object_dict"
	case FieldList:
		return "list"
	default:
		return "simple"
	}
}

// Field is one named slot of a resource type T.
type Field[T any] struct {
	name     string
	source   string
	optional bool
	kind     FieldKind

	decode func(t *T, raw any) error
	encode func(t *T) (any, error)
	assign func(t *T, v any) error
	get    func(t *T) any
	// unset runs for attributes absent from the input, when set.
	unset func(t *T)
}

// FieldOption customizes a field at declaration.
type FieldOption func(*fieldOptions)

type fieldOptions struct {
	source   string
	optional bool
}

// Source sets the wire key when it differs from the attribute name.
func Source(key string) FieldOption {
	return func(o *fieldOptions) { o.source = key }
}

// Optional makes a missing wire key deserialize to null instead of failing.
func Optional() FieldOption {
	return func(o *fieldOptions) { o.optional = true }
}

func newField[T any](name string, kind FieldKind, opts []FieldOption) *Field[T] {
	var o fieldOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Field[T]{name: name, source: o.source, optional: o.optional, kind: kind}
}

func (f *Field[T]) Name() string { return f.name }
func (f *Field[T]) Kind() FieldKind { return f.kind }
func (f *Field[T]) IsOptional() bool { return f.optional }

// Key returns the wire key for the field.
func (f *Field[T]) Key() string {
	if f.source != "" {
		return f.source
	}
	return f.name
}

// Simple passes values through unchanged. A null lands in a plain (non-pointer)
// V as its zero value; when T embeds Nulls the null is remembered so that
// Serialize renders it as null again.
func Simple[T, V any](name string, ptr func(*T) *V, opts ...FieldOption) *Field[T] {
	f := newField[T](name, FieldSimple, opts)
	f.decode = func(t *T, raw any) error {
		v, err := convert[V](raw)
		if err != nil {
			return newSerializationError("Value '%s' field is not a valid %T", display(raw), *new(V))
		}
		*ptr(t) = v
		markNull(t, name, raw == nil)
		return nil
	}
	f.encode = func(t *T) (any, error) {
		v := *ptr(t)
		if isNullMarked(t, name) && reflect.ValueOf(&v).Elem().IsZero() {
			return nil, nil
		}
		return v, nil
	}
	f.assign = func(t *T, v any) error {
		x, err := convert[V](v)
		if err != nil {
			return err
		}
		*ptr(t) = x
		markNull(t, name, v == nil)
		return nil
	}
	f.get = func(t *T) any { return *ptr(t) }
	f.unset = func(t *T) {
		var zero V
		*ptr(t) = zero
		markNull(t, name, true)
	}
	return f
}

// Boolean accepts only JSON booleans.
func Boolean[T any](name string, ptr func(*T) **bool, opts ...FieldOption) *Field[T] {
	f := newField[T](name, FieldBoolean, opts)
	f.decode = func(t *T, raw any) error {
		if raw == nil {
			*ptr(t) = nil
			return nil
		}
		b, ok := raw.(bool)
		if !ok {
			return newSerializationError("Value '%s' field is not an boolean", display(raw))
		}
		*ptr(t) = &b
		return nil
	}
	f.encode = func(t *T) (any, error) {
		if b := *ptr(t); b != nil {
			return *b, nil
		}
		return nil, nil
	}
	f.assign = func(t *T, v any) error {
		x, err := convert[*bool](v)
		if err != nil {
			return err
		}
		*ptr(t) = x
		return nil
	}
	f.get = func(t *T) any { return *ptr(t) }
	return f
}

// Integer accepts only integral numbers.
func Integer[T any](name string, ptr func(*T) **int, opts ...FieldOption) *Field[T] {
	f := newField[T](name, FieldInteger, opts)
	f.decode = func(t *T, raw any) error {
		if raw == nil {
			*ptr(t) = nil
			return nil
		}
		n, ok := toInt(raw)
		if !ok {
			return newSerializationError("Value '%s' field is not an integer", display(raw))
		}
		*ptr(t) = &n
		return nil
	}
	f.encode = func(t *T) (any, error) {
		if n := *ptr(t); n != nil {
			return *n, nil
		}
		return nil, nil
	}
	f.assign = func(t *T, v any) error {
		if v == nil {
			*ptr(t) = nil
			return nil
		}
		if p, ok := v.(*int); ok {
			*ptr(t) = p
			return nil
		}
		n, ok := toInt(v)
		if !ok {
			return fmt.Errorf("%s: %v is not an integer", name, v)
		}
		*ptr(t) = &n
		return nil
	}
	f.get = func(t *T) any { return *ptr(t) }
	return f
}

// Datetime converts ISO-8601 strings to UTC-aware times.
func Datetime[T any](name string, ptr func(*T) **time.Time, opts ...FieldOption) *Field[T] {
	f := newField[T](name, FieldDatetime, opts)
	f.decode = func(t *T, raw any) error {
		if raw == nil {
			*ptr(t) = nil
			return nil
		}
		s, ok := raw.(string)
		if !ok {
			return newSerializationError("Value '%s' field is not a datetime", display(raw))
		}
		ts, err := ParseISO8601(s)
		if err != nil {
			return newSerializationError("Value '%s' field is not a datetime", s)
		}
		*ptr(t) = ts
		return nil
	}
	f.encode = func(t *T) (any, error) {
		if ts := *ptr(t); ts != nil {
			return FormatISO8601(*ts), nil
		}
		return nil, nil
	}
	f.assign = func(t *T, v any) error {
		switch x := v.(type) {
		case nil:
			*ptr(t) = nil
		case time.Time:
			*ptr(t) = &x
		case *time.Time:
			*ptr(t) = x
		case string:
			ts, err := ParseISO8601(x)
			if err != nil {
				return err
			}
			*ptr(t) = ts
		default:
			return fmt.Errorf("%s: %v is not a datetime", name, v)
		}
		return nil
	}
	f.get = func(t *T) any { return *ptr(t) }
	return f
}

// Object nests a single typed object.
func Object[T, U any](name string, ptr func(*T) **U, schema *Schema[U], opts ...FieldOption) *Field[T] {
	f := newField[T](name, FieldObject, opts)
	f.decode = func(t *T, raw any) error {
		if raw == nil {
			*ptr(t) = nil
			return nil
		}
		u, err := schema.Deserialize(raw)
		if err != nil {
			return err
		}
		*ptr(t) = u
		return nil
	}
	f.encode = func(t *T) (any, error) {
		u := *ptr(t)
		if u == nil {
			return nil, nil
		}
		return schema.Serialize(u)
	}
	f.assign = func(t *T, v any) error {
		u, err := schema.value(v)
		if err != nil {
			return err
		}
		*ptr(t) = u
		return nil
	}
	f.get = func(t *T) any { return *ptr(t) }
	return f
}

// ObjectList nests an ordered list of typed objects. Null is rejected.
func ObjectList[T, U any](name string, ptr func(*T) *[]*U, schema *Schema[U], opts ...FieldOption) *Field[T] {
	f := newField[T](name, FieldObjectList, opts)
	f.decode = func(t *T, raw any) error {
		items, ok := raw.([]any)
		if !ok {
			return newSerializationError("Value '%s' field is not a list", display(raw))
		}
		list, err := schema.DeserializeList(items)
		if err != nil {
			return err
		}
		*ptr(t) = list
		return nil
	}
	f.encode = func(t *T) (any, error) {
		list := *ptr(t)
		if list == nil {
			return nil, nil
		}
		out := make([]any, 0, len(list))
		for _, u := range list {
			m, err := schema.Serialize(u)
			if err != nil {
				return nil, err
			}
			out = append(out, m)
		}
		return out, nil
	}
	f.assign = func(t *T, v any) error {
		switch x := v.(type) {
		case nil:
			*ptr(t) = nil
		case []*U:
			*ptr(t) = x
		case []any:
			list := make([]*U, 0, len(x))
			for _, item := range x {
				u, err := schema.value(item)
				if err != nil {
					return err
				}
				list = append(list, u)
			}
			*ptr(t) = list
		default:
			return fmt.Errorf("%s: %T is not a list of %s", name, v, schema.name)
		}
		return nil
	}
	f.get = func(t *T) any { return *ptr(t) }
	return f
}

// ObjectDict nests a string-keyed mapping of typed objects. Null is rejected.
func ObjectDict[T, U any](name string, ptr func(*T) *map[string]*U, schema *Schema[U], opts ...FieldOption) *Field[T] {
	f := newField[T](name, FieldObjectDict, opts)
	f.decode = func(t *T, raw any) error {
		items, ok := raw.(map[string]any)
		if !ok {
			return newSerializationError("Value '%s' field is not a dict", display(raw))
		}
		out := make(map[string]*U, len(items))
		for k, item := range items {
			u, err := schema.Deserialize(item)
			if err != nil {
				return err
			}
			out[k] = u
		}
		*ptr(t) = out
		return nil
	}
	f.encode = func(t *T) (any, error) {
		dict := *ptr(t)
		if dict == nil {
			return nil, nil
		}
		out := make(map[string]any, len(dict))
		for k, u := range dict {
			m, err := schema.Serialize(u)
			if err != nil {
				return nil, err
			}
			out[k] = m
		}
		return out, nil
	}
	f.assign = func(t *T, v any) error {
		switch x := v.(type) {
		case nil:
			*ptr(t) = nil
		case map[string]*U:
			*ptr(t) = x
		case map[string]any:
			out := make(map[string]*U, len(x))
			for k, item := range x {
				u, err := schema.value(item)
				if err != nil {
					return err
				}
				out[k] = u
			}
			*ptr(t) = out
		default:
			return fmt.Errorf("%s: %T is not a dict of %s", name, v, schema.name)
		}
		return nil
	}
	f.get = func(t *T) any { return *ptr(t) }
	return f
}

// List holds a list of plain values. Null is allowed.
func List[T, V any](name string, ptr func(*T) *[]V, opts ...FieldOption) *Field[T] {
	f := newField[T](name, FieldList, opts)
	f.decode = func(t *T, raw any) error {
		if raw == nil {
			*ptr(t) = nil
			return nil
		}
		items, ok := raw.([]any)
		if !ok {
			return newSerializationError("Value '%s' field is not a list", display(raw))
		}
		out := make([]V, 0, len(items))
		for _, item := range items {
			v, err := convert[V](item)
			if err != nil {
				return newSerializationError("Value '%s' field is not a valid %T", display(item), *new(V))
			}
			out = append(out, v)
		}
		*ptr(t) = out
		return nil
	}
	f.encode = func(t *T) (any, error) {
		list := *ptr(t)
		if list == nil {
			return nil, nil
		}
		out := make([]any, len(list))
		for i, v := range list {
			out[i] = v
		}
		return out, nil
	}
	f.assign = func(t *T, v any) error {
		x, err := convert[[]V](v)
		if err != nil {
			return err
		}
		*ptr(t) = x
		return nil
	}
	f.get = func(t *T) any { return *ptr(t) }
	return f
}

// convert coerces raw into V, falling back to a JSON round trip for values
// that are not already of that type.
func convert[V any](raw any) (V, error) {
	var zero V
	if raw == nil {
		return zero, nil
	}
	if v, ok := raw.(V); ok {
		return v, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return zero, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v V
	if err := dec.Decode(&v); err != nil {
		return zero, err
	}
	return v, nil
}

// toInt accepts integer literals only. Integral float64 values are allowed so
// payloads decoded without UseNumber still work.
func toInt(raw any) (int, bool) {
	switch n := raw.(type) {
	case json.Number:
		s := string(n)
		if strings.ContainsAny(s, ".eE") {
			return 0, false
		}
		i, err := strconv.Atoi(s)
		return i, err == nil
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func display(raw any) string {
	if raw == nil {
		return "null"
	}
	return fmt.Sprint(raw)
}
