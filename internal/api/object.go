package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Identified is implemented by resource types so they can be passed wherever
// an identifier is expected.
type Identified interface {
	Attr(name string) (any, bool)
}

// Nulls remembers which plain-valued simple fields held null. Resource types
// embed it so a null name or status survives a serialize round trip instead
// of turning into "".
type Nulls struct {
	null map[string]bool
}

func (n *Nulls) nulls() *Nulls { return n }

// IsNull reports whether the named attribute was null.
func (n *Nulls) IsNull(name string) bool { return n.null[name] }

type nullTracker interface {
	nulls() *Nulls
}

func markNull[T any](t *T, name string, null bool) {
	tr, ok := any(t).(nullTracker)
	if !ok {
		return
	}
	n := tr.nulls()
	switch {
	case null && n.null == nil:
		n.null = map[string]bool{name: true}
	case null:
		n.null[name] = true
	default:
		delete(n.null, name)
	}
}

func isNullMarked[T any](t *T, name string) bool {
	tr, ok := any(t).(nullTracker)
	return ok && tr.nulls().null[name]
}

// Schema describes how a resource type T maps to and from its wire form.
type Schema[T any] struct {
	name   string
	fields []*Field[T]
	byName map[string]*Field[T]
	after  []func(*T)
}

// NewSchema declares the ordered fields of a resource type.
func NewSchema[T any](name string, fields ...*Field[T]) *Schema[T] {
	s := &Schema[T]{
		name:   name,
		fields: fields,
		byName: make(map[string]*Field[T], len(fields)),
	}
	for _, f := range fields {
		if _, dup := s.byName[f.name]; dup {
			panic(fmt.Sprintf("%s: duplicate field %q", name, f.name))
		}
		s.byName[f.name] = f
	}
	return s
}

func (s *Schema[T]) Name() string { return s.name }
func (s *Schema[T]) Fields() []*Field[T] { return s.fields }

// AfterDeserialize registers a hook run on every successfully deserialized item.
func (s *Schema[T]) AfterDeserialize(fn func(*T)) *Schema[T] {
	s.after = append(s.after, fn)
	return s
}

// Create builds an instance from attribute values keyed by attribute name.
// Declared attributes not present stay null.
func (s *Schema[T]) Create(attrs map[string]any) (*T, error) {
	for name := range attrs {
		if _, ok := s.byName[name]; !ok {
			return nil, &AttributeError{Type: s.name, Name: name}
		}
	}
	t := new(T)
	for _, f := range s.fields {
		v, ok := attrs[f.name]
		if !ok {
			if f.unset != nil {
				f.unset(t)
			}
			continue
		}
		if err := f.assign(t, v); err != nil {
			return nil, fmt.Errorf("%s.%s: %w", s.name, f.name, err)
		}
	}
	return t, nil
}

// Deserialize builds an instance from a decoded JSON object.
func (s *Schema[T]) Deserialize(item any) (*T, error) {
	m, ok := item.(map[string]any)
	if !ok {
		return nil, newSerializationError("Value '%s' field is not a dict", display(item))
	}
	t := new(T)
	for _, f := range s.fields {
		key := f.Key()
		raw, present := m[key]
		if !present {
			if f.optional {
				if f.unset != nil {
					f.unset(t)
				}
				continue
			}
			return nil, newSerializationError("Serialized %s item is missing field '%s'", s.name, key)
		}
		if err := f.decode(t, raw); err != nil {
			return nil, err
		}
	}
	for _, fn := range s.after {
		fn(t)
	}
	return t, nil
}

// DeserializeList deserializes each item, preserving order.
func (s *Schema[T]) DeserializeList(items any) ([]*T, error) {
	var list []any
	switch v := items.(type) {
	case nil:
		return []*T{}, nil
	case []any:
		list = v
	case []map[string]any:
		list = make([]any, len(v))
		for i := range v {
			list[i] = v[i]
		}
	default:
		return nil, newSerializationError("Value '%s' field is not a list", display(items))
	}
	out := make([]*T, 0, len(list))
	for _, item := range list {
		t, err := s.Deserialize(item)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// DeserializeJSON decodes data and deserializes the resulting object.
func (s *Schema[T]) DeserializeJSON(data []byte) (*T, error) {
	raw, err := decodeJSON(data)
	if err != nil {
		return nil, newSerializationError("invalid %s JSON: %v", s.name, err)
	}
	return s.Deserialize(raw)
}

// Serialize renders t as a flat mapping keyed by wire key.
func (s *Schema[T]) Serialize(t *T) (map[string]any, error) {
	out := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		v, err := f.encode(t)
		if err != nil {
			return nil, err
		}
		out[f.Key()] = v
	}
	return out, nil
}

// Attr returns the Go value of a declared attribute.
func (s *Schema[T]) Attr(t *T, name string) (any, bool) {
	f, ok := s.byName[name]
	if !ok || t == nil {
		return nil, ok
	}
	return f.get(t), true
}

// value converts a Create argument into a nested instance.
func (s *Schema[T]) value(v any) (*T, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case *T:
		return x, nil
	case T:
		return &x, nil
	case map[string]any:
		return s.Create(x)
	default:
		return nil, fmt.Errorf("%T is not a %s", v, s.name)
	}
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
