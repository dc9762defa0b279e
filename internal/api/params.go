package api

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"time"
)

// BoolStyle selects how booleans are encoded in request parameters.
type BoolStyle int

const (
	// NativeBools sends true/false.
	NativeBools BoolStyle = iota
	// IntBools sends 1/0, as the page-based API expects.
	IntBools
)

// identifierAttrs is the order in which an object's identity is resolved.
var identifierAttrs = []string{"uuid", "id", "key"}

// Params holds request parameters for a query string or JSON body.
type Params map[string]any

// With returns a copy of p with key set to value.
func (p Params) With(key string, value any) Params {
	out := make(Params, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	out[key] = value
	return out
}

// Values encodes p as query values. Lists become repeated keys.
func (p Params) Values() url.Values {
	values := url.Values{}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch v := p[k].(type) {
		case nil:
		case []any:
			for _, item := range v {
				values.Add(k, formatQueryValue(item))
			}
		default:
			values.Add(k, formatQueryValue(v))
		}
	}
	return values
}

func formatQueryValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return FormatISO8601(x)
	default:
		return fmt.Sprint(x)
	}
}

// BuildParams drops null arguments and serializes the rest for the wire.
func BuildParams(args map[string]any, style BoolStyle) Params {
	params := make(Params, len(args))
	for k, v := range args {
		if isNil(v) {
			continue
		}
		params[k] = serializeValue(v, style)
	}
	return params
}

// BuildIDParam builds parameters that identify exactly one object.
func BuildIDParam(args map[string]any, style BoolStyle) (Params, error) {
	params := BuildParams(args, style)
	if len(params) != 1 {
		return nil, ErrInvalidIDParam
	}
	return params, nil
}

func serializeValue(v any, style BoolStyle) any {
	if isNil(v) {
		return nil
	}
	switch x := v.(type) {
	case Identified:
		for _, attr := range identifierAttrs {
			if id, ok := x.Attr(attr); ok {
				return serializeValue(id, style)
			}
		}
		return nil
	case time.Time:
		return FormatISO8601(x)
	case bool:
		if style == IntBools {
			if x {
				return 1
			}
			return 0
		}
		return x
	case string, []byte:
		return x
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		return serializeValue(rv.Elem().Interface(), style)
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = serializeValue(rv.Index(i).Interface(), style)
		}
		return out
	default:
		return v
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
