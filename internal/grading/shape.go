package grading

import (
	"reflect"

	"nbgrade/internal/namespace"
)

// AsString returns v as a string when its kind is string.
func AsString(v any) (string, bool) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), true
}

// AsList returns the elements of a slice or array.
func AsList(v any) ([]any, bool) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = element(rv.Index(i))
	}
	return items, true
}

// AsStrings converts every element of items, reporting false if any is not a string.
func AsStrings(items []any) ([]string, bool) {
	out := make([]string, len(items))
	for i, item := range items {
		s, ok := AsString(item)
		if !ok {
			return nil, false
		}
		out[i] = s
	}
	return out, true
}

// AsStringMap returns a map with string keys as map[string]any.
func AsStringMap(v any) (map[string]any, bool) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = element(iter.Value())
	}
	return out, true
}

// AsPair returns the two members of a two-value result: either a Tuple from a
// function with two results or a two-element []any.
func AsPair(v any) (first, second any, ok bool) {
	switch x := v.(type) {
	case namespace.Tuple:
		if len(x) == 2 {
			return x[0], x[1], true
		}
	case []any:
		if len(x) == 2 {
			return x[0], x[1], true
		}
	}
	return nil, nil, false
}

// TypesOf lists the dynamic type of each item.
func TypesOf(items []any) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = TypeOf(item)
	}
	return out
}

func element(v reflect.Value) any {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if !v.CanInterface() {
		return nil
	}
	return v.Interface()
}
