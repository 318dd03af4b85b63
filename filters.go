package slots

import (
	"fmt"
	"html/template"
	"reflect"
	"strings"
)

// FilterFunc transforms a value in an expression pipeline. arg is nil when
// the filter is used without an argument.
type FilterFunc func(in, arg any) (any, error)

func builtinFilters() map[string]FilterFunc {
	return map[string]FilterFunc{
		"default": filterDefault,
		"upper":   stringFilter(strings.ToUpper),
		"lower":   stringFilter(strings.ToLower),
		"trim":    stringFilter(strings.TrimSpace),
		"length":  filterLength,
		"safe":    filterSafe,
		"escape":  filterEscape,
	}
}

func filterDefault(in, arg any) (any, error) {
	if isEmpty(in) {
		return arg, nil
	}
	return in, nil
}

func stringFilter(fn func(string) string) FilterFunc {
	return func(in, _ any) (any, error) {
		if h, ok := in.(template.HTML); ok {
			return template.HTML(fn(string(h))), nil
		}
		return fn(toString(in)), nil
	}
}

func filterLength(in, _ any) (any, error) {
	if s, ok := in.(string); ok {
		return len([]rune(s)), nil
	}
	if in == nil {
		return 0, nil
	}
	rv := reflect.ValueOf(in)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String, reflect.Chan:
		return rv.Len(), nil
	}
	return nil, fmt.Errorf("value of type %T has no length", in)
}

func filterSafe(in, _ any) (any, error) {
	return template.HTML(toString(in)), nil
}

func filterEscape(in, _ any) (any, error) {
	return template.HTML(template.HTMLEscapeString(toString(in))), nil
}

// isEmpty reports whether v counts as "not set" for the default filter.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	switch s := v.(type) {
	case string:
		return s == ""
	case template.HTML:
		return s == ""
	case bool:
		return !s
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return rv.IsZero()
}
