package slots

import (
	"fmt"
	"io"
	"reflect"
)

// Template is a compiled template. It is immutable and may be rendered from
// many goroutines at once.
type Template struct {
	Name   string
	Nodes  NodeList
	engine *Engine
}

// Render renders the template against ctx.
func (t *Template) Render(ctx *Context) (string, error) {
	out, err := t.Nodes.Render(ctx.bind(t))
	if err != nil {
		return "", fmt.Errorf("[%s] %w", t.Name, err)
	}
	return out, nil
}

// Execute renders the template with data into w.
func (t *Template) Execute(w io.Writer, data any) error {
	var (
		ctx *Context
		err error
	)
	if t.engine != nil {
		ctx, err = t.engine.newContext(data)
	} else {
		ctx, err = dataContext(data)
	}
	if err != nil {
		return err
	}
	out, err := t.Render(ctx)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// dataContext builds a root context from render data: a string keyed map, a
// struct (exported fields) or an existing *Context.
func dataContext(data any) (*Context, error) {
	switch d := data.(type) {
	case nil:
		return NewContext(nil), nil
	case *Context:
		return d, nil
	case map[string]any:
		return NewContext(d), nil
	}
	rv := reflect.ValueOf(data)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return NewContext(nil), nil
		}
		rv = rv.Elem()
	}
	values := map[string]any{}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("render data map must have string keys, got %T", data)
		}
		iter := rv.MapRange()
		for iter.Next() {
			values[iter.Key().String()] = iter.Value().Interface()
		}
	case reflect.Struct:
		rt := rv.Type()
		for i := range rt.NumField() {
			if f := rt.Field(i); f.IsExported() {
				values[f.Name] = rv.Field(i).Interface()
			}
		}
	default:
		return nil, fmt.Errorf("unsupported render data type %T", data)
	}
	return NewContext(values), nil
}
