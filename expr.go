package slots

import (
	"fmt"
	"html/template"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

var reVarPath = regexp.MustCompile(`^[A-Za-z_]\w*(\.\w+)*$`)

// Expr is a compiled value expression: a literal or variable path followed by
// an optional filter pipeline, e.g. user.name|default:"guest"|upper.
type Expr struct {
	// Token is the source text the expression was compiled from.
	Token string
	// Var is the variable path the expression reads, empty for literals.
	Var string

	literal any
	path    []string
	filters []filterCall
}

type filterCall struct {
	name string
	fn   FilterFunc
	arg  *Expr
}

// compileExpr compiles text using the given filter set.
func compileExpr(text string, filters map[string]FilterFunc) (*Expr, error) {
	text = strings.TrimSpace(text)
	parts := splitOutsideQuotes(text, '|')
	base := strings.TrimSpace(parts[0])
	if base == "" {
		return nil, fmt.Errorf("empty expression %q", text)
	}
	e := &Expr{Token: text}
	if err := e.setBase(base); err != nil {
		return nil, err
	}
	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		name, argText, hasArg := strings.Cut(p, ":")
		name = strings.TrimSpace(name)
		fn, ok := filters[name]
		if !ok {
			return nil, fmt.Errorf("invalid filter %q in %q", name, text)
		}
		fc := filterCall{name: name, fn: fn}
		if hasArg {
			arg := &Expr{Token: strings.TrimSpace(argText)}
			if err := arg.setBase(arg.Token); err != nil {
				return nil, fmt.Errorf("filter %q: %w", name, err)
			}
			fc.arg = arg
		}
		e.filters = append(e.filters, fc)
	}
	return e, nil
}

func (e *Expr) setBase(base string) error {
	if lit, ok := parseLiteral(base); ok {
		e.literal = lit
		return nil
	}
	if !reVarPath.MatchString(base) {
		return fmt.Errorf("could not parse expression %q", base)
	}
	e.Var = base
	e.path = strings.Split(base, ".")
	return nil
}

// Eval evaluates the expression against ctx. A missing variable is nil.
func (e *Expr) Eval(ctx *Context) (any, error) {
	v := e.base(ctx)
	for _, f := range e.filters {
		var arg any
		if f.arg != nil {
			arg = f.arg.base(ctx)
		}
		out, err := f.fn(v, arg)
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", f.name, err)
		}
		v = out
	}
	return v, nil
}

func (e *Expr) base(ctx *Context) any {
	if e.path == nil {
		return e.literal
	}
	v, ok := ctx.Get(e.path[0])
	if !ok {
		return nil
	}
	for _, key := range e.path[1:] {
		v = lookup(v, key)
		if v == nil {
			return nil
		}
	}
	return v
}

func (e *Expr) String() string {
	return e.Token
}

// lookup resolves one path segment against maps, struct fields and slices.
func lookup(v any, key string) any {
	if m, ok := v.(map[string]any); ok {
		return m[key]
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil
		}
		mv := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return nil
		}
		return mv.Interface()
	case reflect.Struct:
		f := rv.FieldByName(key)
		if !f.IsValid() || !f.CanInterface() {
			return nil
		}
		return f.Interface()
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= rv.Len() {
			return nil
		}
		return rv.Index(i).Interface()
	}
	return nil
}

func parseLiteral(s string) (any, bool) {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1], true
	}
	switch s {
	case "true", "True":
		return true, true
	case "false", "False":
		return false, true
	case "None", "nil":
		return nil, true
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	return nil, false
}

// splitOutsideQuotes splits s on sep, ignoring separators inside quotes.
func splitOutsideQuotes(s string, sep rune) []string {
	var (
		parts []string
		quote rune
		start int
	)
	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// toString renders a value the way variable output shows it.
func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case template.HTML:
		return string(s)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}
