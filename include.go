package slots

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// maxIncludeDepth bounds include and component nesting.
const maxIncludeDepth = 64

// IncludeNode renders another template with the caller's data:
//
//	{% include "partials/nav" active="home" %}
//	{% include "./row" item=item only %}
//
// With only, the target sees nothing but the bindings.
type IncludeNode struct {
	Template *Expr
	Extra    []Kwarg
	Only     bool
}

func (n *IncludeNode) Kind() NodeKind { return KindInclude }

func (n *IncludeNode) Render(ctx *Context) (string, error) {
	values, err := evalKwargs(n.Extra, ctx)
	if err != nil {
		return "", err
	}
	var target *Context
	if n.Only {
		target = newIsolatedContext(values, ctx.Autoescape).inherit(ctx)
	} else {
		target = ctx.With(values)
	}
	return include(n.Template, ctx, target)
}

func compileInclude(p *Parser, tok Token) (Node, error) {
	bits := tok.SplitContents()
	if len(bits) < 2 {
		return nil, p.SyntaxError(tok, "'%s' tag takes at least one argument: the name of the template to be included", bits[0])
	}
	args := bits[2:]
	only := false
	if len(args) > 0 && args[len(args)-1] == "only" {
		only = true
		args = args[:len(args)-1]
	}
	kwargs, err := p.TokenKwargs(tok, args)
	if err != nil {
		return nil, err
	}
	name, err := resolveRelativePath(p.Origin(), bits[1], true)
	if err != nil {
		return nil, p.SyntaxError(tok, "%s", err)
	}
	ref, err := p.CompileFilter(tok, name)
	if err != nil {
		return nil, err
	}
	return &IncludeNode{Template: ref, Extra: kwargs, Only: only}, nil
}

// include resolves ref against the caller's context and renders the template
// it names against target.
func include(ref *Expr, caller, target *Context) (string, error) {
	v, err := ref.Eval(caller)
	if err != nil {
		return "", err
	}
	var tmpl *Template
	switch t := v.(type) {
	case *Template:
		tmpl = t
	default:
		name := toString(v)
		if name == "" {
			return "", fmt.Errorf("template reference %s evaluated to an empty name", ref)
		}
		if caller.Template == nil || caller.Template.engine == nil {
			return "", fmt.Errorf("cannot load template %q: no engine bound to the context", name)
		}
		tmpl, err = caller.Template.engine.Get(name)
		if err != nil {
			return "", err
		}
	}
	if caller.depth >= maxIncludeDepth {
		return "", fmt.Errorf("including %q: %w", tmpl.Name, ErrIncludeDepth)
	}
	d := *target
	d.depth = caller.depth + 1
	if tmpl.engine == nil {
		return tmpl.Render(&d)
	}

	goctx, span := tmpl.engine.tracer.Start(caller.RequestContext(), "slots.Include",
		trace.WithAttributes(attribute.String("slots.template", tmpl.Name)))
	defer span.End()
	d.goctx = goctx
	out, err := tmpl.Render(&d)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}

func evalKwargs(kwargs []Kwarg, ctx *Context) (map[string]any, error) {
	values := make(map[string]any, len(kwargs))
	for _, kw := range kwargs {
		v, err := kw.Value.Eval(ctx)
		if err != nil {
			return nil, fmt.Errorf("evaluating %s: %w", kw.Name, err)
		}
		values[kw.Name] = v
	}
	return values, nil
}
