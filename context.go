package slots

import (
	"context"
	"maps"
)

// Context is the data a node renders against: a stack of scopes searched
// from the innermost out. A Context is never modified once handed to a node;
// With derives a new one instead.
type Context struct {
	scopes []map[string]any
	// Autoescape HTML-escapes variable output that is not template.HTML.
	Autoescape bool
	// Template is the template the render started from, used to reach the
	// engine for includes and to name the origin in errors.
	Template *Template
	depth    int
	// span context of the enclosing render
	goctx context.Context
}

// NewContext creates an autoescaping context holding a copy of data.
func NewContext(data map[string]any) *Context {
	return &Context{
		scopes:     []map[string]any{maps.Clone(orEmpty(data))},
		Autoescape: true,
	}
}

// newIsolatedContext creates a context that inherits nothing from its
// caller except engine metadata, which the caller copies explicitly.
func newIsolatedContext(values map[string]any, autoescape bool) *Context {
	return &Context{
		scopes:     []map[string]any{maps.Clone(orEmpty(values))},
		Autoescape: autoescape,
	}
}

// Get looks name up from the innermost scope out.
func (c *Context) Get(name string) (any, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if v, ok := c.scopes[i][name]; ok {
			return v, true
		}
	}
	return nil, false
}

// With returns a derived context with values pushed as a new innermost scope.
func (c *Context) With(values map[string]any) *Context {
	scopes := make([]map[string]any, len(c.scopes), len(c.scopes)+1)
	copy(scopes, c.scopes)
	d := *c
	d.scopes = append(scopes, maps.Clone(orEmpty(values)))
	return &d
}

// RequestContext returns the context.Context the render runs under, carrying
// the current trace span. It is never nil.
func (c *Context) RequestContext() context.Context {
	if c.goctx == nil {
		return context.Background()
	}
	return c.goctx
}

// withRequestContext returns a copy of c rendering under ctx.
func (c *Context) withRequestContext(ctx context.Context) *Context {
	d := *c
	d.goctx = ctx
	return &d
}

// inherit copies engine metadata from the caller into an isolated context.
func (c *Context) inherit(caller *Context) *Context {
	c.Template = caller.Template
	c.depth = caller.depth
	c.goctx = caller.goctx
	return c
}

// Flatten merges all scopes into one map, inner scopes winning.
func (c *Context) Flatten() map[string]any {
	out := map[string]any{}
	for _, s := range c.scopes {
		maps.Copy(out, s)
	}
	return out
}

// bind returns a copy of c whose origin template is t, unless one is set.
func (c *Context) bind(t *Template) *Context {
	if c.Template != nil {
		return c
	}
	d := *c
	d.Template = t
	return &d
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
