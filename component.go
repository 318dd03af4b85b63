package slots

// bodySlot names the slot that receives everything outside a section.
const bodySlot = "body"

// ComponentNode renders another template as a component, filling its slots
// from the markup it wraps:
//
//	{% component "card" title=page.title %}
//	    <p>My content</p>
//	    {% section footer %}Bye{% endsection %}
//	{% endcomponent %}
//
// The card template sees body, footer and title, and nothing else from the
// caller.
type ComponentNode struct {
	Template *Expr
	// Nodes is the body: the wrapped markup minus top-level sections.
	Nodes    NodeList
	Sections []*SectionNode
	Props    []Kwarg
}

func (n *ComponentNode) Kind() NodeKind { return KindComponent }

// Render renders the body and sections against the caller's context, then
// renders the component template against a fresh context holding only those
// results and the props.
func (n *ComponentNode) Render(ctx *Context) (string, error) {
	body, err := n.Nodes.Render(ctx)
	if err != nil {
		return "", err
	}
	values := map[string]any{bodySlot: body}
	for _, s := range n.Sections {
		out, err := s.Render(ctx)
		if err != nil {
			return "", err
		}
		// a repeated section name replaces the earlier one
		values[s.Name] = out
	}
	props, err := evalKwargs(n.Props, ctx)
	if err != nil {
		return "", err
	}
	for k, v := range props {
		values[k] = v
	}

	// slot values are already rendered markup, escaping them again would double-escape
	cctx := newIsolatedContext(values, false).inherit(ctx)
	return include(n.Template, ctx, cctx)
}

func compileComponent(p *Parser, tok Token) (Node, error) {
	bits := tok.SplitContents()
	if len(bits) < 2 {
		return nil, p.SyntaxError(tok, "'%s' tag requires at least one argument: the template name", bits[0])
	}
	props, err := p.TokenKwargs(tok, bits[2:])
	if err != nil {
		return nil, err
	}
	nodes, err := p.Parse("endcomponent")
	if err != nil {
		return nil, err
	}
	p.DeleteFirstToken()

	name, err := resolveRelativePath(p.Origin(), bits[1], false)
	if err != nil {
		return nil, p.SyntaxError(tok, "%s", err)
	}
	ref, err := p.CompileFilter(tok, name)
	if err != nil {
		return nil, err
	}

	body, sections := partitionSections(nodes)
	return &ComponentNode{
		Template: ref,
		Nodes:    body,
		Sections: sections,
		Props:    props,
	}, nil
}

// partitionSections splits top-level sections from the rest. Sections nested
// inside other nodes belong to those nodes and are not touched.
func partitionSections(nodes NodeList) (NodeList, []*SectionNode) {
	body := make(NodeList, 0, len(nodes))
	var sections []*SectionNode
	for _, n := range nodes {
		if n.Kind() == KindSection {
			if s, ok := n.(*SectionNode); ok {
				sections = append(sections, s)
				continue
			}
		}
		body = append(body, n)
	}
	return body, sections
}
