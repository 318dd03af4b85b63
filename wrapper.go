package slots

import "strings"

// WrapperNode renders its markup only when one of its variables has content:
//
//	{% wrapper footer %}<h2>Footer</h2>{{ footer }}{% endwrapper %}
//
// renders nothing when footer is blank.
type WrapperNode struct {
	Name    string
	Nodes   NodeList
	tracked *VariableNode
}

func (n *WrapperNode) Kind() NodeKind { return KindWrapper }

func (n *WrapperNode) Render(ctx *Context) (string, error) {
	out, err := n.tracked.Render(ctx)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", nil
	}
	return n.Nodes.Render(ctx)
}

func compileWrapper(p *Parser, tok Token) (Node, error) {
	bits := tok.SplitContents()
	if len(bits) != 2 {
		return nil, p.SyntaxError(tok, "'%s' tag requires a single argument", bits[0])
	}
	name := bits[1]
	nodes, err := p.Parse("endwrapper")
	if err != nil {
		return nil, err
	}
	p.DeleteFirstToken()

	var tracked *VariableNode
	for _, n := range nodes {
		if n.Kind() != KindVariable {
			continue
		}
		if v, ok := n.(*VariableNode); ok && v.Name() == name {
			tracked = v
			break
		}
	}
	if tracked == nil {
		return nil, p.SyntaxError(tok, "'%s' tag could not find {{ %s }} among its direct children", bits[0], name)
	}
	return &WrapperNode{Name: name, Nodes: nodes, tracked: tracked}, nil
}
