package slots

import "regexp"

var reSectionName = regexp.MustCompile(`^[A-Za-z_]\w*$`)

// SectionNode marks markup as the content of a named slot:
//
//	{% section footer %}Bye{% endsection %}
//
// Outside a component it renders in place. Directly inside a component it is
// lifted out and rendered into the slot of the same name.
type SectionNode struct {
	Name  string
	Nodes NodeList
}

func (n *SectionNode) Kind() NodeKind { return KindSection }

func (n *SectionNode) Render(ctx *Context) (string, error) {
	return n.Nodes.Render(ctx)
}

func compileSection(p *Parser, tok Token) (Node, error) {
	bits := tok.SplitContents()
	if len(bits) != 2 {
		return nil, p.SyntaxError(tok, "'%s' tag requires a single argument: the section name", bits[0])
	}
	if !reSectionName.MatchString(bits[1]) {
		return nil, p.SyntaxError(tok, "'%s' tag name must be a bare identifier, got %s", bits[0], bits[1])
	}
	nodes, err := p.Parse("endsection")
	if err != nil {
		return nil, err
	}
	p.DeleteFirstToken()
	return &SectionNode{Name: bits[1], Nodes: nodes}, nil
}
