package slots

import (
	"fmt"
	"html/template"
	"strings"
)

// NodeKind discriminates compiled nodes so tags can partition their children
// without inspecting concrete types.
type NodeKind int

const (
	KindText NodeKind = iota
	KindVariable
	KindSection
	KindComponent
	KindWrapper
	KindInclude
	// KindCustom is reported by nodes from tags registered with WithTag.
	KindCustom
)

func (k NodeKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindVariable:
		return "variable"
	case KindSection:
		return "section"
	case KindComponent:
		return "component"
	case KindWrapper:
		return "wrapper"
	case KindInclude:
		return "include"
	default:
		return "custom"
	}
}

// Node is a compiled piece of a template. Nodes are immutable after compile
// and safe to render concurrently.
type Node interface {
	Kind() NodeKind
	Render(ctx *Context) (string, error)
}

// NodeList is an ordered node sequence.
type NodeList []Node

// Render renders every node against ctx and concatenates the output.
func (l NodeList) Render(ctx *Context) (string, error) {
	var sb strings.Builder
	for _, n := range l {
		out, err := n.Render(ctx)
		if err != nil {
			return "", err
		}
		sb.WriteString(out)
	}
	return sb.String(), nil
}

// TextNode is literal markup.
type TextNode struct {
	Text string
}

func (n *TextNode) Kind() NodeKind { return KindText }

func (n *TextNode) Render(*Context) (string, error) { return n.Text, nil }

// VariableNode outputs the value of an expression: {{ user.name|upper }}.
type VariableNode struct {
	Expr *Expr
	Line int
}

func (n *VariableNode) Kind() NodeKind { return KindVariable }

// Name is the variable the node reads, empty when it prints a literal.
func (n *VariableNode) Name() string { return n.Expr.Var }

func (n *VariableNode) Render(ctx *Context) (string, error) {
	v, err := n.Expr.Eval(ctx)
	if err != nil {
		return "", fmt.Errorf("line %d: %w", n.Line, err)
	}
	if h, ok := v.(template.HTML); ok {
		return string(h), nil
	}
	if !ctx.Autoescape {
		return toString(v), nil
	}
	return template.HTMLEscapeString(toString(v)), nil
}
