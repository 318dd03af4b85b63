package slots

import (
	"fmt"
	"regexp"
	"strings"
)

var reKwarg = regexp.MustCompile(`^(\w+)=(.+)$`)

// Kwarg is a key=expr binding written in a tag.
type Kwarg struct {
	Name  string
	Value *Expr
}

// Parser turns a token stream into nodes. Tag compilers receive the parser
// to consume their own children.
type Parser struct {
	name    string
	tokens  []Token
	pos     int
	tags    map[string]TagCompiler
	filters map[string]FilterFunc
	open    []Token
}

func newParser(name, src string, tags map[string]TagCompiler, filters map[string]FilterFunc) *Parser {
	return &Parser{
		name:    name,
		tokens:  tokenize(src),
		tags:    tags,
		filters: filters,
	}
}

// Origin is the name of the template being parsed.
func (p *Parser) Origin() string {
	return p.name
}

// Parse compiles tokens until a block tag whose command is in ends. That
// terminating token is left in place for the caller to inspect or delete.
func (p *Parser) Parse(ends ...string) (NodeList, error) {
	nodes := NodeList{}
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		switch tok.Kind {
		case TokenText:
			nodes = append(nodes, &TextNode{Text: tok.Contents})
		case TokenComment:
		case TokenVar:
			if tok.Contents == "" {
				return nil, p.SyntaxError(tok, "empty variable tag on line %d", tok.Line)
			}
			expr, err := p.CompileFilter(tok, tok.Contents)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, &VariableNode{Expr: expr, Line: tok.Line})
		case TokenBlock:
			cmd := tok.Command()
			if cmd == "" {
				return nil, p.SyntaxError(tok, "empty block tag on line %d", tok.Line)
			}
			for _, end := range ends {
				if cmd == end {
					return nodes, nil
				}
			}
			compile, ok := p.tags[cmd]
			if !ok {
				if len(ends) > 0 {
					return nil, p.SyntaxError(tok, "invalid block tag on line %d: '%s', expected %s", tok.Line, cmd, quoteAll(ends))
				}
				return nil, p.SyntaxError(tok, "invalid block tag on line %d: '%s'", tok.Line, cmd)
			}
			p.pos++
			p.open = append(p.open, tok)
			node, err := compile(p, tok)
			p.open = p.open[:len(p.open)-1]
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
			continue
		}
		p.pos++
	}
	if len(ends) > 0 {
		if len(p.open) > 0 {
			tok := p.open[len(p.open)-1]
			return nil, p.SyntaxError(tok, "unclosed tag '%s' on line %d, looking for one of: %s", tok.Command(), tok.Line, quoteAll(ends))
		}
		return nil, &TemplateSyntaxError{Template: p.name, Msg: "unexpected end of template, looking for one of: " + quoteAll(ends)}
	}
	return nodes, nil
}

// NextToken consumes and returns the next token.
func (p *Parser) NextToken() (Token, bool) {
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}
	tok := p.tokens[p.pos]
	p.pos++
	return tok, true
}

// DeleteFirstToken drops the next token, usually the end tag Parse stopped at.
func (p *Parser) DeleteFirstToken() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

// CompileFilter compiles an expression written inside tok.
func (p *Parser) CompileFilter(tok Token, text string) (*Expr, error) {
	expr, err := compileExpr(text, p.filters)
	if err != nil {
		return nil, p.SyntaxError(tok, "%s", err)
	}
	return expr, nil
}

// TokenKwargs compiles key=expr bits. Any bit not in that form is an error.
func (p *Parser) TokenKwargs(tok Token, bits []string) ([]Kwarg, error) {
	kwargs := make([]Kwarg, 0, len(bits))
	for _, bit := range bits {
		m := reKwarg.FindStringSubmatch(bit)
		if m == nil {
			return nil, p.SyntaxError(tok, "'%s' tag expects key=value arguments, got %q", tok.Command(), bit)
		}
		expr, err := p.CompileFilter(tok, m[2])
		if err != nil {
			return nil, err
		}
		kwargs = append(kwargs, Kwarg{Name: m[1], Value: expr})
	}
	return kwargs, nil
}

// SyntaxError builds an error located at tok.
func (p *Parser) SyntaxError(tok Token, format string, args ...any) *TemplateSyntaxError {
	return &TemplateSyntaxError{
		Template: p.name,
		Line:     tok.Line,
		Tag:      tok.Command(),
		Msg:      fmt.Sprintf(format, args...),
	}
}

func quoteAll(ss []string) string {
	q := make([]string, len(ss))
	for i, s := range ss {
		q[i] = "'" + s + "'"
	}
	return strings.Join(q, ", ")
}
