package slots

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tokens := tokenize("a\n{{ x }}{# note #}\n{% section s %}b{% endsection %}{{ open")

	kinds := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	assert.Equal(t, []TokenKind{TokenText, TokenVar, TokenComment, TokenText, TokenBlock, TokenText, TokenBlock, TokenText, TokenText}, kinds)

	assert.Equal(t, "x", tokens[1].Contents)
	assert.Equal(t, 2, tokens[1].Line)
	assert.Equal(t, "section s", tokens[4].Contents)
	assert.Equal(t, 3, tokens[4].Line)
	assert.Equal(t, "{{", tokens[7].Contents)
	assert.Equal(t, " open", tokens[8].Contents)
}

func TestToken_SplitContents(t *testing.T) {
	tests := []struct {
		contents string
		expected []string
	}{
		{contents: `component "card"`, expected: []string{"component", `"card"`}},
		{contents: `component "my card"  title="Hello world" n=1`, expected: []string{"component", `"my card"`, `title="Hello world"`, "n=1"}},
		{contents: `include 'a b' only`, expected: []string{"include", `'a b'`, "only"}},
		{contents: `wrapper`, expected: []string{"wrapper"}},
		{contents: ``, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.contents, func(t *testing.T) {
			assert.Equal(t, tt.expected, Token{Kind: TokenBlock, Contents: tt.contents}.SplitContents())
		})
	}
}

func TestParser_Parse(t *testing.T) {
	p := newParser("test", `<p>{{ name }}</p>{# gone #}`, builtinTags(), builtinFilters())
	nodes, err := p.Parse()
	require.NoError(t, err)
	require.Len(t, nodes, 3)

	assert.Equal(t, KindText, nodes[0].Kind())
	assert.Equal(t, KindVariable, nodes[1].Kind())
	assert.Equal(t, "name", nodes[1].(*VariableNode).Name())
	assert.Equal(t, KindText, nodes[2].Kind())
}

func TestParser_StopsAtTerminator(t *testing.T) {
	p := newParser("test", `a{% endthing %}b`, builtinTags(), builtinFilters())
	nodes, err := p.Parse("endthing")
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	tok, ok := p.NextToken()
	require.True(t, ok)
	assert.Equal(t, "endthing", tok.Command())
}

func TestParser_TokenKwargs(t *testing.T) {
	p := newParser("test", "", builtinTags(), builtinFilters())
	tok := Token{Kind: TokenBlock, Contents: `component "c" a=1 b=user.name|upper`}

	kwargs, err := p.TokenKwargs(tok, tok.SplitContents()[2:])
	require.NoError(t, err)
	require.Len(t, kwargs, 2)
	assert.Equal(t, "a", kwargs[0].Name)
	assert.Equal(t, "1", kwargs[0].Value.Token)
	assert.Equal(t, "b", kwargs[1].Name)
	assert.Equal(t, "user.name", kwargs[1].Value.Var)

	_, err = p.TokenKwargs(tok, []string{"a"})
	assert.Error(t, err)
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
		line int
	}{
		{name: "unknown tag", src: "\n{% for x in y %}", msg: "invalid block tag on line 2: 'for'", line: 2},
		{name: "stray end tag", src: "{% endsection %}", msg: "invalid block tag on line 1: 'endsection'", line: 1},
		{name: "wrong end tag", src: "{% section a %}{% endwrapper %}", msg: "'endwrapper', expected 'endsection'", line: 1},
		{name: "empty variable", src: "{{ }}", msg: "empty variable tag", line: 1},
		{name: "empty block", src: "{% %}", msg: "empty block tag", line: 1},
		{name: "bad expression", src: "{{ a b }}", msg: "could not parse expression", line: 1},
		{name: "unknown filter", src: "{{ a|nope }}", msg: `invalid filter "nope"`, line: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newParser("page", tt.src, builtinTags(), builtinFilters()).Parse()
			require.Error(t, err)

			var syntaxErr *TemplateSyntaxError
			require.True(t, errors.As(err, &syntaxErr))
			assert.Equal(t, "page", syntaxErr.Template)
			assert.Equal(t, tt.line, syntaxErr.Line)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestTemplateSyntaxError_Error(t *testing.T) {
	assert.Equal(t, "[page:3] boom", (&TemplateSyntaxError{Template: "page", Line: 3, Msg: "boom"}).Error())
	assert.Equal(t, "[page] boom", (&TemplateSyntaxError{Template: "page", Msg: "boom"}).Error())
	assert.Equal(t, "boom", (&TemplateSyntaxError{Msg: "boom"}).Error())
}
