package slots

import (
	"strings"
	"unicode"
)

type TokenKind int

const (
	TokenText TokenKind = iota
	TokenVar
	TokenBlock
	TokenComment
)

func (k TokenKind) String() string {
	switch k {
	case TokenVar:
		return "var"
	case TokenBlock:
		return "block"
	case TokenComment:
		return "comment"
	default:
		return "text"
	}
}

const (
	varStart     = "{{"
	varEnd       = "}}"
	blockStart   = "{%"
	blockEnd     = "%}"
	commentStart = "{#"
	commentEnd   = "#}"
)

// Token is a piece of template source. Contents is trimmed for var, block and
// comment tokens and verbatim for text.
type Token struct {
	Kind     TokenKind
	Contents string
	Line     int
}

// Command returns the first word of a block token.
func (t Token) Command() string {
	bits := strings.Fields(t.Contents)
	if len(bits) == 0 {
		return ""
	}
	return bits[0]
}

// SplitContents splits the token contents on whitespace, keeping quoted
// strings together, including ones glued to a key: title="My title".
func (t Token) SplitContents() []string {
	var (
		bits  []string
		cur   strings.Builder
		quote rune
	)
	for _, r := range t.Contents {
		switch {
		case quote != 0:
			cur.WriteRune(r)
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
			cur.WriteRune(r)
		case unicode.IsSpace(r):
			if cur.Len() > 0 {
				bits = append(bits, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		bits = append(bits, cur.String())
	}
	return bits
}

// tokenize splits raw template source into tokens.
func tokenize(src string) []Token {
	var tokens []Token
	line := 1
	rest := src
	for len(rest) > 0 {
		idx, kind, end := nextTag(rest)
		if idx < 0 {
			tokens = append(tokens, Token{Kind: TokenText, Contents: rest, Line: line})
			break
		}
		closeIdx := strings.Index(rest[idx+2:], end)
		if closeIdx < 0 {
			// unterminated delimiter is plain text
			text := rest[:idx+2]
			tokens = append(tokens, Token{Kind: TokenText, Contents: text, Line: line})
			line += strings.Count(text, "\n")
			rest = rest[idx+2:]
			continue
		}
		if idx > 0 {
			text := rest[:idx]
			tokens = append(tokens, Token{Kind: TokenText, Contents: text, Line: line})
			line += strings.Count(text, "\n")
		}
		raw := rest[idx : idx+2+closeIdx+2]
		tokens = append(tokens, Token{
			Kind:     kind,
			Contents: strings.TrimSpace(raw[2 : len(raw)-2]),
			Line:     line,
		})
		line += strings.Count(raw, "\n")
		rest = rest[idx+len(raw):]
	}
	return tokens
}

// nextTag finds the earliest opening delimiter in s.
func nextTag(s string) (int, TokenKind, string) {
	best, kind, end := -1, TokenText, ""
	for _, d := range []struct {
		start, end string
		kind       TokenKind
	}{
		{varStart, varEnd, TokenVar},
		{blockStart, blockEnd, TokenBlock},
		{commentStart, commentEnd, TokenComment},
	} {
		if i := strings.Index(s, d.start); i >= 0 && (best < 0 || i < best) {
			best, kind, end = i, d.kind, d.end
		}
	}
	return best, kind, end
}
