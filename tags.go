package slots

// TagCompiler compiles a block tag. tok is the opening tag, already consumed;
// the compiler parses its own children through p.
type TagCompiler func(p *Parser, tok Token) (Node, error)

func builtinTags() map[string]TagCompiler {
	return map[string]TagCompiler{
		"section":   compileSection,
		"component": compileComponent,
		"wrapper":   compileWrapper,
		"include":   compileInclude,
	}
}
