package slots

import (
	"errors"
	"fmt"
)

var (
	// ErrTemplateNotFound is returned when a template name does not resolve to a loadable file.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrIncludeDepth is returned when include/component nesting runs away.
	ErrIncludeDepth = errors.New("include depth exceeded")
)

// TemplateSyntaxError reports markup that cannot be compiled.
type TemplateSyntaxError struct {
	Template string
	Line     int
	Tag      string
	Msg      string
}

func (e *TemplateSyntaxError) Error() string {
	switch {
	case e.Template != "" && e.Line > 0:
		return fmt.Sprintf("[%s:%d] %s", e.Template, e.Line, e.Msg)
	case e.Template != "":
		return fmt.Sprintf("[%s] %s", e.Template, e.Msg)
	default:
		return e.Msg
	}
}
