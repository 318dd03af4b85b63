package slots

import (
	"time"
)

type ParsedFile struct {
	Name string
	// Path is the file the template was read from, empty for templates added with Parse
	Path string
	// Raw is the raw file content
	Raw string
	// ParsedAt is the time when the file was parsed in unix milliseconds
	ParsedAt int64
}

// compile parses raw into a template named name.
func (e *Engine) compile(name, raw string) (*Template, error) {
	start := time.Now()
	p := newParser(name, raw, e.tags, e.filters)
	nodes, err := p.Parse()
	e.metrics.observeCompile(err)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("template compiled", "template", name, "nodes", len(nodes), "took", time.Since(start))
	return &Template{Name: name, Nodes: nodes, engine: e}, nil
}

// store records a compiled template and its source.
func (e *Engine) store(f *ParsedFile, tmpl *Template, ttl time.Duration) {
	e.mu.Lock()
	e.parsedFiles[f.Name] = f
	e.debugTemplates[f.Name] = f.Raw
	e.mu.Unlock()
	e.templates.Set(f.Name, tmpl, ttl)
}
