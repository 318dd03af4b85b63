package slots

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

var ValidFileExtensions = []string{".blade", ".tmpl", ".html", ".gohtml"}

const tracerName = "github.com/dangdungcntt/go-slots"

// Engine holds loaded files.
type Engine struct {
	dirPrefix       string
	root            string
	fs              fs.FS
	parsedFiles     map[string]*ParsedFile
	debugTemplates  map[string]string
	templates       *gocache.Cache
	group           singleflight.Group
	lastCompileTime time.Time
	loadMu          sync.Mutex
	mu              sync.RWMutex

	extensions []string
	tags       map[string]TagCompiler
	filters    map[string]FilterFunc
	autoescape bool
	cacheTTL   time.Duration
	logger     *slog.Logger
	metrics    *metrics
	tracer     trace.Tracer
}

// NewEngine creates a new engine pointing to a directory with files.
func NewEngine(dir string, opts ...Option) *Engine {
	e := NewEngineFS(os.DirFS(dir), opts...)
	e.root = dir
	return e
}

// NewEngineFS creates a new engine pointing to a filesystem.
// When using embed.FS, pass the embedded folder with WithPrefix.
func NewEngineFS(fsys fs.FS, opts ...Option) *Engine {
	e := &Engine{
		fs:             fsys,
		parsedFiles:    map[string]*ParsedFile{},
		debugTemplates: map[string]string{},
		extensions:     ValidFileExtensions,
		tags:           builtinTags(),
		filters:        builtinFilters(),
		autoescape:     true,
		cacheTTL:       gocache.NoExpiration,
		logger:         slog.Default(),
		tracer:         otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.templates = gocache.New(e.cacheTTL, cleanupInterval(e.cacheTTL))
	return e
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	return 2 * ttl
}

// Load compiles every template file in the fs. Files not modified since the
// last Load are skipped. Syntax errors fail the whole Load.
func (e *Engine) Load() error {
	e.loadMu.Lock()
	defer e.loadMu.Unlock()

	start := time.Now()
	compiled := 0
	err := fs.WalkDir(e.fs, ".", func(path string, info fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !e.validExt(path) {
			return nil
		}

		stats, err := info.Info()
		if err != nil {
			return err
		}
		name := e.nameFromPath(path)
		if !e.lastCompileTime.IsZero() && !stats.ModTime().After(e.lastCompileTime) && e.isParsed(name) {
			return nil
		}

		raw, err := fs.ReadFile(e.fs, path)
		if err != nil {
			return err
		}
		tmpl, err := e.compile(name, string(raw))
		if err != nil {
			return err
		}
		e.store(&ParsedFile{Name: name, Path: path, Raw: string(raw), ParsedAt: time.Now().UnixMilli()}, tmpl, e.cacheTTL)
		compiled++
		return nil
	})
	if err != nil {
		return err
	}
	e.lastCompileTime = start
	e.logger.Debug("templates loaded", "compiled", compiled, "took", time.Since(start))
	return nil
}

// Get returns the compiled template called name, compiling it from the fs if
// it is not cached.
func (e *Engine) Get(name string) (*Template, error) {
	name = normalizeName(name)
	if v, ok := e.templates.Get(name); ok {
		e.metrics.observeCacheLookup(true)
		return v.(*Template), nil
	}
	e.metrics.observeCacheLookup(false)
	v, err, _ := e.group.Do(name, func() (any, error) {
		return e.loadTemplate(name)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Template), nil
}

func (e *Engine) loadTemplate(name string) (*Template, error) {
	for _, p := range e.candidatePaths(name) {
		raw, err := fs.ReadFile(e.fs, p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading template %q: %w", name, err)
		}
		tmpl, err := e.compile(name, string(raw))
		if err != nil {
			return nil, err
		}
		e.store(&ParsedFile{Name: name, Path: p, Raw: string(raw), ParsedAt: time.Now().UnixMilli()}, tmpl, e.cacheTTL)
		return tmpl, nil
	}
	return nil, fmt.Errorf("template %q: %w", name, ErrTemplateNotFound)
}

// candidatePaths lists the files a template name may live in, the path
// recorded by the last Load first.
func (e *Engine) candidatePaths(name string) []string {
	var paths []string
	e.mu.RLock()
	if f, ok := e.parsedFiles[name]; ok && f.Path != "" {
		paths = append(paths, f.Path)
	}
	e.mu.RUnlock()
	for _, ext := range e.extensions {
		paths = append(paths, path.Join(e.dirPrefix, name+ext))
	}
	return paths
}

// Parse compiles src as a template called name and keeps it in the engine,
// so other templates can include it.
func (e *Engine) Parse(name, src string) (*Template, error) {
	name = normalizeName(name)
	tmpl, err := e.compile(name, src)
	if err != nil {
		return nil, err
	}
	e.store(&ParsedFile{Name: name, Raw: src, ParsedAt: time.Now().UnixMilli()}, tmpl, gocache.NoExpiration)
	return tmpl, nil
}

// Invalidate drops templates from the cache. They are read again on next use.
func (e *Engine) Invalidate(names ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, name := range names {
		name = normalizeName(name)
		// templates added with Parse have no file to come back from
		if f, ok := e.parsedFiles[name]; ok && f.Path == "" {
			continue
		}
		delete(e.parsedFiles, name)
		e.templates.Delete(name)
		e.logger.Debug("template invalidated", "template", name)
	}
}

// Render executes the template identified by entry (e.g., "pages/home") into writer with data.
func (e *Engine) Render(w io.Writer, entry string, data any) error {
	return e.RenderContext(context.Background(), w, entry, data)
}

// RenderContext is Render with a context carrying the trace the render
// span is attached to.
func (e *Engine) RenderContext(ctx context.Context, w io.Writer, entry string, data any) error {
	entry = normalizeName(entry)
	ctx, span := e.tracer.Start(ctx, "slots.Render", trace.WithAttributes(attribute.String("slots.template", entry)))
	defer span.End()

	start := time.Now()
	out, err := e.render(ctx, entry, data)
	e.metrics.observeRender(entry, time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func (e *Engine) render(ctx context.Context, entry string, data any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	tmpl, err := e.Get(entry)
	if err != nil {
		return "", err
	}
	c, err := e.newContext(data)
	if err != nil {
		return "", err
	}
	return tmpl.Render(c.withRequestContext(ctx))
}

func (e *Engine) newContext(data any) (*Context, error) {
	if c, ok := data.(*Context); ok {
		return c, nil
	}
	c, err := dataContext(data)
	if err != nil {
		return nil, err
	}
	c.Autoescape = e.autoescape
	return c, nil
}

// GetDebugTemplates returns a map of all loaded templates and their content.
func (e *Engine) GetDebugTemplates() map[string]string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return maps.Clone(e.debugTemplates)
}

func (e *Engine) isParsed(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.parsedFiles[name]
	return ok
}

func (e *Engine) validExt(path string) bool {
	return slices.Contains(e.extensions, strings.ToLower(filepath.Ext(path)))
}

// nameFromPath converts a filesystem path to a template name, relative to engine dir.
func (e *Engine) nameFromPath(path string) string {
	rel, err := filepath.Rel(e.dirPrefix, path)
	if err != nil {
		return filepath.Base(path)
	}
	// normalize separators and drop extension
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	return normalizeName(rel)
}

// normalizeName: remove quotes/spaces and extensions, normalize slashes
func normalizeName(n string) string {
	n = strings.TrimSpace(n)
	n = strings.Trim(n, `"' `)
	// remove ext if present
	n = strings.TrimSuffix(n, filepath.Ext(n))
	n = filepath.ToSlash(n)
	return strings.TrimPrefix(n, "/")
}
