package slots

import (
	"log/slog"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

// Option configures an Engine.
type Option func(*Engine)

// WithPrefix sets the folder inside the fs that template names are relative
// to, e.g. the embedded folder of an embed.FS.
func WithPrefix(prefix string) Option {
	return func(e *Engine) {
		e.dirPrefix = prefix
	}
}

// WithExtensions sets the file extensions treated as templates.
func WithExtensions(exts ...string) Option {
	return func(e *Engine) {
		e.extensions = make([]string, 0, len(exts))
		for _, ext := range exts {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			e.extensions = append(e.extensions, ext)
		}
	}
}

// WithAutoescape turns HTML escaping of variable output on or off. On by default.
func WithAutoescape(on bool) Option {
	return func(e *Engine) {
		e.autoescape = on
	}
}

// WithCacheTTL expires compiled file templates after ttl, so they are read
// from the fs again. Zero or negative keeps them until invalidated.
func WithCacheTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		if ttl <= 0 {
			ttl = gocache.NoExpiration
		}
		e.cacheTTL = ttl
	}
}

// WithLogger sets the logger. slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics registers the engine's Prometheus collectors with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(e *Engine) {
		e.metrics = newMetrics(reg)
	}
}

// WithTracer sets the tracer used for render spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		if tracer != nil {
			e.tracer = tracer
		}
	}
}

// WithTag registers a block tag compiler, replacing any tag of that name.
func WithTag(name string, compile TagCompiler) Option {
	return func(e *Engine) {
		e.tags[name] = compile
	}
}

// WithFilter registers an expression filter, replacing any filter of that name.
func WithFilter(name string, fn FilterFunc) Option {
	return func(e *Engine) {
		e.filters[name] = fn
	}
}
