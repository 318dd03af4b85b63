package slots

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "slots"

// metrics holds the Prometheus collectors of an engine. A nil *metrics
// records nothing.
type metrics struct {
	rendersTotal   *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	compilesTotal  *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "renders_total",
			Help:      "Total number of template renders",
		}, []string{"template", "status"}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "render_duration_seconds",
			Help:      "Template render duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"template"}),

		compilesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "compiles_total",
			Help:      "Total number of template compilations",
		}, []string{"status"}),

		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_lookups_total",
			Help:      "Compiled template cache lookups by result",
		}, []string{"result"}),
	}
}

func (m *metrics) observeRender(template string, took time.Duration, err error) {
	if m == nil {
		return
	}
	m.rendersTotal.WithLabelValues(template, renderStatus(err)).Inc()
	m.renderDuration.WithLabelValues(template).Observe(took.Seconds())
}

func (m *metrics) observeCompile(err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "syntax_error"
	}
	m.compilesTotal.WithLabelValues(status).Inc()
}

func (m *metrics) observeCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func renderStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrTemplateNotFound):
		return "not_found"
	default:
		return "error"
	}
}
