package slots

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var siteTemplates = map[string]string{
	"components/card.html": `<section class="card"><h1>{{ title }}</h1>{{ body }}</section>`,
	"pages/home.html": `{% component "components/card" title=title %}` +
		`<p>Hello {{ name }}</p>{% endcomponent %}`,
	"pages/broken.html": `{% component "components/nope" %}x{% endcomponent %}`,
	"pages/bad.html":    `{{ n|length }}`,
}

func newTestRouter(t *testing.T, e *Engine) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewHTMLRender(e)
	r := gin.New()
	r.HTMLRender = h
	r.GET("/:page", func(c *gin.Context) {
		h.HTML(c, Page{
			Template: "pages/" + c.Param("page"),
			Data:     gin.H{"title": "Welcome", "name": "<Ada>", "n": 3},
			Status:   http.StatusCreated,
		})
	})
	r.GET("/gin/:page", func(c *gin.Context) {
		c.HTML(http.StatusOK, "pages/"+c.Param("page"), gin.H{"title": "Welcome", "name": "Bo"})
	})
	return r
}

func serve(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHTMLRender_HTML(t *testing.T) {
	r := newTestRouter(t, newTestEngine(t, siteTemplates))

	w := serve(r, "/home")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(w.Body.String()))
	require.NoError(t, err)
	assert.Equal(t, "Welcome", doc.Find("section.card h1").Text())
	assert.Equal(t, "Hello <Ada>", doc.Find("section.card p").Text())
}

func TestHTMLRender_Errors(t *testing.T) {
	r := newTestRouter(t, newTestEngine(t, siteTemplates))

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{path: "/missing", status: http.StatusNotFound, body: `template "pages/missing"`},
		{path: "/broken", status: http.StatusNotFound, body: `template "components/nope"`},
		{path: "/bad", status: http.StatusInternalServerError, body: "has no length"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := serve(r, tt.path)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestHTMLRender_Instance(t *testing.T) {
	r := newTestRouter(t, newTestEngine(t, siteTemplates))

	w := serve(r, "/gin/home")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<p>Hello Bo</p>")
}

func TestHTMLRender_RequestTrace(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")
	e := newTestEngine(t, siteTemplates, WithTracer(tracer))
	r := newTestRouter(t, e)

	ctx, request := tracer.Start(t.Context(), "request")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/home", nil).WithContext(ctx))
	request.End()
	require.Equal(t, http.StatusCreated, w.Code)

	spans := map[string]sdktrace.ReadOnlySpan{}
	for _, s := range recorder.Ended() {
		spans[s.Name()] = s
	}
	require.Contains(t, spans, "slots.Render")
	assert.Equal(t, spans["request"].SpanContext().SpanID(), spans["slots.Render"].Parent().SpanID())
}
