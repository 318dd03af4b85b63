package template_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	slots "github.com/dangdungcntt/go-slots"
)

const cardSource = `<div class="card">{% wrapper header %}<h3>{{ header }}</h3>{% endwrapper %}` +
	`<div class="body">{{ body }}</div>{% wrapper footer %}<footer>{{ footer }}</footer>{% endwrapper %}</div>`

// makeLargeTemplate builds a page big enough for parse and render cost to
// show up: many components, each with sections and a few variables.
func makeLargeTemplate() string {
	var b strings.Builder
	b.WriteString("<ul>\n")
	for i := range 100 {
		fmt.Fprintf(&b, `<li>{%% component "card" index=%d %%}`, i)
		fmt.Fprintf(&b, `{%% section header %%}{{ items.%d|upper }}{%% endsection %%}`, i)
		fmt.Fprintf(&b, `<p>{{ items.%d }}</p>`, i)
		if i%2 == 0 {
			b.WriteString(`{% section footer %}{{ note }}{% endsection %}`)
		}
		b.WriteString("{% endcomponent %}</li>\n")
	}
	b.WriteString("</ul>\n")
	return b.String()
}

var pageSource = makeLargeTemplate()

func benchData() map[string]any {
	items := make([]string, 100)
	for i := range items {
		items[i] = fmt.Sprintf("Item number %d", i)
	}
	return map[string]any{"items": items, "note": "<even>"}
}

func newEngine(tb testing.TB) *slots.Engine {
	e := slots.NewEngineFS(fstest.MapFS{
		"card.html": &fstest.MapFile{Data: []byte(cardSource)},
		"page.html": &fstest.MapFile{Data: []byte(pageSource)},
	})
	require.NoError(tb, e.Load(), "load templates failed")
	return e
}

// 1) Render from the engine cache (concurrent-safe)
func Benchmark_Template_CachedRender(b *testing.B) {
	e := newEngine(b)
	data := benchData()

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		var buf bytes.Buffer
		for pb.Next() {
			buf.Reset()
			if err := e.Render(&buf, "page", data); err != nil {
				b.Fatalf("render failed: %v", err)
			}
		}
	})
}

// 2) Invalidate before every render so the page is read and compiled again
func Benchmark_Template_InvalidateRender(b *testing.B) {
	e := newEngine(b)
	data := benchData()

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		var buf bytes.Buffer
		for pb.Next() {
			buf.Reset()
			e.Invalidate("page")
			if err := e.Render(&buf, "page", data); err != nil {
				b.Fatalf("render failed: %v", err)
			}
		}
	})
}

// 3) Parse the page on every iteration (uncached parse)
func Benchmark_Template_ParseEachTime(b *testing.B) {
	e := newEngine(b)
	data := benchData()

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		var buf bytes.Buffer
		for pb.Next() {
			buf.Reset()
			t, err := e.Parse("inline", pageSource)
			if err != nil {
				b.Fatalf("parse failed: %v", err)
			}
			if err := t.Execute(&buf, data); err != nil {
				b.Fatalf("execute failed: %v", err)
			}
		}
	})
}
