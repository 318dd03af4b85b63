package slots

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

// newTestEngine loads files (path -> source) from an in-memory fs.
func newTestEngine(t testing.TB, files map[string]string, opts ...Option) *Engine {
	t.Helper()
	e := NewEngineFS(mapFS(files), opts...)
	require.NoError(t, e.Load())
	return e
}

func mapFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, body := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return fsys
}

func renderString(t testing.TB, e *Engine, name string, data any) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, e.Render(&sb, name, data))
	return sb.String()
}

// renderSource compiles src as a standalone template and renders it.
func renderSource(t testing.TB, src string, data any) string {
	t.Helper()
	e := NewEngineFS(fstest.MapFS{})
	tmpl, err := e.Parse("test", src)
	require.NoError(t, err)
	var sb strings.Builder
	require.NoError(t, tmpl.Execute(&sb, data))
	return sb.String()
}

// flattenHTML drops all whitespace so markup can be compared regardless of layout.
func flattenHTML(s string) string {
	return strings.Join(strings.Fields(s), "")
}
