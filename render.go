package slots

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

const htmlContentType = "text/html; charset=utf-8"

// Page is a template response: the template to render, its data and the
// status sent when it renders cleanly. A zero Status means 200.
type Page struct {
	Template string
	Data     any
	Status   int
}

func (p Page) status() int {
	if p.Status == 0 {
		return http.StatusOK
	}
	return p.Status
}

var _ render.HTMLRender = (*HTMLRender)(nil)

// HTMLRender plugs the engine into gin: router.HTMLRender = slots.NewHTMLRender(e).
type HTMLRender struct {
	engine *Engine
}

func NewHTMLRender(e *Engine) *HTMLRender {
	return &HTMLRender{engine: e}
}

// Instance is called by gin's c.HTML. gin commits the status before the
// render runs, so render errors there only reach c.Errors; prefer HTML.
func (h *HTMLRender) Instance(name string, data any) render.Render {
	return &Render{Engine: h.engine, Name: name, Data: data}
}

// HTML renders p under the request's context into a buffer and only then
// writes the response. A template that cannot be found, the page or anything
// it includes, answers 404; any other render error answers 500. Both bodies
// name the failing template.
func (h *HTMLRender) HTML(c *gin.Context, p Page) {
	r := &Render{Engine: h.engine, Context: c.Request.Context(), Name: p.Template, Data: p.Data}
	var buf bytes.Buffer
	if err := r.execute(&buf); err != nil {
		_ = c.Error(err)
		c.String(errorStatus(err), "%s", err.Error())
		return
	}
	c.Data(p.status(), htmlContentType, buf.Bytes())
}

func errorStatus(err error) int {
	if errors.Is(err, ErrTemplateNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Render is a gin render.Render for one template.
type Render struct {
	Engine *Engine
	// Context carries the request's trace; nil renders under context.Background.
	Context context.Context
	Name    string
	Data    any
}

func (r *Render) Render(w http.ResponseWriter) error {
	r.WriteContentType(w)
	return r.execute(w)
}

func (r *Render) execute(w io.Writer) error {
	ctx := r.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return r.Engine.RenderContext(ctx, w, r.Name, r.Data)
}

func (r *Render) WriteContentType(w http.ResponseWriter) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", htmlContentType)
	}
}
