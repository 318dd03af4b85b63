package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	slots "github.com/dangdungcntt/go-slots"
)

const shutdownTimeout = 5 * time.Second

func (a *app) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve pages/<path> templates over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default :8080)")
	cmd.Flags().Bool("watch", false, "reload templates when their files change")
	_ = a.v.BindPFlag("addr", cmd.Flags().Lookup("addr"))
	_ = a.v.BindPFlag("watch", cmd.Flags().Lookup("watch"))
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	reg := prometheus.NewRegistry()
	e := a.engine(reg)
	if err := e.Load(); err != nil {
		return err
	}
	if a.cfg.Watch {
		go func() {
			if err := e.Watch(ctx); err != nil {
				a.logger.Error("watching templates", "error", err)
			}
		}()
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{Addr: a.cfg.Addr, Handler: newRouter(e, reg, a)}
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("serving templates", "addr", a.cfg.Addr, "dir", a.cfg.Templates, "watch", a.cfg.Watch)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newRouter maps GET /a/b to the template pages/a/b and / to pages/index.
// Query parameters become the render data.
func newRouter(e *slots.Engine, reg *prometheus.Registry, a *app) *gin.Engine {
	h := slots.NewHTMLRender(e)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(a))
	r.HTMLRender = h
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Status(http.StatusMethodNotAllowed)
			return
		}
		data := map[string]any{"path": c.Request.URL.Path}
		for k, v := range c.Request.URL.Query() {
			data[k] = v[0]
		}
		h.HTML(c, slots.Page{Template: pageName(c.Request.URL.Path), Data: data})
	})
	return r
}

func pageName(urlPath string) string {
	p := strings.Trim(urlPath, "/")
	if p == "" {
		p = "index"
	}
	return "pages/" + p
}

func requestLogger(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		for _, err := range c.Errors {
			a.logger.Error("render failed", "path", c.Request.URL.Path, "error", err.Err)
		}
		a.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start),
		)
	}
}
