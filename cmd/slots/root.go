package main

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	slots "github.com/dangdungcntt/go-slots"
)

var version = "dev"

// app carries what the subcommands share once the config is loaded.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     Config
	logger  *slog.Logger
	tracing *sdktrace.TracerProvider
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "slots",
		Short:         "Check, render and serve slot templates",
		Version:       version,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.shutdown(cmd.Context())
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default: ./slots.yaml)")
	root.PersistentFlags().StringP("templates", "t", "", "template directory")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	root.PersistentFlags().Bool("autoescape", true, "HTML escape variable output")
	_ = a.v.BindPFlag("templates", root.PersistentFlags().Lookup("templates"))
	_ = a.v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))
	root.PersistentFlags().String("trace", "", "span exporter: none, stdout or otlp")
	_ = a.v.BindPFlag("autoescape", root.PersistentFlags().Lookup("autoescape"))
	_ = a.v.BindPFlag("trace", root.PersistentFlags().Lookup("trace"))

	root.AddCommand(a.newCheckCmd(), a.newRenderCmd(), a.newServeCmd())
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	a.tracing, err = newTracerProvider(cmd.Context(), cfg.Trace, cfg.OTLPEndpoint, cmd.ErrOrStderr())
	return err
}

// shutdown flushes pending spans.
func (a *app) shutdown(ctx context.Context) error {
	if a.tracing == nil {
		return nil
	}
	return a.tracing.Shutdown(ctx)
}

// engine builds a template engine from the loaded config.
func (a *app) engine(reg prometheus.Registerer) *slots.Engine {
	opts := []slots.Option{
		slots.WithExtensions(a.cfg.Extensions...),
		slots.WithAutoescape(a.cfg.Autoescape),
		slots.WithCacheTTL(a.cfg.CacheTTL),
		slots.WithLogger(a.logger),
	}
	if reg != nil {
		opts = append(opts, slots.WithMetrics(reg))
	}
	if a.tracing != nil {
		opts = append(opts, slots.WithTracer(a.tracing.Tracer(serviceName)))
	}
	return slots.NewEngine(a.cfg.Templates, opts...)
}
