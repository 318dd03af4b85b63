package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the settings shared by all commands.
type Config struct {
	Templates    string        `mapstructure:"templates"`
	Extensions   []string      `mapstructure:"extensions"`
	Autoescape   bool          `mapstructure:"autoescape"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
	LogLevel     string        `mapstructure:"log_level"`
	Addr         string        `mapstructure:"addr"`
	Watch        bool          `mapstructure:"watch"`
	Trace        string        `mapstructure:"trace"` // none, stdout or otlp
	OTLPEndpoint string        `mapstructure:"otlp_endpoint"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		Templates:  "views",
		Extensions: []string{".html", ".tmpl", ".gohtml", ".blade"},
		Autoescape: true,
		LogLevel:   "info",
		Addr:       ":8080",
		Trace:      "none",
	}
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("templates", d.Templates)
	v.SetDefault("extensions", d.Extensions)
	v.SetDefault("autoescape", d.Autoescape)
	v.SetDefault("cache_ttl", d.CacheTTL)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("addr", d.Addr)
	v.SetDefault("watch", d.Watch)
	v.SetDefault("trace", d.Trace)
	v.SetDefault("otlp_endpoint", d.OTLPEndpoint)
}

// loadConfig reads file (or ./slots.yaml when file is empty), SLOTS_ prefixed
// environment variables and bound flags into a Config.
func loadConfig(v *viper.Viper, file string) (Config, error) {
	setDefaults(v)
	v.SetEnvPrefix("SLOTS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("slots")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
