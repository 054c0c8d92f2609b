package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// New creates a JSON logger writing to stderr with optional context
// extractors. Stderr keeps log output out of whatever the hosting
// application prints on stdout.
func New(extractors ...Extractor) *slog.Logger {
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(newContextHandler(h, extractors...))
}

// Discard returns a logger that drops all output.
// Used as the default when logging is not configured.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string `yaml:"dsn" env:"CAMPUS_SENTRY_DSN"`
	Environment string `yaml:"environment" env:"CAMPUS_SENTRY_ENVIRONMENT"`
	// MinLevel determines which levels are forwarded to Sentry as logs;
	// errors always create Issues.
	MinLevel slog.Level `yaml:"-"`
}

// NewWithSentry creates a logger that writes to stderr and forwards
// warnings and errors to Sentry. An empty DSN falls back to stderr-only
// logging, so the same code path works in development.
func NewWithSentry(cfg SentryConfig, extractors ...Extractor) *slog.Logger {
	stderrHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	if cfg.DSN == "" {
		return slog.New(newContextHandler(stderrHandler, extractors...))
	}

	env := cfg.Environment
	if env == "" {
		env = "production"
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: env,
		EnableLogs:  true,
	}); err != nil {
		slog.New(stderrHandler).Error("sentry init failed, logging to stderr only",
			slog.String("error", err.Error()))
		return slog.New(newContextHandler(stderrHandler, extractors...))
	}

	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	if cfg.MinLevel == slog.LevelError {
		logLevel = []slog.Level{slog.LevelError}
	}

	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevel,
	}.NewSentryHandler(context.Background())

	return slog.New(newContextHandler(newFanoutHandler(stderrHandler, sentryHandler), extractors...))
}
