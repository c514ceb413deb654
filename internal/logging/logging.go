// Package logging builds the application slog loggers.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/grafana/loki-client-go/loki"
	"github.com/pkg/errors"
	slogloki "github.com/samber/slog-loki/v3"
)

// Options controls the logger returned by New.
type Options struct {
	// Verbosity raises the level from Warn by one step per increment.
	Verbosity   int
	CallerTrace bool
	// LokiURL, when set, ships records to a Loki push endpoint instead of stdout.
	LokiURL string
	Writer  io.Writer
}

// Level maps a verbosity count onto a slog level: 0 is Warn, 1 Info, 2 and above Debug.
func Level(verbosity int) slog.Level {
	return slog.LevelWarn - slog.Level(verbosity*4)
}

// New returns a logger configured from opts and a function flushing any remote sink.
func New(opts Options) (*slog.Logger, func(), error) {
	level := Level(opts.Verbosity)
	if opts.LokiURL == "" {
		w := opts.Writer
		if w == nil {
			w = os.Stdout
		}
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource: opts.CallerTrace,
			Level:     level,
		})), func() {}, nil
	}

	cfg, err := loki.NewDefaultConfig(opts.LokiURL)
	if err != nil {
		return nil, nil, errors.Wrap(err, "invalid loki url")
	}
	client, err := loki.New(cfg)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create loki client")
	}
	handler := slogloki.Option{
		Level:     level,
		Client:    client,
		AddSource: opts.CallerTrace,
	}.NewLokiHandler()
	return slog.New(handler).With("service", "razorpay-interakt-app"), client.Stop, nil
}

// NewNoopLogger returns a logger discarding every record.
func NewNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
