// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Options configures Setup
type Options struct {
	Level  slog.Level
	Format string // text or json
	// AddSource records the caller; enabled with debug logging.
	AddSource bool
}

// New builds a logger writing to w
func New(w io.Writer, opts Options) (*slog.Logger, error) {
	hopts := &slog.HandlerOptions{
		Level:     opts.Level,
		AddSource: opts.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return a
		},
	}

	var h slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", "text":
		h = slog.NewTextHandler(w, hopts)
	case "json":
		h = slog.NewJSONHandler(w, hopts)
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}
	return slog.New(h), nil
}

// Setup builds a logger and installs it as the slog default
func Setup(w io.Writer, opts Options) (*slog.Logger, error) {
	l, err := New(w, opts)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(l)
	return l, nil
}
