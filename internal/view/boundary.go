package view

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync/atomic"

	"github.com/a-h/templ"
)

// PanicError wraps a value recovered from a panicking component.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("render panic: %v", e.Value)
}

// Boundary contains failures of its child. On failure nothing the child wrote
// reaches the output; Fallback renders in its place.
type Boundary struct {
	Name     string
	Child    templ.Component
	Fallback func(err error) templ.Component
}

// trap marks a boundary as rendering. It is released when Render returns,
// so a context captured by the child stops reporting it afterwards.
type trap struct {
	name   string
	active atomic.Bool
}

type trapKey struct{}

// enclosing returns the name of the innermost boundary still rendering ctx
func enclosing(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(trapKey{}).(*trap)
	if !ok || !t.active.Load() {
		return "", false
	}
	return t.name, true
}

// Render implements templ.Component.
func (b Boundary) Render(ctx context.Context, w io.Writer) error {
	t := &trap{name: b.Name}
	t.active.Store(true)
	defer t.active.Store(false)

	var buf bytes.Buffer
	err := renderContained(context.WithValue(ctx, trapKey{}, t), b.Child, &buf)
	if err == nil {
		_, werr := w.Write(buf.Bytes())
		return werr
	}

	attrs := []any{"boundary", b.Name, "error", err}
	if parent, ok := enclosing(ctx); ok {
		attrs = append(attrs, "parent", parent)
	}
	var pe *PanicError
	if errors.As(err, &pe) {
		attrs = append(attrs, "stack", string(pe.Stack))
	}
	slog.WarnContext(ctx, "render failed", attrs...)
	return b.fallback(err).Render(ctx, w)
}

func (b Boundary) fallback(err error) templ.Component {
	if b.Fallback != nil {
		if c := b.Fallback(err); c != nil {
			return c
		}
	}
	return ErrorPanel("Something went wrong", "")
}

func renderContained(ctx context.Context, c templ.Component, w io.Writer) (err error) {
	if c == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return c.Render(ctx, w)
}

// ErrorPanel is the default fallback. detail is shown beneath the title when
// non-empty.
func ErrorPanel(title, detail string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(w)
		h.raw(`<div class="panel error-panel" role="alert"><h3>`)
		h.text(title)
		h.raw(`</h3>`)
		if detail != "" {
			h.raw(`<p class="error-detail">`)
			h.text(detail)
			h.raw(`</p>`)
		}
		h.raw(`<p><a href="/">Reload</a></p></div>`)
		return h.err
	})
}

// panelFallback builds fallbacks that show the error text only in debug mode.
func panelFallback(title string, debugMode bool) func(error) templ.Component {
	return func(err error) templ.Component {
		if debugMode {
			return ErrorPanel(title, err.Error())
		}
		return ErrorPanel(title, "")
	}
}
