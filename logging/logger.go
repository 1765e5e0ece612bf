package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// LevelFatal extends slog's levels for unrecoverable failures; the sink's
// taxonomy is debug|info|warn|error|fatal.
const LevelFatal = slog.Level(12)

// PackageKey is the attribute naming the originating component, forwarded
// as the sink's "package" field.
const PackageKey = "package"

// Options controls logger construction.
type Options struct {
	Relay  *Relay     // nil or empty relay disables forwarding
	Stdout bool       // also write text records to stdout
	Level  slog.Level // minimum level; the zero value is Info
}

// New builds the service logger. There is no package-level logger; the
// instance is passed to every component that logs.
func New(opts Options) *slog.Logger {
	var handlers []slog.Handler
	if opts.Stdout {
		handlers = append(handlers, slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: opts.Level}))
	}
	if opts.Relay != nil {
		handlers = append(handlers, &relayHandler{relay: opts.Relay, level: opts.Level})
	}
	switch len(handlers) {
	case 0:
		return slog.New(discardHandler{})
	case 1:
		return slog.New(handlers[0])
	default:
		return slog.New(multiHandler(handlers))
	}
}

// LevelName maps an slog level onto the sink's level vocabulary.
func LevelName(l slog.Level) string {
	switch {
	case l >= LevelFatal:
		return "fatal"
	case l >= slog.LevelError:
		return "error"
	case l >= slog.LevelWarn:
		return "warn"
	case l >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}

// relayHandler flattens each record into a single message line for the
// sink: "msg key=val key=val", with the package attr pulled out separately.
type relayHandler struct {
	relay *Relay
	level slog.Level
	attrs []slog.Attr
}

func (h *relayHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level
}

func (h *relayHandler) Handle(_ context.Context, rec slog.Record) error {
	pkg := "app"
	var b strings.Builder
	b.WriteString(rec.Message)

	appendAttr := func(a slog.Attr) {
		if a.Key == PackageKey {
			pkg = a.Value.String()
			return
		}
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value.Any())
	}
	for _, a := range h.attrs {
		appendAttr(a)
	}
	rec.Attrs(func(a slog.Attr) bool {
		appendAttr(a)
		return true
	})

	h.relay.Post("backend", LevelName(rec.Level), pkg, b.String())
	return nil
}

func (h *relayHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &relayHandler{relay: h.relay, level: h.level, attrs: merged}
}

func (h *relayHandler) WithGroup(string) slog.Handler { return h }

// multiHandler fans a record out to every wrapped handler.
type multiHandler []slog.Handler

func (m multiHandler) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range m {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (m multiHandler) Handle(ctx context.Context, rec slog.Record) error {
	var firstErr error
	for _, h := range m {
		if !h.Enabled(ctx, rec.Level) {
			continue
		}
		if err := h.Handle(ctx, rec.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (m multiHandler) WithGroup(name string) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithGroup(name)
	}
	return out
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }
