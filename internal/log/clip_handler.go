package log

import (
	"context"
	"io"
	"log/slog"
	"unicode/utf8"
)

// DefaultClipLen is the maximum length, in bytes, of a string attribute
// value before it is truncated. Long enough to keep context windows and
// short quotes intact, short enough that a whole-page stream slice cannot
// flood a log line.
const DefaultClipLen = 256

// clipSuffix marks truncated values so a reader knows content was elided.
const clipSuffix = "…(clipped)"

// ClipHandler wraps an slog.Handler and truncates oversized string
// attribute values before passing records on.
//
// Design decision: We use a handler wrapper rather than clipping at each
// call site because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Call sites stay free to log whatever value is at hand
type ClipHandler struct {
	// handler is the underlying slog handler that receives clipped records.
	handler slog.Handler

	// maxLen is the clip threshold in bytes.
	maxLen int
}

// NewClipHandler creates a ClipHandler wrapping the given handler with the
// default threshold. If handler is nil, slog.Default()'s handler is used.
func NewClipHandler(handler slog.Handler) *ClipHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &ClipHandler{handler: handler, maxLen: DefaultClipLen}
}

// Enabled reports whether the handler handles records at the given level.
func (h *ClipHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle clips the record's attributes and passes it on.
func (h *ClipHandler) Handle(ctx context.Context, r slog.Record) error {
	clipped := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		clipped.AddAttrs(h.clipAttr(a))
		return true
	})
	return h.handler.Handle(ctx, clipped)
}

// WithAttrs returns a new handler with the given attributes added, clipped.
func (h *ClipHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clipped := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clipped[i] = h.clipAttr(a)
	}
	return &ClipHandler{handler: h.handler.WithAttrs(clipped), maxLen: h.maxLen}
}

// WithGroup returns a new handler with the given group name.
func (h *ClipHandler) WithGroup(name string) slog.Handler {
	return &ClipHandler{handler: h.handler.WithGroup(name), maxLen: h.maxLen}
}

// clipAttr clips a single attribute, recursively handling groups.
func (h *ClipHandler) clipAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		clipped := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			clipped[i] = h.clipAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(clipped...)}
	}

	if a.Value.Kind() == slog.KindString {
		if v := a.Value.String(); len(v) > h.maxLen {
			return slog.String(a.Key, Clip(v, h.maxLen))
		}
	}
	return a
}

// Clip truncates s to at most maxLen bytes without splitting a UTF-8
// sequence, appending a truncation marker.
func Clip(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + clipSuffix
}

// NewLogger creates an slog.Logger with text output and attribute clipping.
// Verbose selects Debug level; otherwise only warnings and errors log.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	textHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewClipHandler(textHandler))
}

// NewJSONLogger creates an slog.Logger with JSON output and attribute
// clipping. Useful for structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewClipHandler(jsonHandler))
}
