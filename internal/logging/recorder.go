// Package logging keeps a bounded in-memory record of log lines alongside
// the normal slog output, so callers can show recent activity without a log
// file.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

const (
	defaultCapacity = 300
	trimCount       = 50
)

// Recorder is a bounded line buffer. When the capacity is exceeded the
// oldest trimCount lines are dropped in one batch.
type Recorder struct {
	mu       sync.Mutex
	lines    []string
	capacity int
}

func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Recorder{capacity: capacity}
}

func (r *Recorder) Append(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lines = append(r.lines, line)
	if len(r.lines) > r.capacity {
		n := trimCount
		if n > len(r.lines) {
			n = len(r.lines)
		}
		r.lines = append(r.lines[:0:0], r.lines[n:]...)
	}
}

// Lines returns a copy of the most recent max lines, oldest first. max <= 0
// returns everything retained.
func (r *Recorder) Lines(max int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := 0
	if max > 0 && len(r.lines) > max {
		start = len(r.lines) - max
	}
	out := make([]string, len(r.lines)-start)
	copy(out, r.lines[start:])
	return out
}

// Handler tees formatted records into a Recorder and forwards them to the
// wrapped handler.
type Handler struct {
	inner slog.Handler
	rec   *Recorder
	attrs []slog.Attr
}

func NewHandler(inner slog.Handler, rec *Recorder) *Handler {
	return &Handler{inner: inner, rec: rec}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	var sb strings.Builder
	sb.WriteString(record.Time.Format("2006-01-02 15:04:05"))
	sb.WriteString(" ")
	sb.WriteString(record.Level.String())
	sb.WriteString(" ")
	sb.WriteString(record.Message)

	for _, attr := range h.attrs {
		writeAttr(&sb, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		writeAttr(&sb, attr)
		return true
	})

	h.rec.Append(sb.String())
	return h.inner.Handle(ctx, record)
}

func writeAttr(sb *strings.Builder, attr slog.Attr) {
	fmt.Fprintf(sb, " %s=%v", attr.Key, attr.Value.Any())
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{
		inner: h.inner.WithAttrs(attrs),
		rec:   h.rec,
		attrs: append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name), rec: h.rec, attrs: h.attrs}
}
