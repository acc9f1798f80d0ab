package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// coalescingHandler wraps another slog.Handler and coalesces runs of
// consecutive identical log entries (spec.md §7). The first entry of a
// run is written at once; the identical entries that follow are held
// and written as one entry carrying a "repeated" count when a different
// entry arrives, so a run that has not yet ended is not written. Two
// records are identical when their level, message, and attributes all
// match; the timestamp is never part of the comparison.
type coalescingHandler struct {
	next slog.Handler

	mu     sync.Mutex
	key    string
	held   slog.Record
	have   bool
	repeat int
}

func newCoalescingHandler(next slog.Handler) *coalescingHandler {
	return &coalescingHandler{next: next}
}

func (h *coalescingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *coalescingHandler) Handle(ctx context.Context, r slog.Record) error {
	key := signature(r)

	h.mu.Lock()
	if h.have && key == h.key {
		h.repeat++
		h.held = r
		h.mu.Unlock()
		return nil
	}

	var flush slog.Record
	var flushRepeat int
	if h.have && h.repeat > 0 {
		flush = h.held
		flushRepeat = h.repeat
	}
	h.key = key
	h.held = r
	h.have = true
	h.repeat = 0
	h.mu.Unlock()

	if flushRepeat > 0 {
		flush.AddAttrs(slog.Int("repeated", flushRepeat))
		if err := h.next.Handle(ctx, flush); err != nil {
			return err
		}
	}
	return h.next.Handle(ctx, r)
}

func (h *coalescingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return newCoalescingHandler(h.next.WithAttrs(attrs))
}

func (h *coalescingHandler) WithGroup(name string) slog.Handler {
	return newCoalescingHandler(h.next.WithGroup(name))
}

// signature builds a comparison key from everything but the
// timestamp: level, message, and attributes in emission order.
func signature(r slog.Record) string {
	var b strings.Builder
	b.WriteString(r.Level.String())
	b.WriteByte('|')
	b.WriteString(r.Message)
	r.Attrs(func(a slog.Attr) bool {
		b.WriteByte('|')
		b.WriteString(a.Key)
		b.WriteByte('=')
		fmt.Fprintf(&b, "%v", a.Value.Any())
		return true
	})
	return b.String()
}
