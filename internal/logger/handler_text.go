package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// colorTextHandler is a slog.Handler rendering records as single
// "[timestamp] [LEVEL] message key=value ..." lines. The level and keys are
// colored when the destination is a terminal. Group names become dotted key
// prefixes.
type colorTextHandler struct {
	opts     *slog.HandlerOptions
	w        io.Writer
	mu       *sync.Mutex
	attrs    []slog.Attr // pre-bound attrs, keys already qualified
	prefix   string      // dotted group path for record attrs
	useColor bool
}

func newColorTextHandler(w io.Writer, opts *slog.HandlerOptions, useColor bool) *colorTextHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &colorTextHandler{
		opts:     opts,
		w:        w,
		mu:       &sync.Mutex{},
		useColor: useColor,
	}
}

func (h *colorTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}
	return level >= threshold
}

func (h *colorTextHandler) Handle(_ context.Context, r slog.Record) error {
	// Build the line outside the lock.
	buf := make([]byte, 0, 256)
	buf = fmt.Appendf(buf, "[%s] [%s] %s",
		r.Time.Format("2006-01-02 15:04:05"),
		h.levelTag(r.Level),
		r.Message,
	)

	for _, attr := range h.attrs {
		buf = h.appendAttr(buf, attr, false)
	}
	r.Attrs(func(a slog.Attr) bool {
		buf = h.appendAttr(buf, a, true)
		return true
	})
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf)
	return err
}

// levelTag renders the level name, colored when enabled.
func (h *colorTextHandler) levelTag(level slog.Level) string {
	var tag, color string
	switch {
	case level < slog.LevelInfo:
		tag, color = "DEBUG", colorGray
	case level < slog.LevelWarn:
		tag, color = "INFO", colorGreen
	case level < slog.LevelError:
		tag, color = "WARN", colorYellow
	default:
		tag, color = "ERROR", colorRed
	}
	return h.paint(color, tag)
}

// paint wraps s in an ANSI color when color is enabled.
func (h *colorTextHandler) paint(color, s string) string {
	if !h.useColor {
		return s
	}
	return color + s + colorReset
}

// appendAttr writes one " key=value" pair. qualify applies the current group
// prefix; pre-bound attrs are stored already qualified.
func (h *colorTextHandler) appendAttr(buf []byte, a slog.Attr, qualify bool) []byte {
	if a.Equal(slog.Attr{}) {
		return buf
	}
	a.Value = a.Value.Resolve()

	key := a.Key
	if qualify && h.prefix != "" {
		key = h.prefix + "." + key
	}
	return fmt.Appendf(buf, " %s=%s", h.paint(colorCyan, key), renderValue(a.Value))
}

// renderValue flattens a slog.Value for single-line output.
func renderValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return fmt.Sprintf("%.3f", v.Float64())
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v.Any())
	}
}

func (h *colorTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	qualified := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	qualified = append(qualified, h.attrs...)
	for _, a := range attrs {
		if h.prefix != "" {
			a.Key = h.prefix + "." + a.Key
		}
		qualified = append(qualified, a)
	}

	clone := *h
	clone.attrs = qualified
	return &clone
}

func (h *colorTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	clone := *h
	clone.attrs = append([]slog.Attr{}, h.attrs...)
	if h.prefix == "" {
		clone.prefix = name
	} else {
		clone.prefix = h.prefix + "." + name
	}
	return &clone
}
