// Package logger is the process-wide structured logging facade. It wraps
// log/slog with a runtime-adjustable level, a colorized text handler for
// terminals, and helpers that splice request context into each record.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// Config selects the logging behavior for the process.
type Config struct {
	Level  string // DEBUG, INFO, WARN, ERROR
	Format string // text, json
	Output string // stdout, stderr, or a file path
}

var (
	// levelVar is shared by every handler the package ever builds, so
	// SetLevel takes effect without a handler swap.
	levelVar = new(slog.LevelVar)

	mu       sync.RWMutex
	output   io.Writer = os.Stdout
	format             = "text"
	useColor           = true
	slogger  *slog.Logger
)

func init() {
	mu.Lock()
	defer mu.Unlock()

	if f, ok := output.(*os.File); ok {
		useColor = isTerminal(f.Fd())
	}
	rebuild()
}

// parseLevel maps a level name onto its slog value.
func parseLevel(level string) (slog.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug, true
	case "INFO":
		return slog.LevelInfo, true
	case "WARN":
		return slog.LevelWarn, true
	case "ERROR":
		return slog.LevelError, true
	default:
		return 0, false
	}
}

// rebuild swaps in a handler matching the current output and format. The
// caller holds mu.
func rebuild() {
	opts := &slog.HandlerOptions{Level: levelVar}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = newColorTextHandler(output, opts, useColor)
	}
	slogger = slog.New(handler)
}

// openOutput resolves an output name to a writer and whether that writer can
// carry ANSI color.
func openOutput(name string) (io.Writer, bool, error) {
	switch strings.ToLower(name) {
	case "stdout":
		return os.Stdout, isTerminal(os.Stdout.Fd()), nil
	case "stderr":
		return os.Stderr, isTerminal(os.Stderr.Fd()), nil
	default:
		f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, false, fmt.Errorf("failed to open log file %q: %w", name, err)
		}
		return f, false, nil
	}
}

// Init applies cfg to the process logger. Empty fields keep their current
// values; a file output is opened in append mode.
func Init(cfg Config) error {
	mu.Lock()
	if cfg.Output != "" {
		w, color, err := openOutput(cfg.Output)
		if err != nil {
			mu.Unlock()
			return err
		}
		output = w
		useColor = color
	}
	if f := strings.ToLower(cfg.Format); f == "text" || f == "json" {
		format = f
	}
	rebuild()
	mu.Unlock()

	if cfg.Level != "" {
		SetLevel(cfg.Level)
	}
	return nil
}

// InitWithWriter points the logger at an arbitrary writer. Tests use this to
// capture output.
func InitWithWriter(w io.Writer, level, logFormat string, enableColor bool) {
	mu.Lock()
	output = w
	useColor = enableColor
	if f := strings.ToLower(logFormat); f == "text" || f == "json" {
		format = f
	}
	rebuild()
	mu.Unlock()

	if level != "" {
		SetLevel(level)
	}
}

// SetLevel adjusts the minimum level at runtime. Unknown names are ignored.
func SetLevel(level string) {
	if l, ok := parseLevel(level); ok {
		levelVar.Set(l)
	}
}

// SetFormat switches between "text" and "json" output. Unknown formats are
// ignored.
func SetFormat(logFormat string) {
	f := strings.ToLower(logFormat)
	if f != "text" && f != "json" {
		return
	}

	mu.Lock()
	format = f
	rebuild()
	mu.Unlock()
}

func getLogger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return slogger
}

// Debug logs msg with alternating key-value fields.
func Debug(msg string, args ...any) {
	getLogger().Debug(msg, args...)
}

// Info logs msg with alternating key-value fields.
func Info(msg string, args ...any) {
	getLogger().Info(msg, args...)
}

// Warn logs msg with alternating key-value fields.
func Warn(msg string, args ...any) {
	getLogger().Warn(msg, args...)
}

// Error logs msg with alternating key-value fields.
func Error(msg string, args ...any) {
	getLogger().Error(msg, args...)
}

// DebugCtx logs msg with the trace and component fields carried by ctx.
func DebugCtx(ctx context.Context, msg string, args ...any) {
	log(ctx, slog.LevelDebug, msg, args)
}

// InfoCtx logs msg with the trace and component fields carried by ctx.
func InfoCtx(ctx context.Context, msg string, args ...any) {
	log(ctx, slog.LevelInfo, msg, args)
}

// WarnCtx logs msg with the trace and component fields carried by ctx.
func WarnCtx(ctx context.Context, msg string, args ...any) {
	log(ctx, slog.LevelWarn, msg, args)
}

// ErrorCtx logs msg with the trace and component fields carried by ctx.
func ErrorCtx(ctx context.Context, msg string, args ...any) {
	log(ctx, slog.LevelError, msg, args)
}

func log(ctx context.Context, level slog.Level, msg string, args []any) {
	l := getLogger()
	if !l.Enabled(ctx, level) {
		return
	}
	l.Log(ctx, level, msg, appendContextFields(ctx, args)...)
}

// appendContextFields prepends the fields carried by ctx so they lead the
// record.
func appendContextFields(ctx context.Context, args []any) []any {
	lc := FromContext(ctx)
	if lc == nil {
		return args
	}

	fields := make([]any, 0, 8+len(args))
	if lc.TraceID != "" {
		fields = append(fields, KeyTraceID, lc.TraceID)
	}
	if lc.SpanID != "" {
		fields = append(fields, KeySpanID, lc.SpanID)
	}
	if lc.Component != "" {
		fields = append(fields, KeyComponent, lc.Component)
	}
	return append(fields, args...)
}

// With returns a slog.Logger carrying pre-bound attributes.
func With(args ...any) *slog.Logger {
	return getLogger().With(args...)
}

// Duration converts the time since start into fractional milliseconds for
// the duration_ms field.
func Duration(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
