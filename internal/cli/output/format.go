// Package output renders command results for terminals and pipelines.
// Commands pick a Format from their --output flag and hand structured data
// to a Printer; table output targets humans, JSON and YAML target scripts.
package output

import (
	"fmt"
	"io"
	"strings"
)

// Format selects how structured data is rendered.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ANSI escape sequences for status lines.
const (
	ansiGreen  = "\033[32m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiReset  = "\033[0m"
)

// ParseFormat resolves a --output flag value. The empty string resolves to
// FormatTable so commands can leave the flag unset.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid output format: %q (valid: table, json, yaml)", s)
	}
}

func (f Format) String() string {
	return string(f)
}

// Printer writes command output in a fixed format, with optional ANSI color
// for the human-facing status helpers.
type Printer struct {
	out    io.Writer
	format Format
	color  bool
}

// NewPrinter returns a Printer bound to the given writer and format.
func NewPrinter(out io.Writer, format Format, color bool) *Printer {
	return &Printer{out: out, format: format, color: color}
}

// Format returns the configured output format.
func (p *Printer) Format() Format {
	return p.format
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.out
}

// ColorEnabled reports whether status helpers emit ANSI color.
func (p *Printer) ColorEnabled() bool {
	return p.color
}

// Print renders data in the configured format. Table format requires data to
// implement TableRenderer and falls back to JSON when it does not.
func (p *Printer) Print(data any) error {
	switch p.format {
	case FormatTable:
		if renderer, ok := data.(TableRenderer); ok {
			return PrintTable(p.out, renderer)
		}
		return PrintJSON(p.out, data)
	case FormatJSON:
		return PrintJSON(p.out, data)
	case FormatYAML:
		return PrintYAML(p.out, data)
	default:
		return fmt.Errorf("unknown format: %s", p.format)
	}
}

// Println writes a plain line.
func (p *Printer) Println(args ...any) {
	_, _ = fmt.Fprintln(p.out, args...)
}

// Printf writes formatted text.
func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

// Success writes msg as a green status line.
func (p *Printer) Success(msg string) {
	p.status(ansiGreen, msg)
}

// Error writes msg as a red status line.
func (p *Printer) Error(msg string) {
	p.status(ansiRed, msg)
}

// Warning writes msg as a yellow status line.
func (p *Printer) Warning(msg string) {
	p.status(ansiYellow, msg)
}

func (p *Printer) status(code, msg string) {
	if p.color {
		_, _ = fmt.Fprintf(p.out, "%s%s%s\n", code, msg, ansiReset)
		return
	}
	_, _ = fmt.Fprintln(p.out, msg)
}
