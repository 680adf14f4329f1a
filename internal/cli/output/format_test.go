package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{name: "table", input: "table", want: FormatTable},
		{name: "empty defaults to table", input: "", want: FormatTable},
		{name: "json", input: "json", want: FormatJSON},
		{name: "uppercase", input: "YAML", want: FormatYAML},
		{name: "yml alias", input: "yml", want: FormatYAML},
		{name: "padded", input: " json ", want: FormatJSON},
		{name: "unknown", input: "csv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrinter_Accessors(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, FormatJSON, true)

	assert.Equal(t, FormatJSON, printer.Format())
	assert.True(t, printer.ColorEnabled())
	assert.Equal(t, &buf, printer.Writer())
}

func TestPrinter_PrintDispatchesJSON(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, FormatJSON, false)

	require.NoError(t, printer.Print(map[string]string{"status": "ok"}))
	assert.Contains(t, buf.String(), `"status": "ok"`)
}

func TestPrinter_PrintDispatchesYAML(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, FormatYAML, false)

	require.NoError(t, printer.Print(map[string]string{"status": "ok"}))
	assert.Contains(t, buf.String(), "status: ok")
}

func TestPrinter_TableFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, FormatTable, false)

	// Plain maps do not implement TableRenderer.
	require.NoError(t, printer.Print(map[string]int{"count": 3}))
	assert.Contains(t, buf.String(), `"count": 3`)
}

func TestPrinter_StatusHelpers(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, FormatTable, true)

	printer.Success("pass")
	printer.Error("fail")
	printer.Warning("careful")

	out := buf.String()
	assert.Contains(t, out, ansiGreen+"pass"+ansiReset)
	assert.Contains(t, out, ansiRed+"fail"+ansiReset)
	assert.Contains(t, out, ansiYellow+"careful"+ansiReset)
}

func TestPrinter_StatusHelpersWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, FormatTable, false)

	printer.Success("pass")
	printer.Error("fail")

	out := buf.String()
	assert.Equal(t, "pass\nfail\n", out)
	assert.False(t, strings.Contains(out, "\033["))
}
