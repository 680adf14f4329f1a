package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogTime_TextFormat(t *testing.T) {
	line := "[2026-01-15 10:30:45] [INFO] Server started component=api"

	got := parseLogTime(line)

	want := time.Date(2026, 1, 15, 10, 30, 45, 0, time.Local)
	assert.True(t, got.Equal(want), "got %v, want %v", got, want)
}

func TestParseLogTime_JSONFormat(t *testing.T) {
	line := `{"time":"2026-01-15T10:30:45.123Z","level":"INFO","msg":"Server started"}`

	got := parseLogTime(line)

	want := time.Date(2026, 1, 15, 10, 30, 45, 123000000, time.UTC)
	assert.True(t, got.Equal(want), "got %v, want %v", got, want)
}

func TestParseLogTime_Unparseable(t *testing.T) {
	for _, line := range []string{
		"",
		"plain text without a timestamp",
		"[not a date] [INFO] message",
		`{"level":"INFO","msg":"no time field"}`,
	} {
		assert.True(t, parseLogTime(line).IsZero(), "line %q should not parse", line)
	}
}

func writeLogFile(t *testing.T, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graphd.log")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

func TestPrintLastLines_TruncatesToLimit(t *testing.T) {
	lines := []string{"one", "two", "three", "four", "five"}
	path := writeLogFile(t, lines)

	var buf bytes.Buffer
	require.NoError(t, printLastLines(&buf, path, 3, time.Time{}))

	assert.Equal(t, "three\nfour\nfive\n", buf.String())
}

func TestPrintLastLines_FewerThanLimit(t *testing.T) {
	path := writeLogFile(t, []string{"only", "two"})

	var buf bytes.Buffer
	require.NoError(t, printLastLines(&buf, path, 100, time.Time{}))

	assert.Equal(t, "only\ntwo\n", buf.String())
}

func TestPrintLastLines_SinceFilter(t *testing.T) {
	path := writeLogFile(t, []string{
		`{"time":"2026-01-15T09:00:00Z","msg":"old"}`,
		`{"time":"2026-01-15T11:00:00Z","msg":"new"}`,
		"no timestamp here",
	})

	var buf bytes.Buffer
	since := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	require.NoError(t, printLastLines(&buf, path, 100, since))

	out := buf.String()
	assert.NotContains(t, out, "old")
	assert.Contains(t, out, "new")
	// Lines without a parseable timestamp always pass the filter.
	assert.Contains(t, out, "no timestamp here")
}

func TestPrintLastLines_MissingFile(t *testing.T) {
	var buf bytes.Buffer
	err := printLastLines(&buf, filepath.Join(t.TempDir(), "absent.log"), 10, time.Time{})
	require.Error(t, err)
}
