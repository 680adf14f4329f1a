package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCheck struct {
	Check  string `json:"check" yaml:"check"`
	Passed bool   `json:"passed" yaml:"passed"`
}

func TestPrintJSON(t *testing.T) {
	data := testCheck{Check: "env:NEO4J_USER", Passed: true}

	var buf bytes.Buffer
	err := PrintJSON(&buf, data)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, `"check": "env:NEO4J_USER"`)
	assert.Contains(t, output, `"passed": true`)
}

func TestPrintJSONArray(t *testing.T) {
	data := []testCheck{
		{Check: "env:NEO4J_USER", Passed: true},
		{Check: "env:NEO4J_PASSWORD", Passed: false},
	}

	var buf bytes.Buffer
	err := PrintJSON(&buf, data)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, `"check": "env:NEO4J_USER"`)
	assert.Contains(t, output, `"check": "env:NEO4J_PASSWORD"`)
}

func TestPrintYAML(t *testing.T) {
	data := testCheck{Check: "uri", Passed: true}

	var buf bytes.Buffer
	err := PrintYAML(&buf, data)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "check: uri")
	assert.Contains(t, output, "passed: true")
}

func TestPrintYAMLArray(t *testing.T) {
	data := []testCheck{
		{Check: "health:liveness"},
		{Check: "endpoint:/healthcheck"},
	}

	var buf bytes.Buffer
	err := PrintYAML(&buf, data)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "- check: health:liveness")
	assert.Contains(t, output, "- check: endpoint:/healthcheck")
}
