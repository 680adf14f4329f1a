package timeutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"15s", "15s"},
		{"5m30s", "5m 30s"},
		{"2h0m5s", "2h 0m 5s"},
		{"72h30m15s", "3d 0h 30m 15s"},
		{"26h0m0s", "1d 2h 0m 0s"},
		{"not-a-duration", "not-a-duration"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatUptime(tt.input), "input %q", tt.input)
	}
}

func TestFormatTime_PassesThroughInvalid(t *testing.T) {
	assert.Equal(t, "garbage", FormatTime("garbage"))
}

func TestFormatTime_ParsesRFC3339(t *testing.T) {
	// Local rendering depends on the host timezone; just require the year
	// and a parse that did not fall through.
	got := FormatTime("2026-08-25T10:30:00Z")
	assert.NotEqual(t, "2026-08-25T10:30:00Z", got)
	assert.Contains(t, got, "2026")
}
