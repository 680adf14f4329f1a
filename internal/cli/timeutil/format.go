// Package timeutil formats server-reported timestamps and durations for
// status output.
package timeutil

import (
	"fmt"
	"time"
)

// localTimeLayout renders timestamps the way an operator reads them, without
// the timezone noise of RFC3339.
const localTimeLayout = "Mon Jan 2 15:04:05 2006"

// FormatUptime rewrites a Go duration string such as "72h30m15s" into day
// granularity ("3d 0h 30m 15s"). Unparseable input passes through unchanged
// so a protocol drift never hides the raw value.
func FormatUptime(uptime string) string {
	d, err := time.ParseDuration(uptime)
	if err != nil {
		return uptime
	}

	total := int(d.Seconds())
	days := total / 86400
	hours := total / 3600 % 24
	minutes := total / 60 % 60
	seconds := total % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// FormatTime converts an RFC3339 timestamp into local wall-clock time.
// Unparseable input passes through unchanged.
func FormatTime(timestamp string) string {
	t, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return timestamp
	}
	return t.Local().Format(localTimeLayout)
}
