// Package bytesize provides a byte count type for configuration values
// expressed as human-readable strings such as "1Mi", "256Ki", or "100MB".
package bytesize

import (
	"fmt"
	"strconv"
	"strings"
)

// ByteSize is a count of bytes. Configuration fields of this type accept
// plain integers as well as suffixed strings: binary units (Ki, Mi, Gi, Ti,
// with an optional trailing B) scale by 1024, decimal units (K, M, G, T, or
// KB, MB, GB, TB) scale by 1000. Suffixes are case-insensitive.
type ByteSize uint64

const (
	B  ByteSize = 1
	KB ByteSize = 1000
	MB ByteSize = 1000 * KB
	GB ByteSize = 1000 * MB
	TB ByteSize = 1000 * GB

	KiB ByteSize = 1024
	MiB ByteSize = 1024 * KiB
	GiB ByteSize = 1024 * MiB
	TiB ByteSize = 1024 * GiB
)

// suffixScale maps a lowercased unit suffix to its byte multiplier.
func suffixScale(unit string) (ByteSize, bool) {
	switch unit {
	case "", "b":
		return B, true
	case "k", "kb":
		return KB, true
	case "m", "mb":
		return MB, true
	case "g", "gb":
		return GB, true
	case "t", "tb":
		return TB, true
	case "ki", "kib":
		return KiB, true
	case "mi", "mib":
		return MiB, true
	case "gi", "gib":
		return GiB, true
	case "ti", "tib":
		return TiB, true
	default:
		return 0, false
	}
}

// ParseByteSize converts a human-readable size such as "512Ki" or "2MB" into
// a byte count. Plain numbers parse as bytes. Fractional values are accepted
// and truncate toward zero after scaling.
func ParseByteSize(s string) (ByteSize, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("byte size is empty")
	}

	// Split the numeric prefix from the unit suffix.
	split := len(trimmed)
	for i, r := range trimmed {
		if (r < '0' || r > '9') && r != '.' {
			split = i
			break
		}
	}
	number := trimmed[:split]
	unit := strings.ToLower(strings.TrimSpace(trimmed[split:]))

	if number == "" {
		return 0, fmt.Errorf("byte size %q has no numeric value", s)
	}

	scale, ok := suffixScale(unit)
	if !ok {
		return 0, fmt.Errorf("byte size %q has unknown unit %q", s, strings.TrimSpace(trimmed[split:]))
	}

	if strings.Contains(number, ".") {
		f, err := strconv.ParseFloat(number, 64)
		if err != nil {
			return 0, fmt.Errorf("byte size %q has invalid number %q", s, number)
		}
		return ByteSize(f * float64(scale)), nil
	}

	n, err := strconv.ParseUint(number, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("byte size %q has invalid number %q", s, number)
	}
	return ByteSize(n) * scale, nil
}

// UnmarshalText implements encoding.TextUnmarshaler so ByteSize fields decode
// directly from string values.
func (b *ByteSize) UnmarshalText(text []byte) error {
	size, err := ParseByteSize(string(text))
	if err != nil {
		return err
	}
	*b = size
	return nil
}

// String renders the size using the largest binary unit that fits. Whole
// multiples print without decimals, everything else with two.
func (b ByteSize) String() string {
	render := func(scale ByteSize, suffix string) string {
		v := float64(b) / float64(scale)
		if v == float64(uint64(v)) {
			return fmt.Sprintf("%d%s", uint64(v), suffix)
		}
		return fmt.Sprintf("%.2f%s", v, suffix)
	}

	switch {
	case b >= TiB:
		return render(TiB, "TiB")
	case b >= GiB:
		return render(GiB, "GiB")
	case b >= MiB:
		return render(MiB, "MiB")
	case b >= KiB:
		return render(KiB, "KiB")
	default:
		return fmt.Sprintf("%dB", uint64(b))
	}
}

// Uint64 returns the size as a uint64.
func (b ByteSize) Uint64() uint64 {
	return uint64(b)
}

// Int64 returns the size as an int64. Sizes above math.MaxInt64 wrap.
func (b ByteSize) Int64() int64 {
	return int64(b)
}
