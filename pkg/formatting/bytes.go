// Package formatting holds text helpers shared by config, ingest, and the
// classifier clients: byte sizes, model response parsing, and whitespace cleanup.
package formatting

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Sizes are base-1024. "K", "KB", and "KiB" all mean 1024 bytes.
var units = []string{"B", "K", "M", "G", "T", "P", "E"}

// FormatBytes renders n with the largest unit that keeps the value at or
// above one, e.g. 1536 at precision 2 is "1.50 KB". Negative precision is
// treated as zero.
func FormatBytes(n int64, precision int) string {
	precision = max(precision, 0)

	v := float64(n)
	i := 0
	for math.Abs(v) >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}

	if i == 0 {
		return strconv.FormatInt(n, 10) + " B"
	}
	return strconv.FormatFloat(v, 'f', precision, 64) + " " + units[i] + "B"
}

// ParseBytes parses sizes such as "20MB", "1.5 GiB", "512k", or "4096".
// Units are case-insensitive; a bare number is bytes.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size")
	}

	split := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.'
	})
	num, unit := s, ""
	if split >= 0 {
		num, unit = s[:split], strings.TrimSpace(s[split:])
	}

	value, err := strconv.ParseFloat(num, 64)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	shift, err := unitShift(unit)
	if err != nil {
		return 0, err
	}

	bytes := value * math.Pow(1024, float64(shift))
	if bytes > math.MaxInt64 {
		return 0, fmt.Errorf("byte size overflows: %q", s)
	}
	return int64(bytes), nil
}

func unitShift(unit string) (int, error) {
	u := strings.ToUpper(unit)
	u = strings.TrimSuffix(u, "IB")
	u = strings.TrimSuffix(u, "B")
	if u == "" {
		return 0, nil
	}

	for i, name := range units[1:] {
		if u == name {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("unknown byte size unit: %q", unit)
}
