// Package units extracts numeric magnitudes from unit-annotated attribute
// values and rescales them between a component's native unit and the
// reporting unit of the host.
package units

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numberPattern accepts "5", "5.", ".5" and "5.5".
var numberPattern = regexp.MustCompile(`(\d*\.?\d+|\d+\.?\d*)`)

// Prefixes lists the recognized SI magnitude prefixes. Index i scales by 1000^-i.
var Prefixes = []string{"", "m", "u", "n", "p", "f"}

// ExtractNumber returns the first decimal number embedded in s.
func ExtractNumber(s string) (float64, bool) {
	m := numberPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Prefix returns the index into Prefixes of the first non-empty prefix
// contained in s. Matching follows list order, not position in s, so "nm"
// resolves to milli. Zero means no prefix was found.
func Prefix(s string) int {
	for i, p := range Prefixes {
		if p == "" {
			continue
		}
		if strings.Contains(s, p) {
			return i
		}
	}
	return 0
}

// Parse converts raw into targetScale units. raw may be a Go number or a
// string. Bare numbers are taken to be in native units and are rescaled as
// n / nativeScale * targetScale. For other strings the first embedded
// number is divided by nativeScale and then either scaled down by its SI
// prefix or, when no prefix is present, multiplied by targetScale.
// Anything without a number yields def.
func Parse(raw any, nativeScale, targetScale, def float64) float64 {
	if n, ok := toFloat(raw); ok {
		return n / nativeScale * targetScale
	}

	s, ok := raw.(string)
	if !ok {
		return def
	}
	if n, ok := parseDecimal(s); ok {
		return n / nativeScale * targetScale
	}

	v, ok := ExtractNumber(s)
	if !ok {
		return def
	}
	v /= nativeScale

	idx := Prefix(s)
	if idx == 0 {
		return v * targetScale
	}
	return v / math.Pow(1000, float64(idx))
}

// parseDecimal parses s as a plain decimal number. Hex and binary literals,
// which strconv accepts, are left to the extraction path.
func parseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	digits := strings.TrimLeft(s, "+-")
	if len(digits) > 1 && digits[0] == '0' && strings.ContainsRune("xXbBoO", rune(digits[1])) {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	return n, err == nil
}

func toFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
