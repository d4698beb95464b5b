package svg

import (
	"math"
	"strconv"
	"strings"
)

// formatCoord writes a coordinate the way geometry debug output does: the
// shortest round-trip decimal with a mandatory fractional part, switching to
// exponent form for very small or very large magnitudes.
func formatCoord(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return formatExp(v)
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// formatExp renders v as "1.5e-7" rather than Go's "1.5e-07".
func formatExp(v float64) string {
	s := strconv.FormatFloat(v, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	neg := strings.HasPrefix(exp, "-")
	exp = strings.TrimLeft(exp, "+-")
	exp = strings.TrimLeft(exp, "0")
	if exp == "" {
		exp = "0"
	}
	if neg {
		exp = "-" + exp
	}
	return mant + "e" + exp
}

// formatScalar writes a style or viewBox value with float32 precision.
func formatScalar(v float32) string {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 32)
}

// formatPlain writes a float64 without exponent and without a forced
// fractional part. Used for text positions.
func formatPlain(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// toDisplay narrows a coordinate to the display precision. Values that have
// no float32 representation become 0.
func toDisplay(v float64) float32 {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > math.MaxFloat32 {
		return 0
	}
	return float32(v)
}

func joinScalars(vs []float32, sep string) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = formatScalar(v)
	}
	return strings.Join(parts, sep)
}
