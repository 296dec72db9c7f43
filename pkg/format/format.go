// Package format renders numeric report values for display and for export.
// Display strings carry the peso glyph; export strings swap it for an
// ASCII-safe "PHP " prefix so generated CSV/PDF files survive strict
// encoders with the same underlying numeric value.
package format

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// CurrencyGlyph is the display prefix for money values.
const CurrencyGlyph = "₱"

// ExportCurrencyCode replaces the glyph in export-safe strings.
const ExportCurrencyCode = "PHP "

var volumeKeywords = regexp.MustCompile(`(?i)volume|quantity|sold|count`)

// IsVolumeSeries reports whether a series name denotes a unit count rather
// than a money amount, in which case the currency prefix is suppressed.
func IsVolumeSeries(name string) bool {
	return volumeKeywords.MatchString(name)
}

// Compact shortens large axis values: 1_500_000 -> "1.5M", 2_300 -> "2k",
// 450 -> "450".
func Compact(v float64) string {
	switch {
	case v >= 1_000_000:
		return strconv.FormatFloat(v/1_000_000, 'f', 1, 64) + "M"
	case v >= 1_000:
		return strconv.FormatFloat(v/1_000, 'f', 0, 64) + "k"
	default:
		return trimFloat(v)
	}
}

// CompactCurrency is Compact with the currency glyph, unless the value
// belongs to a volume series.
func CompactCurrency(v float64, volume bool) string {
	if volume {
		return Compact(v)
	}
	return CurrencyGlyph + Compact(v)
}

// Currency renders a money value for display: "₱1,234.56".
func Currency(v float64) string {
	return CurrencyGlyph + Group(v, 2)
}

// ExportCurrency renders the same value encoding-safe: "PHP 1,234.56".
func ExportCurrency(v float64) string {
	return ExportCurrencyCode + Group(v, 2)
}

// Count renders a whole number with thousands separators and no prefix.
func Count(v float64) string {
	return Group(v, 0)
}

// Percent renders v with the given number of decimals and a % suffix.
func Percent(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64) + "%"
}

// Group inserts comma thousands separators, keeping exactly the requested
// number of decimals.
func Group(v float64, decimals int) string {
	neg := v < 0 || (v == 0 && math.Signbit(v))
	s := strconv.FormatFloat(math.Abs(v), 'f', decimals, 64)

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}
	b.WriteString(fracPart)
	return b.String()
}

// trimFloat formats without trailing zero noise ("450", "449.5").
func trimFloat(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// DisplayToExport converts an already-formatted display string to its
// export-safe form.
func DisplayToExport(s string) string {
	return strings.ReplaceAll(s, CurrencyGlyph, ExportCurrencyCode)
}

// Sanitize coerces a best-effort numeric out of arbitrary backend input.
// Strings may carry currency glyphs or grouping commas; anything that still
// fails to parse, plus NaN/Inf, collapses to 0.
func Sanitize(raw any) float64 {
	switch v := raw.(type) {
	case nil:
		return 0
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		s := strings.TrimSpace(v)
		s = strings.ReplaceAll(s, CurrencyGlyph, "")
		s = strings.ReplaceAll(s, ",", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return finite(f)
	default:
		return 0
	}
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
