// Package normalize strips formatting noise from extracted field values so
// comparators see content, not punctuation or currency formatting.
package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Text lower-cases s, drops every rune that is not a letter, digit, or
// whitespace, collapses whitespace runs to single spaces, and trims.
// Applied before every exact/fuzzy string comparison so casing and
// punctuation differences never cause false mismatches.
func Text(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// numericNoise contains characters stripped from strings before numeric
// parsing: currency symbols, thousands separators, accounting parens.
const numericNoise = "$,()"

// Numeric coerces v to a float64. Numeric types cast directly; strings are
// stripped of currency and grouping characters first. Returns an error when
// the remainder does not parse; callers fall back to exact string comparison.
func Numeric(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case string:
		cleaned := strings.TrimSpace(n)
		cleaned = strings.Map(func(r rune) rune {
			if strings.ContainsRune(numericNoise, r) {
				return -1
			}
			return r
		}, cleaned)
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not numeric: %w", n, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("value of type %T is not numeric", v)
	}
}
