package parser

import (
	"strconv"
	"strings"
)

// ParseQuantity parses a quantity token tolerating both decimal conventions:
//
//	"1.234,56" -> 1234.56  (thousands dot + decimal comma)
//	"1,5"      -> 1.5      (decimal comma)
//	"12.5"     -> 12.5     (decimal dot)
//
// The second return is false when the token does not parse or is not a
// positive number; callers default to 1.0 and record a warning instead of
// erroring.
func ParseQuantity(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")
	switch {
	case hasDot && hasComma:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
