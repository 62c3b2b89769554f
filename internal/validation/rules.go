package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var strictEmailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NotBlank reports whether s has content after trimming whitespace.
func NotBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}

// HasNoDigits reports whether s contains no digit character of any script.
func HasNoDigits(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) < 0
}

// IsStrictEmail reports whether s looks like local@domain.tld.
func IsStrictEmail(s string) bool {
	return strictEmailRegex.MatchString(strings.TrimSpace(s))
}

// IsNumber reports whether s parses as a finite number.
func IsNumber(s string) bool {
	_, ok := parseFloat(s)
	return ok
}

// IsNonNegative reports whether s is a number >= 0.
func IsNonNegative(s string) bool {
	f, ok := parseFloat(s)
	return ok && f >= 0
}

// IsPositiveInteger reports whether s is a whole number greater than zero that
// fits a row identifier.
func IsPositiveInteger(s string) bool {
	f, ok := parseFloat(s)
	if !ok || f < 1 || f != math.Trunc(f) {
		return false
	}
	return f <= math.MaxUint32
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
