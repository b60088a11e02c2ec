package fields

import (
	"regexp"
	"strconv"
)

// Patterns for the metrics the test generator and the coverage tool print.
var (
	CoveragePattern  = regexp.MustCompile(`Coverage:\s*(\d+\.\d+)%`)
	GeneratedPattern = regexp.MustCompile(`Generated:\s*(\d+)`)
	StackPeakPattern = regexp.MustCompile(`global_stack_peak:\s*(\d+)`)
)

// Labeled returns a pattern matching a line that starts with "<name>:" and
// captures the rest of the line.
func Labeled(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(name) + `:[ \t]*(.*?)\r?$`)
}

// String returns the first capture group of re in text. ok is false when the
// pattern does not match.
func String(text string, re *regexp.Regexp) (value string, ok bool) {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// Field extracts a labeled field ("Name: value") from text.
func Field(text, name string) (string, bool) {
	return String(text, Labeled(name))
}

// Float parses the first capture group of re as a float, returning fallback
// when the pattern is absent or the value does not parse.
func Float(text string, re *regexp.Regexp, fallback float64) float64 {
	s, ok := String(text, re)
	if !ok {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}

// Int parses the first capture group of re as an integer, returning fallback
// when the pattern is absent or the value does not parse.
func Int(text string, re *regexp.Regexp, fallback int64) int64 {
	s, ok := String(text, re)
	if !ok {
		return fallback
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fallback
	}
	return v
}
