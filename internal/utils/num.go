package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var rxKeepNums = regexp.MustCompile(`[^\d.\-]`)

// ParseFloat parses messy numeric cells: thousand separators (including
// NBSP/narrow NBSP), comma decimals, currency symbols, accounting-style
// parentheses for negatives.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	repl := strings.NewReplacer("\u00A0", "", "\u202F", "", "\u2009", "", " ", "", "\t", "", ",", ".")
	s = repl.Replace(s)
	// several dots means the dots were thousand separators, keep the last
	if n := strings.Count(s, "."); n > 1 {
		last := strings.LastIndex(s, ".")
		s = strings.ReplaceAll(s[:last], ".", "") + s[last:]
	}
	s = rxKeepNums.ReplaceAllString(s, "")
	if s == "" || s == "-" || s == "." {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		f = -f
	}
	return f, true
}

// ParseInt parses a messy numeric cell into an int, rejecting fractional
// values beyond float noise.
func ParseInt(s string) (int, bool) {
	f, ok := ParseFloat(s)
	if !ok {
		return 0, false
	}
	i := int(f)
	if f-float64(i) != 0 {
		return 0, false
	}
	return i, true
}
