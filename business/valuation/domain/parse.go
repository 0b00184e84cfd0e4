package domain

import (
	"strconv"
	"strings"
)

// ParseOrZero converts user input to a number. Dots group thousands and a
// comma marks the decimal part ("1.234,5" is 1234.5). A leading "$" and any
// spaces are ignored. Anything unparsable, NaN or infinite yields 0.
func ParseOrZero(s string) float64 {
	v, _ := ParseInput(s)
	return v
}

// ParseInput is ParseOrZero reporting whether s held a usable number.
func ParseInput(s string) (float64, bool) {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return 0, false
	}

	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)

	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != '-' && r != '+' && r != 'e' && r != 'E' {
			return 0, false
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(v) {
		return 0, false
	}
	return v, true
}

// FormatInput renders a raw number string ("1234567.5") the way inputs show
// it: dot-grouped thousands and a decimal comma ("1.234.567,5").
func FormatInput(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	parts := strings.Split(b.String(), ".")
	parts[0] = group(parts[0], '.')
	if len(parts) > 1 {
		return parts[0] + "," + parts[1]
	}
	return parts[0]
}

// group inserts sep every three digits from the right.
func group(digits string, sep byte) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// InputString renders v so that ParseOrZero reads it back: no grouping and
// a decimal comma.
func InputString(v float64) string {
	if !isFinite(v) {
		return "0"
	}
	return strings.Replace(strconv.FormatFloat(v, 'f', -1, 64), ".", ",", 1)
}
