package domain

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatUSD renders a dollar amount with B/M/K suffixes.
func FormatUSD(v float64) string {
	if !isFinite(v) {
		return "$0.00"
	}

	abs := math.Abs(v)
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("$%.2fK", v/1e3)
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}

// FormatNumber renders v with comma thousands grouping and at most decimals
// fractional digits, trailing zeros dropped ("1,234,567.89").
func FormatNumber(v float64, decimals int) string {
	if !isFinite(v) {
		return "0"
	}

	s := decimal.NewFromFloat(v).Round(int32(decimals)).String()

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, frac, hasFrac := strings.Cut(s, ".")
	out := sign + group(intPart, ',')
	if hasFrac {
		out += "." + frac
	}
	return out
}

// FormatPercent renders a sign-prefixed percentage with two decimals.
func FormatPercent(v float64) string {
	if !isFinite(v) {
		return "0.00%"
	}
	if v >= 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}

// FormatPrice renders a unit price, with more precision for small prices.
func FormatPrice(v float64) string {
	if !isFinite(v) {
		return "$0.00"
	}

	switch {
	case v < 0.01:
		return fmt.Sprintf("$%.4f", v)
	case v < 1:
		return fmt.Sprintf("$%.3f", v)
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}

// FormatSats renders a price or notional expressed in sats. A nil or
// non-finite value is rendered as "N/A". From 1000 sats up it is scaled to
// K or M.
func FormatSats(v *float64) string {
	if v == nil || !isFinite(*v) {
		return "N/A"
	}

	sats := *v
	switch {
	case sats < 0.01:
		return shortExponent(fmt.Sprintf("%.2e", sats)) + " sats"
	case sats < 1:
		return fmt.Sprintf("%.4f sats", sats)
	case sats < 1000:
		return fmt.Sprintf("%.2f sats", sats)
	case sats < 1e6:
		return fmt.Sprintf("%.1fK sats", sats/1e3)
	default:
		return fmt.Sprintf("%.2fM sats", sats/1e6)
	}
}

// shortExponent drops exponent zero padding: "1.23e-03" -> "1.23e-3".
func shortExponent(s string) string {
	mant, exp, ok := strings.Cut(s, "e")
	if !ok || len(exp) < 2 {
		return s
	}
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + sign + digits
}
