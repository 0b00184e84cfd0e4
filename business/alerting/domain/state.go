package domain

import (
	"math"
	"sort"
)

// PriceHistory maps a symbol to the last price seen for it.
type PriceHistory map[string]float64

// Change returns the percent move from the recorded price to cur. ok is
// false when there is no prior price, it is zero, or it equals cur.
func (h PriceHistory) Change(symbol string, cur float64) (pct float64, prev float64, ok bool) {
	prev, found := h[symbol]
	if !found || prev == 0 || prev == cur {
		return 0, prev, false
	}
	return PercentChange(prev, cur), prev, true
}

// PercentChange is (cur - prev) / prev * 100.
func PercentChange(prev, cur float64) float64 {
	return (cur - prev) / prev * 100
}

// Crosses reports whether a move reaches the threshold. The boundary is
// inclusive.
func Crosses(pct, threshold float64) bool {
	return math.Abs(pct) >= threshold
}

// KnownTokenSet is the grow-only set of symbols ever observed successfully.
type KnownTokenSet map[string]struct{}

// Add inserts symbol and reports whether it was new.
func (s KnownTokenSet) Add(symbol string) bool {
	if _, ok := s[symbol]; ok {
		return false
	}
	s[symbol] = struct{}{}
	return true
}

// Has reports membership.
func (s KnownTokenSet) Has(symbol string) bool {
	_, ok := s[symbol]
	return ok
}

// Symbols returns the members, sorted.
func (s KnownTokenSet) Symbols() []string {
	out := make([]string, 0, len(s))
	for sym := range s {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}
