package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func TestTokenQuote_Price(t *testing.T) {
	tests := []struct {
		name   string
		quote  TokenQuote
		want   float64
		wantOK bool
	}{
		{"priced", NewOkQuote("MOTO", TokenData{Price: ptr(12.5)}), 12.5, true},
		{"no_pool", NewOkQuote("MOTO", TokenData{}), 0, false},
		{"zero", NewOkQuote("MOTO", TokenData{Price: ptr(0)}), 0, false},
		{"nan", NewOkQuote("MOTO", TokenData{Price: ptr(math.NaN())}), 0, false},
		{"err", NewErrQuote("MOTO", "rpc down"), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.quote.Price()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewErrQuote_DefaultReason(t *testing.T) {
	q := NewErrQuote("PILL", "")
	assert.True(t, q.IsErr())
	assert.Equal(t, "unknown error", q.Reason())
	_, ok := q.Data()
	assert.False(t, ok)
}

func TestPriceHistory_Change(t *testing.T) {
	h := PriceHistory{"MOTO": 10, "ZERO": 0}

	_, _, ok := h.Change("PILL", 5)
	assert.False(t, ok, "no prior price")

	_, _, ok = h.Change("ZERO", 5)
	assert.False(t, ok, "zero prior price")

	_, _, ok = h.Change("MOTO", 10)
	assert.False(t, ok, "unchanged price")

	pct, prev, ok := h.Change("MOTO", 10.5)
	assert.True(t, ok)
	assert.Equal(t, 10.0, prev)
	assert.InDelta(t, 5.0, pct, 1e-9)
}

func TestCrosses(t *testing.T) {
	assert.True(t, Crosses(5, 5), "boundary is inclusive")
	assert.True(t, Crosses(-7, 5))
	assert.False(t, Crosses(4.99, 5))
	assert.True(t, Crosses(0.01, 0))
}

func TestKnownTokenSet(t *testing.T) {
	s := KnownTokenSet{}
	assert.True(t, s.Add("PILL"))
	assert.True(t, s.Add("MOTO"))
	assert.False(t, s.Add("MOTO"))
	assert.True(t, s.Has("PILL"))
	assert.False(t, s.Has("ODYS"))
	assert.Equal(t, []string{"MOTO", "PILL"}, s.Symbols())
}
