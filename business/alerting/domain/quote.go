// Package domain contains the alert monitor types: token quotes, observed
// state and notification messages.
package domain

import (
	"math"
	"time"
)

// TokenData is what a successful fetch observed for one token.
type TokenData struct {
	Name      string
	Price     *float64 // sats per token, nil if the token has no pool
	Supply    *float64 // whole tokens
	Decimals  uint8
	Address   string
	FetchedAt time.Time
}

// TokenQuote is Ok (data) or Err (reason) for one tracked symbol.
type TokenQuote struct {
	Symbol string
	data   *TokenData
	reason string
}

// NewOkQuote builds a successful quote.
func NewOkQuote(symbol string, data TokenData) TokenQuote {
	return TokenQuote{Symbol: symbol, data: &data}
}

// NewErrQuote builds a failed quote.
func NewErrQuote(symbol, reason string) TokenQuote {
	if reason == "" {
		reason = "unknown error"
	}
	return TokenQuote{Symbol: symbol, reason: reason}
}

// IsErr reports whether the fetch failed.
func (q TokenQuote) IsErr() bool {
	return q.data == nil
}

// Data returns the observed data of an Ok quote.
func (q TokenQuote) Data() (TokenData, bool) {
	if q.data == nil {
		return TokenData{}, false
	}
	return *q.data, true
}

// Reason returns why an Err quote failed.
func (q TokenQuote) Reason() string {
	return q.reason
}

// Price returns the price of an Ok quote that has a usable one. Zero,
// negative and non-finite prices count as unpriced.
func (q TokenQuote) Price() (float64, bool) {
	if q.data == nil || q.data.Price == nil {
		return 0, false
	}
	p := *q.data.Price
	if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
		return 0, false
	}
	return p, true
}

// Supply returns the total supply of an Ok quote, 0 if unknown.
func (q TokenQuote) Supply() float64 {
	if q.data == nil || q.data.Supply == nil {
		return 0
	}
	return *q.data.Supply
}
