// Package domain contains the valuation arithmetic: denomination conversions,
// portfolio PNL, market cap scenarios and staking yield.
package domain

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// MOTO denomination constants.
const (
	CBRCSupply = 21_000_000
	OP20Supply = 1_000_000_000
	// CBRCToOP20Ratio is how many OP20 units one CBRC unit converts to.
	CBRCToOP20Ratio = 47.619047619

	SatsPerBTC = 100_000_000

	// MotoSwapQuoteDecimals is the precision of the BTC side of a MotoSwap pool.
	MotoSwapQuoteDecimals = 18
)

// Convert returns amount expressed in the target denomination.
func Convert(amount, ratio float64) float64 {
	return amount * ratio
}

// ConvertBack is the inverse of Convert. A zero ratio yields 0.
func ConvertBack(amount, ratio float64) float64 {
	if ratio == 0 {
		return 0
	}
	return amount / ratio
}

// CBRCToOP20 converts a CBRC-20 amount to OP20 units.
func CBRCToOP20(cbrc float64) float64 {
	return Convert(cbrc, CBRCToOP20Ratio)
}

// OP20ToCBRC converts an OP20 amount to CBRC-20 units.
func OP20ToCBRC(op20 float64) float64 {
	return ConvertBack(op20, CBRCToOP20Ratio)
}

// MirrorCBRC converts a typed CBRC-20 amount to an OP20 input with 2
// decimals. Empty or unparsable input clears the other side.
func MirrorCBRC(raw string) string {
	v, ok := ParseInput(raw)
	if !ok {
		return ""
	}
	return fixedInput(CBRCToOP20(v), 2)
}

// MirrorOP20 converts a typed OP20 amount to a CBRC-20 input with 4 decimals.
func MirrorOP20(raw string) string {
	v, ok := ParseInput(raw)
	if !ok {
		return ""
	}
	return fixedInput(OP20ToCBRC(v), 4)
}

func fixedInput(v float64, decimals int) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', decimals, 64), ".", ",", 1)
}

// SatsToBTC converts satoshis to whole bitcoin.
func SatsToBTC(sats float64) float64 {
	return sats / SatsPerBTC
}

// SatsToUSD prices satoshis at the given BTC/USD rate.
func SatsToUSD(sats, btcUSD float64) float64 {
	return SatsToBTC(sats) * btcUSD
}

// BTCToSats converts whole bitcoin to satoshis, rounded to the nearest sat.
func BTCToSats(btc float64) int64 {
	return int64(math.Round(btc * SatsPerBTC))
}

// PriceFromMarketCap returns the unit price implied by a market cap.
// Non-positive supply or non-finite input yields NaN, never ±Inf.
func PriceFromMarketCap(marketCap, supply float64) float64 {
	if !isFinite(marketCap) || !isFinite(supply) || supply <= 0 {
		return math.NaN()
	}
	return marketCap / supply
}

// IsPriced reports whether v is a usable price (finite).
func IsPriced(v float64) bool {
	return isFinite(v)
}

// PriceFromPoolReserves returns the price of the asset in quote units.
// ok is false when the asset reserve is zero or missing.
func PriceFromPoolReserves(reserveAsset, reserveQuote *big.Int, assetDecimals, quoteDecimals uint8) (float64, bool) {
	if reserveAsset == nil || reserveQuote == nil || reserveAsset.Sign() <= 0 || reserveQuote.Sign() < 0 {
		return 0, false
	}

	asset := decimal.NewFromBigInt(reserveAsset, -int32(assetDecimals))
	quote := decimal.NewFromBigInt(reserveQuote, -int32(quoteDecimals))

	price, _ := quote.DivRound(asset, 36).Float64()
	return price, true
}

// PoolSide is one token slot of a two-sided pool.
type PoolSide struct {
	TokenID string // hex contract id
	Reserve *big.Int
}

// ResolvePoolPrice picks the asset's slot by comparing assetID with each
// side's token id and prices it against the other side. If neither slot
// belongs to the asset the price is undefined.
func ResolvePoolPrice(sides [2]PoolSide, assetID string, assetDecimals uint8) (float64, bool) {
	switch {
	case sameID(sides[0].TokenID, assetID):
		return PriceFromPoolReserves(sides[0].Reserve, sides[1].Reserve, assetDecimals, MotoSwapQuoteDecimals)
	case sameID(sides[1].TokenID, assetID):
		return PriceFromPoolReserves(sides[1].Reserve, sides[0].Reserve, assetDecimals, MotoSwapQuoteDecimals)
	default:
		return 0, false
	}
}

func sameID(a, b string) bool {
	a, b = trimHex(a), trimHex(b)
	return a != "" && strings.EqualFold(a, b)
}

func trimHex(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
