package domain

import "gonum.org/v1/gonum/floats"

// Position names.
const (
	PositionMOTO     = "MOTO"
	PositionMotocats = "Motocats"
	PositionPills    = "Pills"
)

// Defaults used before the first spot feed update lands. The CBRC price
// only seeds the input field.
const (
	DefaultBTCUSD            = 100_000
	DefaultMotocatsFloorSats = 344_000
	DefaultCBRCPriceSats     = 1000
)

// Position is one holding with its current unit price and the amount spent on it.
// A zero UnitPrice means the price is unknown.
type Position struct {
	Name      string
	Quantity  float64
	UnitPrice float64
	Invested  float64
}

// Valuation is the value and PNL of a position or of the whole portfolio.
type Valuation struct {
	Value      float64
	Invested   float64
	PNL        float64
	PNLPercent float64
}

// Value returns Quantity * UnitPrice.
func (p Position) Value() float64 {
	return p.Quantity * p.UnitPrice
}

// Valuate computes value and PNL for the position.
func (p Position) Valuate() Valuation {
	return NewValuation(p.Value(), p.Invested)
}

// NewValuation derives PNL from a value and an invested amount. The percent
// is 0 when nothing was invested.
func NewValuation(value, invested float64) Valuation {
	pnl := value - invested
	pct := 0.0
	if invested > 0 {
		pct = pnl / invested * 100
	}
	return Valuation{
		Value:      value,
		Invested:   invested,
		PNL:        pnl,
		PNLPercent: pct,
	}
}

// Market is the spot data the portfolio is priced with.
type Market struct {
	BTCUSD            float64
	MotocatsFloorSats float64
}

// DefaultMarket returns the fallback market.
func DefaultMarket() Market {
	return Market{
		BTCUSD:            DefaultBTCUSD,
		MotocatsFloorSats: DefaultMotocatsFloorSats,
	}
}

// HoldingsInput is the raw text the user typed for each holding.
type HoldingsInput struct {
	CBRCAmount    string
	OP20Amount    string
	MotocatsCount string
	PillsAmount   string
	CBRCPriceSats string

	InvestedMOTO     string
	InvestedMotocats string
	InvestedPills    string
}

// Portfolio is a priced set of positions.
type Portfolio struct {
	Positions []Position

	CBRCAmount    float64
	OP20Amount    float64
	CBRCUnitPrice float64 // USD
	OP20UnitPrice float64 // USD
	MotocatsFloor float64 // USD per cat
}

// BuildPortfolio parses the holdings and prices them against m.
// CBRC and OP20 are one MOTO position measured in OP20 units.
func BuildPortfolio(in HoldingsInput, m Market) Portfolio {
	cbrcPriceSats := ParseOrZero(in.CBRCPriceSats)
	cbrcUSD := SatsToUSD(cbrcPriceSats, m.BTCUSD)
	op20USD := cbrcUSD / CBRCToOP20Ratio
	floorUSD := SatsToUSD(m.MotocatsFloorSats, m.BTCUSD)

	p := Portfolio{
		CBRCAmount:    ParseOrZero(in.CBRCAmount),
		OP20Amount:    ParseOrZero(in.OP20Amount),
		CBRCUnitPrice: cbrcUSD,
		OP20UnitPrice: op20USD,
		MotocatsFloor: floorUSD,
	}

	p.Positions = []Position{
		{
			Name:      PositionMOTO,
			Quantity:  p.OP20Equivalent(),
			UnitPrice: op20USD,
			Invested:  ParseOrZero(in.InvestedMOTO),
		},
		{
			Name:      PositionMotocats,
			Quantity:  ParseOrZero(in.MotocatsCount),
			UnitPrice: floorUSD,
			Invested:  ParseOrZero(in.InvestedMotocats),
		},
		{
			Name:     PositionPills,
			Quantity: ParseOrZero(in.PillsAmount),
			Invested: ParseOrZero(in.InvestedPills),
		},
	}
	return p
}

// OP20Equivalent is the MOTO holding normalized to OP20 units.
func (p Portfolio) OP20Equivalent() float64 {
	return p.OP20Amount + CBRCToOP20(p.CBRCAmount)
}

// CBRCValue is the USD value of the CBRC-20 part of the holding.
func (p Portfolio) CBRCValue() float64 {
	return p.CBRCAmount * p.CBRCUnitPrice
}

// OP20Value is the USD value of the OP20 part of the holding.
func (p Portfolio) OP20Value() float64 {
	return p.OP20Amount * p.OP20UnitPrice
}

// Position returns the named position.
func (p Portfolio) Position(name string) (Position, bool) {
	for _, pos := range p.Positions {
		if pos.Name == name {
			return pos, true
		}
	}
	return Position{}, false
}

// IndependentValue is the value of holdings not denominated in MOTO, which
// market cap scenarios leave untouched.
func (p Portfolio) IndependentValue() float64 {
	cats, _ := p.Position(PositionMotocats)
	return cats.Value()
}

// TotalInvested sums invested amounts over all positions.
func (p Portfolio) TotalInvested() float64 {
	invested := make([]float64, len(p.Positions))
	for i, pos := range p.Positions {
		invested[i] = pos.Invested
	}
	return floats.Sum(invested)
}

// Totals sums every position, unpriced ones included at value 0.
func (p Portfolio) Totals() Valuation {
	values := make([]float64, len(p.Positions))
	for i, pos := range p.Positions {
		values[i] = pos.Value()
	}
	return NewValuation(floats.Sum(values), p.TotalInvested())
}
