package domain

import "strings"

// SupplyTier is an assumption about how much OP20 MOTO circulates.
type SupplyTier int

const (
	SupplyHigh SupplyTier = iota
	SupplyMid
	SupplyLow
)

var supplyTiers = map[SupplyTier]struct {
	name        string
	circulating float64
}{
	SupplyLow:  {"LOW", 550_000_000},
	SupplyMid:  {"MID", 650_000_000},
	SupplyHigh: {"HIGH", 1_000_000_000},
}

// Circulating returns the tier's circulating supply.
func (t SupplyTier) Circulating() float64 {
	return supplyTiers[t].circulating
}

// String returns LOW, MID or HIGH.
func (t SupplyTier) String() string {
	if s, ok := supplyTiers[t]; ok {
		return s.name
	}
	return "UNKNOWN"
}

// Next cycles LOW -> MID -> HIGH -> LOW.
func (t SupplyTier) Next() SupplyTier {
	switch t {
	case SupplyLow:
		return SupplyMid
	case SupplyMid:
		return SupplyHigh
	default:
		return SupplyLow
	}
}

// ParseSupplyTier parses a tier name, case-insensitive.
func ParseSupplyTier(s string) (SupplyTier, bool) {
	for t, info := range supplyTiers {
		if strings.EqualFold(s, info.name) {
			return t, true
		}
	}
	return SupplyHigh, false
}

// Scenario is a hypothetical fully diluted market cap.
type Scenario struct {
	MarketCap float64
	Label     string
	Tier      string
}

var defaultScenarios = [...]Scenario{
	{100_000_000, "$100M", "Conservative"},
	{250_000_000, "$250M", "Moderate"},
	{500_000_000, "$500M", "Solid"},
	{1_000_000_000, "$1B", "Success"},
	{2_500_000_000, "$2.5B", "Major"},
	{5_000_000_000, "$5B", "Moonshot"},
}

// DefaultScenarios returns the market cap targets, ascending.
func DefaultScenarios() []Scenario {
	out := make([]Scenario, len(defaultScenarios))
	copy(out, defaultScenarios[:])
	return out
}

// NotApplicable is shown for PNL figures that cannot be computed.
const NotApplicable = "—"

// Optional is a figure that may not apply. It distinguishes "no data" from zero.
type Optional struct {
	Value      float64
	Applicable bool
}

// Some wraps an applicable value.
func Some(v float64) Optional {
	return Optional{Value: v, Applicable: true}
}

// Format renders the value with f, or NotApplicable.
func (o Optional) Format(f func(float64) string) string {
	if !o.Applicable {
		return NotApplicable
	}
	return f(o.Value)
}

// ScenarioRow is a portfolio projected onto one scenario.
type ScenarioRow struct {
	Scenario
	ImpliedPrice float64
	Value        float64
	PNL          Optional
	PNLPercent   Optional
}

// Project prices the portfolio's MOTO at each scenario market cap under the
// given supply tier. Holdings valued independently of MOTO are added as is.
// PNL only applies when something was invested.
func Project(p Portfolio, tier SupplyTier, scenarios []Scenario) []ScenarioRow {
	equiv := p.OP20Equivalent()
	independent := p.IndependentValue()
	invested := p.TotalInvested()

	rows := make([]ScenarioRow, 0, len(scenarios))
	for _, s := range scenarios {
		price := PriceFromMarketCap(s.MarketCap, tier.Circulating())
		value := independent
		if IsPriced(price) {
			value += equiv * price
		}
		rows = append(rows, newRow(s, price, value, invested))
	}
	return rows
}

// CurrentRow is the market cap implied by the current OP20 price.
func CurrentRow(p Portfolio, tier SupplyTier) ScenarioRow {
	s := Scenario{
		MarketCap: p.OP20UnitPrice * tier.Circulating(),
		Label:     "Current",
		Tier:      "Now",
	}
	value := p.OP20Equivalent()*p.OP20UnitPrice + p.IndependentValue()
	return newRow(s, p.OP20UnitPrice, value, p.TotalInvested())
}

func newRow(s Scenario, price, value, invested float64) ScenarioRow {
	row := ScenarioRow{
		Scenario:     s,
		ImpliedPrice: price,
		Value:        value,
	}
	if invested > 0 {
		v := NewValuation(value, invested)
		row.PNL = Some(v.PNL)
		row.PNLPercent = Some(v.PNLPercent)
	}
	return row
}
