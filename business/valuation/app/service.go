// Package app contains the dashboard service of the valuation context.
package app

import (
	"sync"
	"time"

	"github.com/fd1az/optrack/business/valuation/domain"
)

// Snapshot is everything the dashboard shows for one set of holdings.
type Snapshot struct {
	Market    domain.Market
	Portfolio domain.Portfolio
	Totals    domain.Valuation
	Tier      domain.SupplyTier
	Current   domain.ScenarioRow
	Scenarios []domain.ScenarioRow
	UpdatedAt time.Time // last market update, zero if still on defaults
}

// Dashboard holds the live market and prices holdings against it.
// Feed goroutines update the market while the UI reads snapshots.
type Dashboard struct {
	mu        sync.RWMutex
	market    domain.Market
	updatedAt time.Time
	scenarios []domain.Scenario
}

// NewDashboard creates a Dashboard on the default market.
func NewDashboard() *Dashboard {
	return &Dashboard{
		market:    domain.DefaultMarket(),
		scenarios: domain.DefaultScenarios(),
	}
}

// SetBTCUSD records a new BTC/USD spot price. Non-positive prices are ignored.
func (d *Dashboard) SetBTCUSD(price float64, at time.Time) {
	if !(price > 0) || !domain.IsPriced(price) {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.market.BTCUSD = price
	d.updatedAt = at
}

// SetFloorSats records a new Motocats floor in sats. Non-positive values are ignored.
func (d *Dashboard) SetFloorSats(sats float64, at time.Time) {
	if !(sats > 0) || !domain.IsPriced(sats) {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.market.MotocatsFloorSats = sats
	d.updatedAt = at
}

// Market returns the current market.
func (d *Dashboard) Market() domain.Market {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.market
}

// Snapshot prices the holdings and projects every scenario for the tier.
func (d *Dashboard) Snapshot(in domain.HoldingsInput, tier domain.SupplyTier) Snapshot {
	d.mu.RLock()
	market, updatedAt := d.market, d.updatedAt
	d.mu.RUnlock()

	p := domain.BuildPortfolio(in, market)
	return Snapshot{
		Market:    market,
		Portfolio: p,
		Totals:    p.Totals(),
		Tier:      tier,
		Current:   domain.CurrentRow(p, tier),
		Scenarios: domain.Project(p, tier, d.scenarios),
		UpdatedAt: updatedAt,
	}
}

// Yield runs the staking calculator.
func (d *Dashboard) Yield(in domain.YieldInput) domain.YieldResult {
	return domain.CalculateYield(in.Params())
}

// Airdrop runs the Motocats calculator. An empty BTC price uses the live market.
func (d *Dashboard) Airdrop(in domain.AirdropInput) domain.Airdrop {
	if in.BTCUSD == "" {
		in.BTCUSD = domain.InputString(d.Market().BTCUSD)
	}
	return domain.CalculateAirdrop(in)
}
