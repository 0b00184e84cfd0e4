package components

import (
	"fmt"
	"strings"

	"github.com/fd1az/optrack/business/valuation/domain"
)

// YieldView renders the staking calculator output.
func YieldView(r domain.YieldResult, c domain.Compounding, horizonMonths float64) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("STAKING YIELD"))
	b.WriteString("\n\n")
	b.WriteString(kv("Daily fees", domain.FormatUSD(r.DailyFees)))
	b.WriteString(kv("Fee per staked MOTO", fmt.Sprintf("$%.8f", r.FeePerStakedUnit)))
	b.WriteString(kv("Pool share", domain.FormatNumber(r.PoolShare, 4)+"%"))
	b.WriteString(kv("Simple APY", goldStyle.Render(domain.FormatNumber(r.SimpleAPY, 2)+"%")))
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("  %-10s %14s %18s\n", "Rewards", "USD", "MOTO"))
	b.WriteString(rule(44))
	periods := []struct {
		name         string
		quote, asset float64
	}{
		{"Daily", r.Quote.Daily, r.Asset.Daily},
		{"Weekly", r.Quote.Weekly, r.Asset.Weekly},
		{"Monthly", r.Quote.Monthly, r.Asset.Monthly},
		{"Yearly", r.Quote.Yearly, r.Asset.Yearly},
	}
	for _, p := range periods {
		b.WriteString(fmt.Sprintf("  %-10s %14s %18s\n",
			p.name, domain.FormatUSD(p.quote), domain.FormatNumber(p.asset, 2)))
	}

	cp := r.Compound
	b.WriteString("\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("COMPOUNDED %s OVER %s MONTHS",
		strings.ToUpper(c.String()), domain.FormatNumber(horizonMonths, 0))))
	b.WriteString("\n\n")
	b.WriteString(kv("Principal", domain.FormatUSD(cp.Principal)))
	b.WriteString(kv("Final value", valueStyle.Render(domain.FormatUSD(cp.FinalValue))))
	b.WriteString(kv("Gain", signed(cp.Gain).Render(
		domain.FormatUSD(cp.Gain)+" ("+domain.FormatPercent(cp.GainPercent)+")")))

	return b.String()
}

// PresetsView lists the reference volumes and staking levels.
func PresetsView() string {
	var b strings.Builder

	b.WriteString(dimStyle.Render("  Volume presets (bear/neutral/bull): "))
	byDEX := map[string][]string{}
	var order []string
	for _, p := range domain.VolumePresets() {
		if _, ok := byDEX[p.DEX]; !ok {
			order = append(order, p.DEX)
		}
		byDEX[p.DEX] = append(byDEX[p.DEX], domain.FormatUSD(p.Volume))
	}
	for i, dex := range order {
		if i > 0 {
			b.WriteString(dimStyle.Render(" • "))
		}
		b.WriteString(dimStyle.Render(dex + " " + strings.Join(byDEX[dex], "/")))
	}
	b.WriteString("\n")

	b.WriteString(dimStyle.Render("  Staking presets: "))
	for i, p := range domain.StakingPresets() {
		if i > 0 {
			b.WriteString(dimStyle.Render(" • "))
		}
		b.WriteString(dimStyle.Render(fmt.Sprintf("%s %.0f%%", p.Name, p.Percent)))
	}
	b.WriteString("\n")

	return b.String()
}
